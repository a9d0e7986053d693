// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"

	"rentflow/internal/domain"
	"rentflow/internal/repository"
	"rentflow/internal/util"
	"rentflow/pkg/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingPaymentsSummary aggregates the booking payments received by the
// platform wallet.
type BookingPaymentsSummary struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	Count       int64           `json:"count"`
}

// LedgerService defines the generic double-entry primitive and the wallet
// read surface. ApplyEntry runs in its own atomic unit; ApplyEntryIn runs
// inside a caller-owned unit so the payment engine can compose it twice per
// operation, once per party.
type LedgerService interface {
	ApplyEntry(ctx context.Context, userID int64, amount decimal.Decimal, txType domain.TransactionType, description string) (*domain.Wallet, *domain.Transaction, error)
	ApplyEntryIn(ctx context.Context, q repository.DBExecutor, userID int64, amount decimal.Decimal, txType domain.TransactionType, description string) (*domain.Wallet, *domain.Transaction, error)
	AddFunds(ctx context.Context, userID int64, amount decimal.Decimal, cardNumber, cvv string) (*domain.Wallet, *domain.Transaction, error)
	GetWallet(ctx context.Context, userID int64) (*domain.Wallet, []domain.Transaction, error)
	GetTransactionHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, int64, error)
	PlatformBookingPayments(ctx context.Context) (*BookingPaymentsSummary, error)
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	dbBeginner      db.DBTxBeginner
	dbExecutor      repository.DBExecutor
	userRepo        repository.UserRepository
	walletRepo      repository.WalletRepository
	transactionRepo repository.TransactionRepository
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	walletRepo repository.WalletRepository,
	transactionRepo repository.TransactionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) LedgerService {
	return &ledgerService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		userRepo:        userRepo,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
	}
}

// ApplyEntryIn appends a credit or debit to the user's wallet inside the
// caller's unit of work. The wallet is locked (and lazily created on first
// use); a debit that would take the balance below zero is rejected.
func (s *ledgerService) ApplyEntryIn(ctx context.Context, q repository.DBExecutor, userID int64, amount decimal.Decimal, txType domain.TransactionType, description string) (*domain.Wallet, *domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, util.ErrInvalidInput
	}
	if txType != domain.TransactionTypeCredit && txType != domain.TransactionTypeDebit {
		return nil, nil, util.ErrInvalidInput
	}

	wallet, err := s.walletRepo.GetWalletByOwnerIDForUpdate(ctx, q, userID)
	if err != nil {
		if !util.IsError(err, util.ErrWalletNotFound) {
			return nil, nil, fmt.Errorf("apply entry: failed to lock wallet for user %d: %w", userID, err)
		}
		wallet = domain.NewWallet(userID)
		if err := s.walletRepo.CreateWallet(ctx, q, wallet); err != nil {
			return nil, nil, fmt.Errorf("apply entry: failed to create wallet for user %d: %w", userID, err)
		}
	}

	delta := amount
	if txType == domain.TransactionTypeDebit {
		if wallet.Balance.LessThan(amount) {
			return nil, nil, util.ErrInsufficientFunds
		}
		delta = amount.Neg()
	}

	if err := s.walletRepo.UpdateWalletBalance(ctx, q, wallet.ID, delta); err != nil {
		return nil, nil, fmt.Errorf("apply entry: failed to update wallet balance: %w", err)
	}
	wallet.Balance = wallet.Balance.Add(delta)

	transaction := domain.NewTransaction(userID, wallet.ID, amount, txType, description)
	if err := s.transactionRepo.CreateTransaction(ctx, q, transaction); err != nil {
		return nil, nil, fmt.Errorf("apply entry: failed to create transaction: %w", err)
	}

	return wallet, transaction, nil
}

// ApplyEntry appends a credit or debit in its own atomic unit of work.
func (s *ledgerService) ApplyEntry(ctx context.Context, userID int64, amount decimal.Decimal, txType domain.TransactionType, description string) (*domain.Wallet, *domain.Transaction, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("apply entry: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("apply entry: transaction controller does not implement DBExecutor")
	}

	wallet, transaction, err := s.ApplyEntryIn(ctx, txExecutor, userID, amount, txType, description)
	if err != nil {
		return nil, nil, err
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("apply entry: failed to commit transaction: %w", err)
	}
	return wallet, transaction, nil
}

// AddFunds credits the user's wallet through the mock payment gateway.
func (s *ledgerService) AddFunds(ctx context.Context, userID int64, amount decimal.Decimal, cardNumber, cvv string) (*domain.Wallet, *domain.Transaction, error) {
	// Mock gateway validation, matching the card sanity rules of the real one.
	if len(cardNumber) != 16 || len(cvv) != 3 {
		return nil, nil, util.ErrInvalidInput
	}

	description := fmt.Sprintf("Fund added via mock gateway (reference: %s)", uuid.NewString())
	return s.ApplyEntry(ctx, userID, amount, domain.TransactionTypeCredit, description)
}

// GetWallet returns the user's wallet and its recent history, creating the
// wallet lazily when the user has none yet.
func (s *ledgerService) GetWallet(ctx context.Context, userID int64) (*domain.Wallet, []domain.Transaction, error) {
	wallet, err := s.walletRepo.GetWalletByOwnerID(ctx, s.dbExecutor, userID)
	if err != nil {
		if !util.IsError(err, util.ErrWalletNotFound) {
			return nil, nil, fmt.Errorf("get wallet: failed to get wallet for user %d: %w", userID, err)
		}

		txController, err := s.beginTx(ctx, s.dbBeginner)
		if err != nil {
			return nil, nil, fmt.Errorf("get wallet: failed to begin transaction: %w", err)
		}
		defer s.rollbackTx(txController)

		txExecutor, ok := txController.(repository.DBExecutor)
		if !ok {
			return nil, nil, fmt.Errorf("get wallet: transaction controller does not implement DBExecutor")
		}

		wallet = domain.NewWallet(userID)
		if err := s.walletRepo.CreateWallet(ctx, txExecutor, wallet); err != nil {
			return nil, nil, fmt.Errorf("get wallet: failed to create wallet for user %d: %w", userID, err)
		}
		if err := s.commitTx(txController); err != nil {
			return nil, nil, fmt.Errorf("get wallet: failed to commit transaction: %w", err)
		}
		return wallet, []domain.Transaction{}, nil
	}

	transactions, _, err := s.transactionRepo.GetTransactionsByWalletID(ctx, s.dbExecutor, wallet.ID, defaultHistoryLimit, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("get wallet: failed to fetch history: %w", err)
	}
	return wallet, transactions, nil
}

const defaultHistoryLimit = 50

// GetTransactionHistory retrieves a paginated ledger history for the user's wallet.
func (s *ledgerService) GetTransactionHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	wallet, err := s.walletRepo.GetWalletByOwnerID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("transaction history: failed to get wallet for user %d: %w", userID, err)
	}

	transactions, totalCount, err := s.transactionRepo.GetTransactionsByWalletID(ctx, s.dbExecutor, wallet.ID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("transaction history: failed to fetch transactions: %w", err)
	}
	return transactions, totalCount, nil
}

// PlatformBookingPayments aggregates the booking payments the platform
// wallet has received.
func (s *ledgerService) PlatformBookingPayments(ctx context.Context) (*BookingPaymentsSummary, error) {
	platform, err := s.userRepo.GetPlatformUser(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("booking payments: failed to resolve platform account: %w", err)
	}

	wallet, err := s.walletRepo.GetWalletByOwnerID(ctx, s.dbExecutor, platform.ID)
	if err != nil {
		if util.IsError(err, util.ErrWalletNotFound) {
			return &BookingPaymentsSummary{TotalAmount: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("booking payments: failed to get platform wallet: %w", err)
	}

	total, count, err := s.transactionRepo.SumBookingPayments(ctx, s.dbExecutor, wallet.ID)
	if err != nil {
		return nil, fmt.Errorf("booking payments: failed to aggregate: %w", err)
	}
	return &BookingPaymentsSummary{TotalAmount: total, Count: count}, nil
}
