// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"rentflow/internal/domain"

	"github.com/shopspring/decimal"
)

// TransactionRepository defines the interface for the append-only ledger.
type TransactionRepository interface {
	// CreateTransaction adds a new ledger record using the provided DBExecutor.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionsByWalletID retrieves the ledger history for a wallet,
	// newest first, along with the total record count.
	GetTransactionsByWalletID(ctx context.Context, q DBExecutor, walletID int64, limit, offset int) ([]domain.Transaction, int64, error)
	// SumBookingPayments totals credit records on a wallet whose description
	// marks them as received booking payments, returning the sum and count.
	SumBookingPayments(ctx context.Context, q DBExecutor, walletID int64) (decimal.Decimal, int64, error)
}
