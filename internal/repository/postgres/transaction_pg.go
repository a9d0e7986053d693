// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"

	"rentflow/internal/domain"
	"rentflow/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction inserts a new ledger record using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (user_id, wallet_id, amount, type, status, description, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transaction.UserID,
		transaction.WalletID,
		transaction.Amount,
		transaction.Type,
		transaction.Status,
		transaction.Description,
		transaction.CreatedAt,
	).Scan(&transaction.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionsByWalletID retrieves a paginated ledger history for a wallet.
// It performs two queries: one for the data and one for the total count.
func (r *TransactionRepository) GetTransactionsByWalletID(ctx context.Context, q repository.DBExecutor, walletID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	transactions := []domain.Transaction{}

	query := `
		SELECT id, user_id, wallet_id, amount, type, status, description, created_at
		FROM transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := q.SelectContext(ctx, &transactions, query, walletID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions for wallet %d: %w", walletID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM transactions WHERE wallet_id = $1`
	err = q.GetContext(ctx, &totalCount, countQuery, walletID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total transaction count for wallet %d: %w", walletID, err)
	}

	return transactions, totalCount, nil
}

// SumBookingPayments totals the credit records on a wallet that represent
// received booking payments.
func (r *TransactionRepository) SumBookingPayments(ctx context.Context, q repository.DBExecutor, walletID int64) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal `db:"total"`
		Count int64           `db:"count"`
	}
	query := `
		SELECT COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count
		FROM transactions
		WHERE wallet_id = $1 AND type = $2 AND description LIKE 'Received payment for booking%'`
	err := q.GetContext(ctx, &row, query, walletID, domain.TransactionTypeCredit)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to sum booking payments for wallet %d: %w", walletID, err)
	}
	return row.Total, row.Count, nil
}
