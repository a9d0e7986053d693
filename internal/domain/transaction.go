// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType defines the direction of a ledger entry.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// TransactionStatus defines the status of a ledger entry.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is an immutable audit record of a single credit or debit
// against a wallet. The transaction log is the single source of truth for
// wallet history; a wallet's embedded history view is derived from it.
type Transaction struct {
	ID          int64             `db:"id" json:"id"`
	UserID      int64             `db:"user_id" json:"user_id"`
	WalletID    int64             `db:"wallet_id" json:"wallet_id"`
	Amount      decimal.Decimal   `db:"amount" json:"amount"` // always positive; Type carries the sign
	Type        TransactionType   `db:"type" json:"type"`
	Status      TransactionStatus `db:"status" json:"status"`
	Description string            `db:"description" json:"description"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
}

// NewTransaction creates a completed Transaction record.
func NewTransaction(userID, walletID int64, amount decimal.Decimal, txType TransactionType, description string) *Transaction {
	return &Transaction{
		UserID:      userID,
		WalletID:    walletID,
		Amount:      amount,
		Type:        txType,
		Status:      TransactionStatusCompleted,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
}

// Signed returns the amount with the sign implied by the entry type.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == TransactionTypeDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}
