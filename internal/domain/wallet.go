// internal/domain/wallet.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// Wallet represents a user's stored balance.
// One wallet per owner, created lazily on first use. The balance equals the
// signed sum of the wallet's transaction records at all times.
type Wallet struct {
	ID        int64           `db:"id" json:"id"`
	OwnerID   int64           `db:"owner_id" json:"owner_id"` // unique per wallet
	Balance   decimal.Decimal `db:"balance" json:"balance"`   // NUMERIC(20, 4) in DB
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// NewWallet creates a new Wallet with a zero balance.
func NewWallet(ownerID int64) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		OwnerID:   ownerID,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
