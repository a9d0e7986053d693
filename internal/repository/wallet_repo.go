// internal/repository/wallet_repo.go
package repository

import (
	"context"

	"rentflow/internal/domain"

	"github.com/shopspring/decimal"
)

// WalletRepository defines the interface for wallet data operations.
type WalletRepository interface {
	// CreateWallet adds a new wallet using the provided DBExecutor.
	CreateWallet(ctx context.Context, q DBExecutor, wallet *domain.Wallet) error
	// GetWalletByOwnerID retrieves a wallet by its owner's user ID.
	GetWalletByOwnerID(ctx context.Context, q DBExecutor, ownerID int64) (*domain.Wallet, error)
	// GetWalletByOwnerIDForUpdate retrieves a wallet and locks its row for
	// the duration of the surrounding transaction.
	GetWalletByOwnerIDForUpdate(ctx context.Context, q DBExecutor, ownerID int64) (*domain.Wallet, error)
	// UpdateWalletBalance adjusts the balance of a wallet by the signed amount.
	UpdateWalletBalance(ctx context.Context, q DBExecutor, walletID int64, amount decimal.Decimal) error
}
