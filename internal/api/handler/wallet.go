// internal/api/handler/wallet.go
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"rentflow/internal/api/middleware"
	"rentflow/internal/api/types"
	"rentflow/internal/domain"
	"rentflow/internal/service"
	"rentflow/internal/util"
)

// WalletHandler handles HTTP requests related to wallet and ledger
// operations.
type WalletHandler struct {
	service service.LedgerService
	logger  *slog.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(svc service.LedgerService, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{
		service: svc,
		logger:  logger,
	}
}

// AddFundsRequest represents the request body for a wallet top-up.
type AddFundsRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	CardNumber string          `json:"card_number" validate:"required,len=16,numeric"`
	CVV        string          `json:"cvv" validate:"required,len=3,numeric"`
}

// AddFunds handles the wallet top-up request.
// POST /wallet/funds
func (h *WalletHandler) AddFunds(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req AddFundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	wallet, transaction, err := h.service.AddFunds(r.Context(), principal.UserID, req.Amount, req.CardNumber, req.CVV)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":        "Funds added successfully",
		"wallet_id":      wallet.ID,
		"new_balance":    wallet.Balance,
		"transaction_id": transaction.ID,
	})
}

// GetWallet handles the get wallet request, lazily creating the wallet on
// first access.
// GET /wallet
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	wallet, transactions, err := h.service.GetWallet(r.Context(), principal.UserID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"wallet_id":    wallet.ID,
		"balance":      wallet.Balance,
		"transactions": transactions,
	})
}

// MakePaymentRequest represents the request body for an ad-hoc debit.
type MakePaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// MakePayment handles the ad-hoc debit request.
// POST /wallet/payment
func (h *WalletHandler) MakePayment(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req MakePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Payment of %s", req.Amount)
	}

	wallet, transaction, err := h.service.ApplyEntry(r.Context(), principal.UserID, req.Amount,
		domain.TransactionTypeDebit, description)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":        "Payment successful",
		"wallet_id":      wallet.ID,
		"new_balance":    wallet.Balance,
		"transaction_id": transaction.ID,
	})
}

// CreateTransactionRequest represents the request body for a generic ledger
// entry.
type CreateTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type" validate:"required,oneof=credit debit"`
	Description string          `json:"description" validate:"required"`
}

// CreateTransaction handles the generic ledger entry request.
// POST /transactions
func (h *WalletHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	wallet, transaction, err := h.service.ApplyEntry(r.Context(), principal.UserID, req.Amount,
		domain.TransactionType(req.Type), req.Description)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, map[string]interface{}{
		"transaction": transaction,
		"new_balance": wallet.Balance,
	})
}

// GetTransactionHistory handles the transaction history request.
// GET /wallet/transactions
func (h *WalletHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	transactions, total, err := h.service.GetTransactionHistory(r.Context(), principal.UserID, limit, offset)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, types.PaginatedResponse[domain.Transaction]{
		Data:       transactions,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}

// BookingPayments handles the platform booking payments aggregate request.
// GET /admin/wallet/booking-payments
func (h *WalletHandler) BookingPayments(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.PlatformBookingPayments(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, summary)
}
