// internal/api/handler/booking.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"rentflow/internal/api/middleware"
	"rentflow/internal/service"
	"rentflow/internal/util"
)

// BookingHandler handles HTTP requests related to booking operations.
type BookingHandler struct {
	service service.BookingService
	sweeper *service.Sweeper
	logger  *slog.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(svc service.BookingService, sweeper *service.Sweeper, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{
		service: svc,
		sweeper: sweeper,
		logger:  logger,
	}
}

// CreateBookingRequest represents the request body for creating a booking.
type CreateBookingRequest struct {
	CarID           int64           `json:"car_id" validate:"required"`
	StartDate       time.Time       `json:"start_date" validate:"required"`
	EndDate         time.Time       `json:"end_date" validate:"required,gtefield=StartDate"`
	PickupLocation  string          `json:"pickup_location" validate:"required"`
	DropoffLocation string          `json:"dropoff_location" validate:"required"`
	TotalPrice      decimal.Decimal `json:"total_price"`
}

// Create handles the create booking request.
// POST /bookings
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), principal.UserID, req.CarID,
		req.StartDate, req.EndDate, req.PickupLocation, req.DropoffLocation, req.TotalPrice)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, booking)
}

// Pay handles the booking payment request.
// POST /bookings/{bookingID}/payment
func (h *BookingHandler) Pay(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	bookingID, err := bookingIDParam(r)
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	booking, wallet, err := h.service.ProcessPayment(r.Context(), bookingID, principal.UserID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":     "Payment successful",
		"booking":     booking,
		"new_balance": wallet.Balance,
	})
}

// Cancel handles the booking cancellation request.
// POST /bookings/{bookingID}/cancel
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	bookingID, err := bookingIDParam(r)
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	booking, refunded, err := h.service.CancelBooking(r.Context(), bookingID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":         "Booking cancelled",
		"booking":         booking,
		"refunded_amount": refunded,
	})
}

// Complete handles the booking completion request.
// POST /bookings/{bookingID}/complete
func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	bookingID, err := bookingIDParam(r)
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	booking, err := h.service.CompleteBooking(r.Context(), bookingID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, booking)
}

// ListMine handles the list bookings request for the authenticated renter.
// GET /bookings
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	bookings, err := h.service.BookingsForUser(r.Context(), principal.UserID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{"data": bookings})
}

// ListAll handles the list all bookings request for the platform operator.
// GET /admin/bookings
func (h *BookingHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.AllBookings(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{"data": bookings})
}

// Sweep handles the on-demand expiry sweep request.
// POST /admin/bookings/sweep
func (h *BookingHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	report, err := h.sweeper.RunOnce(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	failures := make([]map[string]interface{}, 0, len(report.Failures))
	for _, f := range report.Failures {
		failures = append(failures, map[string]interface{}{
			"booking_id": f.BookingID,
			"error":      f.Err.Error(),
		})
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"advanced":  report.Advanced,
		"completed": report.Completed,
		"failures":  failures,
	})
}

// AdvanceStarting handles the on-demand status advance request, moving
// confirmed bookings that start today to inProgress.
// POST /admin/bookings/advance
func (h *BookingHandler) AdvanceStarting(w http.ResponseWriter, r *http.Request) {
	advanced, err := h.sweeper.AdvanceStarting(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{"advanced": advanced})
}

func bookingIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
}
