// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"rentflow/internal/api/handler"
	authmw "rentflow/internal/api/middleware"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(bookingHandler *handler.BookingHandler, walletHandler *handler.WalletHandler, jwtSecret string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Authenticated API routes
	r.Group(func(r chi.Router) {
		r.Use(authmw.Authenticate(jwtSecret, logger))

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", bookingHandler.Create)
			r.Get("/", bookingHandler.ListMine)
			r.Post("/{bookingID}/payment", bookingHandler.Pay)
			r.Post("/{bookingID}/cancel", bookingHandler.Cancel)
			r.Post("/{bookingID}/complete", bookingHandler.Complete)
		})

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/", walletHandler.GetWallet)
			r.Post("/funds", walletHandler.AddFunds)
			r.Post("/payment", walletHandler.MakePayment)
			r.Get("/transactions", walletHandler.GetTransactionHistory)
		})

		r.Post("/transactions", walletHandler.CreateTransaction)

		// Platform operator routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(authmw.RequireAdmin(logger))

			r.Get("/bookings", bookingHandler.ListAll)
			r.Post("/bookings/sweep", bookingHandler.Sweep)
			r.Post("/bookings/advance", bookingHandler.AdvanceStarting)
			r.Get("/wallet/booking-payments", walletHandler.BookingPayments)
		})
	})

	return r
}
