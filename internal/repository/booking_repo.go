// internal/repository/booking_repo.go
package repository

import (
	"context"
	"time"

	"rentflow/internal/domain"
)

// BookingRepository defines the interface for booking data operations.
type BookingRepository interface {
	// CreateBooking adds a new booking using the provided DBExecutor.
	CreateBooking(ctx context.Context, q DBExecutor, booking *domain.Booking) error
	// GetBookingByID retrieves a booking by its ID.
	GetBookingByID(ctx context.Context, q DBExecutor, id int64) (*domain.Booking, error)
	// GetBookingByIDForUpdate retrieves a booking and locks its row for the
	// duration of the surrounding transaction.
	GetBookingByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Booking, error)
	// UpdateBookingStatus sets the status of a booking.
	UpdateBookingStatus(ctx context.Context, q DBExecutor, id int64, status domain.BookingStatus) error
	// ListBookingsByRenter retrieves all bookings owned by a renter, newest first.
	ListBookingsByRenter(ctx context.Context, q DBExecutor, renterID int64) ([]domain.Booking, error)
	// ListAllBookings retrieves every booking, newest first.
	ListAllBookings(ctx context.Context, q DBExecutor) ([]domain.Booking, error)
	// MarkStartingBookingsInProgress advances all confirmed bookings whose
	// start date falls within [from, to) to inProgress and returns the number
	// of rows changed. The predicate excludes already advanced rows, so the
	// update is idempotent.
	MarkStartingBookingsInProgress(ctx context.Context, q DBExecutor, from, to time.Time) (int64, error)
	// ListExpiredActiveBookings retrieves confirmed and inProgress bookings
	// whose end date lies before now.
	ListExpiredActiveBookings(ctx context.Context, q DBExecutor, now time.Time) ([]domain.Booking, error)
}
