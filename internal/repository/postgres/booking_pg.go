// internal/repository/postgres/booking_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rentflow/internal/domain"
	"rentflow/internal/repository"
	"rentflow/internal/util"

	"github.com/jmoiron/sqlx"
)

const bookingColumns = `id, renter_id, car_id, start_date, end_date, pickup_location, dropoff_location, total_price, status, created_at, updated_at`

// BookingRepository implements repository.BookingRepository for PostgreSQL.
type BookingRepository struct {
	// Stateless; methods receive a DBExecutor directly.
}

// NewBookingRepository creates a new BookingRepository.
func NewBookingRepository(db *sqlx.DB) repository.BookingRepository {
	return &BookingRepository{}
}

// CreateBooking inserts a new booking using the provided DBExecutor.
func (r *BookingRepository) CreateBooking(ctx context.Context, q repository.DBExecutor, booking *domain.Booking) error {
	query := `INSERT INTO bookings (renter_id, car_id, start_date, end_date, pickup_location, dropoff_location, total_price, status, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		booking.RenterID,
		booking.CarID,
		booking.StartDate,
		booking.EndDate,
		booking.PickupLocation,
		booking.DropoffLocation,
		booking.TotalPrice,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	).Scan(&booking.ID)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetBookingByID retrieves a booking by its ID using the provided DBExecutor.
func (r *BookingRepository) GetBookingByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Booking, error) {
	var booking domain.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	err := q.GetContext(ctx, &booking, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking by ID %d: %w", id, err)
	}
	return &booking, nil
}

// GetBookingByIDForUpdate retrieves a booking and locks its row until the
// surrounding transaction ends.
func (r *BookingRepository) GetBookingByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Booking, error) {
	var booking domain.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &booking, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to lock booking %d: %w", id, err)
	}
	return &booking, nil
}

// UpdateBookingStatus sets the status of a booking.
func (r *BookingRepository) UpdateBookingStatus(ctx context.Context, q repository.DBExecutor, id int64, status domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update status of booking %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating booking %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrBookingNotFound
	}
	return nil
}

// ListBookingsByRenter retrieves all bookings owned by a renter, newest first.
func (r *BookingRepository) ListBookingsByRenter(ctx context.Context, q repository.DBExecutor, renterID int64) ([]domain.Booking, error) {
	bookings := []domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE renter_id = $1 ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &bookings, query, renterID); err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for renter %d: %w", renterID, err)
	}
	return bookings, nil
}

// ListAllBookings retrieves every booking, newest first.
func (r *BookingRepository) ListAllBookings(ctx context.Context, q repository.DBExecutor) ([]domain.Booking, error) {
	bookings := []domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &bookings, query); err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	return bookings, nil
}

// MarkStartingBookingsInProgress advances confirmed bookings starting within
// [from, to) to inProgress in a single statement.
func (r *BookingRepository) MarkStartingBookingsInProgress(ctx context.Context, q repository.DBExecutor, from, to time.Time) (int64, error) {
	query := `UPDATE bookings SET status = $1, updated_at = $2
              WHERE status = $3 AND start_date >= $4 AND start_date < $5`
	result, err := q.ExecContext(ctx, query,
		domain.BookingStatusInProgress, time.Now().UTC(), domain.BookingStatusConfirmed, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to mark starting bookings in progress: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected for starting bookings: %w", err)
	}
	return rowsAffected, nil
}

// ListExpiredActiveBookings retrieves confirmed and inProgress bookings whose
// end date lies before now.
func (r *BookingRepository) ListExpiredActiveBookings(ctx context.Context, q repository.DBExecutor, now time.Time) ([]domain.Booking, error) {
	bookings := []domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE status IN ($1, $2) AND end_date < $3 ORDER BY end_date`
	err := q.SelectContext(ctx, &bookings, query,
		domain.BookingStatusConfirmed, domain.BookingStatusInProgress, now)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expired bookings: %w", err)
	}
	return bookings, nil
}
