// internal/domain/booking.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus defines the lifecycle state of a rental booking.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "inProgress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// Booking represents a car rental booking.
// Status moves only along pending→confirmed→inProgress→completed,
// with confirmed→cancelled as the single backward edge (refund path).
type Booking struct {
	ID              int64           `db:"id" json:"id"`
	RenterID        int64           `db:"renter_id" json:"renter_id"`
	CarID           int64           `db:"car_id" json:"car_id"`
	StartDate       time.Time       `db:"start_date" json:"start_date"`
	EndDate         time.Time       `db:"end_date" json:"end_date"`
	PickupLocation  string          `db:"pickup_location" json:"pickup_location"`
	DropoffLocation string          `db:"dropoff_location" json:"dropoff_location"`
	TotalPrice      decimal.Decimal `db:"total_price" json:"total_price"` // NUMERIC(20, 4) in DB
	Status          BookingStatus   `db:"status" json:"status"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// NewBooking creates a new Booking in the pending state.
func NewBooking(renterID, carID int64, startDate, endDate time.Time, pickup, dropoff string, totalPrice decimal.Decimal) *Booking {
	now := time.Now().UTC()
	return &Booking{
		RenterID:        renterID,
		CarID:           carID,
		StartDate:       startDate,
		EndDate:         endDate,
		PickupLocation:  pickup,
		DropoffLocation: dropoff,
		TotalPrice:      totalPrice,
		Status:          BookingStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Completable reports whether the booking may transition to completed.
func (b *Booking) Completable() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusInProgress
}

// Cancellable reports whether the booking may be cancelled and refunded.
// Once a rental is underway only completion is possible.
func (b *Booking) Cancellable() bool {
	return b.Status == BookingStatusConfirmed
}

// Payable reports whether the booking may be paid for.
func (b *Booking) Payable() bool {
	return b.Status == BookingStatusPending
}
