// internal/service/booking_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rentflow/internal/domain"
	"rentflow/internal/repository"
	"rentflow/internal/util"
	"rentflow/pkg/db"

	"github.com/shopspring/decimal"
)

// BookingService defines the booking lifecycle operations. Every mutation
// runs inside one atomic unit of work against the store: it either applies
// all of its effects (booking status, car availability, wallet movements,
// ledger records) or none of them.
type BookingService interface {
	CreateBooking(ctx context.Context, renterID, carID int64, startDate, endDate time.Time, pickupLocation, dropoffLocation string, totalPrice decimal.Decimal) (*domain.Booking, error)
	ProcessPayment(ctx context.Context, bookingID, payerID int64) (*domain.Booking, *domain.Wallet, error)
	CompleteBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, decimal.Decimal, error)
	BookingsForUser(ctx context.Context, renterID int64) ([]domain.Booking, error)
	AllBookings(ctx context.Context) ([]domain.Booking, error)
}

// bookingService implements the BookingService interface.
type bookingService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	bookingRepo repository.BookingRepository
	carRepo     repository.CarRepository
	walletRepo  repository.WalletRepository
	userRepo    repository.UserRepository
	ledger      LedgerService
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
	logger      *slog.Logger
}

// NewBookingService creates a new instance of BookingService.
func NewBookingService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	bookingRepo repository.BookingRepository,
	carRepo repository.CarRepository,
	walletRepo repository.WalletRepository,
	userRepo repository.UserRepository,
	ledger LedgerService,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) BookingService {
	return &bookingService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		bookingRepo: bookingRepo,
		carRepo:     carRepo,
		walletRepo:  walletRepo,
		userRepo:    userRepo,
		ledger:      ledger,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
		logger:      logger,
	}
}

// CreateBooking inserts a pending booking for an available car. The car is
// not reserved yet: the reservation stays soft until payment confirms it.
func (s *bookingService) CreateBooking(ctx context.Context, renterID, carID int64, startDate, endDate time.Time, pickupLocation, dropoffLocation string, totalPrice decimal.Decimal) (*domain.Booking, error) {
	if renterID == 0 || carID == 0 || startDate.IsZero() || endDate.IsZero() {
		return nil, util.ErrInvalidInput
	}
	if strings.TrimSpace(pickupLocation) == "" || strings.TrimSpace(dropoffLocation) == "" {
		return nil, util.ErrInvalidInput
	}
	if totalPrice.IsNegative() {
		return nil, util.ErrInvalidInput
	}
	if endDate.Before(startDate) {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create booking: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create booking: transaction controller does not implement DBExecutor")
	}

	car, err := s.carRepo.GetCarByID(ctx, txExecutor, carID)
	if err != nil {
		return nil, fmt.Errorf("create booking: failed to get car %d: %w", carID, err)
	}
	if !car.Available {
		return nil, util.ErrCarUnavailable
	}

	booking := domain.NewBooking(renterID, carID, startDate, endDate, pickupLocation, dropoffLocation, totalPrice)
	if err := s.bookingRepo.CreateBooking(ctx, txExecutor, booking); err != nil {
		return nil, fmt.Errorf("create booking: failed to insert booking: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create booking: failed to commit transaction: %w", err)
	}
	return booking, nil
}

// ProcessPayment moves the booking price from the payer's wallet to the
// platform escrow wallet, reserves the car and confirms the booking, all as
// one atomic unit. The booking row is locked and its status re-checked
// inside the unit, so a payment racing another payment or a cancellation
// loses with ErrConflict instead of double-charging.
func (s *bookingService) ProcessPayment(ctx context.Context, bookingID, payerID int64) (*domain.Booking, *domain.Wallet, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("process payment: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("process payment: transaction controller does not implement DBExecutor")
	}

	booking, err := s.bookingRepo.GetBookingByIDForUpdate(ctx, txExecutor, bookingID)
	if err != nil {
		return nil, nil, fmt.Errorf("process payment: failed to get booking %d: %w", bookingID, err)
	}
	if !booking.Payable() {
		return nil, nil, util.ErrConflict
	}

	platform, err := s.userRepo.GetPlatformUser(ctx, txExecutor)
	if err != nil {
		return nil, nil, fmt.Errorf("process payment: failed to resolve platform account: %w", err)
	}

	payerWallet, _, err := s.ledger.ApplyEntryIn(ctx, txExecutor, payerID, booking.TotalPrice,
		domain.TransactionTypeDebit, fmt.Sprintf("Payment for booking %d", booking.ID))
	if err != nil {
		return nil, nil, err
	}

	_, _, err = s.ledger.ApplyEntryIn(ctx, txExecutor, platform.ID, booking.TotalPrice,
		domain.TransactionTypeCredit, fmt.Sprintf("Received payment for booking %d", booking.ID))
	if err != nil {
		return nil, nil, err
	}

	if err := s.carRepo.SetCarAvailability(ctx, txExecutor, booking.CarID, false); err != nil {
		return nil, nil, fmt.Errorf("process payment: failed to reserve car %d: %w", booking.CarID, err)
	}

	if err := s.bookingRepo.UpdateBookingStatus(ctx, txExecutor, booking.ID, domain.BookingStatusConfirmed); err != nil {
		return nil, nil, fmt.Errorf("process payment: failed to confirm booking %d: %w", booking.ID, err)
	}
	booking.Status = domain.BookingStatusConfirmed

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("process payment: failed to commit transaction: %w", err)
	}
	return booking, payerWallet, nil
}

// CompleteBooking releases the car and marks the booking completed.
// Eligible from confirmed or inProgress; the sweeper converges expired
// bookings onto the same effect through the same status guard, so running
// both paths concurrently cannot double-free the car.
func (s *bookingService) CompleteBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("complete booking: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("complete booking: transaction controller does not implement DBExecutor")
	}

	booking, err := s.bookingRepo.GetBookingByIDForUpdate(ctx, txExecutor, bookingID)
	if err != nil {
		return nil, fmt.Errorf("complete booking: failed to get booking %d: %w", bookingID, err)
	}
	if !booking.Completable() {
		return nil, util.ErrConflict
	}

	if err := s.carRepo.SetCarAvailability(ctx, txExecutor, booking.CarID, true); err != nil {
		return nil, fmt.Errorf("complete booking: failed to release car %d: %w", booking.CarID, err)
	}
	if err := s.bookingRepo.UpdateBookingStatus(ctx, txExecutor, booking.ID, domain.BookingStatusCompleted); err != nil {
		return nil, fmt.Errorf("complete booking: failed to update booking %d: %w", booking.ID, err)
	}
	booking.Status = domain.BookingStatusCompleted

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("complete booking: failed to commit transaction: %w", err)
	}
	return booking, nil
}

// CancelBooking refunds a confirmed booking and releases the car, all as
// one atomic unit. The platform wallet is the escrow: it must hold at least
// the booking price, and a shortfall means the books no longer balance, so
// it is surfaced loudly instead of being swallowed.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, decimal.Decimal, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("cancel booking: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, decimal.Zero, fmt.Errorf("cancel booking: transaction controller does not implement DBExecutor")
	}

	booking, err := s.bookingRepo.GetBookingByIDForUpdate(ctx, txExecutor, bookingID)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("cancel booking: failed to get booking %d: %w", bookingID, err)
	}
	if !booking.Cancellable() {
		return nil, decimal.Zero, util.ErrConflict
	}

	platform, err := s.userRepo.GetPlatformUser(ctx, txExecutor)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("cancel booking: failed to resolve platform account: %w", err)
	}

	platformWallet, err := s.walletRepo.GetWalletByOwnerIDForUpdate(ctx, txExecutor, platform.ID)
	if err != nil || platformWallet.Balance.LessThan(booking.TotalPrice) {
		s.logger.Error("platform wallet cannot cover refund",
			"booking_id", booking.ID,
			"amount", booking.TotalPrice,
			"error", err,
		)
		return nil, decimal.Zero, util.ErrFailedPrecondition
	}

	_, _, err = s.ledger.ApplyEntryIn(ctx, txExecutor, platform.ID, booking.TotalPrice,
		domain.TransactionTypeDebit, fmt.Sprintf("Refund for cancelled booking %d", booking.ID))
	if err != nil {
		if util.IsError(err, util.ErrInsufficientFunds) {
			return nil, decimal.Zero, util.ErrFailedPrecondition
		}
		return nil, decimal.Zero, err
	}

	_, _, err = s.ledger.ApplyEntryIn(ctx, txExecutor, booking.RenterID, booking.TotalPrice,
		domain.TransactionTypeCredit, fmt.Sprintf("Refund received for cancelled booking %d", booking.ID))
	if err != nil {
		return nil, decimal.Zero, err
	}

	if err := s.carRepo.SetCarAvailability(ctx, txExecutor, booking.CarID, true); err != nil {
		return nil, decimal.Zero, fmt.Errorf("cancel booking: failed to release car %d: %w", booking.CarID, err)
	}
	if err := s.bookingRepo.UpdateBookingStatus(ctx, txExecutor, booking.ID, domain.BookingStatusCancelled); err != nil {
		return nil, decimal.Zero, fmt.Errorf("cancel booking: failed to update booking %d: %w", booking.ID, err)
	}
	booking.Status = domain.BookingStatusCancelled

	if err := s.commitTx(txController); err != nil {
		return nil, decimal.Zero, fmt.Errorf("cancel booking: failed to commit transaction: %w", err)
	}
	return booking, booking.TotalPrice, nil
}

// BookingsForUser retrieves all bookings owned by a renter.
func (s *bookingService) BookingsForUser(ctx context.Context, renterID int64) ([]domain.Booking, error) {
	bookings, err := s.bookingRepo.ListBookingsByRenter(ctx, s.dbExecutor, renterID)
	if err != nil {
		return nil, fmt.Errorf("bookings for user: %w", err)
	}
	return bookings, nil
}

// AllBookings retrieves every booking for the platform operator.
func (s *bookingService) AllBookings(ctx context.Context) ([]domain.Booking, error) {
	bookings, err := s.bookingRepo.ListAllBookings(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("all bookings: %w", err)
	}
	return bookings, nil
}
