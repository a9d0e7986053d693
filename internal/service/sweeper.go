// internal/service/sweeper.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rentflow/internal/domain"
	"rentflow/internal/repository"
	"rentflow/pkg/db"
)

// SweepFailure records one booking the sweeper could not advance. The sweep
// keeps going past individual failures so one bad row cannot stall the rest
// of the fleet.
type SweepFailure struct {
	BookingID int64
	Err       error
}

// SweepReport summarizes one sweep pass.
type SweepReport struct {
	Advanced  int64
	Completed int
	Failures  []SweepFailure
}

// Sweeper periodically reconciles booking statuses with the calendar:
// confirmed bookings whose rental window has opened become inProgress, and
// active bookings whose window has closed are completed and their cars
// released. Both predicates are state-guarded, so repeated runs converge
// instead of reapplying effects.
type Sweeper struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	bookingRepo repository.BookingRepository
	carRepo     repository.CarRepository
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
	interval    time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// NewSweeper creates a new Sweeper.
func NewSweeper(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	bookingRepo repository.BookingRepository,
	carRepo repository.CarRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	interval time.Duration,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		bookingRepo: bookingRepo,
		carRepo:     carRepo,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
		interval:    interval,
		now:         time.Now,
		logger:      logger,
	}
}

// Run drives the sweep loop until the context is cancelled. One pass runs
// immediately on start, then one per tick.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("booking sweeper started", "interval", s.interval)

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("booking sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	report, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error("booking sweep failed", "error", err)
		return
	}
	if len(report.Failures) > 0 {
		for _, f := range report.Failures {
			s.logger.Error("booking sweep: failed to complete booking", "booking_id", f.BookingID, "error", f.Err)
		}
	}
	s.logger.Info("booking sweep finished",
		"advanced", report.Advanced,
		"completed", report.Completed,
		"failed", len(report.Failures),
	)
}

// RunOnce performs a single sweep pass and reports what it changed.
func (s *Sweeper) RunOnce(ctx context.Context) (*SweepReport, error) {
	report := &SweepReport{}

	advanced, err := s.AdvanceStarting(ctx)
	if err != nil {
		return nil, err
	}
	report.Advanced = advanced

	now := s.now()
	expired, err := s.bookingRepo.ListExpiredActiveBookings(ctx, s.dbExecutor, now)
	if err != nil {
		return nil, fmt.Errorf("sweep: failed to list expired bookings: %w", err)
	}

	for _, booking := range expired {
		changed, err := s.completeExpired(ctx, booking.ID, now)
		if err != nil {
			report.Failures = append(report.Failures, SweepFailure{BookingID: booking.ID, Err: err})
			continue
		}
		if changed {
			report.Completed++
		}
	}
	return report, nil
}

// AdvanceStarting moves confirmed bookings whose start date falls today to
// inProgress. A single guarded UPDATE keeps the pass idempotent.
func (s *Sweeper) AdvanceStarting(ctx context.Context) (int64, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return 0, fmt.Errorf("advance starting: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return 0, fmt.Errorf("advance starting: transaction controller does not implement DBExecutor")
	}

	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	advanced, err := s.bookingRepo.MarkStartingBookingsInProgress(ctx, txExecutor, from, to)
	if err != nil {
		return 0, fmt.Errorf("advance starting: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return 0, fmt.Errorf("advance starting: failed to commit transaction: %w", err)
	}
	return advanced, nil
}

// completeExpired finishes one expired booking in its own transaction. The
// row is locked and the status re-checked under the lock: a booking the
// renter completed or cancelled between the listing and the lock is skipped
// without error.
func (s *Sweeper) completeExpired(ctx context.Context, bookingID int64, now time.Time) (bool, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return false, fmt.Errorf("transaction controller does not implement DBExecutor")
	}

	booking, err := s.bookingRepo.GetBookingByIDForUpdate(ctx, txExecutor, bookingID)
	if err != nil {
		return false, fmt.Errorf("failed to lock booking: %w", err)
	}
	if !booking.Completable() || !booking.EndDate.Before(now) {
		return false, nil
	}

	if err := s.carRepo.SetCarAvailability(ctx, txExecutor, booking.CarID, true); err != nil {
		return false, fmt.Errorf("failed to release car %d: %w", booking.CarID, err)
	}
	if err := s.bookingRepo.UpdateBookingStatus(ctx, txExecutor, booking.ID, domain.BookingStatusCompleted); err != nil {
		return false, fmt.Errorf("failed to complete booking: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}
