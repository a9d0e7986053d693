// internal/service/sweeper_test.go
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"rentflow/internal/domain"
	"rentflow/pkg/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type sweeperMocks struct {
	bookingRepo  *MockBookingRepository
	carRepo      *MockCarRepository
	dbBeginner   *MockDBBeginner
	dbExecutor   *MockDBExecutor
	txController *MockTxController
}

func newTestSweeper(now time.Time) (*Sweeper, *sweeperMocks) {
	m := &sweeperMocks{
		bookingRepo:  new(MockBookingRepository),
		carRepo:      new(MockCarRepository),
		dbBeginner:   new(MockDBBeginner),
		dbExecutor:   new(MockDBExecutor),
		txController: new(MockTxController),
	}

	s := NewSweeper(
		m.dbBeginner,
		m.dbExecutor,
		m.bookingRepo,
		m.carRepo,
		func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return m.txController, nil
		},
		func(tx db.TxController) error {
			return m.txController.Commit()
		},
		func(tx db.TxController) {
			_ = m.txController.Rollback()
		},
		time.Hour,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	s.now = func() time.Time { return now }
	return s, m
}

func (m *sweeperMocks) assertAll(t *testing.T) {
	t.Helper()
	mock.AssertExpectationsForObjects(t, m.bookingRepo, m.carRepo, m.dbBeginner, m.dbExecutor, m.txController)
}

// TestSweepRunOnce tests a full sweep pass.
func TestSweepRunOnce(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	dayStart := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	t.Run("AdvancesAndCompletes", func(t *testing.T) {
		ctx := context.Background()
		s, m := newTestSweeper(now)

		expired := []domain.Booking{
			{ID: 11, CarID: 4, Status: domain.BookingStatusConfirmed, EndDate: now.AddDate(0, 0, -2)},
			{ID: 12, CarID: 5, Status: domain.BookingStatusInProgress, EndDate: now.AddDate(0, 0, -1)},
		}

		m.txController.On("Commit").Return(nil).Times(3)
		m.txController.On("Rollback").Return(nil).Maybe()

		m.bookingRepo.On("MarkStartingBookingsInProgress", ctx, mock.Anything, dayStart, dayEnd).Return(int64(2), nil).Once()
		m.bookingRepo.On("ListExpiredActiveBookings", ctx, mock.Anything, now).Return(expired, nil).Once()

		m.bookingRepo.On("GetBookingByIDForUpdate", ctx, mock.Anything, int64(11)).Return(&expired[0], nil).Once()
		m.bookingRepo.On("GetBookingByIDForUpdate", ctx, mock.Anything, int64(12)).Return(&expired[1], nil).Once()
		m.carRepo.On("SetCarAvailability", ctx, mock.Anything, int64(4), true).Return(nil).Once()
		m.carRepo.On("SetCarAvailability", ctx, mock.Anything, int64(5), true).Return(nil).Once()
		m.bookingRepo.On("UpdateBookingStatus", ctx, mock.Anything, int64(11), domain.BookingStatusCompleted).Return(nil).Once()
		m.bookingRepo.On("UpdateBookingStatus", ctx, mock.Anything, int64(12), domain.BookingStatusCompleted).Return(nil).Once()

		report, err := s.RunOnce(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), report.Advanced)
		assert.Equal(t, 2, report.Completed)
		assert.Empty(t, report.Failures)

		m.assertAll(t)
	})

	t.Run("NothingToDo", func(t *testing.T) {
		ctx := context.Background()
		s, m := newTestSweeper(now)

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()

		m.bookingRepo.On("MarkStartingBookingsInProgress", ctx, mock.Anything, dayStart, dayEnd).Return(int64(0), nil).Once()
		m.bookingRepo.On("ListExpiredActiveBookings", ctx, mock.Anything, now).Return([]domain.Booking{}, nil).Once()

		report, err := s.RunOnce(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), report.Advanced)
		assert.Equal(t, 0, report.Completed)
		assert.Empty(t, report.Failures)

		m.carRepo.AssertNotCalled(t, "SetCarAvailability", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.assertAll(t)
	})

	t.Run("FailureIsCollectedAndSweepContinues", func(t *testing.T) {
		ctx := context.Background()
		s, m := newTestSweeper(now)

		expired := []domain.Booking{
			{ID: 11, CarID: 4, Status: domain.BookingStatusConfirmed, EndDate: now.AddDate(0, 0, -2)},
			{ID: 12, CarID: 5, Status: domain.BookingStatusInProgress, EndDate: now.AddDate(0, 0, -1)},
		}

		m.txController.On("Commit").Return(nil).Times(2)
		m.txController.On("Rollback").Return(nil)

		m.bookingRepo.On("MarkStartingBookingsInProgress", ctx, mock.Anything, dayStart, dayEnd).Return(int64(0), nil).Once()
		m.bookingRepo.On("ListExpiredActiveBookings", ctx, mock.Anything, now).Return(expired, nil).Once()

		m.bookingRepo.On("GetBookingByIDForUpdate", ctx, mock.Anything, int64(11)).Return(&expired[0], nil).Once()
		m.carRepo.On("SetCarAvailability", ctx, mock.Anything, int64(4), true).Return(errors.New("db error")).Once()

		m.bookingRepo.On("GetBookingByIDForUpdate", ctx, mock.Anything, int64(12)).Return(&expired[1], nil).Once()
		m.carRepo.On("SetCarAvailability", ctx, mock.Anything, int64(5), true).Return(nil).Once()
		m.bookingRepo.On("UpdateBookingStatus", ctx, mock.Anything, int64(12), domain.BookingStatusCompleted).Return(nil).Once()

		report, err := s.RunOnce(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 1, report.Completed)
		assert.Len(t, report.Failures, 1)
		assert.Equal(t, int64(11), report.Failures[0].BookingID)
		assert.Error(t, report.Failures[0].Err)

		m.bookingRepo.AssertNotCalled(t, "UpdateBookingStatus", mock.Anything, mock.Anything, int64(11), mock.Anything)
		m.assertAll(t)
	})

	t.Run("RecheckUnderLockSkipsChangedBooking", func(t *testing.T) {
		ctx := context.Background()
		s, m := newTestSweeper(now)

		listed := []domain.Booking{
			{ID: 11, CarID: 4, Status: domain.BookingStatusConfirmed, EndDate: now.AddDate(0, 0, -2)},
		}
		// By the time the row lock is taken, the renter already completed it.
		locked := &domain.Booking{ID: 11, CarID: 4, Status: domain.BookingStatusCompleted, EndDate: now.AddDate(0, 0, -2)}

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil)

		m.bookingRepo.On("MarkStartingBookingsInProgress", ctx, mock.Anything, dayStart, dayEnd).Return(int64(0), nil).Once()
		m.bookingRepo.On("ListExpiredActiveBookings", ctx, mock.Anything, now).Return(listed, nil).Once()
		m.bookingRepo.On("GetBookingByIDForUpdate", ctx, mock.Anything, int64(11)).Return(locked, nil).Once()

		report, err := s.RunOnce(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 0, report.Completed)
		assert.Empty(t, report.Failures)

		m.carRepo.AssertNotCalled(t, "SetCarAvailability", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.assertAll(t)
	})
}

// TestAdvanceStarting tests the on-demand status advance.
func TestAdvanceStarting(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	dayStart := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	t.Run("AdvancesTodayWindow", func(t *testing.T) {
		ctx := context.Background()
		s, m := newTestSweeper(now)

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()
		m.bookingRepo.On("MarkStartingBookingsInProgress", ctx, mock.Anything, dayStart, dayEnd).Return(int64(3), nil).Once()

		advanced, err := s.AdvanceStarting(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), advanced)
		m.assertAll(t)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		ctx := context.Background()
		s, m := newTestSweeper(now)

		m.txController.On("Rollback").Return(nil).Once()
		m.bookingRepo.On("MarkStartingBookingsInProgress", ctx, mock.Anything, dayStart, dayEnd).Return(int64(0), errors.New("db error")).Once()

		_, err := s.AdvanceStarting(ctx)

		assert.Error(t, err)
		m.txController.AssertNotCalled(t, "Commit")
		m.assertAll(t)
	})
}
