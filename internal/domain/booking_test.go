// internal/domain/booking_test.go
package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingTransitions(t *testing.T) {
	cases := []struct {
		status      BookingStatus
		payable     bool
		cancellable bool
		completable bool
	}{
		{BookingStatusPending, true, false, false},
		{BookingStatusConfirmed, false, true, true},
		{BookingStatusInProgress, false, false, true},
		{BookingStatusCompleted, false, false, false},
		{BookingStatusCancelled, false, false, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			b := Booking{Status: tc.status}
			assert.Equal(t, tc.payable, b.Payable())
			assert.Equal(t, tc.cancellable, b.Cancellable())
			assert.Equal(t, tc.completable, b.Completable())
		})
	}
}
