// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input provided")
	ErrConflict           = errors.New("operation conflicts with current status")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrFailedPrecondition = errors.New("bookkeeping invariant violated")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrCarNotFound        = errors.New("car not found")
	ErrCarUnavailable     = errors.New("car is not available for booking")
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrUserNotFound       = errors.New("user not found")
)

// IsError reports whether err matches the target sentinel.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
