// internal/repository/car_repo.go
package repository

import (
	"context"

	"rentflow/internal/domain"
)

// CarRepository defines the interface for car catalog operations consumed by
// the booking core. Availability is mutated only on booking transition
// boundaries.
type CarRepository interface {
	// CreateCar adds a new car to the catalog.
	CreateCar(ctx context.Context, q DBExecutor, car *domain.Car) error
	// GetCarByID retrieves a car by its ID.
	GetCarByID(ctx context.Context, q DBExecutor, id int64) (*domain.Car, error)
	// GetCarByIDForUpdate retrieves a car and locks its row for the duration
	// of the surrounding transaction.
	GetCarByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Car, error)
	// SetCarAvailability flips the derived availability flag.
	SetCarAvailability(ctx context.Context, q DBExecutor, id int64, available bool) error
}
