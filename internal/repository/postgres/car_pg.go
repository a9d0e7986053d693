// internal/repository/postgres/car_pg.go
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

const carColumns = `id, make, model, year, transmission, price_per_day, available, city, created_at, updated_at`

// CarRepository implements repository.CarRepository for PostgreSQL.
type CarRepository struct{}

// NewCarRepository creates a new CarRepository.
func NewCarRepository(db *sqlx.DB) repository.CarRepository {
	return &CarRepository{}
}

// CreateCar inserts a new car using the provided DBExecutor.
func (r *CarRepository) CreateCar(ctx context.Context, q repository.DBExecutor, car *domain.Car) error {
	query := `INSERT INTO cars (make, model, year, transmission, price_per_day, available, city, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		car.Make, car.Model, car.Year, car.Transmission, car.PricePerDay,
		car.Available, car.City, car.CreatedAt, car.UpdatedAt,
	).Scan(&car.ID)
	if err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

// GetCarByID retrieves a car by its ID using the provided DBExecutor.
func (r *CarRepository) GetCarByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Car, error) {
	var car domain.Car
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	err := q.GetContext(ctx, &car, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrCarNotFound
		}
		return nil, fmt.Errorf("failed to get car by ID %d: %w", id, err)
	}
	return &car, nil
}

// GetCarByIDForUpdate retrieves a car and locks its row until the
// surrounding transaction ends.
func (r *CarRepository) GetCarByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Car, error) {
	var car domain.Car
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &car, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrCarNotFound
		}
		return nil, fmt.Errorf("failed to lock car %d: %w", id, err)
	}
	return &car, nil
}

// SetCarAvailability flips the availability flag of a car.
func (r *CarRepository) SetCarAvailability(ctx context.Context, q repository.DBExecutor, id int64, available bool) error {
	query := `UPDATE cars SET available = $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, available, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set availability of car %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating car %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrCarNotFound
	}
	return nil
}
