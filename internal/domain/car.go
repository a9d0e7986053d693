// internal/domain/car.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Car represents a rentable car in the catalog.
// Available is a derived flag: true iff no booking currently holds the car
// in the confirmed or inProgress state. It is mutated only as a side effect
// of booking transitions.
type Car struct {
	ID           int64           `db:"id" json:"id"`
	Make         string          `db:"make" json:"make"`
	Model        string          `db:"model" json:"model"`
	Year         int             `db:"year" json:"year"`
	Transmission string          `db:"transmission" json:"transmission"`
	PricePerDay  decimal.Decimal `db:"price_per_day" json:"price_per_day"`
	Available    bool            `db:"available" json:"available"`
	City         string          `db:"city" json:"city"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}
