package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction Model. Rows are append-only: a buy inserts a positive share
// count, a sell a negative one, and holdings are always derived by summing
// shares per symbol rather than stored.
type Transaction struct {
	ID        uint            `gorm:"primaryKey"`                  // Primary key
	UserID    uint            `gorm:"index;not null"`              // Foreign key to User
	Symbol    string          `gorm:"index;not null"`              // Canonical uppercase ticker
	Shares    int64           `gorm:"not null"`                    // Signed share count
	Price     decimal.Decimal `gorm:"type:decimal(20,2);not null"` // Price per share at execution
	CreatedAt time.Time       // Execution timestamp
}
