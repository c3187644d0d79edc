package domain

import "github.com/shopspring/decimal"

// User Model
type User struct {
	ID       uint            `gorm:"primaryKey"`                  // Primary key
	Username string          `gorm:"unique;not null"`             // Unique username, stored lowercase
	Password string          `gorm:"not null"`                    // Bcrypt password hash
	Cash     decimal.Decimal `gorm:"type:decimal(20,2);not null"` // Simulated cash balance
}
