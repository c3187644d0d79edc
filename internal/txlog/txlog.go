// Package txlog is the append-only record of buy and sell events. Holdings
// are derived by aggregation over signed share counts, never stored.
package txlog

import (
	"trading_simulator/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Decimal-safe money arithmetic
	"gorm.io/gorm"                  // GORM ORM library
)

// Append inserts one immutable trade row and returns its id. Positive shares
// record a buy, negative a sell. Validation is the caller's job.
func Append(db *gorm.DB, userID uint, symbol string, shares int64, price decimal.Decimal) (uint, error) {
	t := domain.Transaction{
		UserID: userID,
		Symbol: symbol,
		Shares: shares,
		Price:  price,
	}
	if err := db.Create(&t).Error; err != nil {
		return 0, err
	}
	return t.ID, nil
}

// HoldingsBySymbol returns the aggregate signed share count per symbol for a
// user. Zero aggregates may appear; callers needing owned symbols must filter
// for positive counts.
func HoldingsBySymbol(db *gorm.DB, userID uint) (map[string]int64, error) {
	var rows []struct {
		Symbol string
		Shares int64
	}
	err := db.Model(&domain.Transaction{}).
		Select("symbol, SUM(shares) AS shares").
		Where("user_id = ?", userID).
		Group("symbol").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	holdings := make(map[string]int64, len(rows))
	for _, r := range rows {
		holdings[r.Symbol] = r.Shares
	}
	return holdings, nil
}

// Holding returns the aggregate share count for a single user+symbol.
func Holding(db *gorm.DB, userID uint, symbol string) (int64, error) {
	var shares int64
	err := db.Model(&domain.Transaction{}).
		Select("COALESCE(SUM(shares), 0)").
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Scan(&shares).Error
	return shares, err
}

// History returns all of a user's transactions in insertion order.
func History(db *gorm.DB, userID uint) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := db.Where("user_id = ?", userID).Order("id").Find(&txs).Error
	return txs, err
}
