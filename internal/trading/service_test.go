package trading

import (
	"context"
	"fmt"
	"testing"
	"trading_simulator/internal/domain"
	"trading_simulator/internal/ledger"
	"trading_simulator/internal/quote"
	"trading_simulator/internal/txlog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTest creates an isolated in-memory database, a fake quote provider and
// a service with $10000.00 starting cash.
func setupTest(t *testing.T) (*gorm.DB, *quote.FakeProvider, *Service) {
	// A named shared-cache DSN keeps every pooled connection on the same
	// in-memory database for the duration of the test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Transaction{}))

	fake := &quote.FakeProvider{Quotes: map[string]quote.Quote{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc.", Price: decimal.RequireFromString("150.00")},
		"NFLX": {Symbol: "NFLX", Name: "Netflix Inc.", Price: decimal.RequireFromString("410.50")},
	}}
	svc := NewService(db, fake, decimal.NewFromInt(10000))
	return db, fake, svc
}

func registerUser(t *testing.T, svc *Service, name string) uint {
	id, err := svc.Register(name, "s3cretpw", "s3cretpw")
	require.NoError(t, err)
	return id
}

func cashOf(t *testing.T, db *gorm.DB, userID uint) string {
	cash, err := ledger.GetCash(db, userID)
	require.NoError(t, err)
	return cash.StringFixed(2)
}

func TestBuyDebitsCashAndAppendsLog(t *testing.T) {
	db, _, svc := setupTest(t)
	userID := registerUser(t, svc, "alice")

	charged, err := svc.Buy(context.Background(), userID, "AAPL", 5)
	require.NoError(t, err)
	assert.Equal(t, "750.00", charged.StringFixed(2))
	assert.Equal(t, "9250.00", cashOf(t, db, userID))

	txs, err := txlog.History(db, userID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "AAPL", txs[0].Symbol)
	assert.Equal(t, int64(5), txs[0].Shares)
	assert.Equal(t, "150.00", txs[0].Price.StringFixed(2))
}

func TestSellCreditsCashAndReducesHoldings(t *testing.T) {
	db, fake, svc := setupTest(t)
	userID := registerUser(t, svc, "alice")

	_, err := svc.Buy(context.Background(), userID, "AAPL", 5)
	require.NoError(t, err)

	// The price moved between the buy and the sell.
	fake.Quotes["AAPL"] = quote.Quote{Symbol: "AAPL", Name: "Apple Inc.", Price: decimal.RequireFromString("160.00")}

	credited, err := svc.Sell(context.Background(), userID, "AAPL", 3)
	require.NoError(t, err)
	assert.Equal(t, "480.00", credited.StringFixed(2))
	assert.Equal(t, "9730.00", cashOf(t, db, userID))

	held, err := txlog.Holding(db, userID, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(2), held)

	txs, err := txlog.History(db, userID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, int64(-3), txs[1].Shares)
	assert.Equal(t, "160.00", txs[1].Price.StringFixed(2))
}

func TestBuyRejectedWhenCostExceedsCash(t *testing.T) {
	db, _, svc := setupTest(t)
	userID := registerUser(t, svc, "alice")

	_, err := svc.Buy(context.Background(), userID, "NFLX", 100) // 41050.00 > 10000.00
	require.ErrorIs(t, err, ErrInsufficientFunds)

	// A rejected buy mutates nothing.
	assert.Equal(t, "10000.00", cashOf(t, db, userID))
	txs, err := txlog.History(db, userID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestSellRejectedWhenSharesExceedHolding(t *testing.T) {
	db, _, svc := setupTest(t)
	userID := registerUser(t, svc, "alice")

	_, err := svc.Buy(context.Background(), userID, "AAPL", 2)
	require.NoError(t, err)

	_, err = svc.Sell(context.Background(), userID, "AAPL", 5)
	require.ErrorIs(t, err, ErrInsufficientShares)

	// The holdings check runs before any mutation, so the ledger keeps the
	// post-buy balance and the log keeps exactly the buy row.
	assert.Equal(t, "9700.00", cashOf(t, db, userID))
	txs, err := txlog.History(db, userID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(2), txs[0].Shares)
}

func TestSellRejectedWithNoHoldings(t *testing.T) {
	db, _, svc := setupTest(t)
	userID := registerUser(t, svc, "alice")

	_, err := svc.Sell(context.Background(), userID, "AAPL", 1)
	require.ErrorIs(t, err, ErrInsufficientShares)
	assert.Equal(t, "10000.00", cashOf(t, db, userID))
}

func TestHoldingsRoundTrip(t *testing.T) {
	db, _, svc := setupTest(t)
	userID := registerUser(t, svc, "alice")

	_, err := svc.Buy(context.Background(), userID, "AAPL", 10)
	require.NoError(t, err)
	_, err = svc.Sell(context.Background(), userID, "AAPL", 4)
	require.NoError(t, err)

	holdings, err := txlog.HoldingsBySymbol(db, userID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"AAPL": 6}, holdings)
}

func TestBuyValidatesInput(t *testing.T) {
	_, _, svc := setupTest(t)
	userID := registerUser(t, svc, "alice")

	_, err := svc.Buy(context.Background(), userID, "AAPL", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Buy(context.Background(), userID, "AAPL", -3)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Buy(context.Background(), userID, "   ", 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestQuoteLookup(t *testing.T) {
	_, fake, svc := setupTest(t)

	// Symbols are canonicalized to uppercase before the provider sees them.
	q, err := svc.Quote(context.Background(), " aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, "Apple Inc.", q.Name)
	assert.Equal(t, "150.00", q.Price.StringFixed(2))

	_, err = svc.Quote(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, ErrUnknownSymbol)

	_, err = svc.Quote(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	fake.Err = quote.ErrUnavailable
	_, err = svc.Quote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, quote.ErrUnavailable)
}

func TestRegisterValidatesInput(t *testing.T) {
	_, _, svc := setupTest(t)

	_, err := svc.Register("", "pw", "pw")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Register("alice", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Register("alice", "pw", "other")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db, _, svc := setupTest(t)
	registerUser(t, svc, "alice")

	_, err := svc.Register("alice", "otherpw", "otherpw")
	require.ErrorIs(t, err, ledger.ErrDuplicateUsername)

	// The failed attempt left no side effects.
	var count int64
	require.NoError(t, db.Model(&domain.User{}).Where("username = ?", "alice").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLogin(t *testing.T) {
	_, _, svc := setupTest(t)
	userID := registerUser(t, svc, "alice")

	got, err := svc.Login("alice", "s3cretpw")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = svc.Login("alice", "wrongpw")
	assert.ErrorIs(t, err, ledger.ErrInvalidCredentials)
	_, err = svc.Login("nobody", "s3cretpw")
	assert.ErrorIs(t, err, ledger.ErrInvalidCredentials)
}

func TestPortfolioPricesPositiveHoldings(t *testing.T) {
	_, _, svc := setupTest(t)
	userID := registerUser(t, svc, "alice")

	_, err := svc.Buy(context.Background(), userID, "NFLX", 2)
	require.NoError(t, err)
	_, err = svc.Buy(context.Background(), userID, "AAPL", 4)
	require.NoError(t, err)
	_, err = svc.Sell(context.Background(), userID, "AAPL", 4)
	require.NoError(t, err)

	view, err := svc.Portfolio(context.Background(), userID)
	require.NoError(t, err)

	// AAPL aggregates to zero and must not appear.
	require.Len(t, view.Positions, 1)
	p := view.Positions[0]
	assert.Equal(t, "NFLX", p.Symbol)
	assert.Equal(t, "Netflix Inc.", p.Name)
	assert.Equal(t, int64(2), p.Shares)
	assert.Equal(t, "821.00", p.Value.StringFixed(2))
	assert.Equal(t, view.Cash.Add(p.Value).StringFixed(2), view.Total.StringFixed(2))
}

func TestPortfolioRejectsOnProviderFailure(t *testing.T) {
	_, fake, svc := setupTest(t)
	userID := registerUser(t, svc, "alice")

	_, err := svc.Buy(context.Background(), userID, "AAPL", 1)
	require.NoError(t, err)

	// No partial views: a single failed lookup rejects the whole portfolio.
	fake.Err = quote.ErrUnavailable
	_, err = svc.Portfolio(context.Background(), userID)
	assert.ErrorIs(t, err, quote.ErrUnavailable)
}
