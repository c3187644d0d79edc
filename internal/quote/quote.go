package quote

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Quote is a point-in-time market quote for a single symbol.
type Quote struct {
	Symbol string          `json:"symbol"` // Canonical uppercase ticker
	Name   string          `json:"name"`   // Display name of the security
	Price  decimal.Decimal `json:"price"`  // Current price per share
}

var (
	// ErrNotFound means the symbol does not resolve to a listed security.
	ErrNotFound = errors.New("quote: symbol not found")
	// ErrUnavailable means the provider could not be reached or answered
	// with something unusable. Callers may retry; ErrNotFound is terminal.
	ErrUnavailable = errors.New("quote: provider unavailable")
)

// Provider resolves one symbol per call. A conforming implementation never
// returns a partial quote: either all three fields are populated with a
// positive price, or an error is returned.
type Provider interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}
