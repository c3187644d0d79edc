package quote

import (
	"context"
	"fmt"
	"strings"

	yfquote "github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

// YahooProvider resolves quotes through Yahoo Finance via piquette/finance-go.
type YahooProvider struct{}

func NewYahooProvider() *YahooProvider {
	return &YahooProvider{}
}

func (y *YahooProvider) Lookup(_ context.Context, symbol string) (*Quote, error) {
	q, err := yfquote.Get(strings.ToUpper(symbol))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// finance-go reports unknown symbols as a nil quote rather than an error.
	// A quote missing its symbol or price is treated the same way.
	if q == nil || q.Symbol == "" || q.RegularMarketPrice <= 0 {
		return nil, ErrNotFound
	}
	name := q.ShortName
	if name == "" {
		name = q.Symbol
	}
	return &Quote{
		Symbol: q.Symbol,
		Name:   name,
		Price:  decimal.NewFromFloat(q.RegularMarketPrice).Round(2),
	}, nil
}
