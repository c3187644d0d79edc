package quote

import (
	"context"
	"strings"
)

// FakeProvider serves quotes from a fixed table. Used in tests.
type FakeProvider struct {
	Quotes map[string]Quote // Keyed by uppercase symbol
	Err    error            // When set, every lookup fails with this error
}

func (f *FakeProvider) Lookup(_ context.Context, symbol string) (*Quote, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	q, ok := f.Quotes[strings.ToUpper(symbol)]
	if !ok {
		return nil, ErrNotFound
	}
	return &q, nil
}
