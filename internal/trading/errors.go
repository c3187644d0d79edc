package trading

import "errors"

// User-facing rejections. Every one of these is raised before any ledger or
// log mutation for the request, so a rejected operation leaves no state.
var (
	ErrInvalidInput       = errors.New("trading: invalid input")
	ErrUnknownSymbol      = errors.New("trading: unknown symbol")
	ErrInsufficientFunds  = errors.New("trading: insufficient funds")
	ErrInsufficientShares = errors.New("trading: insufficient shares")
)
