// Package trading implements the buy/sell/portfolio operations on top of the
// account ledger, the transaction log and a quote provider. Each mutating
// operation validates first, then applies the balance update and the log
// append as a single storage transaction.
package trading

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"trading_simulator/internal/domain"
	"trading_simulator/internal/ledger"
	"trading_simulator/internal/quote"
	"trading_simulator/internal/txlog"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Position is one held symbol in a portfolio view.
type Position struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Shares int64           `json:"shares"`
	Value  decimal.Decimal `json:"value"` // Price * Shares at current quote
}

// PortfolioView is a user's cash balance plus every positively held symbol
// priced at current quotes.
type PortfolioView struct {
	Cash      decimal.Decimal `json:"cash"`
	Positions []Position      `json:"positions"`
	Total     decimal.Decimal `json:"total"` // Cash + market value of positions
}

// Service wires the ledger, the transaction log and a quote provider.
type Service struct {
	db           *gorm.DB
	quotes       quote.Provider
	startingCash decimal.Decimal
}

func NewService(db *gorm.DB, quotes quote.Provider, startingCash decimal.Decimal) *Service {
	return &Service{db: db, quotes: quotes, startingCash: startingCash}
}

// Register creates an account with the default starting cash and returns the
// new user id. Blank fields and a mismatched confirmation are rejected before
// anything is hashed or stored.
func (s *Service) Register(username, password, confirmation string) (uint, error) {
	if strings.TrimSpace(username) == "" || password == "" || confirmation == "" {
		return 0, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if password != confirmation {
		return 0, fmt.Errorf("%w: passwords do not match", ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	return ledger.CreateAccount(s.db, username, string(hash), s.startingCash)
}

// Login authenticates a username/password pair and returns the user id.
func (s *Service) Login(username, password string) (uint, error) {
	if username == "" || password == "" {
		return 0, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	return ledger.Authenticate(s.db, username, password)
}

// Quote validates and resolves a single symbol. A provider miss surfaces as
// ErrUnknownSymbol; transport failures pass through as quote.ErrUnavailable.
func (s *Service) Quote(ctx context.Context, symbol string) (*quote.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ErrInvalidInput)
	}
	q, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		if errors.Is(err, quote.ErrNotFound) {
			return nil, ErrUnknownSymbol
		}
		return nil, err
	}
	return q, nil
}

// Buy purchases shares at the current quoted price and returns the amount
// charged. The cash debit and the log append happen in one storage
// transaction, so a crash between them cannot leave the two out of step.
func (s *Service) Buy(ctx context.Context, userID uint, symbol string, shares int64) (decimal.Decimal, error) {
	if shares <= 0 {
		return decimal.Zero, fmt.Errorf("%w: share count must be a positive integer", ErrInvalidInput)
	}
	q, err := s.Quote(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	cost := q.Price.Mul(decimal.NewFromInt(shares))
	err = s.db.Transaction(func(tx *gorm.DB) error {
		cash, err := ledger.GetCash(tx, userID)
		if err != nil {
			return err
		}
		if cost.GreaterThan(cash) {
			return ErrInsufficientFunds
		}
		// The guarded debit re-checks inside the statement, which closes the
		// window between the read above and the write under concurrent buys.
		if err := ledger.Debit(tx, userID, cost); err != nil {
			if errors.Is(err, ledger.ErrInsufficientCash) {
				return ErrInsufficientFunds
			}
			return err
		}
		_, err = txlog.Append(tx, userID, q.Symbol, shares, q.Price)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return cost, nil
}

// Sell disposes shares at the current quoted price and returns the amount
// credited. The holdings check reads the pre-sale aggregate and runs strictly
// before the cash credit and the log append; a rejected sell therefore leaves
// both the ledger and the log untouched.
func (s *Service) Sell(ctx context.Context, userID uint, symbol string, shares int64) (decimal.Decimal, error) {
	if shares <= 0 {
		return decimal.Zero, fmt.Errorf("%w: share count must be a positive integer", ErrInvalidInput)
	}
	q, err := s.Quote(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	proceeds := q.Price.Mul(decimal.NewFromInt(shares))
	err = s.db.Transaction(func(tx *gorm.DB) error {
		held, err := txlog.Holding(tx, userID, q.Symbol)
		if err != nil {
			return err
		}
		if shares > held {
			return ErrInsufficientShares
		}
		// Expression-based credit: a stale read here could overwrite a buy's
		// debit committed between the read and the write.
		if err := ledger.Credit(tx, userID, proceeds); err != nil {
			return err
		}
		_, err = txlog.Append(tx, userID, q.Symbol, -shares, q.Price)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return proceeds, nil
}

// Portfolio prices every positively held symbol at its current quote, one
// provider call per distinct symbol. Any lookup failure rejects the whole
// view rather than rendering a partial one.
func (s *Service) Portfolio(ctx context.Context, userID uint) (*PortfolioView, error) {
	cash, err := ledger.GetCash(s.db, userID)
	if err != nil {
		return nil, err
	}
	holdings, err := txlog.HoldingsBySymbol(s.db, userID)
	if err != nil {
		return nil, err
	}
	symbols := make([]string, 0, len(holdings))
	for symbol, shares := range holdings {
		if shares > 0 {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)

	view := PortfolioView{Cash: cash, Positions: []Position{}, Total: cash}
	for _, symbol := range symbols {
		q, err := s.quotes.Lookup(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("pricing %s: %w", symbol, err)
		}
		shares := holdings[symbol]
		value := q.Price.Mul(decimal.NewFromInt(shares))
		view.Positions = append(view.Positions, Position{
			Symbol: q.Symbol,
			Name:   q.Name,
			Price:  q.Price,
			Shares: shares,
			Value:  value,
		})
		view.Total = view.Total.Add(value)
	}
	return &view, nil
}

// History returns all of the user's transactions in insertion order.
func (s *Service) History(userID uint) ([]domain.Transaction, error) {
	return txlog.History(s.db, userID)
}
