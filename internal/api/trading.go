package api

import (
	"net/http"                           // HTTP status codes
	"strconv"                            // String conversion
	"time"                               // Time durations
	"trading_simulator/internal/trading" // Trading operations core

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// TradeRequest carries a buy or sell order.
type TradeRequest struct {
	Symbol string `json:"symbol" binding:"required"`      // Ticker symbol
	Shares int64  `json:"shares" binding:"required,gt=0"` // Positive share count
}

// PositionResponse is one held symbol in the portfolio response. Monetary
// fields are formatted to two places here, at the presentation boundary only.
type PositionResponse struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Price  string `json:"price"`
	Shares int64  `json:"shares"`
	Value  string `json:"value"`
}

// PortfolioResponse is the portfolio view plus the cash balance.
type PortfolioResponse struct {
	Cash      string             `json:"cash"`
	Total     string             `json:"total"`
	Positions []PositionResponse `json:"positions"`
}

// TransactionResponse is one history row.
type TransactionResponse struct {
	Symbol    string `json:"symbol"`
	Shares    int64  `json:"shares"` // Signed: positive = buy, negative = sell
	Price     string `json:"price"`
	Timestamp string `json:"timestamp"`
}

func portfolioKey(userID uint) string {
	return "portfolio:user:" + strconv.Itoa(int(userID))
}

func historyKey(userID uint) string {
	return "txhistory:user:" + strconv.Itoa(int(userID))
}

// invalidateUserCaches drops the cached portfolio and history after a trade.
func invalidateUserCaches(c *gin.Context, cache Cache, userID uint) {
	ctx := c.Request.Context()
	_ = cache.Delete(ctx, portfolioKey(userID))
	_ = cache.Delete(ctx, historyKey(userID))
}

// QuoteHandler resolves a single symbol for the authenticated user.
func QuoteHandler(svc *trading.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUserID(c); !ok {
			return
		}
		q, err := svc.Quote(c.Request.Context(), c.Query("symbol"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"symbol": q.Symbol,
			"name":   q.Name,
			"price":  q.Price.StringFixed(2),
		})
	}
}

// BuyHandler executes a buy order for the authenticated user.
func BuyHandler(svc *trading.Service, cache Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req TradeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		charged, err := svc.Buy(c.Request.Context(), userID, req.Symbol, req.Shares)
		if err != nil {
			writeError(c, err)
			return
		}
		// Log the executed trade
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,
			"symbol":    req.Symbol,
			"shares":    req.Shares,
			"charged":   charged.StringFixed(2),
			"type":      "buy",
			"timestamp": time.Now().Format(time.RFC3339),
		}).Info("Buy executed")
		invalidateUserCaches(c, cache, userID) // Drop stale cached views
		c.JSON(http.StatusOK, gin.H{
			"message": "Bought",
			"symbol":  req.Symbol,
			"shares":  req.Shares,
			"charged": charged.StringFixed(2),
		})
	}
}

// SellHandler executes a sell order for the authenticated user.
func SellHandler(svc *trading.Service, cache Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req TradeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		credited, err := svc.Sell(c.Request.Context(), userID, req.Symbol, req.Shares)
		if err != nil {
			writeError(c, err)
			return
		}
		// Log the executed trade
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,
			"symbol":    req.Symbol,
			"shares":    req.Shares,
			"credited":  credited.StringFixed(2),
			"type":      "sell",
			"timestamp": time.Now().Format(time.RFC3339),
		}).Info("Sell executed")
		invalidateUserCaches(c, cache, userID) // Drop stale cached views
		c.JSON(http.StatusOK, gin.H{
			"message":  "Sold",
			"symbol":   req.Symbol,
			"shares":   req.Shares,
			"credited": credited.StringFixed(2),
		})
	}
}

// PortfolioHandler returns the authenticated user's holdings priced at
// current quotes, with a short-lived cached copy to spare the quote provider.
func PortfolioHandler(svc *trading.Service, cache Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		var cached PortfolioResponse
		found, err := cache.Get(ctx, portfolioKey(userID), &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"portfolio": cached, "cached": true})
			return
		}
		view, err := svc.Portfolio(ctx, userID)
		if err != nil {
			writeError(c, err)
			return
		}
		resp := PortfolioResponse{
			Cash:      view.Cash.StringFixed(2),
			Total:     view.Total.StringFixed(2),
			Positions: make([]PositionResponse, 0, len(view.Positions)),
		}
		for _, p := range view.Positions {
			resp.Positions = append(resp.Positions, PositionResponse{
				Symbol: p.Symbol,
				Name:   p.Name,
				Price:  p.Price.StringFixed(2),
				Shares: p.Shares,
				Value:  p.Value.StringFixed(2),
			})
		}
		_ = cache.Set(ctx, portfolioKey(userID), resp, 60*time.Second)
		c.JSON(http.StatusOK, gin.H{"portfolio": resp, "cached": false})
	}
}

// HistoryHandler returns all of the authenticated user's transactions in
// insertion order.
func HistoryHandler(svc *trading.Service, cache Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		var cached []TransactionResponse
		found, err := cache.Get(ctx, historyKey(userID), &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"transactions": cached, "cached": true})
			return
		}
		txs, err := svc.History(userID)
		if err != nil {
			writeError(c, err)
			return
		}
		resp := make([]TransactionResponse, 0, len(txs))
		for _, t := range txs {
			resp = append(resp, TransactionResponse{
				Symbol:    t.Symbol,
				Shares:    t.Shares,
				Price:     t.Price.StringFixed(2),
				Timestamp: t.CreatedAt.Format(time.RFC3339),
			})
		}
		_ = cache.Set(ctx, historyKey(userID), resp, 60*time.Second)
		c.JSON(http.StatusOK, gin.H{"transactions": resp, "cached": false})
	}
}
