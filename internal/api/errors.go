package api

import (
	"errors"
	"net/http"
	"trading_simulator/internal/ledger"
	"trading_simulator/internal/quote"
	"trading_simulator/internal/trading"

	"github.com/gin-gonic/gin"
)

// writeError maps a core rejection to its HTTP response. Everything here is
// raised before any ledger or log mutation, so a non-2xx response always
// means no state changed for the request.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trading.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, trading.ErrUnknownSymbol):
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown symbol"})
	case errors.Is(err, trading.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient funds"})
	case errors.Is(err, trading.ErrInsufficientShares):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient shares"})
	case errors.Is(err, ledger.ErrDuplicateUsername):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
	case errors.Is(err, ledger.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, quote.ErrUnavailable):
		// The one class worth retrying; everything else is terminal.
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Quote provider unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// currentUserID pulls the authenticated user id the JWT middleware stored in
// the context.
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return v.(uint), true
}
