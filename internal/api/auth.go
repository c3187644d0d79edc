package api

import (
	"net/http"                           // HTTP status codes
	"trading_simulator/internal/trading" // Trading operations core
	"trading_simulator/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterRequest carries a new account signup.
type RegisterRequest struct {
	Username     string `json:"username" binding:"required"`     // Username must be provided
	Password     string `json:"password" binding:"required"`     // Password must be provided
	Confirmation string `json:"confirmation" binding:"required"` // Must match Password
}

// LoginRequest carries a login attempt.
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse returns the session token.
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// RegisterHandler creates an account and, on success, establishes a session
// for the new user right away by returning a token.
func RegisterHandler(svc *trading.Service, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		userID, err := svc.Register(req.Username, req.Password, req.Confirmation)
		if err != nil {
			writeError(c, err)
			return
		}
		token, err := utils.GenerateJWT(userID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusCreated, AuthResponse{Token: token})
	}
}

// LoginHandler authenticates a user and returns a session token.
func LoginHandler(svc *trading.Service, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		userID, err := svc.Login(req.Username, req.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		token, err := utils.GenerateJWT(userID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}
