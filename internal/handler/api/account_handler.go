package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jukewave/jukewave/internal/domain"
	"github.com/jukewave/jukewave/pkg/logger"
	"github.com/jukewave/jukewave/pkg/metrics"
	"github.com/jukewave/jukewave/pkg/xresponse"
)

// AccountHandler handles wallet and token endpoints
type AccountHandler struct {
	walletRepo  domain.WalletRepository
	authService domain.AuthService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(walletRepo domain.WalletRepository, authService domain.AuthService) *AccountHandler {
	return &AccountHandler{
		walletRepo:  walletRepo,
		authService: authService,
	}
}

// TokenRequest represents a token issuance request
type TokenRequest struct {
	Address string `json:"address" binding:"required"`
}

// DepositRequest represents a wallet funding request
type DepositRequest struct {
	Amount uint64 `json:"amount" binding:"required"`
}

// IssueToken exchanges a wallet address for an access token. The caller
// vouches for the address itself, matching the relay's bring-your-own-key
// trust model.
func (h *AccountHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		xresponse.BadRequest(c, "Invalid request format")
		return
	}

	token, err := h.authService.GenerateAccessToken(req.Address)
	if err != nil {
		logger.Error("Failed to issue token", logger.ErrorField(err))
		metrics.RecordAuthAttempt("failed")
		xresponse.InternalServerError(c, "Failed to issue token")
		return
	}

	metrics.RecordAuthAttempt("success")
	xresponse.Success(c, "Token issued", gin.H{
		"access_token": token,
		"token_type":   "Bearer",
	})
}

// GetAccount returns the authenticated caller's address and wallet balance
func (h *AccountHandler) GetAccount(c *gin.Context) {
	address := GetSubmitterAddress(c)
	if address == "" {
		xresponse.Unauthorized(c, "Authentication required")
		return
	}

	wallet, err := h.walletRepo.GetByAddress(address)
	if err != nil {
		// A fresh address simply has no funds yet
		xresponse.Success(c, "Account info", gin.H{
			"address": address,
			"balance": 0,
		})
		return
	}

	xresponse.Success(c, "Account info", gin.H{
		"address": wallet.Address,
		"balance": wallet.Balance,
	})
}

// Deposit credits the authenticated caller's wallet
func (h *AccountHandler) Deposit(c *gin.Context) {
	address := GetSubmitterAddress(c)
	if address == "" {
		xresponse.Unauthorized(c, "Authentication required")
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		xresponse.BadRequest(c, "Invalid request format")
		return
	}

	if err := h.walletRepo.Credit(address, req.Amount); err != nil {
		logger.Error("Failed to credit wallet",
			logger.String("address", address),
			logger.ErrorField(err),
		)
		xresponse.InternalServerError(c, "Failed to credit wallet")
		return
	}

	xresponse.Success(c, "Wallet credited", gin.H{
		"address": address,
		"amount":  req.Amount,
	})
}
