package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jukewave/jukewave/internal/domain"
	authpkg "github.com/jukewave/jukewave/pkg/auth"
	"github.com/jukewave/jukewave/pkg/logger"
	"github.com/jukewave/jukewave/pkg/xresponse"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	router *gin.Engine,
	queueHandler *QueueHandler,
	accountHandler *AccountHandler,
	authService domain.AuthService,
) {
	v1 := router.Group("/api/v1")
	{
		configureQueueRoutes(v1, queueHandler, authService)
		configureAccountRoutes(v1, accountHandler, authService)
		configureAuthRoutes(v1, accountHandler)
		configurePublicRoutes(v1)
	}

	logger.Info("API routes configured successfully")
}

func configureQueueRoutes(group *gin.RouterGroup, queueHandler *QueueHandler, authService domain.AuthService) {
	routes := group.Group("/queue")
	{
		// Reads are public, the display client polls them unauthenticated
		routes.GET("/now-playing", queueHandler.NowPlaying)
		routes.GET("/metadata", queueHandler.Metadata)
		routes.GET("/count", queueHandler.Count)
		routes.GET("/entries/:index", queueHandler.EntryAt)
		routes.GET("/events", queueHandler.Events)

		submit := routes.Group("")
		submit.Use(authMiddleware(authService))
		{
			submit.POST("", queueHandler.Submit)
		}
	}
}

func configureAccountRoutes(group *gin.RouterGroup, accountHandler *AccountHandler, authService domain.AuthService) {
	routes := group.Group("/account")
	routes.Use(authMiddleware(authService))
	{
		routes.GET("", accountHandler.GetAccount)
		routes.POST("/deposit", accountHandler.Deposit)
	}
}

func configureAuthRoutes(group *gin.RouterGroup, accountHandler *AccountHandler) {
	routes := group.Group("/auth")
	{
		routes.POST("/token", accountHandler.IssueToken)
	}
}

func configurePublicRoutes(group *gin.RouterGroup) {
	public := group.Group("/public")
	{
		public.GET("/ping", func(c *gin.Context) {
			xresponse.Success(c, "pong", nil)
		})
	}
}

// GetSubmitterAddress returns the wallet address set by authMiddleware,
// or empty when the request is unauthenticated
func GetSubmitterAddress(c *gin.Context) string {
	return c.GetString("wallet_address")
}

// authMiddleware validates JWT token and sets the caller's wallet address
func authMiddleware(authService domain.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authService == nil {
			xresponse.InternalServerError(c, "Auth service not available")
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			xresponse.Unauthorized(c, "Authorization header with Bearer token required")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			xresponse.Unauthorized(c, "Token is empty")
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			switch {
			case errors.Is(err, authpkg.ErrExpiredToken):
				xresponse.Unauthorized(c, "Token expired")
			case errors.Is(err, authpkg.ErrInvalidToken):
				xresponse.Unauthorized(c, "Invalid token")
			default:
				xresponse.InternalServerError(c, "Failed to validate token")
			}
			c.Abort()
			return
		}

		address := strings.TrimSpace(claims.Address)
		if address == "" {
			xresponse.Unauthorized(c, "Invalid token payload")
			c.Abort()
			return
		}

		c.Set("wallet_address", address)
		c.Set("token_issued_at", claims.IssuedAt)
		c.Set("token_expires_at", claims.ExpiresAt)

		ttl := time.Until(claims.ExpiresAt)
		logger.Debug("Caller authenticated via middleware",
			logger.String("address", address),
			logger.String("token_ttl", ttl.String()),
		)

		c.Next()
	}
}
