package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	coreport "github.com/bugswriter/bizniz-api/internal/domain/port/core"
	"github.com/bugswriter/bizniz-api/internal/domain/port/provider"
	authUseCase "github.com/bugswriter/bizniz-api/internal/domain/usecase/auth"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/api/handler"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/api/middleware"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Payment *handler.PaymentHandler
	AI      *handler.AIHandler
	Webhook *handler.WebhookHandler
}

// RateLimitConfig carries the fixed-window limit applied to the auth routes
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	handlers *Handlers,
	authService *authUseCase.Service,
	cache provider.Cache,
	rateLimit RateLimitConfig,
	logger coreport.Logger,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Stripe posts here; no auth, signature verification guards it
	router.POST("/stripe-webhook", handlers.Webhook.HandleStripeWebhook)

	requireAuth := middleware.RequireAuth(authService, logger)

	authRoutes := router.Group("/auth")
	authRoutes.Use(middleware.RateLimit(cache, rateLimit.Limit, rateLimit.Window, logger))
	{
		authRoutes.POST("/register", handlers.Auth.Register)
		authRoutes.POST("/login", handlers.Auth.Login)
		authRoutes.POST("/resend-verification", handlers.Auth.ResendVerification)
		authRoutes.POST("/confirm-verification", handlers.Auth.ConfirmVerification)
		authRoutes.POST("/request-password-reset", handlers.Auth.RequestPasswordReset)
		authRoutes.POST("/confirm-password-reset", handlers.Auth.ConfirmPasswordReset)
		authRoutes.GET("/oauth-providers", handlers.Auth.OAuthProviders)
		authRoutes.POST("/oauth-callback", handlers.Auth.OAuthCallback)
	}

	userRoutes := router.Group("/users", requireAuth)
	{
		userRoutes.GET("/me", handlers.User.Me)
		userRoutes.GET("/me/transactions", handlers.User.Transactions)
	}

	paymentRoutes := router.Group("/payments")
	{
		// The catalog is public; everything else acts on the caller's account
		paymentRoutes.GET("/products", handlers.Payment.Products)
		paymentRoutes.POST("/checkout", requireAuth, handlers.Payment.Checkout)
		paymentRoutes.POST("/portal", requireAuth, handlers.Payment.Portal)
		paymentRoutes.POST("/subscription/cancel", requireAuth, handlers.Payment.CancelSubscription)
		paymentRoutes.POST("/subscription/reactivate", requireAuth, handlers.Payment.ReactivateSubscription)
	}

	aiRoutes := router.Group("/ai", requireAuth)
	{
		aiRoutes.POST("/text/chat", handlers.AI.Chat)
		aiRoutes.POST("/image/generate", handlers.AI.GenerateImage)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, allowedOrigins []string) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(allowedOrigins))
}
