package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	assistUseCase "github.com/bugswriter/bizniz-api/internal/domain/usecase/assist"
	authUseCase "github.com/bugswriter/bizniz-api/internal/domain/usecase/auth"
	billingUseCase "github.com/bugswriter/bizniz-api/internal/domain/usecase/billing"
	ledgerUseCase "github.com/bugswriter/bizniz-api/internal/domain/usecase/ledger"
	webhookUseCase "github.com/bugswriter/bizniz-api/internal/domain/usecase/webhook"

	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/api/handler"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/api/routes"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/geminiai"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/logger"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/pocketbase"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/rediscache"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/resendmail"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/stripebilling"
	timeProvider "github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/time"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production, cfg.Logger.Level)
	defer func() { _ = appLogger.Flush() }()

	// Initialize time provider
	tp := timeProvider.NewRealTimeProvider()

	// Connect to PocketBase and authenticate the admin session
	pbClient := pocketbase.NewClient(
		cfg.PocketBase.URL,
		cfg.PocketBase.AdminEmail,
		cfg.PocketBase.AdminPassword,
		cfg.PocketBase.Timeout,
		appLogger,
	)

	authCtx, cancelAuth := tp.WithTimeout(context.Background(), cfg.PocketBase.Timeout)
	err = pbClient.Authenticate(authCtx)
	cancelAuth()
	if err != nil {
		appLogger.Error("Failed to authenticate with PocketBase", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	userStore := pocketbase.NewUserStore(pbClient)
	transactionStore := pocketbase.NewTransactionStore(pbClient)
	eventStore := pocketbase.NewEventStore(pbClient)

	// Connect to Redis; the cache degrades gracefully, so a failed ping is
	// a warning rather than a startup failure
	cache := rediscache.NewCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, appLogger)
	defer func() { _ = cache.Close() }()

	pingCtx, cancelPing := tp.WithTimeout(context.Background(), 5*time.Second)
	if err := cache.Ping(pingCtx); err != nil {
		appLogger.Warn("Redis unavailable, caching and rate limiting degraded", map[string]any{
			"addr":  cfg.Redis.Addr,
			"error": err.Error(),
		})
	}
	cancelPing()

	// Initialize the Stripe adapters
	billingProvider := stripebilling.NewBilling(cfg.Stripe.APIKey, cfg.Stripe.AppID, appLogger)
	webhookVerifier := stripebilling.NewVerifier(cfg.Stripe.WebhookSecret)

	// Initialize the Gemini adapter
	aiProvider, err := geminiai.NewProvider(
		context.Background(), cfg.Gemini.APIKey, cfg.Gemini.TextModel, cfg.Gemini.ImageModel)
	if err != nil {
		appLogger.Error("Failed to initialize Gemini client", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = aiProvider.Close() }()

	// Initialize the mailer
	mailer := resendmail.NewMailer(cfg.Resend.APIKey, cfg.Resend.FromAddress, cfg.App.ProjectName)

	// Initialize use cases
	ledgerService := ledgerUseCase.NewService(userStore, transactionStore, tp, appLogger)
	authService := authUseCase.NewService(userStore, ledgerService, appLogger, cfg.App.SignupBonusCoins)
	billingService := billingUseCase.NewService(billingProvider, cache, appLogger)
	assistService := assistUseCase.NewService(
		aiProvider, userStore, ledgerService, appLogger,
		cfg.App.TextGenerationCost, cfg.App.ImageGenerationCost)

	webhookHandlers := webhookUseCase.NewHandlers(userStore, ledgerService, billingProvider, mailer, appLogger)
	webhookProcessor := webhookUseCase.NewProcessor(webhookVerifier, eventStore, webhookHandlers, appLogger)

	// Initialize API handlers
	apiHandlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService, appLogger),
		User:    handler.NewUserHandler(ledgerService, appLogger),
		Payment: handler.NewPaymentHandler(billingService, appLogger),
		AI:      handler.NewAIHandler(assistService, appLogger),
		Webhook: handler.NewWebhookHandler(webhookProcessor, appLogger),
	}

	// Initialize Gin router
	router := gin.New()

	// Setup middlewares
	routes.SetupMiddlewares(router, appLogger, cfg.Server.AllowedOrigins)

	// Setup routes
	routes.SetupRoutes(router, apiHandlers, authService, cache, routes.RateLimitConfig{
		Limit:  cfg.App.AuthRateLimit,
		Window: time.Duration(cfg.App.AuthRateWindowSecs) * time.Second,
	}, appLogger)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	if cfg.PocketBase.URL == "" {
		missingConfigs = append(missingConfigs, "pocketbase.url (or BZ_POCKETBASE_URL environment variable)")
	}
	if cfg.PocketBase.AdminEmail == "" {
		missingConfigs = append(missingConfigs, "pocketbase.adminEmail (or BZ_POCKETBASE_ADMIN_EMAIL environment variable)")
	}
	if cfg.PocketBase.AdminPassword == "" {
		missingConfigs = append(missingConfigs, "pocketbase.adminPassword (or BZ_POCKETBASE_ADMIN_PASSWORD environment variable)")
	}

	if cfg.Stripe.APIKey == "" {
		missingConfigs = append(missingConfigs, "stripe.apiKey (or BZ_STRIPE_API_KEY environment variable)")
	}
	if cfg.Stripe.WebhookSecret == "" {
		missingConfigs = append(missingConfigs, "stripe.webhookSecret (or BZ_STRIPE_WEBHOOK_SECRET environment variable)")
	}

	if cfg.Gemini.APIKey == "" {
		missingConfigs = append(missingConfigs, "gemini.apiKey (or BZ_GEMINI_API_KEY environment variable)")
	}

	if cfg.Resend.APIKey == "" {
		missingConfigs = append(missingConfigs, "resend.apiKey (or BZ_RESEND_API_KEY environment variable)")
	}
	if cfg.Resend.FromAddress == "" {
		missingConfigs = append(missingConfigs, "resend.fromAddress (or BZ_RESEND_FROM_ADDRESS environment variable)")
	}

	// Environment should be set with a valid value
	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	return nil
}
