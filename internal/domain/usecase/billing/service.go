package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
	coreport "github.com/bugswriter/bizniz-api/internal/domain/port/core"
	"github.com/bugswriter/bizniz-api/internal/domain/port/provider"
)

const (
	productsCacheKey = "billing:products"
	productsCacheTTL = 5 * time.Minute
)

// CheckoutRequest is the validated input for creating a checkout session
type CheckoutRequest struct {
	PriceID    string
	Mode       string // "payment" or "subscription"
	SuccessURL string
	CancelURL  string
}

// Service wraps the payment backend with the application's business rules:
// who may buy what, and which subscription state transitions a user can
// request directly. The actual state machine lives on the provider; webhook
// reconciliation mirrors its outcome.
type Service struct {
	billing provider.Billing
	cache   provider.Cache
	logger  coreport.Logger
}

// NewService creates a new billing service
func NewService(billingProvider provider.Billing, cache provider.Cache, logger coreport.Logger) *Service {
	return &Service{
		billing: billingProvider,
		cache:   cache,
		logger:  logger,
	}
}

// Products returns the active catalog, served from cache when fresh
func (s *Service) Products(ctx context.Context) (*entity.Catalog, error) {
	if cached, ok, err := s.cache.Get(ctx, productsCacheKey); err == nil && ok {
		var catalog entity.Catalog
		if err := json.Unmarshal([]byte(cached), &catalog); err == nil {
			return &catalog, nil
		}
		// Unreadable cache entry; fall through to the provider.
		_ = s.cache.Delete(ctx, productsCacheKey)
	}

	catalog, err := s.billing.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrExternalService, err.Error())
	}

	if raw, err := json.Marshal(catalog); err == nil {
		if err := s.cache.Set(ctx, productsCacheKey, string(raw), productsCacheTTL); err != nil {
			s.logger.Warn("Product cache write failed", map[string]any{"error": err.Error()})
		}
	}

	return catalog, nil
}

// CreateCheckout creates a hosted checkout session for the user, enforcing
// the purchase rules: subscribers cannot stack subscriptions, and one-time
// packs are reserved for users with an active subscription.
func (s *Service) CreateCheckout(ctx context.Context, user *entity.User, req CheckoutRequest) (*provider.CheckoutSession, error) {
	switch req.Mode {
	case "subscription":
		if user.HasSubscription() {
			return nil, fmt.Errorf("%w: an active subscription already exists", errs.ErrSubscriptionConflict)
		}
	case "payment":
		if user.SubscriptionStatus != entity.SubscriptionActive {
			return nil, errs.ErrPurchaseNotAllowed
		}
	default:
		return nil, fmt.Errorf("%w: unknown checkout mode %q", errs.ErrInvalidRequest, req.Mode)
	}

	params := provider.CheckoutParams{
		PriceID:    req.PriceID,
		Mode:       req.Mode,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
		UserID:     user.ID,
		CustomerID: user.StripeCustomerID,
	}
	if params.CustomerID == "" {
		params.Email = user.Email
	}

	session, err := s.billing.CreateCheckoutSession(ctx, params)
	if err != nil {
		s.logger.Error("Checkout session creation failed", map[string]any{
			"user_id":  user.ID,
			"price_id": req.PriceID,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrExternalService, err.Error())
	}

	s.logger.Info("Checkout session created", map[string]any{
		"user_id":    user.ID,
		"session_id": session.ID,
		"mode":       req.Mode,
	})
	return session, nil
}

// CreatePortal creates a billing portal session for the user
func (s *Service) CreatePortal(ctx context.Context, user *entity.User, returnURL string) (string, error) {
	if user.StripeCustomerID == "" {
		return "", errs.ErrNoBillingAccount
	}

	url, err := s.billing.CreatePortalSession(ctx, user.StripeCustomerID, returnURL)
	if err != nil {
		s.logger.Error("Portal session creation failed", map[string]any{
			"user_id": user.ID,
			"error":   err.Error(),
		})
		return "", fmt.Errorf("%w: %s", errs.ErrExternalService, err.Error())
	}
	return url, nil
}

// CancelSubscription schedules the user's subscription for cancellation at
// the end of the current billing period
func (s *Service) CancelSubscription(ctx context.Context, user *entity.User) error {
	if user.StripeSubscriptionID == "" {
		return errs.ErrNoSubscription
	}
	if user.SubscriptionStatus != entity.SubscriptionActive {
		return fmt.Errorf("%w: cannot cancel a subscription in status %q",
			errs.ErrSubscriptionConflict, user.SubscriptionStatus)
	}

	if err := s.billing.CancelAtPeriodEnd(ctx, user.StripeSubscriptionID); err != nil {
		s.logger.Error("Subscription cancellation failed", map[string]any{
			"user_id":         user.ID,
			"subscription_id": user.StripeSubscriptionID,
			"error":           err.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrExternalService, err.Error())
	}

	s.logger.Info("Subscription scheduled for cancellation", map[string]any{
		"user_id":         user.ID,
		"subscription_id": user.StripeSubscriptionID,
	})
	return nil
}

// ReactivateSubscription clears a pending cancellation. Only valid while the
// subscription is in canceling status.
func (s *Service) ReactivateSubscription(ctx context.Context, user *entity.User) error {
	if user.StripeSubscriptionID == "" {
		return errs.ErrNoSubscription
	}
	if user.SubscriptionStatus != entity.SubscriptionCanceling {
		return fmt.Errorf("%w: can only reactivate a subscription in canceling status, got %q",
			errs.ErrSubscriptionConflict, user.SubscriptionStatus)
	}

	if err := s.billing.Reactivate(ctx, user.StripeSubscriptionID); err != nil {
		s.logger.Error("Subscription reactivation failed", map[string]any{
			"user_id":         user.ID,
			"subscription_id": user.StripeSubscriptionID,
			"error":           err.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrExternalService, err.Error())
	}

	s.logger.Info("Subscription reactivated", map[string]any{
		"user_id":         user.ID,
		"subscription_id": user.StripeSubscriptionID,
	})
	return nil
}
