package provider

import (
	"context"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
)

// CheckoutParams carries the inputs for creating a hosted checkout session
type CheckoutParams struct {
	PriceID    string
	Mode       string // "payment" or "subscription"
	SuccessURL string
	CancelURL  string
	UserID     string // forwarded as the session client reference
	CustomerID string // existing billing customer, if linked
	Email      string // used when no customer exists yet
}

// CheckoutSession is a created hosted checkout session
type CheckoutSession struct {
	ID  string
	URL string
}

// Billing is the contract for the external payment backend. Subscription
// lifecycle state machines live entirely on the provider side; this
// application only issues commands and mirrors webhook payloads.
type Billing interface {
	// ListProducts returns all active products scoped to this application,
	// split into recurring plans and one-time packs, each sorted by price
	ListProducts(ctx context.Context) (*entity.Catalog, error)

	// CreateCheckoutSession creates a hosted checkout session
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)

	// CreatePortalSession creates a customer billing portal session URL
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)

	// CancelAtPeriodEnd schedules a subscription for cancellation
	CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error

	// Reactivate clears a pending cancellation
	Reactivate(ctx context.Context, subscriptionID string) error

	// SubscriptionPlanName resolves the product name of a subscription's plan
	SubscriptionPlanName(ctx context.Context, subscriptionID string) (string, error)

	// SessionLineItem fetches the first line item of a checkout session with
	// its product name and coin metadata, for fulfillment. A session without
	// line items returns (nil, nil); errors are reserved for lookup failures
	SessionLineItem(ctx context.Context, sessionID string) (*entity.LineItem, error)

	// ProductFulfillment resolves a product's name and coin metadata by id,
	// for invoice-based renewals
	ProductFulfillment(ctx context.Context, productID string) (*entity.LineItem, error)
}

// WebhookVerifier validates an inbound signed webhook payload.
// Verification failure must fail closed.
type WebhookVerifier interface {
	VerifyPayload(payload []byte, signatureHeader string) (*entity.WebhookEvent, error)
}
