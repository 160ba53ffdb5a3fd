package stripebilling

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
	"github.com/bugswriter/bizniz-api/internal/domain/port/core"
	"github.com/bugswriter/bizniz-api/internal/domain/port/provider"
)

// coinsMetadataKey is the Stripe product metadata key carrying the credit
// amount granted on fulfillment
const coinsMetadataKey = "coins"

// Billing implements the payment backend contract on the Stripe API.
// Products are scoped to this application through an app_id metadata tag,
// so one Stripe account can serve several frontends.
type Billing struct {
	api    *client.API
	appID  string
	logger core.Logger
}

// NewBilling creates a Stripe-backed billing adapter
func NewBilling(apiKey, appID string, logger core.Logger) provider.Billing {
	api := &client.API{}
	api.Init(apiKey, nil)

	return &Billing{
		api:    api,
		appID:  appID,
		logger: logger,
	}
}

// ListProducts returns all active products scoped to this application,
// split into recurring plans and one-time packs, each sorted by price
func (b *Billing) ListProducts(ctx context.Context) (*entity.Catalog, error) {
	params := &stripe.ProductSearchParams{
		SearchParams: stripe.SearchParams{
			Query:   fmt.Sprintf("active:'true' AND metadata['app_id']:'%s'", b.appID),
			Context: ctx,
		},
	}
	params.AddExpand("data.default_price")

	catalog := &entity.Catalog{
		SubscriptionPlans: []entity.Product{},
		OneTimePacks:      []entity.Product{},
	}

	iter := b.api.Products.Search(params)
	for iter.Next() {
		p := iter.Product()
		if p.DefaultPrice == nil {
			b.logger.Warn("skipping product without a default price", map[string]any{
				"product_id": p.ID,
			})
			continue
		}

		product := entity.Product{
			PriceID:     p.DefaultPrice.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       float64(p.DefaultPrice.UnitAmount) / 100,
			Currency:    string(p.DefaultPrice.Currency),
			Coins:       parseCoins(p.Metadata),
			Recurring:   p.DefaultPrice.Recurring != nil,
		}

		if product.Recurring {
			catalog.SubscriptionPlans = append(catalog.SubscriptionPlans, product)
		} else {
			catalog.OneTimePacks = append(catalog.OneTimePacks, product)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	sortByPrice(catalog.SubscriptionPlans)
	sortByPrice(catalog.OneTimePacks)

	return catalog, nil
}

// CreateCheckoutSession creates a hosted checkout session
func (b *Billing) CreateCheckoutSession(ctx context.Context, checkout provider.CheckoutParams) (*provider.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
		Mode:   stripe.String(checkout.Mode),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(checkout.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(checkout.SuccessURL),
		CancelURL:         stripe.String(checkout.CancelURL),
		ClientReferenceID: stripe.String(checkout.UserID),
	}

	if checkout.CustomerID != "" {
		params.Customer = stripe.String(checkout.CustomerID)
	} else {
		params.CustomerEmail = stripe.String(checkout.Email)
	}

	session, err := b.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &provider.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// CreatePortalSession creates a customer billing portal session URL
func (b *Billing) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Params:    stripe.Params{Context: ctx},
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}

	session, err := b.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create portal session: %w", err)
	}

	return session.URL, nil
}

// CancelAtPeriodEnd schedules a subscription for cancellation
func (b *Billing) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error {
	return b.setCancelAtPeriodEnd(ctx, subscriptionID, true)
}

// Reactivate clears a pending cancellation
func (b *Billing) Reactivate(ctx context.Context, subscriptionID string) error {
	return b.setCancelAtPeriodEnd(ctx, subscriptionID, false)
}

func (b *Billing) setCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) error {
	params := &stripe.SubscriptionParams{
		Params:            stripe.Params{Context: ctx},
		CancelAtPeriodEnd: stripe.Bool(cancel),
	}

	if _, err := b.api.Subscriptions.Update(subscriptionID, params); err != nil {
		return fmt.Errorf("update subscription %s: %w", subscriptionID, err)
	}
	return nil
}

// SubscriptionPlanName resolves the product name of a subscription's plan
func (b *Billing) SubscriptionPlanName(ctx context.Context, subscriptionID string) (string, error) {
	params := &stripe.SubscriptionParams{
		Params: stripe.Params{Context: ctx},
	}
	params.AddExpand("items.data.price.product")

	sub, err := b.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return "", fmt.Errorf("get subscription %s: %w", subscriptionID, err)
	}

	if sub.Items == nil || len(sub.Items.Data) == 0 {
		return "", fmt.Errorf("subscription %s has no items: %w", subscriptionID, errs.ErrExternalService)
	}

	item := sub.Items.Data[0]
	if item.Price == nil || item.Price.Product == nil {
		return "", fmt.Errorf("subscription %s item has no expanded product: %w", subscriptionID, errs.ErrExternalService)
	}

	return item.Price.Product.Name, nil
}

// SessionLineItem fetches the first line item of a checkout session with
// its product name and coin metadata, for fulfillment. A session without
// line items returns nil without error; an empty session is nothing to
// fulfill, not a failure worth a redelivery.
func (b *Billing) SessionLineItem(ctx context.Context, sessionID string) (*entity.LineItem, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	params.Context = ctx
	params.AddExpand("data.price.product")

	iter := b.api.CheckoutSessions.ListLineItems(params)
	for iter.Next() {
		li := iter.LineItem()
		if li.Price == nil || li.Price.Product == nil {
			continue
		}
		return &entity.LineItem{
			ProductName: li.Price.Product.Name,
			Coins:       parseCoins(li.Price.Product.Metadata),
		}, nil
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list line items for session %s: %w", sessionID, err)
	}

	return nil, nil
}

// ProductFulfillment resolves a product's name and coin metadata by id,
// for invoice-based renewals
func (b *Billing) ProductFulfillment(ctx context.Context, productID string) (*entity.LineItem, error) {
	params := &stripe.ProductParams{
		Params: stripe.Params{Context: ctx},
	}

	p, err := b.api.Products.Get(productID, params)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}

	return &entity.LineItem{
		ProductName: p.Name,
		Coins:       parseCoins(p.Metadata),
	}, nil
}

// parseCoins reads the coin grant from product metadata; products without
// the tag grant nothing
func parseCoins(metadata map[string]string) float64 {
	raw, ok := metadata[coinsMetadataKey]
	if !ok {
		return 0
	}
	coins, err := strconv.ParseFloat(raw, 64)
	if err != nil || coins < 0 {
		return 0
	}
	return coins
}

func sortByPrice(products []entity.Product) {
	sort.Slice(products, func(i, j int) bool {
		return products[i].Price < products[j].Price
	})
}
