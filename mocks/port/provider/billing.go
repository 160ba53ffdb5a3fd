package provider

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
	"github.com/bugswriter/bizniz-api/internal/domain/port/provider"
)

// MockBilling is a testify mock for the Billing port
type MockBilling struct {
	mock.Mock
}

func (m *MockBilling) ListProducts(ctx context.Context) (*entity.Catalog, error) {
	args := m.Called(ctx)
	if catalog, ok := args.Get(0).(*entity.Catalog); ok {
		return catalog, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBilling) CreateCheckoutSession(ctx context.Context, params provider.CheckoutParams) (*provider.CheckoutSession, error) {
	args := m.Called(ctx, params)
	if session, ok := args.Get(0).(*provider.CheckoutSession); ok {
		return session, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBilling) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	args := m.Called(ctx, customerID, returnURL)
	return args.String(0), args.Error(1)
}

func (m *MockBilling) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

func (m *MockBilling) Reactivate(ctx context.Context, subscriptionID string) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

func (m *MockBilling) SubscriptionPlanName(ctx context.Context, subscriptionID string) (string, error) {
	args := m.Called(ctx, subscriptionID)
	return args.String(0), args.Error(1)
}

func (m *MockBilling) SessionLineItem(ctx context.Context, sessionID string) (*entity.LineItem, error) {
	args := m.Called(ctx, sessionID)
	if item, ok := args.Get(0).(*entity.LineItem); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBilling) ProductFulfillment(ctx context.Context, productID string) (*entity.LineItem, error) {
	args := m.Called(ctx, productID)
	if item, ok := args.Get(0).(*entity.LineItem); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockWebhookVerifier is a testify mock for the WebhookVerifier port
type MockWebhookVerifier struct {
	mock.Mock
}

func (m *MockWebhookVerifier) VerifyPayload(payload []byte, signatureHeader string) (*entity.WebhookEvent, error) {
	args := m.Called(payload, signatureHeader)
	if event, ok := args.Get(0).(*entity.WebhookEvent); ok {
		return event, args.Error(1)
	}
	return nil, args.Error(1)
}
