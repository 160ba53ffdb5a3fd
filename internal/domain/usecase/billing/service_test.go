package billing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
	"github.com/bugswriter/bizniz-api/internal/domain/port/provider"
	mockcore "github.com/bugswriter/bizniz-api/mocks/port/core"
	mockprovider "github.com/bugswriter/bizniz-api/mocks/port/provider"
)

func testCatalog() *entity.Catalog {
	return &entity.Catalog{
		SubscriptionPlans: []entity.Product{
			{PriceID: "price_pro", Name: "Pro Plan", Price: 9.99, Coins: 500, Recurring: true},
		},
		OneTimePacks: []entity.Product{
			{PriceID: "price_pack", Name: "Coin Pack 100", Price: 4.99, Coins: 100},
		},
	}
}

func TestProducts(t *testing.T) {
	t.Run("Cache miss hits the provider and writes back", func(t *testing.T) {
		billingMock := &mockprovider.MockBilling{}
		cache := &mockprovider.MockCache{}
		service := NewService(billingMock, cache, mockcore.RelaxedLogger())

		cache.On("Get", mock.Anything, "billing:products").Return("", false, nil)
		billingMock.On("ListProducts", mock.Anything).Return(testCatalog(), nil)
		cache.On("Set", mock.Anything, "billing:products", mock.Anything, productsCacheTTL).Return(nil).Once()

		catalog, err := service.Products(context.Background())

		require.NoError(t, err)
		assert.Len(t, catalog.SubscriptionPlans, 1)
		assert.Len(t, catalog.OneTimePacks, 1)
		cache.AssertExpectations(t)
	})

	t.Run("Cache hit skips the provider", func(t *testing.T) {
		billingMock := &mockprovider.MockBilling{}
		cache := &mockprovider.MockCache{}
		service := NewService(billingMock, cache, mockcore.RelaxedLogger())

		raw, err := json.Marshal(testCatalog())
		require.NoError(t, err)
		cache.On("Get", mock.Anything, "billing:products").Return(string(raw), true, nil)

		catalog, err := service.Products(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "Pro Plan", catalog.SubscriptionPlans[0].Name)
		billingMock.AssertNotCalled(t, "ListProducts", mock.Anything)
	})

	t.Run("Corrupt cache entry falls through to the provider", func(t *testing.T) {
		billingMock := &mockprovider.MockBilling{}
		cache := &mockprovider.MockCache{}
		service := NewService(billingMock, cache, mockcore.RelaxedLogger())

		cache.On("Get", mock.Anything, "billing:products").Return("{not json", true, nil)
		cache.On("Delete", mock.Anything, "billing:products").Return(nil)
		billingMock.On("ListProducts", mock.Anything).Return(testCatalog(), nil)
		cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		catalog, err := service.Products(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, catalog)
	})

	t.Run("Provider failure maps to external service error", func(t *testing.T) {
		billingMock := &mockprovider.MockBilling{}
		cache := mockprovider.PassthroughCache()
		service := NewService(billingMock, cache, mockcore.RelaxedLogger())

		billingMock.On("ListProducts", mock.Anything).Return(nil, errors.New("stripe down"))

		_, err := service.Products(context.Background())

		assert.ErrorIs(t, err, errs.ErrExternalService)
	})
}

func TestCreateCheckout(t *testing.T) {
	req := CheckoutRequest{
		PriceID:    "price_pro",
		Mode:       "subscription",
		SuccessURL: "http://localhost/success",
		CancelURL:  "http://localhost/cancel",
	}

	t.Run("Subscriber cannot stack subscriptions", func(t *testing.T) {
		billingMock := &mockprovider.MockBilling{}
		service := NewService(billingMock, mockprovider.PassthroughCache(), mockcore.RelaxedLogger())

		user := &entity.User{ID: "user-1", SubscriptionStatus: entity.SubscriptionActive}

		_, err := service.CreateCheckout(context.Background(), user, req)

		assert.ErrorIs(t, err, errs.ErrSubscriptionConflict)
		billingMock.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
	})

	t.Run("Canceling subscription still blocks a new one", func(t *testing.T) {
		billingMock := &mockprovider.MockBilling{}
		service := NewService(billingMock, mockprovider.PassthroughCache(), mockcore.RelaxedLogger())

		user := &entity.User{ID: "user-1", SubscriptionStatus: entity.SubscriptionCanceling}

		_, err := service.CreateCheckout(context.Background(), user, req)

		assert.ErrorIs(t, err, errs.ErrSubscriptionConflict)
	})

	t.Run("One-time pack requires an active subscription", func(t *testing.T) {
		billingMock := &mockprovider.MockBilling{}
		service := NewService(billingMock, mockprovider.PassthroughCache(), mockcore.RelaxedLogger())

		user := &entity.User{ID: "user-1", SubscriptionStatus: entity.SubscriptionInactive}
		packReq := req
		packReq.Mode = "payment"

		_, err := service.CreateCheckout(context.Background(), user, packReq)

		assert.ErrorIs(t, err, errs.ErrPurchaseNotAllowed)
	})

	t.Run("Unknown mode rejected", func(t *testing.T) {
		billingMock := &mockprovider.MockBilling{}
		service := NewService(billingMock, mockprovider.PassthroughCache(), mockcore.RelaxedLogger())

		badReq := req
		badReq.Mode = "setup"

		_, err := service.CreateCheckout(context.Background(), &entity.User{ID: "user-1"}, badReq)

		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("New customer checkout carries the email", func(t *testing.T) {
		billingMock := &mockprovider.MockBilling{}
		service := NewService(billingMock, mockprovider.PassthroughCache(), mockcore.RelaxedLogger())

		user := &entity.User{ID: "user-1", Email: "u@example.com"}

		billingMock.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(p provider.CheckoutParams) bool {
			return p.UserID == "user-1" && p.CustomerID == "" && p.Email == "u@example.com"
		})).Return(&provider.CheckoutSession{ID: "cs_1", URL: "https://checkout"}, nil)

		session, err := service.CreateCheckout(context.Background(), user, req)

		require.NoError(t, err)
		assert.Equal(t, "cs_1", session.ID)
	})

	t.Run("Linked customer checkout reuses the customer id", func(t *testing.T) {
		billingMock := &mockprovider.MockBilling{}
		service := NewService(billingMock, mockprovider.PassthroughCache(), mockcore.RelaxedLogger())

		user := &entity.User{
			ID:                 "user-1",
			Email:              "u@example.com",
			StripeCustomerID:   "cus_1",
			SubscriptionStatus: entity.SubscriptionActive,
		}
		packReq := req
		packReq.Mode = "payment"

		billingMock.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(p provider.CheckoutParams) bool {
			return p.CustomerID == "cus_1" && p.Email == ""
		})).Return(&provider.CheckoutSession{ID: "cs_2", URL: "https://checkout"}, nil)

		_, err := service.CreateCheckout(context.Background(), user, packReq)

		assert.NoError(t, err)
	})
}

func TestCreatePortal(t *testing.T) {
	t.Run("No billing account", func(t *testing.T) {
		billingMock := &mockprovider.MockBilling{}
		service := NewService(billingMock, mockprovider.PassthroughCache(), mockcore.RelaxedLogger())

		_, err := service.CreatePortal(context.Background(), &entity.User{ID: "user-1"}, "http://localhost")

		assert.ErrorIs(t, err, errs.ErrNoBillingAccount)
	})

	t.Run("Linked customer gets a portal URL", func(t *testing.T) {
		billingMock := &mockprovider.MockBilling{}
		service := NewService(billingMock, mockprovider.PassthroughCache(), mockcore.RelaxedLogger())

		billingMock.On("CreatePortalSession", mock.Anything, "cus_1", "http://localhost").
			Return("https://portal", nil)

		url, err := service.CreatePortal(context.Background(),
			&entity.User{ID: "user-1", StripeCustomerID: "cus_1"}, "http://localhost")

		require.NoError(t, err)
		assert.Equal(t, "https://portal", url)
	})
}

func TestCancelSubscription(t *testing.T) {
	t.Run("No subscription", func(t *testing.T) {
		service := NewService(&mockprovider.MockBilling{}, mockprovider.PassthroughCache(), mockcore.RelaxedLogger())

		err := service.CancelSubscription(context.Background(), &entity.User{ID: "user-1"})

		assert.ErrorIs(t, err, errs.ErrNoSubscription)
	})

	t.Run("Only active subscriptions can be cancelled", func(t *testing.T) {
		service := NewService(&mockprovider.MockBilling{}, mockprovider.PassthroughCache(), mockcore.RelaxedLogger())

		err := service.CancelSubscription(context.Background(), &entity.User{
			ID:                   "user-1",
			StripeSubscriptionID: "sub_1",
			SubscriptionStatus:   entity.SubscriptionCanceling,
		})

		assert.ErrorIs(t, err, errs.ErrSubscriptionConflict)
	})

	t.Run("Active subscription is scheduled for cancellation", func(t *testing.T) {
		billingMock := &mockprovider.MockBilling{}
		service := NewService(billingMock, mockprovider.PassthroughCache(), mockcore.RelaxedLogger())

		billingMock.On("CancelAtPeriodEnd", mock.Anything, "sub_1").Return(nil).Once()

		err := service.CancelSubscription(context.Background(), &entity.User{
			ID:                   "user-1",
			StripeSubscriptionID: "sub_1",
			SubscriptionStatus:   entity.SubscriptionActive,
		})

		require.NoError(t, err)
		billingMock.AssertExpectations(t)
	})
}

func TestReactivateSubscription(t *testing.T) {
	t.Run("Only canceling subscriptions can be reactivated", func(t *testing.T) {
		service := NewService(&mockprovider.MockBilling{}, mockprovider.PassthroughCache(), mockcore.RelaxedLogger())

		err := service.ReactivateSubscription(context.Background(), &entity.User{
			ID:                   "user-1",
			StripeSubscriptionID: "sub_1",
			SubscriptionStatus:   entity.SubscriptionActive,
		})

		assert.ErrorIs(t, err, errs.ErrSubscriptionConflict)
	})

	t.Run("Canceling subscription is reactivated", func(t *testing.T) {
		billingMock := &mockprovider.MockBilling{}
		service := NewService(billingMock, mockprovider.PassthroughCache(), mockcore.RelaxedLogger())

		billingMock.On("Reactivate", mock.Anything, "sub_1").Return(nil).Once()

		err := service.ReactivateSubscription(context.Background(), &entity.User{
			ID:                   "user-1",
			StripeSubscriptionID: "sub_1",
			SubscriptionStatus:   entity.SubscriptionCanceling,
		})

		require.NoError(t, err)
		billingMock.AssertExpectations(t)
	})
}
