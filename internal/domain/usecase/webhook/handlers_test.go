package webhook

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
	mockcore "github.com/bugswriter/bizniz-api/mocks/port/core"
	mockprovider "github.com/bugswriter/bizniz-api/mocks/port/provider"
)

// mockLedger stubs the narrow ledger slice the handlers use
type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Credit(ctx context.Context, userID string, amount float64, txnType entity.TransactionType, description, stripeChargeID string) error {
	args := m.Called(ctx, userID, amount, txnType, description, stripeChargeID)
	return args.Error(0)
}

type handlerMocks struct {
	users   *mockprovider.MockUserStore
	ledger  *mockLedger
	billing *mockprovider.MockBilling
	mailer  *mockprovider.MockMailer
}

func newTestHandlers() (*Handlers, *handlerMocks) {
	m := &handlerMocks{
		users:   &mockprovider.MockUserStore{},
		ledger:  &mockLedger{},
		billing: &mockprovider.MockBilling{},
		mailer:  &mockprovider.MockMailer{},
	}
	h := NewHandlers(m.users, m.ledger, m.billing, m.mailer, mockcore.RelaxedLogger())
	return h, m
}

func event(eventType, payload string) *entity.WebhookEvent {
	return &entity.WebhookEvent{ID: "evt_1", Type: eventType, Payload: []byte(payload)}
}

func TestHandleCheckoutCompletedPaymentMode(t *testing.T) {
	h, m := newTestHandlers()

	m.users.On("GetUserByID", mock.Anything, "user-1").
		Return(&entity.User{ID: "user-1", Email: "u@example.com", Name: "U"}, nil)
	m.users.On("UpdateUser", mock.Anything, "user-1", map[string]any{
		"stripe_customer_id": "cus_1",
	}).Return(&entity.User{ID: "user-1"}, nil).Once()
	m.billing.On("SessionLineItem", mock.Anything, "cs_1").
		Return(&entity.LineItem{ProductName: "Coin Pack 100", Coins: 100}, nil)
	m.ledger.On("Credit", mock.Anything, "user-1", 100.0, entity.TypePurchase,
		"Purchase of Coin Pack 100", "pi_1").Return(nil).Once()

	err := h.HandleCheckoutCompleted(context.Background(), event(entity.EventCheckoutCompleted, `{
		"id": "cs_1",
		"client_reference_id": "user-1",
		"customer": "cus_1",
		"mode": "payment",
		"payment_intent": "pi_1"
	}`))

	require.NoError(t, err)
	m.ledger.AssertExpectations(t)
	m.users.AssertExpectations(t)
	m.mailer.AssertNotCalled(t, "SendSubscriptionStarted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleCheckoutCompletedSubscriptionMode(t *testing.T) {
	h, m := newTestHandlers()

	m.users.On("GetUserByID", mock.Anything, "user-1").
		Return(&entity.User{ID: "user-1", Email: "u@example.com", Name: "U"}, nil)
	m.billing.On("SubscriptionPlanName", mock.Anything, "sub_1").Return("Pro Plan", nil)
	m.mailer.On("SendSubscriptionStarted", mock.Anything, "u@example.com", "U", "Pro Plan").Return(nil).Once()
	m.users.On("UpdateUser", mock.Anything, "user-1", map[string]any{
		"stripe_customer_id":     "cus_1",
		"stripe_subscription_id": "sub_1",
		"subscription_status":    "active",
		"active_plan_name":       "Pro Plan",
	}).Return(&entity.User{ID: "user-1"}, nil).Once()
	m.billing.On("SessionLineItem", mock.Anything, "cs_1").
		Return(&entity.LineItem{ProductName: "Pro Plan", Coins: 500}, nil)
	m.ledger.On("Credit", mock.Anything, "user-1", 500.0, entity.TypeSubscription,
		"Purchase of Pro Plan", "").Return(nil).Once()

	err := h.HandleCheckoutCompleted(context.Background(), event(entity.EventCheckoutCompleted, `{
		"id": "cs_1",
		"client_reference_id": "user-1",
		"customer": "cus_1",
		"mode": "subscription",
		"subscription": "sub_1"
	}`))

	require.NoError(t, err)
	m.users.AssertExpectations(t)
	m.mailer.AssertExpectations(t)
	m.ledger.AssertExpectations(t)
}

func TestHandleCheckoutCompletedMissingReference(t *testing.T) {
	h, m := newTestHandlers()

	err := h.HandleCheckoutCompleted(context.Background(), event(entity.EventCheckoutCompleted, `{
		"id": "cs_1",
		"mode": "payment"
	}`))

	assert.Error(t, err)
	m.users.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
}

func TestHandleCheckoutCompletedNoLineItems(t *testing.T) {
	h, m := newTestHandlers()

	m.users.On("GetUserByID", mock.Anything, "user-1").
		Return(&entity.User{ID: "user-1"}, nil)
	m.users.On("UpdateUser", mock.Anything, "user-1", mock.Anything).
		Return(&entity.User{ID: "user-1"}, nil)
	m.billing.On("SessionLineItem", mock.Anything, "cs_1").
		Return((*entity.LineItem)(nil), nil)

	err := h.HandleCheckoutCompleted(context.Background(), event(entity.EventCheckoutCompleted, `{
		"id": "cs_1",
		"client_reference_id": "user-1",
		"customer": "cus_1",
		"mode": "payment"
	}`))

	// An empty session is acknowledged, not retried.
	require.NoError(t, err)
	m.ledger.AssertNotCalled(t, "Credit",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleCheckoutCompletedNoCoinsMetadata(t *testing.T) {
	h, m := newTestHandlers()

	m.users.On("GetUserByID", mock.Anything, "user-1").
		Return(&entity.User{ID: "user-1"}, nil)
	m.users.On("UpdateUser", mock.Anything, "user-1", mock.Anything).
		Return(&entity.User{ID: "user-1"}, nil)
	m.billing.On("SessionLineItem", mock.Anything, "cs_1").
		Return(&entity.LineItem{ProductName: "Mystery Product", Coins: 0}, nil)

	err := h.HandleCheckoutCompleted(context.Background(), event(entity.EventCheckoutCompleted, `{
		"id": "cs_1",
		"client_reference_id": "user-1",
		"customer": "cus_1",
		"mode": "payment"
	}`))

	// Nothing to fulfill is not a failure; redelivery would not help.
	require.NoError(t, err)
	m.ledger.AssertNotCalled(t, "Credit",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleCheckoutCompletedCreditFailurePropagates(t *testing.T) {
	h, m := newTestHandlers()

	m.users.On("GetUserByID", mock.Anything, "user-1").
		Return(&entity.User{ID: "user-1"}, nil)
	m.users.On("UpdateUser", mock.Anything, "user-1", mock.Anything).
		Return(&entity.User{ID: "user-1"}, nil)
	m.billing.On("SessionLineItem", mock.Anything, "cs_1").
		Return(&entity.LineItem{ProductName: "Coin Pack 100", Coins: 100}, nil)
	m.ledger.On("Credit", mock.Anything, "user-1", 100.0, entity.TypePurchase,
		mock.Anything, mock.Anything).Return(errs.NewLedgerError("user-1", 100, "credit failed", errs.ErrExternalService))

	err := h.HandleCheckoutCompleted(context.Background(), event(entity.EventCheckoutCompleted, `{
		"id": "cs_1",
		"client_reference_id": "user-1",
		"customer": "cus_1",
		"mode": "payment"
	}`))

	// The processor converts this into a non-2xx ack so Stripe redelivers.
	assert.Error(t, err)
}

func TestHandleInvoicePaymentSucceededRenewal(t *testing.T) {
	h, m := newTestHandlers()

	m.users.On("GetUserByStripeCustomerID", mock.Anything, "cus_1").
		Return(&entity.User{ID: "user-1", Email: "u@example.com", Name: "U"}, nil)
	m.billing.On("ProductFulfillment", mock.Anything, "prod_1").
		Return(&entity.LineItem{ProductName: "Pro Plan", Coins: 500}, nil)
	m.ledger.On("Credit", mock.Anything, "user-1", 500.0, entity.TypeRenewal,
		"Subscription renewal: Pro Plan", "ch_1").Return(nil).Once()
	m.mailer.On("SendRenewalReceipt", mock.Anything, "u@example.com", "U", 500.0, "Pro Plan").Return(nil).Once()

	err := h.HandleInvoicePaymentSucceeded(context.Background(), event(entity.EventInvoicePaid, `{
		"id": "in_1",
		"customer": "cus_1",
		"billing_reason": "subscription_cycle",
		"charge": "ch_1",
		"lines": {"data": [{"price": {"product": "prod_1"}}]}
	}`))

	require.NoError(t, err)
	m.ledger.AssertExpectations(t)
	m.mailer.AssertExpectations(t)
}

func TestHandleInvoicePaymentSucceededIgnoresInitialInvoice(t *testing.T) {
	h, m := newTestHandlers()

	err := h.HandleInvoicePaymentSucceeded(context.Background(), event(entity.EventInvoicePaid, `{
		"id": "in_1",
		"customer": "cus_1",
		"billing_reason": "subscription_create",
		"lines": {"data": [{"price": {"product": "prod_1"}}]}
	}`))

	// The checkout handler owns the first payment; crediting here would
	// double-fulfill it.
	require.NoError(t, err)
	m.users.AssertNotCalled(t, "GetUserByStripeCustomerID", mock.Anything, mock.Anything)
	m.ledger.AssertNotCalled(t, "Credit",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleInvoicePaymentSucceededUnknownCustomer(t *testing.T) {
	h, m := newTestHandlers()

	m.users.On("GetUserByStripeCustomerID", mock.Anything, "cus_ghost").
		Return(nil, errs.ErrUserNotFound)

	err := h.HandleInvoicePaymentSucceeded(context.Background(), event(entity.EventInvoicePaid, `{
		"id": "in_1",
		"customer": "cus_ghost",
		"billing_reason": "subscription_cycle",
		"lines": {"data": [{"price": {"product": "prod_1"}}]}
	}`))

	// Unknown customers are logged and acked; retrying cannot resolve them.
	assert.NoError(t, err)
}

func TestHandleSubscriptionUpdatedCancelScheduled(t *testing.T) {
	h, m := newTestHandlers()

	m.users.On("GetUserByStripeCustomerID", mock.Anything, "cus_1").
		Return(&entity.User{
			ID: "user-1", Email: "u@example.com", Name: "U",
			StripeSubscriptionID: "sub_1",
			SubscriptionStatus:   entity.SubscriptionActive,
			ActivePlanName:       "Pro Plan",
		}, nil)
	m.users.On("UpdateUser", mock.Anything, "user-1", map[string]any{
		"subscription_status": "canceling",
	}).Return(&entity.User{ID: "user-1"}, nil).Once()
	m.mailer.On("SendSubscriptionCancelled", mock.Anything, "u@example.com", "U", "Pro Plan").Return(nil).Once()

	err := h.HandleSubscriptionUpdated(context.Background(), event(entity.EventSubscriptionUpdated, `{
		"id": "sub_1",
		"customer": "cus_1",
		"status": "active",
		"cancel_at_period_end": true
	}`))

	require.NoError(t, err)
	m.users.AssertExpectations(t)
	m.mailer.AssertExpectations(t)
}

func TestHandleSubscriptionUpdatedCancelIsIdempotent(t *testing.T) {
	h, m := newTestHandlers()

	m.users.On("GetUserByStripeCustomerID", mock.Anything, "cus_1").
		Return(&entity.User{
			ID:                   "user-1",
			StripeSubscriptionID: "sub_1",
			SubscriptionStatus:   entity.SubscriptionCanceling,
		}, nil)

	err := h.HandleSubscriptionUpdated(context.Background(), event(entity.EventSubscriptionUpdated, `{
		"id": "sub_1",
		"customer": "cus_1",
		"status": "active",
		"cancel_at_period_end": true
	}`))

	require.NoError(t, err)
	// Already canceling; no second update, no second email.
	m.users.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
	m.mailer.AssertNotCalled(t, "SendSubscriptionCancelled", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleSubscriptionUpdatedReactivation(t *testing.T) {
	h, m := newTestHandlers()

	m.users.On("GetUserByStripeCustomerID", mock.Anything, "cus_1").
		Return(&entity.User{
			ID:                   "user-1",
			StripeSubscriptionID: "sub_1",
			SubscriptionStatus:   entity.SubscriptionCanceling,
		}, nil)
	m.users.On("UpdateUser", mock.Anything, "user-1", map[string]any{
		"subscription_status": "active",
	}).Return(&entity.User{ID: "user-1"}, nil).Once()

	err := h.HandleSubscriptionUpdated(context.Background(), event(entity.EventSubscriptionUpdated, `{
		"id": "sub_1",
		"customer": "cus_1",
		"status": "active",
		"cancel_at_period_end": false
	}`))

	require.NoError(t, err)
	m.users.AssertExpectations(t)
}

func TestHandleSubscriptionUpdatedIDMismatchSkipped(t *testing.T) {
	h, m := newTestHandlers()

	m.users.On("GetUserByStripeCustomerID", mock.Anything, "cus_1").
		Return(&entity.User{
			ID:                   "user-1",
			StripeSubscriptionID: "sub_other",
			SubscriptionStatus:   entity.SubscriptionActive,
		}, nil)

	err := h.HandleSubscriptionUpdated(context.Background(), event(entity.EventSubscriptionUpdated, `{
		"id": "sub_1",
		"customer": "cus_1",
		"status": "active",
		"cancel_at_period_end": true
	}`))

	require.NoError(t, err)
	m.users.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleSubscriptionDeleted(t *testing.T) {
	h, m := newTestHandlers()

	m.users.On("GetUserByStripeCustomerID", mock.Anything, "cus_1").
		Return(&entity.User{
			ID:                   "user-1",
			StripeSubscriptionID: "sub_1",
			SubscriptionStatus:   entity.SubscriptionCanceling,
		}, nil)
	m.users.On("UpdateUser", mock.Anything, "user-1", map[string]any{
		"subscription_status":    "cancelled",
		"stripe_subscription_id": "",
		"active_plan_name":       "",
	}).Return(&entity.User{ID: "user-1"}, nil).Once()

	err := h.HandleSubscriptionDeleted(context.Background(), event(entity.EventSubscriptionDeleted, `{
		"id": "sub_1",
		"customer": "cus_1",
		"status": "canceled"
	}`))

	require.NoError(t, err)
	m.users.AssertExpectations(t)
}

func TestHandleCustomerCreatedLogsOnly(t *testing.T) {
	h, m := newTestHandlers()

	err := h.HandleCustomerCreated(context.Background(), event(entity.EventCustomerCreated, `{
		"id": "cus_1",
		"email": "u@example.com"
	}`))

	require.NoError(t, err)
	m.users.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
}
