package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
	coreport "github.com/bugswriter/bizniz-api/internal/domain/port/core"
	"github.com/bugswriter/bizniz-api/internal/domain/port/provider"
	"github.com/bugswriter/bizniz-api/internal/domain/usecase/ledger"
)

// Checkout modes as sent in the session payload
const (
	modePayment      = "payment"
	modeSubscription = "subscription"
)

// Ledger is the slice of the ledger service the handlers need
type Ledger interface {
	Credit(ctx context.Context, userID string, amount float64, txnType entity.TransactionType, description, stripeChargeID string) error
}

var _ Ledger = (*ledger.Service)(nil)

// Handlers holds the per-event-type reconciliation logic. Each handler
// resolves the paying user from the payload, applies balance and
// subscription-state mutations, and triggers best-effort notifications.
type Handlers struct {
	users   provider.UserStore
	ledger  Ledger
	billing provider.Billing
	mailer  provider.Mailer
	logger  coreport.Logger
}

// NewHandlers creates the webhook event handlers
func NewHandlers(
	users provider.UserStore,
	ledgerSvc Ledger,
	billing provider.Billing,
	mailer provider.Mailer,
	logger coreport.Logger,
) *Handlers {
	return &Handlers{
		users:   users,
		ledger:  ledgerSvc,
		billing: billing,
		mailer:  mailer,
		logger:  logger,
	}
}

// Payload shapes: only the fields reconciliation needs. Object references
// (customer, subscription, payment_intent, product) arrive as plain id
// strings in unexpanded webhook payloads.

type checkoutSessionPayload struct {
	ID                string `json:"id"`
	ClientReferenceID string `json:"client_reference_id"`
	Customer          string `json:"customer"`
	Mode              string `json:"mode"`
	Subscription      string `json:"subscription"`
	PaymentIntent     string `json:"payment_intent"`
}

type invoicePayload struct {
	ID            string `json:"id"`
	Customer      string `json:"customer"`
	BillingReason string `json:"billing_reason"`
	Charge        string `json:"charge"`
	Lines         struct {
		Data []struct {
			Price struct {
				Product string `json:"product"`
			} `json:"price"`
		} `json:"data"`
	} `json:"lines"`
}

type subscriptionPayload struct {
	ID                string `json:"id"`
	Customer          string `json:"customer"`
	Status            string `json:"status"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`
}

type customerPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// HandleCheckoutCompleted links the Stripe customer to the local user and
// fulfills the initial purchase: for subscriptions it also mirrors the
// subscription id, marks the status active, records the plan name and sends
// the welcome email. The coin credit comes from the session line item's
// product metadata.
func (h *Handlers) HandleCheckoutCompleted(ctx context.Context, event *entity.WebhookEvent) error {
	var session checkoutSessionPayload
	if err := json.Unmarshal(event.Payload, &session); err != nil {
		return fmt.Errorf("malformed checkout session payload: %w", err)
	}

	if session.ClientReferenceID == "" {
		return fmt.Errorf("checkout session %s has no client reference id", session.ID)
	}

	user, err := h.users.GetUserByID(ctx, session.ClientReferenceID)
	if err != nil {
		return fmt.Errorf("resolving user %s for session %s: %w", session.ClientReferenceID, session.ID, err)
	}

	fields := map[string]any{}
	if session.Customer != "" {
		fields["stripe_customer_id"] = session.Customer
	}

	if session.Mode == modeSubscription {
		fields["stripe_subscription_id"] = session.Subscription
		fields["subscription_status"] = string(entity.SubscriptionActive)

		planName, err := h.billing.SubscriptionPlanName(ctx, session.Subscription)
		if err != nil {
			h.logger.Error("Failed to resolve subscription plan name", map[string]any{
				"subscription_id": session.Subscription,
				"error":           err.Error(),
			})
			planName = "Unknown Plan"
		} else {
			fields["active_plan_name"] = planName
		}

		if err := h.mailer.SendSubscriptionStarted(ctx, user.Email, user.Name, planName); err != nil {
			h.logger.Warn("Subscription start email failed", map[string]any{
				"user_id": user.ID,
				"error":   err.Error(),
			})
		}
	}

	if len(fields) > 0 {
		if _, err := h.users.UpdateUser(ctx, user.ID, fields); err != nil {
			return fmt.Errorf("linking billing ids to user %s: %w", user.ID, err)
		}
	}

	item, err := h.billing.SessionLineItem(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("fetching line item for session %s: %w", session.ID, err)
	}
	if item == nil {
		h.logger.Warn("No line items found for session, nothing to fulfill", map[string]any{
			"session_id": session.ID,
		})
		return nil
	}
	if item.Coins <= 0 {
		h.logger.Warn("Product has no coins metadata, nothing to fulfill", map[string]any{
			"session_id": session.ID,
			"product":    item.ProductName,
		})
		return nil
	}

	txnType := entity.TypeSubscription
	if session.Mode == modePayment {
		txnType = entity.TypePurchase
	}
	description := "Purchase of " + item.ProductName

	if err := h.ledger.Credit(ctx, user.ID, item.Coins, txnType, description, session.PaymentIntent); err != nil {
		return fmt.Errorf("fulfilling session %s: %w", session.ID, err)
	}

	h.logger.Info("Checkout fulfilled", map[string]any{
		"session_id": session.ID,
		"user_id":    user.ID,
		"coins":      item.Coins,
		"product":    item.ProductName,
	})
	return nil
}

// HandleInvoicePaymentSucceeded fulfills recurring subscription renewals.
// Invoices with any other billing reason are ignored; the initial payment is
// fulfilled by the checkout handler.
func (h *Handlers) HandleInvoicePaymentSucceeded(ctx context.Context, event *entity.WebhookEvent) error {
	var invoice invoicePayload
	if err := json.Unmarshal(event.Payload, &invoice); err != nil {
		return fmt.Errorf("malformed invoice payload: %w", err)
	}

	if invoice.BillingReason != "subscription_cycle" {
		return nil
	}
	if invoice.Customer == "" {
		return nil
	}

	user, err := h.users.GetUserByStripeCustomerID(ctx, invoice.Customer)
	if err != nil {
		h.logger.Warn("Recurring payment for unknown billing customer", map[string]any{
			"customer_id": invoice.Customer,
			"invoice_id":  invoice.ID,
		})
		return nil
	}

	if len(invoice.Lines.Data) == 0 {
		h.logger.Warn("Invoice has no line items", map[string]any{"invoice_id": invoice.ID})
		return nil
	}

	item, err := h.billing.ProductFulfillment(ctx, invoice.Lines.Data[0].Price.Product)
	if err != nil {
		return fmt.Errorf("resolving renewal product for invoice %s: %w", invoice.ID, err)
	}
	if item.Coins <= 0 {
		h.logger.Warn("Renewal product has no coins metadata", map[string]any{
			"invoice_id": invoice.ID,
			"product":    item.ProductName,
		})
		return nil
	}

	description := "Subscription renewal: " + item.ProductName
	if err := h.ledger.Credit(ctx, user.ID, item.Coins, entity.TypeRenewal, description, invoice.Charge); err != nil {
		return fmt.Errorf("fulfilling renewal invoice %s: %w", invoice.ID, err)
	}

	if err := h.mailer.SendRenewalReceipt(ctx, user.Email, user.Name, item.Coins, item.ProductName); err != nil {
		h.logger.Warn("Renewal receipt email failed", map[string]any{
			"user_id": user.ID,
			"error":   err.Error(),
		})
	}

	h.logger.Info("Renewal fulfilled", map[string]any{
		"invoice_id": invoice.ID,
		"user_id":    user.ID,
		"coins":      item.Coins,
	})
	return nil
}

// HandleSubscriptionUpdated mirrors cancellation scheduling and reactivation
// onto the local subscription status. A subscription id that does not match
// the user's linked subscription is skipped.
func (h *Handlers) HandleSubscriptionUpdated(ctx context.Context, event *entity.WebhookEvent) error {
	var sub subscriptionPayload
	if err := json.Unmarshal(event.Payload, &sub); err != nil {
		return fmt.Errorf("malformed subscription payload: %w", err)
	}

	user, err := h.users.GetUserByStripeCustomerID(ctx, sub.Customer)
	if err != nil {
		h.logger.Warn("No user found for billing customer on subscription update", map[string]any{
			"customer_id":     sub.Customer,
			"subscription_id": sub.ID,
		})
		return nil
	}

	if user.StripeSubscriptionID != sub.ID {
		h.logger.Warn("Subscription id mismatch, skipping update", map[string]any{
			"user_id":  user.ID,
			"expected": user.StripeSubscriptionID,
			"got":      sub.ID,
		})
		return nil
	}

	switch {
	case sub.CancelAtPeriodEnd:
		if user.SubscriptionStatus == entity.SubscriptionCanceling {
			return nil
		}
		if _, err := h.users.UpdateUser(ctx, user.ID, map[string]any{
			"subscription_status": string(entity.SubscriptionCanceling),
		}); err != nil {
			return fmt.Errorf("marking subscription %s canceling: %w", sub.ID, err)
		}
		if err := h.mailer.SendSubscriptionCancelled(ctx, user.Email, user.Name, user.ActivePlanName); err != nil {
			h.logger.Warn("Cancellation email failed", map[string]any{
				"user_id": user.ID,
				"error":   err.Error(),
			})
		}
		h.logger.Info("Subscription set to cancel at period end", map[string]any{
			"user_id":         user.ID,
			"subscription_id": sub.ID,
		})

	case sub.Status == "active" && user.SubscriptionStatus == entity.SubscriptionCanceling:
		if _, err := h.users.UpdateUser(ctx, user.ID, map[string]any{
			"subscription_status": string(entity.SubscriptionActive),
		}); err != nil {
			return fmt.Errorf("reactivating subscription %s: %w", sub.ID, err)
		}
		h.logger.Info("Subscription reactivated", map[string]any{
			"user_id":         user.ID,
			"subscription_id": sub.ID,
		})
	}

	return nil
}

// HandleSubscriptionDeleted marks the subscription fully cancelled and clears
// the plan linkage. Remaining coins are kept; only the recurring grant stops.
func (h *Handlers) HandleSubscriptionDeleted(ctx context.Context, event *entity.WebhookEvent) error {
	var sub subscriptionPayload
	if err := json.Unmarshal(event.Payload, &sub); err != nil {
		return fmt.Errorf("malformed subscription payload: %w", err)
	}

	user, err := h.users.GetUserByStripeCustomerID(ctx, sub.Customer)
	if err != nil {
		h.logger.Warn("No user found for billing customer on subscription delete", map[string]any{
			"customer_id":     sub.Customer,
			"subscription_id": sub.ID,
		})
		return nil
	}

	if user.StripeSubscriptionID != sub.ID {
		h.logger.Warn("Subscription id mismatch, skipping delete", map[string]any{
			"user_id":  user.ID,
			"expected": user.StripeSubscriptionID,
			"got":      sub.ID,
		})
		return nil
	}

	if _, err := h.users.UpdateUser(ctx, user.ID, map[string]any{
		"subscription_status":    string(entity.SubscriptionCancelled),
		"stripe_subscription_id": "",
		"active_plan_name":       "",
	}); err != nil {
		return fmt.Errorf("marking subscription %s cancelled: %w", sub.ID, err)
	}

	h.logger.Info("Subscription cancelled", map[string]any{
		"user_id":         user.ID,
		"subscription_id": sub.ID,
	})
	return nil
}

// HandleCustomerCreated only logs; the customer link is established by the
// checkout handler via client_reference_id.
func (h *Handlers) HandleCustomerCreated(_ context.Context, event *entity.WebhookEvent) error {
	var customer customerPayload
	if err := json.Unmarshal(event.Payload, &customer); err != nil {
		return fmt.Errorf("malformed customer payload: %w", err)
	}
	h.logger.Info("Billing customer created", map[string]any{
		"customer_id": customer.ID,
	})
	return nil
}
