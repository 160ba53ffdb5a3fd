package entity

import "encoding/json"

// Well-known Stripe event types handled by the webhook processor
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventInvoicePaid         = "invoice.payment_succeeded"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventCustomerCreated     = "customer.created"
)

// WebhookEvent is a signature-verified event received from the billing
// provider. Payload is the raw JSON of the event's data object.
type WebhookEvent struct {
	ID      string
	Type    string
	Payload json.RawMessage
}
