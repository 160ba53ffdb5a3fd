package provider

import "context"

// Mailer sends transactional emails. Sending is best-effort everywhere:
// failures are logged by callers and never fail the triggering operation.
type Mailer interface {
	SendSubscriptionStarted(ctx context.Context, to, name, planName string) error
	SendRenewalReceipt(ctx context.Context, to, name string, coinsAdded float64, planName string) error
	SendSubscriptionCancelled(ctx context.Context, to, name, planName string) error
}
