package stripebilling

import (
	"fmt"

	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
	"github.com/bugswriter/bizniz-api/internal/domain/port/provider"
)

// Verifier validates Stripe webhook signatures against the endpoint secret
type Verifier struct {
	secret string
}

// NewVerifier creates a webhook signature verifier
func NewVerifier(secret string) provider.WebhookVerifier {
	return &Verifier{secret: secret}
}

// VerifyPayload checks the Stripe-Signature header against the raw body and
// returns the decoded event. Any verification failure fails closed.
func (v *Verifier) VerifyPayload(payload []byte, signatureHeader string) (*entity.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, v.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidSignature, err)
	}

	return &entity.WebhookEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Payload: event.Data.Raw,
	}, nil
}
