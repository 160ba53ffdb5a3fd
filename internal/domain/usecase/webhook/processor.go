package webhook

import (
	"context"
	"fmt"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
	coreport "github.com/bugswriter/bizniz-api/internal/domain/port/core"
	"github.com/bugswriter/bizniz-api/internal/domain/port/provider"
)

// HandlerFunc processes the data object of one verified webhook event
type HandlerFunc func(ctx context.Context, event *entity.WebhookEvent) error

// Result describes how an inbound event was concluded
type Result struct {
	EventID   string
	EventType string
	Duplicate bool
	Handled   bool
}

// Processor implements the idempotent event pipeline: verify the signature,
// deduplicate against persisted markers, dispatch to a fixed handler table,
// and record the marker only after the handler succeeds. Handler errors
// propagate so the HTTP layer returns a non-2xx status and the sender
// redelivers; fulfillment must not be silently lost.
type Processor struct {
	verifier provider.WebhookVerifier
	events   provider.EventStore
	routes   map[string]HandlerFunc
	logger   coreport.Logger
}

// NewProcessor creates a webhook processor with the fixed event routing table
func NewProcessor(
	verifier provider.WebhookVerifier,
	events provider.EventStore,
	handlers *Handlers,
	logger coreport.Logger,
) *Processor {
	return &Processor{
		verifier: verifier,
		events:   events,
		routes: map[string]HandlerFunc{
			entity.EventCheckoutCompleted:   handlers.HandleCheckoutCompleted,
			entity.EventInvoicePaid:         handlers.HandleInvoicePaymentSucceeded,
			entity.EventSubscriptionUpdated: handlers.HandleSubscriptionUpdated,
			entity.EventSubscriptionDeleted: handlers.HandleSubscriptionDeleted,
			entity.EventCustomerCreated:     handlers.HandleCustomerCreated,
		},
		logger: logger,
	}
}

// Process verifies and dispatches one raw webhook delivery.
//
// Signature failures fail closed before anything else runs. A previously
// recorded event id is skipped without side effects. The processed marker is
// written only after the handler returns without error.
func (p *Processor) Process(ctx context.Context, payload []byte, signatureHeader string) (*Result, error) {
	event, err := p.verifier.VerifyPayload(payload, signatureHeader)
	if err != nil {
		p.logger.Error("Webhook signature verification failed", map[string]any{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidSignature, err.Error())
	}

	result := &Result{EventID: event.ID, EventType: event.Type}

	seen, err := p.events.EventProcessed(ctx, event.ID)
	if err != nil {
		// Fail closed: without a dedup answer we cannot guarantee
		// at-most-once fulfillment, so force a redelivery instead.
		return nil, errs.NewWebhookError(event.ID, event.Type, fmt.Errorf("dedup check failed: %w", err))
	}
	if seen {
		p.logger.Info("Skipping already processed event", map[string]any{
			"event_id":   event.ID,
			"event_type": event.Type,
		})
		result.Duplicate = true
		return result, nil
	}

	handler, ok := p.routes[event.Type]
	if !ok {
		p.logger.Info("Ignoring unhandled event type", map[string]any{
			"event_id":   event.ID,
			"event_type": event.Type,
		})
		return result, nil
	}

	p.logger.Info("Routing webhook event", map[string]any{
		"event_id":   event.ID,
		"event_type": event.Type,
	})

	if err := handler(ctx, event); err != nil {
		p.logger.Error("Webhook handler failed", map[string]any{
			"event_id":   event.ID,
			"event_type": event.Type,
			"error":      err.Error(),
		})
		return nil, errs.NewWebhookError(event.ID, event.Type, err)
	}

	// Marker write failures are logged but acknowledged: the event was
	// fulfilled, and forcing a redelivery here would double-apply it.
	if err := p.events.MarkEventProcessed(ctx, event.ID, event.Type); err != nil {
		p.logger.Error("Failed to record processed event marker", map[string]any{
			"event_id":   event.ID,
			"event_type": event.Type,
			"error":      err.Error(),
		})
	}

	result.Handled = true
	return result, nil
}
