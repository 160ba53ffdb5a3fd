package webhook

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
	mockcore "github.com/bugswriter/bizniz-api/mocks/port/core"
	mockprovider "github.com/bugswriter/bizniz-api/mocks/port/provider"
)

// testProcessor wires a processor whose checkout route is replaced with a
// controllable stub
func testProcessor(
	verifier *mockprovider.MockWebhookVerifier,
	events *mockprovider.MockEventStore,
	handler HandlerFunc,
) *Processor {
	p := &Processor{
		verifier: verifier,
		events:   events,
		routes:   map[string]HandlerFunc{},
		logger:   mockcore.RelaxedLogger(),
	}
	if handler != nil {
		p.routes[entity.EventCheckoutCompleted] = handler
	}
	return p
}

func signedEvent(id, eventType string) *entity.WebhookEvent {
	return &entity.WebhookEvent{ID: id, Type: eventType, Payload: []byte(`{}`)}
}

func TestProcessSignatureFailure(t *testing.T) {
	verifier := &mockprovider.MockWebhookVerifier{}
	events := &mockprovider.MockEventStore{}
	processor := testProcessor(verifier, events, nil)

	verifier.On("VerifyPayload", mock.Anything, "bad-sig").Return(nil, errors.New("signature mismatch"))

	_, err := processor.Process(context.Background(), []byte(`{}`), "bad-sig")

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidSignature)
	// Nothing runs after a failed verification.
	events.AssertNotCalled(t, "EventProcessed", mock.Anything, mock.Anything)
}

func TestProcessDuplicateEventSkipped(t *testing.T) {
	verifier := &mockprovider.MockWebhookVerifier{}
	events := &mockprovider.MockEventStore{}

	handlerCalled := false
	processor := testProcessor(verifier, events, func(ctx context.Context, event *entity.WebhookEvent) error {
		handlerCalled = true
		return nil
	})

	verifier.On("VerifyPayload", mock.Anything, "sig").
		Return(signedEvent("evt_1", entity.EventCheckoutCompleted), nil)
	events.On("EventProcessed", mock.Anything, "evt_1").Return(true, nil)

	result, err := processor.Process(context.Background(), []byte(`{}`), "sig")

	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.False(t, result.Handled)
	assert.False(t, handlerCalled)
	events.AssertNotCalled(t, "MarkEventProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessDedupCheckFailureFailsClosed(t *testing.T) {
	verifier := &mockprovider.MockWebhookVerifier{}
	events := &mockprovider.MockEventStore{}

	processor := testProcessor(verifier, events, func(ctx context.Context, event *entity.WebhookEvent) error {
		t.Fatal("handler must not run when the dedup check fails")
		return nil
	})

	verifier.On("VerifyPayload", mock.Anything, "sig").
		Return(signedEvent("evt_1", entity.EventCheckoutCompleted), nil)
	events.On("EventProcessed", mock.Anything, "evt_1").Return(false, errors.New("store down"))

	_, err := processor.Process(context.Background(), []byte(`{}`), "sig")

	require.Error(t, err)
	var webhookErr *errs.WebhookError
	assert.ErrorAs(t, err, &webhookErr)
}

func TestProcessUnknownEventTypeAcked(t *testing.T) {
	verifier := &mockprovider.MockWebhookVerifier{}
	events := &mockprovider.MockEventStore{}
	processor := testProcessor(verifier, events, nil)

	verifier.On("VerifyPayload", mock.Anything, "sig").
		Return(signedEvent("evt_1", "charge.refunded"), nil)
	events.On("EventProcessed", mock.Anything, "evt_1").Return(false, nil)

	result, err := processor.Process(context.Background(), []byte(`{}`), "sig")

	require.NoError(t, err)
	assert.False(t, result.Handled)
	assert.False(t, result.Duplicate)
	// Unknown events are not marked processed; a later deploy may add a handler.
	events.AssertNotCalled(t, "MarkEventProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessHandlerErrorForcesRedelivery(t *testing.T) {
	verifier := &mockprovider.MockWebhookVerifier{}
	events := &mockprovider.MockEventStore{}

	processor := testProcessor(verifier, events, func(ctx context.Context, event *entity.WebhookEvent) error {
		return errors.New("fulfillment failed")
	})

	verifier.On("VerifyPayload", mock.Anything, "sig").
		Return(signedEvent("evt_1", entity.EventCheckoutCompleted), nil)
	events.On("EventProcessed", mock.Anything, "evt_1").Return(false, nil)

	_, err := processor.Process(context.Background(), []byte(`{}`), "sig")

	require.Error(t, err)
	// The marker must not be written for a failed handler, otherwise the
	// redelivered event would be skipped as a duplicate.
	events.AssertNotCalled(t, "MarkEventProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessSuccessMarksEvent(t *testing.T) {
	verifier := &mockprovider.MockWebhookVerifier{}
	events := &mockprovider.MockEventStore{}

	processor := testProcessor(verifier, events, func(ctx context.Context, event *entity.WebhookEvent) error {
		return nil
	})

	verifier.On("VerifyPayload", mock.Anything, "sig").
		Return(signedEvent("evt_1", entity.EventCheckoutCompleted), nil)
	events.On("EventProcessed", mock.Anything, "evt_1").Return(false, nil)
	events.On("MarkEventProcessed", mock.Anything, "evt_1", entity.EventCheckoutCompleted).Return(nil).Once()

	result, err := processor.Process(context.Background(), []byte(`{}`), "sig")

	require.NoError(t, err)
	assert.True(t, result.Handled)
	events.AssertExpectations(t)
}

func TestProcessMarkerWriteFailureStillAcks(t *testing.T) {
	verifier := &mockprovider.MockWebhookVerifier{}
	events := &mockprovider.MockEventStore{}

	processor := testProcessor(verifier, events, func(ctx context.Context, event *entity.WebhookEvent) error {
		return nil
	})

	verifier.On("VerifyPayload", mock.Anything, "sig").
		Return(signedEvent("evt_1", entity.EventCheckoutCompleted), nil)
	events.On("EventProcessed", mock.Anything, "evt_1").Return(false, nil)
	events.On("MarkEventProcessed", mock.Anything, "evt_1", entity.EventCheckoutCompleted).
		Return(errors.New("store down"))

	result, err := processor.Process(context.Background(), []byte(`{}`), "sig")

	// The event was fulfilled; redelivering it would double-apply.
	require.NoError(t, err)
	assert.True(t, result.Handled)
}
