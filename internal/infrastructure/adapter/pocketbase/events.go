package pocketbase

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
	"github.com/bugswriter/bizniz-api/internal/domain/port/provider"
)

const processedEventsCollection = "processed_events"

// EventStore implements webhook event deduplication against the PocketBase
// processed_events collection. The event_id field carries a unique index,
// so concurrent deliveries of the same event cannot both insert a marker.
type EventStore struct {
	client *Client
}

// NewEventStore creates a PocketBase-backed processed event store
func NewEventStore(client *Client) provider.EventStore {
	return &EventStore{client: client}
}

type eventListResponse struct {
	TotalItems int `json:"totalItems"`
}

// EventProcessed reports whether the event id has been recorded before
func (s *EventStore) EventProcessed(ctx context.Context, eventID string) (bool, error) {
	var result eventListResponse

	resp, err := s.client.execAdmin(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetQueryParam("filter", fmt.Sprintf("event_id='%s'", eventID)).
			SetQueryParam("perPage", "1").
			SetResult(&result).
			Get(fmt.Sprintf("/api/collections/%s/records", processedEventsCollection))
	})
	if err != nil {
		return false, fmt.Errorf("check event %s: %w", eventID, err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("check event %s: status %d: %w", eventID, resp.StatusCode(), errs.ErrExternalService)
	}

	return result.TotalItems > 0, nil
}

// MarkEventProcessed records the event id after successful handling
func (s *EventStore) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	resp, err := s.client.execAdmin(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetBody(map[string]string{
				"event_id":   eventID,
				"event_type": eventType,
			}).
			Post(fmt.Sprintf("/api/collections/%s/records", processedEventsCollection))
	})
	if err != nil {
		return fmt.Errorf("mark event %s: %w", eventID, err)
	}
	if resp.IsError() {
		apiErr := parseAPIError(resp)
		// A unique-index violation means another delivery won the race;
		// the event is marked either way.
		if apiErr.hasFieldError("event_id", "validation_not_unique") {
			return nil
		}
		return fmt.Errorf("mark event %s: status %d: %s: %w", eventID, apiErr.Code, apiErr.Message, errs.ErrExternalService)
	}
	return nil
}
