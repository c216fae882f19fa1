package redis

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"ordering-system/internal/domain"
)

const groupEventsChannel = "order_events"

// groupEnvelope is the wire form of a group event on the Redis channel. The
// origin instance ID lets subscribers drop their own publishes.
type groupEnvelope struct {
	Origin string           `json:"origin"`
	Group  string           `json:"group"`
	Type   domain.EventType `json:"type"`
	Fields map[string]any   `json:"fields,omitempty"`
}

type EventPublisherImpl struct {
	client     *redis.Client
	instanceID string
}

func NewEventPublisher(client *redis.Client, instanceID string) *EventPublisherImpl {
	return &EventPublisherImpl{client: client, instanceID: instanceID}
}

func (r *EventPublisherImpl) PublishGroupEvent(ctx context.Context, group string, event domain.Event) error {
	payload, err := json.Marshal(groupEnvelope{
		Origin: r.instanceID,
		Group:  group,
		Type:   event.Type,
		Fields: event.Fields,
	})
	if err != nil {
		return err
	}

	return r.client.Publish(ctx, groupEventsChannel, payload).Err()
}
