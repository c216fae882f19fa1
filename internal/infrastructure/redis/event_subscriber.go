package redis

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"ordering-system/internal/domain"
	"ordering-system/pkg/logger"
)

type RedisEventSubscriber struct {
	client *redis.Client
	log    logger.Logger
}

func NewRedisEventSubscriber(client *redis.Client, log logger.Logger) *RedisEventSubscriber {
	return &RedisEventSubscriber{
		client: client,
		log:    log,
	}
}

func (r *RedisEventSubscriber) SubscribeToGroupEvents(ctx context.Context, handler domain.GroupEventHandler) error {
	pubsub := r.client.Subscribe(ctx, groupEventsChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	r.log.Info("Subscribed to group events", "channel", groupEventsChannel)

	for {
		select {
		case msg := <-ch:
			origin, group, event, err := r.parseEnvelope(msg.Payload)
			if err != nil {
				r.log.Error("Failed to parse group event", "payload", msg.Payload, "error", err)
				continue
			}

			if err := handler(origin, group, event); err != nil {
				r.log.Error("Failed to handle group event", "group", group,
					"type", event.Type, "error", err)
			}

		case <-ctx.Done():
			r.log.Info("Group event subscriber stopped")
			return ctx.Err()
		}
	}
}

func (r *RedisEventSubscriber) parseEnvelope(payload string) (origin, group string, event domain.Event, err error) {
	var env groupEnvelope
	if err = json.Unmarshal([]byte(payload), &env); err != nil {
		return "", "", domain.Event{}, err
	}

	return env.Origin, env.Group, domain.Event{Type: env.Type, Fields: env.Fields}, nil
}
