package services

import (
	"context"

	"ordering-system/internal/domain"
	"ordering-system/pkg/logger"
)

// EventListener relays group events published by sibling instances (or by
// the ordering web app directly) into the local broker. Events this instance
// published itself are dropped to avoid double delivery.
type EventListener struct {
	broker     domain.GroupBroker
	instanceID string
	log        logger.Logger
}

func NewEventListener(broker domain.GroupBroker, instanceID string, log logger.Logger) *EventListener {
	return &EventListener{
		broker:     broker,
		instanceID: instanceID,
		log:        log,
	}
}

func (el *EventListener) Start(ctx context.Context, subscriber domain.EventSubscriber) error {
	el.log.Info("Starting group event listener", "instance_id", el.instanceID)
	return subscriber.SubscribeToGroupEvents(ctx, el.handleGroupEvent)
}

func (el *EventListener) handleGroupEvent(origin, group string, event domain.Event) error {
	if origin == el.instanceID {
		return nil
	}

	el.log.Debug("Relaying group event", "origin", origin, "group", group, "type", event.Type)
	return el.broker.Send(group, event)
}
