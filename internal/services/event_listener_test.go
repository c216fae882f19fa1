package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordering-system/internal/domain"
	"ordering-system/pkg/logger"
)

type fakeBroker struct {
	sends []sentEvent
}

func (b *fakeBroker) Join(group string, member domain.GroupMember) error { return nil }
func (b *fakeBroker) Leave(group string, memberID string) error          { return nil }
func (b *fakeBroker) LeaveAll(memberID string) error                     { return nil }

func (b *fakeBroker) Send(group string, event domain.Event) error {
	b.sends = append(b.sends, sentEvent{group: group, event: event})
	return nil
}

type relayedEvent struct {
	origin string
	group  string
	event  domain.Event
}

type stubSubscriber struct {
	events []relayedEvent
}

func (s *stubSubscriber) SubscribeToGroupEvents(ctx context.Context, handler domain.GroupEventHandler) error {
	for _, e := range s.events {
		if err := handler(e.origin, e.group, e.event); err != nil {
			return err
		}
	}
	return nil
}

func TestEventListenerRelaysForeignEvents(t *testing.T) {
	broker := &fakeBroker{}
	listener := NewEventListener(broker, "instance-a", logger.NewNop())

	sub := &stubSubscriber{events: []relayedEvent{
		{origin: "instance-b", group: domain.GroupNotifications, event: domain.Event{
			Type:   domain.EventNotification,
			Fields: map[string]any{"pending_count": 2, "unseen_count": 1},
		}},
	}}

	require.NoError(t, listener.Start(context.Background(), sub))

	require.Len(t, broker.sends, 1)
	assert.Equal(t, domain.GroupNotifications, broker.sends[0].group)
	assert.Equal(t, domain.EventNotification, broker.sends[0].event.Type)
}

func TestEventListenerDropsOwnEvents(t *testing.T) {
	broker := &fakeBroker{}
	listener := NewEventListener(broker, "instance-a", logger.NewNop())

	sub := &stubSubscriber{events: []relayedEvent{
		{origin: "instance-a", group: domain.GroupPrinters, event: domain.Event{Type: domain.EventPrintJob}},
	}}

	require.NoError(t, listener.Start(context.Background(), sub))
	assert.Empty(t, broker.sends, "an instance must not re-deliver its own publishes")
}
