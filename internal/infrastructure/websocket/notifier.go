package websocket

import (
	"context"

	"ordering-system/internal/domain"
)

// GroupNotifier adapts the broker to the context-aware sender interface the
// service layer depends on.
type GroupNotifier struct {
	broker domain.GroupBroker
}

func NewGroupNotifier(broker domain.GroupBroker) *GroupNotifier {
	return &GroupNotifier{broker: broker}
}

func (n *GroupNotifier) SendToGroup(ctx context.Context, group string, event domain.Event) error {
	return n.broker.Send(group, event)
}
