package domain

import (
	"context"
)

// Order store interface (read-only; the ordering web app owns writes)
type OrderStore interface {
	CountPendingOrders(ctx context.Context) (int, error)
	CountUnseenOrdersForOwner(ctx context.Context) (int, error)
	CountUnseenOrdersForCustomer(ctx context.Context, email string) (int, error)
}

// GroupMember is one recipient registered in a broadcast group. Deliver
// translates a broker event into whatever the member's peer expects; a
// returned error is logged by the broker and never aborts fan-out to the
// remaining members.
type GroupMember interface {
	ID() string
	Deliver(event Event) error
}

// GroupBroker indexes group membership and fans events out. It never owns a
// member's lifetime, only references it.
type GroupBroker interface {
	Join(group string, member GroupMember) error
	Leave(group string, memberID string) error
	LeaveAll(memberID string) error
	Send(group string, event Event) error
}

// GroupSender pushes an event into a group on behalf of application services.
type GroupSender interface {
	SendToGroup(ctx context.Context, group string, event Event) error
}

// Cross-instance event bridge interfaces
type EventPublisher interface {
	PublishGroupEvent(ctx context.Context, group string, event Event) error
}

type EventSubscriber interface {
	SubscribeToGroupEvents(ctx context.Context, handler GroupEventHandler) error
}

// GroupEventHandler receives a relayed event together with the instance ID
// that published it, so an instance can skip its own publishes.
type GroupEventHandler func(origin, group string, event Event) error

// Leader election interface
type LeaderElection interface {
	BecomeLeader(ctx context.Context, instanceID string) (bool, error)
	IsLeader(ctx context.Context, instanceID string) (bool, error)
	ReleaseLeadership(ctx context.Context, instanceID string) error
}
