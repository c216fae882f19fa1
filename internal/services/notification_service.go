package services

import (
	"context"

	"ordering-system/internal/domain"
	"ordering-system/pkg/logger"
)

// NotificationService computes order counts and pushes count/print events into
// the broadcast groups. Triggered by the REST API when the ordering web app
// mutates orders, by the refresh scheduler, and by the gateway on connect.
type NotificationService struct {
	store     domain.OrderStore
	notifier  domain.GroupSender
	publisher domain.EventPublisher // nil when cross-instance bridging is disabled
	log       logger.Logger
}

func NewNotificationService(store domain.OrderStore, notifier domain.GroupSender,
	publisher domain.EventPublisher, log logger.Logger) *NotificationService {
	return &NotificationService{
		store:     store,
		notifier:  notifier,
		publisher: publisher,
		log:       log,
	}
}

// OwnerCounts returns the owner's unseen and pending order counts. This is
// the connect-time fail-safe boundary: a store fault is logged and zero
// counts are substituted so a query failure never tears a connection down.
func (s *NotificationService) OwnerCounts(ctx context.Context) (unseen, pending int) {
	pending, err := s.store.CountPendingOrders(ctx)
	if err != nil {
		s.log.Error("Failed to count pending orders, defaulting to zero", "error", err)
		return 0, 0
	}

	unseen, err = s.store.CountUnseenOrdersForOwner(ctx)
	if err != nil {
		s.log.Error("Failed to count unseen orders, defaulting to zero", "error", err)
		return 0, 0
	}

	return unseen, pending
}

// CustomerCount returns the customer's unseen order count with the same
// fail-safe default as OwnerCounts.
func (s *NotificationService) CustomerCount(ctx context.Context, email string) int {
	count, err := s.store.CountUnseenOrdersForCustomer(ctx, email)
	if err != nil {
		s.log.Error("Failed to count customer orders, defaulting to zero",
			"email", email, "error", err)
		return 0
	}
	return count
}

// BroadcastOwnerCounts queries fresh counts and fans them out to the
// notifications group. Unlike the connect-time snapshot this propagates store
// faults: broadcasting zeros here would wrongly blank every owner dashboard.
func (s *NotificationService) BroadcastOwnerCounts(ctx context.Context) (unseen, pending int, err error) {
	pending, err = s.store.CountPendingOrders(ctx)
	if err != nil {
		return 0, 0, err
	}
	unseen, err = s.store.CountUnseenOrdersForOwner(ctx)
	if err != nil {
		return 0, 0, err
	}

	event := domain.Event{
		Type: domain.EventNotification,
		Fields: map[string]any{
			"pending_count": pending,
			"unseen_count":  unseen,
		},
	}

	if err := s.dispatch(ctx, domain.GroupNotifications, event); err != nil {
		return 0, 0, err
	}
	return unseen, pending, nil
}

// NotifyCustomer computes the customer's unseen count and sends a status
// message to the customer's group. Returns the count that was sent.
func (s *NotificationService) NotifyCustomer(ctx context.Context, email, message string) (int, error) {
	count, err := s.store.CountUnseenOrdersForCustomer(ctx, email)
	if err != nil {
		return 0, err
	}

	event := domain.Event{
		Type: domain.EventCustomerNotification,
		Fields: map[string]any{
			"message":        message,
			"customer_count": count,
		},
	}

	if err := s.dispatch(ctx, domain.CustomerGroup(email), event); err != nil {
		return 0, err
	}
	return count, nil
}

// SendPrintJob fans a print payload out to every connected receipt printer.
func (s *NotificationService) SendPrintJob(ctx context.Context, data map[string]any) error {
	event := domain.Event{
		Type:   domain.EventPrintJob,
		Fields: map[string]any{"data": data},
	}
	return s.dispatch(ctx, domain.GroupPrinters, event)
}

func (s *NotificationService) dispatch(ctx context.Context, group string, event domain.Event) error {
	if err := s.notifier.SendToGroup(ctx, group, event); err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishGroupEvent(ctx, group, event); err != nil {
			// Local members already got the event; sibling instances miss it.
			s.log.Error("Failed to publish group event", "group", group,
				"type", event.Type, "error", err)
		}
	}
	return nil
}
