package websocket

import (
	"fmt"

	"ordering-system/internal/domain"
	"ordering-system/pkg/logger"
)

// roleConn is the slice of Connection the role adapters need; tests substitute
// an in-memory sink.
type roleConn interface {
	ID() string
	Send(message any) error
}

// inboundHandler is implemented by roles that accept application messages
// from their own peer (the delivery-fee roles). A message without a
// recognized "action" is a no-op by contract.
type inboundHandler interface {
	handleInbound(msg map[string]any)
}

// printRole relays queued print jobs to a connected receipt printer.
type printRole struct {
	conn roleConn
	log  logger.Logger
}

func newPrintRole(conn roleConn, log logger.Logger) *printRole {
	return &printRole{conn: conn, log: log}
}

func (r *printRole) ID() string { return r.conn.ID() }

func (r *printRole) Deliver(event domain.Event) error {
	switch event.Type {
	case domain.EventPrintJob:
		data, ok := event.Field("data")
		if !ok {
			return fmt.Errorf("print job event missing data payload")
		}
		return r.conn.Send(data)
	default:
		return nil
	}
}

// ownerNotificationRole pushes pending/unseen order counts to a business
// owner's dashboard.
type ownerNotificationRole struct {
	conn roleConn
	log  logger.Logger
}

func newOwnerNotificationRole(conn roleConn, log logger.Logger) *ownerNotificationRole {
	return &ownerNotificationRole{conn: conn, log: log}
}

func (r *ownerNotificationRole) ID() string { return r.conn.ID() }

func (r *ownerNotificationRole) Deliver(event domain.Event) error {
	switch event.Type {
	case domain.EventNotification:
		// pending_count is a hard contract between roles; its absence means
		// an upstream sender is broken and must not be papered over.
		pending, ok := event.Field("pending_count")
		if !ok {
			return fmt.Errorf("notification event missing pending_count")
		}
		unseen, ok := event.Field("unseen_count")
		if !ok {
			unseen = 0
		}
		return r.conn.Send(map[string]any{
			"type":            domain.EventNotification,
			"count":           unseen,
			"dashboard_count": pending,
		})
	case domain.EventFeeResponse, domain.EventFeeRejected:
		// Cross-role leakage through shared groups; absorb quietly.
		r.log.Debug("Ignoring delivery fee event", "type", event.Type)
		return nil
	default:
		return nil
	}
}

// customerNotificationRole pushes order-status updates scoped to one
// customer's email.
type customerNotificationRole struct {
	conn roleConn
	log  logger.Logger
}

func newCustomerNotificationRole(conn roleConn, log logger.Logger) *customerNotificationRole {
	return &customerNotificationRole{conn: conn, log: log}
}

func (r *customerNotificationRole) ID() string { return r.conn.ID() }

func (r *customerNotificationRole) Deliver(event domain.Event) error {
	switch event.Type {
	case domain.EventCustomerNotification:
		message, ok := event.Field("message")
		if !ok {
			return fmt.Errorf("customer notification event missing message")
		}
		count, ok := event.Field("customer_count")
		if !ok {
			return fmt.Errorf("customer notification event missing customer_count")
		}
		return r.conn.Send(map[string]any{
			"type":           domain.EventCustomerNotification,
			"message":        message,
			"customer_count": count,
		})
	case domain.EventFeeResponse, domain.EventFeeRejected:
		return nil
	default:
		return nil
	}
}

// ownerFeeRole sits in the "owners" group: it receives fee requests from
// customers and answers them with send_fee / reject_fee actions.
type ownerFeeRole struct {
	conn   roleConn
	broker domain.GroupBroker
	log    logger.Logger
}

func newOwnerFeeRole(conn roleConn, broker domain.GroupBroker, log logger.Logger) *ownerFeeRole {
	return &ownerFeeRole{conn: conn, broker: broker, log: log}
}

func (r *ownerFeeRole) ID() string { return r.conn.ID() }

func (r *ownerFeeRole) Deliver(event domain.Event) error {
	switch event.Type {
	case domain.EventFeeRequest:
		email, ok := event.Field("customer_email")
		if !ok {
			return fmt.Errorf("fee request event missing customer_email")
		}
		details, ok := event.Field("order_details")
		if !ok {
			return fmt.Errorf("fee request event missing order_details")
		}
		return r.conn.Send(map[string]any{
			"type":           domain.EventFeeRequest,
			"customer_email": email,
			"order_details":  details,
		})
	case domain.EventFeeRejected:
		return nil
	default:
		return nil
	}
}

func (r *ownerFeeRole) handleInbound(msg map[string]any) {
	action, _ := msg["action"].(string)
	switch action {
	case "send_fee":
		email, ok := msg["customer_email"].(string)
		if !ok || email == "" {
			r.log.Warn("send_fee message missing customer_email")
			return
		}
		fee, ok := msg["delivery_fee"]
		if !ok {
			r.log.Warn("send_fee message missing delivery_fee", "customer_email", email)
			return
		}
		r.broker.Send(domain.CustomerGroup(email), domain.Event{
			Type:   domain.EventFeeResponse,
			Fields: map[string]any{"delivery_fee": fee},
		})
	case "reject_fee":
		email, ok := msg["customer_email"].(string)
		if !ok || email == "" {
			r.log.Warn("reject_fee message missing customer_email")
			return
		}
		reason, ok := msg["reason"]
		if !ok {
			reason = domain.DefaultRejectReason
		}
		r.broker.Send(domain.CustomerGroup(email), domain.Event{
			Type:   domain.EventFeeRejected,
			Fields: map[string]any{"reason": reason},
		})
	default:
		// Unknown or missing action: no operation.
	}
}

// customerFeeRole sits in the customer's own group: it forwards fee requests
// to the owners and relays the owners' answer back to its peer.
type customerFeeRole struct {
	conn   roleConn
	broker domain.GroupBroker
	log    logger.Logger
}

func newCustomerFeeRole(conn roleConn, broker domain.GroupBroker, log logger.Logger) *customerFeeRole {
	return &customerFeeRole{conn: conn, broker: broker, log: log}
}

func (r *customerFeeRole) ID() string { return r.conn.ID() }

func (r *customerFeeRole) Deliver(event domain.Event) error {
	switch event.Type {
	case domain.EventFeeResponse:
		fee, ok := event.Field("delivery_fee")
		if !ok {
			return fmt.Errorf("fee response event missing delivery_fee")
		}
		return r.conn.Send(map[string]any{
			"type":         domain.EventFeeResponse,
			"delivery_fee": fee,
		})
	case domain.EventFeeRejected:
		reason, ok := event.Field("reason")
		if !ok {
			return fmt.Errorf("fee rejected event missing reason")
		}
		return r.conn.Send(map[string]any{
			"type":   domain.EventFeeRejected,
			"reason": reason,
		})
	default:
		return nil
	}
}

func (r *customerFeeRole) handleInbound(msg map[string]any) {
	action, _ := msg["action"].(string)
	switch action {
	case "request_fee":
		email, ok := msg["customer_email"].(string)
		if !ok || email == "" {
			r.log.Warn("request_fee message missing customer_email")
			return
		}
		details, ok := msg["order_details"]
		if !ok {
			r.log.Warn("request_fee message missing order_details", "customer_email", email)
			return
		}
		// If no owner is connected the request is silently dropped; there is
		// no retry or timeout in the negotiation protocol.
		r.broker.Send(domain.GroupOwners, domain.Event{
			Type: domain.EventFeeRequest,
			Fields: map[string]any{
				"customer_email": email,
				"order_details":  details,
			},
		})
	default:
	}
}
