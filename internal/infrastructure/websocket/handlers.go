package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"

	"ordering-system/internal/domain"
	"ordering-system/internal/services"
	"ordering-system/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Trust boundary sits in front of this service
	},
}

// WebSocketHandler is the connection gateway: it validates connection setup,
// binds each connection to its groups and guarantees cleanup on disconnect.
type WebSocketHandler struct {
	notifications *services.NotificationService
	broker        domain.GroupBroker
	log           logger.Logger
}

func NewWebSocketHandler(notifications *services.NotificationService,
	broker domain.GroupBroker, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		notifications: notifications,
		broker:        broker,
		log:           log,
	}
}

// HandlePrint binds a receipt-printer client to the printers group.
func (h *WebSocketHandler) HandlePrint(w http.ResponseWriter, r *http.Request) {
	conn := h.upgrade(w, r)
	if conn == nil {
		return
	}

	role := newPrintRole(conn, h.log)
	h.broker.Join(domain.GroupPrinters, role)
	go h.readLoop(conn, nil)
}

// HandleOwnerNotifications binds an owner dashboard to the notifications
// group and pushes the current counts as the connection's first message.
func (h *WebSocketHandler) HandleOwnerNotifications(w http.ResponseWriter, r *http.Request) {
	conn := h.upgrade(w, r)
	if conn == nil {
		return
	}

	role := newOwnerNotificationRole(conn, h.log)
	h.broker.Join(domain.GroupNotifications, role)

	unseen, pending := h.notifications.OwnerCounts(r.Context())
	if err := conn.Send(map[string]any{
		"type":            domain.EventNotification,
		"count":           unseen,
		"dashboard_count": pending,
	}); err != nil {
		h.log.Error("Failed to push initial counts", "connection_id", conn.ID(), "error", err)
	}

	go h.readLoop(conn, nil)
}

// HandleCustomerNotifications binds a customer to their per-email group and
// pushes the customer's unseen count. Requires the email query parameter.
func (h *WebSocketHandler) HandleCustomerNotifications(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "email required", http.StatusBadRequest)
		return
	}

	conn := h.upgrade(w, r)
	if conn == nil {
		return
	}

	role := newCustomerNotificationRole(conn, h.log)
	h.broker.Join(domain.CustomerGroup(email), role)

	count := h.notifications.CustomerCount(r.Context(), email)
	if err := conn.Send(map[string]any{
		"type":           domain.EventCustomerNotification,
		"customer_count": count,
	}); err != nil {
		h.log.Error("Failed to push initial customer count", "connection_id", conn.ID(), "error", err)
	}

	go h.readLoop(conn, nil)
}

// HandleOwnerFee binds an owner to the owners group for delivery-fee
// negotiation.
func (h *WebSocketHandler) HandleOwnerFee(w http.ResponseWriter, r *http.Request) {
	conn := h.upgrade(w, r)
	if conn == nil {
		return
	}

	role := newOwnerFeeRole(conn, h.broker, h.log)
	h.broker.Join(domain.GroupOwners, role)
	go h.readLoop(conn, role)
}

// HandleCustomerFee binds a customer to their own group for delivery-fee
// negotiation. Requires the email query parameter.
func (h *WebSocketHandler) HandleCustomerFee(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "email required", http.StatusBadRequest)
		return
	}

	conn := h.upgrade(w, r)
	if conn == nil {
		return
	}

	role := newCustomerFeeRole(conn, h.broker, h.log)
	h.broker.Join(domain.CustomerGroup(email), role)
	go h.readLoop(conn, role)
}

func (h *WebSocketHandler) upgrade(w http.ResponseWriter, r *http.Request) *Connection {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return nil
	}
	return NewConnection(ws, h.log)
}

// readLoop pumps inbound messages until the peer goes away, then removes the
// connection from every group it joined. Roles without an inbound contract
// discard whatever the peer sends.
func (h *WebSocketHandler) readLoop(conn *Connection, inbound inboundHandler) {
	defer func() {
		h.broker.LeaveAll(conn.ID())
		conn.Close()
	}()

	for {
		msg, err := conn.ReadMessage()
		if err != nil {
			h.log.Debug("Connection closed", "connection_id", conn.ID(), "error", err)
			return
		}

		if inbound != nil {
			inbound.handleInbound(msg)
		}
	}
}
