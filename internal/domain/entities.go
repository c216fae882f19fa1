package domain

type EventType string

const (
	EventPrintJob             EventType = "send_print_job"
	EventNotification         EventType = "send_notification"
	EventCustomerNotification EventType = "send_customer_notification"
	EventFeeRequest           EventType = "delivery_fee_request"
	EventFeeResponse          EventType = "delivery_fee_response"
	EventFeeRejected          EventType = "delivery_fee_rejected"
)

// Event is a transient tagged payload fanned out to a group. Events are never
// persisted; sending to a group with no members drops the event silently.
type Event struct {
	Type   EventType      `json:"type"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Field looks up a payload field, tolerating a nil field map.
func (e Event) Field(name string) (any, bool) {
	if e.Fields == nil {
		return nil, false
	}
	v, ok := e.Fields[name]
	return v, ok
}

// Order statuses as stored by the ordering web app.
const (
	StatusPending        = "pending"
	StatusAccepted       = "accepted"
	StatusRejected       = "rejected"
	StatusPreparing      = "Preparing"
	StatusPacked         = "Packed"
	StatusReadyForPickup = "Ready for Pickup"
	StatusOutForDelivery = "Out for Delivery"
	StatusCompleted      = "Completed"
)

// CustomerVisibleStatuses are the order states that count toward a customer's
// unseen-notification badge.
var CustomerVisibleStatuses = []string{
	StatusAccepted,
	StatusRejected,
	StatusPreparing,
	StatusPacked,
	StatusReadyForPickup,
	StatusOutForDelivery,
	StatusCompleted,
}

// DefaultRejectReason is sent when an owner rejects a delivery-fee request
// without giving a reason.
const DefaultRejectReason = "Rejected"
