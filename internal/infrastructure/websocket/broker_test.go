package websocket

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordering-system/internal/domain"
	"ordering-system/pkg/logger"
)

type recordingMember struct {
	id     string
	events []domain.Event
	err    error
}

func (m *recordingMember) ID() string { return m.id }

func (m *recordingMember) Deliver(event domain.Event) error {
	m.events = append(m.events, event)
	return m.err
}

func newTestBroker() *Broker {
	return NewBroker(logger.NewNop())
}

func TestSendDeliversToAllMembers(t *testing.T) {
	b := newTestBroker()
	m1 := &recordingMember{id: "m1"}
	m2 := &recordingMember{id: "m2"}

	require.NoError(t, b.Join("owners", m1))
	require.NoError(t, b.Join("owners", m2))

	event := domain.Event{Type: domain.EventFeeRequest, Fields: map[string]any{"customer_email": "a@b.com"}}
	require.NoError(t, b.Send("owners", event))

	assert.Len(t, m1.events, 1)
	assert.Len(t, m2.events, 1)
	assert.Equal(t, domain.EventFeeRequest, m1.events[0].Type)
}

func TestSendToEmptyGroupIsSilentlyDropped(t *testing.T) {
	b := newTestBroker()
	assert.NoError(t, b.Send("nobody_home", domain.Event{Type: domain.EventPrintJob}))
}

func TestJoinIsIdempotent(t *testing.T) {
	b := newTestBroker()
	m := &recordingMember{id: "m1"}

	require.NoError(t, b.Join("printers", m))
	require.NoError(t, b.Join("printers", m))

	require.NoError(t, b.Send("printers", domain.Event{Type: domain.EventPrintJob, Fields: map[string]any{"data": "x"}}))
	assert.Len(t, m.events, 1, "double join must not cause double delivery")
}

func TestLeaveStopsDelivery(t *testing.T) {
	b := newTestBroker()
	m := &recordingMember{id: "m1"}

	require.NoError(t, b.Join("notifications", m))
	require.NoError(t, b.Leave("notifications", m.ID()))

	require.NoError(t, b.Send("notifications", domain.Event{Type: domain.EventNotification}))
	assert.Empty(t, m.events)
}

func TestLeaveUnknownGroupIsNoop(t *testing.T) {
	b := newTestBroker()
	assert.NoError(t, b.Leave("ghost", "nobody"))
}

func TestLeaveAllRemovesMemberEverywhere(t *testing.T) {
	b := newTestBroker()
	m := &recordingMember{id: "m1"}
	other := &recordingMember{id: "m2"}

	require.NoError(t, b.Join("owners", m))
	require.NoError(t, b.Join("customer_a_at_b_dot_com", m))
	require.NoError(t, b.Join("owners", other))

	require.NoError(t, b.LeaveAll(m.ID()))

	require.NoError(t, b.Send("owners", domain.Event{Type: domain.EventFeeRequest, Fields: map[string]any{"customer_email": "a@b.com", "order_details": "x"}}))
	require.NoError(t, b.Send("customer_a_at_b_dot_com", domain.Event{Type: domain.EventFeeResponse, Fields: map[string]any{"delivery_fee": 10}}))

	assert.Empty(t, m.events, "a departed member must be unreachable by any send")
	assert.Len(t, other.events, 1)
}

func TestLeaveAllForUnknownMemberIsSafe(t *testing.T) {
	b := newTestBroker()
	assert.NoError(t, b.LeaveAll("never-joined"))
}

func TestDeliveryFailureDoesNotAbortFanOut(t *testing.T) {
	b := newTestBroker()
	failing := &recordingMember{id: "bad", err: errors.New("peer gone")}
	healthy := &recordingMember{id: "good"}

	require.NoError(t, b.Join("notifications", failing))
	require.NoError(t, b.Join("notifications", healthy))

	require.NoError(t, b.Send("notifications", domain.Event{Type: domain.EventNotification}))

	assert.Len(t, healthy.events, 1, "one failing recipient must not block the rest")
}

func TestMembersReturnsSnapshot(t *testing.T) {
	b := newTestBroker()
	m := &recordingMember{id: "m1"}

	assert.Empty(t, b.Members("owners"))

	require.NoError(t, b.Join("owners", m))
	assert.Len(t, b.Members("owners"), 1)

	require.NoError(t, b.Leave("owners", m.ID()))
	assert.Empty(t, b.Members("owners"))
}
