package websocket

import (
	"sync"

	"ordering-system/internal/domain"
	"ordering-system/pkg/logger"
)

// Broker maintains the group membership index and performs best-effort
// fan-out. Membership is weak: the broker never closes connections, it only
// indexes them, and disconnect removes a member from every group it joined.
type Broker struct {
	groups       map[string]map[string]domain.GroupMember // group -> memberID -> member
	memberGroups map[string]map[string]struct{}           // memberID -> group names
	mutex        sync.RWMutex
	log          logger.Logger
}

func NewBroker(log logger.Logger) *Broker {
	return &Broker{
		groups:       make(map[string]map[string]domain.GroupMember),
		memberGroups: make(map[string]map[string]struct{}),
		log:          log,
	}
}

// Join adds a member to a group, creating the group lazily. Joining a group
// the member is already in has no effect.
func (b *Broker) Join(group string, member domain.GroupMember) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.groups[group] == nil {
		b.groups[group] = make(map[string]domain.GroupMember)
	}
	b.groups[group][member.ID()] = member

	if b.memberGroups[member.ID()] == nil {
		b.memberGroups[member.ID()] = make(map[string]struct{})
	}
	b.memberGroups[member.ID()][group] = struct{}{}

	b.log.Debug("Member joined group", "member_id", member.ID(), "group", group)
	return nil
}

// Leave removes a member from a group; no-op if it was never joined. Empty
// groups are dropped, they are cheap to re-create on demand.
func (b *Broker) Leave(group string, memberID string) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.removeLocked(group, memberID)
	return nil
}

// LeaveAll removes a member from every group it joined. Idempotent and safe
// for members that never joined anything.
func (b *Broker) LeaveAll(memberID string) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	for group := range b.memberGroups[memberID] {
		b.removeLocked(group, memberID)
	}

	b.log.Debug("Member left all groups", "member_id", memberID)
	return nil
}

func (b *Broker) removeLocked(group, memberID string) {
	if members, exists := b.groups[group]; exists {
		delete(members, memberID)
		if len(members) == 0 {
			delete(b.groups, group)
		}
	}

	if groups, exists := b.memberGroups[memberID]; exists {
		delete(groups, group)
		if len(groups) == 0 {
			delete(b.memberGroups, memberID)
		}
	}
}

// Members returns a snapshot of the group's current member set.
func (b *Broker) Members(group string) []domain.GroupMember {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	var members []domain.GroupMember
	for _, m := range b.groups[group] {
		members = append(members, m)
	}
	return members
}

// Send delivers an event to every connection in the group at the time of the
// call. A failure delivering to one member never aborts delivery to the rest;
// a group with no members drops the event silently.
func (b *Broker) Send(group string, event domain.Event) error {
	members := b.Members(group)
	if len(members) == 0 {
		b.log.Debug("No members in group, dropping event", "group", group, "type", event.Type)
		return nil
	}

	for _, member := range members {
		if err := member.Deliver(event); err != nil {
			b.log.Error("Failed to deliver event", "member_id", member.ID(),
				"group", group, "type", event.Type, "error", err)
			// Continue to other members
		}
	}

	return nil
}
