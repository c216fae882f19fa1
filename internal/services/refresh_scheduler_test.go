package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordering-system/internal/domain"
	"ordering-system/pkg/logger"
)

func TestRefreshBroadcastsCounts(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotificationService(&fakeStore{pending: 6, unseenOwner: 2}, sender, nil, logger.NewNop())
	scheduler := NewCountRefreshScheduler(svc, nil, "instance-a", "@every 1h", logger.NewNop())

	scheduler.refresh(context.Background())

	require.Len(t, sender.sends, 1)
	assert.Equal(t, domain.GroupNotifications, sender.sends[0].group)
	assert.Equal(t, 6, sender.sends[0].event.Fields["pending_count"])
}

type stubLeader struct {
	leader bool
}

func (l *stubLeader) BecomeLeader(ctx context.Context, instanceID string) (bool, error) {
	return l.leader, nil
}

func (l *stubLeader) IsLeader(ctx context.Context, instanceID string) (bool, error) {
	return l.leader, nil
}

func (l *stubLeader) ReleaseLeadership(ctx context.Context, instanceID string) error {
	return nil
}

func TestRefreshSkippedOnFollower(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotificationService(&fakeStore{pending: 6}, sender, nil, logger.NewNop())
	scheduler := NewCountRefreshScheduler(svc, &stubLeader{leader: false}, "instance-a", "@every 1h", logger.NewNop())

	scheduler.refresh(context.Background())
	assert.Empty(t, sender.sends)
}

func TestSchedulerStartStop(t *testing.T) {
	svc := NewNotificationService(&fakeStore{}, &fakeSender{}, nil, logger.NewNop())
	scheduler := NewCountRefreshScheduler(svc, nil, "instance-a", "@every 1h", logger.NewNop())

	require.NoError(t, scheduler.Start(context.Background()))
	require.NoError(t, scheduler.Stop())
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	svc := NewNotificationService(&fakeStore{}, &fakeSender{}, nil, logger.NewNop())
	scheduler := NewCountRefreshScheduler(svc, nil, "instance-a", "not a cron spec", logger.NewNop())

	require.Error(t, scheduler.Start(context.Background()))
}
