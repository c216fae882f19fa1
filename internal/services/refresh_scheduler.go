package services

import (
	"context"

	"github.com/robfig/cron/v3"

	"ordering-system/internal/domain"
	"ordering-system/pkg/logger"
)

// CountRefreshScheduler periodically rebroadcasts the owner counts so
// dashboards converge even when a web-layer trigger was missed. Only the
// cluster leader refreshes; followers pick the broadcast up over the event
// bridge.
type CountRefreshScheduler struct {
	cron          *cron.Cron
	notifications *NotificationService
	leader        domain.LeaderElection // nil in single-instance deployments
	instanceID    string
	spec          string
	log           logger.Logger
}

func NewCountRefreshScheduler(notifications *NotificationService, leader domain.LeaderElection,
	instanceID, spec string, log logger.Logger) *CountRefreshScheduler {
	return &CountRefreshScheduler{
		cron:          cron.New(),
		notifications: notifications,
		leader:        leader,
		instanceID:    instanceID,
		spec:          spec,
		log:           log,
	}
}

func (s *CountRefreshScheduler) Start(ctx context.Context) error {
	s.log.Info("Starting count refresh scheduler", "spec", s.spec)

	_, err := s.cron.AddFunc(s.spec, func() {
		s.refresh(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *CountRefreshScheduler) Stop() error {
	s.log.Info("Stopping count refresh scheduler")
	s.cron.Stop()
	return nil
}

func (s *CountRefreshScheduler) refresh(ctx context.Context) {
	if s.leader != nil {
		isLeader, err := s.leader.IsLeader(ctx, s.instanceID)
		if err != nil {
			s.log.Error("Failed to check leadership, skipping refresh", "error", err)
			return
		}
		if !isLeader {
			return
		}
	}

	unseen, pending, err := s.notifications.BroadcastOwnerCounts(ctx)
	if err != nil {
		s.log.Error("Failed to refresh owner counts", "error", err)
		return
	}

	s.log.Debug("Refreshed owner counts", "unseen_count", unseen, "pending_count", pending)
}
