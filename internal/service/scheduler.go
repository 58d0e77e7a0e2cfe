package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultReminderScanInterval = time.Hour

// ReminderProcessor is the slice of ReminderService the scheduler needs.
type ReminderProcessor interface {
	ProcessDueReminders(ctx context.Context, userID string, now time.Time) ProcessResult
}

// Scheduler periodically runs the reminder batch for one user. It backs
// deployments without an external cron; the HTTP trigger endpoint remains
// the primary entry point.
type Scheduler struct {
	reminders ReminderProcessor
	userID    string
	interval  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewScheduler(
	reminders ReminderProcessor,
	userID string,
	interval time.Duration,
	logger *zap.Logger,
) (*Scheduler, error) {
	if reminders == nil {
		return nil, fmt.Errorf("reminder processor is required")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("scheduler user id is required")
	}
	if interval <= 0 {
		interval = defaultReminderScanInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		reminders: reminders,
		userID:    userID,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
	}, nil
}

func (s *Scheduler) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Run once immediately so already-due reminders do not wait for the
	// first ticker edge.
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	result := s.reminders.ProcessDueReminders(ctx, s.userID, s.now().UTC())
	if !result.Success {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("scheduled reminder run failed",
			zap.String("userId", s.userID),
			zap.String("error", result.Error),
		)
		return
	}

	if result.TotalProfessors > 0 {
		s.logger.Info("scheduled reminder run finished",
			zap.String("userId", s.userID),
			zap.Int("selected", result.TotalProfessors),
			zap.Int("notified", result.NotificationsSent),
		)
	}
}
