package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mudassar003/scholarsync/internal/dispatch"
	"github.com/mudassar003/scholarsync/internal/domain"
	"github.com/mudassar003/scholarsync/internal/observability"
	"github.com/mudassar003/scholarsync/internal/ratelimit"
	"github.com/mudassar003/scholarsync/internal/repository"
	"go.uber.org/zap"
)

// noSettingsMessage is the error surfaced when the dispatch path cannot load
// reminder settings. Selection tolerates a missing row; dispatch does not.
const noSettingsMessage = "No notification settings found"

// ProcessResult summarizes one reminder run.
type ProcessResult struct {
	Success           bool
	NotificationsSent int
	TotalProfessors   int
	Error             string
}

// ReminderService is the reminder policy evaluator: it decides which outreach
// records are due for a follow-up nudge, dispatches the configured channels,
// transitions the records to Follow Up, and appends audit history.
type ReminderService struct {
	professors  repository.ProfessorRepository
	settings    repository.SettingsRepository
	history     repository.HistoryRepository
	dispatchers map[domain.Channel]dispatch.Dispatcher
	limiter     ratelimit.RateLimiter
	logger      *zap.Logger
	metrics     *observability.Metrics
	now         func() time.Time
}

func NewReminderService(
	professors repository.ProfessorRepository,
	settings repository.SettingsRepository,
	history repository.HistoryRepository,
	dispatchers []dispatch.Dispatcher,
	limiter ratelimit.RateLimiter,
	logger *zap.Logger,
) (*ReminderService, error) {
	if professors == nil {
		return nil, fmt.Errorf("professor repository is required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings repository is required")
	}
	if history == nil {
		return nil, fmt.Errorf("history repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	byChannel := make(map[domain.Channel]dispatch.Dispatcher, len(dispatchers))
	for _, d := range dispatchers {
		if d == nil {
			continue
		}
		byChannel[d.Channel()] = d
	}

	return &ReminderService{
		professors:  professors,
		settings:    settings,
		history:     history,
		dispatchers: byChannel,
		limiter:     limiter,
		logger:      logger,
		now:         time.Now,
	}, nil
}

func (s *ReminderService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// SelectDueRecords returns the outreach records due for a follow-up nudge at
// now: still Pending, emailed on or before now minus the reminder cadence
// (calendar-day granularity), and never auto-notified. Pure read. A missing
// or unreachable settings row falls back to the default cadence instead of
// failing.
func (s *ReminderService) SelectDueRecords(ctx context.Context, userID string, now time.Time) ([]domain.Professor, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}

	reminderDays := domain.DefaultReminderDays
	settings, err := s.settings.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("failed to load reminder settings, using default cadence",
				zap.String("userId", userID),
				zap.Error(err),
			)
		}
	} else if settings.ReminderDays > 0 {
		reminderDays = settings.ReminderDays
	}

	cutoff := now.AddDate(0, 0, -reminderDays)
	return s.professors.GetDueForReminder(ctx, userID, cutoff)
}

// ProcessDueReminders is the batch entry point invoked by the external
// scheduler. Records are processed sequentially; a per-record failure is
// logged and the batch continues. The result always carries success/error
// rather than panicking past the trigger boundary.
func (s *ReminderService) ProcessDueReminders(ctx context.Context, userID string, now time.Time) ProcessResult {
	due, err := s.SelectDueRecords(ctx, userID, now)
	if err != nil {
		s.logger.Error("failed to select due records",
			zap.String("userId", userID),
			zap.Error(err),
		)
		return ProcessResult{Error: err.Error()}
	}

	if len(due) == 0 {
		return ProcessResult{Success: true}
	}

	settings, err := s.settings.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ProcessResult{Error: noSettingsMessage, TotalProfessors: len(due)}
		}
		return ProcessResult{Error: err.Error(), TotalProfessors: len(due)}
	}

	if s.metrics != nil {
		s.metrics.ObserveReminderBatchSize(len(due))
	}

	sent := 0
	for i := range due {
		professor := due[i]

		// Claim the record before dispatching so an overlapping run cannot
		// notify it twice; the loser of the conditional write skips it.
		claimed, err := s.professors.MarkNotifiedIfUnset(ctx, professor.ID, now)
		if err != nil {
			s.logger.Error("failed to stamp notification timestamp",
				zap.String("professorId", professor.ID),
				zap.Error(err),
			)
			continue
		}
		if !claimed {
			s.logger.Info("record already claimed by a concurrent run",
				zap.String("professorId", professor.ID),
			)
			continue
		}

		if s.remind(ctx, settings, &professor, now) {
			sent++
		}
	}

	s.logger.Info("reminder batch processed",
		zap.String("userId", userID),
		zap.Int("selected", len(due)),
		zap.Int("notified", sent),
	)

	return ProcessResult{
		Success:           true,
		NotificationsSent: sent,
		TotalProfessors:   len(due),
	}
}

// SendManualReminder nudges one explicitly chosen record, bypassing the due
// filter and any existing notification stamp. It errors when the record does
// not exist; a missing settings row surfaces in the result like the batch
// path does.
func (s *ReminderService) SendManualReminder(ctx context.Context, userID, professorID string, now time.Time) (ProcessResult, error) {
	if strings.TrimSpace(professorID) == "" {
		return ProcessResult{}, fmt.Errorf("%w: professor id is required", domain.ErrValidation)
	}

	professor, err := s.professors.GetByID(ctx, userID, professorID)
	if err != nil {
		return ProcessResult{}, err
	}

	settings, err := s.settings.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ProcessResult{Error: noSettingsMessage, TotalProfessors: 1}, nil
		}
		return ProcessResult{}, fmt.Errorf("failed to load reminder settings: %w", err)
	}

	if err := s.professors.MarkNotified(ctx, professor.ID, now); err != nil {
		return ProcessResult{}, fmt.Errorf("failed to stamp notification timestamp: %w", err)
	}

	sent := 0
	if s.remind(ctx, settings, professor, now) {
		sent = 1
	}

	return ProcessResult{
		Success:           true,
		NotificationsSent: sent,
		TotalProfessors:   1,
	}, nil
}

// remind dispatches every enabled channel for one claimed record, appends a
// history row per attempted channel, and transitions the record to Follow Up.
// Returns true when at least one channel delivered.
func (s *ReminderService) remind(ctx context.Context, settings *domain.ReminderSettings, professor *domain.Professor, now time.Time) bool {
	anySent := false
	for _, target := range s.channelTargets(settings, professor) {
		if s.dispatchOne(ctx, professor, target, now) {
			anySent = true
		}
	}

	mutation := domain.ApplyStatusTransition(domain.StatusFollowUp, now, settings.ReminderDays)
	// The transition must not erase the stamp written moments ago.
	mutation.ClearNotificationStamp = false
	if err := s.professors.ApplyTransition(ctx, professor.UserID, professor.ID, mutation); err != nil {
		s.logger.Error("failed to transition record to follow up",
			zap.String("professorId", professor.ID),
			zap.Error(err),
		)
	}

	return anySent
}

type channelTarget struct {
	channel   domain.Channel
	recipient string
	template  string
}

func (s *ReminderService) channelTargets(settings *domain.ReminderSettings, professor *domain.Professor) []channelTarget {
	targets := make([]channelTarget, 0, 2)
	if settings.EmailNotifications {
		targets = append(targets, channelTarget{
			channel:   domain.ChannelEmail,
			recipient: professor.Email,
			template:  settings.EmailTemplate,
		})
	}
	if settings.SMSNotifications {
		targets = append(targets, channelTarget{
			channel:   domain.ChannelSMS,
			recipient: settings.PhoneNumber,
			template:  settings.SMSTemplate,
		})
	}
	return targets
}

func (s *ReminderService) dispatchOne(ctx context.Context, professor *domain.Professor, target channelTarget, now time.Time) bool {
	message := domain.RenderTemplate(target.template, professor)

	var dispatchErr error
	dispatcher, ok := s.dispatchers[target.channel]
	if !ok {
		dispatchErr = fmt.Errorf("no dispatcher configured for channel %q", target.channel)
	} else {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx, target.channel.String()); err != nil {
				dispatchErr = fmt.Errorf("rate limiter wait failed: %w", err)
			}
		}
		if dispatchErr == nil {
			start := s.now()
			_, dispatchErr = dispatcher.Send(ctx, dispatch.Message{
				ProfessorID: professor.ID,
				Recipient:   target.recipient,
				Body:        message,
			})
			if s.metrics != nil {
				s.metrics.ObserveDispatchDuration(target.channel.String(), s.now().Sub(start))
			}
		}
	}

	entry := &domain.HistoryEntry{
		ID:          uuid.NewString(),
		UserID:      professor.UserID,
		ProfessorID: professor.ID,
		Channel:     target.channel,
		Message:     message,
		Status:      domain.DeliverySent,
		CreatedAt:   now,
	}
	if dispatchErr != nil {
		entry.Status = domain.DeliveryFailed
		errText := dispatchErr.Error()
		entry.Error = &errText

		s.logger.Error("reminder dispatch failed",
			zap.String("professorId", professor.ID),
			zap.String("channel", target.channel.String()),
			zap.Error(dispatchErr),
		)
		if s.metrics != nil {
			s.metrics.IncReminderFailed(target.channel.String(), failureReason(dispatchErr))
		}
	} else if s.metrics != nil {
		s.metrics.IncReminderSent(target.channel.String())
	}

	// History is an audit trail; a failed append never blocks the transition.
	if err := s.history.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append notification history",
			zap.String("professorId", professor.ID),
			zap.String("channel", target.channel.String()),
			zap.Error(err),
		)
	}

	return dispatchErr == nil
}

func failureReason(err error) string {
	if dispatch.IsTransient(err) {
		return "transient_error"
	}
	return "permanent_error"
}
