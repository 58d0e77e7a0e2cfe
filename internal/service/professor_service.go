package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mudassar003/scholarsync/internal/domain"
	"github.com/mudassar003/scholarsync/internal/repository"
	"go.uber.org/zap"
)

// ProfessorService wraps outreach record CRUD and routes status changes
// through the reminder transition table.
type ProfessorService struct {
	professors repository.ProfessorRepository
	settings   repository.SettingsRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewProfessorService(
	professors repository.ProfessorRepository,
	settings repository.SettingsRepository,
	logger *zap.Logger,
) (*ProfessorService, error) {
	if professors == nil {
		return nil, fmt.Errorf("professor repository is required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ProfessorService{
		professors: professors,
		settings:   settings,
		logger:     logger,
		now:        time.Now,
	}, nil
}

func (s *ProfessorService) Create(ctx context.Context, p *domain.Professor) (*domain.Professor, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: professor is required", domain.ErrValidation)
	}

	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.University = strings.TrimSpace(p.University)

	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = domain.StatusPending
	}

	now := s.now().UTC()
	if p.EmailDate == nil {
		p.EmailDate = &now
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	// Derive the initial reminder date and notification flag from the status,
	// the same way a later status change would.
	mutation := domain.ApplyStatusTransition(p.Status, now, s.reminderDays(ctx, p.UserID))
	p.ReminderDate = mutation.ReminderDate
	p.NotificationEnabled = mutation.NotificationEnabled
	p.ReplyDate = mutation.ReplyDate
	p.LastNotificationAt = nil

	if err := s.professors.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *ProfessorService) GetByID(ctx context.Context, userID, id string) (*domain.Professor, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: professor id is required", domain.ErrValidation)
	}
	return s.professors.GetByID(ctx, userID, strings.TrimSpace(id))
}

func (s *ProfessorService) List(ctx context.Context, params repository.ListParams) ([]domain.Professor, int64, error) {
	if strings.TrimSpace(params.UserID) == "" {
		return nil, 0, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	return s.professors.List(ctx, params)
}

func (s *ProfessorService) Update(ctx context.Context, p *domain.Professor) (*domain.Professor, error) {
	if p == nil || strings.TrimSpace(p.ID) == "" {
		return nil, fmt.Errorf("%w: professor id is required", domain.ErrValidation)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.professors.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.professors.GetByID(ctx, p.UserID, p.ID)
}

func (s *ProfessorService) Delete(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: professor id is required", domain.ErrValidation)
	}
	return s.professors.Delete(ctx, userID, strings.TrimSpace(id))
}

// UpdateStatus applies the status transition table to one record: the new
// status derives the next reminder date and notification flag, Replied also
// stamps the reply date and clears the notification stamp so the record can
// be reminded about again later.
func (s *ProfessorService) UpdateStatus(ctx context.Context, userID, id string, newStatus domain.Status, notes string) (*domain.Professor, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: professor id is required", domain.ErrValidation)
	}

	// Ensure the record exists before mutating.
	if _, err := s.professors.GetByID(ctx, userID, id); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	mutation := domain.ApplyStatusTransition(newStatus, now, s.reminderDays(ctx, userID))
	if err := s.professors.ApplyTransition(ctx, userID, id, mutation); err != nil {
		return nil, err
	}

	updated, err := s.professors.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		updated.Notes = trimmed
		if err := s.professors.Update(ctx, updated); err != nil {
			return nil, err
		}
	}

	return updated, nil
}

func (s *ProfessorService) reminderDays(ctx context.Context, userID string) int {
	settings, err := s.settings.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("failed to load reminder settings, using default cadence",
				zap.String("userId", userID),
				zap.Error(err),
			)
		}
		return domain.DefaultReminderDays
	}
	return settings.ReminderDays
}
