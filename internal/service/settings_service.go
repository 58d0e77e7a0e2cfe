package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mudassar003/scholarsync/internal/domain"
	"github.com/mudassar003/scholarsync/internal/repository"
	"go.uber.org/zap"
)

// SettingsService manages per-user reminder settings with lazy default
// creation: the first read materializes a defaults row.
type SettingsService struct {
	settings repository.SettingsRepository
	logger   *zap.Logger
}

func NewSettingsService(settings repository.SettingsRepository, logger *zap.Logger) (*SettingsService, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{settings: settings, logger: logger}, nil
}

func (s *SettingsService) GetOrCreate(ctx context.Context, userID string) (*domain.ReminderSettings, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}

	existing, err := s.settings.GetByUser(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	defaults := domain.DefaultReminderSettings(userID)
	defaults.ID = uuid.NewString()
	if createErr := s.settings.Create(ctx, defaults); createErr != nil {
		// A concurrent first read may have created the row already.
		if again, getErr := s.settings.GetByUser(ctx, userID); getErr == nil {
			return again, nil
		}
		return nil, createErr
	}

	s.logger.Info("created default reminder settings", zap.String("userId", userID))
	return defaults, nil
}

func (s *SettingsService) Update(ctx context.Context, settings *domain.ReminderSettings) (*domain.ReminderSettings, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: settings are required", domain.ErrValidation)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	// Guarantee the row exists so updates on a fresh user do not 404.
	if _, err := s.GetOrCreate(ctx, settings.UserID); err != nil {
		return nil, err
	}

	if err := s.settings.Update(ctx, settings); err != nil {
		return nil, err
	}
	return s.settings.GetByUser(ctx, settings.UserID)
}
