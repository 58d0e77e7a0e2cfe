package repository

import (
	"context"
	"errors"

	"github.com/mudassar003/scholarsync/internal/domain"
	"gorm.io/gorm"
)

type SettingsRepository interface {
	GetByUser(ctx context.Context, userID string) (*domain.ReminderSettings, error)
	Create(ctx context.Context, s *domain.ReminderSettings) error
	Update(ctx context.Context, s *domain.ReminderSettings) error
}

type GormSettingsRepo struct {
	db *gorm.DB
}

func NewGormSettingsRepo(db *gorm.DB) *GormSettingsRepo {
	return &GormSettingsRepo{db: db}
}

func (r *GormSettingsRepo) GetByUser(ctx context.Context, userID string) (*domain.ReminderSettings, error) {
	var model ReminderSettingsModel
	err := r.db.WithContext(ctx).
		First(&model, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return settingsModelToDomain(&model), nil
}

func (r *GormSettingsRepo) Create(ctx context.Context, s *domain.ReminderSettings) error {
	model := settingsModelFromDomain(s)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if s != nil {
		*s = *settingsModelToDomain(model)
	}
	return nil
}

func (r *GormSettingsRepo) Update(ctx context.Context, s *domain.ReminderSettings) error {
	if s == nil {
		return domain.ErrValidation
	}

	model := settingsModelFromDomain(s)
	result := r.db.WithContext(ctx).
		Model(&ReminderSettingsModel{}).
		Where("user_id = ?", s.UserID).
		Updates(map[string]any{
			"reminder_days":       model.ReminderDays,
			"email_notifications": model.EmailNotifications,
			"sms_notifications":   model.SMSNotifications,
			"phone_number":        model.PhoneNumber,
			"email_template":      model.EmailTemplate,
			"sms_template":        model.SMSTemplate,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
