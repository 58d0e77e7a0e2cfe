package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mudassar003/scholarsync/internal/domain"
	"gorm.io/gorm"
)

type ListParams struct {
	UserID   string
	Status   *domain.Status
	Search   string
	Page     int
	PageSize int
}

type ProfessorRepository interface {
	Create(ctx context.Context, p *domain.Professor) error
	GetByID(ctx context.Context, userID, id string) (*domain.Professor, error)
	List(ctx context.Context, params ListParams) ([]domain.Professor, int64, error)
	Update(ctx context.Context, p *domain.Professor) error
	Delete(ctx context.Context, userID, id string) error
	GetDueForReminder(ctx context.Context, userID string, cutoff time.Time) ([]domain.Professor, error)
	ApplyTransition(ctx context.Context, userID, id string, m domain.StatusMutation) error
	MarkNotifiedIfUnset(ctx context.Context, id string, at time.Time) (bool, error)
	MarkNotified(ctx context.Context, id string, at time.Time) error
}

type GormProfessorRepo struct {
	db *gorm.DB
}

func NewGormProfessorRepo(db *gorm.DB) *GormProfessorRepo {
	return &GormProfessorRepo{db: db}
}

func (r *GormProfessorRepo) Create(ctx context.Context, p *domain.Professor) error {
	model := professorModelFromDomain(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if p != nil {
		*p = *professorModelToDomain(model)
	}
	return nil
}

func (r *GormProfessorRepo) GetByID(ctx context.Context, userID, id string) (*domain.Professor, error) {
	var model ProfessorModel
	err := r.db.WithContext(ctx).
		First(&model, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return professorModelToDomain(&model), nil
}

func (r *GormProfessorRepo) List(ctx context.Context, params ListParams) ([]domain.Professor, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&ProfessorModel{}).
		Where("user_id = ?", params.UserID)

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR university ILIKE ? OR scholarship ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := max(params.Page, 1)
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 50
	}
	pageSize = min(pageSize, 100)

	var models []ProfessorModel
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	professors := make([]domain.Professor, 0, len(models))
	for i := range models {
		professors = append(professors, *professorModelToDomain(&models[i]))
	}

	return professors, total, nil
}

func (r *GormProfessorRepo) Update(ctx context.Context, p *domain.Professor) error {
	if p == nil {
		return domain.ErrValidation
	}

	model := professorModelFromDomain(p)
	result := r.db.WithContext(ctx).
		Model(&ProfessorModel{}).
		Where("id = ? AND user_id = ?", p.ID, p.UserID).
		Updates(map[string]any{
			"name":        model.Name,
			"email":       model.Email,
			"university":  model.University,
			"country":     model.Country,
			"research":    model.Research,
			"scholarship": model.Scholarship,
			"notes":       model.Notes,
			"email_date":  model.EmailDate,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormProfessorRepo) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&ProfessorModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetDueForReminder selects records due for a follow-up nudge: still Pending,
// emailed on or before the cutoff calendar day, and never auto-notified.
// The comparison is by date, time-of-day is discarded.
func (r *GormProfessorRepo) GetDueForReminder(ctx context.Context, userID string, cutoff time.Time) ([]domain.Professor, error) {
	var models []ProfessorModel
	err := r.db.WithContext(ctx).
		Where(
			"user_id = ? AND status = ? AND notification_enabled AND DATE(email_date) <= ? AND last_notification_sent_at IS NULL",
			userID, domain.StatusPending, cutoff.UTC().Format("2006-01-02"),
		).
		Order("email_date ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	professors := make([]domain.Professor, 0, len(models))
	for i := range models {
		professors = append(professors, *professorModelToDomain(&models[i]))
	}

	return professors, nil
}

func (r *GormProfessorRepo) ApplyTransition(ctx context.Context, userID, id string, m domain.StatusMutation) error {
	updates := map[string]any{
		"status":               m.Status,
		"reminder_date":        m.ReminderDate,
		"notification_enabled": m.NotificationEnabled,
	}
	if m.ReplyDate != nil {
		updates["reply_date"] = m.ReplyDate
	}
	if m.ClearNotificationStamp {
		updates["last_notification_sent_at"] = nil
	}

	result := r.db.WithContext(ctx).
		Model(&ProfessorModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkNotifiedIfUnset stamps last_notification_sent_at, but only when the
// stamp is still unset. The conditional write closes the window where two
// overlapping reminder runs select the same record; the loser observes
// updated=false.
func (r *GormProfessorRepo) MarkNotifiedIfUnset(ctx context.Context, id string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&ProfessorModel{}).
		Where("id = ? AND last_notification_sent_at IS NULL", id).
		Update("last_notification_sent_at", at)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkNotified stamps last_notification_sent_at unconditionally. Manual
// reminders overwrite any previous stamp.
func (r *GormProfessorRepo) MarkNotified(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&ProfessorModel{}).
		Where("id = ?", id).
		Update("last_notification_sent_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
