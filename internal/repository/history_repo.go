package repository

import (
	"context"
	"strings"

	"github.com/mudassar003/scholarsync/internal/domain"
	"gorm.io/gorm"
)

type HistoryRepository interface {
	Append(ctx context.Context, h *domain.HistoryEntry) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error)
}

type GormHistoryRepo struct {
	db *gorm.DB
}

func NewGormHistoryRepo(db *gorm.DB) *GormHistoryRepo {
	return &GormHistoryRepo{db: db}
}

// Append inserts one audit row. If the history table is missing (fresh
// environment where migrations have not created it), it is created once and
// the insert retried a single time; a second failure is returned as-is.
func (r *GormHistoryRepo) Append(ctx context.Context, h *domain.HistoryEntry) error {
	model := historyModelFromDomain(h)
	err := r.db.WithContext(ctx).Create(model).Error
	if err != nil && isMissingTableError(err) {
		if migrateErr := r.db.WithContext(ctx).AutoMigrate(&HistoryModel{}); migrateErr != nil {
			return migrateErr
		}
		err = r.db.WithContext(ctx).Create(model).Error
	}
	if err != nil {
		return err
	}

	if h != nil {
		*h = *historyModelToDomain(model)
	}
	return nil
}

func (r *GormHistoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error) {
	if limit < 1 {
		limit = 100
	}

	var models []HistoryModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entries := make([]domain.HistoryEntry, 0, len(models))
	for i := range models {
		entries = append(entries, *historyModelToDomain(&models[i]))
	}

	return entries, nil
}

func isMissingTableError(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	// Postgres: `relation "notification_history" does not exist` (42P01);
	// SQLite used in local setups reports `no such table`.
	return strings.Contains(msg, "does not exist") || strings.Contains(msg, "no such table")
}
