package repository

import (
	"context"
	"errors"

	"github.com/mudassar003/scholarsync/internal/domain"
	"gorm.io/gorm"
)

type UniversityRepository interface {
	Create(ctx context.Context, u *domain.University) error
	ListByUser(ctx context.Context, userID string) ([]domain.University, error)
	Delete(ctx context.Context, userID, id string) error
}

type CountryRepository interface {
	Create(ctx context.Context, c *domain.Country) error
	ListByUser(ctx context.Context, userID string) ([]domain.Country, error)
	Delete(ctx context.Context, userID, id string) error
}

type ScholarshipRepository interface {
	Create(ctx context.Context, s *domain.Scholarship) error
	GetByID(ctx context.Context, userID, id string) (*domain.Scholarship, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Scholarship, error)
	Update(ctx context.Context, s *domain.Scholarship) error
	Delete(ctx context.Context, userID, id string) error
}

type GormUniversityRepo struct {
	db *gorm.DB
}

func NewGormUniversityRepo(db *gorm.DB) *GormUniversityRepo {
	return &GormUniversityRepo{db: db}
}

func (r *GormUniversityRepo) Create(ctx context.Context, u *domain.University) error {
	model := universityModelFromDomain(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if u != nil {
		*u = *universityModelToDomain(model)
	}
	return nil
}

func (r *GormUniversityRepo) ListByUser(ctx context.Context, userID string) ([]domain.University, error) {
	var models []UniversityModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	universities := make([]domain.University, 0, len(models))
	for i := range models {
		universities = append(universities, *universityModelToDomain(&models[i]))
	}
	return universities, nil
}

func (r *GormUniversityRepo) Delete(ctx context.Context, userID, id string) error {
	return deleteScoped(r.db, ctx, &UniversityModel{}, userID, id)
}

type GormCountryRepo struct {
	db *gorm.DB
}

func NewGormCountryRepo(db *gorm.DB) *GormCountryRepo {
	return &GormCountryRepo{db: db}
}

func (r *GormCountryRepo) Create(ctx context.Context, c *domain.Country) error {
	model := countryModelFromDomain(c)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if c != nil {
		*c = *countryModelToDomain(model)
	}
	return nil
}

func (r *GormCountryRepo) ListByUser(ctx context.Context, userID string) ([]domain.Country, error) {
	var models []CountryModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	countries := make([]domain.Country, 0, len(models))
	for i := range models {
		countries = append(countries, *countryModelToDomain(&models[i]))
	}
	return countries, nil
}

func (r *GormCountryRepo) Delete(ctx context.Context, userID, id string) error {
	return deleteScoped(r.db, ctx, &CountryModel{}, userID, id)
}

type GormScholarshipRepo struct {
	db *gorm.DB
}

func NewGormScholarshipRepo(db *gorm.DB) *GormScholarshipRepo {
	return &GormScholarshipRepo{db: db}
}

func (r *GormScholarshipRepo) Create(ctx context.Context, s *domain.Scholarship) error {
	model := scholarshipModelFromDomain(s)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if s != nil {
		*s = *scholarshipModelToDomain(model)
	}
	return nil
}

func (r *GormScholarshipRepo) GetByID(ctx context.Context, userID, id string) (*domain.Scholarship, error) {
	var model ScholarshipModel
	err := r.db.WithContext(ctx).
		First(&model, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return scholarshipModelToDomain(&model), nil
}

func (r *GormScholarshipRepo) ListByUser(ctx context.Context, userID string) ([]domain.Scholarship, error) {
	var models []ScholarshipModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	scholarships := make([]domain.Scholarship, 0, len(models))
	for i := range models {
		scholarships = append(scholarships, *scholarshipModelToDomain(&models[i]))
	}
	return scholarships, nil
}

func (r *GormScholarshipRepo) Update(ctx context.Context, s *domain.Scholarship) error {
	if s == nil {
		return domain.ErrValidation
	}

	result := r.db.WithContext(ctx).
		Model(&ScholarshipModel{}).
		Where("id = ? AND user_id = ?", s.ID, s.UserID).
		Updates(map[string]any{
			"name":     s.Name,
			"amount":   s.Amount,
			"deadline": s.Deadline,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormScholarshipRepo) Delete(ctx context.Context, userID, id string) error {
	return deleteScoped(r.db, ctx, &ScholarshipModel{}, userID, id)
}

func deleteScoped(db *gorm.DB, ctx context.Context, model any, userID, id string) error {
	result := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
