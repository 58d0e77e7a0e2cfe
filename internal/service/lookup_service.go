package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mudassar003/scholarsync/internal/domain"
	"github.com/mudassar003/scholarsync/internal/repository"
)

// LookupService wraps the user-scoped lookup tables feeding the professor
// form selects.
type LookupService struct {
	universities repository.UniversityRepository
	countries    repository.CountryRepository
	scholarships repository.ScholarshipRepository
}

func NewLookupService(
	universities repository.UniversityRepository,
	countries repository.CountryRepository,
	scholarships repository.ScholarshipRepository,
) (*LookupService, error) {
	if universities == nil {
		return nil, fmt.Errorf("university repository is required")
	}
	if countries == nil {
		return nil, fmt.Errorf("country repository is required")
	}
	if scholarships == nil {
		return nil, fmt.Errorf("scholarship repository is required")
	}

	return &LookupService{
		universities: universities,
		countries:    countries,
		scholarships: scholarships,
	}, nil
}

func (s *LookupService) CreateUniversity(ctx context.Context, u *domain.University) (*domain.University, error) {
	if u == nil {
		return nil, fmt.Errorf("%w: university is required", domain.ErrValidation)
	}
	u.Name = strings.TrimSpace(u.Name)
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if err := s.universities.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *LookupService) ListUniversities(ctx context.Context, userID string) ([]domain.University, error) {
	return s.universities.ListByUser(ctx, userID)
}

func (s *LookupService) DeleteUniversity(ctx context.Context, userID, id string) error {
	return s.universities.Delete(ctx, userID, id)
}

func (s *LookupService) CreateCountry(ctx context.Context, c *domain.Country) (*domain.Country, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: country is required", domain.ErrValidation)
	}
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := s.countries.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *LookupService) ListCountries(ctx context.Context, userID string) ([]domain.Country, error) {
	return s.countries.ListByUser(ctx, userID)
}

func (s *LookupService) DeleteCountry(ctx context.Context, userID, id string) error {
	return s.countries.Delete(ctx, userID, id)
}

func (s *LookupService) CreateScholarship(ctx context.Context, sch *domain.Scholarship) (*domain.Scholarship, error) {
	if sch == nil {
		return nil, fmt.Errorf("%w: scholarship is required", domain.ErrValidation)
	}
	sch.Name = strings.TrimSpace(sch.Name)
	if err := sch.Validate(); err != nil {
		return nil, err
	}
	if sch.ID == "" {
		sch.ID = uuid.NewString()
	}
	if err := s.scholarships.Create(ctx, sch); err != nil {
		return nil, err
	}
	return sch, nil
}

func (s *LookupService) ListScholarships(ctx context.Context, userID string) ([]domain.Scholarship, error) {
	return s.scholarships.ListByUser(ctx, userID)
}

func (s *LookupService) UpdateScholarship(ctx context.Context, sch *domain.Scholarship) (*domain.Scholarship, error) {
	if sch == nil || strings.TrimSpace(sch.ID) == "" {
		return nil, fmt.Errorf("%w: scholarship id is required", domain.ErrValidation)
	}
	sch.Name = strings.TrimSpace(sch.Name)
	if err := sch.Validate(); err != nil {
		return nil, err
	}
	if err := s.scholarships.Update(ctx, sch); err != nil {
		return nil, err
	}
	return s.scholarships.GetByID(ctx, sch.UserID, sch.ID)
}

func (s *LookupService) DeleteScholarship(ctx context.Context, userID, id string) error {
	return s.scholarships.Delete(ctx, userID, id)
}
