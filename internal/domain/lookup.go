package domain

import (
	"fmt"
	"strings"
	"time"
)

// Lookup entities backing the professor form selects. All are user-scoped and
// plain CRUD; no reminder policy reads them.

type University struct {
	ID        string
	UserID    string
	Name      string
	Country   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *University) Validate() error {
	if strings.TrimSpace(u.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: university name is required", ErrValidation)
	}
	return nil
}

type Country struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Country) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: country name is required", ErrValidation)
	}
	return nil
}

type Scholarship struct {
	ID        string
	UserID    string
	Name      string
	Amount    string
	Deadline  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Scholarship) Validate() error {
	if strings.TrimSpace(s.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: scholarship name is required", ErrValidation)
	}
	return nil
}
