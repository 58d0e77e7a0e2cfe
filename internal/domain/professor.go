package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the outreach lifecycle state of a professor record.
// Values are stored verbatim, including the space in "Follow Up" and
// "No Response"; they double as display labels in the client.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusReplied    Status = "Replied"
	StatusRejected   Status = "Rejected"
	StatusFollowUp   Status = "Follow Up"
	StatusScheduled  Status = "Scheduled"
	StatusNoResponse Status = "No Response"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusReplied, StatusRejected, StatusFollowUp, StatusScheduled, StatusNoResponse:
		return true
	}
	return false
}

func ParseStatusFromString(s string) (Status, error) {
	st := Status(strings.TrimSpace(s))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid status %q", ErrValidation, s)
	}
	return st, nil
}

// Professor is the core domain entity: one tracked outreach attempt to a
// professor about a scholarship.
type Professor struct {
	ID          string
	UserID      string
	Name        string
	Email       string
	University  string
	Country     string
	Research    string
	Scholarship string
	Notes       string

	Status              Status
	EmailDate           *time.Time
	ReplyDate           *time.Time
	ReminderDate        *time.Time
	LastNotificationAt  *time.Time
	NotificationEnabled bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Professor) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("%w: invalid email %q", ErrValidation, p.Email)
	}
	if !p.Status.IsValid() {
		return fmt.Errorf("%w: invalid status %q", ErrValidation, p.Status)
	}
	return nil
}
