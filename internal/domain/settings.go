package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultReminderDays is the fallback cadence used when no settings row exists.
const DefaultReminderDays = 7

const (
	DefaultEmailTemplate = "Hi, this is a reminder to follow up with {name} at {university}. Current status: {status}."
	DefaultSMSTemplate   = "Follow up with {name} ({university}) - status {status}."
)

// ReminderSettings holds per-user reminder cadence, channel toggles, and
// message templates. At most one row exists per user; it is created lazily
// with defaults on first access.
type ReminderSettings struct {
	ID                 string
	UserID             string
	ReminderDays       int
	EmailNotifications bool
	SMSNotifications   bool
	PhoneNumber        string
	EmailTemplate      string
	SMSTemplate        string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DefaultReminderSettings returns the settings row created on first access.
func DefaultReminderSettings(userID string) *ReminderSettings {
	return &ReminderSettings{
		UserID:             userID,
		ReminderDays:       DefaultReminderDays,
		EmailNotifications: true,
		SMSNotifications:   false,
		EmailTemplate:      DefaultEmailTemplate,
		SMSTemplate:        DefaultSMSTemplate,
	}
}

func (s *ReminderSettings) Validate() error {
	if strings.TrimSpace(s.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if s.ReminderDays < 1 {
		return fmt.Errorf("%w: reminder days must be >= 1", ErrValidation)
	}
	if s.SMSNotifications && strings.TrimSpace(s.PhoneNumber) == "" {
		return fmt.Errorf("%w: phone number is required when sms notifications are enabled", ErrValidation)
	}
	return nil
}

// RenderTemplate substitutes the {name}, {university}, and {status}
// placeholders with literal string replacement. This is intentionally not a
// templating engine; unknown placeholders pass through untouched.
func RenderTemplate(template string, p *Professor) string {
	if p == nil {
		return template
	}

	replacer := strings.NewReplacer(
		"{name}", p.Name,
		"{university}", p.University,
		"{status}", p.Status.String(),
	)
	return replacer.Replace(template)
}
