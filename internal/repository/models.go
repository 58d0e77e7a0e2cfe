package repository

import (
	"time"

	"github.com/mudassar003/scholarsync/internal/domain"
)

// ProfessorModel is the persistence model for the professors table.
type ProfessorModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	UserID      string `gorm:"type:varchar(64);not null;index"`
	Name        string `gorm:"type:varchar(255);not null"`
	Email       string `gorm:"type:varchar(255);not null"`
	University  string `gorm:"type:varchar(255)"`
	Country     string `gorm:"type:varchar(128)"`
	Research    string `gorm:"type:text"`
	Scholarship string `gorm:"type:varchar(255)"`
	Notes       string `gorm:"type:text"`

	Status              domain.Status `gorm:"type:varchar(20);not null"`
	EmailDate           *time.Time
	ReplyDate           *time.Time
	ReminderDate        *time.Time
	LastNotificationAt  *time.Time `gorm:"column:last_notification_sent_at"`
	NotificationEnabled bool       `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProfessorModel) TableName() string {
	return "professors"
}

// ReminderSettingsModel is the persistence model for reminder_settings.
type ReminderSettingsModel struct {
	ID                 string `gorm:"type:uuid;primaryKey"`
	UserID             string `gorm:"type:varchar(64);not null;uniqueIndex"`
	ReminderDays       int    `gorm:"not null;default:7"`
	EmailNotifications bool   `gorm:"not null;default:true"`
	SMSNotifications   bool   `gorm:"column:sms_notifications;not null;default:false"`
	PhoneNumber        string `gorm:"type:varchar(32)"`
	EmailTemplate      string `gorm:"type:text"`
	SMSTemplate        string `gorm:"column:sms_template;type:text"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (ReminderSettingsModel) TableName() string {
	return "reminder_settings"
}

// HistoryModel is the persistence model for notification_history.
type HistoryModel struct {
	ID          string                `gorm:"type:uuid;primaryKey"`
	UserID      string                `gorm:"type:varchar(64);not null;index"`
	ProfessorID string                `gorm:"type:uuid;not null"`
	Channel     domain.Channel        `gorm:"type:varchar(10);not null"`
	Message     string                `gorm:"type:text;not null"`
	Status      domain.DeliveryStatus `gorm:"type:varchar(10);not null"`
	Error       *string               `gorm:"type:text"`
	CreatedAt   time.Time
}

func (HistoryModel) TableName() string {
	return "notification_history"
}

// UniversityModel is the persistence model for universities.
type UniversityModel struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UserID    string `gorm:"type:varchar(64);not null;index"`
	Name      string `gorm:"type:varchar(255);not null"`
	Country   string `gorm:"type:varchar(128)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UniversityModel) TableName() string {
	return "universities"
}

// CountryModel is the persistence model for countries.
type CountryModel struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UserID    string `gorm:"type:varchar(64);not null;index"`
	Name      string `gorm:"type:varchar(128);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CountryModel) TableName() string {
	return "countries"
}

// ScholarshipModel is the persistence model for scholarships.
type ScholarshipModel struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UserID    string `gorm:"type:varchar(64);not null;index"`
	Name      string `gorm:"type:varchar(255);not null"`
	Amount    string `gorm:"type:varchar(64)"`
	Deadline  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ScholarshipModel) TableName() string {
	return "scholarships"
}

func professorModelFromDomain(p *domain.Professor) *ProfessorModel {
	if p == nil {
		return nil
	}

	return &ProfessorModel{
		ID:                  p.ID,
		UserID:              p.UserID,
		Name:                p.Name,
		Email:               p.Email,
		University:          p.University,
		Country:             p.Country,
		Research:            p.Research,
		Scholarship:         p.Scholarship,
		Notes:               p.Notes,
		Status:              p.Status,
		EmailDate:           p.EmailDate,
		ReplyDate:           p.ReplyDate,
		ReminderDate:        p.ReminderDate,
		LastNotificationAt:  p.LastNotificationAt,
		NotificationEnabled: p.NotificationEnabled,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func professorModelToDomain(m *ProfessorModel) *domain.Professor {
	if m == nil {
		return nil
	}

	return &domain.Professor{
		ID:                  m.ID,
		UserID:              m.UserID,
		Name:                m.Name,
		Email:               m.Email,
		University:          m.University,
		Country:             m.Country,
		Research:            m.Research,
		Scholarship:         m.Scholarship,
		Notes:               m.Notes,
		Status:              m.Status,
		EmailDate:           m.EmailDate,
		ReplyDate:           m.ReplyDate,
		ReminderDate:        m.ReminderDate,
		LastNotificationAt:  m.LastNotificationAt,
		NotificationEnabled: m.NotificationEnabled,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func settingsModelFromDomain(s *domain.ReminderSettings) *ReminderSettingsModel {
	if s == nil {
		return nil
	}

	return &ReminderSettingsModel{
		ID:                 s.ID,
		UserID:             s.UserID,
		ReminderDays:       s.ReminderDays,
		EmailNotifications: s.EmailNotifications,
		SMSNotifications:   s.SMSNotifications,
		PhoneNumber:        s.PhoneNumber,
		EmailTemplate:      s.EmailTemplate,
		SMSTemplate:        s.SMSTemplate,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func settingsModelToDomain(m *ReminderSettingsModel) *domain.ReminderSettings {
	if m == nil {
		return nil
	}

	return &domain.ReminderSettings{
		ID:                 m.ID,
		UserID:             m.UserID,
		ReminderDays:       m.ReminderDays,
		EmailNotifications: m.EmailNotifications,
		SMSNotifications:   m.SMSNotifications,
		PhoneNumber:        m.PhoneNumber,
		EmailTemplate:      m.EmailTemplate,
		SMSTemplate:        m.SMSTemplate,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func historyModelFromDomain(h *domain.HistoryEntry) *HistoryModel {
	if h == nil {
		return nil
	}

	return &HistoryModel{
		ID:          h.ID,
		UserID:      h.UserID,
		ProfessorID: h.ProfessorID,
		Channel:     h.Channel,
		Message:     h.Message,
		Status:      h.Status,
		Error:       h.Error,
		CreatedAt:   h.CreatedAt,
	}
}

func historyModelToDomain(m *HistoryModel) *domain.HistoryEntry {
	if m == nil {
		return nil
	}

	return &domain.HistoryEntry{
		ID:          m.ID,
		UserID:      m.UserID,
		ProfessorID: m.ProfessorID,
		Channel:     m.Channel,
		Message:     m.Message,
		Status:      m.Status,
		Error:       m.Error,
		CreatedAt:   m.CreatedAt,
	}
}

func universityModelFromDomain(u *domain.University) *UniversityModel {
	if u == nil {
		return nil
	}
	return &UniversityModel{
		ID:        u.ID,
		UserID:    u.UserID,
		Name:      u.Name,
		Country:   u.Country,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func universityModelToDomain(m *UniversityModel) *domain.University {
	if m == nil {
		return nil
	}
	return &domain.University{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		Country:   m.Country,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func countryModelFromDomain(c *domain.Country) *CountryModel {
	if c == nil {
		return nil
	}
	return &CountryModel{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func countryModelToDomain(m *CountryModel) *domain.Country {
	if m == nil {
		return nil
	}
	return &domain.Country{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func scholarshipModelFromDomain(s *domain.Scholarship) *ScholarshipModel {
	if s == nil {
		return nil
	}
	return &ScholarshipModel{
		ID:        s.ID,
		UserID:    s.UserID,
		Name:      s.Name,
		Amount:    s.Amount,
		Deadline:  s.Deadline,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func scholarshipModelToDomain(m *ScholarshipModel) *domain.Scholarship {
	if m == nil {
		return nil
	}
	return &domain.Scholarship{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		Amount:    m.Amount,
		Deadline:  m.Deadline,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
