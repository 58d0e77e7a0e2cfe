package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mudassar003/scholarsync/internal/domain"
)

type SettingsService interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.ReminderSettings, error)
	Update(ctx context.Context, settings *domain.ReminderSettings) (*domain.ReminderSettings, error)
}

type SettingsHandler struct {
	service SettingsService
}

func NewSettingsHandler(service SettingsService) (*SettingsHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("settings service is required")
	}
	return &SettingsHandler{service: service}, nil
}

func RegisterSettingsRoutes(router fiber.Router, service SettingsService) error {
	h, err := NewSettingsHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Get("/settings", h.GetSettings)
	v1.Put("/settings", h.UpdateSettings)

	return nil
}

type settingsRequest struct {
	ReminderDays       int    `json:"reminderDays"`
	EmailNotifications bool   `json:"emailNotifications"`
	SMSNotifications   bool   `json:"smsNotifications"`
	PhoneNumber        string `json:"phoneNumber"`
	EmailTemplate      string `json:"emailTemplate"`
	SMSTemplate        string `json:"smsTemplate"`
}

type settingsResponse struct {
	ID                 string    `json:"id"`
	ReminderDays       int       `json:"reminderDays"`
	EmailNotifications bool      `json:"emailNotifications"`
	SMSNotifications   bool      `json:"smsNotifications"`
	PhoneNumber        string    `json:"phoneNumber,omitempty"`
	EmailTemplate      string    `json:"emailTemplate"`
	SMSTemplate        string    `json:"smsTemplate"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// GetSettings returns the caller's reminder settings, materializing the
// defaults row on first read.
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	settings, err := h.service.GetOrCreate(c.Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toSettingsResponse(settings))
}

func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	var req settingsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updated, err := h.service.Update(c.Context(), &domain.ReminderSettings{
		UserID:             userID,
		ReminderDays:       req.ReminderDays,
		EmailNotifications: req.EmailNotifications,
		SMSNotifications:   req.SMSNotifications,
		PhoneNumber:        strings.TrimSpace(req.PhoneNumber),
		EmailTemplate:      req.EmailTemplate,
		SMSTemplate:        req.SMSTemplate,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toSettingsResponse(updated))
}

func toSettingsResponse(s *domain.ReminderSettings) settingsResponse {
	if s == nil {
		return settingsResponse{}
	}

	return settingsResponse{
		ID:                 s.ID,
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
