package handler

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mudassar003/scholarsync/internal/service"
)

type ReminderTrigger interface {
	ProcessDueReminders(ctx context.Context, userID string, now time.Time) service.ProcessResult
	SendManualReminder(ctx context.Context, userID, professorID string, now time.Time) (service.ProcessResult, error)
}

// ReminderHandler exposes the trigger endpoints an external scheduler calls.
// Both are guarded by a shared-secret bearer token.
type ReminderHandler struct {
	service ReminderTrigger
	token   string
	now     func() time.Time
}

func NewReminderHandler(service ReminderTrigger, token string) (*ReminderHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("reminder service is required")
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("reminder api token is required")
	}

	return &ReminderHandler{
		service: service,
		token:   token,
		now:     time.Now,
	}, nil
}

func RegisterReminderRoutes(router fiber.Router, service ReminderTrigger, token string) error {
	h, err := NewReminderHandler(service, token)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/reminders/process", h.ProcessReminders)
	v1.Post("/reminders/manual/:id", h.SendManualReminder)

	return nil
}

type triggerResponse struct {
	Timestamp         string `json:"timestamp"`
	Success           bool   `json:"success"`
	NotificationsSent *int   `json:"notificationsSent,omitempty"`
	TotalProfessors   *int   `json:"totalProfessors,omitempty"`
	Message           string `json:"message,omitempty"`
	Error             string `json:"error,omitempty"`
}

func (h *ReminderHandler) ProcessReminders(c *fiber.Ctx) error {
	now := h.now().UTC()
	if !h.authorized(c) {
		return h.unauthorized(c, now)
	}

	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	result := h.service.ProcessDueReminders(c.Context(), userID, now)
	return c.Status(fiber.StatusOK).JSON(toTriggerResponse(result, now, ""))
}

func (h *ReminderHandler) SendManualReminder(c *fiber.Ctx) error {
	now := h.now().UTC()
	if !h.authorized(c) {
		return h.unauthorized(c, now)
	}

	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	result, err := h.service.SendManualReminder(c.Context(), userID, strings.TrimSpace(c.Params("id")), now)
	if err != nil {
		return toHTTPError(err)
	}

	message := ""
	if result.Success {
		message = "Manual reminder sent"
	}
	return c.Status(fiber.StatusOK).JSON(toTriggerResponse(result, now, message))
}

func (h *ReminderHandler) authorized(c *fiber.Ctx) bool {
	header := c.Get(fiber.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return false
	}

	presented := strings.TrimPrefix(header, prefix)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(h.token)) == 1
}

func (h *ReminderHandler) unauthorized(c *fiber.Ctx, now time.Time) error {
	return c.Status(fiber.StatusUnauthorized).JSON(triggerResponse{
		Timestamp: now.Format(time.RFC3339),
		Success:   false,
		Error:     "unauthorized",
	})
}

func toTriggerResponse(result service.ProcessResult, now time.Time, message string) triggerResponse {
	resp := triggerResponse{
		Timestamp: now.Format(time.RFC3339),
		Success:   result.Success,
		Message:   message,
		Error:     result.Error,
	}
	if result.Success || result.TotalProfessors > 0 {
		sent := result.NotificationsSent
		total := result.TotalProfessors
		resp.NotificationsSent = &sent
		resp.TotalProfessors = &total
	}
	return resp
}
