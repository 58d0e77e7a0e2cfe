package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mudassar003/scholarsync/internal/domain"
)

const defaultHistoryLimit = 100

type HistoryLister interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error)
}

type HistoryHandler struct {
	history HistoryLister
}

func NewHistoryHandler(history HistoryLister) (*HistoryHandler, error) {
	if history == nil {
		return nil, fmt.Errorf("history repository is required")
	}
	return &HistoryHandler{history: history}, nil
}

func RegisterHistoryRoutes(router fiber.Router, history HistoryLister) error {
	h, err := NewHistoryHandler(history)
	if err != nil {
		return err
	}

	router.Group("/v1").Get("/history", h.ListHistory)
	return nil
}

type historyEntryResponse struct {
	ID          string    `json:"id"`
	ProfessorID string    `json:"professorId"`
	Channel     string    `json:"channel"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	Error       *string   `json:"error,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListHistory returns the caller's notification audit trail, newest first.
func (h *HistoryHandler) ListHistory(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit < 1 || limit > 500 {
		return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 500")
	}

	entries, err := h.history.ListByUser(c.Context(), userID, limit)
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]historyEntryResponse, 0, len(entries))
	for _, entry := range entries {
		data = append(data, historyEntryResponse{
			ID:          entry.ID,
			ProfessorID: entry.ProfessorID,
			Channel:     entry.Channel.String(),
			Message:     entry.Message,
			Status:      entry.Status.String(),
			Error:       entry.Error,
			CreatedAt:   entry.CreatedAt,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": data})
}
