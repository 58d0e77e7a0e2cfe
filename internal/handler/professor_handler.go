package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mudassar003/scholarsync/internal/domain"
	"github.com/mudassar003/scholarsync/internal/repository"
)

type ProfessorService interface {
	Create(ctx context.Context, p *domain.Professor) (*domain.Professor, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Professor, error)
	List(ctx context.Context, params repository.ListParams) ([]domain.Professor, int64, error)
	Update(ctx context.Context, p *domain.Professor) (*domain.Professor, error)
	Delete(ctx context.Context, userID, id string) error
	UpdateStatus(ctx context.Context, userID, id string, newStatus domain.Status, notes string) (*domain.Professor, error)
}

type ProfessorHandler struct {
	service ProfessorService
}

func NewProfessorHandler(service ProfessorService) (*ProfessorHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("professor service is required")
	}
	return &ProfessorHandler{service: service}, nil
}

func RegisterProfessorRoutes(router fiber.Router, service ProfessorService) error {
	h, err := NewProfessorHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/professors", h.CreateProfessor)
	v1.Get("/professors", h.ListProfessors)
	v1.Get("/professors/:id", h.GetProfessor)
	v1.Put("/professors/:id", h.UpdateProfessor)
	v1.Delete("/professors/:id", h.DeleteProfessor)
	v1.Patch("/professors/:id/status", h.UpdateProfessorStatus)

	return nil
}

type professorRequest struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	University  string     `json:"university"`
	Country     string     `json:"country"`
	Research    string     `json:"research"`
	Scholarship string     `json:"scholarship"`
	Notes       string     `json:"notes"`
	Status      string     `json:"status"`
	EmailDate   *time.Time `json:"emailDate"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type professorResponse struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	University          string     `json:"university"`
	Country             string     `json:"country,omitempty"`
	Research            string     `json:"research,omitempty"`
	Scholarship         string     `json:"scholarship,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	Status              string     `json:"status"`
	EmailDate           *time.Time `json:"emailDate,omitempty"`
	ReplyDate           *time.Time `json:"replyDate,omitempty"`
	ReminderDate        *time.Time `json:"reminderDate,omitempty"`
	LastNotificationAt  *time.Time `json:"lastNotificationSentAt,omitempty"`
	NotificationEnabled bool       `json:"notificationEnabled"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

type listProfessorsResponse struct {
	Data []professorResponse `json:"data"`
	Meta listMeta            `json:"meta"`
}

type listMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

func (h *ProfessorHandler) CreateProfessor(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	var req professorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	professor, err := requestToDomainProfessor(req, userID)
	if err != nil {
		return toHTTPError(err)
	}

	created, err := h.service.Create(c.Context(), &professor)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toProfessorResponse(created))
}

func (h *ProfessorHandler) GetProfessor(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	professor, err := h.service.GetByID(c.Context(), userID, strings.TrimSpace(c.Params("id")))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toProfessorResponse(professor))
}

func (h *ProfessorHandler) ListProfessors(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	params, err := parseListParams(c, userID)
	if err != nil {
		return toHTTPError(err)
	}

	professors, total, err := h.service.List(c.Context(), params)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(listProfessorsResponse{
		Data: toProfessorResponses(professors),
		Meta: listMeta{
			Page:     params.Page,
			PageSize: params.PageSize,
			Total:    total,
		},
	})
}

func (h *ProfessorHandler) UpdateProfessor(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	var req professorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	professor, err := requestToDomainProfessor(req, userID)
	if err != nil {
		return toHTTPError(err)
	}
	professor.ID = strings.TrimSpace(c.Params("id"))

	updated, err := h.service.Update(c.Context(), &professor)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toProfessorResponse(updated))
}

func (h *ProfessorHandler) DeleteProfessor(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	id := strings.TrimSpace(c.Params("id"))
	if err := h.service.Delete(c.Context(), userID, id); err != nil {
		return toHTTPError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateProfessorStatus routes a status change through the transition table:
// the new status derives the next reminder date and notification toggle.
func (h *ProfessorHandler) UpdateProfessorStatus(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	status, err := domain.ParseStatusFromString(req.Status)
	if err != nil {
		return toHTTPError(err)
	}

	updated, err := h.service.UpdateStatus(c.Context(), userID, strings.TrimSpace(c.Params("id")), status, req.Notes)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toProfessorResponse(updated))
}

func parseListParams(c *fiber.Ctx, userID string) (repository.ListParams, error) {
	params := repository.ListParams{
		UserID:   userID,
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     c.QueryInt("page", defaultPage),
		PageSize: c.QueryInt("pageSize", defaultPageSize),
	}

	if params.Page < 1 {
		return repository.ListParams{}, fmt.Errorf("%w: page must be >= 1", domain.ErrValidation)
	}
	if params.PageSize < 1 || params.PageSize > maxPageSize {
		return repository.ListParams{}, fmt.Errorf("%w: pageSize must be between 1 and %d", domain.ErrValidation, maxPageSize)
	}

	if rawStatus := strings.TrimSpace(c.Query("status")); rawStatus != "" {
		status, err := domain.ParseStatusFromString(rawStatus)
		if err != nil {
			return repository.ListParams{}, err
		}
		params.Status = &status
	}

	return params, nil
}

func requestToDomainProfessor(req professorRequest, userID string) (domain.Professor, error) {
	p := domain.Professor{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		University:  strings.TrimSpace(req.University),
		Country:     strings.TrimSpace(req.Country),
		Research:    strings.TrimSpace(req.Research),
		Scholarship: strings.TrimSpace(req.Scholarship),
		Notes:       strings.TrimSpace(req.Notes),
		EmailDate:   req.EmailDate,
	}

	if raw := strings.TrimSpace(req.Status); raw != "" {
		status, err := domain.ParseStatusFromString(raw)
		if err != nil {
			return domain.Professor{}, err
		}
		p.Status = status
	}

	return p, nil
}

func toProfessorResponses(professors []domain.Professor) []professorResponse {
	responses := make([]professorResponse, 0, len(professors))
	for _, professor := range professors {
		p := professor
		responses = append(responses, toProfessorResponse(&p))
	}
	return responses
}

func toProfessorResponse(p *domain.Professor) professorResponse {
	if p == nil {
		return professorResponse{}
	}

	return professorResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Email:               p.Email,
		University:          p.University,
		Country:             p.Country,
		Research:            p.Research,
		Scholarship:         p.Scholarship,
		Notes:               p.Notes,
		Status:              p.Status.String(),
		EmailDate:           p.EmailDate,
		ReplyDate:           p.ReplyDate,
		ReminderDate:        p.ReminderDate,
		LastNotificationAt:  p.LastNotificationAt,
		NotificationEnabled: p.NotificationEnabled,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
