package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mudassar003/scholarsync/internal/domain"
)

type LookupService interface {
	CreateUniversity(ctx context.Context, u *domain.University) (*domain.University, error)
	ListUniversities(ctx context.Context, userID string) ([]domain.University, error)
	DeleteUniversity(ctx context.Context, userID, id string) error

	CreateCountry(ctx context.Context, c *domain.Country) (*domain.Country, error)
	ListCountries(ctx context.Context, userID string) ([]domain.Country, error)
	DeleteCountry(ctx context.Context, userID, id string) error

	CreateScholarship(ctx context.Context, s *domain.Scholarship) (*domain.Scholarship, error)
	ListScholarships(ctx context.Context, userID string) ([]domain.Scholarship, error)
	UpdateScholarship(ctx context.Context, s *domain.Scholarship) (*domain.Scholarship, error)
	DeleteScholarship(ctx context.Context, userID, id string) error
}

type LookupHandler struct {
	service LookupService
}

func NewLookupHandler(service LookupService) (*LookupHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("lookup service is required")
	}
	return &LookupHandler{service: service}, nil
}

func RegisterLookupRoutes(router fiber.Router, service LookupService) error {
	h, err := NewLookupHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/universities", h.CreateUniversity)
	v1.Get("/universities", h.ListUniversities)
	v1.Delete("/universities/:id", h.DeleteUniversity)

	v1.Post("/countries", h.CreateCountry)
	v1.Get("/countries", h.ListCountries)
	v1.Delete("/countries/:id", h.DeleteCountry)

	v1.Post("/scholarships", h.CreateScholarship)
	v1.Get("/scholarships", h.ListScholarships)
	v1.Put("/scholarships/:id", h.UpdateScholarship)
	v1.Delete("/scholarships/:id", h.DeleteScholarship)

	return nil
}

type lookupRequest struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

type scholarshipRequest struct {
	Name     string     `json:"name"`
	Amount   string     `json:"amount"`
	Deadline *time.Time `json:"deadline"`
}

type lookupResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

type scholarshipResponse struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Amount   string     `json:"amount,omitempty"`
	Deadline *time.Time `json:"deadline,omitempty"`
}

func (h *LookupHandler) CreateUniversity(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	var req lookupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	created, err := h.service.CreateUniversity(c.Context(), &domain.University{
		UserID:  userID,
		Name:    req.Name,
		Country: strings.TrimSpace(req.Country),
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(lookupResponse{ID: created.ID, Name: created.Name, Country: created.Country})
}

func (h *LookupHandler) ListUniversities(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	universities, err := h.service.ListUniversities(c.Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]lookupResponse, 0, len(universities))
	for _, u := range universities {
		data = append(data, lookupResponse{ID: u.ID, Name: u.Name, Country: u.Country})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": data})
}

func (h *LookupHandler) DeleteUniversity(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteUniversity(c.Context(), userID, strings.TrimSpace(c.Params("id"))); err != nil {
		return toHTTPError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *LookupHandler) CreateCountry(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	var req lookupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	created, err := h.service.CreateCountry(c.Context(), &domain.Country{
		UserID: userID,
		Name:   req.Name,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(lookupResponse{ID: created.ID, Name: created.Name})
}

func (h *LookupHandler) ListCountries(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	countries, err := h.service.ListCountries(c.Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]lookupResponse, 0, len(countries))
	for _, country := range countries {
		data = append(data, lookupResponse{ID: country.ID, Name: country.Name})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": data})
}

func (h *LookupHandler) DeleteCountry(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteCountry(c.Context(), userID, strings.TrimSpace(c.Params("id"))); err != nil {
		return toHTTPError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *LookupHandler) CreateScholarship(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	var req scholarshipRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	created, err := h.service.CreateScholarship(c.Context(), &domain.Scholarship{
		UserID:   userID,
		Name:     req.Name,
		Amount:   strings.TrimSpace(req.Amount),
		Deadline: req.Deadline,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toScholarshipResponse(created))
}

func (h *LookupHandler) ListScholarships(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	scholarships, err := h.service.ListScholarships(c.Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]scholarshipResponse, 0, len(scholarships))
	for i := range scholarships {
		data = append(data, toScholarshipResponse(&scholarships[i]))
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": data})
}

func (h *LookupHandler) UpdateScholarship(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	var req scholarshipRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updated, err := h.service.UpdateScholarship(c.Context(), &domain.Scholarship{
		ID:       strings.TrimSpace(c.Params("id")),
		UserID:   userID,
		Name:     req.Name,
		Amount:   strings.TrimSpace(req.Amount),
		Deadline: req.Deadline,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toScholarshipResponse(updated))
}

func (h *LookupHandler) DeleteScholarship(c *fiber.Ctx) error {
	userID, err := requestUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteScholarship(c.Context(), userID, strings.TrimSpace(c.Params("id"))); err != nil {
		return toHTTPError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toScholarshipResponse(s *domain.Scholarship) scholarshipResponse {
	if s == nil {
		return scholarshipResponse{}
	}
	return scholarshipResponse{
		ID:       s.ID,
		Name:     s.Name,
		Amount:   s.Amount,
		Deadline: s.Deadline,
	}
}
