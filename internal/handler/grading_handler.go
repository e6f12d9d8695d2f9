package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noppadol/classdesk-api/internal/dto"
	"github.com/noppadol/classdesk-api/internal/observability"
	"github.com/noppadol/classdesk-api/internal/repository"
	"github.com/noppadol/classdesk-api/internal/service"
	"github.com/noppadol/classdesk-api/internal/sheetstore"
	"github.com/noppadol/classdesk-api/internal/utils"
)

// GradingHandler manages the teacher grading endpoints.
type GradingHandler struct {
	service   service.GradingService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewGradingHandler builds a grading handler instance.
func NewGradingHandler(service service.GradingService, validator *validator.Validate, logger zerolog.Logger) *GradingHandler {
	return &GradingHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "grading_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *GradingHandler) Register(router fiber.Router) {
	router.Get("/responses", h.listResponses)
	router.Get("/students", h.listStudents)
	router.Get("/students/:id/latest", h.latestSubmission)
	router.Post("/students/:id", h.grade)
}

func (h *GradingHandler) listResponses(c *fiber.Ctx) error {
	responses, err := h.service.ListResponses(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "responses retrieved", responses)
}

func (h *GradingHandler) listStudents(c *fiber.Ctx) error {
	students, err := h.service.ListStudents(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *GradingHandler) latestSubmission(c *fiber.Ctx) error {
	studentID := strings.TrimSpace(c.Params("id"))
	if studentID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "student id is required")
	}

	latest, err := h.service.LatestSubmission(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "latest submission retrieved", dto.NewLatestSubmissionResponse(latest))
}

func (h *GradingHandler) grade(c *fiber.Ctx) error {
	studentID := strings.TrimSpace(c.Params("id"))
	if studentID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "student id is required")
	}

	var payload dto.GradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	graded, err := h.service.Grade(c.Context(), studentID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	observability.GradesRecorded().Inc()

	return utils.SendSuccess(c, "grade recorded", graded)
}

func (h *GradingHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrNoSubmission):
		return utils.SendError(c, fiber.StatusNotFound, "student has no submission")
	case errors.Is(err, repository.ErrRowNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission row no longer found")
	case errors.Is(err, service.ErrInvalidScore):
		return utils.SendError(c, fiber.StatusBadRequest, "score must be between 0 and 100")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, sheetstore.ErrUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "submission store unavailable")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
