package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noppadol/classdesk-api/internal/service"
	"github.com/noppadol/classdesk-api/internal/sheetstore"
	"github.com/noppadol/classdesk-api/internal/utils"
)

// SummaryHandler exposes the roster/latest-response join.
type SummaryHandler struct {
	service service.SummaryService
	logger  zerolog.Logger
}

// NewSummaryHandler builds a summary handler instance.
func NewSummaryHandler(service service.SummaryService, logger zerolog.Logger) *SummaryHandler {
	return &SummaryHandler{
		service: service,
		logger:  logger.With().Str("component", "summary_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SummaryHandler) Register(router fiber.Router) {
	router.Get("", h.summarize)
}

func (h *SummaryHandler) summarize(c *fiber.Ctx) error {
	summary, err := h.service.Summarize(c.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoResponses) {
			return utils.SendSuccess(c, "no responses submitted yet", nil)
		}
		if errors.Is(err, sheetstore.ErrUnavailable) {
			return utils.SendError(c, fiber.StatusServiceUnavailable, "submission store unavailable")
		}
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "summary retrieved", summary)
}
