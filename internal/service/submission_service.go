package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noppadol/classdesk-api/internal/dto"
	"github.com/noppadol/classdesk-api/internal/models"
	"github.com/noppadol/classdesk-api/internal/repository"
)

// SubmissionService appends student submissions to the response log.
type SubmissionService interface {
	Submit(ctx context.Context, payload dto.SubmitRequest) (dto.SubmissionResponse, error)
}

type submissionService struct {
	responses repository.ResponseRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	events    *nats.Conn
	subject   string
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSubmissionService constructs the submission service. The NATS connection
// is optional; without it no events are published.
func NewSubmissionService(responses repository.ResponseRepository, validate *validator.Validate, events *nats.Conn, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		responses: responses,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		events:    events,
		subject:   "classdesk.submission.received",
		logger:    logger.With().Str("component", "submission_service").Logger(),
		now:       time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, payload dto.SubmitRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	response := models.Response{
		Timestamp: s.now().Format(models.TimestampLayout),
		StudentID: payload.StudentID,
		Name:      payload.Name,
		Answer1:   s.sanitizer.Sanitize(payload.Answer1),
		Answer2:   s.sanitizer.Sanitize(payload.Answer2),
		Status:    models.StatusPending,
	}

	if err := s.responses.Append(ctx, response); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Str("student_id", response.StudentID).
		Str("timestamp", response.Timestamp).
		Msg("submission recorded")

	s.publish(response)

	return dto.NewSubmissionResponse(response), nil
}

func (s *submissionService) publish(response models.Response) {
	if s.events == nil {
		return
	}

	payload, err := json.Marshal(map[string]string{
		"student_id": response.StudentID,
		"timestamp":  response.Timestamp,
		"status":     response.Status,
	})
	if err != nil {
		return
	}

	if err := s.events.Publish(s.subject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish submission event")
	}
}
