package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noppadol/classdesk-api/internal/dto"
	"github.com/noppadol/classdesk-api/internal/models"
	"github.com/noppadol/classdesk-api/internal/repository"
)

// ErrNoSubmission indicates the student has no response rows to grade.
var ErrNoSubmission = errors.New("student has no submission")

// ErrInvalidScore indicates a grading score outside the [0,100] range.
var ErrInvalidScore = errors.New("score must be between 0 and 100")

// GradingService encapsulates the teacher grading workflow.
type GradingService interface {
	ListResponses(ctx context.Context) ([]models.Response, error)
	ListStudents(ctx context.Context) ([]string, error)
	LatestSubmission(ctx context.Context, studentID string) (models.Response, error)
	Grade(ctx context.Context, studentID string, payload dto.GradeRequest) (dto.LatestSubmissionResponse, error)
}

type gradingService struct {
	responses repository.ResponseRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	events    *nats.Conn
	subject   string
	logger    zerolog.Logger
}

// NewGradingService constructs the grading service. The NATS connection is
// optional; without it no events are published.
func NewGradingService(responses repository.ResponseRepository, validate *validator.Validate, events *nats.Conn, logger zerolog.Logger) GradingService {
	return &gradingService{
		responses: responses,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		events:    events,
		subject:   "classdesk.submission.graded",
		logger:    logger.With().Str("component", "grading_service").Logger(),
	}
}

func (s *gradingService) ListResponses(ctx context.Context) ([]models.Response, error) {
	return s.responses.List(ctx)
}

func (s *gradingService) ListStudents(ctx context.Context) ([]string, error) {
	responses, err := s.responses.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(responses))
	students := make([]string, 0, len(responses))
	for _, response := range responses {
		if response.StudentID == "" {
			continue
		}
		if _, ok := seen[response.StudentID]; ok {
			continue
		}
		seen[response.StudentID] = struct{}{}
		students = append(students, response.StudentID)
	}

	return students, nil
}

func (s *gradingService) LatestSubmission(ctx context.Context, studentID string) (models.Response, error) {
	responses, err := s.responses.List(ctx)
	if err != nil {
		return models.Response{}, err
	}

	return latestFor(responses, studentID)
}

func (s *gradingService) Grade(ctx context.Context, studentID string, payload dto.GradeRequest) (dto.LatestSubmissionResponse, error) {
	tracer := otel.Tracer("github.com/noppadol/classdesk-api/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.grade")
	span.SetAttributes(attribute.String("grading.student_id", studentID))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.LatestSubmissionResponse{}, err
	}

	score := *payload.Score
	if score < 0 || score > 100 {
		span.RecordError(ErrInvalidScore)
		span.SetStatus(codes.Error, "invalid_score")
		return dto.LatestSubmissionResponse{}, ErrInvalidScore
	}

	latest, err := s.LatestSubmission(ctx, studentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "latest_lookup_failed")
		return dto.LatestSubmissionResponse{}, err
	}

	targetRow, err := s.responses.LocateRow(ctx, latest.Timestamp, latest.StudentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "row_lookup_failed")
		return dto.LatestSubmissionResponse{}, err
	}

	comment := s.sanitizer.Sanitize(payload.Comment)
	if err := s.responses.WriteGrade(ctx, targetRow, models.FormatScore(score), comment, models.StatusGraded); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grade_write_failed")
		return dto.LatestSubmissionResponse{}, err
	}

	s.logger.Info().
		Str("student_id", studentID).
		Str("timestamp", latest.Timestamp).
		Int("row", targetRow).
		Float64("score", score).
		Msg("submission graded")

	span.SetAttributes(
		attribute.Float64("grading.score", score),
		attribute.Int("grading.row", targetRow),
	)

	latest.Score = &score
	latest.Comment = comment
	latest.Status = models.StatusGraded

	s.publish(latest)

	return dto.NewLatestSubmissionResponse(latest), nil
}

func (s *gradingService) publish(response models.Response) {
	if s.events == nil {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"student_id": response.StudentID,
		"timestamp":  response.Timestamp,
		"score":      response.Score,
		"status":     response.Status,
	})
	if err != nil {
		return
	}

	if err := s.events.Publish(s.subject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish grading event")
	}
}

// latestFor selects the response with the greatest Timestamp among the given
// student's rows. Rows tying on Timestamp resolve to the last one in storage
// order, which is also why the comparison is not strict.
func latestFor(responses []models.Response, studentID string) (models.Response, error) {
	var latest models.Response
	found := false
	for _, response := range responses {
		if response.StudentID != studentID {
			continue
		}
		if !found || response.Timestamp >= latest.Timestamp {
			latest = response
			found = true
		}
	}

	if !found {
		return models.Response{}, ErrNoSubmission
	}
	return latest, nil
}
