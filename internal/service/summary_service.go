package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/noppadol/classdesk-api/internal/dto"
	"github.com/noppadol/classdesk-api/internal/models"
	"github.com/noppadol/classdesk-api/internal/repository"
)

// ErrNoResponses indicates nothing has been submitted yet, so there is no
// summary to compute.
var ErrNoResponses = errors.New("no responses submitted yet")

// NoScoresNote is returned in place of the chart while nothing has been graded.
const NoScoresNote = "no scores recorded yet"

// SummaryService joins the roster with each student's latest response.
type SummaryService interface {
	Summarize(ctx context.Context) (dto.SummaryResponse, error)
}

type summaryService struct {
	roster    repository.RosterRepository
	responses repository.ResponseRepository
	logger    zerolog.Logger
}

// NewSummaryService constructs the summary service.
func NewSummaryService(roster repository.RosterRepository, responses repository.ResponseRepository, logger zerolog.Logger) SummaryService {
	return &summaryService{
		roster:    roster,
		responses: responses,
		logger:    logger.With().Str("component", "summary_service").Logger(),
	}
}

func (s *summaryService) Summarize(ctx context.Context) (dto.SummaryResponse, error) {
	responses, err := s.responses.List(ctx)
	if err != nil {
		return dto.SummaryResponse{}, err
	}
	if len(responses) == 0 {
		return dto.SummaryResponse{}, ErrNoResponses
	}

	// Latest row per student; ties on Timestamp resolve to the later row in
	// storage order, matching the grading workflow's selection.
	latest := make(map[string]models.Response, len(responses))
	for _, response := range responses {
		current, ok := latest[response.StudentID]
		if !ok || response.Timestamp >= current.Timestamp {
			latest[response.StudentID] = response
		}
	}

	students, err := s.roster.List(ctx)
	if err != nil {
		return dto.SummaryResponse{}, err
	}

	rows := make([]dto.SummaryRow, 0, len(students))
	chart := make(map[string]float64)
	for _, student := range students {
		row := dto.SummaryRow{
			StudentID: student.StudentID,
			Name:      student.Name,
		}

		if response, ok := latest[student.StudentID]; ok {
			row.Timestamp = unset(response.Timestamp)
			row.Answer1 = unset(response.Answer1)
			row.Answer2 = unset(response.Answer2)
			row.Score = response.Score
			row.Comment = unset(response.Comment)
			row.Status = unset(response.Status)

			if response.Score != nil {
				chart[student.StudentID] = *response.Score
			}
		}

		rows = append(rows, row)
	}

	result := dto.SummaryResponse{Rows: rows}
	if len(chart) > 0 {
		result.Chart = chart
	} else {
		result.Note = NoScoresNote
	}

	return result, nil
}

// unset normalizes blank cells to an explicit nil marker.
func unset(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
