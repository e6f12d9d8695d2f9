package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noppadol/classdesk-api/internal/dto"
	"github.com/noppadol/classdesk-api/internal/models"
	"github.com/noppadol/classdesk-api/internal/repository"
)

type gradeWrite struct {
	row     int
	score   string
	comment string
	status  string
}

type fakeResponseRepo struct {
	responses   []models.Response
	appended    []models.Response
	locateCalls int
	locateRow   int
	locateErr   error
	writes      []gradeWrite
}

func (f *fakeResponseRepo) List(ctx context.Context) ([]models.Response, error) {
	return f.responses, nil
}

func (f *fakeResponseRepo) Append(ctx context.Context, response models.Response) error {
	f.appended = append(f.appended, response)
	return nil
}

func (f *fakeResponseRepo) LocateRow(ctx context.Context, timestamp, studentID string) (int, error) {
	f.locateCalls++
	if f.locateErr != nil {
		return 0, f.locateErr
	}
	return f.locateRow, nil
}

func (f *fakeResponseRepo) WriteGrade(ctx context.Context, row int, score, comment, status string) error {
	f.writes = append(f.writes, gradeWrite{row: row, score: score, comment: comment, status: status})
	return nil
}

func newGradingService(repo repository.ResponseRepository) GradingService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewGradingService(repo, validate, nil, testLogger())
}

func scoreOf(v float64) *float64 {
	return &v
}

func TestGradingServiceInvalidScoreWritesNothing(t *testing.T) {
	repo := &fakeResponseRepo{
		responses: []models.Response{
			{Timestamp: "2024-01-01 10:00:00", StudentID: "s1", Status: models.StatusPending},
		},
		locateRow: 2,
	}
	svc := newGradingService(repo)

	for _, score := range []float64{-1, 101} {
		_, err := svc.Grade(context.Background(), "s1", dto.GradeRequest{Score: scoreOf(score)})
		require.ErrorIs(t, err, ErrInvalidScore)
	}

	require.Equal(t, 0, repo.locateCalls)
	require.Empty(t, repo.writes)
}

func TestGradingServiceNoSubmission(t *testing.T) {
	repo := &fakeResponseRepo{locateRow: 2}
	svc := newGradingService(repo)

	_, err := svc.Grade(context.Background(), "s1", dto.GradeRequest{Score: scoreOf(50)})
	require.ErrorIs(t, err, ErrNoSubmission)
	require.Empty(t, repo.writes)
}

func TestGradingServiceRowNotFound(t *testing.T) {
	repo := &fakeResponseRepo{
		responses: []models.Response{
			{Timestamp: "2024-01-01 10:00:00", StudentID: "s1", Status: models.StatusPending},
		},
		locateErr: repository.ErrRowNotFound,
	}
	svc := newGradingService(repo)

	_, err := svc.Grade(context.Background(), "s1", dto.GradeRequest{Score: scoreOf(50)})
	require.ErrorIs(t, err, repository.ErrRowNotFound)
	require.Empty(t, repo.writes)
}

func TestGradingServiceGradeWritesTargetRow(t *testing.T) {
	repo := &fakeResponseRepo{
		responses: []models.Response{
			{Timestamp: "2024-01-01 10:00:00", StudentID: "s1", Status: models.StatusPending},
			{Timestamp: "2024-01-02 09:00:00", StudentID: "s1", Status: models.StatusPending},
			{Timestamp: "2024-01-03 09:00:00", StudentID: "s2", Status: models.StatusPending},
		},
		locateRow: 3,
	}
	svc := newGradingService(repo)

	graded, err := svc.Grade(context.Background(), "s1", dto.GradeRequest{Score: scoreOf(85), Comment: "good"})
	require.NoError(t, err)

	require.Len(t, repo.writes, 1)
	require.Equal(t, gradeWrite{row: 3, score: "85", comment: "good", status: models.StatusGraded}, repo.writes[0])

	require.Equal(t, "2024-01-02 09:00:00", graded.Timestamp)
	require.NotNil(t, graded.Score)
	require.Equal(t, 85.0, *graded.Score)
	require.Equal(t, models.StatusGraded, graded.Status)
}

func TestGradingServiceLatestSubmissionMaxTimestamp(t *testing.T) {
	repo := &fakeResponseRepo{
		responses: []models.Response{
			{Timestamp: "2024-01-02 09:00:00", StudentID: "s1", Answer1: "newer"},
			{Timestamp: "2024-01-01 10:00:00", StudentID: "s1", Answer1: "older"},
			{Timestamp: "2024-01-03 10:00:00", StudentID: "s2", Answer1: "other student"},
		},
	}
	svc := newGradingService(repo)

	latest, err := svc.LatestSubmission(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, "newer", latest.Answer1)
}

func TestGradingServiceLatestSubmissionTieBreaksToLaterRow(t *testing.T) {
	repo := &fakeResponseRepo{
		responses: []models.Response{
			{Timestamp: "2024-01-01 10:00:00", StudentID: "s1", Answer1: "first"},
			{Timestamp: "2024-01-01 10:00:00", StudentID: "s1", Answer1: "second"},
		},
	}
	svc := newGradingService(repo)

	latest, err := svc.LatestSubmission(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, "second", latest.Answer1)
}

func TestGradingServiceListStudentsDeduplicates(t *testing.T) {
	repo := &fakeResponseRepo{
		responses: []models.Response{
			{Timestamp: "2024-01-01 10:00:00", StudentID: "s1"},
			{Timestamp: "2024-01-01 11:00:00", StudentID: "s2"},
			{Timestamp: "2024-01-01 12:00:00", StudentID: "s1"},
			{Timestamp: "2024-01-01 13:00:00", StudentID: ""},
		},
	}
	svc := newGradingService(repo)

	students, err := svc.ListStudents(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"s1", "s2"}, students)
}
