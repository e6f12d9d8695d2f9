package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noppadol/classdesk-api/internal/dto"
	"github.com/noppadol/classdesk-api/internal/models"
)

func scoreOf(v float64) *float64 {
	return &v
}

func TestGradingEndpointsRequireTeacherToken(t *testing.T) {
	app, _ := setupApp(t, nil)

	resp := performJSON(t, app, http.MethodGet, "/api/v1/grading/students", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = performJSON(t, app, http.MethodGet, "/api/v1/summary", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGradeFlowUpdatesTargetRow(t *testing.T) {
	app, store := setupApp(t, [][]string{{"s1", "Alice"}})

	resp := performJSON(t, app, http.MethodPost, "/api/v1/submissions", "", dto.SubmitRequest{
		StudentID: "s1", Name: "Alice", Answer1: "a", Answer2: "b",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	token := loginAsTeacher(t, app)

	resp = performJSON(t, app, http.MethodPost, "/api/v1/grading/students/s1", token, dto.GradeRequest{
		Score:   scoreOf(85),
		Comment: "good",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data dto.LatestSubmissionResponse `json:"data"`
	}
	decodeResponse(t, resp, &payload)
	require.Equal(t, models.StatusGraded, payload.Data.Status)
	require.NotNil(t, payload.Data.Score)
	require.Equal(t, 85.0, *payload.Data.Score)

	rows, err := store.Table(responseSheet).Rows(context.Background())
	require.NoError(t, err)
	require.Equal(t, "85", rows[1][models.ScoreColumnIndex-1])
	require.Equal(t, "good", rows[1][models.CommentColumnIndex-1])
	require.Equal(t, models.StatusGraded, rows[1][models.StatusColumnIndex-1])
}

func TestGradeRejectsOutOfRangeScore(t *testing.T) {
	app, store := setupApp(t, [][]string{{"s1", "Alice"}})

	resp := performJSON(t, app, http.MethodPost, "/api/v1/submissions", "", dto.SubmitRequest{
		StudentID: "s1", Name: "Alice", Answer1: "a", Answer2: "b",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	token := loginAsTeacher(t, app)

	resp = performJSON(t, app, http.MethodPost, "/api/v1/grading/students/s1", token, dto.GradeRequest{
		Score: scoreOf(101),
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	rows, err := store.Table(responseSheet).Rows(context.Background())
	require.NoError(t, err)
	require.Equal(t, "", rows[1][models.ScoreColumnIndex-1])
	require.Equal(t, models.StatusPending, rows[1][models.StatusColumnIndex-1])
}

func TestGradeUnknownStudentReturnsNotFound(t *testing.T) {
	app, _ := setupApp(t, nil)
	token := loginAsTeacher(t, app)

	resp := performJSON(t, app, http.MethodPost, "/api/v1/grading/students/s9", token, dto.GradeRequest{
		Score: scoreOf(50),
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestLogoutRevokesSession(t *testing.T) {
	app, _ := setupApp(t, nil)
	token := loginAsTeacher(t, app)

	resp := performJSON(t, app, http.MethodGet, "/api/v1/grading/students", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = performJSON(t, app, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = performJSON(t, app, http.MethodGet, "/api/v1/grading/students", token, nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginRejectsUnknownCredentials(t *testing.T) {
	app, _ := setupApp(t, nil)

	resp := performJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Username: "teacher",
		Password: "wrong",
	})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
