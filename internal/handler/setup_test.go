package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noppadol/classdesk-api/internal/config"
	"github.com/noppadol/classdesk-api/internal/dto"
	"github.com/noppadol/classdesk-api/internal/handler"
	"github.com/noppadol/classdesk-api/internal/middleware"
	"github.com/noppadol/classdesk-api/internal/models"
	"github.com/noppadol/classdesk-api/internal/repository"
	"github.com/noppadol/classdesk-api/internal/router"
	"github.com/noppadol/classdesk-api/internal/service"
	"github.com/noppadol/classdesk-api/internal/sheetstore"
)

const (
	rosterSheet   = "Student List"
	responseSheet = "Response"
)

func setupApp(t *testing.T, roster [][]string) (*fiber.App, *sheetstore.MemoryStore) {
	t.Helper()

	store := sheetstore.NewMemoryStore()
	store.Seed(responseSheet, [][]string{models.ResponseColumns})
	store.Seed(rosterSheet, append([][]string{{models.ColumnStudentID, models.ColumnName}}, roster...))

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	accounts := map[string]string{"teacher": string(hash)}

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	rosterRepo := repository.NewRosterRepository(store.Table(rosterSheet))
	responseRepo := repository.NewResponseRepository(store.Table(responseSheet))

	authService := service.NewAuthService(accounts, "secret", time.Hour, nil, validate, logger)
	submissionService := service.NewSubmissionService(responseRepo, validate, nil, logger)
	gradingService := service.NewGradingService(responseRepo, validate, nil, logger)
	summaryService := service.NewSummaryService(rosterRepo, responseRepo, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test"}, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, validate, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, validate, logger),
		GradingHandler:    handler.NewGradingHandler(gradingService, validate, logger),
		SummaryHandler:    handler.NewSummaryHandler(summaryService, logger),
		JWTMiddleware:     middleware.JWTProtected("secret", authService.IsRevoked),
	})

	return app, store
}

func performJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func loginAsTeacher(t *testing.T, app *fiber.App) string {
	t.Helper()

	resp := performJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Username: "teacher",
		Password: "admin123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data dto.LoginResponse `json:"data"`
	}
	decodeResponse(t, resp, &payload)
	require.NotEmpty(t, payload.Data.Token)
	return payload.Data.Token
}
