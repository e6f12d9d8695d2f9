package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noppadol/classdesk-api/internal/config"
	"github.com/noppadol/classdesk-api/internal/handler"
	"github.com/noppadol/classdesk-api/internal/middleware"
	"github.com/noppadol/classdesk-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	SubmissionHandler *handler.SubmissionHandler
	GradingHandler    *handler.GradingHandler
	SummaryHandler    *handler.SummaryHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterPublic(api.Group("/auth"))
		deps.AuthHandler.RegisterProtected(api.Group("/auth", jwtMiddleware))
	}

	// Students submit without authenticating; rate limited instead.
	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", middleware.RateLimit("submission", 5, time.Minute))
		deps.SubmissionHandler.Register(submissions)
	}

	// Grading and summary are teacher only.
	if deps.GradingHandler != nil {
		grading := api.Group("/grading", jwtMiddleware, middleware.RequireTeacher())
		deps.GradingHandler.Register(grading)
	}

	if deps.SummaryHandler != nil {
		summary := api.Group("/summary", jwtMiddleware, middleware.RequireTeacher())
		deps.SummaryHandler.Register(summary)
	}
}
