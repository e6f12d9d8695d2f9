package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noppadol/classdesk-api/internal/config"
	"github.com/noppadol/classdesk-api/internal/database"
	"github.com/noppadol/classdesk-api/internal/handler"
	"github.com/noppadol/classdesk-api/internal/middleware"
	"github.com/noppadol/classdesk-api/internal/models"
	"github.com/noppadol/classdesk-api/internal/repository"
	"github.com/noppadol/classdesk-api/internal/router"
	"github.com/noppadol/classdesk-api/internal/service"
	"github.com/noppadol/classdesk-api/internal/sheetstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open sheet store: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var events *nats.Conn
	if cfg.NATSURL != "" {
		events, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer events.Drain()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	rosterRepo := repository.NewRosterRepository(store.Table(cfg.RosterSheet))
	responseRepo := repository.NewResponseRepository(store.Table(cfg.ResponseSheet))

	authService := service.NewAuthService(cfg.TeacherAccounts, cfg.JWTSecret, cfg.TokenTTL, redisClient, validate, logger)
	submissionService := service.NewSubmissionService(responseRepo, validate, events, logger)
	gradingService := service.NewGradingService(responseRepo, validate, events, logger)
	summaryService := service.NewSummaryService(rosterRepo, responseRepo, logger)

	authHandler := handler.NewAuthHandler(authService, validate, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, validate, logger)
	gradingHandler := handler.NewGradingHandler(gradingService, validate, logger)
	summaryHandler := handler.NewSummaryHandler(summaryService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		SubmissionHandler: submissionHandler,
		GradingHandler:    gradingHandler,
		SummaryHandler:    summaryHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret, authService.IsRevoked),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func openStore(cfg config.Config) (sheetstore.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverSheets:
		return sheetstore.NewGoogleSheetsStore(context.Background(), cfg.SpreadsheetID, cfg.CredentialsFile)
	case config.StoreDriverGorm:
		db, err := database.ConnectGorm(cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store, err := sheetstore.NewGormStore(db)
		if err != nil {
			return nil, err
		}
		ctx := context.Background()
		if err := store.EnsureHeaders(ctx, cfg.ResponseSheet, models.ResponseColumns); err != nil {
			return nil, err
		}
		if err := store.EnsureHeaders(ctx, cfg.RosterSheet, []string{models.ColumnStudentID, models.ColumnName}); err != nil {
			return nil, err
		}
		return store, nil
	default:
		store := sheetstore.NewMemoryStore()
		store.Seed(cfg.ResponseSheet, [][]string{models.ResponseColumns})
		store.Seed(cfg.RosterSheet, [][]string{{models.ColumnStudentID, models.ColumnName}})
		return store, nil
	}
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
