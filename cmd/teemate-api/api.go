// Package main provides the Teemate dashboard API server.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/teemate/teemate/pkg/onboarding"
	"github.com/teemate/teemate/pkg/persistence"
	"github.com/teemate/teemate/pkg/sessions"
	"github.com/teemate/teemate/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	client      onboarding.ChatClient
	sessions    sessions.Store
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	client onboarding.ChatClient,
	sessionStore sessions.Store,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		client:      client,
		sessions:    sessionStore,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	runner := onboarding.NewRunner(a.client, a.logger)
	service := onboarding.NewService(a.persistence, runner, a.logger)
	router := onboarding.NewRouter(a.persistence, a.client, a.logger)

	handlers := web.NewAPIHandlers(a.persistence, service, router, a.client, a.sessions, a.validate, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Teemate API")
	})

	g := app.Group("/guilds")
	g.Get("/:id/config", handlers.GetGuildConfig)
	g.Patch("/:id/config", handlers.UpdateGuildConfig)
	g.Get("/:id/onboarding", handlers.GetOnboarding)
	g.Patch("/:id/onboarding", handlers.UpdateOnboarding)
	g.Post("/:id/onboarding/test", handlers.TestOnboarding)
	g.Post("/:id/embed", handlers.SendEmbed)
	g.Get("/:id/sessions/:userId", handlers.GetEditorSession)
	g.Put("/:id/sessions/:userId", handlers.PutEditorSession)
	g.Delete("/:id/sessions/:userId", handlers.DeleteEditorSession)

	app.Post("/interactions", handlers.HandleInteraction)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
