// Package api serves impact entries, statistics and suggestions over HTTP.
package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/climatiqq/climatiqq/internal/config"
	"github.com/climatiqq/climatiqq/internal/recommend"
	"github.com/climatiqq/climatiqq/internal/store"
)

// Server holds the dependencies shared by the HTTP handlers.
type Server struct {
	db     *store.DB
	engine *recommend.Engine
	cfg    *config.Config
	log    zerolog.Logger
	now    func() time.Time
}

// New builds the fiber application with every route registered.
func New(db *store.DB, engine *recommend.Engine, cfg *config.Config, log zerolog.Logger) *fiber.App {
	s := &Server{
		db:     db,
		engine: engine,
		cfg:    cfg,
		log:    log.With().Str("component", "api").Logger(),
		now:    time.Now,
	}
	return s.app()
}

func (s *Server) app() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "climatiqq",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	app.Use(s.requestLogger)

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	s.register(app)
	return app
}

// register mounts the /api routes.
func (s *Server) register(app *fiber.App) {
	g := app.Group("/api")

	g.Get("/entries", s.listEntries)
	g.Post("/entries", s.createEntry)
	g.Get("/entries/:id", s.getEntry)
	g.Put("/entries/:id", s.updateEntry)
	g.Delete("/entries/:id", s.deleteEntry)

	g.Get("/stats", s.stats)

	g.Get("/suggestions", s.suggestions)
	g.Get("/suggestions/history", s.suggestionHistory)
	g.Post("/suggestions/predict", s.predict)
}

// requestLogger logs one line per request with its status and latency.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	} else if err != nil {
		status = fiber.StatusInternalServerError
	}

	ev := s.log.Info()
	if status >= fiber.StatusInternalServerError {
		ev = s.log.Error().Err(err)
	}
	ev.Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Msg("request")
	return err
}

// handleError renders any error returned by a handler as {"error": "..."}.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// userParam returns the ?user= query value or the configured default.
func (s *Server) userParam(c *fiber.Ctx) string {
	if u := c.Query("user"); u != "" {
		return u
	}
	return s.cfg.DefaultUser
}
