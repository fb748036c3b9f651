// Package api exposes the catalog, validator, scorer and recommender over
// HTTP.
package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/Aquilabot/SmartPC-API/internal/catalog"
	"github.com/Aquilabot/SmartPC-API/internal/config"
	"github.com/Aquilabot/SmartPC-API/internal/metrics"
	"github.com/Aquilabot/SmartPC-API/internal/scoring"
)

const prefix = "/api/v1"

type Server struct {
	cfg     *config.Config
	store   catalog.Store
	scorer  *scoring.Scorer
	metrics *metrics.Manager

	limiterStorage fiber.Storage
	accessLog      bool
}

type Option func(*Server)

// WithMetrics records requests and domain events on m instead of a private
// manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLimiterStorage keeps rate limit windows in storage, e.g. a shared store
// when several instances run behind one address.
func WithLimiterStorage(storage fiber.Storage) Option {
	return func(s *Server) {
		s.limiterStorage = storage
	}
}

// WithoutAccessLog disables the request log line.
func WithoutAccessLog() Option {
	return func(s *Server) {
		s.accessLog = false
	}
}

func New(cfg *config.Config, store catalog.Store, scorer *scoring.Scorer, opts ...Option) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store,
		scorer:    scorer,
		accessLog: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewManager()
	}
	return s
}

// App builds the fiber application with every route mounted.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      s.cfg.AppName,
		ErrorHandler: errorHandler,
	})

	app.Use(helmet.New())
	if s.accessLog {
		app.Use(logger.New(logger.Config{
			Format: "${pid} | ${time} | ${latency} | [${ip}]:${port} | ${status} - ${method} ${path}\n",
		}))
	}
	app.Use(cors.New(cors.Config{AllowOrigins: s.cfg.Origins()}))
	app.Use(s.observe)

	limit := limiter.New(limiter.Config{
		Max:        s.cfg.RateLimitPerMinute,
		Expiration: time.Minute,
		Storage:    s.limiterStorage,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests"})
		},
	})

	v1 := app.Group(prefix)
	v1.Get("/health", s.health)
	v1.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))

	v1.Post("/validate", limit, s.validate)
	v1.Post("/score", limit, s.score)
	v1.Get("/fps", s.fps)
	v1.Get("/fps/games", s.fpsGames)

	presets := v1.Group("/presets")
	presets.Get("", s.listPresets)
	presets.Get("/recommendations", s.recommendations)
	presets.Get("/:id", s.getPreset)
	presets.Get("/:id/details", s.presetDetails)

	products := v1.Group("/products")
	products.Get("", s.listProducts)
	products.Post("", limit, s.createProduct)
	products.Get("/:id", s.getProduct)
	products.Get("/:id/alternatives", s.alternatives)

	return app
}

// observe records every request once the error handler has set its status.
func (s *Server) observe(c *fiber.Ctx) error {
	start := time.Now()
	if err := c.Next(); err != nil {
		if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}
	s.metrics.ObserveHTTP(c.Method(), c.Route().Path, c.Response().StatusCode(), time.Since(start))
	return nil
}
