// Package server implements the development REST backend the feed client
// talks to.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"uniconnect/internal/cache"
	"uniconnect/internal/config"
	"uniconnect/internal/database"
	"uniconnect/internal/middleware"
	"uniconnect/internal/models"
	"uniconnect/internal/observability"
	"uniconnect/internal/repository"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	registry       *prometheus.Registry
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	startupRepo    repository.StartupRepository
	connRepo       repository.ConnectionRepository
	notifier       *cache.Notifier
	shutdownFn     context.CancelFunc
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil redis client runs the backend without cache and feed events.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	middleware.InitMiddleware(cfg)

	registry := prometheus.NewRegistry()
	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		registry:       registry,
		promMiddleware: fiberprometheus.NewWithRegistry(registry, "uniconnect-api", "uniconnect", "http", nil),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		startupRepo:    repository.NewStartupRepository(db),
		connRepo:       repository.NewConnectionRepository(db),
	}
	if redisClient != nil {
		s.notifier = cache.NewNotifier(redisClient)
	}
	return s
}

// App builds the fiber application with middleware and routes.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName:   "UniConnect API",
		BodyLimit: 32 << 20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, fe.Code, err)
			}
			observability.GlobalLogger.ErrorContext(c.UserContext(), "unhandled error", "error", err.Error())
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())
	app.Use(s.promMiddleware.Middleware)
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, traceparent, tracestate, baggage",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Request metrics live in the server registry, client metrics in the default one
	gatherers := prometheus.Gatherers{s.registry, prometheus.DefaultGatherer}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})))

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, 5, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, time.Minute, "login"), s.Login)

	protected := api.Group("", middleware.AuthRequired)

	posts := protected.Group("/posts")
	posts.Get("/list", s.ListPosts)
	posts.Post("/create", middleware.RateLimit(s.redis, 30, time.Minute, "create_post"), s.CreatePost)
	posts.Post("/like", s.ToggleLike)
	posts.Post("/comment", s.AddComment)
	posts.Post("/reply", s.ReplyToComment)

	protected.Get("/dashboard", s.Dashboard)
	protected.Post("/connections", s.ConnectWithUser)

	startups := protected.Group("/startups")
	startups.Post("/create", s.CreateStartup)
	startups.Get("/list", s.ListStartups)
	startups.Post("/vote", s.VoteStartup)
}

// Start runs the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownFn = cancel

	if s.notifier != nil {
		if err := s.notifier.Subscribe(ctx, func(ev cache.FeedEvent) {
			observability.GlobalLogger.Debug("feed event", "type", ev.Type, "post_id", ev.PostID, "actor_id", ev.ActorID)
		}); err != nil {
			log.Printf("feed event subscription failed: %v", err)
		}
	}

	return s.App().Listen(":" + s.config.Port)
}

// Shutdown stops accepting requests and closes the database.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		return sqlDB.Close()
	}
	return nil
}

func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	// Redis is optional, so only a failing one is fatal
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// publish sends a feed event. Failures are logged and never reach the client.
func (s *Server) publish(c *fiber.Ctx, ev cache.FeedEvent) {
	if err := s.notifier.Publish(c.UserContext(), ev); err != nil {
		observability.GlobalLogger.WarnContext(c.UserContext(), "feed event publish failed",
			"type", ev.Type, "error", err.Error())
	}
}
