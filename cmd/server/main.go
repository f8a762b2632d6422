package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"

	"fpl-go-dashboard/internal/config"
	"fpl-go-dashboard/internal/handlers"
	"fpl-go-dashboard/internal/layout"
	"fpl-go-dashboard/internal/logging"
	"fpl-go-dashboard/internal/metrics"
	"fpl-go-dashboard/internal/pages"
	"fpl-go-dashboard/internal/services"
	"fpl-go-dashboard/pkg/fplapi"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	log := logging.Init(cfg.LogLevel, cfg.LogFormat, cfg.IsDevelopment())

	variant, err := pages.ParseVariant(cfg.ViewVariant)
	if err != nil {
		log.WithError(err).Fatal("Invalid VIEW_VARIANT")
	}

	m, err := metrics.New()
	if err != nil {
		log.WithError(err).Fatal("Failed to register metrics")
	}

	// Initialize services
	client := fplapi.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	client.Observer = m

	snapshots := services.NewSnapshotStore(context.Background(), cfg)
	defer snapshots.Close()

	gameweeks := services.NewGameweekService(client, cfg.GameweekTimeout)
	feeds := services.NewFeedService(client, gameweeks, snapshots, m)
	composer := layout.NewComposer(gameweeks, feeds)

	registry := pages.NewRegistry(client, variant, m, cfg.SessionTTL)
	defer registry.Close()

	renderer, err := handlers.NewRenderer()
	if err != nil {
		log.WithError(err).Fatal("Failed to load views")
	}

	// Initialize handlers
	routes := &handlers.Routes{
		Health:   handlers.NewHealthHandler(client, cfg.APIBaseURL, snapshots.Persistent(), version),
		Pages:    handlers.NewPageHandler(composer, renderer, cfg.HandlerTimeout),
		Feeds:    handlers.NewFeedHandler(feeds),
		Shell:    handlers.NewShellHandler(composer),
		Sessions: handlers.NewSessions(registry, cfg.SessionTTL, !cfg.IsDevelopment()),
		Metrics:  m.Handler(),
	}

	app := fiber.New(fiber.Config{
		StrictRouting: true,
		CaseSensitive: true,
		ServerHeader:  "FPL-Dashboard",
		AppName:       "FPL Dashboard v" + version,
		ReadTimeout:   time.Second * 10,
		// optimizer calls can run long
		WriteTimeout: cfg.HandlerTimeout + 5*time.Second,
		BodyLimit:    1024 * 1024,
		ErrorHandler: handlers.CustomErrorHandler,
	})

	// Middleware stack
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logging.Middleware())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.ReplaceAll(cfg.CorsOrigins, " ", ""),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))
	if cfg.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit,
			Expiration: 1 * time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), "/health") || strings.HasPrefix(c.Path(), "/static")
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Rate limit exceeded. Please try again later.",
				})
			},
		}))
	}

	routes.Register(app)

	// Graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"backend":     cfg.APIBaseURL,
		"variant":     variant,
		"snapshots":   snapshots.Persistent(),
	}).Info("FPL dashboard started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		return
	}

	log.Info("Server shutdown complete")
}
