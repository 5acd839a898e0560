package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/i474232898/weather-panel/internal/api/http"
	"github.com/i474232898/weather-panel/internal/config"
	"github.com/i474232898/weather-panel/internal/metrics"
	"github.com/i474232898/weather-panel/internal/render"
	"github.com/i474232898/weather-panel/internal/scheduler"
	"github.com/i474232898/weather-panel/internal/store"
	"github.com/i474232898/weather-panel/internal/weather"
	"github.com/i474232898/weather-panel/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := cfg.Logger()
	slog.SetDefault(log)
	log.Debug("configuration loaded")

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewOpenWeatherProvider(httpClient, providers.OpenWeatherOptions{
		BaseURL:    cfg.OpenWeatherBaseURL,
		APIKey:     cfg.OpenWeatherAPIKey,
		MaxRetries: cfg.ProviderMaxRetries,
		RateLimit:  cfg.ProviderRateLimit,
		RateBurst:  cfg.ProviderRateBurst,
		Logger:     log,
	})

	newPanel := func() *weather.Panel {
		return weather.NewPanel(provider, cfg.DefaultUnits, weather.WithLogger(log))
	}
	sessions := store.NewMemoryStore(newPanel, cfg.SessionMaxAge)

	renderer, err := render.NewRenderer()
	if err != nil {
		log.Error("failed to parse panel template", "error", err)
		os.Exit(1)
	}

	// Sweeper that evicts idle sessions.
	sched := scheduler.New(sessions, cfg.SessionSweepInterval, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-panel",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2*cfg.HTTPTimeout + 5*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(metrics.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-panel",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, &httpapi.Server{
		Sessions:    sessions,
		Renderer:    renderer,
		NewPanel:    newPanel,
		DefaultCity: cfg.DefaultCity,
		Logger:      log,
	})

	go func() {
		log.Info("starting server", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
}
