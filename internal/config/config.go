package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-panel/internal/weather"
)

// AppConfig is built once at startup and passed by pointer to the components.
type AppConfig struct {
	OpenWeatherAPIKey  string `validate:"required"`
	OpenWeatherBaseURL string `validate:"required,url"`

	// DefaultCity is searched once when a new panel is created; empty means start Idle.
	DefaultCity  string
	DefaultUnits weather.Units `validate:"oneof=metric imperial"`

	HTTPTimeout time.Duration `validate:"gt=0"`

	// Provider resilience. MaxRetries of 0 means no retries.
	ProviderMaxRetries int     `validate:"gte=0,lte=5"`
	ProviderRateLimit  float64 `validate:"gte=0"`
	ProviderRateBurst  int     `validate:"gte=1"`

	// Session retention.
	SessionMaxAge        time.Duration `validate:"gte=0"`
	SessionSweepInterval time.Duration `validate:"gt=0"`

	Port    string `validate:"required,numeric"`
	DevMode bool
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, relying on environment variables")
	}
	return fromEnv()
}

func fromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5/")
	cfg.DefaultCity = os.Getenv("DEFAULT_CITY")

	units, err := weather.ParseUnits(getenvDefault("DEFAULT_UNITS", "metric"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_UNITS: %w", err)
	}
	cfg.DefaultUnits = units

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.SessionMaxAge, err = getenvDuration("SESSION_MAX_AGE", "30m"); err != nil {
		return nil, err
	}
	if cfg.SessionSweepInterval, err = getenvDuration("SESSION_SWEEP_INTERVAL", "5m"); err != nil {
		return nil, err
	}

	cfg.ProviderMaxRetries = getenvInt("PROVIDER_MAX_RETRIES", 0)
	cfg.ProviderRateBurst = getenvInt("PROVIDER_RATE_BURST", 5)
	cfg.ProviderRateLimit, err = strconv.ParseFloat(getenvDefault("PROVIDER_RATE_LIMIT", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_RATE_LIMIT: %w", err)
	}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.DevMode, _ = strconv.ParseBool(os.Getenv("DEV_MODE"))

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Logger builds the process logger: text at debug level in dev mode, JSON otherwise.
func (c *AppConfig) Logger() *slog.Logger {
	if c.DevMode {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
