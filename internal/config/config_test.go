package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-panel/internal/weather"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"OPENWEATHER_API_KEY", "OPENWEATHER_BASE_URL", "DEFAULT_CITY", "DEFAULT_UNITS",
		"HTTP_TIMEOUT", "PROVIDER_MAX_RETRIES", "PROVIDER_RATE_LIMIT", "PROVIDER_RATE_BURST",
		"SESSION_MAX_AGE", "SESSION_SWEEP_INTERVAL", "PORT", "DEV_MODE",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENWEATHER_API_KEY", "secret")

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.OpenWeatherAPIKey)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5/", cfg.OpenWeatherBaseURL)
	assert.Empty(t, cfg.DefaultCity)
	assert.Equal(t, weather.Metric, cfg.DefaultUnits)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 0, cfg.ProviderMaxRetries)
	assert.Equal(t, 1.0, cfg.ProviderRateLimit)
	assert.Equal(t, 5, cfg.ProviderRateBurst)
	assert.Equal(t, 30*time.Minute, cfg.SessionMaxAge)
	assert.Equal(t, 5*time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.DevMode)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENWEATHER_API_KEY", "secret")
	t.Setenv("OPENWEATHER_BASE_URL", "http://localhost:9000/owm/")
	t.Setenv("DEFAULT_CITY", "Kathmandu")
	t.Setenv("DEFAULT_UNITS", "Imperial")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("PROVIDER_MAX_RETRIES", "2")
	t.Setenv("PROVIDER_RATE_LIMIT", "0.5")
	t.Setenv("PORT", "9090")
	t.Setenv("DEV_MODE", "true")

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/owm/", cfg.OpenWeatherBaseURL)
	assert.Equal(t, "Kathmandu", cfg.DefaultCity)
	assert.Equal(t, weather.Imperial, cfg.DefaultUnits)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 2, cfg.ProviderMaxRetries)
	assert.Equal(t, 0.5, cfg.ProviderRateLimit)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.NotNil(t, cfg.Logger())
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing api key", env: map[string]string{}},
		{name: "bad units", env: map[string]string{"OPENWEATHER_API_KEY": "k", "DEFAULT_UNITS": "kelvin"}},
		{name: "bad base url", env: map[string]string{"OPENWEATHER_API_KEY": "k", "OPENWEATHER_BASE_URL": "not a url"}},
		{name: "bad timeout", env: map[string]string{"OPENWEATHER_API_KEY": "k", "HTTP_TIMEOUT": "soon"}},
		{name: "negative retries", env: map[string]string{"OPENWEATHER_API_KEY": "k", "PROVIDER_MAX_RETRIES": "-1"}},
		{name: "bad rate", env: map[string]string{"OPENWEATHER_API_KEY": "k", "PROVIDER_RATE_LIMIT": "fast"}},
		{name: "non numeric port", env: map[string]string{"OPENWEATHER_API_KEY": "k", "PORT": "http"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := fromEnv()
			assert.Error(t, err)
		})
	}
}
