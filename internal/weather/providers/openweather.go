package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/weather-panel/internal/metrics"
	"github.com/i474232898/weather-panel/internal/weather"
	"golang.org/x/time/rate"
)

// DefaultOpenWeatherBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5/"

// OpenWeatherOptions configures an OpenWeatherProvider.
type OpenWeatherOptions struct {
	BaseURL    string
	APIKey     string
	MaxRetries int
	RateLimit  float64 // requests per second; 0 disables limiting
	RateBurst  int
	Logger     *slog.Logger
}

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *resilientClient
	logger  *slog.Logger
}

var _ weather.Provider = (*OpenWeatherProvider)(nil)

// NewOpenWeatherProvider creates a provider that sends its requests with client.
func NewOpenWeatherProvider(client *http.Client, opts OpenWeatherOptions) *OpenWeatherProvider {
	base := opts.BaseURL
	if base == "" {
		base = DefaultOpenWeatherBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  opts.APIKey,
		baseURL: base,
		client: newResilientClient("openweather", client, BackoffConfig{
			MaxRetries:      opts.MaxRetries,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		}, limiter),
		logger: logger,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type currentPayload struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Weather []conditionPayload `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type forecastPayload struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []conditionPayload `json:"weather"`
	} `json:"list"`
}

type conditionPayload struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// errorPayload is the body OpenWeatherMap sends with non-2xx responses.
// cod is a string on some endpoints and a number on others.
type errorPayload struct {
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
}

// Current fetches current conditions from {base}weather.
func (p *OpenWeatherProvider) Current(ctx context.Context, city string, units weather.Units) (weather.Snapshot, error) {
	var payload currentPayload
	if err := p.get(ctx, "weather", city, units, &payload); err != nil {
		return weather.Snapshot{}, err
	}

	var cond conditionPayload
	if len(payload.Weather) > 0 {
		cond = payload.Weather[0]
	}

	return weather.Snapshot{
		Location:    payload.Name,
		Country:     payload.Sys.Country,
		Temp:        payload.Main.Temp,
		TempMin:     payload.Main.TempMin,
		TempMax:     payload.Main.TempMax,
		FeelsLike:   payload.Main.FeelsLike,
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		WindSpeed:   payload.Wind.Speed,
		Condition:   cond.Main,
		Description: cond.Description,
		Icon:        cond.Icon,
		Units:       units,
	}, nil
}

// Forecast fetches the 3-hour forecast list from {base}forecast.
func (p *OpenWeatherProvider) Forecast(ctx context.Context, city string, units weather.Units) ([]weather.ForecastSample, error) {
	var payload forecastPayload
	if err := p.get(ctx, "forecast", city, units, &payload); err != nil {
		return nil, err
	}

	samples := make([]weather.ForecastSample, 0, len(payload.List))
	for _, item := range payload.List {
		s := weather.ForecastSample{
			Time: time.Unix(item.Dt, 0).UTC(),
			Temp: item.Main.Temp,
		}
		if len(item.Weather) > 0 {
			s.Icon = item.Weather[0].Icon
			s.Description = item.Weather[0].Description
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// get issues GET {base}{endpoint}?q=&units=&appid= and decodes a 2xx body into out.
// Non-2xx responses become *weather.ProviderError; everything else that goes
// wrong becomes *weather.TransportError.
func (p *OpenWeatherProvider) get(ctx context.Context, endpoint, city string, units weather.Units, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveProviderCall(p.name, endpoint, outcome(err), time.Since(start))
	}()

	if p.apiKey == "" {
		return &weather.TransportError{Err: fmt.Errorf("openweather api key is not configured")}
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("units", string(units))
	values.Set("appid", p.apiKey)
	u := p.baseURL + endpoint + "?" + values.Encode()

	resp, err := p.client.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	})
	if err != nil {
		return &weather.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return p.providerError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &weather.TransportError{Err: fmt.Errorf("failed to parse %s response: %w", endpoint, err)}
	}
	return nil
}

func (p *OpenWeatherProvider) providerError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return &weather.TransportError{Err: fmt.Errorf("failed to read error body: %w", err)}
	}

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		p.logger.Debug("provider error without message payload", "status", resp.StatusCode)
		payload.Message = strings.ToLower(http.StatusText(resp.StatusCode))
	}
	return &weather.ProviderError{Status: resp.StatusCode, Message: payload.Message}
}

func outcome(err error) string {
	switch err.(type) {
	case nil:
		return "ok"
	case *weather.ProviderError:
		return "provider_error"
	default:
		return "transport_error"
	}
}
