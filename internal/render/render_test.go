package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-panel/internal/weather"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC), "Sunday, 18 October 2026"},
		{time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), "Thursday, 29 February 2024"},
		{time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC), "Wednesday, 1 January 2025"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDate(tt.in))
	}
}

func TestIconURL(t *testing.T) {
	assert.Equal(t, "https://openweathermap.org/img/wn/10d@2x.png", IconURL("10d"))
	assert.Empty(t, IconURL(""))
}

func TestBackgroundTheme(t *testing.T) {
	assert.Equal(t, "clear", BackgroundTheme("Clear"))
	assert.Equal(t, "rain", BackgroundTheme("drizzle"))
	assert.Equal(t, "mist", BackgroundTheme("FOG"))
	assert.Equal(t, "default", BackgroundTheme("Tornado"))
	assert.Equal(t, "default", BackgroundTheme(""))
}

func TestUnitLabels(t *testing.T) {
	assert.Equal(t, "°C", TempLabel(weather.Metric))
	assert.Equal(t, "°F", TempLabel(weather.Imperial))
	assert.Equal(t, "m/s", SpeedLabel(weather.Metric))
	assert.Equal(t, "mph", SpeedLabel(weather.Imperial))
}

func TestRoundTemp(t *testing.T) {
	assert.Equal(t, 13, RoundTemp(12.6))
	assert.Equal(t, 12, RoundTemp(12.4))
	assert.Equal(t, 13, RoundTemp(12.5))
	assert.Equal(t, -2, RoundTemp(-2.5))
	assert.Equal(t, -3, RoundTemp(-2.6))
}

var observed = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func loadedView() weather.View {
	return weather.View{
		Units:    weather.Metric,
		Location: "London",
		State: weather.Loaded{
			Snapshot: weather.Snapshot{
				Location:    "London",
				Country:     "GB",
				Temp:        12.6,
				TempMin:     10.2,
				TempMax:     14.9,
				Condition:   "Rain",
				Description: "light rain",
				Icon:        "10d",
				Units:       weather.Metric,
				ObservedAt:  observed,
			},
			Forecast: []weather.ForecastEntry{
				{Date: observed, Temp: 11.4, Icon: "01d", Description: "clear sky"},
				{Date: observed.AddDate(0, 0, 1), Temp: 9.5, Icon: "02d", Description: "few clouds"},
			},
		},
	}
}

func TestProject(t *testing.T) {
	p := Project(loadedView())

	require.NotNil(t, p.Snapshot)
	assert.Equal(t, "rain", p.Theme)
	assert.Equal(t, "Sunday, 18 October 2026", p.Date)
	assert.Len(t, p.Forecast, 2)
	assert.False(t, p.Loading)
	assert.Empty(t, p.Error)

	p = Project(weather.View{State: weather.Failed{Message: "city not found"}, Units: weather.Metric})
	assert.Nil(t, p.Snapshot)
	assert.Equal(t, "city not found", p.Error)
	assert.Equal(t, "default", p.Theme)

	p = Project(weather.View{State: weather.Loading{City: "Oslo"}})
	assert.True(t, p.Loading)
}

func TestRenderer_Loaded(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	html, err := r.RenderString(loadedView())
	require.NoError(t, err)

	assert.Contains(t, html, `class="theme-rain"`)
	assert.Contains(t, html, "London, GB")
	assert.Contains(t, html, "Sunday, 18 October 2026")
	assert.Contains(t, html, "13<span>°C</span>")
	assert.Contains(t, html, "10°C / 15°C")
	assert.Contains(t, html, "https://openweathermap.org/img/wn/10d@2x.png")
	assert.Contains(t, html, "<p>Mon</p>")
	assert.Contains(t, html, "Show °F")
	assert.NotContains(t, html, `class="error"`)
}

func TestRenderer_FailedEscapesMessage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	html, err := r.RenderString(weather.View{
		State: weather.Failed{Message: "<script>alert(1)</script>"},
		Units: weather.Imperial,
	})
	require.NoError(t, err)

	assert.Contains(t, html, `class="error"`)
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, `class="current"`)
	assert.Contains(t, html, "Show °C")
}
