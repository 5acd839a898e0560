package weather

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Condition represents a normalized high-level weather condition.
// It doubles as the background theme token of the panel.
type Condition string

const (
	ConditionUnknown Condition = "default"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// conditionTable is matched in order; the first hit wins.
var conditionTable = []struct {
	cond Condition
	subs []string
}{
	{ConditionClear, []string{"clear"}},
	{ConditionCloudy, []string{"cloud"}},
	{ConditionRain, []string{"rain", "drizzle"}},
	{ConditionSnow, []string{"snow"}},
	{ConditionStorm, []string{"thunderstorm"}},
	{ConditionMist, []string{"mist", "fog"}},
}

// ClassifyCondition maps a provider condition ("Clouds", "light rain", ...) onto
// a Condition using case-insensitive substring matching.
func ClassifyCondition(main string) Condition {
	// Casers keep state and cannot be shared between goroutines.
	s := cases.Fold().String(main)
	if s == "" {
		return ConditionUnknown
	}
	for _, row := range conditionTable {
		if containsAny(s, row.subs) {
			return row.cond
		}
	}
	return ConditionUnknown
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Units is the unit system requested from the provider.
type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
)

// ErrInvalidUnits is returned by ParseUnits for anything but metric/imperial.
var ErrInvalidUnits = errors.New("units must be metric or imperial")

// ParseUnits parses a unit system name, case-insensitively.
func ParseUnits(s string) (Units, error) {
	switch Units(strings.ToLower(strings.TrimSpace(s))) {
	case Metric:
		return Metric, nil
	case Imperial:
		return Imperial, nil
	default:
		return "", ErrInvalidUnits
	}
}

// Toggle returns the other unit system.
func (u Units) Toggle() Units {
	if u == Imperial {
		return Metric
	}
	return Imperial
}

// Snapshot is the normalized current-conditions view model.
type Snapshot struct {
	Location    string    `json:"location"`
	Country     string    `json:"country"`
	Temp        float64   `json:"temp"`
	TempMin     float64   `json:"tempMin"`
	TempMax     float64   `json:"tempMax"`
	FeelsLike   float64   `json:"feelsLike"`
	Humidity    float64   `json:"humidity"`
	Pressure    float64   `json:"pressure"`
	WindSpeed   float64   `json:"windSpeed"`
	Condition   string    `json:"condition"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Units       Units     `json:"units"`
	ObservedAt  time.Time `json:"observedAt"` // panel clock, not provider time
}

// ForecastSample is one raw element of the provider's 3-hour forecast list.
type ForecastSample struct {
	Time        time.Time
	Temp        float64
	Icon        string
	Description string
}

// ForecastEntry is one day of the reduced forecast.
type ForecastEntry struct {
	Date        time.Time `json:"date"`
	Temp        float64   `json:"temp"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
}
