package render

import (
	"fmt"
	"math"
	"time"

	"github.com/i474232898/weather-panel/internal/weather"
)

var dayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var monthNames = [...]string{"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

// FormatDate renders t as "Weekday, D Month YYYY" with fixed English names,
// independent of any locale.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s, %d %s %d", dayNames[t.Weekday()], t.Day(), monthNames[t.Month()-1], t.Year())
}

// ShortDay renders t as its weekday name, used for forecast columns.
func ShortDay(t time.Time) string {
	return dayNames[t.Weekday()][:3]
}

const iconURLTemplate = "https://openweathermap.org/img/wn/%s@2x.png"

// IconURL returns the image URL for an OpenWeatherMap icon code.
func IconURL(code string) string {
	if code == "" {
		return ""
	}
	return fmt.Sprintf(iconURLTemplate, code)
}

// BackgroundTheme returns the theme token for a condition such as "Rain".
func BackgroundTheme(condition string) string {
	return string(weather.ClassifyCondition(condition))
}

// TempLabel is the temperature unit suffix.
func TempLabel(u weather.Units) string {
	if u == weather.Imperial {
		return "°F"
	}
	return "°C"
}

// SpeedLabel is the wind speed unit suffix.
func SpeedLabel(u weather.Units) string {
	if u == weather.Imperial {
		return "mph"
	}
	return "m/s"
}

// RoundTemp rounds a temperature for display. Halves round up, so -2.5 shows as -2.
func RoundTemp(v float64) int {
	return int(math.Floor(v + 0.5))
}
