package weather

const (
	// samplesPerDay is the number of 3-hour samples in a day.
	samplesPerDay = 8
	// ForecastDays caps the reduced forecast.
	ForecastDays = 5
)

// ReduceForecast keeps one sample per day (indices 0, 8, 16, ...) and truncates
// the result to ForecastDays entries.
func ReduceForecast(samples []ForecastSample) []ForecastEntry {
	out := make([]ForecastEntry, 0, ForecastDays)
	for i := 0; i < len(samples) && len(out) < ForecastDays; i += samplesPerDay {
		s := samples[i]
		out = append(out, ForecastEntry{
			Date:        s.Time,
			Temp:        s.Temp,
			Icon:        s.Icon,
			Description: s.Description,
		})
	}
	return out
}
