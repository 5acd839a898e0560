package weather

import (
	"context"
	"errors"
	"fmt"
)

// Provider abstracts the weather data source (OpenWeatherMap).
type Provider interface {
	Name() string
	Current(ctx context.Context, city string, units Units) (Snapshot, error)
	Forecast(ctx context.Context, city string, units Units) ([]ForecastSample, error)
}

// ErrorKind distinguishes the two failure classes shown to the user.
type ErrorKind string

const (
	KindProvider  ErrorKind = "provider"
	KindTransport ErrorKind = "transport"
)

// TransportMessage is shown for every failure that produced no provider response.
const TransportMessage = "Failed to fetch data. Please try again."

// ErrSuperseded is returned by Search when a newer search replaced it.
var ErrSuperseded = errors.New("search superseded by a newer request")

// ProviderError is a non-2xx response from the provider.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.Status, e.Message)
}

// TransportError is a network or decoding failure before a usable response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// failureOf converts an error into the message and kind shown to the user.
func failureOf(err error) Failed {
	var pe *ProviderError
	if errors.As(err, &pe) {
		msg := pe.Message
		if msg == "" {
			msg = TransportMessage
		}
		return Failed{Message: msg, Kind: KindProvider}
	}
	return Failed{Message: TransportMessage, Kind: KindTransport}
}
