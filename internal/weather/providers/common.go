package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// BackoffConfig controls exponential backoff between attempts.
// MaxRetries of 0 means a single attempt.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// delay returns the wait before retry number n (0-based).
func (b BackoffConfig) delay(n int) time.Duration {
	d := b.InitialInterval << n
	if b.MaxInterval > 0 && (d > b.MaxInterval || d <= 0) {
		d = b.MaxInterval
	}
	return d
}

func (b BackoffConfig) validate() error {
	if b.MaxRetries < 0 || (b.MaxRetries > 0 && b.InitialInterval <= 0) {
		return errInvalidConfig
	}
	return nil
}

var (
	errRetryableStatus = errors.New("retryable status code")
	errCircuitOpen     = errors.New("circuit breaker open")
	errNoHTTPClient    = errors.New("http client not configured")
	errInvalidConfig   = errors.New("invalid backoff configuration")
)

// resilientClient sends provider requests through an optional rate limiter and a
// circuit breaker, retrying transport errors, 429 and 5xx with backoff.
type resilientClient struct {
	client  *http.Client
	backoff BackoffConfig
	limiter *rate.Limiter // nil disables limiting
	breaker *gobreaker.CircuitBreaker
}

func newResilientClient(name string, client *http.Client, backoff BackoffConfig, limiter *rate.Limiter) *resilientClient {
	return &resilientClient{
		client:  client,
		backoff: backoff,
		limiter: limiter,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 5,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
		}),
	}
}

// Do runs buildRequest until it yields a non-retryable response or the retry
// budget is spent.
//
// The last response received is returned even when its status is a failure, so
// the caller can read the provider's error payload. An error is returned only
// when no response is available.
func (c *resilientClient) Do(ctx context.Context, buildRequest func(context.Context) (*http.Request, error)) (*http.Response, error) {
	if c.client == nil {
		return nil, errNoHTTPClient
	}
	if err := c.backoff.validate(); err != nil {
		return nil, err
	}

	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait canceled: %w", err)
			}
		}

		resp, err := c.attempt(ctx, buildRequest)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		if err == nil || n >= c.backoff.MaxRetries || ctx.Err() != nil {
			if resp != nil {
				return resp, nil
			}
			return nil, err
		}
		if resp != nil {
			resp.Body.Close()
		}

		timer := time.NewTimer(c.backoff.delay(n))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// attempt sends one request through the breaker. Transport errors, 429 and 5xx
// count as breaker failures; any response received is still returned.
func (c *resilientClient) attempt(ctx context.Context, buildRequest func(context.Context) (*http.Request, error)) (*http.Response, error) {
	req, err := buildRequest(ctx)
	if err != nil {
		return nil, err
	}

	var resp *http.Response
	_, err = c.breaker.Execute(func() (interface{}, error) {
		r, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		resp = r
		if r.StatusCode == http.StatusTooManyRequests || r.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %d", errRetryableStatus, r.StatusCode)
		}
		return r, nil
	})
	return resp, err
}
