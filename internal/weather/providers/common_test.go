package providers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelay(t *testing.T) {
	b := BackoffConfig{MaxRetries: 5, InitialInterval: 100 * time.Millisecond, MaxInterval: time.Second}

	assert.Equal(t, 100*time.Millisecond, b.delay(0))
	assert.Equal(t, 200*time.Millisecond, b.delay(1))
	assert.Equal(t, 800*time.Millisecond, b.delay(3))
	assert.Equal(t, time.Second, b.delay(4))
	assert.Equal(t, time.Second, b.delay(62))
}

func TestResilientClient_Validation(t *testing.T) {
	build := func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, "http://127.0.0.1:1/", nil)
	}

	_, err := newResilientClient("test", nil, BackoffConfig{}, nil).Do(context.Background(), build)
	assert.ErrorIs(t, err, errNoHTTPClient)

	_, err = newResilientClient("test", http.DefaultClient, BackoffConfig{MaxRetries: 2}, nil).Do(context.Background(), build)
	assert.ErrorIs(t, err, errInvalidConfig)
}
