package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-panel/internal/metrics"
)

type fakePruner struct {
	pruned atomic.Int32
	live   int
}

func (f *fakePruner) Prune() int {
	f.pruned.Add(1)
	return 2
}

func (f *fakePruner) Len() int { return f.live }

func TestScheduler_SweepsPeriodically(t *testing.T) {
	p := &fakePruner{live: 3}
	s := New(p, 50*time.Millisecond, nil)
	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool { return p.pruned.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.ActiveSessions))
}

func TestScheduler_Stop(t *testing.T) {
	p := &fakePruner{}
	s := New(p, time.Hour, nil)
	require.NoError(t, s.Start())
	s.Stop()

	n := p.pruned.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, p.pruned.Load())
}
