package scheduler

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-panel/internal/metrics"
)

// Pruner is the part of the session store the sweeper needs.
type Pruner interface {
	Prune() int
	Len() int
}

// Scheduler periodically evicts idle panel sessions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	store     Pruner
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(store Pruner, interval time.Duration, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: s,
		store:     store,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the sweep job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(s.sweep)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) sweep() {
	n := s.store.Prune()
	live := s.store.Len()
	metrics.ActiveSessions.Set(float64(live))
	if n > 0 {
		s.logger.Info("evicted idle sessions", "evicted", n, "live", live)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
