package weather

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Panel is the weather lookup component: a query box, a fetch orchestrator and
// the view model the renderer reads. One Panel serves one user session.
//
// Every search takes a new request token and cancels the previous one's
// context. Only the newest token may write state, so overlapping searches can
// never overwrite each other out of order.
type Panel struct {
	provider Provider
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	query    string
	units    Units
	location string
	state    State

	// prev and prevUnits are restored if the in-flight search is cancelled.
	prev      State
	prevUnits Units

	// forecast survives a failed forecast call as long as units still match.
	forecast      []ForecastEntry
	forecastUnits Units

	seq     uint64
	cancel  context.CancelFunc
	started bool
}

// Option configures a Panel.
type Option func(*Panel)

// WithLogger sets the panel logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Panel) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock overrides the clock used for Snapshot.ObservedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Panel) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPanel creates an Idle panel using the given provider and initial units.
func NewPanel(provider Provider, units Units, opts ...Option) *Panel {
	if units != Imperial {
		units = Metric
	}
	p := &Panel{
		provider:  provider,
		logger:    slog.Default(),
		now:       time.Now,
		units:     units,
		state:     Idle{},
		prev:      Idle{},
		prevUnits: units,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetQuery replaces the pending query string.
func (p *Panel) SetQuery(q string) {
	p.mu.Lock()
	p.query = q
	p.mu.Unlock()
}

// Submit searches for the pending query with the current units.
// An empty or whitespace-only query is ignored.
func (p *Panel) Submit(ctx context.Context) error {
	p.mu.Lock()
	q, u := p.query, p.units
	p.mu.Unlock()
	return p.Search(ctx, q, u)
}

// Start runs the one automatic search a panel performs when it is created.
// Calls after the first are no-ops.
func (p *Panel) Start(ctx context.Context, defaultCity string) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return nil
	}
	p.started = true
	u := p.units
	p.mu.Unlock()
	return p.Search(ctx, defaultCity, u)
}

// ToggleUnits flips the unit system and, if a location is known, searches it
// again with the new units.
func (p *Panel) ToggleUnits(ctx context.Context) error {
	p.mu.Lock()
	loc, u := p.location, p.units.Toggle()
	if loc == "" {
		p.units = u
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	// Search switches the units itself so a Cancel can switch them back.
	return p.Search(ctx, loc, u)
}

// Cancel aborts the in-flight search, if any, and restores the state that
// preceded it.
func (p *Panel) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel == nil {
		return
	}
	p.cancel()
	p.cancel = nil
	p.seq++
	p.state = p.prev
	p.units = p.prevUnits
}

// Search fetches current conditions and then the forecast for city.
//
// A failed current-conditions call moves the panel to Failed and returns the
// *ProviderError or *TransportError. A failed forecast call is logged and
// keeps the previous forecast. ErrSuperseded is returned when a newer search
// or Cancel replaced this one; it has then written nothing.
func (p *Panel) Search(ctx context.Context, city string, units Units) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil
	}

	ctx, token := p.begin(ctx, city, units)
	defer p.finish(token)

	snap, err := p.provider.Current(ctx, city, units)
	if err != nil {
		if !p.fail(token, err) {
			return ErrSuperseded
		}
		p.logger.Info("search failed", "city", city, "units", units, "error", err)
		return err
	}
	snap.Units = units
	snap.ObservedAt = p.now()

	if !p.current(token) {
		return ErrSuperseded
	}

	var forecast []ForecastEntry
	samples, ferr := p.provider.Forecast(ctx, city, units)
	if ferr == nil {
		forecast = ReduceForecast(samples)
	}

	if !p.commit(token, city, snap, forecast, ferr) {
		return ErrSuperseded
	}
	if ferr != nil {
		p.logger.Warn("forecast fetch failed; keeping previous forecast", "city", city, "units", units, "error", ferr)
	}
	p.logger.Debug("search completed", "city", city, "units", units, "forecast_days", len(forecast))
	return nil
}

// View returns a copy of the panel's current view model.
func (p *Panel) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return View{
		State:    p.state,
		Query:    p.query,
		Units:    p.units,
		Location: p.location,
	}
}

// Loading reports whether a search is in flight.
func (p *Panel) Loading() bool {
	return p.View().Loading()
}

func (p *Panel) begin(parent context.Context, city string, units Units) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
	if _, loading := p.state.(Loading); !loading {
		p.prev = p.state
		p.prevUnits = p.units
	}
	p.seq++
	p.cancel = cancel
	p.units = units
	p.state = Loading{City: city, Units: units}
	p.logger.Debug("search started", "city", city, "units", units, "token", p.seq)
	return ctx, p.seq
}

// finish guarantees the panel never stays Loading once the newest search has
// returned, whichever path it took.
func (p *Panel) finish(token uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if token != p.seq {
		return
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if _, loading := p.state.(Loading); loading {
		p.state = Failed{Message: TransportMessage, Kind: KindTransport}
		p.forecast = nil
	}
}

func (p *Panel) fail(token uint64, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if token != p.seq {
		return false
	}
	p.state = failureOf(err)
	p.forecast = nil
	return true
}

func (p *Panel) current(token uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return token == p.seq
}

// commit publishes a successful search. The query, location and state change
// together so a Cancel before this point leaves all of them untouched.
func (p *Panel) commit(token uint64, city string, snap Snapshot, forecast []ForecastEntry, ferr error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if token != p.seq {
		return false
	}
	p.query = ""
	p.location = city
	if ferr != nil {
		if p.forecastUnits == snap.Units {
			forecast = p.forecast
		} else {
			forecast = nil
		}
	}
	p.forecast = forecast
	p.forecastUnits = snap.Units
	p.state = Loaded{Snapshot: snap, Forecast: forecast}
	return true
}
