package weather

// State is the panel's state machine position. The set of implementations is
// closed: Idle, Loading, Loaded and Failed.
type State interface {
	Phase() Phase
	state()
}

// Phase names a State for rendering and JSON output.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseFailed  Phase = "failed"
)

// Idle means no data and no error.
type Idle struct{}

// Loading means a search for City is in flight.
type Loading struct {
	City  string
	Units Units
}

// Loaded holds the result of the last successful search. Snapshot and
// Forecast were fetched with the same Units.
type Loaded struct {
	Snapshot Snapshot
	Forecast []ForecastEntry
}

// Failed holds the message of the last failed primary fetch.
type Failed struct {
	Message string
	Kind    ErrorKind
}

func (Idle) Phase() Phase    { return PhaseIdle }
func (Loading) Phase() Phase { return PhaseLoading }
func (Loaded) Phase() Phase  { return PhaseLoaded }
func (Failed) Phase() Phase  { return PhaseFailed }

func (Idle) state()    {}
func (Loading) state() {}
func (Loaded) state()  {}
func (Failed) state()  {}

// View is a point-in-time copy of a Panel, safe to hand to renderers.
type View struct {
	State    State  `json:"-"`
	Query    string `json:"query"`
	Units    Units  `json:"units"`
	Location string `json:"location,omitempty"`
}

// Loading reports whether a search is in flight.
func (v View) Loading() bool {
	return v.State.Phase() == PhaseLoading
}

// Snapshot returns the current snapshot, if the view is Loaded.
func (v View) Snapshot() (Snapshot, bool) {
	l, ok := v.State.(Loaded)
	return l.Snapshot, ok
}

// Forecast returns the reduced forecast, empty unless Loaded.
func (v View) Forecast() []ForecastEntry {
	if l, ok := v.State.(Loaded); ok {
		return l.Forecast
	}
	return nil
}

// Error returns the error message, empty unless Failed.
func (v View) Error() string {
	if f, ok := v.State.(Failed); ok {
		return f.Message
	}
	return ""
}

// Condition returns the theme token for the view; ConditionUnknown without data.
func (v View) Condition() Condition {
	if s, ok := v.Snapshot(); ok {
		return ClassifyCondition(s.Condition)
	}
	return ConditionUnknown
}
