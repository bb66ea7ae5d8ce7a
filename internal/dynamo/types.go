package dynamo

import (
	"fmt"
	"math"
	"strings"
)

// Sample is the oscillator's phase at one instant.
type Sample struct {
	Position float64
	Velocity float64
}

// Energy returns 0.5*x^2 + 0.5*v^2 for the unit-mass, unit-stiffness oscillator.
func Energy(position, velocity float64) float64 {
	return 0.5*position*position + 0.5*velocity*velocity
}

func (s Sample) Energy() float64 {
	return Energy(s.Position, s.Velocity)
}

func (s Sample) IsValid() bool {
	return isFinite(s.Position) && isFinite(s.Velocity)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Trajectory holds the samples of one (scheme, step size) run.
// Times[i] is the elapsed time at which Samples[i] was produced.
type Trajectory struct {
	Times   []float64
	Samples []Sample
}

// NewTrajectory starts a trajectory at the initial condition. capacity is a
// hint for the expected number of samples.
func NewTrajectory(t0 float64, initial Sample, capacity int) *Trajectory {
	if capacity < 1 {
		capacity = 1
	}
	tr := &Trajectory{
		Times:   make([]float64, 0, capacity),
		Samples: make([]Sample, 0, capacity),
	}
	tr.Times = append(tr.Times, t0)
	tr.Samples = append(tr.Samples, initial)
	return tr
}

func (tr *Trajectory) Append(t float64, s Sample) {
	tr.Times = append(tr.Times, t)
	tr.Samples = append(tr.Samples, s)
}

func (tr *Trajectory) Len() int { return len(tr.Samples) }

func (tr *Trajectory) First() Sample { return tr.Samples[0] }

func (tr *Trajectory) Last() Sample { return tr.Samples[len(tr.Samples)-1] }

// EndTime returns the elapsed time of the last sample.
func (tr *Trajectory) EndTime() float64 { return tr.Times[len(tr.Times)-1] }

func (tr *Trajectory) Positions() []float64 {
	out := make([]float64, len(tr.Samples))
	for i, s := range tr.Samples {
		out[i] = s.Position
	}
	return out
}

func (tr *Trajectory) Velocities() []float64 {
	out := make([]float64, len(tr.Samples))
	for i, s := range tr.Samples {
		out[i] = s.Velocity
	}
	return out
}

// Scheme identifies a fixed-step integration scheme.
type Scheme int

const (
	Euler Scheme = iota
	PredictorCorrector
	RungeKutta4
	Midpoint
)

// Schemes lists every scheme in canonical order.
var Schemes = []Scheme{Euler, PredictorCorrector, RungeKutta4, Midpoint}

func (s Scheme) String() string {
	switch s {
	case Euler:
		return "Euler"
	case PredictorCorrector:
		return "Predictor-Corrector"
	case RungeKutta4:
		return "Runge-Kutta"
	case Midpoint:
		return "Midpoint"
	default:
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
}

// Key is the short machine name used in config files, flags and file names.
func (s Scheme) Key() string {
	switch s {
	case Euler:
		return "euler"
	case PredictorCorrector:
		return "pc"
	case RungeKutta4:
		return "rk4"
	case Midpoint:
		return "midpoint"
	default:
		return fmt.Sprintf("scheme%d", int(s))
	}
}

// Order is the global truncation order of the scheme.
func (s Scheme) Order() int {
	switch s {
	case Euler:
		return 1
	case PredictorCorrector, Midpoint:
		return 2
	case RungeKutta4:
		return 4
	default:
		return 0
	}
}

func (s Scheme) Valid() bool {
	return s >= Euler && s <= Midpoint
}

var schemeAliases = map[string]Scheme{
	"euler":               Euler,
	"pc":                  PredictorCorrector,
	"predictor-corrector": PredictorCorrector,
	"predictor_corrector": PredictorCorrector,
	"rk4":                 RungeKutta4,
	"runge-kutta":         RungeKutta4,
	"runge_kutta":         RungeKutta4,
	"midpoint":            Midpoint,
}

// ParseScheme resolves a scheme by key or alias, case-insensitively.
func ParseScheme(name string) (Scheme, error) {
	s, ok := schemeAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
	return s, nil
}

func (s Scheme) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownScheme, int(s))
	}
	return []byte(s.Key()), nil
}

func (s *Scheme) UnmarshalText(text []byte) error {
	parsed, err := ParseScheme(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Integrator advances a sample by one fixed step h. Implementations are
// pure: the result depends only on x and h.
type Integrator interface {
	Step(x Sample, h float64) Sample
	Scheme() Scheme
}

// Span is the closed time interval a run covers.
type Span struct {
	Start float64
	End   float64
}

func (s Span) Length() float64 { return s.End - s.Start }

// Config describes a single run apart from its scheme and step size.
type Config struct {
	Initial Sample
	Span    Span
}

// DefaultConfig returns the reference run: (x, v) = (0, 1) over [0, 4π].
func DefaultConfig() Config {
	return Config{
		Initial: Sample{Position: 0.0, Velocity: 1.0},
		Span:    Span{Start: 0, End: 4 * math.Pi},
	}
}

// Validate checks the run preconditions for step size h.
func (c Config) Validate(h float64) error {
	if !(h > 0) || !isFinite(h) {
		return fmt.Errorf("%w: got %g", ErrInvalidStep, h)
	}
	if !isFinite(c.Span.Start) || !isFinite(c.Span.End) || c.Span.End < c.Span.Start {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidSpan, c.Span.Start, c.Span.End)
	}
	// t += h must advance the clock everywhere in the span.
	if c.Span.Start+h == c.Span.Start || c.Span.End+h == c.Span.End {
		return fmt.Errorf("%w: step %g is below the time resolution of [%g, %g]", ErrInvalidSpan, h, c.Span.Start, c.Span.End)
	}
	if !c.Initial.IsValid() {
		return fmt.Errorf("%w: initial condition %+v", ErrInvalidState, c.Initial)
	}
	if c.Initial.Energy() == 0 {
		return ErrZeroEnergy
	}
	return nil
}

// PiMultiple expresses h as a multiple of π rounded to six significant digits.
func PiMultiple(h float64) string {
	return fmt.Sprintf("%.6g", h/math.Pi)
}

// StepLabel is the series label for a step size, e.g. "time step: 0.1π".
func StepLabel(h float64) string {
	return "time step: " + PiMultiple(h) + "π"
}
