package sim

import (
	"github.com/san-kum/oscdrift/internal/dynamo"
)

// Simulator drives one integrator over a time span.
type Simulator struct {
	integrator dynamo.Integrator
	observers  []Observer
}

func New(integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		integrator: integrator,
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Scheme() dynamo.Scheme { return s.integrator.Scheme() }

// Run integrates from cfg.Initial at cfg.Span.Start with fixed step h.
//
// The loop checks t <= cfg.Span.End before every step and accumulates t by
// repeated addition, so the final sample may lie up to one step past the
// end of the span. The number of samples therefore depends on how t rounds,
// and the last sample is the one used for drift.
func (s *Simulator) Run(h float64, cfg dynamo.Config) (*dynamo.Trajectory, error) {
	if err := cfg.Validate(h); err != nil {
		return nil, &dynamo.RunError{Scheme: s.integrator.Scheme(), StepSize: h, Wrapped: err}
	}

	tr := dynamo.NewTrajectory(cfg.Span.Start, cfg.Initial, expectedSamples(h, cfg.Span))

	x := cfg.Initial
	t := cfg.Span.Start
	for _, obs := range s.observers {
		obs.OnStep(x, t)
	}

	for t <= cfg.Span.End {
		x = s.integrator.Step(x, h)
		t += h
		tr.Append(t, x)

		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}
	}

	return tr, nil
}

// Run is shorthand for New(integrator).Run(h, cfg).
func Run(integrator dynamo.Integrator, h float64, cfg dynamo.Config) (*dynamo.Trajectory, error) {
	return New(integrator).Run(h, cfg)
}

func expectedSamples(h float64, span dynamo.Span) int {
	n := span.Length()/h + 2
	if n > 1<<24 {
		return 1 << 24
	}
	return int(n)
}
