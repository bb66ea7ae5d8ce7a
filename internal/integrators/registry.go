package integrators

import (
	"fmt"

	"github.com/san-kum/oscdrift/internal/dynamo"
)

// New returns the integrator for a scheme.
func New(s dynamo.Scheme) (dynamo.Integrator, error) {
	switch s {
	case dynamo.Euler:
		return NewEuler(), nil
	case dynamo.PredictorCorrector:
		return NewPredictorCorrector(), nil
	case dynamo.RungeKutta4:
		return NewRK4(), nil
	case dynamo.Midpoint:
		return NewMidpoint(), nil
	default:
		return nil, fmt.Errorf("%w: %d", dynamo.ErrUnknownScheme, int(s))
	}
}

// Lookup resolves an integrator by scheme name or alias.
func Lookup(name string) (dynamo.Integrator, error) {
	s, err := dynamo.ParseScheme(name)
	if err != nil {
		return nil, err
	}
	return New(s)
}

// All returns one integrator per scheme in canonical order.
func All() []dynamo.Integrator {
	out := make([]dynamo.Integrator, 0, len(dynamo.Schemes))
	for _, s := range dynamo.Schemes {
		integ, _ := New(s)
		out = append(out, integ)
	}
	return out
}

// ForSchemes builds integrators for the given schemes, preserving order.
func ForSchemes(schemes []dynamo.Scheme) ([]dynamo.Integrator, error) {
	out := make([]dynamo.Integrator, 0, len(schemes))
	for _, s := range schemes {
		integ, err := New(s)
		if err != nil {
			return nil, err
		}
		out = append(out, integ)
	}
	return out, nil
}
