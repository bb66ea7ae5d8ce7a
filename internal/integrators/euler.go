package integrators

import "github.com/san-kum/oscdrift/internal/dynamo"

// Euler is the explicit forward Euler scheme. Both updates read only the
// pre-step values, which is why its energy grows secularly.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Scheme() dynamo.Scheme { return dynamo.Euler }

func (e *Euler) Step(x dynamo.Sample, h float64) dynamo.Sample {
	return dynamo.Sample{
		Position: x.Position + x.Velocity*h,
		Velocity: x.Velocity - x.Position*h,
	}
}
