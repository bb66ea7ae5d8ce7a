package integrators

import "github.com/san-kum/oscdrift/internal/dynamo"

// Midpoint is the explicit midpoint (RK2) scheme: a half step with the
// current acceleration, then a full step from the starting state using the
// midpoint velocity and acceleration.
type Midpoint struct{}

func NewMidpoint() *Midpoint {
	return &Midpoint{}
}

func (m *Midpoint) Scheme() dynamo.Scheme { return dynamo.Midpoint }

func (m *Midpoint) Step(x dynamo.Sample, h float64) dynamo.Sample {
	acc := -x.Position
	midPos := x.Position + x.Velocity*h/2
	midVel := x.Velocity + acc*h/2
	midAcc := -midPos

	return dynamo.Sample{
		Position: x.Position + midVel*h,
		Velocity: x.Velocity + midAcc*h,
	}
}
