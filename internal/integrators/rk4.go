package integrators

import "github.com/san-kum/oscdrift/internal/dynamo"

// RK4 is the classical four-stage Runge-Kutta scheme specialised to
// x' = v, v' = -x.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Scheme() dynamo.Scheme { return dynamo.RungeKutta4 }

func (r *RK4) Step(x dynamo.Sample, h float64) dynamo.Sample {
	x1, v1 := x.Position, x.Velocity
	a1 := -x1

	x2 := x1 + h*v1/2
	v2 := v1 + h*a1/2
	a2 := -x2

	x3 := x1 + h*v2/2
	v3 := v1 + h*a2/2
	a3 := -x3

	x4 := x1 + h*v3
	v4 := v1 + h*a3
	a4 := -x4

	return dynamo.Sample{
		Position: x1 + h*(v1+2*v2+2*v3+v4)/6,
		Velocity: v1 + h*(a1+2*a2+2*a3+a4)/6,
	}
}
