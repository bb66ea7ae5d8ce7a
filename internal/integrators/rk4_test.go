package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/oscdrift/internal/dynamo"
)

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()

	x := dynamo.Sample{Position: 1.0, Velocity: 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(x, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x.Position-expectedX) > 1e-9 {
		t.Errorf("position error too large: got %.12f, expected %.12f", x.Position, expectedX)
	}

	if math.Abs(x.Velocity-expectedV) > 1e-9 {
		t.Errorf("velocity error too large: got %.12f, expected %.12f", x.Velocity, expectedV)
	}
}

func TestRK4_SingleStepStages(t *testing.T) {
	h := 0.2
	x := dynamo.Sample{Position: 0.3, Velocity: -0.7}

	// Taylor expansion of the exact flow to fourth order.
	c := 1 - h*h/2 + h*h*h*h/24
	s := h - h*h*h/6
	wantPos := c*x.Position + s*x.Velocity
	wantVel := -s*x.Position + c*x.Velocity

	got := NewRK4().Step(x, h)
	if math.Abs(got.Position-wantPos) > 1e-14 {
		t.Errorf("position = %.17g, want %.17g", got.Position, wantPos)
	}
	if math.Abs(got.Velocity-wantVel) > 1e-14 {
		t.Errorf("velocity = %.17g, want %.17g", got.Velocity, wantVel)
	}
}
