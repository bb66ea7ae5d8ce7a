package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/oscdrift/internal/dynamo"
	"github.com/san-kum/oscdrift/internal/integrators"
)

func TestSimulatorRun_SampleCount(t *testing.T) {
	cfg := dynamo.DefaultConfig()

	tests := []struct {
		h    float64
		want int
	}{
		{0.1 * math.Pi, 42},
		{0.01 * math.Pi, 402},
		{0.001 * math.Pi, 4002},
	}

	for _, integ := range integrators.All() {
		for _, tt := range tests {
			tr, err := Run(integ, tt.h, cfg)
			if err != nil {
				t.Fatalf("%v h=%v: %v", integ.Scheme(), tt.h, err)
			}
			if tr.Len() != tt.want {
				t.Errorf("%v h=%v: expected %d samples, got %d", integ.Scheme(), tt.h, tt.want, tr.Len())
			}
			if len(tr.Times) != len(tr.Samples) {
				t.Errorf("times/samples length mismatch: %d vs %d", len(tr.Times), len(tr.Samples))
			}
		}
	}
}

func TestSimulatorRun_InclusiveOvershoot(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	h := 0.1 * math.Pi

	tr, err := Run(integrators.NewEuler(), h, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	n := len(tr.Times)
	if tr.Times[n-1] <= cfg.Span.End {
		t.Errorf("last time %v should be past the end %v", tr.Times[n-1], cfg.Span.End)
	}
	if tr.Times[n-2] > cfg.Span.End {
		t.Errorf("second to last time %v should not be past the end %v", tr.Times[n-2], cfg.Span.End)
	}
	if tr.Times[n-1]-cfg.Span.End > h {
		t.Errorf("overshoot %v exceeds one step", tr.Times[n-1]-cfg.Span.End)
	}
}

func TestSimulatorRun_TrajectoryInvariants(t *testing.T) {
	cfg := dynamo.DefaultConfig()

	for _, integ := range integrators.All() {
		tr, err := Run(integ, 0.01*math.Pi, cfg)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if tr.First() != cfg.Initial {
			t.Errorf("%v: first sample %+v, want %+v", integ.Scheme(), tr.First(), cfg.Initial)
		}
		if tr.Times[0] != 0 {
			t.Errorf("%v: first time %v, want 0", integ.Scheme(), tr.Times[0])
		}
		if tr.First().Energy() != 0.5 {
			t.Errorf("%v: initial energy %v, want 0.5", integ.Scheme(), tr.First().Energy())
		}
		for i := 1; i < len(tr.Times); i++ {
			if tr.Times[i] <= tr.Times[i-1] {
				t.Fatalf("%v: times not strictly increasing at %d", integ.Scheme(), i)
			}
		}
	}
}

func TestSimulatorRun_AccumulatesTime(t *testing.T) {
	h := 0.1 * math.Pi
	tr, err := Run(integrators.NewMidpoint(), h, dynamo.DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := 0.0
	for i, got := range tr.Times {
		if got != want {
			t.Fatalf("times[%d] = %v, want %v", i, got, want)
		}
		want += h
	}
}

func TestSimulatorRun_EulerGolden(t *testing.T) {
	tr, err := Run(integrators.NewEuler(), 0.1*math.Pi, dynamo.DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// Pinned from the closed-form recurrence applied 41 times.
	const (
		wantX    = -0.5924781563018986
		wantV    = 6.860829644236003
		wantT    = 12.880529879718152
		wantDrft = 46.42201377292242
	)

	last := tr.Last()
	if math.Abs(last.Position-wantX) > 1e-12 {
		t.Errorf("final position = %.17g, want %.17g", last.Position, wantX)
	}
	if math.Abs(last.Velocity-wantV) > 1e-12 {
		t.Errorf("final velocity = %.17g, want %.17g", last.Velocity, wantV)
	}
	if tr.EndTime() != wantT {
		t.Errorf("final time = %.17g, want %.17g", tr.EndTime(), wantT)
	}

	h := 0.1 * math.Pi
	x := dynamo.Sample{Position: 0, Velocity: 1}
	for i := 0; i < 41; i++ {
		x = dynamo.Sample{Position: x.Position + x.Velocity*h, Velocity: x.Velocity - x.Position*h}
	}
	if x != last {
		t.Errorf("recurrence %+v differs from run %+v", x, last)
	}
	if e := last.Energy(); math.Abs((e-0.5)/0.5-wantDrft) > 1e-9 {
		t.Errorf("drift = %v, want %v", (e-0.5)/0.5, wantDrft)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	integ := integrators.NewRK4()
	good := dynamo.DefaultConfig()

	tests := []struct {
		name string
		h    float64
		cfg  dynamo.Config
		want error
	}{
		{"zero dt", 0, good, dynamo.ErrInvalidStep},
		{"negative dt", -0.1, good, dynamo.ErrInvalidStep},
		{"reversed span", 0.1, dynamo.Config{Initial: good.Initial, Span: dynamo.Span{Start: 1, End: 0}}, dynamo.ErrInvalidSpan},
		{"zero energy", 0.1, dynamo.Config{Span: good.Span}, dynamo.ErrZeroEnergy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(integ, tt.h, tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var runErr *dynamo.RunError
			if !errors.As(err, &runErr) {
				t.Fatalf("expected *dynamo.RunError, got %T", err)
			}
			if runErr.Scheme != dynamo.RungeKutta4 {
				t.Errorf("RunError scheme = %v", runErr.Scheme)
			}
		})
	}
}

type countingObserver struct {
	count int
	lastT float64
}

func (c *countingObserver) OnStep(x dynamo.Sample, t float64) {
	c.count++
	c.lastT = t
}

func TestSimulatorObservers(t *testing.T) {
	s := New(integrators.NewPredictorCorrector())
	obs := &countingObserver{}
	s.AddObserver(obs)

	tr, err := s.Run(0.1*math.Pi, dynamo.DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if obs.count != tr.Len() {
		t.Errorf("observer saw %d samples, trajectory has %d", obs.count, tr.Len())
	}
	if obs.lastT != tr.EndTime() {
		t.Errorf("observer last time %v, want %v", obs.lastT, tr.EndTime())
	}
}

func TestSweep_SequentialMatchesParallel(t *testing.T) {
	cfg := SweepConfig{
		Run:       dynamo.DefaultConfig(),
		StepSizes: []float64{0.1 * math.Pi, 0.01 * math.Pi},
	}

	seq, err := Sweep(context.Background(), integrators.All(), cfg)
	if err != nil {
		t.Fatalf("sequential sweep: %v", err)
	}

	cfg.Parallel = true
	cfg.Workers = 3
	par, err := Sweep(context.Background(), integrators.All(), cfg)
	if err != nil {
		t.Fatalf("parallel sweep: %v", err)
	}

	if len(seq.Series) != 8 || len(par.Series) != 8 {
		t.Fatalf("expected 8 series, got %d and %d", len(seq.Series), len(par.Series))
	}
	for i := range seq.Series {
		a, b := seq.Series[i], par.Series[i]
		if a.Scheme != b.Scheme || a.StepSize != b.StepSize || a.Drift != b.Drift {
			t.Errorf("series %d differs: %v/%v/%v vs %v/%v/%v", i, a.Scheme, a.StepSize, a.Drift, b.Scheme, b.StepSize, b.Drift)
		}
		if a.Trajectory.Last() != b.Trajectory.Last() {
			t.Errorf("series %d final sample differs", i)
		}
	}

	seqRecords := seq.Drift.Records()
	parRecords := par.Drift.Records()
	for i := range seqRecords {
		if seqRecords[i] != parRecords[i] {
			t.Errorf("record %d differs: %+v vs %+v", i, seqRecords[i], parRecords[i])
		}
	}
}

func TestSweep_OrderAndLabels(t *testing.T) {
	steps := []float64{0.1 * math.Pi, 0.01 * math.Pi}
	res, err := Sweep(context.Background(), integrators.All(), SweepConfig{Run: dynamo.DefaultConfig(), StepSizes: steps})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}

	i := 0
	for _, scheme := range dynamo.Schemes {
		for _, h := range steps {
			s := res.Series[i]
			if s.Scheme != scheme || s.StepSize != h {
				t.Errorf("series %d = (%v, %v), want (%v, %v)", i, s.Scheme, s.StepSize, scheme, h)
			}
			if s.Label != dynamo.StepLabel(h) {
				t.Errorf("series %d label %q", i, s.Label)
			}
			if len(s.Times()) != len(s.Positions()) {
				t.Errorf("series %d export lengths differ", i)
			}
			i++
		}
	}

	mid := res.SeriesFor(dynamo.Midpoint)
	if len(mid) != 2 || mid[0].StepSize != steps[0] {
		t.Errorf("SeriesFor(Midpoint) = %d series", len(mid))
	}

	if got := res.Drift.Schemes(); len(got) != 4 || got[0] != dynamo.Euler || got[3] != dynamo.Midpoint {
		t.Errorf("drift table schemes = %v", got)
	}
}

func TestSeries_ExportsAreCopies(t *testing.T) {
	tr, err := Run(integrators.NewRK4(), 0.1*math.Pi, dynamo.DefaultConfig())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	s := Series{Scheme: dynamo.RungeKutta4, StepSize: 0.1 * math.Pi, Trajectory: tr}

	times := s.Times()
	times[0] = 99
	positions := s.Positions()
	positions[0] = 99

	if tr.Times[0] != 0 {
		t.Errorf("Times() aliases the trajectory: Times[0] = %v", tr.Times[0])
	}
	if tr.Samples[0].Position != 0 {
		t.Errorf("Positions() aliases the trajectory: Position = %v", tr.Samples[0].Position)
	}
}

func TestSweep_Errors(t *testing.T) {
	_, err := Sweep(context.Background(), integrators.All(), SweepConfig{Run: dynamo.DefaultConfig()})
	if !errors.Is(err, dynamo.ErrInvalidStep) {
		t.Errorf("empty sweep: expected ErrInvalidStep, got %v", err)
	}

	_, err = Sweep(context.Background(), integrators.All(), SweepConfig{
		Run:       dynamo.DefaultConfig(),
		StepSizes: []float64{0.1, -0.1},
	})
	if !errors.Is(err, dynamo.ErrInvalidStep) {
		t.Errorf("negative step: expected ErrInvalidStep, got %v", err)
	}

	_, err = Sweep(context.Background(), integrators.All(), SweepConfig{
		Run:       dynamo.DefaultConfig(),
		StepSizes: []float64{0.1 * math.Pi, 0.01 * math.Pi, 0.1 * math.Pi},
	})
	if !errors.Is(err, dynamo.ErrInvalidStep) {
		t.Errorf("duplicate step: expected ErrInvalidStep, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Sweep(ctx, integrators.All(), SweepConfig{Run: dynamo.DefaultConfig(), StepSizes: []float64{0.1}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("canceled sweep: expected context.Canceled, got %v", err)
	}

	_, err = Sweep(ctx, integrators.All(), SweepConfig{Run: dynamo.DefaultConfig(), StepSizes: []float64{0.1}, Parallel: true})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("canceled parallel sweep: expected context.Canceled, got %v", err)
	}
}
