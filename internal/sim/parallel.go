package sim

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/oscdrift/internal/dynamo"
	"github.com/san-kum/oscdrift/internal/metrics"
)

type job struct {
	integrator dynamo.Integrator
	stepSize   float64
}

// Sweep runs every integrator at every step size and aggregates the drift.
//
// Runs are independent. With cfg.Parallel they execute on a bounded
// errgroup; each run writes only its own slot, and the drift table is built
// afterwards in the same order a sequential sweep would use. ctx is checked
// between runs only.
func Sweep(ctx context.Context, integs []dynamo.Integrator, cfg SweepConfig) (*Result, error) {
	if len(cfg.StepSizes) == 0 {
		return nil, fmt.Errorf("%w: no step sizes configured", dynamo.ErrInvalidStep)
	}
	seen := make(map[float64]bool, len(cfg.StepSizes))
	for _, h := range cfg.StepSizes {
		if err := cfg.Run.Validate(h); err != nil {
			return nil, err
		}
		if seen[h] {
			return nil, fmt.Errorf("%w: duplicate step size %g", dynamo.ErrInvalidStep, h)
		}
		seen[h] = true
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	jobs := make([]job, 0, len(integs)*len(cfg.StepSizes))
	for _, integ := range integs {
		for _, h := range cfg.StepSizes {
			jobs = append(jobs, job{integrator: integ, stepSize: h})
		}
	}

	slots := make([]Series, len(jobs))
	runOne := func(i int) error {
		j := jobs[i]
		tr, err := Run(j.integrator, j.stepSize, cfg.Run)
		if err != nil {
			return err
		}
		slots[i] = Series{
			Scheme:     j.integrator.Scheme(),
			StepSize:   j.stepSize,
			Label:      dynamo.StepLabel(j.stepSize),
			Trajectory: tr,
			Drift:      metrics.Drift(tr),
		}
		logger.Debug("run complete",
			"scheme", slots[i].Scheme,
			"step", slots[i].Label,
			"samples", tr.Len(),
			"drift", slots[i].Drift)
		return nil
	}

	if cfg.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workerCount(cfg.Workers))
		for i := range jobs {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return runOne(i)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range jobs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := runOne(i); err != nil {
				return nil, err
			}
		}
	}

	table := metrics.NewTable()
	for _, s := range slots {
		table.Add(metrics.Record{Scheme: s.Scheme, StepSize: s.StepSize, Drift: s.Drift})
	}

	logger.Info("sweep complete", "schemes", len(integs), "step_sizes", len(cfg.StepSizes), "parallel", cfg.Parallel)
	return &Result{Series: slots, Drift: table}, nil
}

func workerCount(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}
