package integrators

import "github.com/san-kum/oscdrift/internal/dynamo"

// PredictorCorrector takes an Euler step as the predictor and then corrects
// it. The corrected velocity uses the already-corrected position, so the
// corrector is sequential rather than a symmetric trapezoidal rule.
type PredictorCorrector struct {
	predictor Euler
}

func NewPredictorCorrector() *PredictorCorrector {
	return &PredictorCorrector{}
}

func (p *PredictorCorrector) Scheme() dynamo.Scheme { return dynamo.PredictorCorrector }

func (p *PredictorCorrector) Step(x dynamo.Sample, h float64) dynamo.Sample {
	guess := p.predictor.Step(x, h)
	return p.correct(x, guess, h)
}

func (p *PredictorCorrector) correct(x, guess dynamo.Sample, h float64) dynamo.Sample {
	pos := x.Position + (x.Velocity+guess.Velocity)*h/2
	// must see the corrected position
	vel := x.Velocity - (x.Position+pos)*h/2
	return dynamo.Sample{Position: pos, Velocity: vel}
}
