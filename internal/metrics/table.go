package metrics

import "github.com/san-kum/oscdrift/internal/dynamo"

// Record is the relative energy drift of one (scheme, step size) run.
type Record struct {
	Scheme   dynamo.Scheme `json:"scheme"`
	StepSize float64       `json:"step_size"`
	Drift    float64       `json:"drift"`
}

// Table groups drift records by scheme. Within a scheme, records keep the
// order in which they were added, which is the step-size sweep order.
// A Table is not safe for concurrent use; collect results first and add
// them from one goroutine.
type Table struct {
	order []dynamo.Scheme
	rows  map[dynamo.Scheme][]Record
}

func NewTable() *Table {
	return &Table{rows: make(map[dynamo.Scheme][]Record)}
}

func (t *Table) Add(r Record) {
	if _, ok := t.rows[r.Scheme]; !ok {
		t.order = append(t.order, r.Scheme)
	}
	t.rows[r.Scheme] = append(t.rows[r.Scheme], r)
}

// Schemes returns the schemes in the order they were first added.
func (t *Table) Schemes() []dynamo.Scheme {
	out := make([]dynamo.Scheme, len(t.order))
	copy(out, t.order)
	return out
}

// Series returns step sizes and drifts for a scheme in sweep order.
func (t *Table) Series(s dynamo.Scheme) (steps, drifts []float64) {
	rows := t.rows[s]
	steps = make([]float64, len(rows))
	drifts = make([]float64, len(rows))
	for i, r := range rows {
		steps[i] = r.StepSize
		drifts[i] = r.Drift
	}
	return steps, drifts
}

// Lookup returns the drift for a scheme at a step size.
func (t *Table) Lookup(s dynamo.Scheme, stepSize float64) (float64, bool) {
	for _, r := range t.rows[s] {
		if r.StepSize == stepSize {
			return r.Drift, true
		}
	}
	return 0, false
}

// Records flattens the table in scheme-major, sweep order.
func (t *Table) Records() []Record {
	out := make([]Record, 0, t.Len())
	for _, s := range t.order {
		out = append(out, t.rows[s]...)
	}
	return out
}

func (t *Table) Len() int {
	n := 0
	for _, rows := range t.rows {
		n += len(rows)
	}
	return n
}

// TableFromRecords rebuilds a table from flattened records.
func TableFromRecords(records []Record) *Table {
	t := NewTable()
	for _, r := range records {
		t.Add(r)
	}
	return t
}
