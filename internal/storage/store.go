package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/oscdrift/internal/dynamo"
	"github.com/san-kum/oscdrift/internal/metrics"
	"github.com/san-kum/oscdrift/internal/sim"
)

const (
	metadataFile = "metadata.json"
	driftFile    = "drift.csv"
	seriesDir    = "series"
	indexFile    = "index.db"
)

var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps finished sweeps on disk, one directory per run.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// OpenIndex opens the SQLite drift history that lives next to the runs.
func (s *Store) OpenIndex() (*Index, error) {
	return OpenIndex(filepath.Join(s.baseDir, indexFile))
}

type RunMetadata struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Initial   dynamo.Sample    `json:"initial"`
	Span      dynamo.Span      `json:"span"`
	StepSizes []float64        `json:"step_sizes"`
	Schemes   []dynamo.Scheme  `json:"schemes"`
	Drift     []metrics.Record `json:"drift"`
}

func newRunID(t time.Time) string {
	return fmt.Sprintf("%s_%s", t.Format("20060102-150405"), uuid.NewString()[:8])
}

// Save writes metadata.json, drift.csv and one CSV per series. Files are
// written to a hidden staging directory that is renamed into place only
// once everything is on disk, so a failed save leaves no run behind.
func (s *Store) Save(result *sim.Result, run dynamo.Config, stepSizes []float64) (meta *RunMetadata, err error) {
	if len(stepSizes) == 0 || len(result.Series)%len(stepSizes) != 0 {
		return nil, fmt.Errorf("%d series do not form a sweep over %d step sizes", len(result.Series), len(stepSizes))
	}

	now := s.now()
	meta = &RunMetadata{
		ID:        newRunID(now),
		Timestamp: now,
		Initial:   run.Initial,
		Span:      run.Span,
		StepSizes: stepSizes,
		Schemes:   result.Drift.Schemes(),
		Drift:     result.Drift.Records(),
	}

	stageDir, err := os.MkdirTemp(s.baseDir, ".staging-")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(stageDir)
		}
	}()

	if err := os.Mkdir(filepath.Join(stageDir, seriesDir), 0755); err != nil {
		return nil, err
	}
	if err := writeJSON(filepath.Join(stageDir, metadataFile), meta); err != nil {
		return nil, err
	}
	if err := writeDriftCSV(filepath.Join(stageDir, driftFile), meta.Drift); err != nil {
		return nil, err
	}

	// Series are scheme-major, one per step size in sweep order.
	for i, series := range result.Series {
		idx := i % len(stepSizes)
		if series.StepSize != stepSizes[idx] {
			return nil, fmt.Errorf("series %d (%s) has step size %g, want %g", i, series.Scheme, series.StepSize, stepSizes[idx])
		}
		path := filepath.Join(stageDir, seriesDir, seriesFileName(series.Scheme, idx))
		if err := writeTrajectoryCSV(path, series.Trajectory); err != nil {
			return nil, err
		}
	}

	if err := os.Chmod(stageDir, 0755); err != nil {
		return nil, err
	}
	if err := os.Rename(stageDir, filepath.Join(s.baseDir, meta.ID)); err != nil {
		return nil, err
	}
	return meta, nil
}

// List returns all saved runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}
	return &meta, nil
}

// LoadDrift reads the drift table back from drift.csv.
func (s *Store) LoadDrift(runID string) (*metrics.Table, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, driftFile))
	if err != nil {
		return nil, err
	}

	table := metrics.NewTable()
	for i, rec := range records {
		if i == 0 || len(rec) < 3 {
			continue
		}
		scheme, err := dynamo.ParseScheme(rec[0])
		if err != nil {
			return nil, err
		}
		step, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("drift.csv line %d: %w", i+1, err)
		}
		drift, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("drift.csv line %d: %w", i+1, err)
		}
		table.Add(metrics.Record{Scheme: scheme, StepSize: step, Drift: drift})
	}
	return table, nil
}

// LoadSeries reads back every trajectory of one scheme in sweep order.
func (s *Store) LoadSeries(runID string, scheme dynamo.Scheme) ([]sim.Series, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	out := make([]sim.Series, 0, len(meta.StepSizes))
	for idx, h := range meta.StepSizes {
		path := filepath.Join(s.baseDir, runID, seriesDir, seriesFileName(scheme, idx))
		tr, err := readTrajectoryCSV(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		out = append(out, sim.Series{
			Scheme:     scheme,
			StepSize:   h,
			Label:      dynamo.StepLabel(h),
			Trajectory: tr,
			Drift:      metrics.Drift(tr),
		})
	}
	return out, nil
}

func seriesFileName(scheme dynamo.Scheme, idx int) string {
	return fmt.Sprintf("%s_%d.csv", scheme.Key(), idx)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// closeFile closes f and reports the close error if nothing failed before.
func closeFile(f *os.File, err *error) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

func writeJSON(path string, v any) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeFile(file, &err)

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeDriftCSV(path string, records []metrics.Record) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeFile(file, &err)

	w := csv.NewWriter(file)
	if err := w.Write([]string{"scheme", "step_size", "drift"}); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write([]string{r.Scheme.Key(), formatFloat(r.StepSize), formatFloat(r.Drift)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeTrajectoryCSV(path string, tr *dynamo.Trajectory) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeFile(file, &err)

	w := csv.NewWriter(file)
	if err := w.Write([]string{"time", "position", "velocity"}); err != nil {
		return err
	}
	for i, sample := range tr.Samples {
		row := []string{formatFloat(tr.Times[i]), formatFloat(sample.Position), formatFloat(sample.Velocity)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func readTrajectoryCSV(path string) (*dynamo.Trajectory, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: %w", path, dynamo.ErrEmptyTrajectory)
	}

	var tr *dynamo.Trajectory
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 3 {
			return nil, fmt.Errorf("%s line %d: expected 3 columns, got %d", path, i+1, len(rec))
		}
		vals := make([]float64, 3)
		for j := range vals {
			v, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", path, i+1, err)
			}
			vals[j] = v
		}
		sample := dynamo.Sample{Position: vals[1], Velocity: vals[2]}
		if tr == nil {
			tr = dynamo.NewTrajectory(vals[0], sample, len(records)-1)
			continue
		}
		tr.Append(vals[0], sample)
	}
	return tr, nil
}
