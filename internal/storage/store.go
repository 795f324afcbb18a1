package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/chaosdp/internal/experiment"
)

// Store keeps headless runs on disk, one directory per run holding
// metadata.json and samples.csv.
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

type RunMetadata struct {
	ID         string             `json:"id"`
	Command    string             `json:"command"`
	Timestamp  time.Time          `json:"timestamp"`
	Preset     string             `json:"preset,omitempty"`
	Mode       string             `json:"mode"`
	Population string             `json:"population"`
	FPS        int                `json:"fps"`
	Duration   float64            `json:"duration"`
	FixedStep  float64            `json:"fixed_step"`
	Frames     int                `json:"frames"`
	Steps      int                `json:"steps"`
	Metrics    map[string]float64 `json:"metrics"`
}

var sampleHeader = []string{"time", "theta1", "theta2", "energy", "spread", "steps", "mode", "population", "size"}

// Save writes meta and result.Samples under a new run ID and returns it.
func (s *Store) Save(meta RunMetadata, result *experiment.Result) (string, error) {
	ts := s.now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Command, ts.UnixNano())
	meta.Timestamp = ts
	meta.Frames = result.Frames
	meta.Steps = result.StepsTaken
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteSamplesCSV(csvFile, result.Samples); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// WriteSamplesCSV writes one header row and one row per sample.
func WriteSamplesCSV(w io.Writer, samples []experiment.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sampleHeader); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, smp := range samples {
		row := []string{
			f(smp.Time), f(smp.Theta1), f(smp.Theta2), f(smp.Energy), f(smp.Spread),
			strconv.Itoa(smp.Steps), smp.Mode.String(), smp.Population.String(), strconv.Itoa(smp.Size),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns every readable run, oldest first.
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
		if !entry.IsDir() {
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Series is one numeric CSV column of a stored run.
type Series struct {
	Times  []float64
	Values []float64
}

// LoadSeries reads the named numeric column of a run's samples.
func (s *Store) LoadSeries(runID, column string) (Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return Series{}, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return Series{}, err
	}
	if len(records) == 0 {
		return Series{}, nil
	}

	col := -1
	for i, name := range records[0] {
		if name == column {
			col = i
		}
	}
	if col < 0 {
		return Series{}, fmt.Errorf("run %s has no column %q", runID, column)
	}

	out := Series{
		Times:  make([]float64, 0, len(records)-1),
		Values: make([]float64, 0, len(records)-1),
	}
	for _, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(record[col], 64)
		if err != nil {
			continue
		}
		out.Times = append(out.Times, t)
		out.Values = append(out.Values, v)
	}
	return out, nil
}

// ExportJSON writes a run's metadata and the named series as one JSON
// document.
func (s *Store) ExportJSON(w io.Writer, runID string, columns ...string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}

	doc := struct {
		*RunMetadata
		Series map[string]Series `json:"series"`
	}{RunMetadata: meta, Series: make(map[string]Series)}

	for _, c := range columns {
		series, err := s.LoadSeries(runID, c)
		if err != nil {
			return err
		}
		doc.Series[c] = series
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
