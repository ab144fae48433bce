package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/solarwind/internal/dynamo"
	"github.com/san-kum/solarwind/internal/metrics"
)

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
	ID        string             `json:"id"`
	Label     string             `json:"label"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Particles int                `json:"particles"`
	Ticks     int                `json:"ticks"`
	Control   dynamo.Control     `json:"control"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Run describes a finished simulation to persist.
type Run struct {
	Label     string
	Seed      int64
	Particles int
	Ticks     int
	Control   dynamo.Control
	Stats     []dynamo.Stats
}

var statsHeader = []string{"tick", "particles_hitting", "sputtered_atoms", "reconnection_rate"}

func (s *Store) Save(run Run) (string, error) {
	ts := s.now()
	runID := fmt.Sprintf("%s_%d", run.Label, ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Label:     run.Label,
		Timestamp: ts,
		Seed:      run.Seed,
		Particles: run.Particles,
		Ticks:     run.Ticks,
		Control:   run.Control,
		Metrics:   metrics.Summarize(run.Stats).Map(),
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

	csvFile, err := os.Create(filepath.Join(runDir, "stats.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(statsHeader); err != nil {
		return "", err
	}
	for _, st := range run.Stats {
		row := []string{
			strconv.FormatUint(st.Tick, 10),
			strconv.FormatFloat(st.ParticlesHitting, 'f', -1, 64),
			strconv.Itoa(st.SputteredAtoms),
			strconv.FormatFloat(st.ReconnectionRate, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns stored runs, newest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadStats reads the snapshots of a run. Malformed rows are skipped.
func (s *Store) LoadStats(runID string) ([]dynamo.Stats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "stats.csv"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	stats := make([]dynamo.Stats, 0, len(records))
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < len(statsHeader) {
			continue
		}
		tick, err1 := strconv.ParseUint(rec[0], 10, 64)
		flux, err2 := strconv.ParseFloat(rec[1], 64)
		atoms, err3 := strconv.Atoi(rec[2])
		rate, err4 := strconv.ParseFloat(rec[3], 64)
		if err := errors.Join(err1, err2, err3, err4); err != nil {
			continue
		}
		stats = append(stats, dynamo.Stats{
			Tick:             tick,
			ParticlesHitting: flux,
			SputteredAtoms:   atoms,
			ReconnectionRate: rate,
		})
	}

	return stats, nil
}

// Recorder collects snapshots as a sim observer for a later Save.
type Recorder struct {
	Stats []dynamo.Stats
}

func (r *Recorder) OnStats(st dynamo.Stats) { r.Stats = append(r.Stats, st) }
