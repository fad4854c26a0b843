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
	"time"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/screen"
	"github.com/san-kum/mechsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	bodiesFile   = "bodies.csv"
	sceneFile    = "scene.yaml"
)

var csvHeader = []string{"step", "time", "id", "label", "x", "y", "vx", "vy", "fx", "fy", "ax", "ay", "angle"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type BodyInfo struct {
	ID    int    `json:"id"`
	Label string `json:"label,omitempty"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Frames    int                `json:"frames"`
	Bodies    []BodyInfo         `json:"bodies"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes metadata.json, bodies.csv and the scene config under a new
// run directory and returns its id.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	runID, runDir, err := s.newRunDir(cfg.Scenario)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  cfg.Scenario,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Steps:     result.StepsTaken,
		Frames:    len(result.Frames),
		Metrics:   result.Metrics,
	}
	if len(result.Frames) > 0 {
		for _, b := range result.Frames[0].Bodies {
			meta.Bodies = append(meta.Bodies, BodyInfo{ID: b.ID, Label: b.Label})
		}
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, sceneFile), cfg); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, bodiesFile), result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) newRunDir(scenario string) (string, string, error) {
	base := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	for i := 0; ; i++ {
		runID := base
		if i > 0 {
			runID = fmt.Sprintf("%s_%d", base, i)
		}
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(s.baseDir, 0755); err != nil {
				return "", "", err
			}
			continue
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, frames []screen.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, fr := range frames {
		for _, b := range fr.Bodies {
			row := []string{
				strconv.Itoa(fr.Step),
				formatFloat(fr.Time),
				strconv.Itoa(b.ID),
				b.Label,
				formatFloat(b.Position.X),
				formatFloat(b.Position.Y),
				formatFloat(b.Velocity.X),
				formatFloat(b.Velocity.Y),
				formatFloat(b.Force.X),
				formatFloat(b.Force.Y),
				formatFloat(b.Acceleration.X),
				formatFloat(b.Acceleration.Y),
				formatFloat(b.Angle),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

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
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata of %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadConfig returns the scene config a run was made with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, sceneFile))
}

// LoadFrames rebuilds the body views of every recorded frame. Shape
// geometry is not stored.
func (s *Store) LoadFrames(runID string) ([]screen.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, bodiesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(csvHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", bodiesFile, err)
	}
	if len(records) < 2 {
		return []screen.Frame{}, nil
	}

	var frames []screen.Frame
	for i, rec := range records[1:] {
		step, err1 := strconv.Atoi(rec[0])
		id, err2 := strconv.Atoi(rec[2])
		nums, err3 := parseFloats(rec[4:])
		t, err4 := strconv.ParseFloat(rec[1], 64)
		if err := errors.Join(err1, err2, err3, err4); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", bodiesFile, i+2, err)
		}

		if len(frames) == 0 || frames[len(frames)-1].Step != step {
			frames = append(frames, screen.Frame{Step: step, Time: t})
		}
		fr := &frames[len(frames)-1]
		fr.Bodies = append(fr.Bodies, screen.BodyView{
			ID:           id,
			Label:        rec[3],
			Position:     screen.Point{X: nums[0], Y: nums[1]},
			Velocity:     screen.Point{X: nums[2], Y: nums[3]},
			Force:        screen.Point{X: nums[4], Y: nums[5]},
			Acceleration: screen.Point{X: nums[6], Y: nums[7]},
			Angle:        nums[8],
		})
	}
	return frames, nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Track is one body's path through a run, in screen coordinates.
type Track struct {
	Times []float64
	X, Y  []float64
	VX    []float64
	VY    []float64
}

// Speed returns |v| per sample in pixels per second.
func (t Track) Speed() []float64 {
	out := make([]float64, len(t.VX))
	for i := range t.VX {
		out[i] = screen.Point{X: t.VX[i], Y: t.VY[i]}.Len()
	}
	return out
}

// TrackOf extracts the path of body id from frames.
func TrackOf(frames []screen.Frame, id int) (Track, error) {
	var tr Track
	for _, f := range frames {
		b, ok := f.Body(id)
		if !ok {
			continue
		}
		tr.Times = append(tr.Times, f.Time)
		tr.X = append(tr.X, b.Position.X)
		tr.Y = append(tr.Y, b.Position.Y)
		tr.VX = append(tr.VX, b.Velocity.X)
		tr.VY = append(tr.VY, b.Velocity.Y)
	}
	if len(tr.Times) == 0 {
		return Track{}, fmt.Errorf("body %d not found", id)
	}
	return tr, nil
}
