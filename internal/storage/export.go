package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/mechsim/internal/screen"
)

type ExportData struct {
	Scenario string             `json:"scenario"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Times    []float64          `json:"times"`
	Frames   []screen.Frame     `json:"frames"`
	Metrics  map[string]float64 `json:"metrics"`
}

// NewExport bundles a run's metadata and frames.
func NewExport(meta *RunMetadata, frames []screen.Frame) ExportData {
	data := ExportData{
		Scenario: meta.Scenario,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Steps:    meta.Steps,
		Times:    make([]float64, len(frames)),
		Frames:   frames,
		Metrics:  meta.Metrics,
	}
	for i, f := range frames {
		data.Times[i] = f.Time
	}
	return data
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

func ExportJSONStdout(data ExportData) error {
	return WriteJSON(os.Stdout, data)
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
