package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/mechsim/internal/analysis"
	"github.com/san-kum/mechsim/internal/export"
	"github.com/san-kum/mechsim/internal/screen"
	"github.com/san-kum/mechsim/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tSTEPS\tBODIES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
			len(run.Bodies),
		)
	}

	return w.Flush()
}

// loadTrack opens a run and extracts one body's path. A negative id picks
// the first recorded body.
func loadTrack(runID string, id int) (*storage.RunMetadata, []screen.Frame, storage.Track, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, storage.Track{}, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, storage.Track{}, err
	}
	if id < 0 {
		if len(meta.Bodies) == 0 {
			return nil, nil, storage.Track{}, fmt.Errorf("run %s has no bodies", runID)
		}
		id = meta.Bodies[0].ID
	}
	track, err := storage.TrackOf(frames, id)
	if err != nil {
		return nil, nil, storage.Track{}, err
	}
	return meta, frames, track, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, _, track, err := loadTrack(args[0], bodyID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(track.Times))

	speed := track.Speed()
	for i := range speed {
		speed[i] /= screen.PixelsPerMeter
	}
	// Screen y grows downward; plot height instead.
	height := make([]float64, len(track.Y))
	for i, y := range track.Y {
		height[i] = -y
	}

	series := []struct {
		data    []float64
		caption string
	}{
		{track.X, "x (px)"},
		{height, "height (-y px)"},
		{speed, "speed (m/s)"},
	}
	for _, s := range series {
		fmt.Println(asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		))
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	data := storage.NewExport(meta, frames)
	if jsonOut == "" {
		return storage.ExportJSONStdout(data)
	}
	if err := storage.ExportJSON(jsonOut, data); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", jsonOut)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	meta, frames, track, err := loadTrack(runID, bodyID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", runID)
	}
	cfg, err := storage.New(dataDir).LoadConfig(runID)
	if err != nil {
		return err
	}
	space := screen.Space{Width: cfg.Width, Height: cfg.Height}

	idx := frameIndex
	if idx < 0 {
		idx += len(frames)
	}
	if idx < 0 || idx >= len(frames) {
		return fmt.Errorf("frame %d out of range [0,%d)", frameIndex, len(frames))
	}
	frame := frames[idx]

	var trail, path []screen.Point
	for i, t := range track.Times {
		p := screen.Point{X: track.X[i], Y: track.Y[i]}
		if t <= frame.Time {
			trail = append(trail, p)
		}
		path = append(path, screen.Point{X: p.X, Y: space.Height - p.Y})
	}

	if err := os.MkdirAll(svgDir, 0755); err != nil {
		return err
	}
	framePath := filepath.Join(svgDir, fmt.Sprintf("%s_frame%d.svg", meta.ID, frame.Step))
	if err := os.WriteFile(framePath, []byte(export.FrameToSVG(frame, space, nil, trail)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", framePath)

	if svg := export.TrajectoryToSVG(path, 600, 400, "#3366cc"); svg != "" {
		trajPath := filepath.Join(svgDir, meta.ID+"_trajectory.svg")
		if err := os.WriteFile(trajPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", trajPath)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, _, track, err := loadTrack(args[0], bodyID)
	if err != nil {
		return err
	}

	var data, rate []float64
	switch coord {
	case "x":
		data, rate = track.X, track.VX
	case "y":
		data, rate = track.Y, track.VY
	case "vx":
		data = track.VX
	case "vy":
		data = track.VY
	default:
		return fmt.Errorf("unknown coordinate %q (want x, y, vx or vy)", coord)
	}
	if len(data) < 4 {
		return fmt.Errorf("not enough samples: %d", len(data))
	}

	sample := meta.Dt
	if len(track.Times) > 1 {
		sample = track.Times[1] - track.Times[0]
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:max(len(ps)/4, 1)]
	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", coord)),
	))
	fmt.Println()

	freq := analysis.DominantFrequency(data, sample)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1/freq)
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	if period := analysis.MeanPeriod(analysis.Crossings(track.Times, data, mean)); period > 0 {
		fmt.Printf("period from crossings: %.3f s\n", period)
	}

	if rate != nil {
		fmt.Println()
		fmt.Println(analysis.NewPhasePortrait(coord, data, "v"+coord, rate).ASCII(70, 20))
	}
	if apexes := analysis.Apexes(track.Y); len(apexes) > 0 {
		i := apexes[0]
		fmt.Printf("first apex: t=%.3f s y=%.1f px\n", track.Times[i], track.Y[i])
	}
	return nil
}
