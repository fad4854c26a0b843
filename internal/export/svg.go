package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/mechsim/internal/scenario"
	"github.com/san-kum/mechsim/internal/screen"
)

var arrowColors = map[string]string{
	"velocity":     "#00ccff",
	"acceleration": "#ffaa00",
	"centripetal":  "#ff4488",
}

// FrameToSVG draws a frame at its native screen size. SVG shares the
// screen's y-down convention, so coordinates are written as is.
func FrameToSVG(f screen.Frame, space screen.Space, arrows []scenario.Arrow, trail []screen.Point) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, space.Width, space.Height, space.Width, space.Height)

	if len(trail) > 1 {
		sb.WriteString(`<path fill="none" stroke="#335533" stroke-width="1" d="`)
		writePath(&sb, trail, func(p screen.Point) (float64, float64) { return p.X, p.Y })
		sb.WriteString("\"/>\n")
	}

	sb.WriteString(`<g fill="none" stroke="#00ff00" stroke-width="1.5">` + "\n")
	for _, s := range f.Shapes {
		writeShape(&sb, s)
	}
	for _, j := range f.Joints {
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#888888"/>`+"\n",
			j.Anchor.X, j.Anchor.Y, j.B.X, j.B.Y)
	}
	sb.WriteString("</g>\n")

	for _, a := range arrows {
		writeArrow(&sb, a)
	}

	fmt.Fprintf(&sb, `<text x="8" y="16" fill="#888888" font-family="monospace" font-size="12">t=%.2fs step %d</text>`+"\n", f.Time, f.Step)
	sb.WriteString("</svg>")
	return sb.String()
}

func writeShape(sb *strings.Builder, s screen.ShapeView) {
	switch s.Kind {
	case "circle":
		fmt.Fprintf(sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", s.Center.X, s.Center.Y, s.Radius)
		ex := s.Center.X + s.Radius*math.Cos(s.Angle)
		ey := s.Center.Y + s.Radius*math.Sin(s.Angle)
		fmt.Fprintf(sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", s.Center.X, s.Center.Y, ex, ey)
	case "segment":
		fmt.Fprintf(sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#aaaaaa" stroke-width="%.1f" stroke-linecap="round"/>`+"\n",
			s.A.X, s.A.Y, s.B.X, s.B.Y, max(2*s.Thickness, 1))
	case "polygon":
		pts := make([]string, len(s.Vertices))
		for i, v := range s.Vertices {
			pts[i] = fmt.Sprintf("%.1f,%.1f", v.X, v.Y)
		}
		fmt.Fprintf(sb, `<polygon points="%s"/>`+"\n", strings.Join(pts, " "))
	}
}

func writeArrow(sb *strings.Builder, a scenario.Arrow) {
	colour, ok := arrowColors[a.Kind]
	if !ok {
		colour = "#ffffff"
	}
	fmt.Fprintf(sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>`+"\n",
		a.From.X, a.From.Y, a.To.X, a.To.Y, colour)

	d := a.To.Sub(a.From)
	if l := d.Len(); l > 6 {
		u := d.Scale(1 / l)
		base := a.To.Sub(u.Scale(8))
		n := screen.Point{X: -u.Y, Y: u.X}.Scale(4)
		left, right := base.Add(n), base.Sub(n)
		fmt.Fprintf(sb, `<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"/>`+"\n",
			a.To.X, a.To.Y, left.X, left.Y, right.X, right.Y, colour)
	}
	if a.Label != "" {
		fmt.Fprintf(sb, `<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="11">%s</text>`+"\n",
			a.To.X+4, a.To.Y-4, colour, a.Label)
	}
}

func writePath(sb *strings.Builder, pts []screen.Point, xy func(screen.Point) (float64, float64)) {
	for i, p := range pts {
		x, y := xy(p)
		if i == 0 {
			fmt.Fprintf(sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
		}
	}
}

// TrajectoryToSVG plots points scaled to fit a width x height box with the
// y axis pointing up, as in a chart.
func TrajectoryToSVG(points []screen.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`,
		width, height, width, height, strokeColor)

	writePath(&sb, points, func(p screen.Point) (float64, float64) {
		return (p.X - minX) / rangeX * float64(width), float64(height) - (p.Y-minY)/rangeY*float64(height)
	})

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
