package viz

import (
	"math"

	"github.com/san-kum/mechsim/internal/scenario"
	"github.com/san-kum/mechsim/internal/screen"
)

const trailCapacity = 120

// Renderer draws frames onto a canvas, scaling the scene's screen space
// down to the canvas dot grid.
type Renderer struct {
	canvas *Canvas
	space  screen.Space
	trail  []screen.Point
}

func NewRenderer(cols, rows int, space screen.Space) *Renderer {
	return &Renderer{canvas: NewCanvas(cols, rows), space: space}
}

func (r *Renderer) Canvas() *Canvas { return r.canvas }

// Dot maps a screen point to canvas dots.
func (r *Renderer) Dot(p screen.Point) (int, int) {
	w, h := r.canvas.Dots()
	x := p.X / r.space.Width * float64(w-1)
	y := p.Y / r.space.Height * float64(h-1)
	return int(math.Round(x)), int(math.Round(y))
}

func (r *Renderer) scale() float64 {
	w, _ := r.canvas.Dots()
	return float64(w-1) / r.space.Width
}

// ResetTrail forgets the focus body's path.
func (r *Renderer) ResetTrail() { r.trail = r.trail[:0] }

// Draw renders f with the given overlays. When focus is a body id its
// recent path is traced.
func (r *Renderer) Draw(f screen.Frame, arrows []scenario.Arrow, focus int) {
	c := r.canvas
	c.Clear()

	if b, ok := f.Body(focus); ok {
		r.trail = append(r.trail, b.Position)
		if len(r.trail) > trailCapacity {
			r.trail = r.trail[1:]
		}
	}
	for _, p := range r.trail {
		c.Set(r.Dot(p))
	}

	for _, s := range f.Shapes {
		r.drawShape(s)
	}
	for _, j := range f.Joints {
		ax, ay := r.Dot(j.Anchor)
		bx, by := r.Dot(j.B)
		c.DrawLine(ax, ay, bx, by)
		c.DrawCircle(ax, ay, 1)
	}
	for _, a := range arrows {
		x0, y0 := r.Dot(a.From)
		x1, y1 := r.Dot(a.To)
		c.DrawArrow(x0, y0, x1, y1)
	}
}

func (r *Renderer) drawShape(s screen.ShapeView) {
	c := r.canvas
	switch s.Kind {
	case "circle":
		cx, cy := r.Dot(s.Center)
		rad := max(int(math.Round(s.Radius*r.scale())), 1)
		c.DrawCircle(cx, cy, rad)
		// spoke shows the body's rotation
		edge := s.Center.Add(screen.Point{X: math.Cos(s.Angle), Y: math.Sin(s.Angle)}.Scale(s.Radius))
		ex, ey := r.Dot(edge)
		c.DrawLine(cx, cy, ex, ey)
	case "segment":
		ax, ay := r.Dot(s.A)
		bx, by := r.Dot(s.B)
		c.DrawLine(ax, ay, bx, by)
	case "polygon":
		xs := make([]int, len(s.Vertices))
		ys := make([]int, len(s.Vertices))
		for i, v := range s.Vertices {
			xs[i], ys[i] = r.Dot(v)
		}
		c.DrawPolygon(xs, ys)
	}
}
