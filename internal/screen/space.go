// Package screen converts between the kernel's y-up frame and the y-down
// pixel frame used by scenario files and renderers, and captures read-only
// views of a world for drawing, storage and streaming.
package screen

import (
	"math"

	"github.com/san-kum/mechsim/internal/dynamo"
)

// PixelsPerMeter is the scale used when labelling speeds.
const PixelsPerMeter = 50.0

// Point is a position or vector in screen pixels, y down.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(q Point) Point          { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Scale(s float64) Point      { return Point{p.X * s, p.Y * s} }
func (p Point) Len() float64               { return math.Hypot(p.X, p.Y) }
func (p Point) Sub(q Point) Point          { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Dist(q Point) float64       { return p.Sub(q).Len() }
func (p Point) InBounds(w, h float64) bool { return p.X >= 0 && p.X <= w && p.Y >= 0 && p.Y <= h }

// Space is a screen of Width x Height pixels with the origin at the top left.
// The kernel origin sits at the bottom left with y up.
type Space struct {
	Width  float64
	Height float64
}

// ToWorld converts a screen position to kernel coordinates.
func (s Space) ToWorld(x, y float64) dynamo.Vec2 { return dynamo.V(x, s.Height-y) }

// ToWorldVector converts a screen velocity or acceleration. Vectors only flip.
func (s Space) ToWorldVector(x, y float64) dynamo.Vec2 { return dynamo.V(x, -y) }

// ToWorldAngle converts a clockwise screen angle to a counter-clockwise one.
func (s Space) ToWorldAngle(a float64) float64 { return -a }

func (s Space) ToScreen(p dynamo.Vec2) Point { return Point{p[0], s.Height - p[1]} }

func (s Space) ToScreenVector(v dynamo.Vec2) Point { return Point{v[0], -v[1]} }

func (s Space) ToScreenAngle(a float64) float64 { return -a }

// Speed formats a pixel speed in metres per second.
func Speed(v Point) float64 { return v.Len() / PixelsPerMeter }
