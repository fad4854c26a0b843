package screen

import "github.com/san-kum/mechsim/internal/dynamo"

// BodyView is one body's state in screen coordinates.
type BodyView struct {
	ID           int     `json:"id"`
	Label        string  `json:"label,omitempty"`
	Position     Point   `json:"position"`
	Velocity     Point   `json:"velocity"`
	Force        Point   `json:"force"`
	Acceleration Point   `json:"acceleration"`
	Angle        float64 `json:"angle"`
	Mass         float64 `json:"mass"`
}

// ShapeView carries the geometry needed to draw one shape.
type ShapeView struct {
	Body      int     `json:"body"`
	Kind      string  `json:"kind"`
	Center    Point   `json:"center"`
	Radius    float64 `json:"radius,omitempty"`
	Angle     float64 `json:"angle,omitempty"`
	A         Point   `json:"a,omitempty"`
	B         Point   `json:"b,omitempty"`
	Thickness float64 `json:"thickness,omitempty"`
	Vertices  []Point `json:"vertices,omitempty"`
}

// JointView is a pin joint drawn as a line between the two body origins
// through the shared anchor.
type JointView struct {
	A      Point `json:"a"`
	B      Point `json:"b"`
	Anchor Point `json:"anchor"`
}

// Frame is everything a renderer needs for one instant.
type Frame struct {
	Step   int         `json:"step"`
	Time   float64     `json:"time"`
	Bodies []BodyView  `json:"bodies"`
	Shapes []ShapeView `json:"shapes"`
	Joints []JointView `json:"joints,omitempty"`
}

// Body returns the view of the body with the given id.
func (f Frame) Body(id int) (BodyView, bool) {
	for _, b := range f.Bodies {
		if b.ID == id {
			return b, true
		}
	}
	return BodyView{}, false
}

func (s Space) ViewBody(b *dynamo.Body) BodyView {
	st := b.State()
	return BodyView{
		ID:           st.ID,
		Label:        st.Label,
		Position:     s.ToScreen(st.Position),
		Velocity:     s.ToScreenVector(st.Velocity),
		Force:        s.ToScreenVector(st.Force),
		Acceleration: s.ToScreenVector(st.Acceleration),
		Angle:        s.ToScreenAngle(st.Angle),
		Mass:         b.Mass(),
	}
}

func (s Space) ViewShape(sh *dynamo.Shape) ShapeView {
	v := ShapeView{Kind: sh.Kind().String()}
	if b := sh.Body(); b != nil {
		v.Body = b.ID()
		v.Angle = s.ToScreenAngle(b.Angle())
	}
	v.Center = s.ToScreen(sh.WorldCenter())
	switch sh.Kind() {
	case dynamo.CircleShape:
		v.Radius = sh.Radius()
	case dynamo.SegmentShape:
		a, b := sh.WorldEndpoints()
		v.A, v.B = s.ToScreen(a), s.ToScreen(b)
		v.Thickness = sh.Thickness()
	case dynamo.PolygonShape:
		for _, p := range sh.WorldVertices() {
			v.Vertices = append(v.Vertices, s.ToScreen(p))
		}
	}
	return v
}

// Capture snapshots w in screen coordinates.
func (s Space) Capture(w *dynamo.World) Frame {
	f := Frame{Step: w.StepCount(), Time: w.Time()}
	for _, b := range w.Bodies() {
		f.Bodies = append(f.Bodies, s.ViewBody(b))
	}
	for _, sh := range w.Shapes() {
		f.Shapes = append(f.Shapes, s.ViewShape(sh))
	}
	for _, c := range w.Constraints() {
		pin, ok := c.(*dynamo.PinJoint)
		if !ok {
			continue
		}
		a, b := pin.Bodies()
		f.Joints = append(f.Joints, JointView{
			A:      s.ToScreen(a.Position()),
			B:      s.ToScreen(b.Position()),
			Anchor: s.ToScreen(pin.AnchorA()),
		})
	}
	return f
}
