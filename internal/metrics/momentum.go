package metrics

import "github.com/san-kum/mechsim/internal/dynamo"

// Momentum reports the magnitude of the total linear momentum at the last
// sample.
type Momentum struct {
	name string
	last dynamo.Vec2
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string            { return m.name }
func (m *Momentum) Observe(w *dynamo.World) { m.last = w.Momentum() }
func (m *Momentum) Value() float64          { return m.last.Len() }
func (m *Momentum) Reset()                  { m.last = dynamo.Vec2{} }
