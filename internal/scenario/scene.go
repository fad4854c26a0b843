package scenario

import (
	"fmt"
	"math"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/control"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/screen"
)

// Arrow scales, in screen pixels per unit.
const (
	VelocityScale     = 0.2
	AccelerationScale = 0.05
	ForceScale        = 0.02
)

// Scene is a built world plus the handles the front ends need.
type Scene struct {
	kind  Kind
	cfg   *config.Config
	space screen.Space
	world *dynamo.World

	walls     []*dynamo.Shape
	focus     *dynamo.Body
	pins      []*dynamo.PinJoint
	motors    []*dynamo.Motor
	tracker   *dynamo.CentripetalTracker
	projector *dynamo.SlopeGravityProjector
}

// New validates cfg and builds its scene. cfg is copied.
func New(cfg *config.Config) (*Scene, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	kind, err := ParseKind(cfg.Scenario)
	if err != nil {
		return nil, err
	}
	s := &Scene{
		kind:  kind,
		cfg:   cfg.Clone(),
		space: screen.Space{Width: cfg.Width, Height: cfg.Height},
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset rebuilds the world from the scene's config. On error the scene is
// left as it was.
func (s *Scene) Reset() error {
	w, err := dynamo.NewWorld(s.cfg.Solver)
	if err != nil {
		return err
	}
	fresh := &Scene{kind: s.kind, cfg: s.cfg, space: s.space, world: w}
	b := &builder{cfg: s.cfg, space: s.space, world: w, scene: fresh}
	if err := b.build(); err != nil {
		return err
	}
	if fresh.focus == nil {
		if bodies := w.Bodies(); len(bodies) > 0 {
			fresh.focus = bodies[0]
		}
	}
	*s = *fresh
	return nil
}

func (s *Scene) Kind() Kind                          { return s.kind }
func (s *Scene) World() *dynamo.World                { return s.world }
func (s *Scene) Space() screen.Space                 { return s.space }
func (s *Scene) Config() *config.Config              { return s.cfg.Clone() }
func (s *Scene) Dt() float64                         { return s.cfg.Dt }
func (s *Scene) Pins() []*dynamo.PinJoint            { return s.pins }
func (s *Scene) Motors() []*dynamo.Motor             { return s.motors }
func (s *Scene) Walls() []*dynamo.Shape              { return s.walls }
func (s *Scene) Tracker() *dynamo.CentripetalTracker { return s.tracker }

// Focus is the body the scene is about: the bob, the orbiting ball, the
// first block, the chassis or the first free body. It may be nil.
func (s *Scene) Focus() *dynamo.Body { return s.focus }

// Update applies the input toggles and advances the world by dt unless
// paused.
func (s *Scene) Update(in control.InputState, dt float64) {
	if s.tracker != nil {
		s.tracker.SetEnabled(in.CentripetalEnabled())
	}
	if in.Paused {
		return
	}
	s.world.Step(dt)
}

// Frame captures the world in screen coordinates.
func (s *Scene) Frame() screen.Frame { return s.space.Capture(s.world) }

// Arrow is an overlay vector in screen coordinates.
type Arrow struct {
	Kind  string       `json:"kind"`
	From  screen.Point `json:"from"`
	To    screen.Point `json:"to"`
	Label string       `json:"label,omitempty"`
}

// Arrows returns the overlays selected by in for frame f.
func (s *Scene) Arrows(f screen.Frame, in control.InputState) []Arrow {
	var out []Arrow
	for _, b := range f.Bodies {
		if in.ShowVelocity && b.Velocity.Len() > 0 {
			out = append(out, Arrow{
				Kind:  "velocity",
				From:  b.Position,
				To:    b.Position.Add(b.Velocity.Scale(VelocityScale)),
				Label: fmt.Sprintf("%.2f m/s", screen.Speed(b.Velocity)),
			})
		}
		if in.ShowAcceleration && b.Acceleration.Len() > 0 {
			out = append(out, Arrow{
				Kind: "acceleration",
				From: b.Position,
				To:   b.Position.Add(b.Acceleration.Scale(AccelerationScale)),
			})
		}
	}
	if s.tracker != nil && s.tracker.Enabled() {
		if fv := s.tracker.LastForce(); fv.Len() > 0 {
			from := s.space.ToScreen(s.tracker.Body().Position())
			out = append(out, Arrow{
				Kind: "centripetal",
				From: from,
				To:   from.Add(s.space.ToScreenVector(fv).Scale(ForceScale)),
			})
		}
	}
	return out
}

// Center returns the centripetal centre in screen coordinates.
func (s *Scene) Center() (screen.Point, bool) {
	if s.tracker == nil {
		return screen.Point{}, false
	}
	return s.space.ToScreen(s.tracker.Center()), true
}

// PendulumAngle is the bob's angle from the downward vertical in radians,
// positive to the right on screen.
func (s *Scene) PendulumAngle() float64 {
	if len(s.pins) == 0 || s.kind != Pendulum {
		return 0
	}
	d := s.focus.Position().Sub(s.pins[0].AnchorA())
	return math.Atan2(d[0], -d[1])
}

// Status returns the HUD lines for the current state.
func (s *Scene) Status(in control.InputState) []string {
	lines := []string{
		fmt.Sprintf("scene  %s", s.kind),
		fmt.Sprintf("time   %.2fs", s.world.Time()),
		fmt.Sprintf("bodies %d", len(s.world.Bodies())),
	}
	if s.focus != nil {
		v := s.space.ToScreenVector(s.focus.Velocity())
		lines = append(lines, fmt.Sprintf("speed  %.2f m/s", screen.Speed(v)))
	}
	switch s.kind {
	case Pendulum:
		lines = append(lines, fmt.Sprintf("angle  %.1f°", s.PendulumAngle()*180/math.Pi))
	case Centripetal:
		state := "on"
		if !in.CentripetalEnabled() {
			state = "off"
		}
		r := s.focus.Position().Sub(s.tracker.Center()).Len()
		lines = append(lines, fmt.Sprintf("radius %.1f px", r), fmt.Sprintf("force  %s", state))
	case Slope:
		if s.projector != nil {
			lines = append(lines, fmt.Sprintf("a_t    %.2f m/s²", s.projector.TangentialAcceleration().Len()/screen.PixelsPerMeter))
		}
	case Car:
		if len(s.motors) > 0 {
			lines = append(lines, fmt.Sprintf("motor  %.1f rad/s", s.space.ToScreenAngle(s.motors[0].Rate())))
		}
	}
	if in.Paused {
		lines = append(lines, "PAUSED")
	}
	return lines
}
