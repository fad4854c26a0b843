package scenario

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/screen"
)

// carGroup keeps the chassis and wheels of a car from colliding with each
// other.
const carGroup = 1

type builder struct {
	cfg   *config.Config
	space screen.Space
	world *dynamo.World
	scene *Scene

	// dynamic bodies that fall under the uniform gravity field
	falling []*dynamo.Body
}

func (b *builder) build() error {
	if b.cfg.Walls.Enabled {
		if err := b.walls(); err != nil {
			return fmt.Errorf("walls: %w", err)
		}
	}

	for i, bc := range b.cfg.Bodies {
		if _, err := b.body(bc, true); err != nil {
			return fmt.Errorf("bodies[%d]: %w", i, err)
		}
	}
	if err := b.randomBalls(); err != nil {
		return err
	}

	var err error
	switch b.scene.kind {
	case Pendulum:
		err = b.pendulum()
	case Centripetal:
		err = b.centripetal()
	case Slope:
		err = b.slope()
	case Car:
		err = b.car()
	}
	if err != nil {
		return fmt.Errorf("%s: %w", b.scene.kind, err)
	}

	if b.cfg.Gravity != 0 && len(b.falling) > 0 {
		g, err := dynamo.NewUniformField(b.gravity(), b.falling...)
		if err != nil {
			return err
		}
		if err := b.world.RegisterForceGenerator(g); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) gravity() dynamo.Vec2 {
	return b.space.ToWorldVector(0, b.cfg.Gravity)
}

func (b *builder) walls() error {
	w, h := b.space.Width, b.space.Height
	mat := dynamo.Material{Elasticity: b.cfg.Walls.Elasticity, Friction: b.cfg.Walls.Friction}
	edges := [][2][2]float64{
		{{0, 0}, {w, 0}},
		{{w, 0}, {w, h}},
		{{w, h}, {0, h}},
		{{0, h}, {0, 0}},
	}
	for _, e := range edges {
		s, err := dynamo.NewSegment(b.space.ToWorld(e[0][0], e[0][1]), b.space.ToWorld(e[1][0], e[1][1]), b.cfg.Walls.Thickness, mat)
		if err != nil {
			return err
		}
		if err := b.world.AddShape(b.world.StaticBody(), s); err != nil {
			return err
		}
		b.scene.walls = append(b.scene.walls, s)
	}
	return nil
}

// body builds one BodyConfig. Segments attach to the world's static body
// and return it.
func (b *builder) body(bc config.BodyConfig, falls bool) (*dynamo.Body, error) {
	if err := bc.Validate(); err != nil {
		return nil, err
	}
	mat := dynamo.Material{Elasticity: bc.Elasticity, Friction: bc.Friction}

	if bc.Type == config.TypeSegment {
		a := b.space.ToWorld(bc.Vertices[0][0], bc.Vertices[0][1])
		c := b.space.ToWorld(bc.Vertices[1][0], bc.Vertices[1][1])
		s, err := dynamo.NewSegment(a, c, bc.Thickness, mat)
		if err != nil {
			return nil, err
		}
		return b.world.StaticBody(), b.world.AddShape(b.world.StaticBody(), s)
	}

	var shape *dynamo.Shape
	var err error
	switch bc.Type {
	case config.TypeCircle:
		shape, err = dynamo.NewCircle(bc.Radius, dynamo.Vec2{}, mat)
	case config.TypeBox:
		shape, err = dynamo.NewBox(bc.Width, bc.Height, mat)
	case config.TypePolygon:
		verts := make([]dynamo.Vec2, len(bc.Vertices))
		for i, v := range bc.Vertices {
			verts[i] = b.space.ToWorldVector(v[0], v[1])
		}
		shape, err = dynamo.NewPolygon(verts, mat)
	}
	if err != nil {
		return nil, err
	}

	// Polygon vertices are offsets from (x, y); the body sits on their centroid.
	angle := b.space.ToWorldAngle(bc.Angle)
	def := dynamo.BodyDef{
		Label:    bc.Label,
		Position: b.space.ToWorld(bc.X, bc.Y).Add(dynamo.Rotate(shape.Centroid(), angle)),
		Velocity: b.space.ToWorldVector(bc.VX, bc.VY),
		Angle:    angle,
		Mass:     bc.Mass,
	}
	if bc.Static {
		def.Type = dynamo.StaticBody
	}
	body, err := b.world.AddBody(def)
	if err != nil {
		return nil, err
	}
	if err := b.world.AddShape(body, shape); err != nil {
		return nil, err
	}
	if body.IsStatic() {
		return body, nil
	}

	if bc.AX != 0 || bc.AY != 0 {
		f, err := dynamo.NewUniformField(b.space.ToWorldVector(bc.AX, bc.AY), body)
		if err != nil {
			return nil, err
		}
		if err := b.world.RegisterForceGenerator(f); err != nil {
			return nil, err
		}
	}
	if falls {
		b.falling = append(b.falling, body)
	}
	return body, nil
}

func (b *builder) randomBalls() error {
	if b.cfg.RandomBalls == 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(b.cfg.Seed))
	margin := 40.0
	for i := 0; i < b.cfg.RandomBalls; i++ {
		r := 8 + rng.Float64()*12
		bc := config.BodyConfig{
			Type:       config.TypeCircle,
			Label:      fmt.Sprintf("ball%d", i),
			X:          margin + rng.Float64()*(b.space.Width-2*margin),
			Y:          margin + rng.Float64()*(b.space.Height/2-margin),
			VX:         (rng.Float64()*2 - 1) * 300,
			VY:         (rng.Float64()*2 - 1) * 300,
			Mass:       r / 7.5,
			Radius:     r,
			Elasticity: 0.8,
			Friction:   0.3,
		}
		if _, err := b.body(bc, true); err != nil {
			return fmt.Errorf("random ball %d: %w", i, err)
		}
	}
	return nil
}

func (b *builder) pendulum() error {
	p := b.cfg.Pendulum
	bob, err := b.body(config.BodyConfig{
		Type: config.TypeCircle, Label: "bob",
		X: p.Bob[0], Y: p.Bob[1],
		Mass: p.Mass, Radius: p.Radius, Elasticity: p.Elasticity,
	}, true)
	if err != nil {
		return err
	}
	anchor := b.space.ToWorld(p.Anchor[0], p.Anchor[1])
	pin, err := dynamo.NewPinJoint(b.world.StaticBody(), bob, anchor)
	if err != nil {
		return err
	}
	if err := b.world.AddConstraint(pin); err != nil {
		return err
	}
	b.scene.focus = bob
	b.scene.pins = append(b.scene.pins, pin)
	return nil
}

func (b *builder) centripetal() error {
	c := b.cfg.Centripetal
	ball, err := b.body(config.BodyConfig{
		Type: config.TypeCircle, Label: "ball",
		X: c.Center[0] + c.Orbit, Y: c.Center[1], VY: c.Speed,
		Mass: c.Mass, Radius: c.Radius, Elasticity: c.Elasticity, Friction: c.Friction,
	}, true)
	if err != nil {
		return err
	}
	tr, err := dynamo.NewCentripetalTracker(ball, b.space.ToWorld(c.Center[0], c.Center[1]))
	if err != nil {
		return err
	}
	if err := b.world.RegisterForceGenerator(tr); err != nil {
		return err
	}
	b.scene.focus = ball
	b.scene.tracker = tr
	return nil
}

func (b *builder) slope() error {
	s := b.cfg.Slope
	seg, err := dynamo.NewSegment(
		b.space.ToWorld(s.From[0], s.From[1]),
		b.space.ToWorld(s.To[0], s.To[1]),
		s.Thickness,
		dynamo.Material{Elasticity: s.Elasticity, Friction: s.Friction},
	)
	if err != nil {
		return err
	}
	if err := b.world.AddShape(b.world.StaticBody(), seg); err != nil {
		return err
	}

	var blocks []*dynamo.Body
	for i, bc := range s.Blocks {
		body, err := b.body(bc, false)
		if err != nil {
			return fmt.Errorf("blocks[%d]: %w", i, err)
		}
		blocks = append(blocks, body)
	}
	if len(blocks) == 0 {
		return nil
	}
	proj, err := dynamo.NewSlopeGravityProjector(seg, b.gravity(), blocks...)
	if err != nil {
		return err
	}
	if err := b.world.RegisterForceGenerator(proj); err != nil {
		return err
	}
	b.scene.focus = blocks[0]
	b.scene.projector = proj
	return nil
}

func (b *builder) car() error {
	c := b.cfg.Car
	chassis, err := b.body(config.BodyConfig{
		Type: config.TypeBox, Label: "chassis",
		X: c.Position[0], Y: c.Position[1],
		Mass: c.ChassisMass, Width: c.ChassisWidth, Height: c.ChassisHeight,
		Elasticity: 0.2, Friction: 0.5,
	}, true)
	if err != nil {
		return err
	}
	for _, sh := range chassis.Shapes() {
		sh.SetGroup(carGroup)
	}
	b.scene.focus = chassis

	for i, side := range []float64{-1, 1} {
		wheel, err := b.body(config.BodyConfig{
			Type:       config.TypeCircle,
			Label:      fmt.Sprintf("wheel%d", i),
			X:          c.Position[0] + side*c.WheelBase/2,
			Y:          c.Position[1] + c.WheelDrop,
			Mass:       c.WheelMass,
			Radius:     c.WheelRadius,
			Elasticity: 0.3,
			Friction:   c.Friction,
		}, true)
		if err != nil {
			return err
		}
		for _, sh := range wheel.Shapes() {
			sh.SetGroup(carGroup)
		}

		pin, err := dynamo.NewPinJoint(chassis, wheel, wheel.Position())
		if err != nil {
			return err
		}
		if err := b.world.AddConstraint(pin); err != nil {
			return err
		}
		motor, err := dynamo.NewMotor(chassis, wheel, b.space.ToWorldAngle(c.MotorRate), c.MaxTorque)
		if err != nil {
			return err
		}
		if err := b.world.AddConstraint(motor); err != nil {
			return err
		}
		b.scene.pins = append(b.scene.pins, pin)
		b.scene.motors = append(b.scene.motors, motor)
	}
	return nil
}
