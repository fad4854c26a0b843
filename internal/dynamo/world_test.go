package dynamo_test

import (
	"math"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mechsim/internal/dynamo"
)

const dt = 1.0 / 60

func newWorld() *dynamo.World {
	w, err := dynamo.NewWorld(dynamo.DefaultConfig())
	Expect(err).NotTo(HaveOccurred())
	return w
}

func addBall(w *dynamo.World, pos, vel dynamo.Vec2, mass, radius float64, mat dynamo.Material) *dynamo.Body {
	b, err := w.AddBody(dynamo.BodyDef{Position: pos, Velocity: vel, Mass: mass})
	Expect(err).NotTo(HaveOccurred())
	c, err := dynamo.NewCircle(radius, dynamo.Vec2{}, mat)
	Expect(err).NotTo(HaveOccurred())
	Expect(w.AddShape(b, c)).To(Succeed())
	return b
}

func addWall(w *dynamo.World, a, b dynamo.Vec2, thickness float64, mat dynamo.Material) *dynamo.Shape {
	s, err := dynamo.NewSegment(a, b, thickness, mat)
	Expect(err).NotTo(HaveOccurred())
	Expect(w.AddShape(w.StaticBody(), s)).To(Succeed())
	return s
}

func addGravity(w *dynamo.World) {
	g, err := dynamo.NewUniformField(dynamo.V(0, -981))
	Expect(err).NotTo(HaveOccurred())
	Expect(w.RegisterForceGenerator(g)).To(Succeed())
}

type funcGenerator func(w *dynamo.World, dt float64)

func (f funcGenerator) Enabled() bool                     { return true }
func (f funcGenerator) Apply(w *dynamo.World, dt float64) { f(w, dt) }

var _ = Describe("World", func() {
	var w *dynamo.World

	BeforeEach(func() {
		w = newWorld()
	})

	Describe("free body", func() {
		It("keeps velocity constant and advances position linearly", func() {
			b, err := w.AddBody(dynamo.BodyDef{
				Position:        dynamo.V(10, 20),
				Velocity:        dynamo.V(3, -4),
				AngularVelocity: 0.5,
				Mass:            2,
			})
			Expect(err).NotTo(HaveOccurred())
			c, err := dynamo.NewCircle(1, dynamo.Vec2{}, dynamo.Material{})
			Expect(err).NotTo(HaveOccurred())
			Expect(w.AddShape(b, c)).To(Succeed())

			const n = 1000
			for i := 0; i < n; i++ {
				w.Step(dt)
			}

			Expect(b.Velocity()).To(Equal(dynamo.V(3, -4)))
			Expect(b.AngularVelocity()).To(Equal(0.5))
			Expect(b.Position()[0]).To(BeNumerically("~", 10+n*dt*3, 1e-9))
			Expect(b.Position()[1]).To(BeNumerically("~", 20+n*dt*-4, 1e-9))
			Expect(w.StepCount()).To(Equal(n))
		})

		It("ignores non-positive and non-finite timesteps", func() {
			b := addBall(w, dynamo.V(0, 0), dynamo.V(1, 1), 1, 1, dynamo.Material{})
			w.Step(0)
			w.Step(-dt)
			w.Step(math.NaN())
			w.Step(math.Inf(1))
			Expect(b.Position()).To(Equal(dynamo.V(0, 0)))
			Expect(w.Time()).To(BeZero())
		})
	})

	Describe("head-on circle collision", func() {
		var a, b *dynamo.Body

		setup := func(e float64) {
			mat := dynamo.Material{Elasticity: e}
			a = addBall(w, dynamo.V(100, 300), dynamo.V(50, 0), 1, 10, mat)
			b = addBall(w, dynamo.V(125, 300), dynamo.V(-30, 0), 1, 10, mat)
		}

		It("exchanges velocities and conserves kinetic energy when elastic", func() {
			setup(1)
			before := w.KineticEnergy()
			for i := 0; i < 60; i++ {
				w.Step(dt)
			}
			Expect(a.Velocity()[0]).To(BeNumerically("~", -30, 1e-9))
			Expect(b.Velocity()[0]).To(BeNumerically("~", 50, 1e-9))
			Expect(a.Velocity()[1]).To(BeZero())
			Expect(a.AngularVelocity()).To(BeZero())
			Expect(w.KineticEnergy()).To(BeNumerically("~", before, 1e-9))
		})

		DescribeTable("never increases relative normal speed",
			func(e float64) {
				setup(e)
				before := math.Abs(b.Velocity()[0] - a.Velocity()[0])
				keBefore := w.KineticEnergy()
				for i := 0; i < 60; i++ {
					w.Step(dt)
				}
				after := math.Abs(b.Velocity()[0] - a.Velocity()[0])
				Expect(after).To(BeNumerically("<=", before))
				Expect(after).To(BeNumerically("~", e*before, 1e-9))
				Expect(w.KineticEnergy()).To(BeNumerically("<=", keBefore+1e-9))
			},
			Entry("perfectly inelastic", 0.0),
			Entry("e=0.3", 0.3),
			Entry("e=0.6", 0.6),
			Entry("e=0.9", 0.9),
		)
	})

	Describe("overlapping start", func() {
		It("pushes apart a pair that is already separating", func() {
			a := addBall(w, dynamo.V(100, 300), dynamo.V(-0.1, 0), 1, 10, dynamo.Material{})
			b := addBall(w, dynamo.V(105, 300), dynamo.V(0.1, 0), 1, 10, dynamo.Material{})
			for i := 0; i < 60; i++ {
				w.Step(dt)
			}
			Expect(b.Position().Sub(a.Position()).Len()).To(BeNumerically(">=", 19.98))
			Expect(a.Velocity()).To(Equal(dynamo.V(-0.1, 0)))
			Expect(b.Velocity()).To(Equal(dynamo.V(0.1, 0)))
		})
	})

	Describe("pendulum", func() {
		It("keeps the pin separation under 1% of the length for 600 steps", func() {
			const length = 100.0
			anchor := dynamo.V(400, 300)
			start := anchor.Add(dynamo.V(length*math.Sin(math.Pi/4), -length*math.Cos(math.Pi/4)))
			bob := addBall(w, start, dynamo.Vec2{}, 1, 15, dynamo.Material{Elasticity: 0.9})
			addGravity(w)

			pin, err := dynamo.NewPinJoint(w.StaticBody(), bob, anchor)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.AddConstraint(pin)).To(Succeed())

			worst := 0.0
			for i := 0; i < 600; i++ {
				w.Step(dt)
				worst = math.Max(worst, pin.Separation())
			}
			Expect(worst).To(BeNumerically("<", 1e-2*length))
			Expect(w.StaticBody().Position()).To(Equal(dynamo.Vec2{}))
		})
	})

	Describe("centripetal tracker", func() {
		var (
			ball    *dynamo.Body
			tracker *dynamo.CentripetalTracker
			center  = dynamo.V(400, 300)
		)

		BeforeEach(func() {
			ball = addBall(w, dynamo.V(600, 300), dynamo.V(0, -100), 2, 15, dynamo.Material{Elasticity: 1})
			var err error
			tracker, err = dynamo.NewCentripetalTracker(ball, center)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.RegisterForceGenerator(tracker)).To(Succeed())
		})

		It("holds the radius over one revolution", func() {
			period := 2 * math.Pi * 200 / 100
			steps := int(math.Ceil(period / dt))
			for i := 0; i < steps; i++ {
				w.Step(dt)
				r := ball.Position().Sub(center).Len()
				Expect(r).To(BeNumerically("~", 200, 10))
			}
		})

		It("lets the body move in a straight line once disabled", func() {
			for i := 0; i < 377; i++ {
				w.Step(dt)
			}
			Expect(tracker.LastForce().Len()).To(BeNumerically(">", 0))

			tracker.SetEnabled(false)
			v := ball.Velocity()
			p := ball.Position()
			for i := 0; i < 60; i++ {
				w.Step(dt)
			}
			Expect(ball.Velocity()).To(Equal(v))
			Expect(tracker.LastForce()).To(Equal(dynamo.Vec2{}))
			moved := ball.Position().Sub(p)
			Expect(dynamo.Cross(moved, v)).To(BeNumerically("~", 0, 1e-6))
		})
	})

	Describe("bouncing ball", func() {
		It("loses apex height after every bounce", func() {
			addWall(w, dynamo.V(0, 0), dynamo.V(800, 0), 10, dynamo.Material{Elasticity: 0.9, Friction: 0.5})
			ball := addBall(w, dynamo.V(400, 400), dynamo.Vec2{}, 1, 15, dynamo.Material{Elasticity: 0.9, Friction: 0.5})
			addGravity(w)

			var apexes []float64
			prev := ball.Velocity()[1]
			for i := 0; i < 600 && len(apexes) < 4; i++ {
				w.Step(dt)
				vy := ball.Velocity()[1]
				if prev > 0 && vy <= 0 {
					apexes = append(apexes, ball.Position()[1])
				}
				prev = vy
			}

			Expect(len(apexes)).To(BeNumerically(">=", 3))
			last := 400.0
			for _, y := range apexes {
				Expect(y).To(BeNumerically("<", last))
				last = y
			}
		})
	})

	Describe("slope projector", func() {
		It("accelerates a block along the incline only", func() {
			a, b := dynamo.V(100, 400), dynamo.V(700, 100)
			slope := addWall(w, a, b, 4, dynamo.Material{Friction: 0.3})
			t := b.Sub(a).Normalize()
			n := dynamo.Perp(t)

			start := a.Add(t.Mul(150)).Add(n.Mul(20 + 2 + 1))
			block, err := w.AddBody(dynamo.BodyDef{Position: start, Angle: math.Atan2(t[1], t[0]), Mass: 3})
			Expect(err).NotTo(HaveOccurred())
			box, err := dynamo.NewBox(40, 40, dynamo.Material{Friction: 0.3})
			Expect(err).NotTo(HaveOccurred())
			Expect(w.AddShape(block, box)).To(Succeed())

			proj, err := dynamo.NewSlopeGravityProjector(slope, dynamo.V(0, -981), block)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.RegisterForceGenerator(proj)).To(Succeed())

			const steps = 60
			for i := 0; i < steps; i++ {
				w.Step(dt)
			}

			accel := 981 * -t[1]
			want := accel * dt * dt * steps * (steps + 1) / 2
			moved := block.Position().Sub(start)
			Expect(moved.Dot(t)).To(BeNumerically("~", want, 1e-6))
			Expect(moved.Dot(n)).To(BeNumerically("~", 0, 1e-6))
			Expect(block.AngularVelocity()).To(BeZero())
			Expect(proj.TangentialAcceleration().Len()).To(BeNumerically("~", accel, 1e-9))
		})
	})

	Describe("polygon contacts", func() {
		It("rests a box on a wall without sinking or spinning", func() {
			addWall(w, dynamo.V(0, 0), dynamo.V(800, 0), 10, dynamo.Material{Elasticity: 0.5, Friction: 0.7})
			body, err := w.AddBody(dynamo.BodyDef{Position: dynamo.V(400, 25), Mass: 2})
			Expect(err).NotTo(HaveOccurred())
			box, err := dynamo.NewBox(60, 40, dynamo.Material{Elasticity: 0.2, Friction: 0.7})
			Expect(err).NotTo(HaveOccurred())
			Expect(w.AddShape(body, box)).To(Succeed())
			addGravity(w)

			for i := 0; i < 600; i++ {
				w.Step(dt)
			}
			Expect(body.Position()[1]).To(BeNumerically("~", 25, 2))
			Expect(body.Position()[0]).To(BeNumerically("~", 400, 1e-6))
			Expect(body.Angle()).To(BeNumerically("~", 0, 1e-6))
		})

		It("drives a motorised car along the floor", func() {
			addWall(w, dynamo.V(-1000, 0), dynamo.V(3000, 0), 10, dynamo.Material{Elasticity: 0.5, Friction: 0.9})
			chassis, err := w.AddBody(dynamo.BodyDef{Position: dynamo.V(200, 60), Mass: 5})
			Expect(err).NotTo(HaveOccurred())
			box, err := dynamo.NewBox(120, 30, dynamo.Material{Elasticity: 0.2, Friction: 0.5})
			Expect(err).NotTo(HaveOccurred())
			box.SetGroup(1)
			Expect(w.AddShape(chassis, box)).To(Succeed())

			var pins []*dynamo.PinJoint
			for _, dx := range []float64{-45, 45} {
				wheel, err := w.AddBody(dynamo.BodyDef{Position: dynamo.V(200+dx, 40), Mass: 1})
				Expect(err).NotTo(HaveOccurred())
				c, err := dynamo.NewCircle(20, dynamo.Vec2{}, dynamo.Material{Elasticity: 0.3, Friction: 0.9})
				Expect(err).NotTo(HaveOccurred())
				c.SetGroup(1)
				Expect(w.AddShape(wheel, c)).To(Succeed())

				pin, err := dynamo.NewPinJoint(chassis, wheel, wheel.Position())
				Expect(err).NotTo(HaveOccurred())
				Expect(w.AddConstraint(pin)).To(Succeed())
				pins = append(pins, pin)

				motor, err := dynamo.NewMotor(chassis, wheel, -6, 5e5)
				Expect(err).NotTo(HaveOccurred())
				Expect(w.AddConstraint(motor)).To(Succeed())
			}
			addGravity(w)

			worst := 0.0
			for i := 0; i < 300; i++ {
				w.Step(dt)
				for _, p := range pins {
					worst = math.Max(worst, p.Separation())
				}
			}
			Expect(chassis.Position()[0]).To(BeNumerically(">", 400))
			Expect(math.Abs(chassis.Angle())).To(BeNumerically("<", 0.1))
			Expect(worst).To(BeNumerically("<", 10))
		})
	})

	Describe("determinism", func() {
		build := func() *dynamo.World {
			w := newWorld()
			wall := dynamo.Material{Elasticity: 0.9, Friction: 0.5}
			addWall(w, dynamo.V(0, 0), dynamo.V(800, 0), 5, wall)
			addWall(w, dynamo.V(0, 0), dynamo.V(0, 600), 5, wall)
			addWall(w, dynamo.V(800, 0), dynamo.V(800, 600), 5, wall)
			addWall(w, dynamo.V(0, 600), dynamo.V(800, 600), 5, wall)
			for i, vx := range []float64{100, 300, 500} {
				addBall(w, dynamo.V(200, 300+float64(i)*100), dynamo.V(vx, 0), 2, 15, dynamo.Material{Elasticity: 1})
			}
			addGravity(w)
			return w
		}

		It("produces identical snapshots for identical worlds", func() {
			w1, w2 := build(), build()
			for i := 0; i < 300; i++ {
				w1.Step(dt)
				w2.Step(dt)
			}
			Expect(cmp.Diff(w1.Snapshot(), w2.Snapshot())).To(BeEmpty())
		})
	})

	Describe("mutation", func() {
		It("rejects changes while a step is running", func() {
			var got error
			gen := funcGenerator(func(w *dynamo.World, dt float64) {
				_, got = w.AddBody(dynamo.BodyDef{Mass: 1})
			})
			Expect(w.RegisterForceGenerator(gen)).To(Succeed())
			w.Step(dt)
			Expect(got).To(MatchError(dynamo.ErrWorldLocked))
			Expect(w.Locked()).To(BeFalse())
			Expect(w.Bodies()).To(BeEmpty())
		})

		It("drops shapes and constraints with a removed body", func() {
			bob := addBall(w, dynamo.V(0, -50), dynamo.Vec2{}, 1, 5, dynamo.Material{})
			pin, err := dynamo.NewPinJoint(w.StaticBody(), bob, dynamo.Vec2{})
			Expect(err).NotTo(HaveOccurred())
			Expect(w.AddConstraint(pin)).To(Succeed())

			Expect(w.RemoveBody(bob)).To(Succeed())
			Expect(w.Bodies()).To(BeEmpty())
			Expect(w.Shapes()).To(BeEmpty())
			Expect(w.Constraints()).To(BeEmpty())
			Expect(w.RemoveBody(bob)).To(MatchError(dynamo.ErrUnknownBody))
			Expect(w.RemoveBody(w.StaticBody())).To(MatchError(dynamo.ErrUnknownBody))
		})

		It("refuses bodies from another world", func() {
			other := newWorld()
			stranger, err := other.AddBody(dynamo.BodyDef{Mass: 1})
			Expect(err).NotTo(HaveOccurred())
			c, err := dynamo.NewCircle(1, dynamo.Vec2{}, dynamo.Material{})
			Expect(err).NotTo(HaveOccurred())
			Expect(w.AddShape(stranger, c)).To(MatchError(dynamo.ErrUnknownBody))
		})
	})

	DescribeTable("rejects malformed configuration",
		func(build func(w *dynamo.World) error) {
			err := build(w)
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
			var cfgErr *dynamo.ConfigurationError
			Expect(err).To(BeAssignableToTypeOf(cfgErr))
		},
		Entry("negative mass", func(w *dynamo.World) error {
			_, err := w.AddBody(dynamo.BodyDef{Mass: -1})
			return err
		}),
		Entry("zero mass", func(w *dynamo.World) error {
			_, err := w.AddBody(dynamo.BodyDef{})
			return err
		}),
		Entry("zero radius", func(w *dynamo.World) error {
			_, err := dynamo.NewCircle(0, dynamo.Vec2{}, dynamo.Material{})
			return err
		}),
		Entry("elasticity above one", func(w *dynamo.World) error {
			_, err := dynamo.NewCircle(1, dynamo.Vec2{}, dynamo.Material{Elasticity: 1.5})
			return err
		}),
		Entry("segment on a dynamic body", func(w *dynamo.World) error {
			b, err := w.AddBody(dynamo.BodyDef{Mass: 1})
			if err != nil {
				return err
			}
			s, err := dynamo.NewSegment(dynamo.V(0, 0), dynamo.V(1, 0), 1, dynamo.Material{})
			if err != nil {
				return err
			}
			return w.AddShape(b, s)
		}),
		Entry("separated pin anchors", func(w *dynamo.World) error {
			b, err := w.AddBody(dynamo.BodyDef{Position: dynamo.V(10, 0), Mass: 1})
			if err != nil {
				return err
			}
			_, err = dynamo.NewPinJointLocal(w.StaticBody(), b, dynamo.Vec2{}, dynamo.Vec2{})
			return err
		}),
		Entry("tracker on the static body", func(w *dynamo.World) error {
			_, err := dynamo.NewCentripetalTracker(w.StaticBody(), dynamo.Vec2{})
			return err
		}),
		Entry("negative motor torque", func(w *dynamo.World) error {
			b, err := w.AddBody(dynamo.BodyDef{Mass: 1})
			if err != nil {
				return err
			}
			_, err = dynamo.NewMotor(w.StaticBody(), b, 1, -1)
			return err
		}),
	)
})
