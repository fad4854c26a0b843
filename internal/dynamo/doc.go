// Package dynamo is a small 2D rigid-body kernel.
//
// A [World] owns every entity and advances them with a fixed, caller-supplied
// timestep:
//
//   - [Body]: mass, pose, velocity and force/torque accumulators
//   - [Shape]: circle, segment (static walls only) or convex polygon
//   - [Constraint]: [PinJoint] and [Motor]
//   - [ForceGenerator]: [UniformField], [CentripetalTracker],
//     [SlopeGravityProjector] or any caller type
//
// # Step order
//
// Each call to [World.Step] applies enabled generators, integrates
// velocities (semi-implicit Euler), detects and resolves contacts, runs the
// constraint passes, integrates positions and clears the accumulators.
// Identical worlds stepped with identical dt produce identical states.
//
// # Example
//
//	w, _ := dynamo.NewWorld(dynamo.DefaultConfig())
//	ball, _ := w.AddBody(dynamo.BodyDef{Position: dynamo.V(400, 300), Mass: 1})
//	circle, _ := dynamo.NewCircle(15, dynamo.Vec2{}, dynamo.Material{Elasticity: 0.9})
//	_ = w.AddShape(ball, circle)
//	gravity, _ := dynamo.NewUniformField(dynamo.V(0, -981))
//	_ = w.RegisterForceGenerator(gravity)
//	for i := 0; i < 60; i++ {
//	    w.Step(1.0 / 60)
//	}
//
// # Thread Safety
//
// A World is NOT safe for concurrent use. Run independent worlds on
// separate goroutines instead.
package dynamo
