package dynamo

import (
	"math"
	"testing"
)

func attach(t *testing.T, w *World, pos Vec2, s *Shape) *Shape {
	t.Helper()
	b, err := w.AddBody(BodyDef{Position: pos, Mass: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.AddShape(b, s); err != nil {
		t.Fatal(err)
	}
	return s
}

func near(a, b Vec2) bool {
	return math.Abs(a[0]-b[0]) < 1e-9 && math.Abs(a[1]-b[1]) < 1e-9
}

func TestCollideCircleBox(t *testing.T) {
	w, _ := NewWorld(DefaultConfig())
	c, _ := NewCircle(10, Vec2{}, Material{})
	box, _ := NewBox(40, 40, Material{})
	circle := attach(t, w, V(0, 25), c)
	poly := attach(t, w, V(0, 0), box)

	got, ok := Collide(circle, poly)
	if !ok {
		t.Fatal("expected contact")
	}
	if got.ShapeA != circle || got.ShapeB != poly {
		t.Error("contact shapes out of order")
	}
	if !near(got.Normal, V(0, -1)) {
		t.Errorf("expected normal (0,-1), got %v", got.Normal)
	}
	if math.Abs(got.Depth-5) > 1e-9 {
		t.Errorf("expected depth 5, got %g", got.Depth)
	}
	if !near(got.Point, V(0, 17.5)) {
		t.Errorf("expected point (0,17.5), got %v", got.Point)
	}

	rev, ok := Collide(poly, circle)
	if !ok || !near(rev.Normal, V(0, 1)) || rev.ShapeA != poly {
		t.Errorf("reversed query gave %+v", rev)
	}
}

func TestCollideBoxBox(t *testing.T) {
	w, _ := NewWorld(DefaultConfig())
	s1, _ := NewBox(20, 20, Material{})
	s2, _ := NewBox(20, 20, Material{})
	a := attach(t, w, V(0, 0), s1)
	b := attach(t, w, V(15, 0), s2)

	got, ok := Collide(a, b)
	if !ok {
		t.Fatal("expected contact")
	}
	if !near(got.Normal, V(1, 0)) {
		t.Errorf("expected normal (1,0), got %v", got.Normal)
	}
	if math.Abs(got.Depth-5) > 1e-9 {
		t.Errorf("expected depth 5, got %g", got.Depth)
	}
	if !near(got.Point, V(7.5, 0)) {
		t.Errorf("expected point (7.5,0), got %v", got.Point)
	}
}

func TestCollideCircleSegment(t *testing.T) {
	w, _ := NewWorld(DefaultConfig())
	seg, _ := NewSegment(V(-10, 0), V(10, 0), 2, Material{})
	if err := w.AddShape(w.StaticBody(), seg); err != nil {
		t.Fatal(err)
	}
	c, _ := NewCircle(5, Vec2{}, Material{})
	circle := attach(t, w, V(0, 4), c)

	got, ok := Collide(seg, circle)
	if !ok {
		t.Fatal("expected contact")
	}
	if !near(got.Normal, V(0, 1)) {
		t.Errorf("expected normal (0,1), got %v", got.Normal)
	}
	if math.Abs(got.Depth-2) > 1e-9 {
		t.Errorf("expected depth 2, got %g", got.Depth)
	}
	if !near(got.Point, V(0, 0)) {
		t.Errorf("expected point at origin, got %v", got.Point)
	}
}

func TestCollideCoincidentCircles(t *testing.T) {
	w, _ := NewWorld(DefaultConfig())
	c1, _ := NewCircle(3, Vec2{}, Material{})
	c2, _ := NewCircle(3, Vec2{}, Material{})
	a := attach(t, w, V(5, 5), c1)
	b := attach(t, w, V(5, 5), c2)

	got, ok := Collide(a, b)
	if !ok {
		t.Fatal("expected contact")
	}
	if !near(got.Normal, V(0, 1)) || got.Depth != 6 {
		t.Errorf("unexpected contact %+v", got)
	}
}

func TestCollideSeparated(t *testing.T) {
	w, _ := NewWorld(DefaultConfig())
	c1, _ := NewCircle(3, Vec2{}, Material{})
	c2, _ := NewCircle(3, Vec2{}, Material{})
	box, _ := NewBox(4, 4, Material{})
	a := attach(t, w, V(0, 0), c1)
	b := attach(t, w, V(6, 0), c2)
	p := attach(t, w, V(0, 10), box)

	if _, ok := Collide(a, b); ok {
		t.Error("touching circles reported as overlapping")
	}
	if _, ok := Collide(a, p); ok {
		t.Error("distant circle and box reported as overlapping")
	}
}

func TestSweepAndPrune(t *testing.T) {
	w, _ := NewWorld(DefaultConfig())
	c1, _ := NewCircle(5, Vec2{}, Material{})
	c2, _ := NewCircle(5, Vec2{}, Material{})
	c3, _ := NewCircle(5, Vec2{}, Material{})
	first := attach(t, w, V(10, 0), c1)
	second := attach(t, w, V(2, 0), c2)
	attach(t, w, V(100, 0), c3)

	pairs := sweepAndPrune(w.shapes)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].a != first || pairs[0].b != second {
		t.Error("pair not ordered by insertion")
	}

	first.SetGroup(3)
	second.SetGroup(3)
	if pairs := sweepAndPrune(w.shapes); len(pairs) != 0 {
		t.Errorf("shapes in one group paired: %d", len(pairs))
	}
}

func TestStaticShapesNeverPair(t *testing.T) {
	w, _ := NewWorld(DefaultConfig())
	s1, _ := NewSegment(V(0, 0), V(10, 0), 1, Material{})
	s2, _ := NewSegment(V(5, -5), V(5, 5), 1, Material{})
	w.AddShape(w.StaticBody(), s1)
	w.AddShape(w.StaticBody(), s2)
	if pairs := sweepAndPrune(w.shapes); len(pairs) != 0 {
		t.Errorf("static shapes paired: %d", len(pairs))
	}
}
