package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/mechsim/internal/control"
	"github.com/san-kum/mechsim/internal/scenario"
	"github.com/san-kum/mechsim/internal/screen"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColBody    = rl.NewColor(220, 220, 220, 255)
	ColStatic  = rl.NewColor(120, 120, 120, 255)
	ColJoint   = rl.NewColor(90, 90, 90, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTrail   = rl.NewColor(60, 90, 60, 255)
	ColVel     = rl.NewColor(0, 200, 255, 255)
	ColAccel   = rl.NewColor(255, 170, 0, 255)
	ColCentrip = rl.NewColor(255, 70, 140, 255)
)

// keyBindings maps raylib keys to the names control.InputState handles.
var keyBindings = []struct {
	key  int32
	name string
}{
	{rl.KeyV, "v"},
	{rl.KeyA, "a"},
	{rl.KeyC, "c"},
	{rl.KeySpace, "space"},
	{rl.KeyR, "r"},
	{rl.KeyQ, "q"},
}

const maxTrail = 200

type App struct {
	scene *scenario.Scene
	input control.InputState
	trail []rl.Vector2
	quit  bool
	err   error
}

func NewApp(scene *scenario.Scene) *App {
	return &App{scene: scene, trail: make([]rl.Vector2, 0, maxTrail)}
}

// Run opens a window the size of the scene and blocks until it is closed
// or q is pressed.
func Run(scene *scenario.Scene) error {
	space := scene.Space()
	rl.InitWindow(int32(space.Width), int32(space.Height), "mechsim")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)

	app := NewApp(scene)
	for !app.quit && !rl.WindowShouldClose() {
		app.Update()
		app.Draw()
	}
	return app.err
}

func (a *App) Update() {
	for _, b := range keyBindings {
		if !rl.IsKeyPressed(b.key) {
			continue
		}
		switch a.input.HandleKey(b.name) {
		case control.ActionQuit:
			a.quit = true
		case control.ActionReset:
			a.err = a.scene.Reset()
			a.trail = a.trail[:0]
		}
	}

	a.scene.Update(a.input, a.scene.Dt())

	if b := a.scene.Focus(); b != nil && !a.input.Paused {
		p := a.scene.Space().ToScreen(b.Position())
		a.trail = append(a.trail, vec(p))
		if len(a.trail) > maxTrail {
			a.trail = a.trail[1:]
		}
	}
}

func vec(p screen.Point) rl.Vector2 { return rl.NewVector2(float32(p.X), float32(p.Y)) }

func (a *App) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(ColBg)

	for i := 1; i < len(a.trail); i++ {
		rl.DrawLineV(a.trail[i-1], a.trail[i], ColTrail)
	}

	f := a.scene.Frame()
	for _, s := range f.Shapes {
		drawShape(s)
	}
	for _, j := range f.Joints {
		rl.DrawLineEx(vec(j.Anchor), vec(j.B), 2, ColJoint)
		rl.DrawCircleV(vec(j.Anchor), 3, ColJoint)
	}
	for _, arrow := range a.scene.Arrows(f, a.input) {
		drawArrow(arrow)
	}

	a.drawHUD()
}

func drawShape(s screen.ShapeView) {
	switch s.Kind {
	case "circle":
		c := vec(s.Center)
		rl.DrawCircleLines(int32(s.Center.X), int32(s.Center.Y), float32(s.Radius), ColBody)
		spoke := s.Center.Add(screen.Point{X: math.Cos(s.Angle), Y: math.Sin(s.Angle)}.Scale(s.Radius))
		rl.DrawLineV(c, vec(spoke), ColBody)
	case "segment":
		rl.DrawLineEx(vec(s.A), vec(s.B), float32(max(2*s.Thickness, 1)), ColStatic)
	case "polygon":
		n := len(s.Vertices)
		for i := range s.Vertices {
			rl.DrawLineV(vec(s.Vertices[i]), vec(s.Vertices[(i+1)%n]), ColBody)
		}
	}
}

func drawArrow(a scenario.Arrow) {
	col := ColVel
	switch a.Kind {
	case "acceleration":
		col = ColAccel
	case "centripetal":
		col = ColCentrip
	}
	rl.DrawLineEx(vec(a.From), vec(a.To), 2, col)

	d := a.To.Sub(a.From)
	if l := d.Len(); l > 6 {
		u := d.Scale(1 / l)
		base := a.To.Sub(u.Scale(10))
		n := screen.Point{X: -u.Y, Y: u.X}.Scale(5)
		// raylib wants counter-clockwise vertices on screen
		rl.DrawTriangle(vec(a.To), vec(base.Sub(n)), vec(base.Add(n)), col)
	}
	if a.Label != "" {
		rl.DrawText(a.Label, int32(a.To.X)+6, int32(a.To.Y)-6, 14, col)
	}
}

func (a *App) drawHUD() {
	y := int32(10)
	for _, line := range a.scene.Status(a.input) {
		rl.DrawText(line, 10, y, 16, ColText)
		y += 20
	}
	if a.err != nil {
		rl.DrawText(a.err.Error(), 10, y, 16, ColCentrip)
		y += 20
	}
	help := ""
	for _, k := range control.Keys {
		help += fmt.Sprintf("%s %s   ", k.Key, k.Help)
	}
	rl.DrawText(help, 10, int32(a.scene.Space().Height)-24, 14, ColText)
}
