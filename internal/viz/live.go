package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mechsim/internal/control"
	"github.com/san-kum/mechsim/internal/scenario"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	gifPath         = "mechsim.gif"
)

type TickMsg time.Time

// Model is the bubbletea live view of one scene. Keys go through
// control.InputState; t, g and ? are view-only.
type Model struct {
	scene     *scenario.Scene
	input     control.InputState
	renderer  *Renderer
	theme     Theme
	energy    []float64
	recording bool
	frames    []*image.Paletted
	showHelp  bool
	err       error
}

func NewModel(scene *scenario.Scene) Model {
	m := Model{
		scene:    scene,
		renderer: NewRenderer(width, height, scene.Space()),
		theme:    Themes[0],
		energy:   make([]float64, 0, historyCapacity),
	}
	m.draw()
	return m
}

func (m Model) Input() control.InputState { return m.input }
func (m Model) Scene() *scenario.Scene    { return m.scene }

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "t":
			m.theme = NextTheme(m.theme.Name)
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "g":
			m.toggleRecording()
			return m, nil
		}
		switch m.input.HandleKey(msg.String()) {
		case control.ActionQuit:
			if m.recording {
				m.toggleRecording()
			}
			return m, tea.Quit
		case control.ActionReset:
			m.reset()
		case control.ActionToggled:
			m.draw()
		}
	case TickMsg:
		m.step()
		m.draw()
		if m.recording {
			m.frames = append(m.frames, m.renderer.Canvas().Image(8, 16, color.White))
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.scene.Update(m.input, m.scene.Dt())
	if m.input.Paused {
		return
	}
	m.energy = append(m.energy, m.scene.World().KineticEnergy())
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

func (m *Model) draw() {
	f := m.scene.Frame()
	focus := -1
	if b := m.scene.Focus(); b != nil {
		focus = b.ID()
	}
	m.renderer.Draw(f, m.scene.Arrows(f, m.input), focus)
}

func (m *Model) reset() {
	m.err = m.scene.Reset()
	m.energy = m.energy[:0]
	m.renderer.ResetTrail()
	m.draw()
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = make([]*image.Paletted, 0)
		return
	}
	m.recording = false
	m.err = saveGIF(gifPath, m.frames)
	m.frames = nil
}

func saveGIF(path string, frames []*image.Paletted) error {
	if len(frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

func (m Model) status() string {
	switch {
	case m.recording:
		return "● REC"
	case m.input.Paused:
		return "PAUSED"
	default:
		return "RUNNING"
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (m Model) View() string {
	st := m.theme.styles()
	canvasView := st.canvas.Render(m.renderer.Canvas().String())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.scene.Kind().String())) + "\n")
	s.WriteString(st.status.Render(m.status()) + "\n")
	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}
	for _, line := range m.scene.Status(m.input) {
		s.WriteString(st.value.Render(line) + "\n")
	}
	s.WriteString("\n")
	s.WriteString(st.label.Render("velocity     ") + st.value.Render(onOff(m.input.ShowVelocity)) + "\n")
	s.WriteString(st.label.Render("acceleration ") + st.value.Render(onOff(m.input.ShowAcceleration)) + "\n")
	if m.scene.Tracker() != nil {
		s.WriteString(st.label.Render("centripetal  ") + st.value.Render(onOff(m.input.CentripetalEnabled())) + "\n")
	}
	if m.err != nil {
		s.WriteString(st.status.Render(m.err.Error()) + "\n")
	}

	var keys []string
	for _, k := range control.Keys {
		keys = append(keys, st.key.Render(k.Key)+" "+k.Help)
	}
	if m.showHelp {
		s.WriteString(st.help.Render(strings.Join(keys, "\n")+"\n"+
			st.key.Render("t")+" theme\n"+st.key.Render("g")+" record gif\n"+st.key.Render("?")+" help") + "\n")
	} else {
		s.WriteString(st.help.Render(fmt.Sprintf("%s help  %s quit", st.key.Render("?"), st.key.Render("q"))) + "\n")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
}

// Run starts the live view in the alternate screen.
func Run(scene *scenario.Scene) error {
	_, err := tea.NewProgram(NewModel(scene), tea.WithAltScreen()).Run()
	return err
}
