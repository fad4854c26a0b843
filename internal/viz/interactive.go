package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/scenario"
)

var scenarioInfo = map[string]string{
	config.ScenarioFree:        "balls and boxes in a walled box",
	config.ScenarioPendulum:    "bob on a pin joint",
	config.ScenarioCentripetal: "ball held on a circle",
	config.ScenarioSlope:       "blocks sliding down an incline",
	config.ScenarioCar:         "motor-driven wheels",
}

const (
	stateScenario = iota
	statePreset
	stateSim
)

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// menu picks a scenario and preset, then hands over to the live view.
type menu struct {
	state    int
	cursor   int
	scenario string
	presets  []string
	live     Model
	err      error
}

func NewMenu() tea.Model {
	return menu{}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		live, cmd := m.live.Update(msg)
		m.live = live.(Model)
		return m, cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	n := len(config.Scenarios)
	if m.state == statePreset {
		n = len(m.presets)
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "esc":
		if m.state == statePreset {
			m.state, m.cursor = stateScenario, 0
		}
	case "enter", " ":
		if m.state == stateScenario {
			m.scenario = config.Scenarios[m.cursor]
			m.presets = config.ListPresets(m.scenario)
			m.state, m.cursor = statePreset, 0
			return m, nil
		}
		return m.start()
	}
	return m, nil
}

func (m menu) start() (tea.Model, tea.Cmd) {
	scene, err := scenario.New(config.GetPreset(m.scenario, m.presets[m.cursor]))
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live = NewModel(scene)
	m.state = stateSim
	return m, m.live.Init()
}

func (m menu) View() string {
	if m.state == stateSim {
		return m.live.View()
	}

	var b strings.Builder
	title, sub := "MECHSIM", "2d rigid-body playground"
	items := config.Scenarios
	if m.state == statePreset {
		title, sub, items = strings.ToUpper(m.scenario), scenarioInfo[m.scenario], m.presets
	}
	b.WriteString("\n\n    " + menuTitle.Render(title) + "\n    " + menuSub.Render(sub) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")

	for i, name := range items {
		desc := ""
		if m.state == stateScenario {
			desc = scenarioInfo[name]
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-14s", name)), menuDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", menuIdle.Render(fmt.Sprintf("%-14s", name)), menuIdle.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + menuDesc.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n    " + menuKey.Render("j/k") + menuIdle.Render(" navigate  ") +
		menuKey.Render("enter") + menuIdle.Render(" select  ") +
		menuKey.Render("esc") + menuIdle.Render(" back  ") +
		menuKey.Render("q") + menuIdle.Render(" quit") + "\n")
	return b.String()
}

func RunInteractive() error {
	_, err := tea.NewProgram(NewMenu(), tea.WithAltScreen()).Run()
	return err
}
