package control

// Action is a request a key makes of the front end beyond flipping a toggle.
type Action int

const (
	ActionNone Action = iota
	ActionToggled
	ActionReset
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionToggled:
		return "toggled"
	case ActionReset:
		return "reset"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// InputState carries the user toggles into Scene.Update. The zero value has
// every overlay hidden, the tracker enabled and the scene running.
type InputState struct {
	ShowVelocity     bool
	ShowAcceleration bool
	// CentripetalOff disables the centripetal tracker, if the scene has one.
	CentripetalOff bool
	Paused         bool
}

// CentripetalEnabled reports whether the tracker should apply force.
func (s InputState) CentripetalEnabled() bool { return !s.CentripetalOff }

// Keys lists the bindings in display order.
var Keys = []struct{ Key, Help string }{
	{"v", "velocity vectors"},
	{"a", "acceleration vectors"},
	{"c", "centripetal force"},
	{"space", "pause"},
	{"r", "reset"},
	{"q", "quit"},
}

// HandleKey applies one key press. Unknown keys are ignored.
func (s *InputState) HandleKey(key string) Action {
	switch key {
	case "v", "V":
		s.ShowVelocity = !s.ShowVelocity
	case "a", "A":
		s.ShowAcceleration = !s.ShowAcceleration
	case "c", "C":
		s.CentripetalOff = !s.CentripetalOff
	case " ", "space":
		s.Paused = !s.Paused
	case "r", "R":
		return ActionReset
	case "q", "Q", "esc", "ctrl+c":
		return ActionQuit
	default:
		return ActionNone
	}
	return ActionToggled
}
