// Package viz renders scenes in the terminal.
//
// The package implements a live view using the Bubble Tea framework:
//
//   - [Model]: one running scene with an energy chart and status panel
//   - [NewMenu]: scenario and preset picker that opens a [Model]
//   - [Canvas]: Braille dot canvas the [Renderer] draws frames onto
//
// # Key Bindings
//
//	v     - velocity vectors
//	a     - acceleration vectors
//	c     - centripetal force on/off
//	Space - pause/resume
//	R     - reset the scene
//	T     - cycle color themes
//	G     - toggle GIF recording
//	?     - show help
package viz
