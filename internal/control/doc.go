// Package control holds the runtime toggles a user can flip while a scene
// is running.
//
// Front ends translate their own key events into key names and pass them to
// [InputState.HandleKey]; the resulting state is handed to the scene on every
// update:
//
//	var in control.InputState
//	switch in.HandleKey("c") {
//	case control.ActionQuit:
//		return
//	}
//	scene.Update(in, dt)
package control
