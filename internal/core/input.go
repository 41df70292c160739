package core

import "strings"

// Action represents a semantic game action, abstracted from physical key
// presses and wire messages. Terminal keys and browser messages both map
// onto these.
type Action int

const (
	ActionNone   Action = iota
	ActionUp            // Up arrow, W
	ActionDown          // Down arrow, S
	ActionLeft          // Left arrow, A
	ActionRight         // Right arrow, D
	ActionToggle        // Space, P - start/pause/resume
	ActionReset         // R - stop and start over
	ActionQuit          // Q, Ctrl+C
)

var actionNames = map[Action]string{
	ActionNone:   "none",
	ActionUp:     "up",
	ActionDown:   "down",
	ActionLeft:   "left",
	ActionRight:  "right",
	ActionToggle: "toggle",
	ActionReset:  "reset",
	ActionQuit:   "quit",
}

// String returns the wire name of the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAction maps a wire name ("up", "toggle", ...) or a browser key name
// ("ArrowUp") to an Action. Unknown names map to ActionNone.
func ParseAction(name string) Action {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "up", "arrowup":
		return ActionUp
	case "down", "arrowdown":
		return ActionDown
	case "left", "arrowleft":
		return ActionLeft
	case "right", "arrowright":
		return ActionRight
	case "toggle", "start", "pause":
		return ActionToggle
	case "reset":
		return ActionReset
	case "quit":
		return ActionQuit
	}
	return ActionNone
}
