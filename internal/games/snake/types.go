package snake

import (
	"github.com/vovakirdan/snake/internal/core"
)

// Direction represents the snake's movement direction.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

// String returns the lower-case name of the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= DirRight && d <= DirUp
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	}
	return d
}

// Vector returns the unit step for the direction. Y grows downwards.
func (d Direction) Vector() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

// ParseDirection converts a name ("up", "down", "left", "right") to a Direction.
func ParseDirection(name string) (Direction, bool) {
	switch name {
	case "up":
		return DirUp, true
	case "down":
		return DirDown, true
	case "left":
		return DirLeft, true
	case "right":
		return DirRight, true
	}
	return 0, false
}

// DirectionFromAction maps a steering action to a Direction.
func DirectionFromAction(a core.Action) (Direction, bool) {
	switch a {
	case core.ActionUp:
		return DirUp, true
	case core.ActionDown:
		return DirDown, true
	case core.ActionLeft:
		return DirLeft, true
	case core.ActionRight:
		return DirRight, true
	}
	return 0, false
}

// Cell is a grid coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NoFood marks a board with no free cell left for food.
var NoFood = Cell{X: -1, Y: -1}

// Step returns the neighbouring cell in direction d.
func (c Cell) Step(d Direction) Cell {
	dx, dy := d.Vector()
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// State is the lifecycle state of a run.
type State string

const (
	StateReady   State = "ready"   // initialised, never started
	StatePlaying State = "playing" // timer running
	StatePaused  State = "paused"  // started, then paused
	StateOver    State = "game_over"
)

// Event names what caused a frame to be drawn.
type Event string

const (
	EventInit     Event = "init"
	EventStart    Event = "start"
	EventPause    Event = "pause"
	EventMove     Event = "move"
	EventAte      Event = "ate"
	EventGameOver Event = "game_over"
)

// Frame is everything a render target needs to draw one picture of the board.
type Frame struct {
	Grid   int    `json:"grid"`
	Snake  []Cell `json:"snake"` // Head first
	Food   Cell   `json:"food"`
	Score  int    `json:"score"`
	Speed  int    `json:"speed"` // Tick interval in ms
	Tick   uint64 `json:"tick"`
	State  State  `json:"state"`
	Event  Event  `json:"event"`
	Length int    `json:"length"`
}

// Renderer receives a frame whenever the engine state visibly changes.
type Renderer interface {
	Draw(f Frame)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(f Frame)

// Draw calls fn(f).
func (fn RendererFunc) Draw(f Frame) {
	fn(f)
}

// TickResult reports what a single tick did.
type TickResult struct {
	Ate   bool
	Over  bool
	Score int
	Event Event
}
