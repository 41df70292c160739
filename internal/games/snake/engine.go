// Package snake implements the classic snake game as an explicit engine:
// all state lives in an Engine value, advanced by Tick and steered by
// SetDirection. Timing, input devices and drawing surfaces belong to the
// caller.
package snake

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/snake/internal/config"
)

// Engine holds the state of one snake game.
// It is not safe for concurrent use; drive it from a single goroutine
// (see Loop) or from a Bubble Tea Update.
type Engine struct {
	cfg      config.Config
	renderer Renderer

	seed int64
	rng  *rand.Rand

	snake     []Cell // Head at index 0
	food      Cell
	direction Direction
	pending   Direction // Buffered direction for the next tick
	score     int
	speed     int // Tick interval in ms
	tick      uint64

	running bool
	started bool
	over    bool

	moves []Move // Accepted direction changes for the journal
}

// New creates an engine and initialises the first run with seed.
func New(cfg config.Config, seed int64) *Engine {
	e := &Engine{
		cfg:  cfg,
		seed: seed,
	}
	e.Init()
	return e
}

// SetRenderer attaches a render target. Pass nil to detach.
func (e *Engine) SetRenderer(r Renderer) {
	e.renderer = r
}

// Init places the starting snake, clears score and speed, spawns food and
// draws the board. The running flag is left off.
func (e *Engine) Init() {
	e.rng = rand.New(rand.NewSource(e.seed))

	e.snake = e.snake[:0]
	for _, c := range e.cfg.Snake.Start {
		e.snake = append(e.snake, Cell{X: c[0], Y: c[1]})
	}
	dir, ok := ParseDirection(e.cfg.Snake.Direction)
	if !ok {
		dir = DirRight
	}
	e.direction = dir
	e.pending = dir

	e.score = 0
	e.tick = 0
	e.speed = e.cfg.Speed.InitialMs
	e.running = false
	e.started = false
	e.over = false
	e.moves = nil

	e.food, _ = PlaceFood(e.rng, e.cfg.Grid.Count, e.snake)

	e.draw(EventInit)
}

// Start sets the running flag. Starting a finished game begins a fresh run
// first. Returns false if the engine was already running.
func (e *Engine) Start() bool {
	if e.running {
		return false
	}
	if e.over {
		e.Reset()
	}
	e.running = true
	e.started = true
	e.draw(EventStart)
	return true
}

// Pause clears the running flag and keeps the state for a later Start.
// Returns false if the engine was not running.
func (e *Engine) Pause() bool {
	if !e.running {
		return false
	}
	e.running = false
	e.draw(EventPause)
	return true
}

// Toggle starts a stopped engine or pauses a running one.
func (e *Engine) Toggle() {
	if e.running {
		e.Pause()
		return
	}
	e.Start()
}

// Reset stops the game and begins a new run with the next seed.
func (e *Engine) Reset() {
	e.running = false
	e.seed = e.rng.Int63()
	e.Init()
}

// SetDirection buffers d for the next tick. It is ignored unless the engine
// is running, d is a valid direction and d does not reverse the direction
// the snake is currently moving in. Reports whether d was accepted.
func (e *Engine) SetDirection(d Direction) bool {
	if !e.running || !d.Valid() || IsReverse(e.direction, d) {
		return false
	}
	e.pending = d
	e.moves = append(e.moves, Move{Tick: e.tick, Dir: d})
	return true
}

// Tick advances the game by one cell. Drivers call it only while Running;
// once the game is over it does nothing.
func (e *Engine) Tick() TickResult {
	if e.over || len(e.snake) == 0 {
		return TickResult{Over: e.over, Score: e.score}
	}

	e.tick++
	e.direction = e.pending

	head := e.snake[0].Step(e.direction)
	ate := head == e.food
	e.snake = Advance(e.snake, head, ate)

	event := EventMove
	if ate {
		e.score += e.cfg.Scoring.PointsPerFood
		e.food, _ = PlaceFood(e.rng, e.cfg.Grid.Count, e.snake)
		e.speed = NextSpeed(e.speed, e.cfg.Speed.StepMs, e.cfg.Speed.MinMs)
		event = EventAte
	}

	if Collides(e.snake, e.cfg.Grid.Count, e.cfg.Collision.SelfFromIndex) {
		e.running = false
		e.over = true
		event = EventGameOver
	}

	e.draw(event)

	return TickResult{
		Ate:   ate,
		Over:  e.over,
		Score: e.score,
		Event: event,
	}
}

// draw sends the current frame to the attached renderer, if any.
func (e *Engine) draw(ev Event) {
	if e.renderer == nil {
		return
	}
	f := e.Frame()
	f.Event = ev
	e.renderer.Draw(f)
}

// Frame returns a copy of the drawable state.
func (e *Engine) Frame() Frame {
	return Frame{
		Grid:   e.cfg.Grid.Count,
		Snake:  e.Snake(),
		Food:   e.food,
		Score:  e.score,
		Speed:  e.speed,
		Tick:   e.tick,
		State:  e.State(),
		Length: len(e.snake),
	}
}

// State returns the lifecycle state of the current run.
func (e *Engine) State() State {
	switch {
	case e.over:
		return StateOver
	case e.running:
		return StatePlaying
	case e.started:
		return StatePaused
	default:
		return StateReady
	}
}

// Snake returns a copy of the body, head first.
func (e *Engine) Snake() []Cell {
	out := make([]Cell, len(e.snake))
	copy(out, e.snake)
	return out
}

// Head returns the first segment.
func (e *Engine) Head() Cell {
	if len(e.snake) == 0 {
		return NoFood
	}
	return e.snake[0]
}

// Food returns the food cell, or NoFood when the board is full.
func (e *Engine) Food() Cell { return e.food }

// Score returns the current score.
func (e *Engine) Score() int { return e.score }

// Speed returns the tick interval in milliseconds.
func (e *Engine) Speed() int { return e.speed }

// Interval returns the tick interval as a duration.
func (e *Engine) Interval() time.Duration {
	return time.Duration(e.speed) * time.Millisecond
}

// Direction returns the direction the snake moved on the last tick.
func (e *Engine) Direction() Direction { return e.direction }

// Pending returns the direction the next tick will use.
func (e *Engine) Pending() Direction { return e.pending }

// Running reports whether the timer should be ticking.
func (e *Engine) Running() bool { return e.running }

// Over reports whether the current run ended in a collision.
func (e *Engine) Over() bool { return e.over }

// Ticks returns the number of ticks in the current run.
func (e *Engine) Ticks() uint64 { return e.tick }

// Seed returns the seed of the current run.
func (e *Engine) Seed() int64 { return e.seed }
