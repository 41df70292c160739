package snake

import (
	"github.com/vovakirdan/snake/internal/config"
)

// Move is an accepted direction change. Tick is the number of ticks that had
// completed when the change was made, so it applies to tick Tick+1.
type Move struct {
	Tick uint64    `json:"tick"`
	Dir  Direction `json:"dir"`
}

// Journal is enough to reproduce a run: food placement depends only on the
// seed, and movement only on the accepted direction changes.
type Journal struct {
	Seed   int64  `json:"seed"`
	Moves  []Move `json:"moves"`
	Ticks  uint64 `json:"ticks"`
	Score  int    `json:"score"`
	Length int    `json:"length"`
	Over   bool   `json:"over"`
}

// Journal returns the record of the current run so far.
func (e *Engine) Journal() Journal {
	moves := make([]Move, len(e.moves))
	copy(moves, e.moves)
	return Journal{
		Seed:   e.seed,
		Moves:  moves,
		Ticks:  e.tick,
		Score:  e.score,
		Length: len(e.snake),
		Over:   e.over,
	}
}

// Player steps a fresh engine through a journal one tick at a time.
type Player struct {
	engine  *Engine
	journal Journal
	next    int // Index of the next move to apply
}

// NewPlayer builds an engine seeded from j and starts it.
func NewPlayer(cfg config.Config, j Journal) *Player {
	e := New(cfg, j.Seed)
	e.Start()
	return &Player{engine: e, journal: j}
}

// Engine returns the engine being replayed.
func (p *Player) Engine() *Engine {
	return p.engine
}

// Done reports whether the recorded run has been fully replayed.
func (p *Player) Done() bool {
	return p.engine.Over() || p.engine.Ticks() >= p.journal.Ticks
}

// Progress returns replayed and total ticks.
func (p *Player) Progress() (done, total uint64) {
	return p.engine.Ticks(), p.journal.Ticks
}

// Step applies the moves recorded before the next tick, then ticks.
// Returns false once the replay is finished.
func (p *Player) Step() bool {
	if p.Done() {
		return false
	}
	now := p.engine.Ticks()
	for p.next < len(p.journal.Moves) && p.journal.Moves[p.next].Tick <= now {
		p.engine.SetDirection(p.journal.Moves[p.next].Dir)
		p.next++
	}
	p.engine.Tick()
	return true
}

// Replay runs j to completion and returns the final engine.
func Replay(cfg config.Config, j Journal) *Engine {
	p := NewPlayer(cfg, j)
	for p.Step() {
	}
	return p.engine
}
