package snake

import (
	"testing"

	"github.com/vovakirdan/snake/internal/config"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(config.Default(), 12345)
}

func cellsEqual(a, b []Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestInit(t *testing.T) {
	e := newTestEngine(t)

	expected := []Cell{{10, 10}, {9, 10}, {8, 10}}
	if !cellsEqual(e.Snake(), expected) {
		t.Errorf("Snake() = %v, expected %v", e.Snake(), expected)
	}
	if e.Direction() != DirRight || e.Pending() != DirRight {
		t.Errorf("direction = %v/%v, expected right/right", e.Direction(), e.Pending())
	}
	if e.Score() != 0 {
		t.Errorf("Score() = %d, expected 0", e.Score())
	}
	if e.Speed() != 150 {
		t.Errorf("Speed() = %d, expected 150", e.Speed())
	}
	if e.Running() {
		t.Error("engine should not be running after Init")
	}
	if e.State() != StateReady {
		t.Errorf("State() = %s, expected %s", e.State(), StateReady)
	}
	if Occupies(e.Snake(), e.Food()) {
		t.Errorf("food %v spawned on the snake", e.Food())
	}
	if HitsWall(e.Food(), 20) {
		t.Errorf("food %v spawned outside the grid", e.Food())
	}
}

func TestTickMovesRight(t *testing.T) {
	e := newTestEngine(t)
	e.Start()
	e.food = Cell{X: 0, Y: 0}

	res := e.Tick()

	expected := []Cell{{11, 10}, {10, 10}, {9, 10}}
	if !cellsEqual(e.Snake(), expected) {
		t.Errorf("Snake() = %v, expected %v", e.Snake(), expected)
	}
	if e.Score() != 0 {
		t.Errorf("Score() = %d, expected 0", e.Score())
	}
	if res.Ate || res.Over || res.Event != EventMove {
		t.Errorf("Tick() = %+v, expected a plain move", res)
	}
}

func TestLengthInvariantWithoutFood(t *testing.T) {
	e := newTestEngine(t)
	e.Start()

	for i := 0; i < 8; i++ {
		e.food = Cell{X: 0, Y: 19}
		e.Tick()
		if len(e.Snake()) != 3 {
			t.Fatalf("tick %d: length = %d, expected 3", i+1, len(e.Snake()))
		}
	}
	if e.Head() != (Cell{X: 18, Y: 10}) {
		t.Errorf("Head() = %v, expected (18,10)", e.Head())
	}
}

func TestEatFood(t *testing.T) {
	e := newTestEngine(t)
	e.Start()
	e.food = Cell{X: 11, Y: 10}

	res := e.Tick()

	if !res.Ate || res.Event != EventAte {
		t.Fatalf("Tick() = %+v, expected to eat", res)
	}
	if e.Score() != 10 {
		t.Errorf("Score() = %d, expected 10", e.Score())
	}
	if len(e.Snake()) != 4 {
		t.Errorf("length = %d, expected 4", len(e.Snake()))
	}
	if e.Speed() != 148 {
		t.Errorf("Speed() = %d, expected 148", e.Speed())
	}
	if Occupies(e.Snake(), e.Food()) {
		t.Errorf("new food %v is on the snake", e.Food())
	}

	// Growth is permanent: the next plain move keeps the new length
	e.food = Cell{X: 0, Y: 19}
	e.Tick()
	if len(e.Snake()) != 4 {
		t.Errorf("length after next move = %d, expected 4", len(e.Snake()))
	}
	if e.Score() != 10 {
		t.Errorf("score changed on a plain move: %d", e.Score())
	}
}

func TestSpeedFloor(t *testing.T) {
	e := newTestEngine(t)
	e.Start()

	prev := e.Speed()
	for i := 0; i < 60; i++ {
		// Keep the snake on the board: feed it in place
		e.snake = []Cell{{5, 5}, {4, 5}, {3, 5}}
		e.direction, e.pending = DirRight, DirRight
		e.food = Cell{X: 6, Y: 5}
		e.Tick()

		if e.Speed() < 50 {
			t.Fatalf("speed dropped below floor: %d", e.Speed())
		}
		if prev > 50 && e.Speed() >= prev {
			t.Fatalf("speed did not decrease after eating: %d -> %d", prev, e.Speed())
		}
		prev = e.Speed()
	}
	if e.Speed() != 50 {
		t.Errorf("Speed() = %d, expected floor 50", e.Speed())
	}
	if got := e.Interval().Milliseconds(); got != 50 {
		t.Errorf("Interval() = %dms, expected 50ms", got)
	}
}

func TestSetDirectionRejectsReverse(t *testing.T) {
	e := newTestEngine(t)
	e.Start()

	if e.SetDirection(DirLeft) {
		t.Error("reversing from right to left should be rejected")
	}
	if e.Pending() != DirRight {
		t.Errorf("Pending() = %v, expected right", e.Pending())
	}

	if !e.SetDirection(DirUp) {
		t.Fatal("turning up should be accepted")
	}

	// The filter compares against the direction actually moved, not the
	// buffered one: down is still a legal turn from right.
	if !e.SetDirection(DirDown) {
		t.Error("down should be accepted while still moving right")
	}

	e.food = Cell{X: 0, Y: 0}
	e.Tick()
	if e.Direction() != DirDown {
		t.Fatalf("Direction() = %v, expected down", e.Direction())
	}
	if e.SetDirection(DirUp) {
		t.Error("reversing from down to up should be rejected")
	}
}

func TestSetDirectionIgnoredWhenStopped(t *testing.T) {
	e := newTestEngine(t)

	if e.SetDirection(DirUp) {
		t.Error("direction should be ignored before Start")
	}

	e.Start()
	e.Pause()
	if e.SetDirection(DirUp) {
		t.Error("direction should be ignored while paused")
	}

	e.Start()
	if e.SetDirection(Direction(42)) {
		t.Error("invalid direction should be ignored")
	}
	if e.Pending() != DirRight {
		t.Errorf("Pending() = %v, expected right", e.Pending())
	}
}

func TestWallCollision(t *testing.T) {
	tests := []struct {
		name  string
		snake []Cell
		dir   Direction
	}{
		{"right wall x=20", []Cell{{19, 10}, {18, 10}, {17, 10}}, DirRight},
		{"left wall x=-1", []Cell{{0, 5}, {1, 5}, {2, 5}}, DirLeft},
		{"top wall y=-1", []Cell{{4, 0}, {4, 1}, {4, 2}}, DirUp},
		{"bottom wall y=20", []Cell{{4, 19}, {4, 18}, {4, 17}}, DirDown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(t)
			e.Start()
			e.snake = tc.snake
			e.direction, e.pending = tc.dir, tc.dir
			e.food = Cell{X: 10, Y: 10}

			res := e.Tick()

			if !res.Over || res.Event != EventGameOver {
				t.Errorf("Tick() = %+v, expected game over", res)
			}
			if e.Running() {
				t.Error("engine should stop running on collision")
			}
			if e.State() != StateOver {
				t.Errorf("State() = %s, expected %s", e.State(), StateOver)
			}
		})
	}
}

func TestSelfCollision(t *testing.T) {
	e := newTestEngine(t)
	e.Start()

	// Moving right puts the head on the segment that ends up at index 4
	e.snake = []Cell{
		{X: 5, Y: 5},
		{X: 5, Y: 6},
		{X: 6, Y: 6},
		{X: 6, Y: 5},
		{X: 6, Y: 4},
		{X: 7, Y: 4},
	}
	e.direction, e.pending = DirRight, DirRight
	e.food = Cell{X: 0, Y: 0}

	if res := e.Tick(); !res.Over {
		t.Error("game should be over after self collision")
	}
}

func TestTickAfterGameOverIsNoop(t *testing.T) {
	e := newTestEngine(t)
	e.Start()
	e.snake = []Cell{{19, 10}, {18, 10}, {17, 10}}
	e.Tick()

	before := e.Snake()
	ticks := e.Ticks()
	res := e.Tick()

	if !res.Over {
		t.Error("Tick() after game over should still report over")
	}
	if !cellsEqual(e.Snake(), before) || e.Ticks() != ticks {
		t.Error("Tick() after game over should not change state")
	}
}

func TestStartAfterGameOverBeginsNewRun(t *testing.T) {
	e := newTestEngine(t)
	e.Start()
	e.snake = []Cell{{19, 10}, {18, 10}, {17, 10}}
	e.score = 40
	e.Tick()
	oldSeed := e.Seed()

	if !e.Start() {
		t.Fatal("Start() after game over should start")
	}
	if e.State() != StatePlaying {
		t.Errorf("State() = %s, expected %s", e.State(), StatePlaying)
	}
	if e.Score() != 0 || len(e.Snake()) != 3 || e.Head() != (Cell{X: 10, Y: 10}) {
		t.Errorf("expected a fresh run, got score %d snake %v", e.Score(), e.Snake())
	}
	if e.Seed() == oldSeed {
		t.Error("a new run should use a new seed")
	}
}

func TestPauseResumeKeepsState(t *testing.T) {
	e := newTestEngine(t)
	e.Start()
	e.food = Cell{X: 0, Y: 0}
	e.Tick()
	e.Tick()

	if !e.Pause() {
		t.Fatal("Pause() should succeed while running")
	}
	if e.Pause() {
		t.Error("second Pause() should report no change")
	}
	if e.State() != StatePaused {
		t.Errorf("State() = %s, expected %s", e.State(), StatePaused)
	}

	head := e.Head()
	if !e.Start() {
		t.Fatal("Start() should resume")
	}
	if e.Start() {
		t.Error("second Start() should report no change")
	}
	if e.Head() != head || e.Ticks() != 2 {
		t.Errorf("resume should reuse state: head %v ticks %d", e.Head(), e.Ticks())
	}
}

func TestToggle(t *testing.T) {
	e := newTestEngine(t)

	e.Toggle()
	if !e.Running() {
		t.Error("Toggle() should start a ready engine")
	}
	e.Toggle()
	if e.Running() {
		t.Error("Toggle() should pause a running engine")
	}
}

func TestReset(t *testing.T) {
	e := newTestEngine(t)
	e.Start()
	e.food = Cell{X: 11, Y: 10}
	e.Tick()

	e.Reset()

	if e.Running() {
		t.Error("Reset() should stop the engine")
	}
	if e.State() != StateReady {
		t.Errorf("State() = %s, expected %s", e.State(), StateReady)
	}
	if e.Score() != 0 || e.Speed() != 150 || e.Ticks() != 0 || len(e.Snake()) != 3 {
		t.Errorf("Reset() should reinitialise, got score %d speed %d ticks %d len %d",
			e.Score(), e.Speed(), e.Ticks(), len(e.Snake()))
	}
}

func TestDeterminism(t *testing.T) {
	cfg := config.Default()
	g1 := New(cfg, 777)
	g2 := New(cfg, 777)
	g1.Start()
	g2.Start()

	turns := map[int]Direction{3: DirDown, 7: DirLeft, 11: DirUp, 13: DirRight}
	for i := 0; i < 40; i++ {
		if d, ok := turns[i]; ok {
			g1.SetDirection(d)
			g2.SetDirection(d)
		}
		g1.Tick()
		g2.Tick()
	}

	f1, f2 := g1.Frame(), g2.Frame()
	if !cellsEqual(f1.Snake, f2.Snake) {
		t.Errorf("snake mismatch: %v vs %v", f1.Snake, f2.Snake)
	}
	if f1.Food != f2.Food || f1.Score != f2.Score || f1.Tick != f2.Tick || f1.State != f2.State {
		t.Errorf("frame mismatch: %+v vs %+v", f1, f2)
	}
}

func TestRendererEvents(t *testing.T) {
	e := newTestEngine(t)

	var frames []Frame
	e.SetRenderer(RendererFunc(func(f Frame) {
		frames = append(frames, f)
	}))

	e.Init()
	e.Start()
	e.food = Cell{X: 11, Y: 10}
	e.Tick()
	e.food = Cell{X: 0, Y: 0}
	e.Tick()
	e.snake = []Cell{{19, 10}, {18, 10}, {17, 10}, {16, 10}}
	e.Tick()

	expected := []Event{EventInit, EventStart, EventAte, EventMove, EventGameOver}
	if len(frames) != len(expected) {
		t.Fatalf("got %d frames, expected %d", len(frames), len(expected))
	}
	for i, ev := range expected {
		if frames[i].Event != ev {
			t.Errorf("frame %d event = %s, expected %s", i, frames[i].Event, ev)
		}
	}

	last := frames[len(frames)-1]
	if last.State != StateOver || last.Score != 10 {
		t.Errorf("game over frame = %+v, expected state %s with score 10", last, StateOver)
	}
	if frames[2].Score != 10 || frames[2].Length != 4 {
		t.Errorf("ate frame should carry the new score and length, got %+v", frames[2])
	}
}

func TestFrameIsACopy(t *testing.T) {
	e := newTestEngine(t)
	f := e.Frame()
	f.Snake[0] = Cell{X: 99, Y: 99}

	if e.Head() == (Cell{X: 99, Y: 99}) {
		t.Error("mutating a frame should not change the engine")
	}
}
