package snake

import (
	"strings"
	"testing"

	"github.com/vovakirdan/snake/internal/config"
	"github.com/vovakirdan/snake/internal/core"
)

func TestBoardSize(t *testing.T) {
	w, h := BoardSize(20)
	if w != 42 || h != 23 {
		t.Errorf("BoardSize(20) = %dx%d, expected 42x23", w, h)
	}
}

func TestRenderReady(t *testing.T) {
	e := New(config.Default(), 1)
	scr := core.NewScreen(80, 24)

	e.Render(scr)

	out := scr.String()
	for _, want := range []string{"Score: 0", "Length: 3", "Speed: 150ms", "Press Space to start"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestRenderPlaying(t *testing.T) {
	e := New(config.Default(), 1)
	e.Start()
	e.food = Cell{X: 0, Y: 0}
	scr := core.NewScreen(80, 24)

	e.Render(scr)

	// Board is centered: x = (80-42)/2 = 19, top border at row 1
	boardX, boardY := 19, 1
	head := scr.GetCell(boardX+1+10*2, boardY+1+10)
	if head.Rune != '█' || head.Color != core.ColorGreen {
		t.Errorf("head cell = %q/%v, expected '█'/green", head.Rune, head.Color)
	}
	body := scr.GetCell(boardX+1+9*2, boardY+1+10)
	if body.Color != core.ColorBrightGreen {
		t.Errorf("body color = %v, expected bright green", body.Color)
	}
	food := scr.GetCell(boardX+1, boardY+1)
	if food.Rune != '█' || food.Color != core.ColorRed {
		t.Errorf("food cell = %q/%v, expected '█'/red", food.Rune, food.Color)
	}
	if strings.Contains(scr.String(), "Press Space") {
		t.Error("no overlay expected while playing")
	}
}

func TestRenderOverlays(t *testing.T) {
	e := New(config.Default(), 1)
	e.Start()
	e.Pause()
	scr := core.NewScreen(80, 24)

	e.Render(scr)
	if !strings.Contains(scr.String(), "Paused") {
		t.Error("paused overlay missing")
	}

	e.Start()
	e.score = 30
	e.snake = []Cell{{19, 10}, {18, 10}, {17, 10}}
	e.Tick()
	e.Render(scr)

	out := scr.String()
	if !strings.Contains(out, "Game Over!") || !strings.Contains(out, "Score: 30") {
		t.Errorf("game over overlay missing:\n%s", out)
	}
}

func TestRenderTooSmall(t *testing.T) {
	e := New(config.Default(), 1)
	scr := core.NewScreen(30, 10)

	e.Render(scr)

	if !strings.Contains(scr.String(), "Window too small") {
		t.Error("expected a too-small message")
	}
}
