package snake

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/snake/internal/core"
)

// Board glyphs. Each grid cell is two columns wide so the board looks square.
const (
	glyphSegment = "██"
	glyphFood    = "██"
	glyphEmpty   = " ·"
	hudHeight    = 1
)

// BoardSize returns the screen size, in characters, needed to draw a board
// of gridCount cells per side including the HUD line.
func BoardSize(gridCount int) (w, h int) {
	return gridCount*2 + 2, gridCount + 2 + hudHeight
}

// Render draws the HUD, the board and any state overlay into dst.
func (e *Engine) Render(dst *core.Screen) {
	dst.Clear()

	n := e.cfg.Grid.Count
	needW, needH := BoardSize(n)
	if dst.Width() < needW || dst.Height() < needH {
		renderOverlay(dst, core.NewRect(0, 0, dst.Width(), dst.Height()),
			"Window too small", fmt.Sprintf("Need %dx%d", needW, needH))
		return
	}

	e.renderHUD(dst)

	board := core.NewRect((dst.Width()-needW)/2, hudHeight, needW, n+2)
	dst.DrawBox(board, core.ColorGray)

	// Empty cells
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			drawCell(dst, board, Cell{X: x, Y: y}, glyphEmpty, core.ColorGray)
		}
	}

	// Food
	if e.food != NoFood {
		drawCell(dst, board, e.food, glyphFood, core.ColorRed)
	}

	// Snake, tail first so the head is drawn on top
	for i := len(e.snake) - 1; i >= 0; i-- {
		seg := e.snake[i]
		if HitsWall(seg, n) {
			continue
		}
		color := core.ColorBrightGreen
		if i == 0 {
			color = core.ColorGreen
		}
		drawCell(dst, board, seg, glyphSegment, color)
	}

	switch e.State() {
	case StateReady:
		renderOverlay(dst, board, "Snake", "Press Space to start")
	case StatePaused:
		renderOverlay(dst, board, "Paused", "Press Space to resume")
	case StateOver:
		renderOverlay(dst, board, "Game Over!", fmt.Sprintf("Score: %d", e.score), "Press Space to play again")
	}
}

// renderHUD draws the status line above the board.
func (e *Engine) renderHUD(dst *core.Screen) {
	hud := fmt.Sprintf(" Snake | Score: %d  Length: %d  Speed: %dms", e.score, len(e.snake), e.speed)
	dst.DrawTextCentered(0, hud, core.ColorBrightWhite)
}

// drawCell paints one grid cell inside the board's border.
func drawCell(dst *core.Screen, board core.Rect, c Cell, glyph string, color core.Color) {
	dst.DrawTextColored(board.X+1+c.X*2, board.Y+1+c.Y, glyph, color)
}

// renderOverlay draws a bordered message box centered in area.
func renderOverlay(dst *core.Screen, area core.Rect, lines ...string) {
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, utf8.RuneCountInString(l))
	}

	boxW := maxLen + 4
	boxH := len(lines)*2 + 1
	cx, cy := area.Center()
	box := core.NewRect(cx-boxW/2, cy-boxH/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorWhite)

	for i, l := range lines {
		x := box.X + (boxW-utf8.RuneCountInString(l))/2
		if i == 0 {
			dst.DrawTextColored(x, box.Y+1+i*2, l, core.ColorBrightWhite)
			continue
		}
		dst.DrawText(x, box.Y+1+i*2, l)
	}
}
