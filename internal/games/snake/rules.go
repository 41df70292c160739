package snake

import (
	"math/rand"

	"github.com/vovakirdan/snake/internal/core"
)

// The functions in this file are pure: they compute the next piece of state
// from the current one and never touch an Engine.

// IsReverse reports whether next would turn the snake straight back onto itself.
func IsReverse(current, next Direction) bool {
	return next == current.Opposite() && next != current
}

// Advance returns a new body with head prepended. The tail is dropped unless
// grow is set, so length is unchanged on a plain move and +1 on a meal.
func Advance(body []Cell, head Cell, grow bool) []Cell {
	n := len(body)
	if !grow && n > 0 {
		n--
	}
	next := make([]Cell, 0, n+1)
	next = append(next, head)
	next = append(next, body[:n]...)
	return next
}

// HitsWall reports whether c lies outside a gridCount x gridCount board.
func HitsWall(c Cell, gridCount int) bool {
	return !core.NewRect(0, 0, gridCount, gridCount).Contains(c.X, c.Y)
}

// HitsSelf reports whether the head equals any segment at index >= from.
// Segments 1..from-1 cannot be reached by a legal move, so they are skipped.
func HitsSelf(body []Cell, from int) bool {
	if len(body) == 0 {
		return false
	}
	head := body[0]
	for i := max(from, 1); i < len(body); i++ {
		if body[i] == head {
			return true
		}
	}
	return false
}

// Collides combines the wall and self checks for the current head.
func Collides(body []Cell, gridCount, selfFrom int) bool {
	if len(body) == 0 {
		return false
	}
	return HitsWall(body[0], gridCount) || HitsSelf(body, selfFrom)
}

// Occupies reports whether c is one of the body cells.
func Occupies(body []Cell, c Cell) bool {
	for _, seg := range body {
		if seg == c {
			return true
		}
	}
	return false
}

// PlaceFood picks a random free cell by rejection sampling: draw a cell,
// retry while it lands on the snake. Returns NoFood, false when the body
// already covers the board.
func PlaceFood(rng *rand.Rand, gridCount int, body []Cell) (Cell, bool) {
	if len(body) >= gridCount*gridCount {
		return NoFood, false
	}
	for {
		c := Cell{X: rng.Intn(gridCount), Y: rng.Intn(gridCount)}
		if !Occupies(body, c) {
			return c, true
		}
	}
}

// NextSpeed applies one linear speed-up step. Intervals at or below the
// floor are left alone and the result never drops below it.
func NextSpeed(speedMs, stepMs, floorMs int) int {
	if speedMs <= floorMs {
		return speedMs
	}
	return max(speedMs-stepMs, floorMs)
}
