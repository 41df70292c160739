package snake

import (
	"context"
	"errors"
	"time"
)

// ErrLoopClosed is returned when a command is posted after Run has returned.
var ErrLoopClosed = errors.New("snake: loop closed")

// Loop drives an Engine from a single goroutine. It owns the tick timer and
// executes posted commands between ticks, so ticks and inputs never race.
//
// The timer is armed with the engine's current interval only while the
// engine is running, re-armed after every tick and stopped on pause, reset
// or game over.
type Loop struct {
	engine *Engine
	cmds   chan func(*Engine)
	done   chan struct{}
}

// NewLoop creates a loop for e. Nothing happens until Run is called.
func NewLoop(e *Engine) *Loop {
	return &Loop{
		engine: e,
		cmds:   make(chan func(*Engine)),
		done:   make(chan struct{}),
	}
}

// Run processes ticks and commands until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	stop := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
		}
		fire = nil
	}
	arm := func() {
		stop()
		if l.engine.Running() {
			timer = time.NewTimer(l.engine.Interval())
			fire = timer.C
		}
	}
	defer stop()

	arm()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case fn := <-l.cmds:
			wasRunning := l.engine.Running()
			fn(l.engine)
			// Only a start/stop transition touches the timer; steering must
			// not push the next tick back.
			if l.engine.Running() != wasRunning {
				arm()
			}

		case <-fire:
			l.engine.Tick()
			arm()
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func(*Engine)) error {
	finished := make(chan struct{})
	cmd := func(e *Engine) {
		fn(e)
		close(finished)
	}

	select {
	case l.cmds <- cmd:
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	<-finished
	return nil
}

// SetDirection steers the snake. Rejected directions are silently ignored.
func (l *Loop) SetDirection(ctx context.Context, d Direction) error {
	return l.Do(ctx, func(e *Engine) { e.SetDirection(d) })
}

// Toggle starts or pauses the game.
func (l *Loop) Toggle(ctx context.Context) error {
	return l.Do(ctx, func(e *Engine) { e.Toggle() })
}

// Reset stops the timer and starts a new run in the ready state.
func (l *Loop) Reset(ctx context.Context) error {
	return l.Do(ctx, func(e *Engine) { e.Reset() })
}

// Frame returns the current frame, read on the loop goroutine.
func (l *Loop) Frame(ctx context.Context) (Frame, error) {
	var f Frame
	err := l.Do(ctx, func(e *Engine) { f = e.Frame() })
	return f, err
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
