package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/microcosm-cc/bluemonday"

	"github.com/vovakirdan/snake/internal/core"
	"github.com/vovakirdan/snake/internal/games/snake"
	"github.com/vovakirdan/snake/internal/storage"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512
	frameBuffer    = 16
	saveBuffer     = 8
	maxPlayerName  = 32
)

// namePolicy strips any markup from player names before they are stored.
var namePolicy = bluemonday.StrictPolicy()

// clientMessage is what the page sends: {"action":"up"}.
type clientMessage struct {
	Action string `json:"action"`
}

// session is one browser connection playing one game.
type session struct {
	conn   *websocket.Conn
	engine *snake.Engine
	loop   *snake.Loop
	frames chan snake.Frame
	saves  chan snake.Journal // Runs waiting to be stored by the writer
	store  *storage.Store
	player string
	logger *log.Logger
}

// handleWS upgrades the connection and plays a game on it until either
// side closes.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	player := playerName(r.URL.Query().Get("name"))

	if !s.trackSession() {
		writeError(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	}
	defer s.sessions.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	engine := snake.New(s.cfg.Game, time.Now().UnixNano())
	sess := &session{
		conn:   conn,
		engine: engine,
		loop:   snake.NewLoop(engine),
		frames: make(chan snake.Frame, frameBuffer),
		saves:  make(chan snake.Journal, saveBuffer),
		store:  s.cfg.Store,
		player: player,
		logger: s.logger.With("remote", r.RemoteAddr, "player", player),
	}
	engine.SetRenderer(sess)

	sess.logger.Info("session started")
	start := time.Now()
	sess.run(s.base)
	sess.logger.Info("session ended", "duration", time.Since(start).Round(time.Second))
}

// playerName sanitizes the requested display name.
func playerName(raw string) string {
	name := strings.TrimSpace(namePolicy.Sanitize(raw))
	for utf8.RuneCountInString(name) > maxPlayerName {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	if name == "" {
		return "anonymous"
	}
	return name
}

// run starts the game loop and the writer, then reads client messages on
// the calling goroutine. It returns once everything has stopped.
func (s *session) run(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// The page needs a board before the first action
	first := s.engine.Frame()
	first.Event = snake.EventInit
	s.frames <- first

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		s.loop.Run(ctx) //nolint:errcheck // Always ctx.Err()
	}()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeFrames(ctx)
		cancel()
		// Unblock the reader
		s.conn.Close()
	}()

	s.readActions(ctx)
	cancel()

	<-loopDone
	<-writerDone

	// The loop and the writer have stopped, so the engine is ours again
	s.flushSaves()
	if j, ok := abandoned(s.engine); ok {
		s.save(j)
	}
}

// readActions dispatches client actions until the connection fails or ctx
// is cancelled.
func (s *session) readActions(ctx context.Context) {
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && ctx.Err() == nil {
				s.logger.Warn("read failed", "error", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Debug("ignoring malformed message", "error", err)
			continue
		}

		if !s.dispatch(ctx, core.ParseAction(msg.Action)) {
			return
		}
	}
}

// dispatch applies one action. Returns false when the session should end.
func (s *session) dispatch(ctx context.Context, action core.Action) bool {
	var err error
	switch action {
	case core.ActionToggle:
		err = s.loop.Toggle(ctx)
	case core.ActionReset:
		err = s.loop.Do(ctx, func(e *snake.Engine) {
			if j, ok := abandoned(e); ok {
				s.queueSave(j)
			}
			e.Reset()
		})
	case core.ActionQuit:
		return false
	case core.ActionNone:
		// Unknown actions are ignored
	default:
		if d, ok := snake.DirectionFromAction(action); ok {
			err = s.loop.SetDirection(ctx, d)
		}
	}
	return err == nil
}

// writeFrames sends frames and keepalive pings until ctx is cancelled or a
// write fails.
func (s *session) writeFrames(ctx context.Context) {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			s.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			s.conn.WriteMessage(websocket.CloseMessage, //nolint:errcheck
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closing"))
			return

		case f := <-s.frames:
			// Runs are queued before the frame that reports them
			s.flushSaves()
			s.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := s.conn.WriteJSON(f); err != nil {
				s.logger.Debug("write failed", "error", err)
				return
			}

		case j := <-s.saves:
			s.save(j)

		case <-ping.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Draw implements snake.Renderer. It runs on the loop goroutine and must
// not block, so when the writer falls behind the oldest frame is dropped.
// Finished runs are handed to the writer for storage.
func (s *session) Draw(f snake.Frame) {
	if f.Event == snake.EventGameOver {
		s.queueSave(s.engine.Journal())
	}

	for {
		select {
		case s.frames <- f:
			return
		default:
		}
		select {
		case <-s.frames:
		default:
		}
	}
}

// abandoned returns the journal of a run left unfinished after at least
// one tick.
func abandoned(e *snake.Engine) (snake.Journal, bool) {
	if e.Over() || e.Ticks() == 0 {
		return snake.Journal{}, false
	}
	return e.Journal(), true
}

// queueSave hands j to the writer goroutine without blocking.
func (s *session) queueSave(j snake.Journal) {
	if s.store == nil {
		return
	}
	select {
	case s.saves <- j:
	default:
		s.logger.Warn("save queue full, dropping replay", "score", j.Score, "ticks", j.Ticks)
	}
}

// flushSaves stores every queued run.
func (s *session) flushSaves() {
	for {
		select {
		case j := <-s.saves:
			s.save(j)
		default:
			return
		}
	}
}

func (s *session) save(j snake.Journal) {
	if s.store == nil {
		return
	}
	id, err := s.store.SaveReplay(storage.ReplayEntry{
		Frontend: "web",
		Player:   s.player,
		Journal:  j,
	})
	if err != nil {
		s.logger.Warn("could not save replay", "error", err)
		return
	}
	s.logger.Info("replay saved", "id", id, "score", j.Score, "over", j.Over)
}
