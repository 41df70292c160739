package tui

import (
	"path/filepath"
	"testing"

	"github.com/vovakirdan/snake/internal/storage"
)

func TestFinishSessionSavesUnfinishedRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "replays.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	srv := &SSHServer{store: store}

	// The host keeps the model it handed to the program; the program keeps
	// updating its own copies.
	m := newTestModel(t, store).WithSession("ssh", "carol")
	srv.trackModel("sess-1", m)

	m, _ = update(t, m, space())
	m, _ = update(t, m, TickMsg{Gen: m.gen})
	m, _ = update(t, m, TickMsg{Gen: m.gen})

	// Client drops the connection mid-run
	srv.finishSession("sess-1")

	entries, err := store.RecentReplays(10)
	if err != nil {
		t.Fatalf("RecentReplays() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d replays, expected 1", len(entries))
	}
	e := entries[0]
	if e.Frontend != "ssh" || e.Player != "carol" || e.Outcome != storage.OutcomeAbandoned {
		t.Errorf("entry = %s/%s/%s, expected ssh/carol/abandoned", e.Frontend, e.Player, e.Outcome)
	}
	if e.Journal.Ticks != 2 {
		t.Errorf("journal ticks = %d, expected 2", e.Journal.Ticks)
	}

	// A second finish for the same session is a no-op
	srv.finishSession("sess-1")
	if entries, _ := store.RecentReplays(10); len(entries) != 1 {
		t.Errorf("got %d replays after second finish, expected 1", len(entries))
	}
}

func TestFinishSessionAfterQuitDoesNotDuplicate(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "replays.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	srv := &SSHServer{store: store}
	m := newTestModel(t, store).WithSession("ssh", "dave")
	srv.trackModel("sess-2", m)

	m, _ = update(t, m, space())
	m, _ = update(t, m, TickMsg{Gen: m.gen})
	update(t, m, runeKey("q"))

	srv.finishSession("sess-2")

	entries, err := store.RecentReplays(10)
	if err != nil {
		t.Fatalf("RecentReplays() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d replays, expected 1", len(entries))
	}
}

func TestFinishSessionSkipsUnstartedRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "replays.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	srv := &SSHServer{store: store}
	srv.trackModel("sess-3", newTestModel(t, store))
	srv.finishSession("sess-3")
	srv.finishSession("unknown")

	if entries, _ := store.RecentReplays(10); len(entries) != 0 {
		t.Errorf("got %d replays, expected none for a run that never ticked", len(entries))
	}
}
