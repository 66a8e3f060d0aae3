package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestSaveStoreRoundTripsBothFormats(t *testing.T) {
	store := NewSaveStore(filepath.Join(t.TempDir(), "saves"), zaptest.NewLogger(t))
	source, _ := playedGame(t, GameSettings{Mode: ModeLocalVsAI, Difficulty: DifficultyMedium, LocalColor: PlayerBlack})
	snap := source.Snapshot()

	for _, name := range []string{"opening", "opening.gob"} {
		file, err := store.Save(name, snap)
		if err != nil {
			t.Fatalf("%s: save: %v", name, err)
		}
		loaded, err := store.Load(file)
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		target, _ := newTestGame(t, twoPlayerSettings())
		if err := target.Restore(loaded); err != nil {
			t.Fatalf("%s: restore: %v", name, err)
		}
		if target.State().Board != source.State().Board || target.Settings() != source.Settings() {
			t.Fatalf("%s: expected the loaded game to match the saved one", name)
		}
	}

	saves, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(saves) != 2 {
		t.Fatalf("expected two saves, got %+v", saves)
	}
}

func TestSaveStoreDefaultsToSessionID(t *testing.T) {
	store := NewSaveStore(t.TempDir(), zaptest.NewLogger(t))
	g, _ := newTestGame(t, twoPlayerSettings())
	file, err := store.Save("", g.Snapshot())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if file != g.ID()+".json" {
		t.Fatalf("expected %s.json, got %s", g.ID(), file)
	}
}

func TestSaveStoreRejectsBadNames(t *testing.T) {
	store := NewSaveStore(t.TempDir(), zaptest.NewLogger(t))
	g, _ := newTestGame(t, twoPlayerSettings())
	for _, name := range []string{"../escape", "a/b", ".hidden", "save.txt"} {
		if _, err := store.Save(name, g.Snapshot()); err == nil {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
	if _, err := store.Load("missing"); !errors.Is(err, ErrSaveNotFound) {
		t.Fatalf("expected ErrSaveNotFound, got %v", err)
	}
}

func TestSaveStoreReportsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewSaveStore(dir, zaptest.NewLogger(t))
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := store.Load("broken.json"); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestSaveStoreListMissingDir(t *testing.T) {
	store := NewSaveStore(filepath.Join(t.TempDir(), "nope"), zaptest.NewLogger(t))
	saves, err := store.List()
	if err != nil || len(saves) != 0 {
		t.Fatalf("expected an empty list, got %v (%v)", saves, err)
	}
}
