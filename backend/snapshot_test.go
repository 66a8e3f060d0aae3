package main

import (
	"errors"
	"testing"
)

func playedGame(t *testing.T, settings GameSettings) (*Game, *recordingHooks) {
	t.Helper()
	g, hooks := newTestGame(t, twoPlayerSettings())
	for _, move := range [][2]int{{7, 7}, {7, 8}, {8, 8}, {6, 6}} {
		mustMove(t, g, ActorLocal, move[0], move[1])
	}
	g.settings = settings
	return g, hooks
}

func TestRestoreRebuildsSession(t *testing.T) {
	source, _ := playedGame(t, twoPlayerSettings())
	snap := source.Snapshot()
	if len(snap.History) != 4 || snap.ToMove != 1 || snap.GameOver {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	target, _ := newTestGame(t, twoPlayerSettings())
	if err := target.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if target.State().Board != source.State().Board {
		t.Fatalf("expected the restored board to match")
	}
	if target.ID() != source.ID() || target.State().ToMove != PlayerBlack {
		t.Fatalf("expected id and side to move restored")
	}
	mustMove(t, target, ActorLocal, 9, 9)
}

func TestRestoreTriggersAIOnItsTurn(t *testing.T) {
	source, _ := playedGame(t, GameSettings{Mode: ModeLocalVsAI, Difficulty: DifficultyHard, LocalColor: PlayerWhite})
	snap := source.Snapshot()

	target, hooks := newTestGame(t, twoPlayerSettings())
	if err := target.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	req := hooks.lastRequest(t)
	if req.Color != PlayerBlack || req.Difficulty != DifficultyHard || req.Tag.MoveCount != 4 {
		t.Fatalf("expected black hard ai to be asked to move, got %+v", req)
	}
}

func TestRestoreNetworkSnapshotAsLocal(t *testing.T) {
	source, _ := playedGame(t, GameSettings{Mode: ModeNetwork, LocalColor: PlayerBlack})
	target, _ := newTestGame(t, DefaultGameSettings())
	if err := target.Restore(source.Snapshot()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if target.Settings().Mode != ModeLocalTwoPlayer {
		t.Fatalf("expected network saves to restore as two-player, got %s", target.Settings().Mode)
	}
}

func TestRestoreFinishedGame(t *testing.T) {
	g, _ := newTestGame(t, twoPlayerSettings())
	for col := 0; col < 4; col++ {
		mustMove(t, g, ActorLocal, 0, col)
		mustMove(t, g, ActorLocal, 5, col)
	}
	mustMove(t, g, ActorLocal, 0, 4)
	snap := g.Snapshot()
	if !snap.GameOver || snap.Outcome != "black_won" {
		t.Fatalf("unexpected snapshot outcome %q", snap.Outcome)
	}
	target, _ := newTestGame(t, twoPlayerSettings())
	if err := target.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !target.State().IsTerminal() || target.State().Outcome != OutcomeBlackWon {
		t.Fatalf("expected the restored game to be over")
	}
}

func TestRestoreRejectsInconsistentSnapshots(t *testing.T) {
	source, _ := playedGame(t, twoPlayerSettings())
	corrupt := map[string]func(*Snapshot){
		"board mismatch": func(s *Snapshot) { s.Board[0][0] = 1 },
		"parity":         func(s *Snapshot) { s.History[1].Player = 1 },
		"to_move":        func(s *Snapshot) { s.ToMove = 2 },
		"game_over":      func(s *Snapshot) { s.GameOver = true },
		"mode":           func(s *Snapshot) { s.Mode = "chess" },
		"difficulty":     func(s *Snapshot) { s.Difficulty = "insane" },
		"local colour":   func(s *Snapshot) { s.LocalColor = 3 },
		"bad cell":       func(s *Snapshot) { s.History[0].Row = 20 },
	}
	for name, mutate := range corrupt {
		snap := source.Snapshot()
		mutate(&snap)
		target, hooks := newTestGame(t, twoPlayerSettings())
		mustMove(t, target, ActorLocal, 3, 3)
		err := target.Restore(snap)
		if !errors.Is(err, ErrInvalidSnapshot) {
			t.Fatalf("%s: expected ErrInvalidSnapshot, got %v", name, err)
		}
		if target.State().History.Size() != 1 || hooks.hasEvent("restore") {
			t.Fatalf("%s: expected the session untouched by a rejected restore", name)
		}
	}
}
