package main

import "testing"

func TestComputeHashMatchesIncrementalUpdates(t *testing.T) {
	z := GetZobrist()
	board := NewBoard()
	var hash uint64
	moves := []Move{
		NewMove(7, 7, PlayerBlack),
		NewMove(7, 8, PlayerWhite),
		NewMove(0, 14, PlayerBlack),
	}
	for _, move := range moves {
		board.Set(move.Row, move.Col, CellFromPlayer(move.Player))
		hash ^= z.stone(move.Row, move.Col, move.Player)
	}
	if got := ComputeHash(board); got != hash {
		t.Fatalf("hash mismatch: got %d want %d", got, hash)
	}
}

func TestHashDependsOnColour(t *testing.T) {
	black := NewBoard()
	black.Set(4, 4, CellBlack)
	white := NewBoard()
	white.Set(4, 4, CellWhite)
	if ComputeHash(black) == ComputeHash(white) {
		t.Fatalf("expected colour to change the hash")
	}
	if ComputeHash(NewBoard()) != 0 {
		t.Fatalf("expected empty board to hash to zero")
	}
}

func TestSearchRestoresHashAndBoard(t *testing.T) {
	board := NewBoard()
	board.Set(7, 7, CellBlack)
	board.Set(8, 8, CellWhite)
	stats := &SearchStats{}
	settings := aiSettingsFromConfig(DefaultConfig())
	search := newMinimaxSearch(board, PlayerBlack, settings, stats)
	startHash := search.hash
	search.Run(2)
	if search.hash != startHash {
		t.Fatalf("expected search hash restored after run")
	}
	if search.board != board {
		t.Fatalf("expected search board restored after run")
	}
}
