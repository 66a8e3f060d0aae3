package main

import (
	"errors"
	"testing"
)

func TestPlaceRejectsOutOfBoundsAndOccupied(t *testing.T) {
	board := NewBoard()
	if err := Place(&board, NewMove(7, 7, PlayerBlack)); err != nil {
		t.Fatalf("expected first placement to succeed: %v", err)
	}
	before := board

	cases := []Move{
		NewMove(7, 7, PlayerWhite),
		NewMove(-1, 0, PlayerWhite),
		NewMove(0, BoardSize, PlayerWhite),
		NewMove(BoardSize, 3, PlayerWhite),
	}
	for _, move := range cases {
		err := Place(&board, move)
		if !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("expected ErrIllegalMove for %s, got %v", move, err)
		}
		if board != before {
			t.Fatalf("expected board untouched after rejecting %s", move)
		}
	}
}

func TestBoardCloneIsIndependent(t *testing.T) {
	board := NewBoard()
	board.Set(3, 4, CellBlack)
	clone := board.Clone()
	clone.Set(5, 5, CellWhite)
	if board.At(5, 5) != CellEmpty {
		t.Fatalf("expected original board unaffected by clone mutation")
	}
	if clone.At(3, 4) != CellBlack {
		t.Fatalf("expected clone to keep existing stones")
	}
}

func TestBoardCounts(t *testing.T) {
	board := NewBoard()
	if board.CountEmpty() != BoardSize*BoardSize {
		t.Fatalf("expected empty board, got %d empty", board.CountEmpty())
	}
	board.Set(0, 0, CellBlack)
	board.Set(14, 14, CellWhite)
	if board.CountStones() != 2 || board.CountEmpty() != BoardSize*BoardSize-2 {
		t.Fatalf("unexpected counts: stones=%d empty=%d", board.CountStones(), board.CountEmpty())
	}
	board.Remove(0, 0)
	if board.CountStones() != 1 {
		t.Fatalf("expected remove to clear the cell")
	}
}

func TestBoardFromSliceValidatesShape(t *testing.T) {
	if _, err := boardFromSlice(make([][]int, 3)); err == nil {
		t.Fatalf("expected error for short board")
	}
	rows := boardToSlice(NewBoard())
	rows[2][3] = 7
	if _, err := boardFromSlice(rows); err == nil {
		t.Fatalf("expected error for invalid cell value")
	}
	rows[2][3] = 2
	board, err := boardFromSlice(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.At(2, 3) != CellWhite {
		t.Fatalf("expected white stone at (2,3), got %s", board.At(2, 3))
	}
}

func TestReplayMovesReproducesBoard(t *testing.T) {
	moves := []Move{
		NewMove(7, 7, PlayerBlack),
		NewMove(7, 8, PlayerWhite),
		NewMove(8, 8, PlayerBlack),
		NewMove(6, 6, PlayerWhite),
		NewMove(9, 9, PlayerBlack),
	}
	want := NewBoard()
	for _, move := range moves {
		want.Set(move.Row, move.Col, CellFromPlayer(move.Player))
	}
	got, err := ReplayMoves(moves)
	if err != nil {
		t.Fatalf("unexpected replay error: %v", err)
	}
	if got != want {
		t.Fatalf("expected replay to reproduce the board")
	}
}

func TestReplayMovesRejectsBadHistory(t *testing.T) {
	cases := map[string][]Move{
		"wrong parity": {NewMove(0, 0, PlayerWhite)},
		"occupied":     {NewMove(0, 0, PlayerBlack), NewMove(0, 0, PlayerWhite)},
		"move after win": {
			NewMove(0, 0, PlayerBlack), NewMove(1, 0, PlayerWhite),
			NewMove(0, 1, PlayerBlack), NewMove(1, 1, PlayerWhite),
			NewMove(0, 2, PlayerBlack), NewMove(1, 2, PlayerWhite),
			NewMove(0, 3, PlayerBlack), NewMove(1, 3, PlayerWhite),
			NewMove(0, 4, PlayerBlack), NewMove(1, 4, PlayerWhite),
		},
	}
	for name, moves := range cases {
		if _, err := ReplayMoves(moves); err == nil {
			t.Fatalf("%s: expected replay to fail", name)
		}
	}
}
