package main

import "testing"

func TestRunLengthSkipsEmptyAndStopsAtOpponent(t *testing.T) {
	board := NewBoard()
	board.Set(7, 8, CellBlack)
	board.Set(7, 10, CellBlack)
	board.Set(7, 5, CellWhite)

	// (7,7) origin, black at 8 and 10 with an empty 9 between; white at 5 ends the left scan.
	if got := RunLength(board, 7, 7, 0, 1, PlayerBlack); got != 3 {
		t.Fatalf("expected run length 3, got %d", got)
	}
	if got := RunLength(board, 7, 7, 1, 0, PlayerBlack); got != 1 {
		t.Fatalf("expected lone origin to count 1, got %d", got)
	}
}

func TestRunLengthStopsAtEdge(t *testing.T) {
	board := NewBoard()
	board.Set(0, 1, CellWhite)
	board.Set(0, 2, CellWhite)
	if got := RunLength(board, 0, 0, 0, 1, PlayerWhite); got != 3 {
		t.Fatalf("expected run length 3 at the edge, got %d", got)
	}
}

func TestPatternScoreTable(t *testing.T) {
	cases := map[int]int{
		-1: 0,
		0:  0,
		1:  10,
		2:  100,
		3:  1_000,
		4:  10_000,
		5:  100_000,
		6:  1_000_000,
		9:  1_000_000,
	}
	for length, want := range cases {
		if got := PatternScore(length); got != want {
			t.Fatalf("PatternScore(%d): expected %d, got %d", length, want, got)
		}
	}
}

func TestPositionScoreCenterBonus(t *testing.T) {
	board := NewBoard()
	center := PositionScore(board, BoardCenter, BoardCenter, PlayerBlack, PlayerWhite)
	corner := PositionScore(board, 0, 0, PlayerBlack, PlayerWhite)
	// Every axis scores a lone origin: 4*(10*2+10) = 120.
	if center != 120+14*5 {
		t.Fatalf("expected centre score %d, got %d", 120+14*5, center)
	}
	if corner != 120 {
		t.Fatalf("expected corner score 120, got %d", corner)
	}
}

func TestPositionScoreFavoursOwnRuns(t *testing.T) {
	board := NewBoard()
	board.Set(7, 6, CellBlack)
	board.Set(7, 8, CellWhite)
	attack := PositionScore(board, 6, 6, PlayerBlack, PlayerWhite)
	defend := PositionScore(board, 6, 6, PlayerWhite, PlayerBlack)
	if attack <= defend {
		t.Fatalf("expected own stones to weigh double: attack=%d defend=%d", attack, defend)
	}
}

func TestEvaluateBoardIsAntisymmetric(t *testing.T) {
	board := NewBoard()
	board.Set(7, 7, CellBlack)
	board.Set(7, 8, CellBlack)
	board.Set(8, 8, CellWhite)
	board.Set(3, 3, CellWhite)
	board.Set(6, 6, CellBlack)
	black := EvaluateBoard(board, PlayerBlack)
	white := EvaluateBoard(board, PlayerWhite)
	if black != -white {
		t.Fatalf("expected evaluation to flip sign with perspective: %d vs %d", black, white)
	}
	if black <= 0 {
		t.Fatalf("expected black to be ahead, got %d", black)
	}
}
