package main

import (
	"math/rand"
	"testing"

	"go.uber.org/zap/zaptest"
)

func newTestAIPlayer(t *testing.T, seed int64) *AIPlayer {
	t.Helper()
	return NewAIPlayer(aiSettingsFromConfig(DefaultConfig()), rand.New(rand.NewSource(seed)), zaptest.NewLogger(t))
}

func TestEasyPicksAnEmptyCell(t *testing.T) {
	board, _ := drawBoard()
	board.Remove(3, 9)
	ai := newTestAIPlayer(t, 1)
	move := ai.ChooseMove(board, PlayerWhite, DifficultyEasy)
	if move.Row != 3 || move.Col != 9 {
		t.Fatalf("expected the only empty cell (3,9), got %s", move)
	}
	if move.Player != PlayerWhite {
		t.Fatalf("expected move tagged with the ai colour, got %s", move.Player)
	}
}

func TestFullBoardYieldsNoMoveForEveryDifficulty(t *testing.T) {
	board, _ := drawBoard()
	ai := newTestAIPlayer(t, 1)
	for _, difficulty := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, Difficulty(42)} {
		if move := ai.ChooseMove(board, PlayerBlack, difficulty); !move.IsNone() {
			t.Fatalf("%s: expected NoMove on a full board, got %s", difficulty, move)
		}
	}
}

func TestUnknownDifficultyFallsBackToEasy(t *testing.T) {
	board := NewBoard()
	ai := newTestAIPlayer(t, 3)
	move := ai.ChooseMove(board, PlayerBlack, Difficulty(99))
	if !move.IsValid() || board.At(move.Row, move.Col) != CellEmpty {
		t.Fatalf("expected a legal move, got %s", move)
	}
}

func TestMediumTakesImmediateWin(t *testing.T) {
	board := NewBoard()
	for col := 3; col < 7; col++ {
		board.Set(5, col, CellWhite)
	}
	// Black threatens too; winning beats blocking.
	for col := 3; col < 7; col++ {
		board.Set(9, col, CellBlack)
	}
	board.Set(5, 2, CellBlack)
	move := newTestAIPlayer(t, 5).ChooseMove(board, PlayerWhite, DifficultyMedium)
	if move.Row != 5 || move.Col != 7 {
		t.Fatalf("expected white to win at (5,7), got %s", move)
	}
}

func TestMediumBlocksOpenFour(t *testing.T) {
	board := NewBoard()
	for col := 7; col < 11; col++ {
		board.Set(7, col, CellBlack)
	}
	board.Set(8, 8, CellWhite)
	board.Set(6, 9, CellWhite)
	board.Set(9, 3, CellWhite)
	for seed := int64(0); seed < 10; seed++ {
		move := newTestAIPlayer(t, seed).ChooseMove(board, PlayerWhite, DifficultyMedium)
		if move.Row != 7 || (move.Col != 6 && move.Col != 11) {
			t.Fatalf("seed %d: expected white to block at (7,6) or (7,11), got %s", seed, move)
		}
	}
}

func TestMediumWithoutJitterIsDeterministic(t *testing.T) {
	board := NewBoard()
	board.Set(7, 7, CellBlack)
	settings := aiSettingsFromConfig(DefaultConfig())
	settings.MediumJitter = 0
	first := NewAIPlayer(settings, rand.New(rand.NewSource(1)), nil).ChooseMove(board, PlayerWhite, DifficultyMedium)
	second := NewAIPlayer(settings, rand.New(rand.NewSource(2)), nil).ChooseMove(board, PlayerWhite, DifficultyMedium)
	if first != second {
		t.Fatalf("expected identical moves without jitter, got %s and %s", first, second)
	}
}

func TestHardOpensInTheCentre(t *testing.T) {
	move := newTestAIPlayer(t, 1).ChooseMove(NewBoard(), PlayerBlack, DifficultyHard)
	if move.Row != BoardCenter || move.Col != BoardCenter {
		t.Fatalf("expected hard to open at the centre, got %s", move)
	}
}

func TestHardIsDeterministic(t *testing.T) {
	board := NewBoard()
	board.Set(7, 7, CellBlack)
	board.Set(7, 8, CellWhite)
	board.Set(8, 7, CellBlack)
	first := newTestAIPlayer(t, 1).ChooseMove(board, PlayerWhite, DifficultyHard)
	second := newTestAIPlayer(t, 99).ChooseMove(board, PlayerWhite, DifficultyHard)
	if first != second {
		t.Fatalf("expected hard to be deterministic, got %s and %s", first, second)
	}
	if board.At(first.Row, first.Col) != CellEmpty {
		t.Fatalf("expected an empty cell, got %s", first)
	}
}

func TestHardTakesWinAndBlocksFour(t *testing.T) {
	win := NewBoard()
	for row := 3; row < 7; row++ {
		win.Set(row, 4, CellBlack)
	}
	win.Set(2, 4, CellWhite)
	win.Set(8, 8, CellWhite)
	win.Set(9, 9, CellWhite)
	move := newTestAIPlayer(t, 1).ChooseMove(win, PlayerBlack, DifficultyHard)
	if move.Row != 7 || move.Col != 4 {
		t.Fatalf("expected black to complete five at (7,4), got %s", move)
	}

	block := NewBoard()
	for col := 5; col < 9; col++ {
		block.Set(10, col, CellBlack)
	}
	block.Set(10, 4, CellWhite)
	block.Set(6, 6, CellWhite)
	block.Set(3, 3, CellBlack)
	move = newTestAIPlayer(t, 1).ChooseMove(block, PlayerWhite, DifficultyHard)
	if move.Row != 10 || move.Col != 9 {
		t.Fatalf("expected white to block at (10,9), got %s", move)
	}
}

func TestAlphaBetaMatchesPlainMinimax(t *testing.T) {
	board := NewBoard()
	board.Set(7, 7, CellBlack)
	board.Set(7, 8, CellWhite)
	board.Set(8, 8, CellBlack)
	board.Set(6, 6, CellWhite)

	settings := aiSettingsFromConfig(DefaultConfig())
	settings.CandidateRadius = 1
	for _, depth := range []int{1, 2, 3} {
		prunedStats := &SearchStats{}
		pruned := newMinimaxSearch(board, PlayerBlack, settings, prunedStats)
		prunedScore, prunedMove := pruned.Run(depth)

		plainStats := &SearchStats{}
		plain := newMinimaxSearch(board, PlayerBlack, settings, plainStats)
		plain.prune = false
		plainScore, plainMove := plain.Run(depth)

		if prunedScore != plainScore {
			t.Fatalf("depth %d: expected equal scores, pruned=%d plain=%d", depth, prunedScore, plainScore)
		}
		if prunedMove != plainMove {
			t.Fatalf("depth %d: expected equal moves, pruned=%s plain=%s", depth, prunedMove, plainMove)
		}
		if prunedStats.Nodes > plainStats.Nodes {
			t.Fatalf("depth %d: expected pruning to visit no more nodes (%d > %d)", depth, prunedStats.Nodes, plainStats.Nodes)
		}
	}
}

func TestChooseMoveLeavesCallerBoardUntouched(t *testing.T) {
	board := NewBoard()
	board.Set(7, 7, CellBlack)
	board.Set(8, 8, CellWhite)
	before := board
	for _, difficulty := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		newTestAIPlayer(t, 1).ChooseMove(board, PlayerBlack, difficulty)
		if board != before {
			t.Fatalf("%s: expected caller board untouched", difficulty)
		}
	}
}

func TestWithStoneRevertsOnPanic(t *testing.T) {
	board := NewBoard()
	func() {
		defer func() { _ = recover() }()
		withStone(&board, NewMove(2, 2, PlayerBlack), func() int {
			panic("boom")
		})
	}()
	if board.At(2, 2) != CellEmpty {
		t.Fatalf("expected stone removed after panic")
	}
}
