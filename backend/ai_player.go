package main

import (
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// AISettings are the tunable knobs of the decision engine. The jitter and the
// depth are empirical values kept for behavioural compatibility.
type AISettings struct {
	MediumJitter    int
	HardDepth       int
	CandidateRadius int
	EvalCacheSize   int
	LogSearchStats  bool
}

func aiSettingsFromConfig(config Config) AISettings {
	return AISettings{
		MediumJitter:    config.AiMediumJitter,
		HardDepth:       config.AiHardDepth,
		CandidateRadius: config.AiCandidateRadius,
		EvalCacheSize:   config.AiEvalCacheSize,
		LogSearchStats:  config.AiLogSearchStats,
	}
}

// Strategy picks a move for ai. ok is false when it found no candidate.
type Strategy interface {
	ChooseMove(board Board, ai PlayerColor) (move Move, ok bool)
}

type AIPlayer struct {
	settings AISettings
	rng      *rand.Rand
	logger   *zap.Logger
}

func NewAIPlayer(settings AISettings, rng *rand.Rand, logger *zap.Logger) *AIPlayer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIPlayer{settings: settings, rng: rng, logger: logger}
}

// ChooseMove returns the AI's move for the given difficulty, or NoMove when
// the board is full. The board is passed by value and is never modified.
func (a *AIPlayer) ChooseMove(board Board, ai PlayerColor, difficulty Difficulty) Move {
	move, ok := a.strategyFor(difficulty).ChooseMove(board, ai)
	if !ok {
		move, ok = a.strategyFor(DifficultyEasy).ChooseMove(board, ai)
	}
	if !ok {
		return NoMove
	}
	move.Player = ai
	return move
}

func (a *AIPlayer) strategyFor(difficulty Difficulty) Strategy {
	switch difficulty {
	case DifficultyMedium:
		return heuristicStrategy{rng: a.rng, jitter: a.settings.MediumJitter}
	case DifficultyHard:
		return minimaxStrategy{settings: a.settings, logger: a.logger}
	default:
		return randomStrategy{rng: a.rng}
	}
}

type randomStrategy struct {
	rng *rand.Rand
}

func (s randomStrategy) ChooseMove(board Board, _ PlayerColor) (Move, bool) {
	empty := emptyCells(board)
	if len(empty) == 0 {
		return NoMove, false
	}
	return empty[s.rng.Intn(len(empty))], true
}

type heuristicStrategy struct {
	rng    *rand.Rand
	jitter int
}

func (s heuristicStrategy) ChooseMove(board Board, ai PlayerColor) (Move, bool) {
	opponent := otherPlayer(ai)
	if move, ok := findWinningMove(board, ai); ok {
		return move, true
	}
	if move, ok := findWinningMove(board, opponent); ok {
		return move, true
	}
	best := NoMove
	bestScore := 0
	for _, cell := range emptyCells(board) {
		score := PositionScore(board, cell.Row, cell.Col, ai, opponent)
		if s.jitter > 0 {
			score += s.rng.Intn(s.jitter)
		}
		if best.IsNone() || score > bestScore {
			best = cell
			bestScore = score
		}
	}
	return best, !best.IsNone()
}

type minimaxStrategy struct {
	settings AISettings
	logger   *zap.Logger
}

func (s minimaxStrategy) ChooseMove(board Board, ai PlayerColor) (Move, bool) {
	if board.CountEmpty() == 0 {
		return NoMove, false
	}
	depth := s.settings.HardDepth
	if depth <= 0 {
		depth = 3
	}
	stats := &SearchStats{Start: time.Now()}
	search := newMinimaxSearch(board, ai, s.settings, stats)
	score, move := search.Run(depth)
	if s.settings.LogSearchStats {
		s.logger.Info("minimax search finished",
			zap.String("ai", ai.String()),
			zap.Int("depth", depth),
			zap.Int("score", score),
			zap.Int("nodes", stats.Nodes),
			zap.Int("leaves", stats.Leaves),
			zap.Int("cutoffs", stats.Cutoffs),
			zap.Int("cache_hits", stats.CacheHits),
			zap.Duration("elapsed", time.Since(stats.Start)),
		)
	}
	return move, !move.IsNone()
}

// findWinningMove scans empty cells in row-major order for one that completes
// five for player.
func findWinningMove(board Board, player PlayerColor) (Move, bool) {
	for _, cell := range emptyCells(board) {
		cell.Player = player
		if withStone(&board, cell, func() bool { return CheckWin(board, cell.Row, cell.Col) }) {
			return cell, true
		}
	}
	return NoMove, false
}

func emptyCells(board Board) []Move {
	cells := make([]Move, 0, board.CountEmpty())
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if board.At(row, col) == CellEmpty {
				cells = append(cells, Move{Row: row, Col: col})
			}
		}
	}
	return cells
}
