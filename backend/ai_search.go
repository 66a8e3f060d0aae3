package main

import (
	"math"
	"time"
)

type SearchStats struct {
	Start     time.Time
	Nodes     int
	Leaves    int
	Cutoffs   int
	CacheHits int
}

// withStone places move on board, runs fn and always clears the cell again,
// whichever way fn returns.
func withStone[T any](board *Board, move Move, fn func() T) T {
	board.Set(move.Row, move.Col, CellFromPlayer(move.Player))
	defer board.Remove(move.Row, move.Col)
	return fn()
}

// candidateMoves lists, in row-major order, the empty cells within radius
// (Chebyshev) of any stone. An empty board yields only the centre.
func candidateMoves(board Board, radius int) []Move {
	var near [BoardSize * BoardSize]bool
	stones := 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if board.At(row, col) == CellEmpty {
				continue
			}
			stones++
			for dr := -radius; dr <= radius; dr++ {
				for dc := -radius; dc <= radius; dc++ {
					r, c := row+dr, col+dc
					if board.IsEmpty(r, c) {
						near[r*BoardSize+c] = true
					}
				}
			}
		}
	}
	if stones == 0 {
		return []Move{{Row: BoardCenter, Col: BoardCenter}}
	}
	moves := make([]Move, 0, 64)
	for idx, ok := range near {
		if ok {
			moves = append(moves, Move{Row: idx / BoardSize, Col: idx % BoardSize})
		}
	}
	return moves
}

// minimaxSearch owns a private copy of the board; every simulated stone is
// reverted before the next sibling is tried.
type minimaxSearch struct {
	board    Board
	hash     uint64
	ai       PlayerColor
	radius   int
	prune    bool
	cache    map[uint64]int
	cacheCap int
	stats    *SearchStats
}

func newMinimaxSearch(board Board, ai PlayerColor, settings AISettings, stats *SearchStats) *minimaxSearch {
	s := &minimaxSearch{
		board:    board,
		hash:     ComputeHash(board),
		ai:       ai,
		radius:   settings.CandidateRadius,
		prune:    true,
		cacheCap: settings.EvalCacheSize,
		stats:    stats,
	}
	if s.radius <= 0 {
		s.radius = 2
	}
	if s.cacheCap > 0 {
		s.cache = make(map[uint64]int, 1024)
	}
	return s
}

// Run searches depth plies with the AI maximising at the root and returns the
// root score together with the chosen move.
func (s *minimaxSearch) Run(depth int) (int, Move) {
	if depth < 1 {
		depth = 1
	}
	return s.search(depth, true, math.MinInt, math.MaxInt)
}

func (s *minimaxSearch) search(depth int, maximizing bool, alpha, beta int) (int, Move) {
	s.stats.Nodes++
	if depth == 0 {
		return s.evaluate(), NoMove
	}
	candidates := candidateMoves(s.board, s.radius)
	if len(candidates) == 0 {
		return s.evaluate(), NoMove
	}
	mover := s.ai
	if !maximizing {
		mover = otherPlayer(s.ai)
	}
	best := NoMove
	bestScore := math.MaxInt
	if maximizing {
		bestScore = math.MinInt
	}
	for _, candidate := range candidates {
		candidate.Player = mover
		score := s.withStone(candidate, func() int {
			if CheckWin(s.board, candidate.Row, candidate.Col) {
				s.stats.Leaves++
				if maximizing {
					return winScore
				}
				return lossScore
			}
			value, _ := s.search(depth-1, !maximizing, alpha, beta)
			return value
		})
		if maximizing {
			if best.IsNone() || score > bestScore {
				bestScore = score
				best = candidate
			}
			if score > alpha {
				alpha = score
			}
		} else {
			if best.IsNone() || score < bestScore {
				bestScore = score
				best = candidate
			}
			if score < beta {
				beta = score
			}
		}
		if s.prune && beta <= alpha {
			s.stats.Cutoffs++
			break
		}
	}
	return bestScore, best
}

func (s *minimaxSearch) withStone(move Move, fn func() int) int {
	key := GetZobrist().stone(move.Row, move.Col, move.Player)
	s.hash ^= key
	defer func() { s.hash ^= key }()
	return withStone(&s.board, move, fn)
}

func (s *minimaxSearch) evaluate() int {
	s.stats.Leaves++
	if s.cache != nil {
		if score, ok := s.cache[s.hash]; ok {
			s.stats.CacheHits++
			return score
		}
	}
	score := EvaluateBoard(s.board, s.ai)
	if s.cache != nil && len(s.cache) < s.cacheCap {
		s.cache[s.hash] = score
	}
	return score
}
