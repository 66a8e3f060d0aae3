package main

const (
	// scanReach is how far RunLength looks in each direction.
	scanReach = 4

	winScore  = 1_000_000
	lossScore = -winScore
)

// RunLength counts the open run of color through (row, col) along (dRow, dCol)
// and its inverse. The origin counts as one stone whatever it holds. Empty
// cells are skipped as room to grow; an opposing stone or the edge ends the
// scan in that direction.
func RunLength(board Board, row, col, dRow, dCol int, color PlayerColor) int {
	cell := CellFromPlayer(color)
	count := 1
	for _, sign := range [2]int{1, -1} {
		for i := 1; i <= scanReach; i++ {
			r := row + sign*i*dRow
			c := col + sign*i*dCol
			if !board.InBounds(r, c) {
				break
			}
			value := board.At(r, c)
			if value == cell {
				count++
				continue
			}
			if value != CellEmpty {
				break
			}
		}
	}
	return count
}

// PatternScore maps a run length to its value. Medium move scoring and the
// minimax leaf evaluation both go through this table.
func PatternScore(runLength int) int {
	switch {
	case runLength > 5:
		return 1_000_000
	case runLength == 5:
		return 100_000
	case runLength == 4:
		return 10_000
	case runLength == 3:
		return 1_000
	case runLength == 2:
		return 100
	case runLength == 1:
		return 10
	default:
		return 0
	}
}

// PositionScore rates playing mover at (row, col): own patterns count double,
// opponent patterns count once (blocking value), plus a bonus for the centre.
func PositionScore(board Board, row, col int, mover, opponent PlayerColor) int {
	score := 0
	for _, axis := range axes {
		score += PatternScore(RunLength(board, row, col, axis[0], axis[1], mover)) * 2
		score += PatternScore(RunLength(board, row, col, axis[0], axis[1], opponent))
	}
	return score + centerBonus(row, col)
}

// StoneScore sums the pattern value of color's runs through (row, col).
func StoneScore(board Board, row, col int, color PlayerColor) int {
	score := 0
	for _, axis := range axes {
		score += PatternScore(RunLength(board, row, col, axis[0], axis[1], color))
	}
	return score
}

// EvaluateBoard scores a position for ai: every ai stone's patterns minus
// every opponent stone's patterns.
func EvaluateBoard(board Board, ai PlayerColor) int {
	aiCell := CellFromPlayer(ai)
	opponent := otherPlayer(ai)
	score := 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			switch board.At(row, col) {
			case CellEmpty:
			case aiCell:
				score += StoneScore(board, row, col, ai)
			default:
				score -= StoneScore(board, row, col, opponent)
			}
		}
	}
	return score
}

func centerBonus(row, col int) int {
	return (14 - (absInt(row-BoardCenter) + absInt(col-BoardCenter))) * 5
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
