package main

import "fmt"

const winLength = 5

// axes are the four line directions; each is walked both ways.
var axes = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// Place puts move.Player's stone on the board. It only touches the target cell.
func Place(board *Board, move Move) error {
	if !move.IsValid() {
		return fmt.Errorf("%w: (%d,%d) out of bounds", ErrIllegalMove, move.Row, move.Col)
	}
	if board.At(move.Row, move.Col) != CellEmpty {
		return fmt.Errorf("%w: (%d,%d) occupied", ErrIllegalMove, move.Row, move.Col)
	}
	board.Set(move.Row, move.Col, CellFromPlayer(move.Player))
	return nil
}

// CheckWin reports whether the stone at (row, col) is part of a run of five or
// more. Only the four lines through that cell are inspected.
func CheckWin(board Board, row, col int) bool {
	if !board.InBounds(row, col) {
		return false
	}
	cell := board.At(row, col)
	if cell == CellEmpty {
		return false
	}
	for _, axis := range axes {
		count := 1
		count += countDirection(board, row, col, axis[0], axis[1], cell)
		count += countDirection(board, row, col, -axis[0], -axis[1], cell)
		if count >= winLength {
			return true
		}
	}
	return false
}

// CheckDraw is true once no empty cell remains. Callers check for a win first.
func CheckDraw(board Board) bool {
	return board.CountEmpty() == 0
}

// WinningLine returns the cells of the winning run through (row, col), ordered
// from one end to the other, or false when there is none.
func WinningLine(board Board, row, col int) ([]Move, bool) {
	if !CheckWin(board, row, col) {
		return nil, false
	}
	cell := board.At(row, col)
	player, _ := PlayerFromCell(cell)
	for _, axis := range axes {
		dr, dc := axis[0], axis[1]
		back := countDirection(board, row, col, -dr, -dc, cell)
		forward := countDirection(board, row, col, dr, dc, cell)
		if back+forward+1 < winLength {
			continue
		}
		line := make([]Move, 0, back+forward+1)
		for i := -back; i <= forward; i++ {
			line = append(line, Move{Row: row + i*dr, Col: col + i*dc, Player: player})
		}
		return line, true
	}
	return nil, false
}

func countDirection(board Board, row, col, dr, dc int, cell Cell) int {
	count := 0
	r := row + dr
	c := col + dc
	for board.InBounds(r, c) && board.At(r, c) == cell {
		count++
		r += dr
		c += dc
	}
	return count
}
