package main

import "fmt"

const (
	BoardSize   = 15
	BoardCenter = BoardSize / 2
)

type Cell int

const (
	CellEmpty Cell = iota
	CellBlack
	CellWhite
)

// Board is a fixed 15x15 row-major grid. It is a value type; copying a Board
// copies every cell.
type Board struct {
	cells [BoardSize * BoardSize]Cell
}

func NewBoard() Board {
	return Board{}
}

func (b *Board) Reset() {
	b.cells = [BoardSize * BoardSize]Cell{}
}

func (b Board) At(row, col int) Cell {
	return b.cells[b.index(row, col)]
}

func (b *Board) Set(row, col int, value Cell) {
	b.cells[b.index(row, col)] = value
}

func (b *Board) Remove(row, col int) {
	b.cells[b.index(row, col)] = CellEmpty
}

func (b Board) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < BoardSize && col < BoardSize
}

func (b Board) IsEmpty(row, col int) bool {
	return b.InBounds(row, col) && b.At(row, col) == CellEmpty
}

func (b Board) CountEmpty() int {
	count := 0
	for _, cell := range b.cells {
		if cell == CellEmpty {
			count++
		}
	}
	return count
}

func (b Board) CountStones() int {
	return len(b.cells) - b.CountEmpty()
}

func (b Board) Size() int {
	return BoardSize
}

func (b Board) Clone() Board {
	return b
}

func (b Board) index(row, col int) int {
	return row*BoardSize + col
}

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "Black"
	case CellWhite:
		return "White"
	default:
		return "Empty"
	}
}

func CellFromPlayer(player PlayerColor) Cell {
	if player == PlayerBlack {
		return CellBlack
	}
	return CellWhite
}

func PlayerFromCell(cell Cell) (PlayerColor, error) {
	switch cell {
	case CellBlack:
		return PlayerBlack, nil
	case CellWhite:
		return PlayerWhite, nil
	default:
		return PlayerBlack, fmt.Errorf("empty cell has no player")
	}
}

func boardToSlice(board Board) [][]int {
	rows := make([][]int, BoardSize)
	for row := 0; row < BoardSize; row++ {
		rows[row] = make([]int, BoardSize)
		for col := 0; col < BoardSize; col++ {
			rows[row][col] = cellToInt(board.At(row, col))
		}
	}
	return rows
}

func boardFromSlice(rows [][]int) (Board, error) {
	board := NewBoard()
	if len(rows) != BoardSize {
		return board, fmt.Errorf("board must have %d rows, got %d", BoardSize, len(rows))
	}
	for row, values := range rows {
		if len(values) != BoardSize {
			return board, fmt.Errorf("row %d must have %d cells, got %d", row, BoardSize, len(values))
		}
		for col, value := range values {
			if value < 0 || value > 2 {
				return board, fmt.Errorf("cell (%d,%d) has invalid value %d", row, col, value)
			}
			board.Set(row, col, intToCell(value))
		}
	}
	return board, nil
}

func cellToInt(cell Cell) int {
	switch cell {
	case CellBlack:
		return 1
	case CellWhite:
		return 2
	default:
		return 0
	}
}

func intToCell(value int) Cell {
	switch value {
	case 1:
		return CellBlack
	case 2:
		return CellWhite
	default:
		return CellEmpty
	}
}
