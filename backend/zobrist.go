package main

import "sync"

// ZobristTable holds one random key per (cell, colour).
type ZobristTable struct {
	cells [BoardSize * BoardSize * 2]uint64
}

var (
	zobristOnce  sync.Once
	zobristTable *ZobristTable
)

func GetZobrist() *ZobristTable {
	zobristOnce.Do(func() {
		rng := splitmix64{state: uint64(0x9e3779b97f4a7c15) ^ uint64(BoardSize)}
		table := &ZobristTable{}
		for i := range table.cells {
			table.cells[i] = rng.next()
		}
		zobristTable = table
	})
	return zobristTable
}

func (z *ZobristTable) stone(row, col int, player PlayerColor) uint64 {
	idx := (row*BoardSize + col) * 2
	if player == PlayerWhite {
		idx++
	}
	return z.cells[idx]
}

// ComputeHash hashes the stones on the board. Side to move is not included:
// callers key by the evaluating colour themselves.
func ComputeHash(board Board) uint64 {
	z := GetZobrist()
	var hash uint64
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			player, err := PlayerFromCell(board.At(row, col))
			if err != nil {
				continue
			}
			hash ^= z.stone(row, col, player)
		}
	}
	return hash
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
