package main

import "fmt"

type HistoryEntry struct {
	Move      Move
	Actor     Actor
	ElapsedMs float64
}

type MoveHistory struct {
	entries []HistoryEntry
}

func (h *MoveHistory) Clear() {
	h.entries = nil
}

func (h *MoveHistory) Push(entry HistoryEntry) {
	h.entries = append(h.entries, entry)
}

func (h *MoveHistory) Pop() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return HistoryEntry{}, false
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return last, true
}

func (h MoveHistory) Last() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return HistoryEntry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

func (h MoveHistory) Size() int {
	return len(h.entries)
}

func (h MoveHistory) All() []HistoryEntry {
	return append([]HistoryEntry(nil), h.entries...)
}

func (h MoveHistory) Moves() []Move {
	moves := make([]Move, 0, len(h.entries))
	for _, entry := range h.entries {
		moves = append(moves, entry.Move)
	}
	return moves
}

// ExpectedColor is the colour the n-th move (0-based) must have: Black opens.
func ExpectedColor(index int) PlayerColor {
	if index%2 == 0 {
		return PlayerBlack
	}
	return PlayerWhite
}

// ReplayMoves rebuilds a board from an ordered move list, checking legality and
// turn parity of every entry. No move may follow a winning one.
func ReplayMoves(moves []Move) (Board, error) {
	board := NewBoard()
	for i, move := range moves {
		if move.Player != ExpectedColor(i) {
			return board, fmt.Errorf("move %d: expected %s, got %s", i, ExpectedColor(i), move.Player)
		}
		if err := Place(&board, move); err != nil {
			return board, fmt.Errorf("move %d: %w", i, err)
		}
		if i < len(moves)-1 && CheckWin(board, move.Row, move.Col) {
			return board, fmt.Errorf("move %d: game already won by %s", i+1, move.Player)
		}
	}
	return board, nil
}
