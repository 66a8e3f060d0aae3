package main

import "fmt"

// NoMove is returned by the AI when the board has no empty cell left.
var NoMove = Move{Row: -1, Col: -1}

type Move struct {
	Row    int         `json:"row"`
	Col    int         `json:"col"`
	Player PlayerColor `json:"player"`
}

func NewMove(row, col int, player PlayerColor) Move {
	return Move{Row: row, Col: col, Player: player}
}

func (m Move) IsValid() bool {
	return m.Row >= 0 && m.Col >= 0 && m.Row < BoardSize && m.Col < BoardSize
}

func (m Move) IsNone() bool {
	return m.Row == NoMove.Row && m.Col == NoMove.Col
}

func (m Move) String() string {
	return fmt.Sprintf("%s(%d,%d)", m.Player, m.Row, m.Col)
}
