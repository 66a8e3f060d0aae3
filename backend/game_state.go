package main

type PlayerColor int

type GameStatus int

type Outcome int

const (
	PlayerBlack PlayerColor = iota
	PlayerWhite
)

const (
	StatusAwaitingMove GameStatus = iota
	StatusTerminal
)

const (
	OutcomeNone Outcome = iota
	OutcomeBlackWon
	OutcomeWhiteWon
	OutcomeDraw
)

// GameState is the board-level part of a session: grid, history, whose turn it
// is and whether the game has ended.
type GameState struct {
	Board       Board
	History     MoveHistory
	ToMove      PlayerColor
	Status      GameStatus
	Outcome     Outcome
	LastMove    Move
	HasLastMove bool
	WinningLine []Move
}

func (s *GameState) Reset() {
	s.Board.Reset()
	s.History.Clear()
	s.ToMove = PlayerBlack
	s.Status = StatusAwaitingMove
	s.Outcome = OutcomeNone
	s.LastMove = NoMove
	s.HasLastMove = false
	s.WinningLine = nil
}

func (s GameState) Clone() GameState {
	clone := s
	clone.History = MoveHistory{entries: s.History.All()}
	clone.WinningLine = append([]Move(nil), s.WinningLine...)
	return clone
}

func (s GameState) IsTerminal() bool {
	return s.Status == StatusTerminal
}

func (p PlayerColor) String() string {
	if p == PlayerWhite {
		return "White"
	}
	return "Black"
}

func otherPlayer(player PlayerColor) PlayerColor {
	if player == PlayerBlack {
		return PlayerWhite
	}
	return PlayerBlack
}

func winOutcome(player PlayerColor) Outcome {
	if player == PlayerBlack {
		return OutcomeBlackWon
	}
	return OutcomeWhiteWon
}

func playerToInt(player PlayerColor) int {
	if player == PlayerBlack {
		return 1
	}
	return 2
}

func intToPlayer(value int) (PlayerColor, bool) {
	switch value {
	case 1:
		return PlayerBlack, true
	case 2:
		return PlayerWhite, true
	default:
		return PlayerBlack, false
	}
}

func winnerFromOutcome(outcome Outcome) int {
	switch outcome {
	case OutcomeBlackWon:
		return 1
	case OutcomeWhiteWon:
		return 2
	default:
		return 0
	}
}

func outcomeToString(outcome Outcome) string {
	switch outcome {
	case OutcomeBlackWon:
		return "black_won"
	case OutcomeWhiteWon:
		return "white_won"
	case OutcomeDraw:
		return "draw"
	default:
		return ""
	}
}

func statusToString(state GameState) string {
	if state.Status == StatusTerminal {
		return outcomeToString(state.Outcome)
	}
	return "running"
}
