package main

import (
	"fmt"
	"time"
)

// Snapshot is the saved form of a session.
type Snapshot struct {
	ID         string         `json:"id"`
	Board      [][]int        `json:"board"`
	ToMove     int            `json:"to_move"`
	GameOver   bool           `json:"game_over"`
	Outcome    string         `json:"outcome"`
	History    []SnapshotMove `json:"history"`
	Mode       string         `json:"mode"`
	LocalColor int            `json:"local_color"`
	Difficulty string         `json:"difficulty"`
	SavedAt    time.Time      `json:"saved_at"`
}

type SnapshotMove struct {
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	Player    int     `json:"player"`
	Actor     string  `json:"actor,omitempty"`
	ElapsedMs float64 `json:"elapsed_ms,omitempty"`
}

func (g *Game) Snapshot() Snapshot {
	entries := g.state.History.All()
	history := make([]SnapshotMove, 0, len(entries))
	for _, entry := range entries {
		history = append(history, SnapshotMove{
			Row:       entry.Move.Row,
			Col:       entry.Move.Col,
			Player:    playerToInt(entry.Move.Player),
			Actor:     entry.Actor.String(),
			ElapsedMs: entry.ElapsedMs,
		})
	}
	return Snapshot{
		ID:         g.id,
		Board:      boardToSlice(g.state.Board),
		ToMove:     playerToInt(g.state.ToMove),
		GameOver:   g.state.IsTerminal(),
		Outcome:    outcomeToString(g.state.Outcome),
		History:    history,
		Mode:       g.settings.Mode.String(),
		LocalColor: playerToInt(g.settings.LocalColor),
		Difficulty: g.settings.Difficulty.String(),
		SavedAt:    time.Now().UTC(),
	}
}

// Restore replaces the session with snap after validating it. A live peer is
// dropped first; network saves come back as a two-player local game.
func (g *Game) Restore(snap Snapshot) error {
	state, settings, err := snap.decode()
	if err != nil {
		return err
	}
	if g.net.peer != nil {
		g.closePeer(true)
	}
	g.id = snap.ID
	if g.id == "" {
		g.id = newSessionID()
	}
	g.settings = settings
	g.state = state
	g.generation++
	g.aiPending = false
	g.turnStart = time.Now()
	g.notify("restore", "")
	g.maybeInvokeAI()
	return nil
}

func (s Snapshot) decode() (GameState, GameSettings, error) {
	var state GameState
	state.Reset()

	mode, err := parseGameMode(s.Mode)
	if err != nil {
		return state, GameSettings{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if mode == ModeNetwork {
		mode = ModeLocalTwoPlayer
	}
	difficulty, err := parseDifficulty(s.Difficulty)
	if err != nil {
		return state, GameSettings{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	localColor, ok := intToPlayer(s.LocalColor)
	if !ok {
		return state, GameSettings{}, fmt.Errorf("%w: local color %d", ErrInvalidSnapshot, s.LocalColor)
	}
	settings := GameSettings{Mode: mode, Difficulty: difficulty, LocalColor: localColor}

	moves := make([]Move, 0, len(s.History))
	for i, entry := range s.History {
		player, ok := intToPlayer(entry.Player)
		if !ok {
			return state, settings, fmt.Errorf("%w: move %d has player %d", ErrInvalidSnapshot, i, entry.Player)
		}
		moves = append(moves, NewMove(entry.Row, entry.Col, player))
	}
	board, err := ReplayMoves(moves)
	if err != nil {
		return state, settings, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if s.Board != nil {
		saved, err := boardFromSlice(s.Board)
		if err != nil {
			return state, settings, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		if saved != board {
			return state, settings, fmt.Errorf("%w: board does not match history", ErrInvalidSnapshot)
		}
	}

	state.Board = board
	for i, move := range moves {
		state.History.Push(HistoryEntry{
			Move:      move,
			Actor:     parseActor(s.History[i].Actor),
			ElapsedMs: s.History[i].ElapsedMs,
		})
	}
	state.ToMove = ExpectedColor(len(moves))
	if len(moves) > 0 {
		last := moves[len(moves)-1]
		state.LastMove = last
		state.HasLastMove = true
		if line, won := WinningLine(board, last.Row, last.Col); won {
			state.Status = StatusTerminal
			state.Outcome = winOutcome(last.Player)
			state.WinningLine = line
			state.ToMove = last.Player
		} else if CheckDraw(board) {
			state.Status = StatusTerminal
			state.Outcome = OutcomeDraw
			state.ToMove = last.Player
		}
	}
	if s.GameOver != state.IsTerminal() {
		return state, settings, fmt.Errorf("%w: game_over=%t does not match history", ErrInvalidSnapshot, s.GameOver)
	}
	if !state.IsTerminal() {
		toMove, ok := intToPlayer(s.ToMove)
		if !ok || toMove != state.ToMove {
			return state, settings, fmt.Errorf("%w: to_move=%d, history says %s", ErrInvalidSnapshot, s.ToMove, state.ToMove)
		}
	}
	return state, settings, nil
}

func parseActor(value string) Actor {
	switch value {
	case "ai":
		return ActorAI
	case "peer":
		return ActorPeer
	default:
		return ActorLocal
	}
}
