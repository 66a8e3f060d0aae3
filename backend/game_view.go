package main

import (
	"fmt"
	"strings"
)

type StatusResponse struct {
	SessionID       string            `json:"session_id"`
	Settings        GameSettingsDTO   `json:"settings"`
	Board           [][]int           `json:"board"`
	BoardSize       int               `json:"board_size"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	Status          string            `json:"status"`
	MoveCount       int               `json:"move_count"`
	LastMove        *Move             `json:"last_move,omitempty"`
	WinningLine     []Move            `json:"winning_line"`
	History         []historyEntryDTO `json:"history"`
	AiThinking      bool              `json:"ai_thinking"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
	Network         *networkDTO       `json:"network,omitempty"`
}

type GameSettingsDTO struct {
	Mode        string `json:"mode"`
	Difficulty  string `json:"difficulty"`
	HumanPlayer int    `json:"human_player"`
}

type historyEntryDTO struct {
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	Player    int     `json:"player"`
	Actor     string  `json:"actor"`
	ElapsedMs float64 `json:"elapsed_ms"`
}

type networkDTO struct {
	Role             string `json:"role"`
	Started          bool   `json:"started"`
	MyTurn           bool   `json:"my_turn"`
	LocalName        string `json:"local_name"`
	OpponentName     string `json:"opponent_name"`
	RestartPending   bool   `json:"restart_pending"`
	RestartRequested bool   `json:"restart_requested"`
}

// Event is pushed to UI subscribers after every transition and for every
// network notification.
type Event struct {
	Type    string          `json:"type"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Status  *StatusResponse `json:"status,omitempty"`
}

// Status renders the session for the presentation layer.
func (g *Game) Status() StatusResponse {
	state := g.state
	resp := StatusResponse{
		SessionID:       g.id,
		Settings:        settingsToDTO(g.settings),
		Board:           boardToSlice(state.Board),
		BoardSize:       state.Board.Size(),
		NextPlayer:      playerToInt(state.ToMove),
		Winner:          winnerFromOutcome(state.Outcome),
		Status:          statusToString(state),
		MoveCount:       state.History.Size(),
		WinningLine:     append([]Move{}, state.WinningLine...),
		History:         historyToDTO(state.History),
		AiThinking:      g.aiPending,
		TurnStartedAtMs: g.turnStart.UnixMilli(),
	}
	if state.IsTerminal() {
		resp.NextPlayer = 0
	}
	if state.HasLastMove {
		last := state.LastMove
		resp.LastMove = &last
	}
	if g.net.peer != nil {
		resp.Network = &networkDTO{
			Role:             g.net.role.String(),
			Started:          g.net.started,
			MyTurn:           g.net.myTurn,
			LocalName:        g.net.localName,
			OpponentName:     g.net.opponentName,
			RestartPending:   g.net.restartPending,
			RestartRequested: g.net.restartRequested,
		}
	}
	return resp
}

func settingsToDTO(settings GameSettings) GameSettingsDTO {
	return GameSettingsDTO{
		Mode:        settings.Mode.String(),
		Difficulty:  settings.Difficulty.String(),
		HumanPlayer: playerToInt(settings.LocalColor),
	}
}

// settingsFromDTO overlays the non-empty fields of dto on base.
func settingsFromDTO(dto GameSettingsDTO, base GameSettings) (GameSettings, error) {
	settings := base
	if strings.TrimSpace(dto.Mode) != "" {
		mode, err := parseGameMode(dto.Mode)
		if err != nil {
			return base, err
		}
		settings.Mode = mode
	}
	if strings.TrimSpace(dto.Difficulty) != "" {
		difficulty, err := parseDifficulty(dto.Difficulty)
		if err != nil {
			return base, err
		}
		settings.Difficulty = difficulty
	}
	if dto.HumanPlayer != 0 {
		color, ok := intToPlayer(dto.HumanPlayer)
		if !ok {
			return base, fmt.Errorf("unknown player %d", dto.HumanPlayer)
		}
		settings.LocalColor = color
	}
	return settings, nil
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryDTO{
			Row:       entry.Move.Row,
			Col:       entry.Move.Col,
			Player:    playerToInt(entry.Move.Player),
			Actor:     entry.Actor.String(),
			ElapsedMs: entry.ElapsedMs,
		})
	}
	return result
}
