package main

import (
	"fmt"
	"strings"
	"time"
)

type GameMode int

const (
	ModeLocalTwoPlayer GameMode = iota
	ModeLocalVsAI
	ModeNetwork
)

type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

// Actor identifies where a move request came from.
type Actor int

const (
	ActorLocal Actor = iota
	ActorAI
	ActorPeer
)

type NetworkRole int

const (
	RoleNone NetworkRole = iota
	RoleHost
	RoleGuest
)

// GameSettings are chosen before a session starts. LocalColor is the human's
// colour in LocalVsAI and the local player's colour in network games.
type GameSettings struct {
	Mode       GameMode    `json:"mode"`
	Difficulty Difficulty  `json:"difficulty"`
	LocalColor PlayerColor `json:"local_color"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		Mode:       ModeLocalVsAI,
		Difficulty: DifficultyMedium,
		LocalColor: PlayerBlack,
	}
}

// AIColor is the colour played by the computer in LocalVsAI.
func (s GameSettings) AIColor() PlayerColor {
	return otherPlayer(s.LocalColor)
}

// ThinkTime is the cosmetic delay before the AI plays.
func (d Difficulty) ThinkTime(stepMs int) time.Duration {
	if stepMs <= 0 {
		return 0
	}
	return time.Duration(int(d.normalized())+1) * time.Duration(stepMs) * time.Millisecond
}

func (d Difficulty) normalized() Difficulty {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d
	default:
		return DifficultyEasy
	}
}

func (m GameMode) String() string {
	switch m {
	case ModeLocalVsAI:
		return "local_vs_ai"
	case ModeNetwork:
		return "network"
	default:
		return "local_two_player"
	}
}

func parseGameMode(value string) (GameMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "local_two_player", "human_vs_human":
		return ModeLocalTwoPlayer, nil
	case "local_vs_ai", "ai_vs_human":
		return ModeLocalVsAI, nil
	case "network":
		return ModeNetwork, nil
	default:
		return ModeLocalTwoPlayer, fmt.Errorf("unknown mode %q", value)
	}
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "easy"
	}
}

func parseDifficulty(value string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "easy", "":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return DifficultyEasy, fmt.Errorf("unknown difficulty %q", value)
	}
}

func (a Actor) String() string {
	switch a {
	case ActorAI:
		return "ai"
	case ActorPeer:
		return "peer"
	default:
		return "local"
	}
}

func (r NetworkRole) String() string {
	switch r {
	case RoleHost:
		return "host"
	case RoleGuest:
		return "guest"
	default:
		return ""
	}
}
