package main

import (
	"fmt"
	"strconv"
	"strings"
)

type MessageKind string

const (
	MsgMove          MessageKind = "MOVE"
	MsgStart         MessageKind = "START"
	MsgRestart       MessageKind = "RESTART"
	MsgRestartAccept MessageKind = "RESTART:ACCEPT"
	MsgRestartReject MessageKind = "RESTART:REJECT"
	MsgPlayerInfo    MessageKind = "PLAYER_INFO"
	MsgChat          MessageKind = "CHAT"
	MsgGameOver      MessageKind = "GAME_OVER"
	MsgDisconnect    MessageKind = "DISCONNECT"
)

// Message is one line of the peer protocol.
type Message struct {
	Kind  MessageKind
	Row   int
	Col   int
	Color PlayerColor
	Text  string
}

func moveMessage(row, col int) Message {
	return Message{Kind: MsgMove, Row: row, Col: col}
}

func startMessage(hostColor PlayerColor) Message {
	return Message{Kind: MsgStart, Color: hostColor}
}

func playerInfoMessage(name string) Message {
	return Message{Kind: MsgPlayerInfo, Text: name}
}

func chatMessage(text string) Message {
	return Message{Kind: MsgChat, Text: text}
}

// Encode renders the message without the trailing newline.
func (m Message) Encode() string {
	switch m.Kind {
	case MsgMove:
		return fmt.Sprintf("%s:%d,%d", MsgMove, m.Row, m.Col)
	case MsgStart:
		return fmt.Sprintf("%s:%d", MsgStart, playerToInt(m.Color))
	case MsgPlayerInfo, MsgChat:
		return string(m.Kind) + ":" + sanitizeText(m.Text)
	default:
		return string(m.Kind)
	}
}

// ParseMessage decodes a single protocol line. Anything it cannot read is
// reported as ErrMalformedMessage.
func ParseMessage(line string) (Message, error) {
	line = strings.TrimRight(line, "\r\n")
	head, payload, hasPayload := strings.Cut(line, ":")
	switch MessageKind(head) {
	case MsgMove:
		if !hasPayload {
			return Message{}, malformed(line, "missing coordinates")
		}
		rowText, colText, ok := strings.Cut(payload, ",")
		if !ok {
			return Message{}, malformed(line, "coordinates must be row,col")
		}
		row, err := strconv.Atoi(strings.TrimSpace(rowText))
		if err != nil {
			return Message{}, malformed(line, "bad row")
		}
		col, err := strconv.Atoi(strings.TrimSpace(colText))
		if err != nil {
			return Message{}, malformed(line, "bad col")
		}
		return moveMessage(row, col), nil
	case MsgStart:
		value, err := strconv.Atoi(strings.TrimSpace(payload))
		if !hasPayload || err != nil {
			return Message{}, malformed(line, "missing host colour")
		}
		color, ok := intToPlayer(value)
		if !ok {
			return Message{}, malformed(line, "host colour must be 1 or 2")
		}
		return startMessage(color), nil
	case MsgRestart:
		if !hasPayload {
			return Message{Kind: MsgRestart}, nil
		}
		switch payload {
		case "ACCEPT":
			return Message{Kind: MsgRestartAccept}, nil
		case "REJECT":
			return Message{Kind: MsgRestartReject}, nil
		}
		return Message{}, malformed(line, "unknown restart answer")
	case MsgPlayerInfo:
		if !hasPayload {
			return Message{}, malformed(line, "missing name")
		}
		return playerInfoMessage(payload), nil
	case MsgChat:
		return chatMessage(payload), nil
	case MsgGameOver:
		return Message{Kind: MsgGameOver}, nil
	case MsgDisconnect:
		return Message{Kind: MsgDisconnect}, nil
	}
	return Message{}, malformed(line, "unknown message type")
}

func malformed(line, reason string) error {
	return fmt.Errorf("%w: %s: %q", ErrMalformedMessage, reason, line)
}

func sanitizeText(text string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(text)
}
