package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errStaleAIResult = errors.New("stale ai result")

// aiTag pins an AI request to the session state it was computed for.
type aiTag struct {
	Generation uint64
	MoveCount  int
}

type aiRequest struct {
	Tag        aiTag
	Board      Board
	Color      PlayerColor
	Difficulty Difficulty
}

// gameHooks are the side effects a transition can trigger.
type gameHooks interface {
	RequestAI(req aiRequest)
	Notify(event Event)
}

// peerConn is the sending half of a network peer.
type peerConn interface {
	Send(msg Message) bool
	Close()
}

// Game is the session state machine. It is not safe for concurrent use: the
// GameController is its only caller.
type Game struct {
	id         string
	settings   GameSettings
	state      GameState
	generation uint64
	turnStart  time.Time
	aiPending  bool
	net        networkState
	hooks      gameHooks
	logger     *zap.Logger
}

func NewGame(settings GameSettings, hooks gameHooks, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Game{hooks: hooks, logger: logger}
	g.Reset(settings)
	return g
}

// Reset starts a fresh local session with settings.
func (g *Game) Reset(settings GameSettings) {
	settings.Difficulty = settings.Difficulty.normalized()
	g.id = newSessionID()
	g.settings = settings
	g.resetBoard()
	g.logger.Info("new session",
		zap.String("session", g.id),
		zap.String("mode", settings.Mode.String()),
		zap.String("difficulty", settings.Difficulty.String()),
		zap.String("local_color", settings.LocalColor.String()),
	)
	g.maybeInvokeAI()
}

func (g *Game) resetBoard() {
	g.state.Reset()
	g.generation++
	g.aiPending = false
	g.turnStart = time.Now()
}

func newSessionID() string {
	return uuid.NewString()
}

func (g *Game) ID() string {
	return g.id
}

func (g *Game) Settings() GameSettings {
	return g.settings
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) currentTag() aiTag {
	return aiTag{Generation: g.generation, MoveCount: g.state.History.Size()}
}

// SubmitMove runs one transition for a move proposed by actor. On any error
// the session is left exactly as it was.
func (g *Game) SubmitMove(actor Actor, row, col int) error {
	if g.state.IsTerminal() {
		return ErrGameOver
	}
	if err := g.authorize(actor); err != nil {
		return err
	}
	move := NewMove(row, col, g.state.ToMove)
	if err := Place(&g.state.Board, move); err != nil {
		return err
	}
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())
	g.state.History.Push(HistoryEntry{Move: move, Actor: actor, ElapsedMs: elapsedMs})
	g.state.LastMove = move
	g.state.HasLastMove = true
	g.aiPending = false

	if line, ok := WinningLine(g.state.Board, row, col); ok {
		g.state.Status = StatusTerminal
		g.state.Outcome = winOutcome(move.Player)
		g.state.WinningLine = line
	} else if CheckDraw(g.state.Board) {
		g.state.Status = StatusTerminal
		g.state.Outcome = OutcomeDraw
	} else {
		g.state.ToMove = otherPlayer(g.state.ToMove)
		g.turnStart = time.Now()
	}
	g.logger.Debug("move played",
		zap.String("session", g.id),
		zap.String("actor", actor.String()),
		zap.String("move", move.String()),
		zap.Float64("elapsed_ms", elapsedMs),
	)
	g.afterNetworkMove(actor, move)
	g.notify("move", "")
	if g.state.IsTerminal() {
		g.logger.Info("game over",
			zap.String("session", g.id),
			zap.String("outcome", outcomeToString(g.state.Outcome)),
			zap.Int("moves", g.state.History.Size()),
		)
		g.notify("game_over", outcomeToString(g.state.Outcome))
		return nil
	}
	g.maybeInvokeAI()
	return nil
}

func (g *Game) authorize(actor Actor) error {
	toMove := g.state.ToMove
	allowed := false
	switch g.settings.Mode {
	case ModeLocalTwoPlayer:
		allowed = actor == ActorLocal
	case ModeLocalVsAI:
		aiColor := g.settings.AIColor()
		switch actor {
		case ActorLocal:
			allowed = toMove != aiColor
		case ActorAI:
			allowed = toMove == aiColor
		}
	case ModeNetwork:
		local := g.settings.LocalColor
		switch actor {
		case ActorLocal:
			allowed = g.net.myTurn && toMove == local
		case ActorPeer:
			allowed = !g.net.myTurn && toMove == otherPlayer(local)
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s may not move for %s", ErrOutOfTurn, actor, toMove)
	}
	return nil
}

// ApplyAIResult feeds a finished search back into the session unless the
// session moved on since the search was dispatched.
func (g *Game) ApplyAIResult(tag aiTag, move Move) error {
	if tag != g.currentTag() {
		g.logger.Debug("discarding stale ai result",
			zap.String("session", g.id),
			zap.Uint64("generation", tag.Generation),
			zap.Int("move_count", tag.MoveCount),
		)
		return errStaleAIResult
	}
	g.aiPending = false
	if move.IsNone() {
		g.logger.Warn("ai found no move", zap.String("session", g.id))
		return fmt.Errorf("%w: ai found no move", ErrIllegalMove)
	}
	return g.SubmitMove(ActorAI, move.Row, move.Col)
}

func (g *Game) isAITurn() bool {
	return g.settings.Mode == ModeLocalVsAI &&
		!g.state.IsTerminal() &&
		g.state.ToMove == g.settings.AIColor()
}

func (g *Game) maybeInvokeAI() {
	if !g.isAITurn() || g.hooks == nil {
		return
	}
	g.aiPending = true
	g.hooks.RequestAI(aiRequest{
		Tag:        g.currentTag(),
		Board:      g.state.Board.Clone(),
		Color:      g.settings.AIColor(),
		Difficulty: g.settings.Difficulty,
	})
	g.notify("ai_thinking", "")
}

// Undo takes back the last move. Against the AI it keeps undoing until the
// human is to move again.
func (g *Game) Undo() error {
	if g.settings.Mode == ModeNetwork {
		return ErrUndoUnsupported
	}
	if g.state.IsTerminal() {
		return ErrGameOver
	}
	if g.state.History.Size() == 0 {
		return ErrNothingToUndo
	}
	g.popMove()
	if g.settings.Mode == ModeLocalVsAI && g.state.ToMove == g.settings.AIColor() && g.state.History.Size() > 0 {
		g.popMove()
	}
	g.generation++
	g.aiPending = false
	g.turnStart = time.Now()
	g.notify("undo", "")
	g.maybeInvokeAI()
	return nil
}

func (g *Game) popMove() {
	entry, ok := g.state.History.Pop()
	if !ok {
		return
	}
	g.state.Board.Remove(entry.Move.Row, entry.Move.Col)
	g.state.ToMove = entry.Move.Player
	g.state.WinningLine = nil
	if last, ok := g.state.History.Last(); ok {
		g.state.LastMove = last.Move
		g.state.HasLastMove = true
	} else {
		g.state.LastMove = NoMove
		g.state.HasLastMove = false
	}
}

// Restart clears the board. In a network game it only asks the peer; the
// board is cleared once the peer accepts.
func (g *Game) Restart() error {
	if g.settings.Mode == ModeNetwork {
		return g.requestNetworkRestart()
	}
	g.resetBoard()
	g.notify("restart", "")
	g.maybeInvokeAI()
	return nil
}

// SetMode replaces the session with a new one. Network sessions are entered
// through AttachPeer.
func (g *Game) SetMode(settings GameSettings) error {
	if settings.Mode == ModeNetwork {
		return fmt.Errorf("%w: host or join a network game instead", ErrNoPeer)
	}
	if g.net.peer != nil {
		g.closePeer(true)
	}
	g.Reset(settings)
	g.notify("mode", "")
	return nil
}

func (g *Game) notify(kind, message string) {
	g.notifyErr(kind, message, nil)
}

func (g *Game) notifyErr(kind, message string, err error) {
	if g.hooks == nil {
		return
	}
	event := Event{Type: kind, Message: message}
	if err != nil {
		event.Error = err.Error()
	}
	status := g.Status()
	event.Status = &status
	g.hooks.Notify(event)
}
