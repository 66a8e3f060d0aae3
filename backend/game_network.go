package main

import (
	"fmt"

	"go.uber.org/zap"
)

type networkState struct {
	role             NetworkRole
	peer             peerConn
	myTurn           bool
	started          bool
	localName        string
	opponentName     string
	restartRequested bool
	restartPending   bool
}

// AttachPeer turns the session into a network game over peer. The host plays
// Black and opens; the guest waits for START.
func (g *Game) AttachPeer(peer peerConn, role NetworkRole, localName string) {
	if g.net.peer != nil {
		g.closePeer(true)
	}
	g.id = newSessionID()
	g.settings = GameSettings{
		Mode:       ModeNetwork,
		Difficulty: g.settings.Difficulty,
		LocalColor: PlayerBlack,
	}
	if role == RoleGuest {
		g.settings.LocalColor = PlayerWhite
	}
	g.net = networkState{role: role, peer: peer, localName: localName}
	g.resetBoard()
	peer.Send(playerInfoMessage(localName))
	g.logger.Info("peer attached",
		zap.String("session", g.id),
		zap.String("role", role.String()),
	)
	if role == RoleHost {
		g.net.started = true
		g.net.myTurn = true
		peer.Send(startMessage(g.settings.LocalColor))
	}
	g.notify("network_connected", "")
}

func (g *Game) isCurrentPeer(from peerConn) bool {
	return g.net.peer != nil && g.net.peer == from
}

// HandlePeerMessage applies one decoded protocol line received from from.
// Lines from a link that is no longer attached are dropped.
func (g *Game) HandlePeerMessage(from peerConn, msg Message) {
	if !g.isCurrentPeer(from) {
		g.logger.Debug("dropping message from detached peer", zap.String("kind", string(msg.Kind)))
		return
	}
	switch msg.Kind {
	case MsgMove:
		if err := g.SubmitMove(ActorPeer, msg.Row, msg.Col); err != nil {
			g.logger.Warn("peer move rejected",
				zap.String("session", g.id),
				zap.Int("row", msg.Row),
				zap.Int("col", msg.Col),
				zap.Error(err),
			)
			g.notifyErr("peer_move_rejected", "", err)
		}
	case MsgStart:
		g.settings.LocalColor = otherPlayer(msg.Color)
		g.resetBoard()
		g.net.started = true
		g.net.myTurn = g.settings.LocalColor == PlayerBlack
		g.net.restartRequested = false
		g.net.restartPending = false
		g.notify("network_start", g.settings.LocalColor.String())
	case MsgRestart:
		g.net.restartPending = true
		g.notify("restart_requested", g.net.opponentName)
	case MsgRestartAccept:
		if !g.net.restartRequested {
			g.logger.Warn("unsolicited restart accept", zap.String("session", g.id))
			return
		}
		g.restartNetworkGame()
	case MsgRestartReject:
		g.net.restartRequested = false
		g.notify("restart_rejected", g.net.opponentName)
	case MsgPlayerInfo:
		g.net.opponentName = msg.Text
		g.notify("peer_info", msg.Text)
	case MsgChat:
		g.notify("chat", msg.Text)
	case MsgGameOver:
		if !g.state.IsTerminal() {
			g.logger.Warn("peer reports game over but local game is still running",
				zap.String("session", g.id),
				zap.Int("moves", g.state.History.Size()),
			)
		}
		g.notify("peer_game_over", "")
	case MsgDisconnect:
		g.logger.Info("peer disconnected", zap.String("session", g.id))
		g.closePeer(false)
		g.notifyErr("peer_disconnected", "", fmt.Errorf("%w: peer left the game", ErrTransportFailure))
	}
}

// HandlePeerMalformed reports a line that could not be decoded.
func (g *Game) HandlePeerMalformed(from peerConn, err error) {
	if !g.isCurrentPeer(from) {
		return
	}
	g.logger.Warn("malformed peer message", zap.String("session", g.id), zap.Error(err))
	g.notifyErr("malformed_message", "", err)
}

// HandlePeerClosed falls back to a local game after a transport failure.
func (g *Game) HandlePeerClosed(from peerConn, err error) {
	if !g.isCurrentPeer(from) {
		return
	}
	g.logger.Warn("peer link failed", zap.String("session", g.id), zap.Error(err))
	g.closePeer(false)
	g.notifyErr("transport_failure", "", err)
}

// Disconnect tells the peer we are leaving and falls back to a local game.
func (g *Game) Disconnect() error {
	if g.net.peer == nil {
		return ErrNoPeer
	}
	g.closePeer(true)
	g.notify("network_disconnected", "")
	return nil
}

// closePeer detaches the peer and keeps the board as a two-player local game.
func (g *Game) closePeer(announce bool) {
	peer := g.net.peer
	if peer == nil {
		return
	}
	if announce {
		peer.Send(Message{Kind: MsgDisconnect})
	}
	peer.Close()
	g.net = networkState{}
	g.settings.Mode = ModeLocalTwoPlayer
	g.generation++
	g.aiPending = false
}

func (g *Game) requestNetworkRestart() error {
	if g.net.peer == nil {
		return ErrNoPeer
	}
	g.net.restartRequested = true
	g.net.peer.Send(Message{Kind: MsgRestart})
	g.notify("restart_request_sent", "")
	return nil
}

// RespondRestart answers a restart request from the peer.
func (g *Game) RespondRestart(accept bool) error {
	if g.net.peer == nil {
		return ErrNoPeer
	}
	if !g.net.restartPending {
		return ErrNoRestartRequest
	}
	g.net.restartPending = false
	if !accept {
		g.net.peer.Send(Message{Kind: MsgRestartReject})
		g.notify("restart_declined", "")
		return nil
	}
	g.net.peer.Send(Message{Kind: MsgRestartAccept})
	g.restartNetworkGame()
	return nil
}

func (g *Game) restartNetworkGame() {
	g.resetBoard()
	g.net.myTurn = g.settings.LocalColor == PlayerBlack
	g.net.restartRequested = false
	g.net.restartPending = false
	g.notify("restart", "")
}

// SendChat forwards a chat line to the peer.
func (g *Game) SendChat(text string) error {
	if g.net.peer == nil {
		return ErrNoPeer
	}
	if !g.net.peer.Send(chatMessage(text)) {
		return fmt.Errorf("%w: send queue full", ErrTransportFailure)
	}
	return nil
}

// afterNetworkMove keeps myTurn in step with the moves exchanged.
func (g *Game) afterNetworkMove(actor Actor, move Move) {
	if g.settings.Mode != ModeNetwork || g.net.peer == nil {
		return
	}
	switch actor {
	case ActorLocal:
		g.net.myTurn = false
		sent := g.net.peer.Send(moveMessage(move.Row, move.Col))
		if sent && g.state.IsTerminal() {
			sent = g.net.peer.Send(Message{Kind: MsgGameOver})
		}
		if !sent {
			// The peer never sees this move, so the two boards can no longer agree.
			g.logger.Warn("could not deliver move to peer", zap.String("session", g.id), zap.String("move", move.String()))
			g.closePeer(false)
			g.notifyErr("transport_failure", "", fmt.Errorf("%w: move %s not delivered", ErrTransportFailure, move))
		}
	case ActorPeer:
		g.net.myTurn = true
	}
}
