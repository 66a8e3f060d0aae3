package main

import "errors"

var (
	ErrIllegalMove       = errors.New("illegal move")
	ErrOutOfTurn         = errors.New("out of turn")
	ErrMalformedMessage  = errors.New("malformed network message")
	ErrTransportFailure  = errors.New("transport failure")
	ErrGameOver          = errors.New("game is over")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrUndoUnsupported   = errors.New("undo is not supported in network games")
	ErrNoPeer            = errors.New("no network peer connected")
	ErrNoRestartRequest  = errors.New("no restart request pending")
	ErrPeerConnected     = errors.New("network peer already connected")
	ErrNotHosting        = errors.New("not hosting a network game")
	ErrInvalidSnapshot   = errors.New("invalid snapshot")
	ErrControllerStopped = errors.New("game controller stopped")
)
