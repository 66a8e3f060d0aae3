package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// GameController owns the Game on a single goroutine. Every caller, the AI
// workers and the peer links included, reaches the Game through commands
// executed by Run.
type GameController struct {
	game     *Game
	commands chan func()
	lifetime context.Context
	cancel   context.CancelFunc
	config   func() Config
	seeds    *rand.Rand
	listener *PeerListener
	hostName string
	logger   *zap.Logger

	subsMu  sync.Mutex
	subs    map[uint64]func(Event)
	nextSub uint64
}

func NewGameController(settings GameSettings, logger *zap.Logger) *GameController {
	return newGameControllerWithConfig(settings, GetConfig, logger)
}

func newGameControllerWithConfig(settings GameSettings, config func() Config, logger *zap.Logger) *GameController {
	if logger == nil {
		logger = zap.NewNop()
	}
	lifetime, cancel := context.WithCancel(context.Background())
	gc := &GameController{
		commands: make(chan func()),
		lifetime: lifetime,
		cancel:   cancel,
		config:   config,
		seeds:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:   logger,
		subs:     make(map[uint64]func(Event)),
	}
	gc.game = NewGame(settings, gc, logger)
	return gc
}

// Run executes commands until ctx is done. A live peer is told we are
// leaving before Run returns.
func (gc *GameController) Run(ctx context.Context) {
	defer gc.cancel()
	for {
		select {
		case <-ctx.Done():
			gc.shutdown()
			return
		case cmd := <-gc.commands:
			cmd()
		}
	}
}

func (gc *GameController) shutdown() {
	gc.closeListener()
	if gc.game.net.peer != nil {
		gc.game.closePeer(true)
	}
	gc.logger.Info("game controller stopped", zap.String("session", gc.game.ID()))
}

// exec runs fn on the controller goroutine and waits for it.
func (gc *GameController) exec(fn func()) error {
	done := make(chan struct{})
	select {
	case gc.commands <- func() {
		defer close(done)
		fn()
	}:
	case <-gc.lifetime.Done():
		return ErrControllerStopped
	}
	<-done
	return nil
}

func (gc *GameController) call(fn func() error) error {
	var err error
	if execErr := gc.exec(func() { err = fn() }); execErr != nil {
		return execErr
	}
	return err
}

// post queues fn without waiting for it to run.
func (gc *GameController) post(fn func()) {
	select {
	case gc.commands <- fn:
	case <-gc.lifetime.Done():
	}
}

// RequestAI starts a search on a worker goroutine. The result is posted back
// and checked against the session state at that point.
func (gc *GameController) RequestAI(req aiRequest) {
	cfg := gc.config()
	settings := aiSettingsFromConfig(cfg)
	seed := gc.seeds.Int63()
	delay := req.Difficulty.ThinkTime(cfg.AiThinkStepMs)
	go func() {
		if delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-gc.lifetime.Done():
				return
			}
		}
		player := NewAIPlayer(settings, rand.New(rand.NewSource(seed)), gc.logger)
		move := player.ChooseMove(req.Board, req.Color, req.Difficulty)
		gc.post(func() {
			if err := gc.game.ApplyAIResult(req.Tag, move); err != nil && !errors.Is(err, errStaleAIResult) {
				gc.logger.Error("ai move rejected", zap.String("move", move.String()), zap.Error(err))
			}
		})
	}()
}

// Notify fans an event out to subscribers. Subscribers must not block.
func (gc *GameController) Notify(event Event) {
	gc.subsMu.Lock()
	defer gc.subsMu.Unlock()
	for _, fn := range gc.subs {
		fn(event)
	}
}

// Subscribe registers fn for every event and returns its cancel function.
func (gc *GameController) Subscribe(fn func(Event)) func() {
	gc.subsMu.Lock()
	id := gc.nextSub
	gc.nextSub++
	gc.subs[id] = fn
	gc.subsMu.Unlock()
	return func() {
		gc.subsMu.Lock()
		delete(gc.subs, id)
		gc.subsMu.Unlock()
	}
}

func (gc *GameController) Status() (StatusResponse, error) {
	var status StatusResponse
	err := gc.exec(func() { status = gc.game.Status() })
	return status, err
}

func (gc *GameController) Settings() (GameSettings, error) {
	var settings GameSettings
	err := gc.exec(func() { settings = gc.game.Settings() })
	return settings, err
}

// SubmitMove plays a move for the local user.
func (gc *GameController) SubmitMove(row, col int) error {
	return gc.call(func() error { return gc.game.SubmitMove(ActorLocal, row, col) })
}

func (gc *GameController) Undo() error {
	return gc.call(gc.game.Undo)
}

func (gc *GameController) Restart() error {
	return gc.call(gc.game.Restart)
}

func (gc *GameController) SetMode(settings GameSettings) error {
	return gc.call(func() error { return gc.game.SetMode(settings) })
}

func (gc *GameController) Snapshot() (Snapshot, error) {
	var snap Snapshot
	err := gc.exec(func() { snap = gc.game.Snapshot() })
	return snap, err
}

func (gc *GameController) Restore(snap Snapshot) error {
	return gc.call(func() error { return gc.game.Restore(snap) })
}

// HostNetworkGame listens on addr and returns the bound address. The guest is
// attached in the background once it connects.
func (gc *GameController) HostNetworkGame(addr, name string) (string, error) {
	listener, err := ListenTCP(addr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}
	err = gc.call(func() error {
		if gc.game.net.peer != nil {
			return ErrPeerConnected
		}
		gc.closeListener()
		gc.listener = listener
		gc.hostName = name
		return nil
	})
	if err != nil {
		listener.Close()
		return "", err
	}
	timeout := time.Duration(gc.config().PeerAcceptTimeoutMs) * time.Millisecond
	gc.logger.Info("hosting network game", zap.String("addr", listener.Addr()), zap.Duration("timeout", timeout))
	go func() {
		transport, err := listener.Accept(gc.lifetime, timeout)
		if err != nil {
			gc.post(func() {
				if gc.listener != listener {
					return
				}
				gc.listener = nil
				gc.logger.Warn("no guest joined", zap.Error(err))
				gc.game.notifyErr("host_failed", "", err)
			})
			return
		}
		if err := gc.AttachHostedPeer(transport); err != nil {
			gc.logger.Warn("could not attach guest", zap.Error(err))
		}
	}()
	return listener.Addr(), nil
}

// JoinNetworkGame dials a host. Addresses starting with ws:// or wss:// use
// the WebSocket transport, anything else is dialled over TCP.
func (gc *GameController) JoinNetworkGame(ctx context.Context, addr, name string) error {
	timeout := time.Duration(gc.config().PeerDialTimeoutMs) * time.Millisecond
	var (
		transport Transport
		err       error
	)
	if strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://") {
		transport, err = DialWebSocket(ctx, addr, timeout)
	} else {
		transport, err = DialTCP(ctx, addr, timeout)
	}
	if err != nil {
		return err
	}
	return gc.AttachPeer(transport, RoleGuest, name)
}

// AttachPeer starts a network session over an established transport.
func (gc *GameController) AttachPeer(transport Transport, role NetworkRole, name string) error {
	return gc.attachPeer(transport, func() (NetworkRole, string, error) {
		return role, name, nil
	})
}

// AttachHostedPeer attaches a guest to the game offered by HostNetworkGame.
// Without a pending host request the guest is turned away with ErrNotHosting.
func (gc *GameController) AttachHostedPeer(transport Transport) error {
	return gc.attachPeer(transport, func() (NetworkRole, string, error) {
		if gc.listener == nil {
			return RoleNone, "", ErrNotHosting
		}
		return RoleHost, gc.hostName, nil
	})
}

// WaitingForGuest reports nil while a host request is pending and no peer
// is attached yet.
func (gc *GameController) WaitingForGuest() error {
	return gc.call(func() error {
		if gc.game.net.peer != nil {
			return ErrPeerConnected
		}
		if gc.listener == nil {
			return ErrNotHosting
		}
		return nil
	})
}

// attachPeer runs admit on the controller goroutine; admit decides the role
// and local name or refuses the peer.
func (gc *GameController) attachPeer(transport Transport, admit func() (NetworkRole, string, error)) error {
	link := NewPeerLink(transport, gc.config().PeerSendQueue, gc.logger)
	var role NetworkRole
	err := gc.call(func() error {
		if gc.game.net.peer != nil {
			return ErrPeerConnected
		}
		var (
			name string
			err  error
		)
		role, name, err = admit()
		if err != nil {
			return err
		}
		gc.closeListener()
		gc.game.AttachPeer(link, role, name)
		return nil
	})
	if err != nil {
		transport.Close()
		return err
	}
	gc.logger.Info("peer link started",
		zap.String("link", link.ID()),
		zap.String("remote", transport.RemoteAddr()),
		zap.String("role", role.String()),
	)
	link.Start(peerHandlers{
		OnMessage: func(msg Message) {
			gc.post(func() { gc.game.HandlePeerMessage(link, msg) })
		},
		OnMalformed: func(_ string, err error) {
			gc.post(func() { gc.game.HandlePeerMalformed(link, err) })
		},
		OnClosed: func(err error) {
			gc.post(func() { gc.game.HandlePeerClosed(link, err) })
		},
	})
	return nil
}

func (gc *GameController) closeListener() {
	if gc.listener == nil {
		return
	}
	if err := gc.listener.Close(); err != nil {
		gc.logger.Debug("closing peer listener", zap.Error(err))
	}
	gc.listener = nil
}

func (gc *GameController) Disconnect() error {
	return gc.call(func() error {
		if gc.listener != nil && gc.game.net.peer == nil {
			gc.closeListener()
			return nil
		}
		return gc.game.Disconnect()
	})
}

func (gc *GameController) RespondRestart(accept bool) error {
	return gc.call(func() error { return gc.game.RespondRestart(accept) })
}

func (gc *GameController) SendChat(text string) error {
	return gc.call(func() error { return gc.game.SendChat(text) })
}
