package main

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type peerHandlers struct {
	OnMessage   func(Message)
	OnMalformed func(line string, err error)
	// OnClosed fires once when the link dies for a reason other than Close.
	OnClosed func(err error)
}

// PeerLink runs the reader and writer goroutines of one peer connection.
// Sends never block the caller: lines queue up for the writer.
type PeerLink struct {
	id         string
	transport  Transport
	send       chan string
	done       chan struct{}
	closeOnce  sync.Once
	reportOnce sync.Once
	logger     *zap.Logger
}

func NewPeerLink(transport Transport, queue int, logger *zap.Logger) *PeerLink {
	if queue <= 0 {
		queue = 32
	}
	id := uuid.NewString()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeerLink{
		id:        id,
		transport: transport,
		send:      make(chan string, queue),
		done:      make(chan struct{}),
		logger:    logger.With(zap.String("peer_link", id), zap.String("remote", transport.RemoteAddr())),
	}
}

func (p *PeerLink) ID() string {
	return p.id
}

func (p *PeerLink) Start(handlers peerHandlers) {
	go p.readLoop(handlers)
	go p.writeLoop(handlers)
}

// Send queues msg. It reports false when the link is closed or the queue is
// full.
func (p *PeerLink) Send(msg Message) bool {
	line := msg.Encode()
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.send <- line:
		p.logger.Debug("peer message queued", zap.String("line", line))
		return true
	default:
		p.logger.Warn("peer send queue full, dropping message", zap.String("line", line))
		return false
	}
}

// Close flushes what is already queued and closes the transport.
func (p *PeerLink) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
}

func (p *PeerLink) closed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *PeerLink) report(handlers peerHandlers, err error) {
	if p.closed() {
		return
	}
	p.reportOnce.Do(func() {
		p.logger.Warn("peer link lost", zap.Error(err))
		if handlers.OnClosed != nil {
			handlers.OnClosed(fmt.Errorf("%w: %v", ErrTransportFailure, err))
		}
	})
	p.Close()
}

func (p *PeerLink) readLoop(handlers peerHandlers) {
	for {
		line, err := p.transport.ReadLine()
		if err != nil {
			p.report(handlers, err)
			return
		}
		if line == "" {
			continue
		}
		msg, err := ParseMessage(line)
		if err != nil {
			p.logger.Warn("malformed peer message", zap.String("line", line), zap.Error(err))
			if handlers.OnMalformed != nil {
				handlers.OnMalformed(line, err)
			}
			continue
		}
		p.logger.Debug("peer message received", zap.String("line", line))
		if handlers.OnMessage != nil {
			handlers.OnMessage(msg)
		}
	}
}

func (p *PeerLink) writeLoop(handlers peerHandlers) {
	err := writeLinesWithHeartbeat(p.transport, p.send, p.done)
	if err != nil {
		p.report(handlers, err)
	}
	p.flush()
	if closeErr := p.transport.Close(); closeErr != nil {
		p.logger.Debug("peer transport close", zap.Error(closeErr))
	}
}

// flush writes whatever is still queued, best effort.
func (p *PeerLink) flush() {
	for {
		select {
		case line := <-p.send:
			if err := p.transport.WriteLine(line); err != nil {
				return
			}
		default:
			return
		}
	}
}
