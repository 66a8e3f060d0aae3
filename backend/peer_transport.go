package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Transport carries protocol lines over an ordered, reliable stream. One
// goroutine may read while another writes.
type Transport interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
	RemoteAddr() string
}

// pinger is implemented by transports that need keep-alives while idle.
type pinger interface {
	Ping() error
}

type tcpTransport struct {
	conn   net.Conn
	reader *bufio.Reader
}

func newTCPTransport(conn net.Conn) *tcpTransport {
	return &tcpTransport{conn: conn, reader: bufio.NewReader(conn)}
}

func (t *tcpTransport) ReadLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *tcpTransport) WriteLine(line string) error {
	_, err := io.WriteString(t.conn, line+"\n")
	return err
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}

func (t *tcpTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}

// PeerListener waits for the single guest of a hosted game.
type PeerListener struct {
	listener net.Listener
}

// ListenTCP binds addr. A bind failure is returned immediately and is not
// retried.
func ListenTCP(addr string) (*PeerListener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return &PeerListener{listener: listener}, nil
}

func (l *PeerListener) Addr() string {
	return l.listener.Addr().String()
}

// Accept waits up to timeout for one connection and then stops listening.
func (l *PeerListener) Accept(ctx context.Context, timeout time.Duration) (Transport, error) {
	defer l.listener.Close()
	if tcp, ok := l.listener.(*net.TCPListener); ok && timeout > 0 {
		_ = tcp.SetDeadline(time.Now().Add(timeout))
	}
	stop := context.AfterFunc(ctx, func() { l.listener.Close() })
	defer stop()
	conn, err := l.listener.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: accept: %v", ErrTransportFailure, err)
	}
	return newTCPTransport(conn), nil
}

func (l *PeerListener) Close() error {
	return l.listener.Close()
}

func DialTCP(ctx context.Context, addr string, timeout time.Duration) (Transport, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrTransportFailure, addr, err)
	}
	return newTCPTransport(conn), nil
}

// wsTransport sends one protocol line per text frame.
type wsTransport struct {
	conn *websocket.Conn
}

func (t *wsTransport) ReadLine() (string, error) {
	for {
		messageType, data, err := t.conn.ReadMessage()
		if err != nil {
			return "", err
		}
		if messageType != websocket.TextMessage {
			continue
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
}

func (t *wsTransport) WriteLine(line string) error {
	return t.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (t *wsTransport) Ping() error {
	return t.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

func (t *wsTransport) Close() error {
	_ = t.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
	return t.conn.Close()
}

func (t *wsTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}

func DialWebSocket(ctx context.Context, url string, timeout time.Duration) (Transport, error) {
	dialer := websocket.Dialer{HandshakeTimeout: timeout, Proxy: http.ProxyFromEnvironment}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrTransportFailure, url, err)
	}
	return &wsTransport{conn: conn}, nil
}

var peerUpgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func upgradePeerWS(w http.ResponseWriter, r *http.Request) (Transport, error) {
	conn, err := peerUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return &wsTransport{conn: conn}, nil
}
