package main

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsIdlePingInterval = 30 * time.Second
	wsWriteWait        = 10 * time.Second
)

// writeWSWithHeartbeat drains send into conn and pings when nothing was
// written for a while. It returns when send is closed or a write fails.
func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}

// writeLinesWithHeartbeat is the peer-link counterpart: lines go out in order
// and transports that need it get pinged while idle.
func writeLinesWithHeartbeat(transport Transport, send <-chan string, done <-chan struct{}) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	ping, canPing := transport.(pinger)

	for {
		select {
		case <-done:
			return nil
		case line, ok := <-send:
			if !ok {
				return nil
			}
			if err := transport.WriteLine(line); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if !canPing || time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := ping.Ping(); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
