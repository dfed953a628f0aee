package websocket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-room/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-room/internal/protocol"
)

const (
	sendBuffer     = 16
	maxMessageSize = 4096
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
)

// connection is one participant socket. Only the write goroutine writes to socket.
type connection struct {
	id     string
	socket *websocket.Conn
	send   chan []byte
}

func newConnection(id string, socket *websocket.Conn) *connection {
	return &connection{
		id:     id,
		socket: socket,
		send:   make(chan []byte, sendBuffer),
	}
}

// Send queues event for the participant with the given id.
func (that *Server) Send(id string, event protocol.Event) error {
	payload, err := protocol.Encode(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	conn, ok := that.connections[id]
	if !ok {
		return apperror.ErrConnectionNotFound
	}

	return that.push(conn, payload)
}

// Broadcast queues event for every connected participant.
func (that *Server) Broadcast(event protocol.Event) {
	log := that.logger.With("method", "Broadcast", "event", event.EventName())

	payload, err := protocol.Encode(event)
	if err != nil {
		log.Error("failed to encode event", "error", err)
		return
	}

	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	for _, conn := range that.connections {
		if err = that.push(conn, payload); err != nil {
			log.Warn("failed to queue event", "participantID", conn.id, "error", err)
		}
	}
}

// push must be called with connectionsMutex held. A participant that cannot keep up is dropped.
func (that *Server) push(conn *connection, payload []byte) error {
	select {
	case conn.send <- payload:
		return nil
	default:
		_ = conn.socket.Close()
		return apperror.ErrSlowConnection
	}
}

func (that *Server) register(conn *connection) {
	that.connectionsMutex.Lock()
	that.connections[conn.id] = conn
	that.connectionsMutex.Unlock()
}

func (that *Server) unregister(id string) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	conn, ok := that.connections[id]
	if !ok {
		return
	}

	delete(that.connections, id)
	close(conn.send)

	that.logger.Info("participant disconnected", "participantID", id)
}

// closeAll ends every write goroutine, which sends a close frame and closes its socket.
func (that *Server) closeAll() {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	for id, conn := range that.connections {
		delete(that.connections, id)
		close(conn.send)
	}
}

// readMessages decodes commands from conn and queues them until the socket fails.
func (that *Server) readMessages(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "readMessages", "participantID", conn.id)

	defer that.enqueue(ctx, request{sender: conn.id})

	conn.socket.SetReadLimit(maxMessageSize)
	_ = conn.socket.SetReadDeadline(time.Now().Add(pongWait))
	conn.socket.SetPongHandler(func(string) error {
		return conn.socket.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("connection closed unexpectedly", "error", err)
			}
			return
		}

		cmd, err := protocol.Decode(data)
		switch {
		case errors.Is(err, apperror.ErrUnknownCommand):
			log.Info("ignoring unknown command", "error", err)
			continue
		case err != nil:
			log.Warn("ignoring malformed command", "error", err)
			continue
		}

		that.enqueue(ctx, request{sender: conn.id, cmd: cmd})
	}
}

// writeMessages drains conn.send onto the socket and keeps the peer alive with pings.
func (that *Server) writeMessages(conn *connection) {
	log := that.logger.With("method", "writeMessages", "participantID", conn.id)

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.socket.Close()
	}()

	for {
		select {
		case payload, ok := <-conn.send:
			_ = conn.socket.SetWriteDeadline(time.Now().Add(that.writeTimeout))
			if !ok {
				_ = conn.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := conn.socket.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Warn("failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.socket.SetWriteDeadline(time.Now().Add(that.writeTimeout))
			if err := conn.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Warn("failed to write ping", "error", err)
				return
			}
		}
	}
}
