package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-room/internal/protocol"
)

const (
	requestBuffer  = 64
	shutdownPeriod = 5 * time.Second
)

type sessionManager interface {
	Handle(ctx context.Context, sender string, cmd protocol.Command) []protocol.Envelope
	Disconnect(ctx context.Context, sender string) []protocol.Envelope
}

// request is a command read from a connection. A nil cmd reports that the connection is gone.
type request struct {
	sender string
	cmd    protocol.Command
}

type Server struct {
	logger  *slog.Logger
	manager sessionManager

	upgrader     websocket.Upgrader
	writeTimeout time.Duration

	connectionsMutex sync.RWMutex
	connections      map[string]*connection

	requests chan request
	empty    chan struct{}
}

func New(logger *slog.Logger, manager sessionManager, writeTimeout time.Duration) *Server {
	return &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,

		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		writeTimeout: writeTimeout,

		connections: make(map[string]*connection),

		requests: make(chan request, requestBuffer),
		empty:    make(chan struct{}, 1),
	}
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(ctx),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Handler serves /ws and starts the loop that applies commands. Both stop when ctx is done.
func (that *Server) Handler(ctx context.Context) http.Handler {
	go that.run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Empty fires after the last participant has disconnected.
func (that *Server) Empty() <-chan struct{} {
	return that.empty
}

// upgradeToWebSocket - upgrades the connection to WebSocket and reads from it until it closes.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	socket, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := newConnection(uuid.NewString(), socket)
	that.register(conn)

	log.Info("participant connected", "participantID", conn.id)

	go that.writeMessages(conn)
	that.readMessages(ctx, conn)
}

// run applies queued requests one at a time in arrival order.
func (that *Server) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			that.closeAll()
			return
		case req := <-that.requests:
			if req.cmd == nil {
				that.unregister(req.sender)
				that.deliver(that.manager.Disconnect(ctx, req.sender))
				that.signalIfEmpty()
				continue
			}

			that.deliver(that.manager.Handle(ctx, req.sender, req.cmd))
		}
	}
}

func (that *Server) enqueue(ctx context.Context, req request) {
	select {
	case that.requests <- req:
	case <-ctx.Done():
	}
}

func (that *Server) deliver(out []protocol.Envelope) {
	log := that.logger.With("method", "deliver")

	for _, envelope := range out {
		if envelope.IsBroadcast() {
			that.Broadcast(envelope.Event)
			continue
		}

		if err := that.Send(envelope.Recipient, envelope.Event); err != nil {
			log.Warn("failed to deliver event", "event", envelope.Event.EventName(), "recipient", envelope.Recipient, "error", err)
		}
	}
}

func (that *Server) signalIfEmpty() {
	that.connectionsMutex.RLock()
	n := len(that.connections)
	that.connectionsMutex.RUnlock()

	if n > 0 {
		return
	}

	that.logger.Info("last participant left")

	select {
	case that.empty <- struct{}{}:
	default:
	}
}
