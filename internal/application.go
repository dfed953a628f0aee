package application

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-room/internal/config"
	"github.com/rocketscienceinc/tictactoe-room/internal/entity"
	"github.com/rocketscienceinc/tictactoe-room/internal/repository"
	"github.com/rocketscienceinc/tictactoe-room/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-room/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-room/transport/rest"
	"github.com/rocketscienceinc/tictactoe-room/transport/websocket"
)

const closeTimeout = 5 * time.Second

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	roomRepo, closeRepo, err := newRoomRepository(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeRepo()

	coin := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // mark assignment is not security sensitive
	sessionManager := usecase.NewSessionManager(logger, conf.RoomID, entity.NewBoard(), coin, roomRepo)
	if err = sessionManager.Open(ctx); err != nil {
		return fmt.Errorf("could not open room: %w", err)
	}

	defer func() {
		cancel()

		closeCtx, closeCancel := context.WithTimeout(context.Background(), closeTimeout)
		defer closeCancel()

		if closeErr := sessionManager.Close(closeCtx); closeErr != nil {
			log.Error("could not remove room snapshot", "error", closeErr)
		}
	}()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		handlers := rest.NewHandlers(logger, conf.RoomID, roomRepo)
		if httpErr := rest.Start(ctx, conf.HTTPPort, handlers); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsServer := websocket.New(logger, sessionManager, conf.WriteTimeout)
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort, "roomID", conf.RoomID)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	// a nil channel never fires, so the room keeps running when nobody asked to exit
	var empty <-chan struct{}
	if conf.ExitWhenEmpty {
		empty = wsServer.Empty()
	}

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-empty:
		log.Info("Room is empty, shutting down")
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// newRoomRepository picks Redis when it is enabled and keeps snapshots in memory otherwise.
func newRoomRepository(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.RoomRepository, func(), error) {
	if !conf.Redis.Enabled {
		log.Info("Redis disabled, keeping room snapshots in memory")
		return repository.NewMemoryRoomRepository(), func() {}, nil
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr(), conf.Redis.Password, conf.Redis.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeStorage := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewRoomRepository(redisStorage.Connection), closeStorage, nil
}
