package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-room/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-room/internal/entity"
	"github.com/rocketscienceinc/tictactoe-room/internal/protocol"
)

type roomRepo interface {
	Save(ctx context.Context, room *entity.RoomSnapshot) error
	DeleteByID(ctx context.Context, id string) error
}

// SessionManager owns the session and board of one room. A single mutex guards both,
// so commands are applied one at a time in arrival order.
type SessionManager struct {
	logger *slog.Logger
	roomID string

	mu      sync.Mutex
	session entity.Session
	board   Board
	coin    Coin

	roomRepo roomRepo
	now      func() time.Time
	// closed stops snapshot saves once the stored room has been removed.
	closed bool
}

func NewSessionManager(logger *slog.Logger, roomID string, board Board, coin Coin, roomRepo roomRepo) *SessionManager {
	return &SessionManager{
		logger: logger.With("component", "session", "roomID", roomID),
		roomID: roomID,

		board: board,
		coin:  coin,

		roomRepo: roomRepo,
		now:      time.Now,
	}
}

// Open replaces whatever an earlier process stored for the room with the current, empty room.
func (that *SessionManager) Open(ctx context.Context) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.saveSnapshot(ctx)
}

// Close removes the stored room so that no stale state outlives the process.
func (that *SessionManager) Close(ctx context.Context) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.closed = true

	err := that.roomRepo.DeleteByID(ctx, that.roomID)
	if err != nil && !errors.Is(err, apperror.ErrRoomNotFound) {
		return fmt.Errorf("failed to delete room %s: %w", that.roomID, err)
	}

	return nil
}

// Handle applies a command from sender and returns the messages to deliver.
func (that *SessionManager) Handle(ctx context.Context, sender string, cmd protocol.Command) []protocol.Envelope {
	log := that.logger.With("method", "Handle", "sender", sender, "command", cmd.CommandName())

	that.mu.Lock()
	defer that.mu.Unlock()

	before := that.session.State()

	session, out, err := Handle(that.session, that.board, that.coin, sender, cmd)
	that.session = session

	switch {
	case errors.Is(err, apperror.ErrNotSeated), errors.Is(err, apperror.ErrGameIsNotStarted):
		log.Info("command ignored", "reason", err)
		return out
	case err != nil:
		log.Warn("command rejected", "reason", err)
		return out
	}

	if after := session.State(); after != before {
		log.Info("session state changed", "from", before, "to", after)
	}

	if err = that.saveSnapshot(ctx); err != nil {
		log.Error("failed to save room snapshot", "error", err)
	}

	return out
}

// Disconnect releases the slot held by a participant whose connection went away.
func (that *SessionManager) Disconnect(ctx context.Context, sender string) []protocol.Envelope {
	return that.Handle(ctx, sender, protocol.Leave{})
}

// snapshot describes the room as it is now. The caller holds mu.
func (that *SessionManager) snapshot() *entity.RoomSnapshot {
	return &entity.RoomSnapshot{
		ID:        that.roomID,
		State:     that.session.State(),
		Players:   that.session.Players(),
		Turn:      that.session.Turn,
		Board:     Layout(that.board),
		Result:    that.board.Result(),
		UpdatedAt: that.now().UTC(),
	}
}

func (that *SessionManager) saveSnapshot(ctx context.Context) error {
	if that.closed {
		return nil
	}

	if err := that.roomRepo.Save(ctx, that.snapshot()); err != nil {
		return fmt.Errorf("failed to save room %s: %w", that.roomID, err)
	}

	return nil
}
