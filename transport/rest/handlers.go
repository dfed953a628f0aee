package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-room/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-room/internal/entity"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	RoomHandler(w http.ResponseWriter, r *http.Request)
}

type roomRepo interface {
	GetByID(ctx context.Context, id string) (*entity.RoomSnapshot, error)
}

type handlers struct {
	logger *slog.Logger

	roomID   string
	roomRepo roomRepo
}

func NewHandlers(logger *slog.Logger, roomID string, roomRepo roomRepo) Handlers {
	return &handlers{
		logger:   logger.With("component", "rest"),
		roomID:   roomID,
		roomRepo: roomRepo,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// RoomHandler returns the last stored snapshot of the room.
func (that *handlers) RoomHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "RoomHandler")

	room, err := that.roomRepo.GetByID(r.Context(), that.roomID)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	if err != nil {
		log.Error("failed to get room", "roomID", that.roomID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(room); err != nil {
		log.Error("failed to encode room", "error", err)
	}
}
