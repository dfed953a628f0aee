package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-room/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-room/internal/entity"
)

// memoryRoom keeps snapshots in process. It is used when Redis is disabled.
type memoryRoom struct {
	mu    sync.RWMutex
	rooms map[string]entity.RoomSnapshot
}

func NewMemoryRoomRepository() RoomRepository {
	return &memoryRoom{
		rooms: make(map[string]entity.RoomSnapshot),
	}
}

func (that *memoryRoom) Save(_ context.Context, room *entity.RoomSnapshot) error {
	snapshot := *room
	snapshot.Players = append([]entity.Player(nil), room.Players...)

	that.mu.Lock()
	that.rooms[room.ID] = snapshot
	that.mu.Unlock()

	return nil
}

func (that *memoryRoom) GetByID(_ context.Context, id string) (*entity.RoomSnapshot, error) {
	that.mu.RLock()
	room, ok := that.rooms[id]
	that.mu.RUnlock()

	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	return &room, nil
}

func (that *memoryRoom) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.rooms[id]; !ok {
		return apperror.ErrRoomNotFound
	}

	delete(that.rooms, id)

	return nil
}
