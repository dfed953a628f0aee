package entity

import "time"

// RoomSnapshot is the current state of a room. Only the latest snapshot is kept.
type RoomSnapshot struct {
	ID        string                      `json:"id"`
	State     string                      `json:"state"`
	Players   []Player                    `json:"players"`
	Turn      Mark                        `json:"turn,omitempty"`
	Board     [BoardSize * BoardSize]Mark `json:"board"`
	Result    Result                      `json:"result"`
	UpdatedAt time.Time                   `json:"updated_at"`
}
