package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-room/internal/entity"
)

const (
	EventJoined              = "joined"
	EventMoved               = "moved"
	EventEndGame             = "endgame"
	EventBoardLayoutResponse = "board_layout_response"
	EventError               = "error"
)

// Event is an outbound message to one or all participants.
type Event interface {
	EventName() string
}

type Joined struct {
	Player   entity.Mark `json:"player"`
	Opponent string      `json:"opponent"`
}

type Moved struct {
	Player   entity.Mark `json:"player"`
	Row      int         `json:"row"`
	Column   int         `json:"column"`
	GameOver bool        `json:"game_over"`
}

type EndGame struct {
	EndState        entity.Result `json:"end_state"`
	Winner          entity.Mark   `json:"winner,omitempty"`
	WinningLocation []entity.Cell `json:"winning_location,omitempty"`
}

type BoardLayoutResponse struct {
	Board [entity.BoardSize * entity.BoardSize]entity.Mark `json:"board"`
}

type Error struct {
	Message string `json:"message"`
}

func (Joined) EventName() string              { return EventJoined }
func (Moved) EventName() string               { return EventMoved }
func (EndGame) EventName() string             { return EventEndGame }
func (BoardLayoutResponse) EventName() string { return EventBoardLayoutResponse }
func (Error) EventName() string               { return EventError }

// Envelope addresses an event. An empty Recipient means every participant.
type Envelope struct {
	Recipient string
	Event     Event
}

func Unicast(recipient string, event Event) Envelope {
	return Envelope{Recipient: recipient, Event: event}
}

func Broadcast(event Event) Envelope {
	return Envelope{Event: event}
}

func (that Envelope) IsBroadcast() bool {
	return that.Recipient == ""
}

// Encode renders the event as a flat JSON object with an `event` discriminator.
func Encode(event Event) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", event.EventName(), err)
	}

	var fields map[string]json.RawMessage
	if err = json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", event.EventName(), err)
	}

	name, err := json.Marshal(event.EventName())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event name: %w", err)
	}
	fields["event"] = name

	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return data, nil
}
