package entity

import (
	"encoding/json"
	"fmt"
)

// Mark is the symbol a player places on the board.
type Mark int

const (
	MarkUnset Mark = iota
	MarkFirst
	MarkSecond
)

const (
	PlayerX = "X"
	PlayerO = "O"
)

// FirstToMove is the mark that opens every match.
const FirstToMove = MarkFirst

func (that Mark) String() string {
	switch that {
	case MarkFirst:
		return PlayerX
	case MarkSecond:
		return PlayerO
	default:
		return ""
	}
}

// Opponent returns the other mark. MarkUnset has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case MarkFirst:
		return MarkSecond
	case MarkSecond:
		return MarkFirst
	default:
		return MarkUnset
	}
}

func (that Mark) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.String())
}

func (that *Mark) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to unmarshal mark: %w", err)
	}

	switch s {
	case PlayerX:
		*that = MarkFirst
	case PlayerO:
		*that = MarkSecond
	case "":
		*that = MarkUnset
	default:
		return fmt.Errorf("unknown mark %q", s)
	}

	return nil
}

type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Mark Mark   `json:"mark,omitempty"`
}
