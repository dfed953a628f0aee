package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/mitchellh/mapstructure"

	"github.com/rocketscienceinc/tictactoe-room/internal/apperror"
)

const (
	CommandJoin               = "join"
	CommandLeave              = "leave"
	CommandMove               = "move"
	CommandBoardLayoutRequest = "board_layout_request"
)

// Command is an inbound message from a participant.
type Command interface {
	CommandName() string
}

type Join struct {
	Name string
}

type Leave struct{}

type Move struct {
	Row    int
	Column int
}

type BoardLayoutRequest struct{}

func (Join) CommandName() string               { return CommandJoin }
func (Leave) CommandName() string              { return CommandLeave }
func (Move) CommandName() string               { return CommandMove }
func (BoardLayoutRequest) CommandName() string { return CommandBoardLayoutRequest }

type joinFields struct {
	Name string `mapstructure:"name"`
}

type moveFields struct {
	Row    any `mapstructure:"row"`
	Column any `mapstructure:"column"`
}

// Decode parses a JSON object carrying a `command` discriminator.
func Decode(data []byte) (Command, error) {
	var raw map[string]any

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedCommand, err)
	}

	name, _ := raw["command"].(string)

	switch name {
	case CommandJoin:
		var fields joinFields
		if err := decodeFields(raw, &fields); err != nil {
			return nil, err
		}
		return Join{Name: fields.Name}, nil

	case CommandLeave:
		return Leave{}, nil

	case CommandMove:
		var fields moveFields
		if err := decodeFields(raw, &fields); err != nil {
			return nil, err
		}
		if fields.Row == nil || fields.Column == nil {
			return nil, fmt.Errorf("%w: move requires row and column", apperror.ErrMalformedCommand)
		}
		row, err := coordinate(fields.Row)
		if err != nil {
			return nil, fmt.Errorf("row: %w", err)
		}
		column, err := coordinate(fields.Column)
		if err != nil {
			return nil, fmt.Errorf("column: %w", err)
		}
		return Move{Row: row, Column: column}, nil

	case CommandBoardLayoutRequest:
		return BoardLayoutRequest{}, nil

	default:
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownCommand, name)
	}
}

func decodeFields(raw map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err = decoder.Decode(raw); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrMalformedCommand, err)
	}

	return nil
}

// coordinate accepts a JSON number or a numeric string holding a whole number that fits in int32.
func coordinate(value any) (int, error) {
	var text string
	switch v := value.(type) {
	case json.Number:
		text = v.String()
	case string:
		text = v
	default:
		return 0, fmt.Errorf("%w: %v is not a number", apperror.ErrMalformedCommand, value)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", apperror.ErrMalformedCommand, text)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q is not a whole number in range", apperror.ErrMalformedCommand, text)
	}

	return int(f), nil
}
