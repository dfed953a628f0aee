package apperror

import "errors"

// Errors reported back to the offending sender.
var (
	ErrDuplicateJoin = errors.New("you have already joined the game, you aren't allowed to play against yourself")
	ErrRoomFull      = errors.New("game is full")
	ErrNotAPlayer    = errors.New("you are not playing the game")
	ErrOutOfTurn     = errors.New("it's not your turn")
	ErrIllegalMove   = errors.New("your last move was invalid")
)

// Errors that are only logged.
var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrMalformedCommand = errors.New("malformed command")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotSeated        = errors.New("sender is not seated")
	ErrRoomNotFound     = errors.New("room not found")

	ErrConnectionNotFound = errors.New("connection not found")
	ErrSlowConnection     = errors.New("connection send buffer is full")
)
