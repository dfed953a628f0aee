package usecase

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-room/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-room/internal/entity"
	"github.com/rocketscienceinc/tictactoe-room/internal/protocol"
)

// Board is the grid the session plays on. Place must not mutate anything when it rejects a move.
type Board interface {
	Reset()
	Place(mark entity.Mark, row, column int) bool
	IsGameOver() bool
	Result() entity.Result
	Winner() entity.Mark
	WinningLine() []entity.Cell
	SetAbandoned()
	CellAt(row, column int) entity.Mark
}

// Coin picks the mark assignment when a match starts.
type Coin interface {
	Intn(n int) int
}

// Handle applies one command from sender to the session and returns the resulting session
// together with the messages to deliver. A non-nil error describes why the command was
// rejected or ignored; any reply owed to the sender is already among the envelopes.
func Handle(
	session entity.Session,
	board Board,
	coin Coin,
	sender string,
	cmd protocol.Command,
) (entity.Session, []protocol.Envelope, error) {
	switch c := cmd.(type) {
	case protocol.Join:
		return join(session, board, coin, sender, c.Name)
	case protocol.Leave:
		return leave(session, board, sender)
	case protocol.Move:
		return move(session, board, sender, c.Row, c.Column)
	case protocol.BoardLayoutRequest:
		return session, []protocol.Envelope{
			protocol.Unicast(sender, protocol.BoardLayoutResponse{Board: Layout(board)}),
		}, nil
	default:
		return session, nil, fmt.Errorf("%w: %T", apperror.ErrUnknownCommand, cmd)
	}
}

func join(
	session entity.Session,
	board Board,
	coin Coin,
	sender, name string,
) (entity.Session, []protocol.Envelope, error) {
	if _, ok := session.Find(sender); ok {
		return session, reject(sender, apperror.ErrDuplicateJoin), apperror.ErrDuplicateJoin
	}

	next, ok := session.Bind(entity.Player{ID: sender, Name: name})
	if !ok {
		return session, reject(sender, apperror.ErrRoomFull), apperror.ErrRoomFull
	}

	if !next.IsActive() {
		return next, nil, nil
	}

	board.Reset()

	return start(next, coin)
}

// start assigns marks with a fair coin and tells each player who they face.
func start(session entity.Session, coin Coin) (entity.Session, []protocol.Envelope, error) {
	first, _ := session.Slots[0].Player()
	second, _ := session.Slots[1].Player()

	first.Mark, second.Mark = entity.MarkFirst, entity.MarkSecond
	if coin.Intn(2) == 1 {
		first.Mark, second.Mark = second.Mark, first.Mark
	}

	session.Slots[0] = entity.Seat(first)
	session.Slots[1] = entity.Seat(second)
	session.Turn = entity.FirstToMove

	return session, []protocol.Envelope{
		protocol.Unicast(first.ID, protocol.Joined{Player: first.Mark, Opponent: second.Name}),
		protocol.Unicast(second.ID, protocol.Joined{Player: second.Mark, Opponent: first.Name}),
	}, nil
}

func leave(session entity.Session, board Board, sender string) (entity.Session, []protocol.Envelope, error) {
	idx, ok := session.Find(sender)
	if !ok {
		return session, nil, fmt.Errorf("leave: %w", apperror.ErrNotSeated)
	}

	if !session.IsActive() {
		return session.Vacate(idx), nil, nil
	}

	board.SetAbandoned()

	return entity.Session{}, []protocol.Envelope{protocol.Broadcast(endGame(board))}, nil
}

func move(
	session entity.Session,
	board Board,
	sender string,
	row, column int,
) (entity.Session, []protocol.Envelope, error) {
	if !session.IsActive() {
		return session, nil, fmt.Errorf("move: %w", apperror.ErrGameIsNotStarted)
	}

	idx, ok := session.Find(sender)
	if !ok {
		return session, reject(sender, apperror.ErrNotAPlayer), apperror.ErrNotAPlayer
	}

	player, _ := session.Slots[idx].Player()
	if player.Mark != session.Turn {
		return session, reject(sender, apperror.ErrOutOfTurn), apperror.ErrOutOfTurn
	}

	if !board.Place(player.Mark, row, column) {
		return session, reject(sender, apperror.ErrIllegalMove), apperror.ErrIllegalMove
	}

	gameOver := board.IsGameOver()
	out := []protocol.Envelope{
		protocol.Broadcast(protocol.Moved{Player: player.Mark, Row: row, Column: column, GameOver: gameOver}),
	}

	if gameOver {
		return entity.Session{}, append(out, protocol.Broadcast(endGame(board))), nil
	}

	session.Turn = session.Turn.Opponent()

	return session, out, nil
}

// Layout flattens the grid row by row.
func Layout(board Board) [entity.BoardSize * entity.BoardSize]entity.Mark {
	var layout [entity.BoardSize * entity.BoardSize]entity.Mark
	for row := 0; row < entity.BoardSize; row++ {
		for column := 0; column < entity.BoardSize; column++ {
			layout[row*entity.BoardSize+column] = board.CellAt(row, column)
		}
	}

	return layout
}

func endGame(board Board) protocol.EndGame {
	return protocol.EndGame{
		EndState:        board.Result(),
		Winner:          board.Winner(),
		WinningLocation: board.WinningLine(),
	}
}

func reject(sender string, err error) []protocol.Envelope {
	return []protocol.Envelope{protocol.Unicast(sender, protocol.Error{Message: err.Error()})}
}
