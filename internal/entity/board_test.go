package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_Place(t *testing.T) {
	t.Run("Places a mark on an empty cell", func(t *testing.T) {
		// Given: a new board
		board := NewBoard()

		// When: X places a mark in the center
		ok := board.Place(MarkFirst, 1, 1)

		// Then: the placement is accepted and the cell holds X
		assert.True(t, ok)
		assert.Equal(t, MarkFirst, board.CellAt(1, 1))
		assert.False(t, board.IsGameOver())
		assert.Equal(t, ResultPending, board.Result())
	})

	t.Run("Rejects an occupied cell", func(t *testing.T) {
		// Given: a board where X holds (0, 0)
		board := NewBoard()
		require.True(t, board.Place(MarkFirst, 0, 0))

		// When: O tries the same cell
		ok := board.Place(MarkSecond, 0, 0)

		// Then: the placement is rejected and the cell is unchanged
		assert.False(t, ok)
		assert.Equal(t, MarkFirst, board.CellAt(0, 0))
	})

	t.Run("Rejects coordinates off the grid", func(t *testing.T) {
		board := NewBoard()

		assert.False(t, board.Place(MarkFirst, -1, 0))
		assert.False(t, board.Place(MarkFirst, 0, 3))
		assert.False(t, board.Place(MarkFirst, 3, 3))
	})

	t.Run("Rejects an unset mark", func(t *testing.T) {
		board := NewBoard()

		assert.False(t, board.Place(MarkUnset, 0, 0))
	})

	t.Run("Rejects placements after the game is over", func(t *testing.T) {
		// Given: a board X has already won
		board := NewBoard()
		require.True(t, board.Place(MarkFirst, 0, 0))
		require.True(t, board.Place(MarkFirst, 0, 1))
		require.True(t, board.Place(MarkFirst, 0, 2))

		// When: O places a mark
		ok := board.Place(MarkSecond, 2, 2)

		// Then: it is rejected
		assert.False(t, ok)
		assert.Equal(t, MarkUnset, board.CellAt(2, 2))
	})
}

func TestBoard_Result(t *testing.T) {
	t.Run("Reports a row win with its winning line", func(t *testing.T) {
		// Given: X fills the middle row
		board := NewBoard()
		require.True(t, board.Place(MarkFirst, 1, 0))
		require.True(t, board.Place(MarkSecond, 0, 0))
		require.True(t, board.Place(MarkFirst, 1, 1))
		require.True(t, board.Place(MarkSecond, 0, 1))
		require.True(t, board.Place(MarkFirst, 1, 2))

		// Then: the game is over and X wins on the middle row
		assert.True(t, board.IsGameOver())
		assert.Equal(t, ResultWin, board.Result())
		assert.Equal(t, MarkFirst, board.Winner())
		assert.Equal(t, []Cell{{1, 0}, {1, 1}, {1, 2}}, board.WinningLine())
	})

	t.Run("Reports an anti-diagonal win for O", func(t *testing.T) {
		board := NewBoard()
		require.True(t, board.Place(MarkSecond, 0, 2))
		require.True(t, board.Place(MarkSecond, 1, 1))
		require.True(t, board.Place(MarkSecond, 2, 0))

		assert.Equal(t, ResultWin, board.Result())
		assert.Equal(t, MarkSecond, board.Winner())
		assert.Equal(t, []Cell{{0, 2}, {1, 1}, {2, 0}}, board.WinningLine())
	})

	t.Run("Reports a draw on a full board", func(t *testing.T) {
		// Given: a full board without a line
		//   X O X
		//   X O O
		//   O X X
		board := NewBoard()
		moves := []struct {
			mark        Mark
			row, column int
		}{
			{MarkFirst, 0, 0}, {MarkSecond, 0, 1}, {MarkFirst, 0, 2},
			{MarkFirst, 1, 0}, {MarkSecond, 1, 1}, {MarkSecond, 1, 2},
			{MarkSecond, 2, 0}, {MarkFirst, 2, 1}, {MarkFirst, 2, 2},
		}
		for _, m := range moves {
			require.True(t, board.Place(m.mark, m.row, m.column))
		}

		// Then: the game is a draw without a winning line
		assert.True(t, board.IsGameOver())
		assert.Equal(t, ResultDraw, board.Result())
		assert.Equal(t, MarkUnset, board.Winner())
		assert.Nil(t, board.WinningLine())
	})
}

func TestBoard_SetAbandoned(t *testing.T) {
	t.Run("Abandons a pending game", func(t *testing.T) {
		board := NewBoard()
		require.True(t, board.Place(MarkFirst, 0, 0))

		board.SetAbandoned()

		assert.True(t, board.IsGameOver())
		assert.Equal(t, ResultAbandoned, board.Result())
		assert.Nil(t, board.WinningLine())
	})

	t.Run("Keeps a decided result", func(t *testing.T) {
		board := NewBoard()
		require.True(t, board.Place(MarkFirst, 0, 0))
		require.True(t, board.Place(MarkFirst, 1, 1))
		require.True(t, board.Place(MarkFirst, 2, 2))

		board.SetAbandoned()

		assert.Equal(t, ResultWin, board.Result())
	})
}

func TestBoard_Reset(t *testing.T) {
	// Given: a board with a finished game
	board := NewBoard()
	require.True(t, board.Place(MarkFirst, 0, 0))
	board.SetAbandoned()

	// When: the board is reset
	board.Reset()

	// Then: it is empty and pending again
	assert.Equal(t, MarkUnset, board.CellAt(0, 0))
	assert.Equal(t, ResultPending, board.Result())
	assert.True(t, board.Place(MarkSecond, 0, 0))
}

func TestBoard_WinningLineIsACopy(t *testing.T) {
	board := NewBoard()
	require.True(t, board.Place(MarkFirst, 0, 0))
	require.True(t, board.Place(MarkFirst, 1, 0))
	require.True(t, board.Place(MarkFirst, 2, 0))

	line := board.WinningLine()
	line[0] = Cell{Row: 2, Column: 2}

	assert.Equal(t, Cell{Row: 0, Column: 0}, board.WinningLine()[0])
}

func TestResult_JSON(t *testing.T) {
	data, err := json.Marshal(ResultAbandoned)
	require.NoError(t, err)
	assert.JSONEq(t, `"abandoned"`, string(data))

	var r Result
	require.NoError(t, json.Unmarshal([]byte(`"draw"`), &r))
	assert.Equal(t, ResultDraw, r)

	require.Error(t, json.Unmarshal([]byte(`"lost"`), &r))
}
