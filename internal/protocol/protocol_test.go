package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-room/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-room/internal/entity"
)

func TestDecode(t *testing.T) {
	t.Run("Decodes join with a name", func(t *testing.T) {
		cmd, err := Decode([]byte(`{"command":"join","name":"alice"}`))

		require.NoError(t, err)
		assert.Equal(t, Join{Name: "alice"}, cmd)
	})

	t.Run("Decodes leave", func(t *testing.T) {
		cmd, err := Decode([]byte(`{"command":"leave"}`))

		require.NoError(t, err)
		assert.Equal(t, Leave{}, cmd)
	})

	t.Run("Decodes move coordinates", func(t *testing.T) {
		cmd, err := Decode([]byte(`{"command":"move","row":2,"column":0}`))

		require.NoError(t, err)
		assert.Equal(t, Move{Row: 2, Column: 0}, cmd)
	})

	t.Run("Accepts move coordinates sent as strings", func(t *testing.T) {
		cmd, err := Decode([]byte(`{"command":"move","row":"1","column":"2"}`))

		require.NoError(t, err)
		assert.Equal(t, Move{Row: 1, Column: 2}, cmd)
	})

	t.Run("Rejects a move without a column", func(t *testing.T) {
		_, err := Decode([]byte(`{"command":"move","row":1}`))

		require.ErrorIs(t, err, apperror.ErrMalformedCommand)
	})

	t.Run("Rejects a move with non numeric coordinates", func(t *testing.T) {
		_, err := Decode([]byte(`{"command":"move","row":"top","column":1}`))

		require.ErrorIs(t, err, apperror.ErrMalformedCommand)
	})

	t.Run("Accepts whole number coordinates written with a fraction", func(t *testing.T) {
		cmd, err := Decode([]byte(`{"command":"move","row":1.0,"column":"2.0"}`))

		require.NoError(t, err)
		assert.Equal(t, Move{Row: 1, Column: 2}, cmd)
	})

	t.Run("Rejects coordinates that are not whole numbers in range", func(t *testing.T) {
		for name, payload := range map[string]string{
			"fraction":         `{"command":"move","row":0.9,"column":2.99}`,
			"fractional text":  `{"command":"move","row":"0.5","column":1}`,
			"boolean":          `{"command":"move","row":true,"column":"1"}`,
			"huge":             `{"command":"move","row":1e30,"column":0}`,
			"beyond int32":     `{"command":"move","row":0,"column":4294967296}`,
			"infinity as text": `{"command":"move","row":"Inf","column":0}`,
			"null":             `{"command":"move","row":null,"column":0}`,
			"array":            `{"command":"move","row":[1],"column":0}`,
		} {
			t.Run(name, func(t *testing.T) {
				cmd, err := Decode([]byte(payload))

				require.ErrorIs(t, err, apperror.ErrMalformedCommand)
				assert.Nil(t, cmd)
			})
		}
	})

	t.Run("Decodes board layout request", func(t *testing.T) {
		cmd, err := Decode([]byte(`{"command":"board_layout_request"}`))

		require.NoError(t, err)
		assert.Equal(t, BoardLayoutRequest{}, cmd)
	})

	t.Run("Reports unknown commands", func(t *testing.T) {
		_, err := Decode([]byte(`{"command":"resign"}`))

		require.ErrorIs(t, err, apperror.ErrUnknownCommand)
	})

	t.Run("Reports a missing command as unknown", func(t *testing.T) {
		_, err := Decode([]byte(`{"name":"alice"}`))

		require.ErrorIs(t, err, apperror.ErrUnknownCommand)
	})

	t.Run("Reports invalid JSON as malformed", func(t *testing.T) {
		_, err := Decode([]byte(`{"command":`))

		require.ErrorIs(t, err, apperror.ErrMalformedCommand)
	})
}

func TestEncode(t *testing.T) {
	t.Run("Joined", func(t *testing.T) {
		data, err := Encode(Joined{Player: entity.MarkFirst, Opponent: "bob"})

		require.NoError(t, err)
		assert.JSONEq(t, `{"event":"joined","player":"X","opponent":"bob"}`, string(data))
	})

	t.Run("Moved", func(t *testing.T) {
		data, err := Encode(Moved{Player: entity.MarkSecond, Row: 1, Column: 2, GameOver: false})

		require.NoError(t, err)
		assert.JSONEq(t, `{"event":"moved","player":"O","row":1,"column":2,"game_over":false}`, string(data))
	})

	t.Run("EndGame with a winning line", func(t *testing.T) {
		data, err := Encode(EndGame{
			EndState:        entity.ResultWin,
			Winner:          entity.MarkFirst,
			WinningLocation: []entity.Cell{{Row: 0, Column: 0}, {Row: 1, Column: 1}, {Row: 2, Column: 2}},
		})

		require.NoError(t, err)
		assert.JSONEq(t, `{
			"event":"endgame",
			"end_state":"win",
			"winner":"X",
			"winning_location":[{"row":0,"column":0},{"row":1,"column":1},{"row":2,"column":2}]
		}`, string(data))
	})

	t.Run("Abandoned EndGame omits winner and line", func(t *testing.T) {
		data, err := Encode(EndGame{EndState: entity.ResultAbandoned})

		require.NoError(t, err)
		assert.JSONEq(t, `{"event":"endgame","end_state":"abandoned"}`, string(data))
	})

	t.Run("BoardLayoutResponse", func(t *testing.T) {
		var layout BoardLayoutResponse
		layout.Board[0] = entity.MarkFirst
		layout.Board[4] = entity.MarkSecond

		data, err := Encode(layout)

		require.NoError(t, err)
		assert.JSONEq(t, `{"event":"board_layout_response","board":["X","","","","O","","","",""]}`, string(data))
	})

	t.Run("Error", func(t *testing.T) {
		data, err := Encode(Error{Message: "game is full"})

		require.NoError(t, err)
		assert.JSONEq(t, `{"event":"error","message":"game is full"}`, string(data))
	})
}

func TestEnvelope(t *testing.T) {
	assert.True(t, Broadcast(Error{}).IsBroadcast())
	assert.False(t, Unicast("a", Error{}).IsBroadcast())
}
