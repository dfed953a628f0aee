package entity

import (
	"encoding/json"
	"fmt"
)

const BoardSize = 3

// Result is the outcome of a match as reported by the board.
type Result int

const (
	ResultPending Result = iota
	ResultWin
	ResultDraw
	ResultAbandoned
)

func (that Result) String() string {
	switch that {
	case ResultWin:
		return "win"
	case ResultDraw:
		return "draw"
	case ResultAbandoned:
		return "abandoned"
	default:
		return "pending"
	}
}

func (that Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.String())
}

func (that *Result) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to unmarshal result: %w", err)
	}

	for _, r := range []Result{ResultPending, ResultWin, ResultDraw, ResultAbandoned} {
		if r.String() == s {
			*that = r
			return nil
		}
	}

	return fmt.Errorf("unknown result %q", s)
}

type Cell struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// WinCombos lists every line of three cells, indexed row-major.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is the 3x3 grid. It owns cell occupancy and win/draw detection.
type Board struct {
	cells   [BoardSize * BoardSize]Mark
	result  Result
	winner  Mark
	winLine []Cell
}

func NewBoard() *Board {
	return &Board{}
}

func (that *Board) Reset() {
	*that = Board{}
}

// Place puts mark at (row, column). It reports false for coordinates off the grid,
// an occupied cell, an unset mark or a board whose game is already over.
func (that *Board) Place(mark Mark, row, column int) bool {
	if that.IsGameOver() || mark == MarkUnset {
		return false
	}

	if !inBounds(row, column) {
		return false
	}

	idx := row*BoardSize + column
	if that.cells[idx] != MarkUnset {
		return false
	}

	that.cells[idx] = mark
	that.updateResult()

	return true
}

func (that *Board) IsGameOver() bool {
	return that.result != ResultPending
}

func (that *Board) Result() Result {
	return that.result
}

// Winner is the winning mark, MarkUnset unless Result is ResultWin.
func (that *Board) Winner() Mark {
	return that.winner
}

// WinningLine returns the three winning cells, or nil when nobody has won.
func (that *Board) WinningLine() []Cell {
	if that.winLine == nil {
		return nil
	}

	line := make([]Cell, len(that.winLine))
	copy(line, that.winLine)

	return line
}

// SetAbandoned ends a pending game without a winner.
func (that *Board) SetAbandoned() {
	if that.result == ResultPending {
		that.result = ResultAbandoned
	}
}

func (that *Board) CellAt(row, column int) Mark {
	if !inBounds(row, column) {
		return MarkUnset
	}

	return that.cells[row*BoardSize+column]
}

func (that *Board) updateResult() {
	for _, combo := range WinCombos {
		a, b, c := that.cells[combo[0]], that.cells[combo[1]], that.cells[combo[2]]
		if a != MarkUnset && a == b && b == c {
			that.result = ResultWin
			that.winner = a
			that.winLine = make([]Cell, 0, len(combo))
			for _, idx := range combo {
				that.winLine = append(that.winLine, Cell{Row: idx / BoardSize, Column: idx % BoardSize})
			}
			return
		}
	}

	// the game will continue until all the squares are full
	for _, cell := range that.cells {
		if cell == MarkUnset {
			return
		}
	}

	that.result = ResultDraw
}

func inBounds(row, column int) bool {
	return row >= 0 && row < BoardSize && column >= 0 && column < BoardSize
}
