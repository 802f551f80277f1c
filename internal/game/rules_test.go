package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	X = PlayerX
	O = PlayerO
	E = None
)

func TestCalculateWinner(t *testing.T) {
	tests := []struct {
		name     string
		board    Board
		size     int
		want     PlayerMark
		wantLine []int
	}{
		{
			name:  "No winner - empty board",
			board: Board{E, E, E, E, E, E, E, E, E},
			size:  3,
			want:  None,
		},
		{
			name: "No winner - partial board",
			board: Board{
				X, E, E,
				E, O, E,
				E, E, E,
			},
			size: 3,
			want: None,
		},
		{
			name: "X wins - first row",
			board: Board{
				X, X, X,
				E, O, E,
				E, E, O,
			},
			size:     3,
			want:     X,
			wantLine: []int{0, 1, 2},
		},
		{
			name: "O wins - second column",
			board: Board{
				X, O, E,
				X, O, E,
				E, O, E,
			},
			size:     3,
			want:     O,
			wantLine: []int{1, 4, 7},
		},
		{
			name: "X wins - main diagonal",
			board: Board{
				X, E, E,
				E, X, E,
				E, E, X,
			},
			size:     3,
			want:     X,
			wantLine: []int{0, 4, 8},
		},
		{
			name: "O wins - anti-diagonal",
			board: Board{
				E, E, O,
				E, O, E,
				O, E, E,
			},
			size:     3,
			want:     O,
			wantLine: []int{2, 4, 6},
		},
		{
			name: "No winner - full board (draw)",
			board: Board{
				X, O, X,
				X, O, O,
				O, X, X,
			},
			size: 3,
			want: None,
		},
		{
			name: "4x4 - three in a row is not a win",
			board: Board{
				X, X, X, E,
				O, O, O, E,
				E, E, E, E,
				E, E, E, E,
			},
			size: 4,
			want: None,
		},
		{
			name: "4x4 - last column",
			board: Board{
				X, E, E, O,
				X, E, E, O,
				E, X, E, O,
				E, E, X, O,
			},
			size:     4,
			want:     O,
			wantLine: []int{3, 7, 11, 15},
		},
		{
			name: "5x5 - anti-diagonal",
			board: Board{
				E, E, E, E, X,
				E, O, E, X, E,
				E, E, X, E, E,
				E, X, E, O, E,
				X, E, O, E, O,
			},
			size:     5,
			want:     X,
			wantLine: []int{4, 8, 12, 16, 20},
		},
		{
			name: "Row is found before column",
			board: Board{
				X, X, X,
				X, O, O,
				X, O, O,
			},
			size:     3,
			want:     X,
			wantLine: []int{0, 1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateWinner(tt.board, tt.size)
			if tt.want == None {
				if got != nil {
					t.Errorf("CalculateWinner() got = %+v, want nil", got)
				}
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Winner)
			assert.Equal(t, tt.wantLine, got.Line)
		})
	}
}

func TestCalculateWinner_EveryLine(t *testing.T) {
	for _, size := range []int{3, 4, 5, 6} {
		for _, line := range WinningLines(size) {
			for _, mark := range []PlayerMark{X, O} {
				board, err := CreateEmptyBoard(size)
				require.NoError(t, err)
				for _, i := range line {
					board[i] = mark
				}

				got := CalculateWinner(board, size)
				require.NotNil(t, got, "size %d line %v", size, line)
				assert.Equal(t, mark, got.Winner)
				assert.Equal(t, line, got.Line)
			}
		}
	}
}

func TestCalculateWinner_ReturnedLineIsOwned(t *testing.T) {
	board := Board{X, X, X, E, O, E, E, E, O}
	first := CalculateWinner(board, 3)
	require.NotNil(t, first)
	first.Line[0] = 99

	second := CalculateWinner(board, 3)
	require.NotNil(t, second)
	assert.Equal(t, []int{0, 1, 2}, second.Line)
}

func TestWinningLines(t *testing.T) {
	for _, size := range []int{3, 4, 5} {
		lines := WinningLines(size)
		assert.Len(t, lines, 2*size+2)
		for _, line := range lines {
			assert.Len(t, line, size)
		}
	}

	assert.Equal(t, [][]int{
		{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
		{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
		{0, 4, 8}, {2, 4, 6},
	}, WinningLines(3))
}

func TestIsBoardFull(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		want  bool
	}{
		{
			name:  "Empty board is not full",
			board: Board{E, E, E, E, E, E, E, E, E},
			want:  false,
		},
		{
			name: "Partial board is not full",
			board: Board{
				X, E, E,
				E, O, E,
				E, E, E,
			},
			want: false,
		},
		{
			name: "Full board is full",
			board: Board{
				X, O, X,
				X, O, O,
				O, X, X,
			},
			want: true,
		},
		{
			name: "Full board with winner is full",
			board: Board{
				X, X, X,
				O, O, X,
				O, X, O,
			},
			want: true,
		},
		{
			name:  "Empty 4x4 is not full",
			board: make(Board, 16),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBoardFull(tt.board); got != tt.want {
				t.Errorf("IsBoardFull() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateEmptyBoard(t *testing.T) {
	for _, size := range []int{1, 3, 4, 5, 7} {
		board, err := CreateEmptyBoard(size)
		require.NoError(t, err)
		assert.Len(t, board, size*size)
		assert.Len(t, board.EmptyCells(), size*size)
	}

	for _, size := range []int{0, -1} {
		_, err := CreateEmptyBoard(size)
		assert.ErrorIs(t, err, ErrInvalidSize)
	}
}

func TestEmpty4x4Board(t *testing.T) {
	board, err := CreateEmptyBoard(4)
	require.NoError(t, err)

	assert.Nil(t, CalculateWinner(board, 4))
	assert.False(t, IsBoardFull(board))
}

func TestCoordConversions(t *testing.T) {
	for _, size := range []int{3, 4, 5} {
		for index := 0; index < size*size; index++ {
			row, col := IndexToCoord(index, size)
			assert.Equal(t, index, CoordToIndex(row, col, size))
		}
		for row := 0; row < size; row++ {
			for col := 0; col < size; col++ {
				r, c := IndexToCoord(CoordToIndex(row, col, size), size)
				assert.Equal(t, row, r)
				assert.Equal(t, col, c)
			}
		}
	}

	row, col := IndexToCoord(7, 3)
	assert.Equal(t, 2, row)
	assert.Equal(t, 1, col)
}

func TestSizeOf(t *testing.T) {
	for _, size := range []int{1, 3, 4, 5} {
		got, err := SizeOf(make(Board, size*size))
		require.NoError(t, err)
		assert.Equal(t, size, got)
	}

	for _, cells := range []int{0, 2, 8, 10, 24} {
		_, err := SizeOf(make(Board, cells))
		assert.ErrorIs(t, err, ErrInvalidSize, "cells=%d", cells)
	}
}

func TestOpponent(t *testing.T) {
	assert.Equal(t, O, Opponent(X))
	assert.Equal(t, X, Opponent(O))
	assert.Equal(t, None, Opponent(None))
}

func TestCenterIndex(t *testing.T) {
	assert.Equal(t, 4, CenterIndex(3))
	assert.Equal(t, 8, CenterIndex(4))
	assert.Equal(t, 12, CenterIndex(5))
}
