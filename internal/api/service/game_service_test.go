package service

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/api/models"
	"ctchen222/TicTacToe-Classic/internal/bot"
	"ctchen222/TicTacToe-Classic/internal/game"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	X = game.PlayerX
	O = game.PlayerO
	E = game.None
)

func TestGameService_SelectMove(t *testing.T) {
	svc := NewGameService(bot.NewSeededMoveCalculator(1))
	ctx := context.Background()

	t.Run("Blocks a row", func(t *testing.T) {
		resp, err := svc.SelectMove(ctx, &models.MoveRequest{
			Board:      game.Board{X, X, E, E, O, E, E, E, E},
			Difficulty: game.DifficultyHard,
			AIMarker:   O,
		})
		require.NoError(t, err)
		assert.Equal(t, &models.MoveResponse{Position: 2, Row: 0, Col: 2}, resp)
	})

	t.Run("Board that is not square", func(t *testing.T) {
		_, err := svc.SelectMove(ctx, &models.MoveRequest{Board: make(game.Board, 10), Difficulty: game.DifficultyEasy, AIMarker: X})
		assert.ErrorIs(t, err, game.ErrInvalidSize)
	})

	t.Run("Board too large for a session", func(t *testing.T) {
		_, err := svc.SelectMove(ctx, &models.MoveRequest{Board: make(game.Board, 36), Difficulty: game.DifficultyEasy, AIMarker: X})
		assert.ErrorIs(t, err, game.ErrInvalidSize)
	})

	t.Run("Finished game", func(t *testing.T) {
		_, err := svc.SelectMove(ctx, &models.MoveRequest{
			Board:      game.Board{X, X, X, O, O, E, E, E, E},
			Difficulty: game.DifficultyEasy,
			AIMarker:   O,
		})
		assert.ErrorIs(t, err, game.ErrGameFinished)
	})

	t.Run("Full board", func(t *testing.T) {
		_, err := svc.SelectMove(ctx, &models.MoveRequest{
			Board:      game.Board{X, O, X, X, O, O, O, X, X},
			Difficulty: game.DifficultyMedium,
			AIMarker:   O,
		})
		assert.ErrorIs(t, err, bot.ErrNoLegalMove)
	})
}

func TestGameService_Evaluate(t *testing.T) {
	svc := NewGameService(bot.NewSeededMoveCalculator(1))

	tests := []struct {
		name  string
		board game.Board
		want  *models.EvaluateResponse
	}{
		{
			name:  "In progress",
			board: game.Board{X, E, E, E, O, E, E, E, E},
			want:  &models.EvaluateResponse{Size: 3, EmptyCells: []int{1, 2, 3, 5, 6, 7, 8}},
		},
		{
			name:  "Win on the anti-diagonal",
			board: game.Board{X, X, O, E, O, E, O, X, E},
			want:  &models.EvaluateResponse{Size: 3, Winner: O, WinningLine: []int{2, 4, 6}, EmptyCells: []int{3, 5, 8}},
		},
		{
			name:  "Draw",
			board: game.Board{X, O, X, X, O, O, O, X, X},
			want:  &models.EvaluateResponse{Size: 3, IsDraw: true, IsFull: true, EmptyCells: []int{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Evaluate(context.Background(), &models.EvaluateRequest{Board: tt.board})
			require.NoError(t, err)
			assert.Equal(t, tt.want.Size, got.Size)
			assert.Equal(t, tt.want.Winner, got.Winner)
			assert.Equal(t, tt.want.WinningLine, got.WinningLine)
			assert.Equal(t, tt.want.IsDraw, got.IsDraw)
			assert.Equal(t, tt.want.IsFull, got.IsFull)
			assert.ElementsMatch(t, tt.want.EmptyCells, got.EmptyCells)
		})
	}
}
