package repository

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/analytics"
	"ctchen222/TicTacToe-Classic/internal/db"
	"ctchen222/TicTacToe-Classic/internal/game"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conn, err := db.LocalConnect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.InitializeSchema(conn))
	return conn
}

func TestStatsRepository_RecordAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewStatsRepository(newTestDB(t))

	finished := time.Now().Truncate(time.Millisecond)
	results := []*analytics.Result{
		{
			SessionID:  "s1",
			PlayerID:   "p1",
			BoardSize:  3,
			Mode:       game.ModeHumanVsAI,
			Difficulty: game.DifficultyHard,
			Winner:     game.PlayerO,
			Moves:      []game.Move{{Position: 4, Player: game.PlayerX}, {Position: 0, Player: game.PlayerO}},
			FinishedAt: finished,
		},
		{
			SessionID:  "s1",
			PlayerID:   "p1",
			BoardSize:  3,
			Mode:       game.ModeHumanVsHuman,
			Difficulty: game.DifficultyMedium,
			IsDraw:     true,
			FinishedAt: finished.Add(time.Second),
		},
		{
			SessionID:  "s2",
			PlayerID:   "p1",
			BoardSize:  5,
			Mode:       game.ModeHumanVsHuman,
			Difficulty: game.DifficultyEasy,
			Winner:     game.PlayerX,
			FinishedAt: finished.Add(2 * time.Second),
		},
		{
			SessionID:  "s3",
			PlayerID:   "p2",
			BoardSize:  3,
			Mode:       game.ModeHumanVsHuman,
			Difficulty: game.DifficultyEasy,
			Winner:     game.PlayerX,
		},
	}
	for _, r := range results {
		require.NoError(t, repo.RecordResult(ctx, r))
	}

	t.Run("All sizes", func(t *testing.T) {
		got, err := repo.ListResults(ctx, "p1", 0)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.True(t, results[0].FinishedAt.Equal(got[0].FinishedAt))
		got[0].FinishedAt = results[0].FinishedAt
		assert.Equal(t, *results[0], got[0])
		assert.True(t, got[1].IsDraw)
		assert.Empty(t, got[1].Moves)
		assert.Equal(t, 5, got[2].BoardSize)
	})

	t.Run("Filtered by size", func(t *testing.T) {
		got, err := repo.ListResults(ctx, "p1", 3)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("Unknown player", func(t *testing.T) {
		got, err := repo.ListResults(ctx, "nobody", 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Zero finish time defaults to now", func(t *testing.T) {
		got, err := repo.ListResults(ctx, "p2", 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.WithinDuration(t, time.Now(), got[0].FinishedAt, time.Minute)
	})
}
