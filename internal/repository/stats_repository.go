package repository

//go:generate mockgen -source=stats_repository.go -destination=mocks/stats_repository.go -package=mocks

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/analytics"
	"ctchen222/TicTacToe-Classic/internal/game"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StatsRepository stores finished games for the statistics page.
type StatsRepository interface {
	RecordResult(ctx context.Context, result *analytics.Result) error
	// ListResults returns a player's results, oldest first. A boardSize of 0
	// means every size.
	ListResults(ctx context.Context, playerID string, boardSize int) ([]analytics.Result, error)
}

type gameResultRow struct {
	SessionID  string `db:"session_id"`
	PlayerID   string `db:"player_id"`
	BoardSize  int    `db:"board_size"`
	Mode       string `db:"mode"`
	Difficulty string `db:"difficulty"`
	Winner     string `db:"winner"`
	IsDraw     bool   `db:"is_draw"`
	Moves      string `db:"moves"`
	FinishedAt int64  `db:"finished_at"`
}

type sqliteStatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new SQLite-based StatsRepository.
func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &sqliteStatsRepository{db: db}
}

// RecordResult inserts one finished game.
func (r *sqliteStatsRepository) RecordResult(ctx context.Context, result *analytics.Result) error {
	ctx, span := tracer.Start(ctx, "StatsRepository.RecordResult", trace.WithAttributes(
		attribute.String("session.id", result.SessionID),
		attribute.String("player.id", result.PlayerID),
	))
	defer span.End()

	moves := result.Moves
	if moves == nil {
		moves = []game.Move{}
	}
	movesJSON, err := json.Marshal(moves)
	if err != nil {
		return fmt.Errorf("failed to marshal moves: %w", err)
	}
	if result.FinishedAt.IsZero() {
		result.FinishedAt = time.Now()
	}

	row := gameResultRow{
		SessionID:  result.SessionID,
		PlayerID:   result.PlayerID,
		BoardSize:  result.BoardSize,
		Mode:       string(result.Mode),
		Difficulty: string(result.Difficulty),
		Winner:     string(result.Winner),
		IsDraw:     result.IsDraw,
		Moves:      string(movesJSON),
		FinishedAt: result.FinishedAt.UnixMilli(),
	}

	query := `INSERT INTO game_results
		(session_id, player_id, board_size, mode, difficulty, winner, is_draw, moves, finished_at)
		VALUES (:session_id, :player_id, :board_size, :mode, :difficulty, :winner, :is_draw, :moves, :finished_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to record game result")
		return fmt.Errorf("failed to record game result: %w", err)
	}
	return nil
}

// ListResults reads a player's recorded games.
func (r *sqliteStatsRepository) ListResults(ctx context.Context, playerID string, boardSize int) ([]analytics.Result, error) {
	ctx, span := tracer.Start(ctx, "StatsRepository.ListResults", trace.WithAttributes(
		attribute.String("player.id", playerID),
		attribute.Int("board.size", boardSize),
	))
	defer span.End()

	query := `SELECT session_id, player_id, board_size, mode, difficulty, winner, is_draw, moves, finished_at
		FROM game_results WHERE player_id = ?`
	args := []any{playerID}
	if boardSize > 0 {
		query += ` AND board_size = ?`
		args = append(args, boardSize)
	}
	query += ` ORDER BY finished_at, id`

	var rows []gameResultRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list game results")
		return nil, fmt.Errorf("failed to list game results: %w", err)
	}

	results := make([]analytics.Result, 0, len(rows))
	for _, row := range rows {
		var moves []game.Move
		if err := json.Unmarshal([]byte(row.Moves), &moves); err != nil {
			return nil, fmt.Errorf("failed to unmarshal moves of session %s: %w", row.SessionID, err)
		}
		results = append(results, analytics.Result{
			SessionID:  row.SessionID,
			PlayerID:   row.PlayerID,
			BoardSize:  row.BoardSize,
			Mode:       game.GameMode(row.Mode),
			Difficulty: game.Difficulty(row.Difficulty),
			Winner:     game.PlayerMark(row.Winner),
			IsDraw:     row.IsDraw,
			Moves:      moves,
			FinishedAt: time.UnixMilli(row.FinishedAt),
		})
	}
	return results, nil
}
