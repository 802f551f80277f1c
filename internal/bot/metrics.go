package bot

import (
	"context"
	"log/slog"
	"time"

	"ctchen222/TicTacToe-Classic/internal/game"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("bot")

var (
	movesCounter     metric.Int64Counter
	decisionDuration metric.Float64Histogram
)

func init() {
	var err error
	movesCounter, err = meter.Int64Counter("bot.moves",
		metric.WithDescription("Number of moves chosen by the AI player"),
	)
	if err != nil {
		slog.Error("failed to create bot.moves counter", "error", err)
	}
	decisionDuration, err = meter.Float64Histogram("bot.decision.duration",
		metric.WithDescription("Time spent choosing an AI move"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		slog.Error("failed to create bot.decision.duration histogram", "error", err)
	}
}

func recordDecision(ctx context.Context, difficulty game.Difficulty, size int, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("bot.difficulty", string(difficulty)),
		attribute.Int("board.size", size),
	)
	if movesCounter != nil {
		movesCounter.Add(ctx, 1, attrs)
	}
	if decisionDuration != nil {
		decisionDuration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
	}
}
