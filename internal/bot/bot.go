package bot

import (
	"context"
	"log/slog"
	"time"

	"ctchen222/TicTacToe-Classic/internal/game"
)

// Selector is anything that can pick a move for the AI.
type Selector interface {
	SelectMove(board game.Board, size int, difficulty game.Difficulty, aiMarker game.PlayerMark) (int, error)
}

// ThinkRequest is a snapshot of the position the AI should answer.
type ThinkRequest struct {
	Generation uint64
	Board      game.Board
	Size       int
	Difficulty game.Difficulty
	AIMarker   game.PlayerMark
}

// Decision is the AI's answer to a ThinkRequest. Generation lets the
// receiver drop answers computed for a board it has since replaced.
type Decision struct {
	Generation uint64
	Position   int
	Err        error
}

// Think pauses for delay so the move doesn't appear instantly, then selects
// a move and sends it on out. If ctx is cancelled first, nothing is sent.
func Think(ctx context.Context, selector Selector, delay time.Duration, req ThinkRequest, out chan<- Decision) {
	slog.DebugContext(ctx, "Bot is thinking...", "bot.mark", req.AIMarker, "bot.difficulty", req.Difficulty, "generation", req.Generation)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		slog.DebugContext(ctx, "Bot stopped thinking", "generation", req.Generation)
		return
	case <-timer.C:
	}

	position, err := selector.SelectMove(req.Board.Clone(), req.Size, req.Difficulty, req.AIMarker)

	select {
	case <-ctx.Done():
	case out <- Decision{Generation: req.Generation, Position: position, Err: err}:
	}
}
