package room

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/bot"
	"ctchen222/TicTacToe-Classic/internal/events"
	"ctchen222/TicTacToe-Classic/internal/game"
	"ctchen222/TicTacToe-Classic/internal/repository"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// transition installs next as the current state, then saves it, records a
// finished game, hands the turn to the AI if needed and updates the client.
func (r *Room) transition(ctx context.Context, next game.State) {
	prev := r.state
	r.state = next

	if next.IsOver() && !prev.IsOver() {
		r.publishGameFinished(ctx)
	}
	r.persist(ctx)
	r.maybeStartAI(ctx)
	r.broadcastState(ctx)
}

// persist saves the session snapshot. Failures are logged and otherwise
// ignored; the live game does not depend on the store.
func (r *Room) persist(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "room.persist", trace.WithAttributes(
		attribute.String("session.id", r.ID),
	))
	defer span.End()

	session := &repository.Session{
		ID:        r.ID,
		PlayerID:  r.Player.ID,
		State:     r.state,
		UpdatedAt: time.Now(),
	}
	if err := r.deps.SessionRepo.Save(ctx, session); err != nil {
		slog.ErrorContext(ctx, "failed to save session", "session.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save session")
	}
}

func (r *Room) publishGameFinished(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "room.publishGameFinished", trace.WithAttributes(
		attribute.String("session.id", r.ID),
		attribute.String("game.winner", string(r.state.Winner)),
		attribute.Bool("game.draw", r.state.IsDraw),
	))
	defer span.End()

	payload := events.GameFinishedPayload{
		ServerID:   r.deps.ServerID,
		SessionID:  r.ID,
		PlayerID:   r.Player.ID,
		Settings:   r.state.Settings,
		Winner:     r.state.Winner,
		IsDraw:     r.state.IsDraw,
		Moves:      r.currentGameMoves(),
		FinishedAt: time.Now(),
	}
	if err := r.deps.Publisher.Publish(ctx, events.TypeGameFinished, payload); err != nil {
		slog.ErrorContext(ctx, "failed to publish game_finished event", "session.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to publish game_finished event")
	}
}

// currentGameMoves returns the moves of the game on the board. History spans
// every game of the session; the current game is its last n moves, where n is
// the number of occupied cells.
func (r *Room) currentGameMoves() []game.Move {
	placed := len(r.state.Board) - len(r.state.Board.EmptyCells())
	history := r.state.History
	if placed > len(history) {
		placed = len(history)
	}
	moves := make([]game.Move, placed)
	copy(moves, history[len(history)-placed:])
	return moves
}

// aiThinking reports whether an AI decision is pending.
func (r *Room) aiThinking() bool {
	return r.cancelThink != nil
}

// maybeStartAI asks the AI for a move when it is its turn.
func (r *Room) maybeStartAI(ctx context.Context) {
	if !r.state.IsAITurn() || r.aiThinking() {
		return
	}

	r.generation++
	thinkCtx, cancel := context.WithCancel(ctx)
	r.cancelThink = cancel

	req := bot.ThinkRequest{
		Generation: r.generation,
		Board:      r.state.Board.Clone(),
		Size:       r.state.Settings.BoardSize,
		Difficulty: r.state.Settings.Difficulty,
		AIMarker:   r.state.AIMarker(),
	}
	go bot.Think(thinkCtx, r.deps.Selector, r.deps.ThinkDelay, req, r.decisions)
}

// cancelAI abandons a pending AI decision. Bumping the generation makes
// sure a decision already in flight is recognised as stale.
func (r *Room) cancelAI() {
	if r.cancelThink != nil {
		r.cancelThink()
		r.cancelThink = nil
	}
	r.generation++
}

// handleDecision applies the AI's move if it still answers the current board.
func (r *Room) handleDecision(ctx context.Context, d bot.Decision) {
	ctx, span := tracer.Start(ctx, "room.handleDecision", trace.WithAttributes(
		attribute.String("session.id", r.ID),
		attribute.Int64("ai.generation", int64(d.Generation)),
		attribute.Int("move.position", d.Position),
	))
	defer span.End()

	if d.Generation != r.generation {
		slog.DebugContext(ctx, "Discarding stale AI decision", "session.id", r.ID, "generation", d.Generation, "current", r.generation)
		span.SetAttributes(attribute.Bool("ai.stale", true))
		return
	}
	if r.cancelThink != nil {
		r.cancelThink()
		r.cancelThink = nil
	}

	if d.Err != nil {
		slog.ErrorContext(ctx, "AI failed to select a move", "session.id", r.ID, "error", d.Err)
		span.RecordError(d.Err)
		span.SetStatus(codes.Error, "AI failed to select a move")
		r.broadcastState(ctx)
		return
	}

	next, err := game.ApplyMove(r.state, d.Position)
	if err != nil {
		slog.ErrorContext(ctx, "AI selected an illegal move", "session.id", r.ID, "position", d.Position, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "AI selected an illegal move")
		r.broadcastState(ctx)
		return
	}

	slog.InfoContext(ctx, "AI moved", "session.id", r.ID, "position", d.Position, "bot.mark", r.state.AIMarker())
	r.transition(ctx, next)
}
