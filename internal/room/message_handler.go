package room

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/game"
	"ctchen222/TicTacToe-Classic/internal/player"
	"ctchen222/TicTacToe-Classic/internal/validator"
	"ctchen222/TicTacToe-Classic/pkg/proto"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Reasons sent back to the client with an error message.
const (
	ReasonMalformed   = "malformed message"
	ReasonInvalid     = "invalid message"
	ReasonNotYourTurn = "not your turn"
)

// HandleMessage handles a message from a player. It acts as a dispatcher.
func (r *Room) HandleMessage(ctx context.Context, p *player.Player, rawMessage []byte) {
	ctx, span := tracer.Start(ctx, "room.HandleMessage", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("session.id", r.ID),
	))
	defer span.End()

	if p.Status == player.StatusDisconnected {
		slog.WarnContext(ctx, "ignoring message from disconnected player", "player.id", p.ID)
		span.SetStatus(codes.Error, "Message from disconnected player")
		return
	}

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(rawMessage, &message); err != nil {
		slog.WarnContext(ctx, "error unmarshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		r.sendError(ctx, ReasonMalformed)
		return
	}

	if err := validator.GetValidator().Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from player", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		r.sendError(ctx, ReasonInvalid)
		return
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	switch message.Type {
	case proto.TypeMove:
		r.handleMove(ctx, *message.Position)
	case proto.TypeRestart:
		r.handleRestart(ctx)
	case proto.TypeSettings:
		r.handleSettings(ctx, *message.Settings)
	}
}

// handleMove applies a human move. In AI games the human may only move on
// their own turn.
func (r *Room) handleMove(ctx context.Context, position int) {
	ctx, span := tracer.Start(ctx, "room.handleMove", trace.WithAttributes(
		attribute.String("session.id", r.ID),
		attribute.Int("move.position", position),
	))
	defer span.End()

	if r.state.IsAITurn() {
		slog.WarnContext(ctx, "move received during the AI's turn", "session.id", r.ID, "position", position)
		span.SetStatus(codes.Error, "Move during AI turn")
		r.sendError(ctx, ReasonNotYourTurn)
		return
	}

	next, err := game.ApplyMove(r.state, position)
	if err != nil {
		slog.WarnContext(ctx, "invalid move from player", "player.id", r.Player.ID, "position", position, "error", err)
		span.SetAttributes(attribute.Bool("move.valid", false))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid move")
		r.sendError(ctx, err.Error())
		return
	}
	span.SetAttributes(attribute.Bool("move.valid", true))

	r.transition(ctx, next)
}

// handleRestart starts a new game with the same settings. A pending AI move
// for the old board is abandoned.
func (r *Room) handleRestart(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "room.handleRestart", trace.WithAttributes(
		attribute.String("session.id", r.ID),
	))
	defer span.End()

	r.cancelAI()
	slog.InfoContext(ctx, "Game restarted", "session.id", r.ID)
	r.transition(ctx, game.Restart(r.state))
}

// handleSettings applies new settings and starts a new game with them.
func (r *Room) handleSettings(ctx context.Context, settings game.Settings) {
	ctx, span := tracer.Start(ctx, "room.handleSettings", trace.WithAttributes(
		attribute.String("session.id", r.ID),
		attribute.Int("board.size", settings.BoardSize),
		attribute.String("game.mode", string(settings.Mode)),
		attribute.String("bot.difficulty", string(settings.Difficulty)),
	))
	defer span.End()

	next, err := game.ApplySettings(r.state, settings)
	if err != nil {
		slog.WarnContext(ctx, "invalid settings from player", "player.id", r.Player.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid settings")
		r.sendError(ctx, err.Error())
		return
	}

	r.cancelAI()
	slog.InfoContext(ctx, "Settings applied", "session.id", r.ID, "board.size", settings.BoardSize, "game.mode", settings.Mode)
	r.transition(ctx, next)
}
