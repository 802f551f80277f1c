package hub

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/analytics"
	"ctchen222/TicTacToe-Classic/internal/events"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func (h *Hub) runEventSubscriber(ctx context.Context) {
	messages, err := h.bus.Subscribe(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Event subscriber could not start", "error", err)
		return
	}
	slog.InfoContext(ctx, "Event subscriber started", "channel", events.EventsChannel)

	for payload := range messages {
		h.handleEvent(ctx, payload)
	}
	slog.InfoContext(ctx, "Event subscriber stopped")
}

func (h *Hub) handleEvent(ctx context.Context, raw string) {
	ctx, span := tracer.Start(ctx, "hub.handleEvent", trace.WithAttributes(
		attribute.String("event.channel", events.EventsChannel),
	))
	defer span.End()

	var event events.Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		slog.ErrorContext(ctx, "Could not unmarshal global event", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not unmarshal global event")
		return
	}
	span.SetAttributes(attribute.String("event.type", event.Type))

	switch event.Type {
	case events.TypeGameFinished:
		var payload events.GameFinishedPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			slog.ErrorContext(ctx, "Could not unmarshal game_finished payload", "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Could not unmarshal game_finished payload")
			return
		}
		h.handleGameFinished(ctx, &payload)

	case events.TypeSessionStarted:
		var payload events.SessionStartedPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			slog.ErrorContext(ctx, "Could not unmarshal session_started payload", "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Could not unmarshal session_started payload")
			return
		}
		slog.InfoContext(ctx, "Received session_started event", "session.id", payload.SessionID, "player.id", payload.PlayerID, "resumed", payload.Resumed)

	default:
		slog.DebugContext(ctx, "Ignoring unknown event", "event.type", event.Type)
	}
}

// handleGameFinished stores the result of a game played on this server.
// Every server sees the event, so only the owner records it.
func (h *Hub) handleGameFinished(ctx context.Context, payload *events.GameFinishedPayload) {
	ctx, span := tracer.Start(ctx, "hub.handleGameFinished", trace.WithAttributes(
		attribute.String("session.id", payload.SessionID),
		attribute.String("player.id", payload.PlayerID),
		attribute.String("server.id", payload.ServerID),
	))
	defer span.End()

	if payload.ServerID != h.opts.ServerID {
		return
	}

	result := &analytics.Result{
		SessionID:  payload.SessionID,
		PlayerID:   payload.PlayerID,
		BoardSize:  payload.Settings.BoardSize,
		Mode:       payload.Settings.Mode,
		Difficulty: payload.Settings.Difficulty,
		Winner:     payload.Winner,
		IsDraw:     payload.IsDraw,
		Moves:      payload.Moves,
		FinishedAt: payload.FinishedAt,
	}
	if err := h.statsRepo.RecordResult(ctx, result); err != nil {
		slog.ErrorContext(ctx, "Failed to record game result", "session.id", payload.SessionID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to record game result")
		return
	}
	slog.InfoContext(ctx, "Game result recorded", "session.id", payload.SessionID, "winner", payload.Winner, "draw", payload.IsDraw)
}
