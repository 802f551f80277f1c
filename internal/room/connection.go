package room

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/hub/types"
	"ctchen222/TicTacToe-Classic/internal/player"
	"ctchen222/TicTacToe-Classic/pkg/proto"
	"encoding/json"
	"log/slog"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Send writes a message to the room's client.
func (r *Room) Send(ctx context.Context, message any) {
	ctx, span := tracer.Start(ctx, "room.Send", trace.WithAttributes(
		attribute.String("session.id", r.ID),
	))
	defer span.End()

	if r.Player.Status != player.StatusConnected || r.Player.Conn == nil {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling message")
		return
	}

	if err := r.Player.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.ErrorContext(ctx, "error writing message to player", "player.id", r.Player.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error writing message to player")
	}
}

// sendError tells the client why its message was refused.
func (r *Room) sendError(ctx context.Context, reason string) {
	r.Send(ctx, proto.NewError(reason))
}

// broadcastState sends the full current state to the client.
func (r *Room) broadcastState(ctx context.Context) {
	r.Send(ctx, proto.NewUpdate(r.state, r.aiThinking()))
}

// ReadPump pumps messages from the websocket connection to the room's incomingMoves channel.
func (r *Room) ReadPump(p *player.Player) {
	ctx, span := tracer.Start(context.Background(), "room.ReadPump", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("session.id", r.ID),
	))
	defer span.End()

	defer r.leave()

	for {
		_, msg, err := p.Conn.ReadMessage()
		if err != nil {
			slog.WarnContext(ctx, "Player connection error", "player.id", p.ID, "session.id", r.ID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Player connection error")
			return
		}
		select {
		case r.incomingMoves <- &types.PlayerMove{Player: p, Message: msg}:
		case <-r.Done:
			return
		}
	}
}

func (r *Room) leave() {
	r.leftOnce.Do(func() {
		close(r.left)
	})
}

// handleDisconnect records that the client went away. The session stays in
// the repository so the player can resume it.
func (r *Room) handleDisconnect(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "room.handleDisconnect", trace.WithAttributes(
		attribute.String("player.id", r.Player.ID),
		attribute.String("session.id", r.ID),
	))
	defer span.End()

	r.Player.MarkDisconnected()
	if err := r.deps.PlayerRepo.UpdateConnectionStatus(ctx, r.Player.ID, player.StatusDisconnected); err != nil {
		slog.ErrorContext(ctx, "Failed to set player status to disconnected", "player.id", r.Player.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to set player status to disconnected")
	}
	slog.InfoContext(ctx, "Player disconnected. Updated status.", "player.id", r.Player.ID, "session.id", r.ID)
}
