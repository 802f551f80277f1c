package hub

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/events"
	"ctchen222/TicTacToe-Classic/internal/game"
	"ctchen222/TicTacToe-Classic/internal/hub/types"
	"ctchen222/TicTacToe-Classic/internal/repository"
	"ctchen222/TicTacToe-Classic/internal/room"
	"ctchen222/TicTacToe-Classic/pkg/proto"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrSessionOwnership = errors.New("session belongs to another player")

// handleRegistration attaches a new connection to a session and starts its
// room. A room already running the same session is replaced.
func (h *Hub) handleRegistration(ctx context.Context, req *types.RegistrationRequest) {
	regCtx := ctx
	if req.Ctx != nil {
		regCtx = req.Ctx
	}
	regCtx, span := tracer.Start(regCtx, "hub.handleRegistration", trace.WithAttributes(
		attribute.String("player.id", req.Player.ID),
		attribute.String("session.requested", req.SessionID),
		attribute.Bool("settings.provided", req.Settings != nil),
	))
	defer span.End()

	session, resumed, err := h.resolveSession(regCtx, req)
	if err != nil {
		slog.WarnContext(regCtx, "Could not attach player to a session", "player.id", req.Player.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not attach player to a session")
		h.sendDirect(regCtx, req.Player.Conn, proto.NewError(err.Error()))
		req.Player.Conn.Close()
		return
	}
	span.SetAttributes(attribute.String("session.id", session.ID), attribute.Bool("session.resumed", resumed))

	if existing, ok := h.rooms[session.ID]; ok {
		slog.InfoContext(regCtx, "Session opened again, replacing its room", "session.id", session.ID)
		existing.Stop()
	}

	if err := h.playerRepo.SetInitialState(regCtx, req.Player.ID, h.opts.ServerID); err != nil {
		slog.ErrorContext(regCtx, "Failed to set initial player state", "player.id", req.Player.ID, "error", err)
		span.RecordError(err)
	}
	if err := h.playerRepo.UpdateForSession(regCtx, req.Player.ID, session.ID); err != nil {
		slog.ErrorContext(regCtx, "Failed to attach player to session", "player.id", req.Player.ID, "session.id", session.ID, "error", err)
		span.RecordError(err)
	}

	h.sendDirect(regCtx, req.Player.Conn, &proto.PlayerAssignmentMessage{
		Type:      proto.TypeAssignment,
		PlayerID:  req.Player.ID,
		SessionID: session.ID,
		Mark:      humanMark(session.State.Settings),
	})

	if err := h.bus.Publish(regCtx, events.TypeSessionStarted, events.SessionStartedPayload{
		SessionID: session.ID,
		PlayerID:  req.Player.ID,
		Settings:  session.State.Settings,
		Resumed:   resumed,
	}); err != nil {
		slog.ErrorContext(regCtx, "Failed to publish session_started event", "session.id", session.ID, "error", err)
		span.RecordError(err)
	}

	newRoom := room.NewRoom(session.ID, req.Player, session.State, h.roomDeps())
	h.rooms[session.ID] = newRoom
	go newRoom.Start(ctx, h.unregister)

	slog.InfoContext(regCtx, "Room started", "session.id", session.ID, "player.id", req.Player.ID, "resumed", resumed)
}

// resolveSession picks the session a connection plays in: the one it asked
// for, a new one with the settings it sent, the player's last session, or
// a new one with default settings, in that order.
func (h *Hub) resolveSession(ctx context.Context, req *types.RegistrationRequest) (*repository.Session, bool, error) {
	playerID := req.Player.ID

	if req.SessionID != "" {
		session, err := h.sessionRepo.FindByID(ctx, req.SessionID)
		if err != nil {
			return nil, false, err
		}
		if session.PlayerID != playerID {
			return nil, false, fmt.Errorf("%w: %s", ErrSessionOwnership, req.SessionID)
		}
		return session, true, nil
	}

	if req.Settings != nil {
		session, err := newSession(playerID, *req.Settings)
		return session, false, err
	}

	sessionID, _, err := h.playerRepo.FindForReconnection(ctx, playerID)
	if err != nil {
		slog.WarnContext(ctx, "Failed to look up player for reconnection", "player.id", playerID, "error", err)
	} else if sessionID != "" {
		session, err := h.sessionRepo.FindByID(ctx, sessionID)
		switch {
		case err == nil && session.PlayerID == playerID:
			return session, true, nil
		case err != nil && !errors.Is(err, repository.ErrSessionNotFound):
			slog.WarnContext(ctx, "Failed to load last session", "player.id", playerID, "session.id", sessionID, "error", err)
		}
	}

	session, err := newSession(playerID, game.DefaultSettings())
	return session, false, err
}

func newSession(playerID string, settings game.Settings) (*repository.Session, error) {
	state, err := game.NewState(settings)
	if err != nil {
		return nil, err
	}
	return &repository.Session{
		ID:        uuid.New().String(),
		PlayerID:  playerID,
		State:     state,
		UpdatedAt: time.Now(),
	}, nil
}

// humanMark is the mark the client plays. Hot-seat clients play both.
func humanMark(s game.Settings) game.PlayerMark {
	if s.Mode != game.ModeHumanVsAI {
		return game.None
	}
	return s.PlayerMarker
}

// handleUnregister forgets a room that has stopped. A room replaced by a
// newer one for the same session is ignored.
func (h *Hub) handleUnregister(ctx context.Context, r *room.Room) {
	ctx, span := tracer.Start(ctx, "hub.handleUnregister", trace.WithAttributes(
		attribute.String("session.id", r.ID),
		attribute.String("player.id", r.Player.ID),
	))
	defer span.End()

	if current, ok := h.rooms[r.ID]; !ok || current != r {
		slog.DebugContext(ctx, "Replaced room stopped", "session.id", r.ID)
		return
	}
	delete(h.rooms, r.ID)

	if err := h.playerRepo.SetOffline(ctx, r.Player.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to set player offline", "player.id", r.Player.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to set player offline")
	}
	slog.InfoContext(ctx, "Room closed", "session.id", r.ID, "player.id", r.Player.ID, "rooms.count", len(h.rooms))
}
