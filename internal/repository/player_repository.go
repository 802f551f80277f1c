package repository

//go:generate mockgen -source=player_repository.go -destination=mocks/player_repository.go -package=mocks

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/player"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("repository")

// Player activity values stored under the "status" field.
const (
	activityOnline  = "online"
	activityPlaying = "in_game"
	activityOffline = "offline"
)

// PlayerRepository defines the interface for player data operations.
type PlayerRepository interface {
	FindForReconnection(ctx context.Context, id string) (sessionID string, status player.PlayerStatus, err error)
	UpdateConnectionStatus(ctx context.Context, id string, status player.PlayerStatus) error
	SetInitialState(ctx context.Context, id, serverID string) error
	UpdateForSession(ctx context.Context, id, sessionID string) error
	SetOffline(ctx context.Context, id string) error
}

type redisPlayerRepository struct {
	rdb *redis.Client
}

// NewPlayerRepository creates a new Redis-based PlayerRepository.
func NewPlayerRepository(rdb *redis.Client) PlayerRepository {
	return &redisPlayerRepository{
		rdb: rdb,
	}
}

func playerKey(id string) string {
	return fmt.Sprintf("player:%s", id)
}

// Redis hash fields of a player.
const (
	fieldServerID         = "server_id"
	fieldSessionID        = "session_id"
	fieldActivity         = "status"
	fieldConnectionStatus = "connection_status"
)

// FindForReconnection returns the player's current session and connection
// status. Both are empty for an unknown player.
func (r *redisPlayerRepository) FindForReconnection(ctx context.Context, id string) (string, player.PlayerStatus, error) {
	ctx, span := tracer.Start(ctx, "PlayerRepository.FindForReconnection", trace.WithAttributes(
		attribute.String("player.id", id),
	))
	defer span.End()

	values, err := r.rdb.HMGet(ctx, playerKey(id), fieldSessionID, fieldConnectionStatus).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get player")
		return "", "", fmt.Errorf("failed to get player %s: %w", id, err)
	}
	sessionID, _ := values[0].(string)
	status, _ := values[1].(string)
	return sessionID, player.PlayerStatus(status), nil
}

// UpdateConnectionStatus updates only the connection status of a player.
func (r *redisPlayerRepository) UpdateConnectionStatus(ctx context.Context, id string, status player.PlayerStatus) error {
	return r.set(ctx, "PlayerRepository.UpdateConnectionStatus", id,
		fieldConnectionStatus, string(status),
	)
}

// SetInitialState records which server a newly connected player is on.
func (r *redisPlayerRepository) SetInitialState(ctx context.Context, id, serverID string) error {
	return r.set(ctx, "PlayerRepository.SetInitialState", id,
		fieldServerID, serverID,
		fieldActivity, activityOnline,
		fieldConnectionStatus, string(player.StatusConnected),
	)
}

// UpdateForSession attaches a player to the session they are playing.
func (r *redisPlayerRepository) UpdateForSession(ctx context.Context, id, sessionID string) error {
	return r.set(ctx, "PlayerRepository.UpdateForSession", id,
		fieldSessionID, sessionID,
		fieldActivity, activityPlaying,
		fieldConnectionStatus, string(player.StatusConnected),
	)
}

// SetOffline marks a player as offline. The session id stays so the player
// can resume it on the next connection.
func (r *redisPlayerRepository) SetOffline(ctx context.Context, id string) error {
	return r.set(ctx, "PlayerRepository.SetOffline", id, fieldActivity, activityOffline)
}

// set writes field/value pairs to the player hash in one HSET.
func (r *redisPlayerRepository) set(ctx context.Context, op, id string, fieldValues ...string) error {
	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("player.id", id),
	))
	defer span.End()

	args := make([]any, len(fieldValues))
	for i, v := range fieldValues {
		args[i] = v
	}
	if err := r.rdb.HSet(ctx, playerKey(id), args...).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update player")
		return fmt.Errorf("failed to update player %s: %w", id, err)
	}
	return nil
}
