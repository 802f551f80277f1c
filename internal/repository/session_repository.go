package repository

//go:generate mockgen -source=session_repository.go -destination=mocks/session_repository.go -package=mocks

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/game"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Redis hash fields of a session.
const (
	FieldState     = "state"
	FieldPlayerID  = "player_id"
	FieldUpdatedAt = "updated_at"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is a saved game session: the full orchestrator state and its owner.
type Session struct {
	ID        string     `json:"id"`
	PlayerID  string     `json:"playerId"`
	State     game.State `json:"state"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// SessionRepository defines the interface for session data operations.
type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, id string) (*Session, error)
	ListByPlayer(ctx context.Context, playerID string, limit int64) ([]*Session, error)
	Delete(ctx context.Context, id string) error
}

type redisSessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionRepository creates a new Redis-based SessionRepository. Sessions
// and the per-player index expire after ttl without a save.
func NewSessionRepository(rdb *redis.Client, ttl time.Duration) SessionRepository {
	return &redisSessionRepository{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func playerSessionsKey(playerID string) string {
	return fmt.Sprintf("player:%s:sessions", playerID)
}

// Save writes the session and bumps it to the top of its player's list.
func (r *redisSessionRepository) Save(ctx context.Context, session *Session) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Save", trace.WithAttributes(
		attribute.String("session.id", session.ID),
		attribute.String("player.id", session.PlayerID),
	))
	defer span.End()

	stateJSON, err := json.Marshal(session.State)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal session state")
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = time.Now()
	}
	updatedAt := session.UpdatedAt.UnixMilli()

	key := sessionKey(session.ID)
	indexKey := playerSessionsKey(session.PlayerID)

	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, key,
		FieldState, stateJSON,
		FieldPlayerID, session.PlayerID,
		FieldUpdatedAt, updatedAt,
	)
	pipe.ZAdd(ctx, indexKey, &redis.Z{Score: float64(updatedAt), Member: session.ID})
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
		pipe.Expire(ctx, indexKey, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save session")
		return fmt.Errorf("failed to save session in redis: %w", err)
	}
	return nil
}

// FindByID retrieves a session from Redis.
func (r *redisSessionRepository) FindByID(ctx context.Context, id string) (*Session, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.FindByID", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get session")
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return decodeSession(id, data)
}

// ListByPlayer returns the player's sessions, most recently updated first.
// Sessions that expired since they were indexed are dropped from the index.
func (r *redisSessionRepository) ListByPlayer(ctx context.Context, playerID string, limit int64) ([]*Session, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.ListByPlayer", trace.WithAttributes(
		attribute.String("player.id", playerID),
		attribute.Int64("limit", limit),
	))
	defer span.End()

	indexKey := playerSessionsKey(playerID)
	stop := limit - 1
	if limit <= 0 {
		stop = -1
	}
	ids, err := r.rdb.ZRevRange(ctx, indexKey, 0, stop).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list sessions")
		return nil, fmt.Errorf("failed to list sessions for player %s: %w", playerID, err)
	}
	if len(ids) == 0 {
		return []*Session{}, nil
	}

	pipe := r.rdb.Pipeline()
	cmds := make([]*redis.StringStringMapCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, sessionKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load sessions")
		return nil, fmt.Errorf("failed to load sessions for player %s: %w", playerID, err)
	}

	sessions := make([]*Session, 0, len(ids))
	var expired []any
	for i, cmd := range cmds {
		data := cmd.Val()
		if len(data) == 0 {
			expired = append(expired, ids[i])
			continue
		}
		session, err := decodeSession(ids[i], data)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if len(expired) > 0 {
		if err := r.rdb.ZRem(ctx, indexKey, expired...).Err(); err != nil {
			span.RecordError(err)
		}
	}
	return sessions, nil
}

// Delete removes a session and its index entry.
func (r *redisSessionRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Delete", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	key := sessionKey(id)
	playerID, err := r.rdb.HGet(ctx, key, FieldPlayerID).Result()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to read session owner")
		return fmt.Errorf("failed to read session owner: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.ZRem(ctx, playerSessionsKey(playerID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete session")
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func decodeSession(id string, data map[string]string) (*Session, error) {
	var state game.State
	if err := json.Unmarshal([]byte(data[FieldState]), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state of session %s: %w", id, err)
	}
	millis, err := strconv.ParseInt(data[FieldUpdatedAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at of session %s: %w", id, err)
	}
	return &Session{
		ID:        id,
		PlayerID:  data[FieldPlayerID],
		State:     state,
		UpdatedAt: time.UnixMilli(millis),
	}, nil
}
