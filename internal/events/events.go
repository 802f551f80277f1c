package events

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/game"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Pub/Sub channel constants
const (
	EventsChannel = "channel:events"
)

// Event types
const (
	TypeSessionStarted = "session_started"
	TypeGameFinished   = "game_finished"
)

// Event represents a global message published via Pub/Sub.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// SessionStartedPayload is the payload for the "session_started" event.
type SessionStartedPayload struct {
	SessionID string        `json:"session_id"`
	PlayerID  string        `json:"player_id"`
	Settings  game.Settings `json:"settings"`
	Resumed   bool          `json:"resumed"`
}

// GameFinishedPayload is the payload for the "game_finished" event.
type GameFinishedPayload struct {
	ServerID   string          `json:"server_id"`
	SessionID  string          `json:"session_id"`
	PlayerID   string          `json:"player_id"`
	Settings   game.Settings   `json:"settings"`
	Winner     game.PlayerMark `json:"winner"`
	IsDraw     bool            `json:"is_draw"`
	Moves      []game.Move     `json:"moves"`
	FinishedAt time.Time       `json:"finished_at"`
}

// Publisher sends events to every subscriber.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// New wraps a payload into an Event.
func New(eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Payload: raw}, nil
}

// RedisBus publishes and receives events over Redis Pub/Sub.
type RedisBus struct {
	rdb     *redis.Client
	channel string
}

// NewRedisBus creates a bus on the shared events channel.
func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{rdb: rdb, channel: EventsChannel}
}

// Publish marshals the payload and publishes it on the events channel.
func (b *RedisBus) Publish(ctx context.Context, eventType string, payload any) error {
	event, err := New(eventType, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := b.rdb.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

// Subscribe listens on the events channel until ctx is done. The returned
// channel yields raw payloads and is closed when the subscription ends.
func (b *RedisBus) Subscribe(ctx context.Context) (<-chan string, error) {
	pubsub := b.rdb.Subscribe(ctx, b.channel)
	// Wait for the confirmation so no message published afterwards is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
