package hub

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/bot"
	"ctchen222/TicTacToe-Classic/internal/events"
	"ctchen222/TicTacToe-Classic/internal/hub/types"
	"ctchen222/TicTacToe-Classic/internal/repository"
	"ctchen222/TicTacToe-Classic/internal/room"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("hub")

// EventBus publishes events and delivers every event published on it,
// including those from other servers.
type EventBus interface {
	events.Publisher
	Subscribe(ctx context.Context) (<-chan string, error)
}

// Options tune the rooms a hub creates.
type Options struct {
	ServerID          string
	ThinkDelay        time.Duration
	HeartbeatInterval time.Duration
}

// Hub manages all the rooms on this server.
type Hub struct {
	rooms      map[string]*room.Room
	register   chan *types.RegistrationRequest
	unregister chan *room.Room

	sessionRepo repository.SessionRepository
	playerRepo  repository.PlayerRepository
	statsRepo   repository.StatsRepository
	bus         EventBus
	selector    bot.Selector
	opts        Options
}

// NewHub creates a new hub.
func NewHub(
	sessionRepo repository.SessionRepository,
	playerRepo repository.PlayerRepository,
	statsRepo repository.StatsRepository,
	bus EventBus,
	selector bot.Selector,
	opts Options,
) *Hub {
	return &Hub{
		rooms:       make(map[string]*room.Room),
		register:    make(chan *types.RegistrationRequest),
		unregister:  make(chan *room.Room),
		sessionRepo: sessionRepo,
		playerRepo:  playerRepo,
		statsRepo:   statsRepo,
		bus:         bus,
		selector:    selector,
		opts:        opts,
	}
}

// Run starts the hub. It owns the room table until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	go h.runEventSubscriber(ctx)

	for {
		select {
		case <-ctx.Done():
			for _, r := range h.rooms {
				r.Stop()
			}
			slog.InfoContext(ctx, "Hub stopped", "rooms.count", len(h.rooms))
			return

		case req := <-h.register:
			h.handleRegistration(ctx, req)

		case r := <-h.unregister:
			h.handleUnregister(ctx, r)
		}
	}
}

// Register returns the register channel.
func (h *Hub) Register() chan<- *types.RegistrationRequest {
	return h.register
}

func (h *Hub) roomDeps() room.Deps {
	return room.Deps{
		SessionRepo:       h.sessionRepo,
		PlayerRepo:        h.playerRepo,
		Publisher:         h.bus,
		Selector:          h.selector,
		ServerID:          h.opts.ServerID,
		ThinkDelay:        h.opts.ThinkDelay,
		HeartbeatInterval: h.opts.HeartbeatInterval,
	}
}
