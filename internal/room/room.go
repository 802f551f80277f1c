package room

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/bot"
	"ctchen222/TicTacToe-Classic/internal/events"
	"ctchen222/TicTacToe-Classic/internal/game"
	"ctchen222/TicTacToe-Classic/internal/hub/types"
	"ctchen222/TicTacToe-Classic/internal/player"
	"ctchen222/TicTacToe-Classic/internal/repository"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
)

const (
	defaultHeartbeatInterval = 10 * time.Second
)

var tracer = otel.Tracer("room")

// Deps are the collaborators a room talks to.
type Deps struct {
	SessionRepo repository.SessionRepository
	PlayerRepo  repository.PlayerRepository
	Publisher   events.Publisher
	Selector    bot.Selector
	// ServerID tags published events with the server that owns the room.
	ServerID string

	// ThinkDelay is the pause before the AI answers.
	ThinkDelay        time.Duration
	HeartbeatInterval time.Duration
}

// Room is one game session attached to one browser connection. The client
// plays both marks in hot-seat games, or one mark against the AI. All state
// is owned by the run loop goroutine.
type Room struct {
	ID     string
	Player *player.Player

	state game.State
	deps  Deps

	incomingMoves chan *types.PlayerMove
	decisions     chan bot.Decision
	left          chan struct{}
	leftOnce      sync.Once

	// generation identifies the board the pending AI decision was asked
	// about; every restart, settings change or AI request bumps it.
	generation  uint64
	cancelThink context.CancelFunc

	Done     chan struct{}
	stopOnce sync.Once
}

// NewRoom creates a room for session id starting from state.
func NewRoom(id string, p *player.Player, state game.State, deps Deps) *Room {
	if deps.HeartbeatInterval <= 0 {
		deps.HeartbeatInterval = defaultHeartbeatInterval
	}
	return &Room{
		ID:            id,
		Player:        p,
		state:         state,
		deps:          deps,
		incomingMoves: make(chan *types.PlayerMove, 10),
		decisions:     make(chan bot.Decision, 1),
		left:          make(chan struct{}),
		Done:          make(chan struct{}),
	}
}

// Start sends the current state to the client, resumes the AI if it is its
// turn and runs the room until the client leaves, Stop is called or ctx is
// done. The room then hands itself to unregister.
func (r *Room) Start(ctx context.Context, unregister chan<- *Room) {
	go r.ReadPump(r.Player)

	r.persist(ctx)
	r.maybeStartAI(ctx)
	r.broadcastState(ctx)

	r.run(ctx)

	select {
	case unregister <- r:
	case <-ctx.Done():
	}
}

// Stop ends the room. The connection is closed so the read pump exits too.
func (r *Room) Stop() {
	r.stopOnce.Do(func() {
		close(r.Done)
	})
}

// run is the main loop for the room.
func (r *Room) run(ctx context.Context) {
	pingTicker := time.NewTicker(r.deps.HeartbeatInterval)

	defer func() {
		pingTicker.Stop()
		r.cancelAI()
		if r.Player.Conn != nil {
			r.Player.Conn.Close()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Room context done, stopping.", "session.id", r.ID)
			return

		case <-r.Done:
			slog.InfoContext(ctx, "Room run goroutine stopping.", "session.id", r.ID)
			return

		case <-r.left:
			r.handleDisconnect(ctx)
			return

		case move := <-r.incomingMoves:
			r.HandleMessage(ctx, move.Player, move.Message)

		case decision := <-r.decisions:
			r.handleDecision(ctx, decision)

		case <-pingTicker.C:
			if r.Player.Status == player.StatusConnected && r.Player.Conn != nil {
				if err := r.Player.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					slog.WarnContext(ctx, "Failed to send ping to player, assuming disconnect", "player.id", r.Player.ID, "error", err)
				}
			}
		}
	}
}
