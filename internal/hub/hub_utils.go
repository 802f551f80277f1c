package hub

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/player"
	"encoding/json"
	"log/slog"

	"github.com/gorilla/websocket"
)

// sendDirect writes to a connection that no room owns yet.
func (h *Hub) sendDirect(ctx context.Context, conn player.Connection, message any) {
	if conn == nil {
		return
	}
	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "Error marshalling message", "error", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.ErrorContext(ctx, "Error writing message to connection", "error", err)
	}
}

// RoomCount returns the number of running rooms. Only safe to call from the
// goroutine running the hub.
func (h *Hub) RoomCount() int {
	return len(h.rooms)
}
