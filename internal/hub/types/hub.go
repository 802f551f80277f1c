package types

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/game"
	"ctchen222/TicTacToe-Classic/internal/player"
)

// RegistrationRequest represents a request to attach a connection to a session.
type RegistrationRequest struct {
	Player    *player.Player
	SessionID string         // Explicit resume; empty to use the player's last session
	Settings  *game.Settings // Non-nil starts a new session with these settings
	Ctx       context.Context
}

// PlayerMove is a raw client message waiting to be handled by its room.
type PlayerMove struct {
	Player  *player.Player
	Message []byte
}
