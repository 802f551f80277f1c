package room

import (
	"ctchen222/TicTacToe-Classic/internal/game"
)

// State returns the room's current game state. Only safe to call from the
// goroutine running the room, or before Start.
func (r *Room) State() game.State {
	return r.state
}
