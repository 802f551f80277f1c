package proto

import "ctchen222/TicTacToe-Classic/internal/game"

// Message types exchanged over the websocket.
const (
	TypeMove     = "move"
	TypeRestart  = "restart"
	TypeSettings = "settings"

	TypeUpdate     = "update"
	TypeError      = "error"
	TypeAssignment = "assignment"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type     string         `json:"type" validate:"required,oneof=move restart settings"`
	Position *int           `json:"position,omitempty" validate:"required_if=Type move"`
	Settings *game.Settings `json:"settings,omitempty" validate:"required_if=Type settings"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type        string          `json:"type" validate:"required"`
	Reason      string          `json:"reason,omitempty"`
	Board       game.Board      `json:"board,omitempty"`
	Size        int             `json:"size,omitempty"`
	Next        game.PlayerMark `json:"next,omitempty"`
	Winner      game.PlayerMark `json:"winner,omitempty"`
	WinningLine []int           `json:"winningLine,omitempty"`
	IsDraw      bool            `json:"isDraw,omitempty"`
	Settings    *game.Settings  `json:"settings,omitempty"`
	Stats       *game.Stats     `json:"stats,omitempty"`
	AIThinking  bool            `json:"aiThinking,omitempty"`
}

// PlayerAssignmentMessage tells a client which session it is attached to and,
// in AI games, which mark is theirs.
type PlayerAssignmentMessage struct {
	Type      string          `json:"type"`
	PlayerID  string          `json:"playerId,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	Mark      game.PlayerMark `json:"mark,omitempty"`
}

// NewUpdate builds the full-state update sent after every transition.
func NewUpdate(s game.State, aiThinking bool) *ServerToClientMessage {
	settings := s.Settings
	stats := s.Stats
	return &ServerToClientMessage{
		Type:        TypeUpdate,
		Board:       s.Board,
		Size:        s.Settings.BoardSize,
		Next:        s.CurrentTurn,
		Winner:      s.Winner,
		WinningLine: s.WinningLine,
		IsDraw:      s.IsDraw,
		Settings:    &settings,
		Stats:       &stats,
		AIThinking:  aiThinking,
	}
}

// NewError builds an error message for the client.
func NewError(reason string) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeError, Reason: reason}
}
