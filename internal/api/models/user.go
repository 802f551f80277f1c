package models

// User is an account row. PlayerID links the account to the game sessions
// it played over the websocket.
type User struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	PlayerID     string `db:"player_id"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,alphanum,min=3,max=20"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token for /api/me and the player id the
// browser passes to /ws to find its sessions again.
type LoginResponse struct {
	Token    string `json:"token"`
	PlayerID string `json:"player_id"`
}

// GuestResponse is a player id without an account.
type GuestResponse struct {
	PlayerID string `json:"player_id"`
}
