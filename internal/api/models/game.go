package models

import "ctchen222/TicTacToe-Classic/internal/game"

// MoveRequest asks the AI for a move on an arbitrary board.
type MoveRequest struct {
	Board      game.Board      `json:"board" binding:"required,min=9,max=25,dive,oneof='' X O"`
	Difficulty game.Difficulty `json:"aiDifficulty" binding:"required,oneof=easy medium hard"`
	AIMarker   game.PlayerMark `json:"aiMarker" binding:"required,oneof=X O"`
}

type MoveResponse struct {
	Position int `json:"position"`
	Row      int `json:"row"`
	Col      int `json:"col"`
}

// EvaluateRequest asks for the outcome of a board.
type EvaluateRequest struct {
	Board game.Board `json:"board" binding:"required,min=9,max=25,dive,oneof='' X O"`
}

type EvaluateResponse struct {
	Size        int             `json:"size"`
	Winner      game.PlayerMark `json:"winner"`
	WinningLine []int           `json:"winningLine,omitempty"`
	IsDraw      bool            `json:"isDraw"`
	IsFull      bool            `json:"isFull"`
	EmptyCells  []int           `json:"emptyCells"`
}
