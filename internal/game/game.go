package game

import (
	"errors"
)

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

// Difficulty selects the strategy of the AI player.
type Difficulty string

// GameMode tells whether the second seat is a human or the AI.
type GameMode string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// AI difficulties
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"

	// Game modes
	ModeHumanVsHuman GameMode = "human-vs-human"
	ModeHumanVsAI    GameMode = "human-vs-ai"

	// MinBoardSize is the smallest board the engine accepts.
	MinBoardSize = 1
)

var (
	ErrInvalidSize    = errors.New("invalid board size")
	ErrInvalidMarker  = errors.New("invalid player marker")
	ErrInvalidCell    = errors.New("invalid cell index")
	ErrCellOccupied   = errors.New("cell already occupied")
	ErrGameFinished   = errors.New("game already finished")
	ErrInvalidSetting = errors.New("invalid game settings")
)

// Board is a row-major sequence of size*size cells.
type Board []PlayerMark

// WinResult is a completed line and the mark that completed it.
type WinResult struct {
	Winner PlayerMark `json:"winner"`
	Line   []int      `json:"line"`
}

// Move is one placed mark, kept in the append-only history used for analytics.
type Move struct {
	Position int        `json:"position"`
	Player   PlayerMark `json:"player"`
}

// Clone returns a copy of the board that shares no memory with b.
func (b Board) Clone() Board {
	if b == nil {
		return nil
	}
	out := make(Board, len(b))
	copy(out, b)
	return out
}

// EmptyCells returns the indices of empty cells in ascending order.
func (b Board) EmptyCells() []int {
	cells := make([]int, 0, len(b))
	for i, cell := range b {
		if cell == None {
			cells = append(cells, i)
		}
	}
	return cells
}

// IsValid reports whether the mark is X or O.
func (m PlayerMark) IsValid() bool {
	return m == PlayerX || m == PlayerO
}

// Opponent returns the other player's mark. None has no opponent.
func Opponent(mark PlayerMark) PlayerMark {
	switch mark {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return None
	}
}
