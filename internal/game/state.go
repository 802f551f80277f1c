package game

import (
	"fmt"

	"ctchen222/TicTacToe-Classic/internal/validator"
)

// Settings is what the settings form produces.
type Settings struct {
	BoardSize    int        `json:"boardSize" validate:"oneof=3 4 5"`
	Mode         GameMode   `json:"gameMode" validate:"oneof=human-vs-human human-vs-ai"`
	Difficulty   Difficulty `json:"aiDifficulty" validate:"oneof=easy medium hard"`
	PlayerMarker PlayerMark `json:"playerMarker" validate:"oneof=X O"`
}

// DefaultSettings mirrors the initial state of the settings form.
func DefaultSettings() Settings {
	return Settings{
		BoardSize:    3,
		Mode:         ModeHumanVsHuman,
		Difficulty:   DifficultyMedium,
		PlayerMarker: PlayerX,
	}
}

// Validate checks the settings against their struct tags.
func (s Settings) Validate() error {
	if err := validator.GetValidator().Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}
	return nil
}

// Stats counts finished games.
type Stats struct {
	XWins int `json:"xWins"`
	OWins int `json:"oWins"`
	Draws int `json:"draws"`
}

// Games is the number of finished games.
func (s Stats) Games() int {
	return s.XWins + s.OWins + s.Draws
}

// State is the whole game as owned by the orchestrator. Transitions take a
// State and return a new one; the input is never mutated.
type State struct {
	Settings    Settings   `json:"settings"`
	Board       Board      `json:"board"`
	CurrentTurn PlayerMark `json:"currentTurn"`
	Winner      PlayerMark `json:"winner"`
	WinningLine []int      `json:"winningLine,omitempty"`
	IsDraw      bool       `json:"isDraw"`
	History     []Move     `json:"history"`
	Stats       Stats      `json:"stats"`
}

// NewState starts a fresh game. X always moves first.
func NewState(settings Settings) (State, error) {
	if err := settings.Validate(); err != nil {
		return State{}, err
	}
	board, err := CreateEmptyBoard(settings.BoardSize)
	if err != nil {
		return State{}, err
	}
	return State{
		Settings:    settings,
		Board:       board,
		CurrentTurn: PlayerX,
		Winner:      None,
		History:     []Move{},
	}, nil
}

// IsOver reports whether the current game has a winner or ended in a draw.
func (s State) IsOver() bool {
	return s.Winner != None || s.IsDraw
}

// AIMarker returns the AI's mark, or None when two humans are playing.
func (s State) AIMarker() PlayerMark {
	if s.Settings.Mode != ModeHumanVsAI {
		return None
	}
	return Opponent(s.Settings.PlayerMarker)
}

// IsAITurn reports whether the AI should move next.
func (s State) IsAITurn() bool {
	ai := s.AIMarker()
	return ai != None && !s.IsOver() && s.CurrentTurn == ai
}

// ApplyMove places the current player's mark at index.
func ApplyMove(s State, index int) (State, error) {
	if s.IsOver() {
		return s, ErrGameFinished
	}
	if index < 0 || index >= len(s.Board) {
		return s, fmt.Errorf("%w: %d", ErrInvalidCell, index)
	}
	if s.Board[index] != None {
		return s, fmt.Errorf("%w: %d", ErrCellOccupied, index)
	}

	next := s
	next.Board = s.Board.Clone()
	next.Board[index] = s.CurrentTurn
	next.History = append(append(make([]Move, 0, len(s.History)+1), s.History...), Move{Position: index, Player: s.CurrentTurn})
	next.CurrentTurn = Opponent(s.CurrentTurn)

	if result := CalculateWinner(next.Board, s.Settings.BoardSize); result != nil {
		next.Winner = result.Winner
		next.WinningLine = result.Line
		next.CurrentTurn = None
		if result.Winner == PlayerX {
			next.Stats.XWins++
		} else {
			next.Stats.OWins++
		}
	} else if IsBoardFull(next.Board) {
		next.IsDraw = true
		next.CurrentTurn = None
		next.Stats.Draws++
	}

	return next, nil
}

// ApplySettings switches to new settings and starts a fresh game. History
// and stats survive only when the board size is unchanged, since positions
// are size-specific.
func ApplySettings(s State, settings Settings) (State, error) {
	next, err := NewState(settings)
	if err != nil {
		return s, err
	}
	if settings.BoardSize == s.Settings.BoardSize {
		next.History = append(next.History, s.History...)
		next.Stats = s.Stats
	}
	return next, nil
}

// Restart clears the board and keeps settings, history and stats.
func Restart(s State) State {
	return State{
		Settings:    s.Settings,
		Board:       make(Board, len(s.Board)),
		CurrentTurn: PlayerX,
		Winner:      None,
		History:     append([]Move{}, s.History...),
		Stats:       s.Stats,
	}
}
