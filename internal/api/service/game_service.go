package service

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/api/models"
	"ctchen222/TicTacToe-Classic/internal/bot"
	"ctchen222/TicTacToe-Classic/internal/game"
	"fmt"
)

// GameService exposes the rules engine and the AI without a session.
type GameService interface {
	SelectMove(ctx context.Context, req *models.MoveRequest) (*models.MoveResponse, error)
	Evaluate(ctx context.Context, req *models.EvaluateRequest) (*models.EvaluateResponse, error)
}

type gameService struct {
	selector bot.Selector
}

// NewGameService creates a GameService that asks selector for AI moves.
func NewGameService(selector bot.Selector) GameService {
	return &gameService{selector: selector}
}

// SelectMove returns the AI's move for the given board.
func (s *gameService) SelectMove(ctx context.Context, req *models.MoveRequest) (*models.MoveResponse, error) {
	size, err := boardSize(req.Board)
	if err != nil {
		return nil, err
	}
	if result := game.CalculateWinner(req.Board, size); result != nil {
		return nil, fmt.Errorf("%w: %s has already won", game.ErrGameFinished, result.Winner)
	}

	position, err := s.selector.SelectMove(req.Board, size, req.Difficulty, req.AIMarker)
	if err != nil {
		return nil, err
	}
	row, col := game.IndexToCoord(position, size)
	return &models.MoveResponse{Position: position, Row: row, Col: col}, nil
}

// Evaluate reports the winner, draw and fullness of a board.
func (s *gameService) Evaluate(ctx context.Context, req *models.EvaluateRequest) (*models.EvaluateResponse, error) {
	size, err := boardSize(req.Board)
	if err != nil {
		return nil, err
	}

	resp := &models.EvaluateResponse{
		Size:       size,
		IsFull:     game.IsBoardFull(req.Board),
		EmptyCells: req.Board.EmptyCells(),
	}
	if result := game.CalculateWinner(req.Board, size); result != nil {
		resp.Winner = result.Winner
		resp.WinningLine = result.Line
	} else {
		resp.IsDraw = resp.IsFull
	}
	return resp, nil
}

// boardSize accepts the square boards a session can be played on.
func boardSize(board game.Board) (int, error) {
	size, err := game.SizeOf(board)
	if err != nil {
		return 0, err
	}
	if err := validBoardSize(size); err != nil {
		return 0, err
	}
	return size, nil
}

func validBoardSize(size int) error {
	settings := game.DefaultSettings()
	settings.BoardSize = size
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %d", game.ErrInvalidSize, size)
	}
	return nil
}
