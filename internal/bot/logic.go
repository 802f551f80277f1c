package bot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"ctchen222/TicTacToe-Classic/internal/game"
)

const (
	// fullSearchDepth solves a 3x3 board completely.
	fullSearchDepth = 9
	// boundedSearchDepth caps lookahead on larger boards.
	boundedSearchDepth = 4

	winScore = 10
)

var ErrNoLegalMove = errors.New("no legal move available")

// MoveCalculator chooses AI moves. It holds nothing but its random source,
// so one calculator per goroutine is enough; a nil source falls back to the
// goroutine-safe global generator.
type MoveCalculator struct {
	rng *rand.Rand
}

// NewMoveCalculator creates a calculator drawing randomness from rng.
func NewMoveCalculator(rng *rand.Rand) *MoveCalculator {
	return &MoveCalculator{rng: rng}
}

// NewSeededMoveCalculator creates a calculator with a deterministic PCG source.
func NewSeededMoveCalculator(seed uint64) *MoveCalculator {
	return NewMoveCalculator(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

var defaultCalculator = NewMoveCalculator(nil)

// SelectMove determines the AI's next move with the global random source.
func SelectMove(board game.Board, size int, difficulty game.Difficulty, aiMarker game.PlayerMark) (int, error) {
	return defaultCalculator.SelectMove(board, size, difficulty, aiMarker)
}

// SelectMove determines the AI's next move based on the specified difficulty.
// The caller's board is never modified.
func (c *MoveCalculator) SelectMove(board game.Board, size int, difficulty game.Difficulty, aiMarker game.PlayerMark) (int, error) {
	if size < game.MinBoardSize || len(board) != size*size {
		return -1, fmt.Errorf("%w: %d cells for size %d", game.ErrInvalidSize, len(board), size)
	}
	if !aiMarker.IsValid() {
		return -1, fmt.Errorf("%w: %q", game.ErrInvalidMarker, aiMarker)
	}
	if game.IsBoardFull(board) {
		return -1, ErrNoLegalMove
	}

	start := time.Now()
	scratch := board.Clone()
	humanMarker := game.Opponent(aiMarker)

	var move int
	switch difficulty {
	case game.DifficultyHard:
		move = c.hardMove(scratch, size, aiMarker, humanMarker)
	case game.DifficultyMedium:
		move = c.mediumMove(scratch, size, aiMarker, humanMarker)
	default:
		move = c.easyMove(scratch)
	}

	recordDecision(context.Background(), difficulty, size, time.Since(start))
	return move, nil
}

// easyMove makes a completely random move.
func (c *MoveCalculator) easyMove(board game.Board) int {
	availableMoves := board.EmptyCells()
	if len(availableMoves) == 0 {
		return -1
	}
	return availableMoves[c.intN(len(availableMoves))]
}

// mediumMove will win if it can, block if it must, take the center of an
// odd board, otherwise move randomly.
func (c *MoveCalculator) mediumMove(board game.Board, size int, aiMarker, humanMarker game.PlayerMark) int {
	// 1. Win
	if move := findWinningMove(board, size, aiMarker); move != -1 {
		return move
	}

	// 2. Block
	if move := findWinningMove(board, size, humanMarker); move != -1 {
		return move
	}

	// 3. Center: only odd boards have an exact one
	if size%2 == 1 {
		if center := game.CenterIndex(size); board[center] == game.None {
			return center
		}
	}

	// 4. Random
	return c.easyMove(board)
}

// hardMove searches with minimax. Boards larger than 3x3 cannot be solved
// within the depth limit, so there the center is taken first as a heuristic.
func (c *MoveCalculator) hardMove(board game.Board, size int, aiMarker, humanMarker game.PlayerMark) int {
	depthLimit := fullSearchDepth
	isLargeBoard := size > 3
	if isLargeBoard {
		depthLimit = boundedSearchDepth
	}

	if move := findWinningMove(board, size, aiMarker); move != -1 {
		return move
	}
	if move := findWinningMove(board, size, humanMarker); move != -1 {
		return move
	}

	if isLargeBoard {
		if center := game.CenterIndex(size); board[center] == game.None {
			return center
		}
	}

	bestScore := math.MinInt
	bestMove := -1
	for i := range board {
		if board[i] != game.None {
			continue
		}
		board[i] = aiMarker
		score := minimax(board, size, 0, depthLimit, false, aiMarker, humanMarker, math.MinInt, math.MaxInt)
		board[i] = game.None

		// Strict comparison keeps the lowest index among equal scores.
		if score > bestScore {
			bestScore = score
			bestMove = i
		}
	}
	return bestMove
}

// findWinningMove returns the first empty cell that completes a line for mark, or -1.
func findWinningMove(board game.Board, size int, mark game.PlayerMark) int {
	for i := range board {
		if board[i] != game.None {
			continue
		}
		board[i] = mark
		result := game.CalculateWinner(board, size)
		board[i] = game.None

		if result != nil && result.Winner == mark {
			return i
		}
	}
	return -1
}

// minimax scores the position for aiMarker with alpha-beta pruning. The board
// is mutated in place and every trial is reverted before returning.
func minimax(board game.Board, size, depth, maxDepth int, maximizing bool, aiMarker, humanMarker game.PlayerMark, alpha, beta int) int {
	if result := game.CalculateWinner(board, size); result != nil {
		if result.Winner == aiMarker {
			return winScore - depth
		}
		return depth - winScore
	}
	if game.IsBoardFull(board) || depth >= maxDepth {
		return 0
	}

	if maximizing {
		bestScore := math.MinInt
		for i := range board {
			if board[i] != game.None {
				continue
			}
			board[i] = aiMarker
			score := minimax(board, size, depth+1, maxDepth, false, aiMarker, humanMarker, alpha, beta)
			board[i] = game.None

			bestScore = max(bestScore, score)
			alpha = max(alpha, bestScore)
			if beta <= alpha {
				break
			}
		}
		return bestScore
	}

	bestScore := math.MaxInt
	for i := range board {
		if board[i] != game.None {
			continue
		}
		board[i] = humanMarker
		score := minimax(board, size, depth+1, maxDepth, true, aiMarker, humanMarker, alpha, beta)
		board[i] = game.None

		bestScore = min(bestScore, score)
		beta = min(beta, bestScore)
		if beta <= alpha {
			break
		}
	}
	return bestScore
}

func (c *MoveCalculator) intN(n int) int {
	if c.rng == nil {
		return rand.IntN(n)
	}
	return c.rng.IntN(n)
}
