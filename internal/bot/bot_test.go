package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"ctchen222/TicTacToe-Classic/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSelector struct {
	position int
	err      error
	calls    int
	board    game.Board
}

func (s *stubSelector) SelectMove(board game.Board, size int, difficulty game.Difficulty, aiMarker game.PlayerMark) (int, error) {
	s.calls++
	s.board = board
	board[0] = aiMarker
	return s.position, s.err
}

func TestThink_DeliversDecision(t *testing.T) {
	selector := &stubSelector{position: 4}
	out := make(chan Decision, 1)
	req := ThinkRequest{
		Generation: 3,
		Board:      make(game.Board, 9),
		Size:       3,
		Difficulty: game.DifficultyHard,
		AIMarker:   game.PlayerO,
	}

	Think(context.Background(), selector, time.Millisecond, req, out)

	select {
	case d := <-out:
		assert.Equal(t, Decision{Generation: 3, Position: 4}, d)
	default:
		t.Fatal("expected a decision")
	}
	assert.Equal(t, 1, selector.calls)
	assert.Equal(t, game.None, req.Board[0], "selector must get a copy of the board")
}

func TestThink_ForwardsSelectorError(t *testing.T) {
	selector := &stubSelector{position: -1, err: ErrNoLegalMove}
	out := make(chan Decision, 1)

	Think(context.Background(), selector, 0, ThinkRequest{Generation: 1, Board: make(game.Board, 9), Size: 3}, out)

	d := <-out
	assert.True(t, errors.Is(d.Err, ErrNoLegalMove))
	assert.Equal(t, uint64(1), d.Generation)
}

func TestThink_CancelledBeforeDelay(t *testing.T) {
	selector := &stubSelector{position: 4}
	out := make(chan Decision, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	Think(ctx, selector, time.Hour, ThinkRequest{Board: make(game.Board, 9), Size: 3}, out)

	assert.Zero(t, selector.calls)
	assert.Empty(t, out)
}

func TestThink_CancelledWhileBlockedOnSend(t *testing.T) {
	selector := &stubSelector{position: 4}
	out := make(chan Decision) // nobody reads
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		Think(ctx, selector, 0, ThinkRequest{Board: make(game.Board, 9), Size: 3}, out)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Think did not return after cancellation")
	}
}

func TestThink_WithRealCalculator(t *testing.T) {
	out := make(chan Decision, 1)
	board := game.Board{
		game.PlayerO, game.PlayerO, game.None,
		game.None, game.PlayerX, game.None,
		game.None, game.None, game.None,
	}

	Think(context.Background(), NewSeededMoveCalculator(5), 0, ThinkRequest{
		Board:      board,
		Size:       3,
		Difficulty: game.DifficultyMedium,
		AIMarker:   game.PlayerX,
	}, out)

	d := <-out
	require.NoError(t, d.Err)
	assert.Equal(t, 2, d.Position)
}
