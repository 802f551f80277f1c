package analytics

import (
	"ctchen222/TicTacToe-Classic/internal/game"
	"testing"

	"github.com/stretchr/testify/assert"
)

func moves(players string, positions ...int) []game.Move {
	history := make([]game.Move, len(positions))
	for i, p := range positions {
		history[i] = game.Move{Position: p, Player: game.PlayerMark(players[i : i+1])}
	}
	return history
}

func TestMoveFrequency(t *testing.T) {
	tests := []struct {
		name    string
		history []game.Move
		want    []PositionCount
	}{
		{
			name:    "Empty history",
			history: nil,
			want:    []PositionCount{},
		},
		{
			name:    "Counts per marker sorted by position",
			history: moves("XOXOX", 4, 0, 8, 4, 0),
			want: []PositionCount{
				{Position: 0, X: 1, O: 1},
				{Position: 4, X: 1, O: 1},
				{Position: 8, X: 1},
			},
		},
		{
			name:    "Unplayed positions are omitted",
			history: moves("XX", 24, 12),
			want: []PositionCount{
				{Position: 12, X: 1},
				{Position: 24, X: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MoveFrequency(tt.history))
		})
	}
}

func TestHeatmap(t *testing.T) {
	tests := []struct {
		name    string
		history []game.Move
		want    map[int]int
	}{
		{
			name:    "Empty history",
			history: nil,
			want:    map[int]int{},
		},
		{
			name:    "Single position is fully hot",
			history: moves("X", 4),
			want:    map[int]int{4: 5},
		},
		{
			name: "Scaled against the most played cell",
			// 4 played five times, 0 twice, 8 once.
			history: moves("XOXOXOXO", 4, 0, 4, 0, 4, 8, 4, 4),
			want:    map[int]int{4: 5, 0: 2, 8: 1},
		},
		{
			name:    "Partial levels round up",
			history: moves("XOXO", 1, 1, 1, 2),
			want:    map[int]int{1: 5, 2: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Heatmap(tt.history)
			assert.Equal(t, tt.want, got)
			for _, v := range got {
				assert.GreaterOrEqual(t, v, 1)
				assert.LessOrEqual(t, v, heatLevels)
			}
		})
	}
}

func TestBuildReport(t *testing.T) {
	stats := game.Stats{XWins: 2, OWins: 1, Draws: 3}
	report := BuildReport(stats, moves("XO", 4, 0))

	assert.Equal(t, Summary{XWins: 2, OWins: 1, Draws: 3, Games: 6}, report.Summary)
	assert.Len(t, report.MoveFrequency, 2)
	assert.Equal(t, map[int]int{4: 5, 0: 5}, report.Heatmap)
}

func TestAggregate(t *testing.T) {
	results := []Result{
		{Winner: game.PlayerX, Moves: moves("XOXOX", 0, 3, 1, 4, 2)},
		{Winner: game.PlayerO, Moves: moves("XOXO", 0, 4, 8, 2)},
		{IsDraw: true},
		{IsDraw: true},
	}

	report := Aggregate(results)

	assert.Equal(t, Summary{XWins: 1, OWins: 1, Draws: 2, Games: 4}, report.Summary)
	assert.Equal(t, PositionCount{Position: 0, X: 2}, report.MoveFrequency[0])
	assert.Equal(t, 5, report.Heatmap[0])

	empty := Aggregate(nil)
	assert.Zero(t, empty.Summary)
	assert.Empty(t, empty.MoveFrequency)
	assert.Empty(t, empty.Heatmap)
}
