// Package analytics turns finished games and move history into the numbers
// shown on the statistics page.
package analytics

import (
	"ctchen222/TicTacToe-Classic/internal/game"
	"slices"
	"time"
)

// heatLevels is the highest intensity a heatmap cell can reach.
const heatLevels = 5

// Summary counts outcomes over a series of games.
type Summary struct {
	XWins int `json:"xWins"`
	OWins int `json:"oWins"`
	Draws int `json:"draws"`
	Games int `json:"games"`
}

// PositionCount is how often each marker was placed on one cell.
type PositionCount struct {
	Position int `json:"position"`
	X        int `json:"X"`
	O        int `json:"O"`
}

// Result is one finished game as recorded for a player.
type Result struct {
	SessionID  string          `json:"sessionId"`
	PlayerID   string          `json:"playerId"`
	BoardSize  int             `json:"boardSize"`
	Mode       game.GameMode   `json:"gameMode"`
	Difficulty game.Difficulty `json:"aiDifficulty"`
	Winner     game.PlayerMark `json:"winner"`
	IsDraw     bool            `json:"isDraw"`
	Moves      []game.Move     `json:"moves"`
	FinishedAt time.Time       `json:"finishedAt"`
}

// Report is everything the statistics view needs.
type Report struct {
	Summary       Summary         `json:"summary"`
	MoveFrequency []PositionCount `json:"moveFrequency"`
	Heatmap       map[int]int     `json:"heatmap"`
}

// Summarize converts the in-game counters into a Summary.
func Summarize(stats game.Stats) Summary {
	return Summary{
		XWins: stats.XWins,
		OWins: stats.OWins,
		Draws: stats.Draws,
		Games: stats.Games(),
	}
}

// MoveFrequency counts placements per position, split by marker, sorted by position.
// Positions never played are omitted.
func MoveFrequency(history []game.Move) []PositionCount {
	byPosition := make(map[int]*PositionCount)
	for _, m := range history {
		pc, ok := byPosition[m.Position]
		if !ok {
			pc = &PositionCount{Position: m.Position}
			byPosition[m.Position] = pc
		}
		switch m.Player {
		case game.PlayerX:
			pc.X++
		case game.PlayerO:
			pc.O++
		}
	}

	frequency := make([]PositionCount, 0, len(byPosition))
	for _, pc := range byPosition {
		frequency = append(frequency, *pc)
	}
	slices.SortFunc(frequency, func(a, b PositionCount) int {
		return a.Position - b.Position
	})
	return frequency
}

// Heatmap maps each played position to an intensity in 1..5, relative to the
// most played position. An empty history yields an empty map.
func Heatmap(history []game.Move) map[int]int {
	counts := make(map[int]int)
	peak := 0
	for _, m := range history {
		counts[m.Position]++
		peak = max(peak, counts[m.Position])
	}

	heat := make(map[int]int, len(counts))
	for position, count := range counts {
		// ceil(count / peak * heatLevels) in integer arithmetic
		heat[position] = (count*heatLevels + peak - 1) / peak
	}
	return heat
}

// BuildReport computes a report from a live session's counters and history.
func BuildReport(stats game.Stats, history []game.Move) Report {
	return Report{
		Summary:       Summarize(stats),
		MoveFrequency: MoveFrequency(history),
		Heatmap:       Heatmap(history),
	}
}

// Aggregate computes a report over recorded results.
func Aggregate(results []Result) Report {
	var (
		stats   game.Stats
		history []game.Move
	)
	for _, r := range results {
		switch {
		case r.IsDraw:
			stats.Draws++
		case r.Winner == game.PlayerX:
			stats.XWins++
		case r.Winner == game.PlayerO:
			stats.OWins++
		}
		history = append(history, r.Moves...)
	}
	return BuildReport(stats, history)
}
