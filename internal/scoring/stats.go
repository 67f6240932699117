package scoring

import (
	"math"

	"tenpin-app/internal/model"
)

// Totals is the column footer of a score-entry sheet. The game columns are
// floats because the team handicap is split evenly across the three games
// for display, with no remainder rule, so fractional pins are expected.
type Totals struct {
	G1      float64
	G2      float64
	G3      float64
	HDC     int
	Scratch int
	Total   int
}

// ColumnTotals sums a side's in-progress lines. Missing scratch and total
// values fall back to the game sum and scratch+hdc respectively.
func ColumnTotals(players []PlayerScore) Totals {
	var t Totals
	for _, p := range players {
		t.G1 += float64(p.G1)
		t.G2 += float64(p.G2)
		t.G3 += float64(p.G3)
		t.HDC += p.HDC
		scratch := p.Scratch
		if scratch == 0 {
			scratch = p.G1 + p.G2 + p.G3
		}
		t.Scratch += scratch
		total := p.TotalHDC
		if total == 0 {
			total = scratch + p.HDC
		}
		t.Total += total
	}
	perGame := float64(t.HDC) / 3
	t.G1 += perGame
	t.G2 += perGame
	t.G3 += perGame
	return t
}

// Consistency is the population standard deviation of the given games,
// rounded to the nearest pin. Lower means more consistent. Empty input
// yields 0.
func Consistency(games []int) int {
	if len(games) == 0 {
		return 0
	}
	var sum float64
	for _, g := range games {
		sum += float64(g)
	}
	mean := sum / float64(len(games))
	var variance float64
	for _, g := range games {
		d := float64(g) - mean
		variance += d * d
	}
	variance /= float64(len(games))
	return int(math.Round(math.Sqrt(variance)))
}

// PlayerStats aggregates every game a player has bowled.
type PlayerStats struct {
	PlayerID    string
	PlayerName  string
	Average     float64
	HighGame    int
	LowGame     int
	TotalPins   int
	TotalHDC    int
	GamesPlayed int
	Consistency int
	Games       []int
}

// PlayerStatistics flattens all of a player's score rows into one per-game
// list and aggregates it. Returns nil when the player has no games; callers
// must leave such players out of team rollups rather than counting zeros.
func PlayerStatistics(scores []model.WeeklyScore) *PlayerStats {
	games := make([]int, 0, len(scores)*3)
	totalHDC := 0
	for _, score := range scores {
		games = append(games, score.G1, score.G2, score.G3)
		totalHDC += score.HDC
	}
	if len(games) == 0 {
		return nil
	}

	stats := &PlayerStats{
		HighGame:    games[0],
		LowGame:     games[0],
		TotalHDC:    totalHDC,
		GamesPlayed: len(games),
		Games:       games,
	}
	for _, g := range games {
		stats.TotalPins += g
		if g > stats.HighGame {
			stats.HighGame = g
		}
		if g < stats.LowGame {
			stats.LowGame = g
		}
	}
	stats.Average = math.Round(float64(stats.TotalPins)/float64(stats.GamesPlayed)*100) / 100
	stats.Consistency = Consistency(games)
	return stats
}
