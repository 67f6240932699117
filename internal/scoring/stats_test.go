package scoring

import (
	"math"
	"testing"

	"tenpin-app/internal/model"
)

func TestConsistency(t *testing.T) {
	tests := []struct {
		name  string
		games []int
		want  int
	}{
		{name: "empty", games: nil, want: 0},
		{name: "flat series", games: []int{200, 200, 200}, want: 0},
		{name: "spread series", games: []int{100, 200, 300}, want: 82},
		{name: "single game", games: []int{187}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Consistency(tt.games); got != tt.want {
				t.Errorf("Consistency(%v) = %d, want %d", tt.games, got, tt.want)
			}
		})
	}
}

func TestPlayerStatistics(t *testing.T) {
	scores := []model.WeeklyScore{
		{G1: 150, G2: 180, G3: 210, HDC: 12},
	}
	stats := PlayerStatistics(scores)
	if stats == nil {
		t.Fatal("expected stats, got nil")
	}
	if stats.Average != 180.00 {
		t.Errorf("Average = %.2f, want 180.00", stats.Average)
	}
	if stats.HighGame != 210 {
		t.Errorf("HighGame = %d, want 210", stats.HighGame)
	}
	if stats.LowGame != 150 {
		t.Errorf("LowGame = %d, want 150", stats.LowGame)
	}
	if stats.GamesPlayed != 3 {
		t.Errorf("GamesPlayed = %d, want 3", stats.GamesPlayed)
	}
	if stats.TotalPins != 540 {
		t.Errorf("TotalPins = %d, want 540", stats.TotalPins)
	}
	if stats.TotalHDC != 12 {
		t.Errorf("TotalHDC = %d, want 12", stats.TotalHDC)
	}
}

func TestPlayerStatisticsTwoDecimalAverage(t *testing.T) {
	scores := []model.WeeklyScore{
		{G1: 151, G2: 163, G3: 149},
		{G1: 170, G2: 155, G3: 162},
	}
	stats := PlayerStatistics(scores)
	if stats == nil {
		t.Fatal("expected stats, got nil")
	}
	// 950 pins / 6 games = 158.333... -> 158.33, not integer-rounded.
	if stats.Average != 158.33 {
		t.Errorf("Average = %v, want 158.33", stats.Average)
	}
}

func TestPlayerStatisticsNoGames(t *testing.T) {
	if stats := PlayerStatistics(nil); stats != nil {
		t.Errorf("expected nil for a player with no games, got %+v", stats)
	}
}

func TestColumnTotals(t *testing.T) {
	players := []PlayerScore{
		{G1: 200, G2: 190, G3: 210, HDC: 10},
		{G1: 150, G2: 160, G3: 170, HDC: 20},
	}
	totals := ColumnTotals(players)

	// Team handicap of 30 splits into 10 pins per game column.
	if totals.HDC != 30 {
		t.Errorf("HDC = %d, want 30", totals.HDC)
	}
	if totals.G1 != 360 || totals.G2 != 360 || totals.G3 != 390 {
		t.Errorf("game columns = %v/%v/%v, want 360/360/390", totals.G1, totals.G2, totals.G3)
	}
	if totals.Scratch != 1080 {
		t.Errorf("Scratch = %d, want 1080", totals.Scratch)
	}
	if totals.Total != 1110 {
		t.Errorf("Total = %d, want 1110", totals.Total)
	}
}

func TestColumnTotalsFractionalHandicap(t *testing.T) {
	players := []PlayerScore{{G1: 100, G2: 100, G3: 100, HDC: 10}}
	totals := ColumnTotals(players)
	// 10/3 per game, no remainder distribution.
	want := 100 + 10.0/3
	if math.Abs(totals.G1-want) > 1e-9 {
		t.Errorf("G1 = %v, want %v", totals.G1, want)
	}
}

func TestColumnTotalsDerivedFallbacks(t *testing.T) {
	players := []PlayerScore{{Scratch: 540, HDC: 30}}
	totals := ColumnTotals(players)
	if totals.Scratch != 540 {
		t.Errorf("Scratch = %d, want stored 540", totals.Scratch)
	}
	if totals.Total != 570 {
		t.Errorf("Total = %d, want scratch+hdc = 570", totals.Total)
	}
}
