package scoring

import "testing"

func TestForecastClearFavorite(t *testing.T) {
	teamA := []*PlayerStats{{Average: 200, HighGame: 220, Consistency: 10, GamesPlayed: 30, TotalPins: 6000, TotalHDC: 100}}
	teamB := []*PlayerStats{{Average: 150, HighGame: 180, Consistency: 30, GamesPlayed: 15, TotalPins: 2250, TotalHDC: 200}}

	result := Forecast(teamA, teamB)
	if result == nil {
		t.Fatal("expected a forecast")
	}
	if result.Winner != "A" {
		t.Errorf("Winner = %q, want A", result.Winner)
	}
	if result.TeamA.WinProbability <= 50 {
		t.Errorf("WinProbability = %d, want > 50", result.TeamA.WinProbability)
	}
	if result.TeamA.WinProbability+result.TeamB.WinProbability != 100 {
		t.Errorf("probabilities must sum to 100, got %d + %d",
			result.TeamA.WinProbability, result.TeamB.WinProbability)
	}
	if result.TeamA.ProjectedScore != 6100 {
		t.Errorf("ProjectedScore = %d, want pins+hdc = 6100", result.TeamA.ProjectedScore)
	}
	wantConfidence := (result.TeamA.WinProbability - 50) * 2
	if result.ConfidenceLevel != wantConfidence {
		t.Errorf("ConfidenceLevel = %d, want %d", result.ConfidenceLevel, wantConfidence)
	}
}

func TestForecastSymmetry(t *testing.T) {
	teamA := []*PlayerStats{
		{Average: 193.5, HighGame: 245, Consistency: 14, GamesPlayed: 21, TotalPins: 4063, TotalHDC: 90},
		{Average: 171.2, HighGame: 208, Consistency: 22, GamesPlayed: 18, TotalPins: 3081, TotalHDC: 140},
	}
	teamB := []*PlayerStats{
		{Average: 182.0, HighGame: 226, Consistency: 17, GamesPlayed: 24, TotalPins: 4368, TotalHDC: 110},
	}

	forward := Forecast(teamA, teamB)
	reverse := Forecast(teamB, teamA)
	if forward == nil || reverse == nil {
		t.Fatal("expected forecasts both ways")
	}
	if forward.TeamA.WinProbability != reverse.TeamB.WinProbability {
		t.Errorf("winProbA(A,B) = %d, winProbB(B,A) = %d; must match",
			forward.TeamA.WinProbability, reverse.TeamB.WinProbability)
	}
	if forward.Winner == "A" && reverse.Winner != "B" {
		t.Errorf("winner did not flip: forward %q reverse %q", forward.Winner, reverse.Winner)
	}
	if forward.ConfidenceLevel != reverse.ConfidenceLevel {
		t.Errorf("confidence differs under swap: %d vs %d", forward.ConfidenceLevel, reverse.ConfidenceLevel)
	}
}

func TestForecastExactTieHasNoFavorite(t *testing.T) {
	stats := &PlayerStats{Average: 180, HighGame: 200, Consistency: 15, GamesPlayed: 12, TotalPins: 2160, TotalHDC: 60}
	result := Forecast([]*PlayerStats{stats}, []*PlayerStats{stats})
	if result == nil {
		t.Fatal("expected a forecast")
	}
	if result.Winner != "" {
		t.Errorf("Winner = %q, want no favorite on an exact tie", result.Winner)
	}
	if result.TeamA.WinProbability != 50 || result.TeamB.WinProbability != 50 {
		t.Errorf("probabilities = %d/%d, want 50/50",
			result.TeamA.WinProbability, result.TeamB.WinProbability)
	}
	if result.ConfidenceLevel != 0 || result.ConfidenceLabel != "Low" {
		t.Errorf("confidence = %d %q, want 0 Low", result.ConfidenceLevel, result.ConfidenceLabel)
	}
}

func TestForecastRequiresBothSides(t *testing.T) {
	stats := []*PlayerStats{{Average: 180, GamesPlayed: 3}}
	if Forecast(stats, nil) != nil {
		t.Error("expected nil when side B has no selection")
	}
	if Forecast(nil, stats) != nil {
		t.Error("expected nil when side A has no selection")
	}
	if Forecast(stats, []*PlayerStats{nil}) != nil {
		t.Error("expected nil when side B has only invalid stats")
	}
}

func TestConfidenceLabelBuckets(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{0, "Low"},
		{30, "Low"},
		{31, "Medium"},
		{60, "Medium"},
		{61, "High"},
		{100, "High"},
	}
	for _, tt := range tests {
		if got := confidenceLabel(tt.level); got != tt.want {
			t.Errorf("confidenceLabel(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
