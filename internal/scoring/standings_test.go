package scoring

import (
	"testing"

	"tenpin-app/internal/model"
)

func completedSheet(matchID string, pins1, pins2 int) MatchSheet {
	return MatchSheet{
		MatchID:  matchID,
		Team1:    TeamSide{TeamID: "t1", TeamName: "Strikers", TotalHDC: pins1, ScoreEntered: true},
		Team2:    TeamSide{TeamID: "t2", TeamName: "Pin Pals", TotalHDC: pins2, ScoreEntered: true},
		HasScore: true,
		Status:   model.MatchCompleted,
	}
}

func TestBuildStandings(t *testing.T) {
	sheets := []MatchSheet{
		completedSheet("m1", 2100, 1900),
		completedSheet("m2", 1800, 2000),
		completedSheet("m3", 1950, 1950),
		{
			MatchID: "m4",
			Team1:   TeamSide{TeamID: "t1", TeamName: "Strikers"},
			Team2:   TeamSide{TeamID: "t3", TeamName: "Splitters"},
		},
	}

	standings := BuildStandings(sheets)
	if len(standings) != 3 {
		t.Fatalf("got %d entries, want 3", len(standings))
	}

	byID := map[string]StandingEntry{}
	for _, e := range standings {
		byID[e.TeamID] = e
	}
	t1 := byID["t1"]
	if t1.Matches != 3 || t1.Wins != 1 || t1.Losses != 1 || t1.Ties != 1 {
		t.Errorf("t1 record = %+v", t1)
	}
	if t1.TotalPins != 5850 {
		t.Errorf("t1 pins = %d, want 5850", t1.TotalPins)
	}
	// Pending matches add the team to the table without a record.
	t3 := byID["t3"]
	if t3.Matches != 0 || t3.Wins != 0 {
		t.Errorf("t3 should have no record yet: %+v", t3)
	}
}

func TestBuildStandingsSortOrder(t *testing.T) {
	sheets := []MatchSheet{
		completedSheet("m1", 1700, 2200),
	}
	standings := BuildStandings(sheets)
	if standings[0].TeamID != "t2" {
		t.Errorf("winner should lead the table, got %s", standings[0].TeamID)
	}
}
