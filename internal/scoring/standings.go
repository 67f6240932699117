package scoring

import "sort"

type StandingEntry struct {
	TeamID    string
	TeamName  string
	Matches   int
	Wins      int
	Losses    int
	Ties      int
	TotalPins int
}

// BuildStandings tallies completed matches by handicap-adjusted pin totals.
// Sorted by wins, then total pins, then name.
func BuildStandings(sheets []MatchSheet) []StandingEntry {
	index := map[string]*StandingEntry{}
	order := []string{}
	entry := func(side TeamSide) *StandingEntry {
		e, ok := index[side.TeamID]
		if !ok {
			e = &StandingEntry{TeamID: side.TeamID, TeamName: side.TeamName}
			index[side.TeamID] = e
			order = append(order, side.TeamID)
		}
		return e
	}

	for _, sheet := range sheets {
		e1 := entry(sheet.Team1)
		e2 := entry(sheet.Team2)
		if !sheet.HasScore {
			continue
		}
		e1.Matches++
		e2.Matches++
		e1.TotalPins += sheet.Team1.TotalHDC
		e2.TotalPins += sheet.Team2.TotalHDC
		switch {
		case sheet.Team1.TotalHDC > sheet.Team2.TotalHDC:
			e1.Wins++
			e2.Losses++
		case sheet.Team2.TotalHDC > sheet.Team1.TotalHDC:
			e2.Wins++
			e1.Losses++
		default:
			e1.Ties++
			e2.Ties++
		}
	}

	standings := make([]StandingEntry, 0, len(order))
	for _, id := range order {
		standings = append(standings, *index[id])
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		if standings[i].TotalPins != standings[j].TotalPins {
			return standings[i].TotalPins > standings[j].TotalPins
		}
		return standings[i].TeamName < standings[j].TeamName
	})
	return standings
}
