// Package scoring holds the pure match-shaping, statistics and forecast
// functions. Everything here works on already-fetched rows; nothing talks
// to the store.
package scoring

import (
	"sort"
	"strconv"

	"tenpin-app/internal/model"
)

// PlayerScore is one player's line on a match sheet.
type PlayerScore struct {
	PlayerID   string
	PlayerName string
	G1         int
	G2         int
	G3         int
	HDC        int
	Scratch    int
	Avg        float64
	TotalHDC   int
	OrderIndex int
}

// TeamSide is one side of a match sheet.
type TeamSide struct {
	TeamID       string
	TeamName     string
	Players      []PlayerScore
	TotalHDC     int
	ScoreEntered bool
}

// MatchSheet is the nested view-model for one timetable entry.
type MatchSheet struct {
	MatchID    string
	BlockID    string
	WeekNumber int
	Lane       string
	Team1      TeamSide
	Team2      TeamSide
	HasScore   bool
	Status     model.MatchStatus
}

func newTeamSide(teamID, teamName string) TeamSide {
	return TeamSide{
		TeamID:       teamID,
		TeamName:     teamName,
		Players:      []PlayerScore{},
		ScoreEntered: isBlindName(teamName),
	}
}

func isBlindName(name string) bool {
	return model.Team{Name: name}.IsBlind()
}

// GroupByBlock folds the flat timetable join into match sheets grouped by
// block key. The result always carries the "1" and "2" keys even when a
// block has no matches; unknown block numbers keep their own key. Matches
// appear in first-seen row order, which the store guarantees is block,
// week, match order.
func GroupByBlock(rows []model.TimetableRow) map[string][]MatchSheet {
	grouped := map[string][]MatchSheet{"1": {}, "2": {}}
	index := map[string]*MatchSheet{}
	order := []string{}

	for _, row := range rows {
		key := row.BlockID + "/" + row.MatchID
		sheet, ok := index[key]
		if !ok {
			sheet = &MatchSheet{
				MatchID:    row.MatchID,
				BlockID:    row.BlockID,
				WeekNumber: row.WeekNumber,
				Lane:       row.Lane,
				Team1:      newTeamSide(row.Team1ID, row.Team1Name),
				Team2:      newTeamSide(row.Team2ID, row.Team2Name),
			}
			index[key] = sheet
			order = append(order, key)
		}
		if row.ScoreID == "" {
			continue
		}
		side := &sheet.Team2
		if row.ScoreTeamID == row.Team1ID {
			side = &sheet.Team1
		}
		side.Players = append(side.Players, playerScoreFromRow(row))
		side.TotalHDC += rowTotalHDC(row)
		side.ScoreEntered = true
	}

	blockNumbers := map[string]int{}
	for _, row := range rows {
		blockNumbers[row.BlockID] = row.BlockNumber
	}
	for _, key := range order {
		sheet := index[key]
		sheet.HasScore = sheet.Team1.ScoreEntered && sheet.Team2.ScoreEntered
		sheet.Status = model.MatchPending
		if sheet.HasScore {
			sheet.Status = model.MatchCompleted
		}
		blockKey := strconv.Itoa(blockNumbers[sheet.BlockID])
		grouped[blockKey] = append(grouped[blockKey], *sheet)
	}
	return grouped
}

func playerScoreFromRow(row model.TimetableRow) PlayerScore {
	ps := PlayerScore{
		PlayerID:   row.PlayerID,
		PlayerName: row.PlayerName,
		G1:         row.G1,
		G2:         row.G2,
		G3:         row.G3,
		HDC:        row.HDC,
		Scratch:    row.Scratch,
		Avg:        row.Avg,
		TotalHDC:   row.TotalHDC,
		OrderIndex: row.OrderIndex,
	}
	if ps.Scratch == 0 {
		ps.Scratch = ps.G1 + ps.G2 + ps.G3
	}
	return ps
}

func rowTotalHDC(row model.TimetableRow) int {
	if row.TotalHDC > 0 {
		return row.TotalHDC
	}
	scratch := row.Scratch
	if scratch == 0 {
		scratch = row.G1 + row.G2 + row.G3
	}
	return scratch + row.HDC
}

// BuildMatchSheet shapes the single-match detail view. Every roster player
// gets a line; only the score row belonging to this match is used, with
// zero values when the player has not bowled yet. A side counts as entered
// when it is the BLIND placeholder or any player has a nonzero game,
// handicap or scratch value.
func BuildMatchSheet(match model.Match, team1 model.Team, players1 []model.Player, team2 model.Team, players2 []model.Player, scores []model.WeeklyScore) MatchSheet {
	byPlayer := map[string]model.WeeklyScore{}
	for _, score := range scores {
		if score.MatchID == match.ID {
			byPlayer[score.PlayerID] = score
		}
	}

	sheet := MatchSheet{
		MatchID:    match.ID,
		BlockID:    match.BlockID,
		WeekNumber: match.WeekNumber,
		Lane:       match.Lane,
		Team1:      buildTeamSide(team1, players1, byPlayer),
		Team2:      buildTeamSide(team2, players2, byPlayer),
	}
	sheet.HasScore = sheet.Team1.ScoreEntered && sheet.Team2.ScoreEntered
	sheet.Status = model.MatchPending
	if sheet.HasScore {
		sheet.Status = model.MatchCompleted
	}
	return sheet
}

func buildTeamSide(team model.Team, players []model.Player, byPlayer map[string]model.WeeklyScore) TeamSide {
	side := newTeamSide(team.ID, team.Name)
	for _, player := range players {
		line := PlayerScore{PlayerID: player.ID, PlayerName: player.Name}
		if score, ok := byPlayer[player.ID]; ok && score.TeamID == team.ID {
			line.G1 = score.G1
			line.G2 = score.G2
			line.G3 = score.G3
			line.HDC = score.HDC
			line.Scratch = score.Scratch
			line.Avg = score.Avg
			line.TotalHDC = score.TotalHDC
			line.OrderIndex = score.OrderIndex
			if line.Scratch == 0 {
				line.Scratch = line.G1 + line.G2 + line.G3
			}
			if line.TotalHDC == 0 {
				line.TotalHDC = line.Scratch + line.HDC
			}
		}
		side.Players = append(side.Players, line)
		if line.G1 > 0 || line.G2 > 0 || line.G3 > 0 || line.HDC > 0 || line.Scratch > 0 {
			side.TotalHDC += line.TotalHDC
			side.ScoreEntered = true
		}
	}
	sortPlayers(side.Players)
	return side
}

// sortPlayers keeps original entry order: order index ascending, rows
// without one (zero) after the ordered ones, player id as the final tie
// break.
func sortPlayers(players []PlayerScore) {
	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i], players[j]
		if a.OrderIndex != b.OrderIndex {
			if a.OrderIndex == 0 {
				return false
			}
			if b.OrderIndex == 0 {
				return true
			}
			return a.OrderIndex < b.OrderIndex
		}
		return a.PlayerID < b.PlayerID
	})
}
