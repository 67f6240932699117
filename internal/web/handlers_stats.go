package web

import (
	"net/http"
	"sort"

	"tenpin-app/internal/model"
	"tenpin-app/internal/scoring"
)

// playerStats tags the pure aggregate with the player's identity, keeping
// the nil no-games contract intact.
func playerStats(id, name string, scores []model.WeeklyScore) *scoring.PlayerStats {
	stats := scoring.PlayerStatistics(scores)
	if stats == nil {
		return nil
	}
	stats.PlayerID = id
	stats.PlayerName = name
	return stats
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	league, currentUser, ok := s.leagueForRequest(w, r)
	if !ok {
		return
	}
	players, err := s.store.ListLeaguePlayers(league.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rows := []PlayerStatsRow{}
	for _, player := range players {
		scores, err := s.store.ListPlayerScores(player.ID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		stats := playerStats(player.ID, player.Name, scores)
		teamName := ""
		if team, exists := s.store.GetTeam(player.TeamID); exists {
			teamName = team.Name
		}
		rows = append(rows, PlayerStatsRow{Player: player, TeamName: teamName, Stats: stats})
	}
	// Players with games first, best average on top, then the rest by name.
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if (a.Stats != nil) != (b.Stats != nil) {
			return a.Stats != nil
		}
		if a.Stats != nil && b.Stats != nil && a.Stats.Average != b.Stats.Average {
			return a.Stats.Average > b.Stats.Average
		}
		return a.Player.Name < b.Player.Name
	})

	view := StatisticsView{
		BaseView: BaseView{
			Title:           league.Name + " – Statistics",
			CurrentUser:     currentUser,
			IsAuthenticated: currentUser.ID != "",
			IsDev:           isDevMode(),
		},
		League: league,
		Rows:   rows,
	}
	if err := s.templates.Render(w, "statistics.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
