package web

import (
	"net/http"
	"strings"

	"tenpin-app/internal/model"
	"tenpin-app/internal/scoring"
)

// handleForecast renders the win-forecast page. Both sides pick a team and
// a subset of its roster; without a valid selection on each side the page
// prompts instead of guessing.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	league, currentUser, ok := s.leagueForRequest(w, r)
	if !ok {
		return
	}
	teams, err := s.store.ListTeams(league.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	// The BLIND placeholder has no roster, so it never forecasts.
	selectable := []model.Team{}
	for _, team := range teams {
		if !team.IsBlind() {
			selectable = append(selectable, team)
		}
	}

	query := r.URL.Query()
	sideA, teamA, err := s.forecastPicker(selectable, query.Get("team_a"), query["player_a"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sideB, teamB, err := s.forecastPicker(selectable, query.Get("team_b"), query["player_b"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	statsA, err := s.selectedStats(sideA)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	statsB, err := s.selectedStats(sideB)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	result := scoring.Forecast(statsA, statsB)

	view := ForecastView{
		BaseView: BaseView{
			Title:           league.Name + " – Forecast",
			CurrentUser:     currentUser,
			IsAuthenticated: currentUser.ID != "",
			IsDev:           isDevMode(),
		},
		League: league,
		SideA:  sideA,
		SideB:  sideB,
		Result: result,
		TeamA:  teamA,
		TeamB:  teamB,
		Prompt: result == nil,
	}
	if err := s.templates.Render(w, "forecast.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) forecastPicker(teams []model.Team, teamID string, playerIDs []string) (ForecastPicker, model.Team, error) {
	picker := ForecastPicker{
		Teams:      teams,
		TeamID:     strings.TrimSpace(teamID),
		SelectedID: map[string]bool{},
	}
	var team model.Team
	if picker.TeamID == "" {
		return picker, team, nil
	}
	found, ok := s.store.GetTeam(picker.TeamID)
	if !ok {
		picker.TeamID = ""
		return picker, team, nil
	}
	team = found
	players, err := s.store.ListTeamPlayers(team.ID)
	if err != nil {
		return picker, team, err
	}
	picker.Players = players

	selected := map[string]bool{}
	for _, id := range playerIDs {
		selected[strings.TrimSpace(id)] = true
	}
	if len(selected) == 0 {
		// No explicit picks means the whole active roster.
		for _, player := range players {
			if player.Status == model.PlayerActive {
				selected[player.ID] = true
			}
		}
	}
	for _, player := range players {
		if selected[player.ID] {
			picker.SelectedID[player.ID] = true
		}
	}
	return picker, team, nil
}

func (s *Server) selectedStats(picker ForecastPicker) ([]*scoring.PlayerStats, error) {
	stats := []*scoring.PlayerStats{}
	for _, player := range picker.Players {
		if !picker.SelectedID[player.ID] {
			continue
		}
		scores, err := s.store.ListPlayerScores(player.ID)
		if err != nil {
			return nil, err
		}
		if aggregate := playerStats(player.ID, player.Name, scores); aggregate != nil {
			stats = append(stats, aggregate)
		}
	}
	return stats, nil
}
