package web

import (
	"net/http"
	"sort"
	"strings"

	"tenpin-app/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	league, currentUser, ok := s.leagueForRequest(w, r)
	if !ok {
		return
	}
	s.renderTeams(w, r, league, currentUser, "")
}

func (s *Server) renderTeams(w http.ResponseWriter, r *http.Request, league model.League, currentUser model.User, errMessage string) {
	teams, err := s.store.ListTeams(league.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rosters := make([]TeamRosterView, 0, len(teams))
	for _, team := range teams {
		players, err := s.store.ListTeamPlayers(team.ID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		rosters = append(rosters, TeamRosterView{Team: team, Players: players})
	}

	view := TeamsView{
		BaseView: BaseView{
			Title:           league.Name + " – Teams",
			CurrentUser:     currentUser,
			IsAuthenticated: currentUser.ID != "",
			IsDev:           isDevMode(),
			FlashSuccess:    flashMessage(r.URL.Query().Get("notice")),
		},
		League:  league,
		Teams:   rosters,
		Search:  PlayerSearchView{LeagueID: league.ID, EmptyQuery: true},
		IsAdmin: canManageLeague(league, currentUser),
		Error:   errMessage,
	}
	if err := s.templates.Render(w, "teams.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleTeamCreate(w http.ResponseWriter, r *http.Request) {
	league, currentUser, ok := s.leagueForRequest(w, r)
	if !ok {
		return
	}
	if !canManageLeague(league, currentUser) {
		http.Error(w, "not allowed", http.StatusForbidden)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		s.renderTeams(w, r, league, currentUser, "Team name is required")
		return
	}
	if _, err := s.store.CreateTeam(model.Team{LeagueID: league.ID, Name: name}); err != nil {
		s.renderTeams(w, r, league, currentUser, "Cannot add the team: "+err.Error())
		return
	}
	http.Redirect(w, r, "/leagues/"+league.ID+"/teams?notice=team_added", http.StatusSeeOther)
}

func (s *Server) handleTeamDelete(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	team, ok := s.store.GetTeam(teamID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	league, exists := s.store.GetLeague(team.LeagueID)
	if !exists {
		http.NotFound(w, r)
		return
	}
	currentUser := s.currentUser(r)
	if !canManageLeague(league, currentUser) {
		http.Error(w, "not allowed", http.StatusForbidden)
		return
	}
	if err := s.store.DeleteTeam(team.ID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/leagues/"+league.ID+"/teams", http.StatusSeeOther)
}

func (s *Server) handlePlayerCreate(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	team, ok := s.store.GetTeam(teamID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	league, exists := s.store.GetLeague(team.LeagueID)
	if !exists {
		http.NotFound(w, r)
		return
	}
	currentUser := s.currentUser(r)
	if !canManageLeague(league, currentUser) {
		http.Error(w, "not allowed", http.StatusForbidden)
		return
	}
	if team.IsBlind() {
		http.Error(w, "the BLIND team has no roster", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		s.renderTeams(w, r, league, currentUser, "Player name is required")
		return
	}
	_, err := s.store.CreatePlayer(model.Player{
		LeagueID: league.ID,
		TeamID:   team.ID,
		Name:     name,
		Status:   model.PlayerActive,
	})
	if err != nil {
		s.renderTeams(w, r, league, currentUser, "Cannot add the player: "+err.Error())
		return
	}
	http.Redirect(w, r, "/leagues/"+league.ID+"/teams?notice=player_added", http.StatusSeeOther)
}

// handlePlayerSearch serves the HTMX live-search partial over the league
// roster, fuzzy-matched on player name.
func (s *Server) handlePlayerSearch(w http.ResponseWriter, r *http.Request) {
	league, _, ok := s.leagueForRequest(w, r)
	if !ok {
		return
	}
	if !isHTMX(r) {
		http.Redirect(w, r, "/leagues/"+league.ID+"/teams", http.StatusSeeOther)
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	view := PlayerSearchView{
		LeagueID:   league.ID,
		Query:      query,
		EmptyQuery: query == "",
	}
	if query != "" {
		players, err := s.store.ListLeaguePlayers(league.ID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		view.Results = s.searchPlayers(players, query)
	}
	if err := s.templates.RenderPartial(w, "player_search_results.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) searchPlayers(players []model.Player, query string) []PlayerSearchResult {
	type ranked struct {
		player model.Player
		rank   int
	}
	matches := []ranked{}
	for _, player := range players {
		if !fuzzy.MatchNormalizedFold(query, player.Name) {
			continue
		}
		rank := fuzzy.RankMatchNormalizedFold(query, player.Name)
		matches = append(matches, ranked{player: player, rank: rank})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].rank < matches[j].rank })

	results := make([]PlayerSearchResult, 0, len(matches))
	for _, m := range matches {
		teamName := ""
		if team, ok := s.store.GetTeam(m.player.TeamID); ok {
			teamName = team.Name
		}
		results = append(results, PlayerSearchResult{Player: m.player, TeamName: teamName})
	}
	return results
}

func (s *Server) handlePlayerStatusToggle(w http.ResponseWriter, r *http.Request) {
	player, league, currentUser, ok := s.playerForRequest(w, r)
	if !ok {
		return
	}
	if !canManageLeague(league, currentUser) {
		http.Error(w, "not allowed", http.StatusForbidden)
		return
	}
	if player.Status == model.PlayerActive {
		player.Status = model.PlayerInactive
	} else {
		player.Status = model.PlayerActive
	}
	if err := s.store.UpdatePlayer(player); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/leagues/"+league.ID+"/teams", http.StatusSeeOther)
}

func (s *Server) handlePlayerDelete(w http.ResponseWriter, r *http.Request) {
	player, league, currentUser, ok := s.playerForRequest(w, r)
	if !ok {
		return
	}
	if !canManageLeague(league, currentUser) {
		http.Error(w, "not allowed", http.StatusForbidden)
		return
	}
	if err := s.store.DeletePlayer(player.ID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/leagues/"+league.ID+"/teams", http.StatusSeeOther)
}

func (s *Server) playerForRequest(w http.ResponseWriter, r *http.Request) (model.Player, model.League, model.User, bool) {
	playerID := chi.URLParam(r, "playerID")
	player, ok := s.store.GetPlayer(playerID)
	if !ok {
		http.NotFound(w, r)
		return model.Player{}, model.League{}, model.User{}, false
	}
	league, exists := s.store.GetLeague(player.LeagueID)
	if !exists {
		http.NotFound(w, r)
		return model.Player{}, model.League{}, model.User{}, false
	}
	return player, league, s.currentUser(r), true
}
