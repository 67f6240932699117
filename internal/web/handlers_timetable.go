package web

import (
	"net/http"
	"strconv"
	"strings"

	"tenpin-app/internal/model"
	"tenpin-app/internal/scoring"

	"github.com/go-chi/chi/v5"
)

const weeksPerBlock = 15

func (s *Server) handleTimetable(w http.ResponseWriter, r *http.Request) {
	league, currentUser, ok := s.leagueForRequest(w, r)
	if !ok {
		return
	}
	s.renderTimetable(w, r, league, currentUser, "")
}

func (s *Server) renderTimetable(w http.ResponseWriter, r *http.Request, league model.League, currentUser model.User, errMessage string) {
	rows, err := s.store.FullTimetable(league.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	grouped := scoring.GroupByBlock(rows)
	blocks := []TimetableBlockView{
		{Key: "1", Matches: grouped["1"]},
		{Key: "2", Matches: grouped["2"]},
	}
	for key, matches := range grouped {
		if key != "1" && key != "2" {
			blocks = append(blocks, TimetableBlockView{Key: key, Matches: matches})
		}
	}

	blockList, err := s.store.ListBlocks(league.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	teams, err := s.store.ListTeams(league.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	weeks := make([]int, 0, weeksPerBlock)
	for week := 1; week <= weeksPerBlock; week++ {
		weeks = append(weeks, week)
	}

	view := TimetableView{
		BaseView: BaseView{
			Title:           league.Name + " – Timetable",
			CurrentUser:     currentUser,
			IsAuthenticated: currentUser.ID != "",
			IsDev:           isDevMode(),
			FlashSuccess:    flashMessage(r.URL.Query().Get("notice")),
		},
		League:    league,
		Blocks:    blocks,
		BlockList: blockList,
		Teams:     teams,
		WeekRange: weeks,
		IsAdmin:   canManageLeague(league, currentUser),
		Error:     errMessage,
	}
	if err := s.templates.Render(w, "timetable.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleMatchCreate(w http.ResponseWriter, r *http.Request) {
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
	blockID := strings.TrimSpace(r.FormValue("block_id"))
	lane := strings.TrimSpace(r.FormValue("lane"))
	team1 := strings.TrimSpace(r.FormValue("team1_id"))
	team2 := strings.TrimSpace(r.FormValue("team2_id"))
	week, err := strconv.Atoi(strings.TrimSpace(r.FormValue("week_number")))
	if err != nil || week < 1 {
		s.renderTimetable(w, r, league, currentUser, "Pick a valid week")
		return
	}
	block, exists := s.store.GetBlock(blockID)
	if !exists || block.LeagueID != league.ID {
		s.renderTimetable(w, r, league, currentUser, "Pick a block of this league")
		return
	}
	if team1 == "" || team2 == "" || team1 == team2 {
		s.renderTimetable(w, r, league, currentUser, "Pick two different teams")
		return
	}
	for _, id := range []string{team1, team2} {
		if team, exists := s.store.GetTeam(id); !exists || team.LeagueID != league.ID {
			s.renderTimetable(w, r, league, currentUser, "Pick teams of this league")
			return
		}
	}
	if lane != "" {
		free, err := s.laneFree(league.ID, block.ID, week, lane)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !free {
			s.renderTimetable(w, r, league, currentUser, "Lane "+lane+" is already taken in that week")
			return
		}
	}

	_, err = s.store.CreateMatch(model.Match{
		LeagueID:   league.ID,
		BlockID:    block.ID,
		WeekNumber: week,
		Lane:       lane,
		Team1ID:    team1,
		Team2ID:    team2,
	})
	if err != nil {
		s.renderTimetable(w, r, league, currentUser, "Cannot add the match: "+err.Error())
		return
	}
	http.Redirect(w, r, "/leagues/"+league.ID+"/timetable?notice=match_added", http.StatusSeeOther)
}

func (s *Server) laneFree(leagueID, blockID string, week int, lane string) (bool, error) {
	matches, err := s.store.ListMatches(leagueID)
	if err != nil {
		return false, err
	}
	for _, match := range matches {
		if match.BlockID == blockID && match.WeekNumber == week && match.Lane == lane {
			return false, nil
		}
	}
	return true, nil
}

func (s *Server) handleMatchDelete(w http.ResponseWriter, r *http.Request) {
	match, league, currentUser, ok := s.matchForRequest(w, r)
	if !ok {
		return
	}
	if !canManageLeague(league, currentUser) {
		http.Error(w, "not allowed", http.StatusForbidden)
		return
	}
	if err := s.store.DeleteMatch(match.ID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/leagues/"+league.ID+"/timetable", http.StatusSeeOther)
}

func (s *Server) matchForRequest(w http.ResponseWriter, r *http.Request) (model.Match, model.League, model.User, bool) {
	matchID := chi.URLParam(r, "matchID")
	match, ok := s.store.GetMatch(matchID)
	if !ok {
		http.NotFound(w, r)
		return model.Match{}, model.League{}, model.User{}, false
	}
	league, exists := s.store.GetLeague(match.LeagueID)
	if !exists {
		http.NotFound(w, r)
		return model.Match{}, model.League{}, model.User{}, false
	}
	currentUser := s.currentUser(r)
	if currentUser.ID == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return model.Match{}, model.League{}, model.User{}, false
	}
	if !isSuperAdmin(currentUser) && league.OwnerID != currentUser.ID && !league.HasMember(currentUser.ID) {
		http.Error(w, "not allowed", http.StatusForbidden)
		return model.Match{}, model.League{}, model.User{}, false
	}
	return match, league, currentUser, true
}
