package web

import (
	"net/http"
	"strings"

	"tenpin-app/internal/model"
	"tenpin-app/internal/scoring"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleLeagueNew(w http.ResponseWriter, r *http.Request) {
	currentUser := s.currentUser(r)
	if currentUser.ID == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	view := BaseView{
		Title:           "New league",
		CurrentUser:     currentUser,
		IsAuthenticated: true,
		IsDev:           isDevMode(),
	}
	if err := s.templates.Render(w, "league_new.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleLeagueCreate makes the league and its two season blocks in one go.
func (s *Server) handleLeagueCreate(w http.ResponseWriter, r *http.Request) {
	currentUser := s.currentUser(r)
	if currentUser.ID == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		http.Error(w, "league name is required", http.StatusBadRequest)
		return
	}
	league, err := s.store.CreateLeague(model.League{
		Name:      name,
		OwnerID:   currentUser.ID,
		MemberIDs: []string{currentUser.ID},
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for number := 1; number <= 2; number++ {
		if _, err := s.store.CreateBlock(model.Block{LeagueID: league.ID, Number: number}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	http.Redirect(w, r, "/leagues/"+league.ID+"?notice=league_created", http.StatusSeeOther)
}

func (s *Server) handleLeagueShow(w http.ResponseWriter, r *http.Request) {
	league, currentUser, ok := s.leagueForRequest(w, r)
	if !ok {
		return
	}
	blocks, err := s.store.ListBlocks(league.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	teams, err := s.store.ListTeams(league.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	users, err := s.store.ListUsers()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rows, err := s.store.FullTimetable(league.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sheets := []scoring.MatchSheet{}
	for _, block := range scoring.GroupByBlock(rows) {
		sheets = append(sheets, block...)
	}

	view := LeagueView{
		BaseView: BaseView{
			Title:           league.Name,
			CurrentUser:     currentUser,
			Users:           users,
			IsAuthenticated: currentUser.ID != "",
			IsDev:           isDevMode(),
			FlashSuccess:    flashMessage(r.URL.Query().Get("notice")),
		},
		League:    league,
		Blocks:    blocks,
		Teams:     teams,
		Standings: scoring.BuildStandings(sheets),
		IsAdmin:   canManageLeague(league, currentUser),
		Members:   s.leagueMembers(league),
	}
	if err := s.templates.Render(w, "league.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleLeagueDelete(w http.ResponseWriter, r *http.Request) {
	league, currentUser, ok := s.leagueForRequest(w, r)
	if !ok {
		return
	}
	if !canManageLeague(league, currentUser) {
		http.Error(w, "not allowed", http.StatusForbidden)
		return
	}
	if err := s.store.DeleteLeague(league.ID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLeagueMemberAdd(w http.ResponseWriter, r *http.Request) {
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
	userID := strings.TrimSpace(r.FormValue("user_id"))
	if _, exists := s.store.GetUser(userID); !exists {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	if err := s.store.AddMemberToLeague(league.ID, userID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/leagues/"+league.ID, http.StatusSeeOther)
}

// leagueForRequest loads the league from the route and enforces that the
// current user can see it.
func (s *Server) leagueForRequest(w http.ResponseWriter, r *http.Request) (model.League, model.User, bool) {
	leagueID := chi.URLParam(r, "leagueID")
	league, ok := s.store.GetLeague(leagueID)
	if !ok {
		http.NotFound(w, r)
		return model.League{}, model.User{}, false
	}
	currentUser := s.currentUser(r)
	if currentUser.ID == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return model.League{}, model.User{}, false
	}
	if !isSuperAdmin(currentUser) && league.OwnerID != currentUser.ID && !league.HasMember(currentUser.ID) {
		http.Error(w, "not allowed", http.StatusForbidden)
		return model.League{}, model.User{}, false
	}
	return league, currentUser, true
}

func canManageLeague(league model.League, user model.User) bool {
	if isSuperAdmin(user) {
		return true
	}
	return league.OwnerID == user.ID
}

func (s *Server) leagueMembers(league model.League) []model.User {
	members := make([]model.User, 0, len(league.MemberIDs))
	for _, id := range league.MemberIDs {
		if user, ok := s.store.GetUser(id); ok {
			members = append(members, user)
		}
	}
	return members
}
