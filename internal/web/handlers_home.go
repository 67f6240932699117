package web

import (
	"net/http"

	"tenpin-app/internal/model"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	currentUser := s.currentUser(r)
	users, err := s.store.ListUsers()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	leagues, err := s.leaguesForUser(currentUser)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	view := HomeView{
		BaseView: BaseView{
			Title:           "Leagues",
			CurrentUser:     currentUser,
			Users:           users,
			IsAuthenticated: currentUser.ID != "",
			IsDev:           isDevMode(),
			FlashSuccess:    flashMessage(r.URL.Query().Get("notice")),
		},
		Leagues: leagues,
	}
	if err := s.templates.Render(w, "home.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// leaguesForUser filters to leagues the user owns or belongs to. Super
// admins see everything.
func (s *Server) leaguesForUser(user model.User) ([]model.League, error) {
	leagues, err := s.store.ListLeagues()
	if err != nil {
		return nil, err
	}
	if isSuperAdmin(user) {
		return leagues, nil
	}
	if user.ID == "" {
		return []model.League{}, nil
	}
	filtered := []model.League{}
	for _, league := range leagues {
		if league.OwnerID == user.ID || league.HasMember(user.ID) {
			filtered = append(filtered, league)
		}
	}
	return filtered, nil
}
