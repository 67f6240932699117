package web

import (
	"net/http"

	"tenpin-app/internal/store"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	store     store.Store
	templates *Templates
}

func NewServer(store store.Store, templates *Templates) *Server {
	return &Server{store: store, templates: templates}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/", s.handleHome)
	r.Post("/dev/switch-user", s.handleDevSwitchUser)
	r.Get("/login", s.handleLogin)
	r.Post("/login", s.handleLoginPost)
	r.Get("/register", s.handleRegister)
	r.Post("/register", s.handleRegisterPost)
	r.Post("/logout", s.handleLogout)

	r.Get("/leagues/new", s.handleLeagueNew)
	r.Post("/leagues", s.handleLeagueCreate)
	r.Get("/leagues/{leagueID}", s.handleLeagueShow)
	r.Post("/leagues/{leagueID}/delete", s.handleLeagueDelete)
	r.Post("/leagues/{leagueID}/members", s.handleLeagueMemberAdd)

	r.Get("/leagues/{leagueID}/teams", s.handleTeams)
	r.Post("/leagues/{leagueID}/teams", s.handleTeamCreate)
	r.Post("/teams/{teamID}/delete", s.handleTeamDelete)
	r.Post("/teams/{teamID}/players", s.handlePlayerCreate)
	r.Get("/leagues/{leagueID}/players/search", s.handlePlayerSearch)
	r.Post("/players/{playerID}/status", s.handlePlayerStatusToggle)
	r.Post("/players/{playerID}/delete", s.handlePlayerDelete)

	r.Get("/leagues/{leagueID}/timetable", s.handleTimetable)
	r.Post("/leagues/{leagueID}/matches", s.handleMatchCreate)
	r.Post("/matches/{matchID}/delete", s.handleMatchDelete)

	r.Get("/matches/{matchID}/scores", s.handleScoreSheet)
	r.Post("/matches/{matchID}/scores", s.handleScoreSave)

	r.Get("/leagues/{leagueID}/statistics", s.handleStatistics)
	r.Get("/leagues/{leagueID}/forecast", s.handleForecast)

	return r
}
