package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"tenpin-app/internal/model"
	"tenpin-app/internal/scoring"
	"tenpin-app/internal/store"
)

func (s *Server) handleScoreSheet(w http.ResponseWriter, r *http.Request) {
	match, league, currentUser, ok := s.matchForRequest(w, r)
	if !ok {
		return
	}
	s.renderScoreSheet(w, r, match, league, currentUser, "")
}

func (s *Server) renderScoreSheet(w http.ResponseWriter, r *http.Request, match model.Match, league model.League, currentUser model.User, errMessage string) {
	sheet, err := s.buildSheet(match)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	view := ScoreSheetView{
		BaseView: BaseView{
			Title:           sheet.Team1.TeamName + " vs " + sheet.Team2.TeamName,
			CurrentUser:     currentUser,
			IsAuthenticated: currentUser.ID != "",
			IsDev:           isDevMode(),
			FlashSuccess:    flashMessage(r.URL.Query().Get("notice")),
		},
		League:  league,
		Sheet:   sheet,
		Totals1: scoring.ColumnTotals(sheet.Team1.Players),
		Totals2: scoring.ColumnTotals(sheet.Team2.Players),
		IsAdmin: canManageLeague(league, currentUser),
		Error:   errMessage,
	}
	if err := s.templates.Render(w, "scores.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) buildSheet(match model.Match) (scoring.MatchSheet, error) {
	team1, ok := s.store.GetTeam(match.Team1ID)
	if !ok {
		return scoring.MatchSheet{}, fmt.Errorf("team %s: %w", match.Team1ID, store.ErrNotFound)
	}
	team2, ok := s.store.GetTeam(match.Team2ID)
	if !ok {
		return scoring.MatchSheet{}, fmt.Errorf("team %s: %w", match.Team2ID, store.ErrNotFound)
	}
	players1, err := s.store.ListTeamPlayers(team1.ID)
	if err != nil {
		return scoring.MatchSheet{}, err
	}
	players2, err := s.store.ListTeamPlayers(team2.ID)
	if err != nil {
		return scoring.MatchSheet{}, err
	}
	scores, err := s.store.ListMatchScores(match.ID)
	if err != nil {
		return scoring.MatchSheet{}, err
	}
	return scoring.BuildMatchSheet(match, team1, players1, team2, players2, scores), nil
}

// handleScoreSave records one side's lines in a single shot. A completed
// match never takes another entry.
func (s *Server) handleScoreSave(w http.ResponseWriter, r *http.Request) {
	match, league, currentUser, ok := s.matchForRequest(w, r)
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

	sheet, err := s.buildSheet(match)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if sheet.HasScore {
		s.renderScoreSheet(w, r, match, league, currentUser, "This match is already complete: "+store.ErrMatchComplete.Error())
		return
	}

	teamID := strings.TrimSpace(r.FormValue("team_id"))
	if teamID != match.Team1ID && teamID != match.Team2ID {
		http.Error(w, "team is not part of this match", http.StatusBadRequest)
		return
	}
	team, exists := s.store.GetTeam(teamID)
	if !exists {
		http.NotFound(w, r)
		return
	}
	if team.IsBlind() {
		s.renderScoreSheet(w, r, match, league, currentUser, "The BLIND side is pre-scored")
		return
	}
	side := sheet.Team1
	if teamID == match.Team2ID {
		side = sheet.Team2
	}
	if side.ScoreEntered {
		s.renderScoreSheet(w, r, match, league, currentUser, "This side already has scores")
		return
	}

	players, err := s.store.ListTeamPlayers(teamID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	lines := parseScoreLines(r, players)
	if len(lines) == 0 {
		s.renderScoreSheet(w, r, match, league, currentUser, "Enter at least one player's games")
		return
	}
	for _, line := range lines {
		line.MatchID = match.ID
		line.TeamID = teamID
		if _, err := s.store.CreateWeeklyScore(line); err != nil {
			s.renderScoreSheet(w, r, match, league, currentUser, "Cannot save the scores: "+err.Error())
			return
		}
	}
	http.Redirect(w, r, "/matches/"+match.ID+"/scores?notice=scores_saved", http.StatusSeeOther)
}

// parseScoreLines reads g1/g2/g3/hdc inputs per roster player. Lines with
// no pins at all are treated as absent players and skipped.
func parseScoreLines(r *http.Request, players []model.Player) []model.WeeklyScore {
	lines := []model.WeeklyScore{}
	for _, player := range players {
		g1 := parseGame(r.FormValue("g1_" + player.ID))
		g2 := parseGame(r.FormValue("g2_" + player.ID))
		g3 := parseGame(r.FormValue("g3_" + player.ID))
		hdc := parseGame(r.FormValue("hdc_" + player.ID))
		if g1 == 0 && g2 == 0 && g3 == 0 && hdc == 0 {
			continue
		}
		lines = append(lines, model.WeeklyScore{
			PlayerID: player.ID,
			G1:       g1,
			G2:       g2,
			G3:       g3,
			HDC:      hdc,
		})
	}
	return lines
}

// parseGame clamps to the 0..300 range a single bowling game allows.
func parseGame(value string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed < 0 {
		return 0
	}
	if parsed > 300 {
		return 300
	}
	return parsed
}
