package web

import "strings"

func flashMessage(notice string) string {
	switch strings.TrimSpace(notice) {
	case "league_created":
		return "League created."
	case "team_added":
		return "Team added."
	case "player_added":
		return "Player added to the roster."
	case "match_added":
		return "Match added to the timetable."
	case "scores_saved":
		return "Scores saved."
	}
	return ""
}
