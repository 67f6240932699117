package web

import (
	"tenpin-app/internal/model"
	"tenpin-app/internal/scoring"
)

type BaseView struct {
	Title           string
	CurrentUser     model.User
	Users           []model.User
	IsAuthenticated bool
	IsDev           bool
	FlashSuccess    string
}

type AuthView struct {
	BaseView
	Error string
}

type HomeView struct {
	BaseView
	Leagues []model.League
}

type LeagueView struct {
	BaseView
	League    model.League
	Blocks    []model.Block
	Teams     []model.Team
	Standings []scoring.StandingEntry
	IsAdmin   bool
	Members   []model.User
}

type TeamRosterView struct {
	Team    model.Team
	Players []model.Player
}

type PlayerSearchView struct {
	LeagueID   string
	Query      string
	Results    []PlayerSearchResult
	EmptyQuery bool
}

type PlayerSearchResult struct {
	Player   model.Player
	TeamName string
}

type TeamsView struct {
	BaseView
	League  model.League
	Teams   []TeamRosterView
	Search  PlayerSearchView
	IsAdmin bool
	Error   string
}

type TimetableBlockView struct {
	Key     string
	Matches []scoring.MatchSheet
}

type TimetableView struct {
	BaseView
	League     model.League
	Blocks     []TimetableBlockView
	BlockList  []model.Block
	Teams      []model.Team
	WeekRange  []int
	IsAdmin    bool
	Error      string
}

type ScoreSheetView struct {
	BaseView
	League  model.League
	Sheet   scoring.MatchSheet
	Totals1 scoring.Totals
	Totals2 scoring.Totals
	IsAdmin bool
	Error   string
}

type PlayerStatsRow struct {
	Player   model.Player
	TeamName string
	Stats    *scoring.PlayerStats
}

type StatisticsView struct {
	BaseView
	League model.League
	Rows   []PlayerStatsRow
}

type ForecastPicker struct {
	Teams      []model.Team
	TeamID     string
	Players    []model.Player
	SelectedID map[string]bool
}

type ForecastView struct {
	BaseView
	League model.League
	SideA  ForecastPicker
	SideB  ForecastPicker
	Result *scoring.ForecastResult
	TeamA  model.Team
	TeamB  model.Team
	Prompt bool
}
