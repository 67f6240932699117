package store

import (
	"errors"

	"tenpin-app/internal/model"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicate     = errors.New("already exists")
	ErrMatchComplete = errors.New("match already complete")
)

type Store interface {
	ListUsers() ([]model.User, error)
	GetUser(id string) (model.User, bool)
	GetUserByEmail(email string) (model.User, bool)
	CreateUser(user model.User) (model.User, error)

	ListLeagues() ([]model.League, error)
	GetLeague(id string) (model.League, bool)
	CreateLeague(league model.League) (model.League, error)
	UpdateLeague(league model.League) error
	DeleteLeague(id string) error
	AddMemberToLeague(leagueID, userID string) error

	ListBlocks(leagueID string) ([]model.Block, error)
	GetBlock(id string) (model.Block, bool)
	CreateBlock(block model.Block) (model.Block, error)

	ListTeams(leagueID string) ([]model.Team, error)
	GetTeam(id string) (model.Team, bool)
	CreateTeam(team model.Team) (model.Team, error)
	DeleteTeam(id string) error

	ListTeamPlayers(teamID string) ([]model.Player, error)
	ListLeaguePlayers(leagueID string) ([]model.Player, error)
	GetPlayer(id string) (model.Player, bool)
	CreatePlayer(player model.Player) (model.Player, error)
	UpdatePlayer(player model.Player) error
	DeletePlayer(id string) error

	ListMatches(leagueID string) ([]model.Match, error)
	GetMatch(id string) (model.Match, bool)
	CreateMatch(match model.Match) (model.Match, error)
	DeleteMatch(id string) error

	ListMatchScores(matchID string) ([]model.WeeklyScore, error)
	ListPlayerScores(playerID string) ([]model.WeeklyScore, error)
	CreateWeeklyScore(score model.WeeklyScore) (model.WeeklyScore, error)

	// FullTimetable returns the denormalized join of matches, teams, players
	// and scores for a league: one row per score, one row per scoreless
	// match. Rows come back ordered by block number, week number, match id
	// and score order index ascending; the shaping layer depends on that.
	FullTimetable(leagueID string) ([]model.TimetableRow, error)
}
