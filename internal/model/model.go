package model

import (
	"math"
	"strings"
	"time"
)

type UserRole string

type PlayerStatus string

type MatchStatus string

const (
	RoleAdmin      UserRole = "admin"
	RoleUser       UserRole = "user"
	RoleSuperAdmin UserRole = "super_admin"

	PlayerActive   PlayerStatus = "active"
	PlayerInactive PlayerStatus = "inactive"

	MatchPending   MatchStatus = "pending"
	MatchCompleted MatchStatus = "completed"
)

// BlindTeamName marks a placeholder opponent. A team carrying this name
// (case-insensitive) has no real players and counts as pre-scored.
const BlindTeamName = "BLIND"

type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         UserRole
}

func (u User) FullName() string {
	first := strings.TrimSpace(u.FirstName)
	last := strings.TrimSpace(u.LastName)
	if first == "" {
		return last
	}
	if last == "" {
		return first
	}
	return first + " " + last
}

type League struct {
	ID        string
	Name      string
	OwnerID   string
	MemberIDs []string
	CreatedAt time.Time
}

func (l League) HasMember(userID string) bool {
	for _, id := range l.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Block is one of the two halves of a league season.
type Block struct {
	ID       string
	LeagueID string
	Number   int
}

type Team struct {
	ID        string
	LeagueID  string
	Name      string
	CreatedAt time.Time
}

func (t Team) IsBlind() bool {
	return strings.EqualFold(strings.TrimSpace(t.Name), BlindTeamName)
}

type Player struct {
	ID        string
	LeagueID  string
	TeamID    string
	Name      string
	Status    PlayerStatus
	CreatedAt time.Time
}

// Match is one timetable entry: two teams on a lane in a given week of a block.
type Match struct {
	ID         string
	LeagueID   string
	BlockID    string
	WeekNumber int
	Lane       string
	Team1ID    string
	Team2ID    string
	CreatedAt  time.Time
}

// WeeklyScore holds one player's three games for one match. Scratch, TotalHDC
// and Avg are derived from the raw games and recomputed on write; stored
// values are only a fallback when the raw components are absent.
type WeeklyScore struct {
	ID         string
	MatchID    string
	TeamID     string
	PlayerID   string
	G1         int
	G2         int
	G3         int
	HDC        int
	Scratch    int
	TotalHDC   int
	Avg        float64
	OrderIndex int
	CreatedAt  time.Time
}

func (ws WeeklyScore) ScratchTotal() int {
	return ws.G1 + ws.G2 + ws.G3
}

func (ws WeeklyScore) TotalWithHDC() int {
	return ws.ScratchTotal() + ws.HDC
}

func (ws WeeklyScore) Average() float64 {
	return math.Round(float64(ws.ScratchTotal())/3*100) / 100
}

// Recompute fills the derived columns from the raw games and handicap.
func (ws *WeeklyScore) Recompute() {
	ws.Scratch = ws.ScratchTotal()
	ws.TotalHDC = ws.TotalWithHDC()
	ws.Avg = ws.Average()
}

// TimetableRow is one flat row of the full-timetable join: one row per
// player score, or one row per scoreless match. Score columns are only
// meaningful when ScoreID is set.
type TimetableRow struct {
	BlockID     string
	BlockNumber int
	MatchID     string
	WeekNumber  int
	Lane        string
	Team1ID     string
	Team1Name   string
	Team2ID     string
	Team2Name   string

	ScoreID     string
	ScoreTeamID string
	PlayerID    string
	PlayerName  string
	G1          int
	G2          int
	G3          int
	Scratch     int
	HDC         int
	Avg         float64
	TotalHDC    int
	OrderIndex  int
}
