package store

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"tenpin-app/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]model.User
	leagues map[string]model.League
	blocks  map[string]model.Block
	teams   map[string]model.Team
	players map[string]model.Player
	matches map[string]model.Match
	scores  map[string]model.WeeklyScore
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		users:   make(map[string]model.User),
		leagues: make(map[string]model.League),
		blocks:  make(map[string]model.Block),
		teams:   make(map[string]model.Team),
		players: make(map[string]model.Player),
		matches: make(map[string]model.Match),
		scores:  make(map[string]model.WeeklyScore),
	}
	if strings.ToLower(strings.TrimSpace(os.Getenv("APP"))) != "prod" {
		seedData(s)
	}
	return s
}

func (s *MemoryStore) ListUsers() ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].FullName() < users[j].FullName() })
	return users, nil
}

func (s *MemoryStore) GetUser(id string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	return u, ok
}

func (s *MemoryStore) GetUserByEmail(email string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return model.User{}, false
}

func (s *MemoryStore) CreateUser(user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if strings.TrimSpace(user.Email) == "" {
		return model.User{}, fmt.Errorf("email is required")
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return model.User{}, fmt.Errorf("email %w", ErrDuplicate)
		}
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *MemoryStore) ListLeagues() ([]model.League, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	leagues := make([]model.League, 0, len(s.leagues))
	for _, l := range s.leagues {
		leagues = append(leagues, l)
	}
	sort.Slice(leagues, func(i, j int) bool { return leagues[i].Name < leagues[j].Name })
	return leagues, nil
}

func (s *MemoryStore) GetLeague(id string) (model.League, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.leagues[id]
	return l, ok
}

func (s *MemoryStore) CreateLeague(league model.League) (model.League, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if league.ID == "" {
		league.ID = uuid.NewString()
	}
	if strings.TrimSpace(league.Name) == "" {
		return model.League{}, fmt.Errorf("league name is required")
	}
	if league.CreatedAt.IsZero() {
		league.CreatedAt = time.Now()
	}
	s.leagues[league.ID] = league
	return league, nil
}

func (s *MemoryStore) UpdateLeague(league model.League) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.leagues[league.ID]; !ok {
		return fmt.Errorf("league %w", ErrNotFound)
	}
	s.leagues[league.ID] = league
	return nil
}

func (s *MemoryStore) DeleteLeague(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.leagues[id]; !ok {
		return fmt.Errorf("league %w", ErrNotFound)
	}
	for matchID, m := range s.matches {
		if m.LeagueID == id {
			s.deleteMatchScoresLocked(matchID)
			delete(s.matches, matchID)
		}
	}
	for playerID, p := range s.players {
		if p.LeagueID == id {
			delete(s.players, playerID)
		}
	}
	for teamID, t := range s.teams {
		if t.LeagueID == id {
			delete(s.teams, teamID)
		}
	}
	for blockID, b := range s.blocks {
		if b.LeagueID == id {
			delete(s.blocks, blockID)
		}
	}
	delete(s.leagues, id)
	return nil
}

func (s *MemoryStore) AddMemberToLeague(leagueID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	league, ok := s.leagues[leagueID]
	if !ok {
		return fmt.Errorf("league %w", ErrNotFound)
	}
	if league.HasMember(userID) {
		return nil
	}
	league.MemberIDs = append(league.MemberIDs, userID)
	s.leagues[leagueID] = league
	return nil
}

func (s *MemoryStore) ListBlocks(leagueID string) ([]model.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocks := []model.Block{}
	for _, b := range s.blocks {
		if b.LeagueID == leagueID {
			blocks = append(blocks, b)
		}
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Number < blocks[j].Number })
	return blocks, nil
}

func (s *MemoryStore) GetBlock(id string) (model.Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blocks[id]
	return b, ok
}

func (s *MemoryStore) CreateBlock(block model.Block) (model.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if block.ID == "" {
		block.ID = uuid.NewString()
	}
	s.blocks[block.ID] = block
	return block, nil
}

func (s *MemoryStore) ListTeams(leagueID string) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	teams := []model.Team{}
	for _, t := range s.teams {
		if t.LeagueID == leagueID {
			teams = append(teams, t)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

func (s *MemoryStore) GetTeam(id string) (model.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[id]
	return t, ok
}

func (s *MemoryStore) CreateTeam(team model.Team) (model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if strings.TrimSpace(team.Name) == "" {
		return model.Team{}, fmt.Errorf("team name is required")
	}
	for _, t := range s.teams {
		if t.LeagueID == team.LeagueID && strings.EqualFold(t.Name, team.Name) {
			return model.Team{}, fmt.Errorf("team name %w", ErrDuplicate)
		}
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now()
	}
	s.teams[team.ID] = team
	return team, nil
}

func (s *MemoryStore) DeleteTeam(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[id]; !ok {
		return fmt.Errorf("team %w", ErrNotFound)
	}
	for matchID, m := range s.matches {
		if m.Team1ID == id || m.Team2ID == id {
			s.deleteMatchScoresLocked(matchID)
			delete(s.matches, matchID)
		}
	}
	for playerID, p := range s.players {
		if p.TeamID == id {
			delete(s.players, playerID)
		}
	}
	delete(s.teams, id)
	return nil
}

func (s *MemoryStore) ListTeamPlayers(teamID string) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := []model.Player{}
	for _, p := range s.players {
		if p.TeamID == teamID {
			players = append(players, p)
		}
	}
	sortPlayersByCreation(players)
	return players, nil
}

func (s *MemoryStore) ListLeaguePlayers(leagueID string) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := []model.Player{}
	for _, p := range s.players {
		if p.LeagueID == leagueID {
			players = append(players, p)
		}
	}
	sortPlayersByCreation(players)
	return players, nil
}

func (s *MemoryStore) GetPlayer(id string) (model.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	return p, ok
}

func (s *MemoryStore) CreatePlayer(player model.Player) (model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if player.ID == "" {
		player.ID = uuid.NewString()
	}
	if strings.TrimSpace(player.Name) == "" {
		return model.Player{}, fmt.Errorf("player name is required")
	}
	if player.Status == "" {
		player.Status = model.PlayerActive
	}
	if player.CreatedAt.IsZero() {
		player.CreatedAt = time.Now()
	}
	s.players[player.ID] = player
	return player, nil
}

func (s *MemoryStore) UpdatePlayer(player model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[player.ID]; !ok {
		return fmt.Errorf("player %w", ErrNotFound)
	}
	s.players[player.ID] = player
	return nil
}

func (s *MemoryStore) DeletePlayer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[id]; !ok {
		return fmt.Errorf("player %w", ErrNotFound)
	}
	delete(s.players, id)
	return nil
}

func (s *MemoryStore) ListMatches(leagueID string) ([]model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := []model.Match{}
	for _, m := range s.matches {
		if m.LeagueID == leagueID {
			matches = append(matches, m)
		}
	}
	sortMatches(matches)
	return matches, nil
}

func (s *MemoryStore) GetMatch(id string) (model.Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.matches[id]
	return m, ok
}

func (s *MemoryStore) CreateMatch(match model.Match) (model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	if match.Team1ID == match.Team2ID {
		return model.Match{}, fmt.Errorf("a match needs two distinct teams")
	}
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now()
	}
	s.matches[match.ID] = match
	return match, nil
}

func (s *MemoryStore) DeleteMatch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[id]; !ok {
		return fmt.Errorf("match %w", ErrNotFound)
	}
	s.deleteMatchScoresLocked(id)
	delete(s.matches, id)
	return nil
}

func (s *MemoryStore) deleteMatchScoresLocked(matchID string) {
	for scoreID, score := range s.scores {
		if score.MatchID == matchID {
			delete(s.scores, scoreID)
		}
	}
}

func (s *MemoryStore) ListMatchScores(matchID string) ([]model.WeeklyScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scores := []model.WeeklyScore{}
	for _, score := range s.scores {
		if score.MatchID == matchID {
			scores = append(scores, score)
		}
	}
	sortScores(scores)
	return scores, nil
}

func (s *MemoryStore) ListPlayerScores(playerID string) ([]model.WeeklyScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scores := []model.WeeklyScore{}
	for _, score := range s.scores {
		if score.PlayerID == playerID {
			scores = append(scores, score)
		}
	}
	sortScores(scores)
	return scores, nil
}

func (s *MemoryStore) CreateWeeklyScore(score model.WeeklyScore) (model.WeeklyScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if score.ID == "" {
		score.ID = uuid.NewString()
	}
	matchScores := 0
	for _, existing := range s.scores {
		if existing.MatchID != score.MatchID {
			continue
		}
		matchScores++
		if existing.PlayerID == score.PlayerID {
			return model.WeeklyScore{}, fmt.Errorf("score for player %w", ErrDuplicate)
		}
	}
	if score.OrderIndex == 0 {
		score.OrderIndex = matchScores + 1
	}
	if score.CreatedAt.IsZero() {
		score.CreatedAt = time.Now()
	}
	score.Recompute()
	s.scores[score.ID] = score
	return score, nil
}

func (s *MemoryStore) FullTimetable(leagueID string) ([]model.TimetableRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := []model.Match{}
	for _, m := range s.matches {
		if m.LeagueID == leagueID {
			matches = append(matches, m)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		bi, bj := s.blocks[matches[i].BlockID], s.blocks[matches[j].BlockID]
		if bi.Number != bj.Number {
			return bi.Number < bj.Number
		}
		if matches[i].WeekNumber != matches[j].WeekNumber {
			return matches[i].WeekNumber < matches[j].WeekNumber
		}
		return matches[i].ID < matches[j].ID
	})

	rows := []model.TimetableRow{}
	for _, match := range matches {
		base := model.TimetableRow{
			BlockID:     match.BlockID,
			BlockNumber: s.blocks[match.BlockID].Number,
			MatchID:     match.ID,
			WeekNumber:  match.WeekNumber,
			Lane:        match.Lane,
			Team1ID:     match.Team1ID,
			Team1Name:   s.teams[match.Team1ID].Name,
			Team2ID:     match.Team2ID,
			Team2Name:   s.teams[match.Team2ID].Name,
		}
		scores := []model.WeeklyScore{}
		for _, score := range s.scores {
			if score.MatchID == match.ID {
				scores = append(scores, score)
			}
		}
		if len(scores) == 0 {
			rows = append(rows, base)
			continue
		}
		sortScores(scores)
		for _, score := range scores {
			row := base
			row.ScoreID = score.ID
			row.ScoreTeamID = score.TeamID
			row.PlayerID = score.PlayerID
			row.PlayerName = s.players[score.PlayerID].Name
			row.G1 = score.G1
			row.G2 = score.G2
			row.G3 = score.G3
			row.Scratch = score.Scratch
			row.HDC = score.HDC
			row.Avg = score.Avg
			row.TotalHDC = score.TotalHDC
			row.OrderIndex = score.OrderIndex
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func sortPlayersByCreation(players []model.Player) {
	sort.Slice(players, func(i, j int) bool {
		if !players[i].CreatedAt.Equal(players[j].CreatedAt) {
			return players[i].CreatedAt.Before(players[j].CreatedAt)
		}
		return players[i].ID < players[j].ID
	})
}

func sortMatches(matches []model.Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].WeekNumber != matches[j].WeekNumber {
			return matches[i].WeekNumber < matches[j].WeekNumber
		}
		return matches[i].ID < matches[j].ID
	})
}

func sortScores(scores []model.WeeklyScore) {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].OrderIndex != scores[j].OrderIndex {
			return scores[i].OrderIndex < scores[j].OrderIndex
		}
		return scores[i].ID < scores[j].ID
	})
}

func hashPassword(password string) string {
	if password == "" {
		return ""
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return string(hash)
}
