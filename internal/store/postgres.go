package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tenpin-app/internal/model"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresStore struct {
	db *sql.DB
}

type PostgresOptions struct {
	MigrationsDir string
}

func NewPostgresStore(dsn string, opts PostgresOptions) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	migrationsDir := strings.TrimSpace(opts.MigrationsDir)
	if migrationsDir == "" {
		migrationsDir = "migrations/postgres"
	}
	if err := applyMigrations(db, migrationsDir); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) ListUsers() ([]model.User, error) {
	rows, err := s.db.Query(`SELECT id, first_name, last_name, email, password_hash, role FROM users ORDER BY first_name, last_name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *PostgresStore) GetUser(id string) (model.User, bool) {
	var u model.User
	err := s.db.QueryRow(`SELECT id, first_name, last_name, email, password_hash, role FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role)
	if err != nil {
		return model.User{}, false
	}
	return u, true
}

func (s *PostgresStore) GetUserByEmail(email string) (model.User, bool) {
	var u model.User
	err := s.db.QueryRow(`SELECT id, first_name, last_name, email, password_hash, role FROM users WHERE lower(email) = lower($1) LIMIT 1`, email).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role)
	if err != nil {
		return model.User{}, false
	}
	return u, true
}

func (s *PostgresStore) CreateUser(user model.User) (model.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if strings.TrimSpace(user.Email) == "" {
		return model.User{}, errors.New("email is required")
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	_, err := s.db.Exec(`INSERT INTO users (id, first_name, last_name, email, password_hash, role) VALUES ($1,$2,$3,$4,$5,$6)`,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, string(user.Role),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, fmt.Errorf("email %w", ErrDuplicate)
		}
		return model.User{}, err
	}
	return user, nil
}

func (s *PostgresStore) ListLeagues() ([]model.League, error) {
	rows, err := s.db.Query(`SELECT id, name, owner_id, member_ids, created_at FROM leagues ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	defer rows.Close()

	leagues := []model.League{}
	for rows.Next() {
		league, err := scanPostgresLeagueRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan league: %w", err)
		}
		leagues = append(leagues, league)
	}
	return leagues, rows.Err()
}

func (s *PostgresStore) GetLeague(id string) (model.League, bool) {
	row := s.db.QueryRow(`SELECT id, name, owner_id, member_ids, created_at FROM leagues WHERE id = $1`, id)
	league, err := scanPostgresLeagueRow(row)
	if err != nil {
		return model.League{}, false
	}
	return league, true
}

func (s *PostgresStore) CreateLeague(league model.League) (model.League, error) {
	if league.ID == "" {
		league.ID = uuid.NewString()
	}
	if strings.TrimSpace(league.Name) == "" {
		return model.League{}, errors.New("league name is required")
	}
	if league.CreatedAt.IsZero() {
		league.CreatedAt = time.Now()
	}
	memberJSON := string(toJSON(league.MemberIDs))
	_, err := s.db.Exec(`INSERT INTO leagues (id, name, owner_id, member_ids, created_at) VALUES ($1,$2,$3,$4,$5)`,
		league.ID, league.Name, league.OwnerID, memberJSON, league.CreatedAt,
	)
	if err != nil {
		return model.League{}, err
	}
	return league, nil
}

func (s *PostgresStore) UpdateLeague(league model.League) error {
	memberJSON := string(toJSON(league.MemberIDs))
	res, err := s.db.Exec(`UPDATE leagues SET name = $1, owner_id = $2, member_ids = $3, created_at = $4 WHERE id = $5`,
		league.Name, league.OwnerID, memberJSON, league.CreatedAt, league.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("league %w", ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) DeleteLeague(id string) error {
	res, err := s.db.Exec(`DELETE FROM leagues WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("league %w", ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) AddMemberToLeague(leagueID, userID string) error {
	league, ok := s.GetLeague(leagueID)
	if !ok {
		return fmt.Errorf("league %w", ErrNotFound)
	}
	if league.HasMember(userID) {
		return nil
	}
	league.MemberIDs = append(league.MemberIDs, userID)
	return s.UpdateLeague(league)
}

func (s *PostgresStore) ListBlocks(leagueID string) ([]model.Block, error) {
	rows, err := s.db.Query(`SELECT id, league_id, number FROM blocks WHERE league_id = $1 ORDER BY number`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	blocks := []model.Block{}
	for rows.Next() {
		var b model.Block
		if err := rows.Scan(&b.ID, &b.LeagueID, &b.Number); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (s *PostgresStore) GetBlock(id string) (model.Block, bool) {
	var b model.Block
	err := s.db.QueryRow(`SELECT id, league_id, number FROM blocks WHERE id = $1`, id).
		Scan(&b.ID, &b.LeagueID, &b.Number)
	if err != nil {
		return model.Block{}, false
	}
	return b, true
}

func (s *PostgresStore) CreateBlock(block model.Block) (model.Block, error) {
	if block.ID == "" {
		block.ID = uuid.NewString()
	}
	_, err := s.db.Exec(`INSERT INTO blocks (id, league_id, number) VALUES ($1,$2,$3)`,
		block.ID, block.LeagueID, block.Number,
	)
	if err != nil {
		return model.Block{}, err
	}
	return block, nil
}

func (s *PostgresStore) ListTeams(leagueID string) ([]model.Team, error) {
	rows, err := s.db.Query(`SELECT id, league_id, name, created_at FROM teams WHERE league_id = $1 ORDER BY name`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	teams := []model.Team{}
	for rows.Next() {
		var team model.Team
		if err := rows.Scan(&team.ID, &team.LeagueID, &team.Name, &team.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (s *PostgresStore) GetTeam(id string) (model.Team, bool) {
	var team model.Team
	err := s.db.QueryRow(`SELECT id, league_id, name, created_at FROM teams WHERE id = $1`, id).
		Scan(&team.ID, &team.LeagueID, &team.Name, &team.CreatedAt)
	if err != nil {
		return model.Team{}, false
	}
	return team, true
}

func (s *PostgresStore) CreateTeam(team model.Team) (model.Team, error) {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if strings.TrimSpace(team.Name) == "" {
		return model.Team{}, errors.New("team name is required")
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO teams (id, league_id, name, created_at) VALUES ($1,$2,$3,$4)`,
		team.ID, team.LeagueID, team.Name, team.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Team{}, fmt.Errorf("team name %w", ErrDuplicate)
		}
		return model.Team{}, err
	}
	return team, nil
}

func (s *PostgresStore) DeleteTeam(id string) error {
	if _, err := s.db.Exec(`DELETE FROM matches WHERE team1_id = $1 OR team2_id = $1`, id); err != nil {
		return err
	}
	res, err := s.db.Exec(`DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("team %w", ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) ListTeamPlayers(teamID string) ([]model.Player, error) {
	return s.listPlayers(`SELECT id, league_id, team_id, name, status, created_at FROM players WHERE team_id = $1 ORDER BY created_at, id`, teamID)
}

func (s *PostgresStore) ListLeaguePlayers(leagueID string) ([]model.Player, error) {
	return s.listPlayers(`SELECT id, league_id, team_id, name, status, created_at FROM players WHERE league_id = $1 ORDER BY created_at, id`, leagueID)
}

func (s *PostgresStore) listPlayers(query string, arg string) ([]model.Player, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	players := []model.Player{}
	for rows.Next() {
		var player model.Player
		var status string
		if err := rows.Scan(&player.ID, &player.LeagueID, &player.TeamID, &player.Name, &status, &player.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		player.Status = model.PlayerStatus(status)
		players = append(players, player)
	}
	return players, rows.Err()
}

func (s *PostgresStore) GetPlayer(id string) (model.Player, bool) {
	var player model.Player
	var status string
	err := s.db.QueryRow(`SELECT id, league_id, team_id, name, status, created_at FROM players WHERE id = $1`, id).
		Scan(&player.ID, &player.LeagueID, &player.TeamID, &player.Name, &status, &player.CreatedAt)
	if err != nil {
		return model.Player{}, false
	}
	player.Status = model.PlayerStatus(status)
	return player, true
}

func (s *PostgresStore) CreatePlayer(player model.Player) (model.Player, error) {
	if player.ID == "" {
		player.ID = uuid.NewString()
	}
	if strings.TrimSpace(player.Name) == "" {
		return model.Player{}, errors.New("player name is required")
	}
	if player.Status == "" {
		player.Status = model.PlayerActive
	}
	if player.CreatedAt.IsZero() {
		player.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO players (id, league_id, team_id, name, status, created_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		player.ID, player.LeagueID, player.TeamID, player.Name, string(player.Status), player.CreatedAt,
	)
	if err != nil {
		return model.Player{}, err
	}
	return player, nil
}

func (s *PostgresStore) UpdatePlayer(player model.Player) error {
	res, err := s.db.Exec(`UPDATE players SET league_id = $1, team_id = $2, name = $3, status = $4, created_at = $5 WHERE id = $6`,
		player.LeagueID, player.TeamID, player.Name, string(player.Status), player.CreatedAt, player.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("player %w", ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) DeletePlayer(id string) error {
	res, err := s.db.Exec(`DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("player %w", ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) ListMatches(leagueID string) ([]model.Match, error) {
	rows, err := s.db.Query(`SELECT id, league_id, block_id, week_number, lane, team1_id, team2_id, created_at FROM matches WHERE league_id = $1 ORDER BY week_number, id`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	matches := []model.Match{}
	for rows.Next() {
		var match model.Match
		if err := rows.Scan(&match.ID, &match.LeagueID, &match.BlockID, &match.WeekNumber, &match.Lane, &match.Team1ID, &match.Team2ID, &match.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func (s *PostgresStore) GetMatch(id string) (model.Match, bool) {
	var match model.Match
	err := s.db.QueryRow(`SELECT id, league_id, block_id, week_number, lane, team1_id, team2_id, created_at FROM matches WHERE id = $1`, id).
		Scan(&match.ID, &match.LeagueID, &match.BlockID, &match.WeekNumber, &match.Lane, &match.Team1ID, &match.Team2ID, &match.CreatedAt)
	if err != nil {
		return model.Match{}, false
	}
	return match, true
}

func (s *PostgresStore) CreateMatch(match model.Match) (model.Match, error) {
	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	if match.Team1ID == match.Team2ID {
		return model.Match{}, errors.New("a match needs two distinct teams")
	}
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO matches (id, league_id, block_id, week_number, lane, team1_id, team2_id, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		match.ID, match.LeagueID, match.BlockID, match.WeekNumber, match.Lane, match.Team1ID, match.Team2ID, match.CreatedAt,
	)
	if err != nil {
		return model.Match{}, err
	}
	return match, nil
}

func (s *PostgresStore) DeleteMatch(id string) error {
	res, err := s.db.Exec(`DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("match %w", ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) ListMatchScores(matchID string) ([]model.WeeklyScore, error) {
	return s.listScores(`SELECT id, match_id, team_id, player_id, g1, g2, g3, hdc, scratch, total_hdc, avg, order_index, created_at FROM weekly_scores WHERE match_id = $1 ORDER BY order_index, id`, matchID)
}

func (s *PostgresStore) ListPlayerScores(playerID string) ([]model.WeeklyScore, error) {
	return s.listScores(`SELECT id, match_id, team_id, player_id, g1, g2, g3, hdc, scratch, total_hdc, avg, order_index, created_at FROM weekly_scores WHERE player_id = $1 ORDER BY order_index, id`, playerID)
}

func (s *PostgresStore) listScores(query string, arg string) ([]model.WeeklyScore, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	scores := []model.WeeklyScore{}
	for rows.Next() {
		var score model.WeeklyScore
		if err := rows.Scan(&score.ID, &score.MatchID, &score.TeamID, &score.PlayerID, &score.G1, &score.G2, &score.G3, &score.HDC, &score.Scratch, &score.TotalHDC, &score.Avg, &score.OrderIndex, &score.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

func (s *PostgresStore) CreateWeeklyScore(score model.WeeklyScore) (model.WeeklyScore, error) {
	if score.ID == "" {
		score.ID = uuid.NewString()
	}
	if score.CreatedAt.IsZero() {
		score.CreatedAt = time.Now()
	}
	if score.OrderIndex == 0 {
		var count int
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM weekly_scores WHERE match_id = $1`, score.MatchID).Scan(&count); err != nil {
			return model.WeeklyScore{}, fmt.Errorf("count match scores: %w", err)
		}
		score.OrderIndex = count + 1
	}
	score.Recompute()
	_, err := s.db.Exec(`INSERT INTO weekly_scores (id, match_id, team_id, player_id, g1, g2, g3, hdc, scratch, total_hdc, avg, order_index, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		score.ID, score.MatchID, score.TeamID, score.PlayerID, score.G1, score.G2, score.G3, score.HDC, score.Scratch, score.TotalHDC, score.Avg, score.OrderIndex, score.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.WeeklyScore{}, fmt.Errorf("score for player %w", ErrDuplicate)
		}
		return model.WeeklyScore{}, err
	}
	return score, nil
}

func (s *PostgresStore) FullTimetable(leagueID string) ([]model.TimetableRow, error) {
	rows, err := s.db.Query(fullTimetableQueryPostgres, leagueID)
	if err != nil {
		return nil, fmt.Errorf("full timetable: %w", err)
	}
	defer rows.Close()

	result := []model.TimetableRow{}
	for rows.Next() {
		row, err := scanTimetableRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan timetable row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

const fullTimetableQueryPostgres = `
SELECT b.id, b.number, m.id, m.week_number, m.lane,
       t1.id, t1.name, t2.id, t2.name,
       ws.id, ws.team_id, ws.player_id, p.name,
       ws.g1, ws.g2, ws.g3, ws.scratch, ws.hdc, ws.avg, ws.total_hdc, ws.order_index
FROM matches m
JOIN blocks b ON b.id = m.block_id
JOIN teams t1 ON t1.id = m.team1_id
JOIN teams t2 ON t2.id = m.team2_id
LEFT JOIN weekly_scores ws ON ws.match_id = m.id
LEFT JOIN players p ON p.id = ws.player_id
WHERE m.league_id = $1
ORDER BY b.number ASC, m.week_number ASC, m.id ASC, ws.order_index ASC, ws.id ASC`

func scanPostgresLeagueRow(scanner interface{ Scan(dest ...any) error }) (model.League, error) {
	var league model.League
	var memberJSON sql.NullString
	if err := scanner.Scan(&league.ID, &league.Name, &league.OwnerID, &memberJSON, &league.CreatedAt); err != nil {
		return model.League{}, err
	}
	if memberJSON.Valid && strings.TrimSpace(memberJSON.String) != "" {
		_ = json.Unmarshal([]byte(memberJSON.String), &league.MemberIDs)
	}
	return league, nil
}
