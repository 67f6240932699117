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
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

type SQLiteOptions struct {
	MigrationsDir string
}

func NewSQLiteStore(path string, opts SQLiteOptions) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps the foreign_keys pragma in effect for
	// every statement, so cascading deletes actually fire.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	migrationsDir := strings.TrimSpace(opts.MigrationsDir)
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	if err := applyMigrations(db, migrationsDir); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) ListUsers() ([]model.User, error) {
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

func (s *SQLiteStore) GetUser(id string) (model.User, bool) {
	var u model.User
	err := s.db.QueryRow(`SELECT id, first_name, last_name, email, password_hash, role FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role)
	if err != nil {
		return model.User{}, false
	}
	return u, true
}

func (s *SQLiteStore) GetUserByEmail(email string) (model.User, bool) {
	var u model.User
	err := s.db.QueryRow(`SELECT id, first_name, last_name, email, password_hash, role FROM users WHERE lower(email) = lower(?) LIMIT 1`, email).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role)
	if err != nil {
		return model.User{}, false
	}
	return u, true
}

func (s *SQLiteStore) CreateUser(user model.User) (model.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if strings.TrimSpace(user.Email) == "" {
		return model.User{}, errors.New("email is required")
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	_, err := s.db.Exec(`INSERT INTO users (id, first_name, last_name, email, password_hash, role) VALUES (?,?,?,?,?,?)`,
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

func (s *SQLiteStore) ListLeagues() ([]model.League, error) {
	rows, err := s.db.Query(`SELECT id, name, owner_id, member_ids, created_at FROM leagues ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	defer rows.Close()

	leagues := []model.League{}
	for rows.Next() {
		league, err := scanSQLiteLeagueRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan league: %w", err)
		}
		leagues = append(leagues, league)
	}
	return leagues, rows.Err()
}

func (s *SQLiteStore) GetLeague(id string) (model.League, bool) {
	row := s.db.QueryRow(`SELECT id, name, owner_id, member_ids, created_at FROM leagues WHERE id = ?`, id)
	league, err := scanSQLiteLeagueRow(row)
	if err != nil {
		return model.League{}, false
	}
	return league, true
}

func (s *SQLiteStore) CreateLeague(league model.League) (model.League, error) {
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
	_, err := s.db.Exec(`INSERT INTO leagues (id, name, owner_id, member_ids, created_at) VALUES (?,?,?,?,?)`,
		league.ID, league.Name, league.OwnerID, memberJSON, timeValueString(league.CreatedAt),
	)
	if err != nil {
		return model.League{}, err
	}
	return league, nil
}

func (s *SQLiteStore) UpdateLeague(league model.League) error {
	memberJSON := string(toJSON(league.MemberIDs))
	res, err := s.db.Exec(`UPDATE leagues SET name = ?, owner_id = ?, member_ids = ?, created_at = ? WHERE id = ?`,
		league.Name, league.OwnerID, memberJSON, timeValueString(league.CreatedAt), league.ID,
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

func (s *SQLiteStore) DeleteLeague(id string) error {
	res, err := s.db.Exec(`DELETE FROM leagues WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("league %w", ErrNotFound)
	}
	// Child rows go via ON DELETE CASCADE.
	return nil
}

func (s *SQLiteStore) AddMemberToLeague(leagueID, userID string) error {
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

func (s *SQLiteStore) ListBlocks(leagueID string) ([]model.Block, error) {
	rows, err := s.db.Query(`SELECT id, league_id, number FROM blocks WHERE league_id = ? ORDER BY number`, leagueID)
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

func (s *SQLiteStore) GetBlock(id string) (model.Block, bool) {
	var b model.Block
	err := s.db.QueryRow(`SELECT id, league_id, number FROM blocks WHERE id = ?`, id).
		Scan(&b.ID, &b.LeagueID, &b.Number)
	if err != nil {
		return model.Block{}, false
	}
	return b, true
}

func (s *SQLiteStore) CreateBlock(block model.Block) (model.Block, error) {
	if block.ID == "" {
		block.ID = uuid.NewString()
	}
	_, err := s.db.Exec(`INSERT INTO blocks (id, league_id, number) VALUES (?,?,?)`,
		block.ID, block.LeagueID, block.Number,
	)
	if err != nil {
		return model.Block{}, err
	}
	return block, nil
}

func (s *SQLiteStore) ListTeams(leagueID string) ([]model.Team, error) {
	rows, err := s.db.Query(`SELECT id, league_id, name, created_at FROM teams WHERE league_id = ? ORDER BY name`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	teams := []model.Team{}
	for rows.Next() {
		team, err := scanSQLiteTeamRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (s *SQLiteStore) GetTeam(id string) (model.Team, bool) {
	row := s.db.QueryRow(`SELECT id, league_id, name, created_at FROM teams WHERE id = ?`, id)
	team, err := scanSQLiteTeamRow(row)
	if err != nil {
		return model.Team{}, false
	}
	return team, true
}

func (s *SQLiteStore) CreateTeam(team model.Team) (model.Team, error) {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if strings.TrimSpace(team.Name) == "" {
		return model.Team{}, errors.New("team name is required")
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO teams (id, league_id, name, created_at) VALUES (?,?,?,?)`,
		team.ID, team.LeagueID, team.Name, timeValueString(team.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Team{}, fmt.Errorf("team name %w", ErrDuplicate)
		}
		return model.Team{}, err
	}
	return team, nil
}

func (s *SQLiteStore) DeleteTeam(id string) error {
	// Matches cascade scores; a team can sit on either side.
	if _, err := s.db.Exec(`DELETE FROM matches WHERE team1_id = ? OR team2_id = ?`, id, id); err != nil {
		return err
	}
	res, err := s.db.Exec(`DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("team %w", ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) ListTeamPlayers(teamID string) ([]model.Player, error) {
	return s.listPlayers(`SELECT id, league_id, team_id, name, status, created_at FROM players WHERE team_id = ? ORDER BY created_at, id`, teamID)
}

func (s *SQLiteStore) ListLeaguePlayers(leagueID string) ([]model.Player, error) {
	return s.listPlayers(`SELECT id, league_id, team_id, name, status, created_at FROM players WHERE league_id = ? ORDER BY created_at, id`, leagueID)
}

func (s *SQLiteStore) listPlayers(query string, arg string) ([]model.Player, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	players := []model.Player{}
	for rows.Next() {
		player, err := scanSQLitePlayerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

func (s *SQLiteStore) GetPlayer(id string) (model.Player, bool) {
	row := s.db.QueryRow(`SELECT id, league_id, team_id, name, status, created_at FROM players WHERE id = ?`, id)
	player, err := scanSQLitePlayerRow(row)
	if err != nil {
		return model.Player{}, false
	}
	return player, true
}

func (s *SQLiteStore) CreatePlayer(player model.Player) (model.Player, error) {
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
	_, err := s.db.Exec(`INSERT INTO players (id, league_id, team_id, name, status, created_at) VALUES (?,?,?,?,?,?)`,
		player.ID, player.LeagueID, player.TeamID, player.Name, string(player.Status), timeValueString(player.CreatedAt),
	)
	if err != nil {
		return model.Player{}, err
	}
	return player, nil
}

func (s *SQLiteStore) UpdatePlayer(player model.Player) error {
	res, err := s.db.Exec(`UPDATE players SET league_id = ?, team_id = ?, name = ?, status = ?, created_at = ? WHERE id = ?`,
		player.LeagueID, player.TeamID, player.Name, string(player.Status), timeValueString(player.CreatedAt), player.ID,
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

func (s *SQLiteStore) DeletePlayer(id string) error {
	res, err := s.db.Exec(`DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("player %w", ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) ListMatches(leagueID string) ([]model.Match, error) {
	rows, err := s.db.Query(`SELECT id, league_id, block_id, week_number, lane, team1_id, team2_id, created_at FROM matches WHERE league_id = ? ORDER BY week_number, id`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	matches := []model.Match{}
	for rows.Next() {
		match, err := scanSQLiteMatchRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func (s *SQLiteStore) GetMatch(id string) (model.Match, bool) {
	row := s.db.QueryRow(`SELECT id, league_id, block_id, week_number, lane, team1_id, team2_id, created_at FROM matches WHERE id = ?`, id)
	match, err := scanSQLiteMatchRow(row)
	if err != nil {
		return model.Match{}, false
	}
	return match, true
}

func (s *SQLiteStore) CreateMatch(match model.Match) (model.Match, error) {
	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	if match.Team1ID == match.Team2ID {
		return model.Match{}, errors.New("a match needs two distinct teams")
	}
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO matches (id, league_id, block_id, week_number, lane, team1_id, team2_id, created_at) VALUES (?,?,?,?,?,?,?,?)`,
		match.ID, match.LeagueID, match.BlockID, match.WeekNumber, match.Lane, match.Team1ID, match.Team2ID, timeValueString(match.CreatedAt),
	)
	if err != nil {
		return model.Match{}, err
	}
	return match, nil
}

func (s *SQLiteStore) DeleteMatch(id string) error {
	res, err := s.db.Exec(`DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("match %w", ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) ListMatchScores(matchID string) ([]model.WeeklyScore, error) {
	return s.listScores(`SELECT id, match_id, team_id, player_id, g1, g2, g3, hdc, scratch, total_hdc, avg, order_index, created_at FROM weekly_scores WHERE match_id = ? ORDER BY order_index, id`, matchID)
}

func (s *SQLiteStore) ListPlayerScores(playerID string) ([]model.WeeklyScore, error) {
	return s.listScores(`SELECT id, match_id, team_id, player_id, g1, g2, g3, hdc, scratch, total_hdc, avg, order_index, created_at FROM weekly_scores WHERE player_id = ? ORDER BY order_index, id`, playerID)
}

func (s *SQLiteStore) listScores(query string, arg string) ([]model.WeeklyScore, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	scores := []model.WeeklyScore{}
	for rows.Next() {
		score, err := scanSQLiteScoreRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

func (s *SQLiteStore) CreateWeeklyScore(score model.WeeklyScore) (model.WeeklyScore, error) {
	if score.ID == "" {
		score.ID = uuid.NewString()
	}
	if score.CreatedAt.IsZero() {
		score.CreatedAt = time.Now()
	}
	if score.OrderIndex == 0 {
		var count int
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM weekly_scores WHERE match_id = ?`, score.MatchID).Scan(&count); err != nil {
			return model.WeeklyScore{}, fmt.Errorf("count match scores: %w", err)
		}
		score.OrderIndex = count + 1
	}
	score.Recompute()
	_, err := s.db.Exec(`INSERT INTO weekly_scores (id, match_id, team_id, player_id, g1, g2, g3, hdc, scratch, total_hdc, avg, order_index, created_at) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		score.ID, score.MatchID, score.TeamID, score.PlayerID, score.G1, score.G2, score.G3, score.HDC, score.Scratch, score.TotalHDC, score.Avg, score.OrderIndex, timeValueString(score.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.WeeklyScore{}, fmt.Errorf("score for player %w", ErrDuplicate)
		}
		return model.WeeklyScore{}, err
	}
	return score, nil
}

func (s *SQLiteStore) FullTimetable(leagueID string) ([]model.TimetableRow, error) {
	rows, err := s.db.Query(fullTimetableQuerySQLite, leagueID)
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

const fullTimetableQuerySQLite = `
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
WHERE m.league_id = ?
ORDER BY b.number ASC, m.week_number ASC, m.id ASC, ws.order_index ASC, ws.id ASC`

func scanTimetableRow(scanner interface{ Scan(dest ...any) error }) (model.TimetableRow, error) {
	var row model.TimetableRow
	var scoreID, scoreTeamID, playerID, playerName sql.NullString
	var g1, g2, g3, scratch, hdc, totalHDC, orderIndex sql.NullInt64
	var avg sql.NullFloat64
	if err := scanner.Scan(
		&row.BlockID,
		&row.BlockNumber,
		&row.MatchID,
		&row.WeekNumber,
		&row.Lane,
		&row.Team1ID,
		&row.Team1Name,
		&row.Team2ID,
		&row.Team2Name,
		&scoreID,
		&scoreTeamID,
		&playerID,
		&playerName,
		&g1,
		&g2,
		&g3,
		&scratch,
		&hdc,
		&avg,
		&totalHDC,
		&orderIndex,
	); err != nil {
		return model.TimetableRow{}, err
	}
	if !scoreID.Valid {
		return row, nil
	}
	row.ScoreID = scoreID.String
	row.ScoreTeamID = scoreTeamID.String
	row.PlayerID = playerID.String
	row.PlayerName = playerName.String
	row.G1 = int(g1.Int64)
	row.G2 = int(g2.Int64)
	row.G3 = int(g3.Int64)
	row.Scratch = int(scratch.Int64)
	row.HDC = int(hdc.Int64)
	row.Avg = avg.Float64
	row.TotalHDC = int(totalHDC.Int64)
	row.OrderIndex = int(orderIndex.Int64)
	return row, nil
}

func scanSQLiteLeagueRow(scanner interface{ Scan(dest ...any) error }) (model.League, error) {
	var league model.League
	var memberJSON, createdAt sql.NullString
	if err := scanner.Scan(&league.ID, &league.Name, &league.OwnerID, &memberJSON, &createdAt); err != nil {
		return model.League{}, err
	}
	if createdAt.Valid {
		if parsed, ok := parseTimeString(createdAt.String); ok {
			league.CreatedAt = parsed
		}
	}
	if memberJSON.Valid && strings.TrimSpace(memberJSON.String) != "" {
		_ = json.Unmarshal([]byte(memberJSON.String), &league.MemberIDs)
	}
	return league, nil
}

func scanSQLiteTeamRow(scanner interface{ Scan(dest ...any) error }) (model.Team, error) {
	var team model.Team
	var createdAt sql.NullString
	if err := scanner.Scan(&team.ID, &team.LeagueID, &team.Name, &createdAt); err != nil {
		return model.Team{}, err
	}
	if createdAt.Valid {
		if parsed, ok := parseTimeString(createdAt.String); ok {
			team.CreatedAt = parsed
		}
	}
	return team, nil
}

func scanSQLitePlayerRow(scanner interface{ Scan(dest ...any) error }) (model.Player, error) {
	var player model.Player
	var status string
	var createdAt sql.NullString
	if err := scanner.Scan(&player.ID, &player.LeagueID, &player.TeamID, &player.Name, &status, &createdAt); err != nil {
		return model.Player{}, err
	}
	player.Status = model.PlayerStatus(status)
	if createdAt.Valid {
		if parsed, ok := parseTimeString(createdAt.String); ok {
			player.CreatedAt = parsed
		}
	}
	return player, nil
}

func scanSQLiteMatchRow(scanner interface{ Scan(dest ...any) error }) (model.Match, error) {
	var match model.Match
	var createdAt sql.NullString
	if err := scanner.Scan(&match.ID, &match.LeagueID, &match.BlockID, &match.WeekNumber, &match.Lane, &match.Team1ID, &match.Team2ID, &createdAt); err != nil {
		return model.Match{}, err
	}
	if createdAt.Valid {
		if parsed, ok := parseTimeString(createdAt.String); ok {
			match.CreatedAt = parsed
		}
	}
	return match, nil
}

func scanSQLiteScoreRow(scanner interface{ Scan(dest ...any) error }) (model.WeeklyScore, error) {
	var score model.WeeklyScore
	var createdAt sql.NullString
	if err := scanner.Scan(&score.ID, &score.MatchID, &score.TeamID, &score.PlayerID, &score.G1, &score.G2, &score.G3, &score.HDC, &score.Scratch, &score.TotalHDC, &score.Avg, &score.OrderIndex, &createdAt); err != nil {
		return model.WeeklyScore{}, err
	}
	if createdAt.Valid {
		if parsed, ok := parseTimeString(createdAt.String); ok {
			score.CreatedAt = parsed
		}
	}
	return score, nil
}

func toJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}

func timeValueString(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, bool) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, false
	}
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}
