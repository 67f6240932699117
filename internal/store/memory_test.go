package store

import (
	"errors"
	"testing"
	"time"

	"tenpin-app/internal/model"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	t.Setenv("APP", "prod")
	return NewMemoryStore()
}

type fixture struct {
	league model.League
	block1 model.Block
	block2 model.Block
	teamA  model.Team
	teamB  model.Team
}

func newFixture(t *testing.T, s *MemoryStore) fixture {
	t.Helper()
	league, err := s.CreateLeague(model.League{Name: "Monday Majors"})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	block1, err := s.CreateBlock(model.Block{LeagueID: league.ID, Number: 1})
	if err != nil {
		t.Fatalf("create block: %v", err)
	}
	block2, err := s.CreateBlock(model.Block{LeagueID: league.ID, Number: 2})
	if err != nil {
		t.Fatalf("create block: %v", err)
	}
	teamA, err := s.CreateTeam(model.Team{LeagueID: league.ID, Name: "Alley Cats"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	teamB, err := s.CreateTeam(model.Team{LeagueID: league.ID, Name: "Gutter Gang"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	return fixture{league: league, block1: block1, block2: block2, teamA: teamA, teamB: teamB}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateUser(model.User{FirstName: "Ada", Email: "ada@example.com"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := s.CreateUser(model.User{FirstName: "Other", Email: "ADA@example.com"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
}

func TestCreateTeamRejectsDuplicateNameInLeague(t *testing.T) {
	s := newTestStore(t)
	fx := newFixture(t, s)

	_, err := s.CreateTeam(model.Team{LeagueID: fx.league.ID, Name: "alley cats"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate for same league, got %v", err)
	}

	other, err := s.CreateLeague(model.League{Name: "Thursday Twilight"})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	if _, err := s.CreateTeam(model.Team{LeagueID: other.ID, Name: "Alley Cats"}); err != nil {
		t.Fatalf("same name in another league should be fine: %v", err)
	}
}

func TestCreateMatchRejectsSameTeamTwice(t *testing.T) {
	s := newTestStore(t)
	fx := newFixture(t, s)

	_, err := s.CreateMatch(model.Match{
		LeagueID: fx.league.ID, BlockID: fx.block1.ID, WeekNumber: 1,
		Team1ID: fx.teamA.ID, Team2ID: fx.teamA.ID,
	})
	if err == nil {
		t.Fatal("want error for a team playing itself")
	}
}

func TestCreateWeeklyScoreOnePerPlayerAndOrder(t *testing.T) {
	s := newTestStore(t)
	fx := newFixture(t, s)

	match, err := s.CreateMatch(model.Match{
		LeagueID: fx.league.ID, BlockID: fx.block1.ID, WeekNumber: 1,
		Team1ID: fx.teamA.ID, Team2ID: fx.teamB.ID,
	})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	p1, _ := s.CreatePlayer(model.Player{LeagueID: fx.league.ID, TeamID: fx.teamA.ID, Name: "Mo"})
	p2, _ := s.CreatePlayer(model.Player{LeagueID: fx.league.ID, TeamID: fx.teamA.ID, Name: "Lena"})

	first, err := s.CreateWeeklyScore(model.WeeklyScore{
		MatchID: match.ID, TeamID: fx.teamA.ID, PlayerID: p1.ID,
		G1: 150, G2: 180, G3: 210, HDC: 12,
	})
	if err != nil {
		t.Fatalf("create score: %v", err)
	}
	if first.OrderIndex != 1 {
		t.Errorf("first OrderIndex = %d, want 1", first.OrderIndex)
	}
	if first.Scratch != 540 || first.TotalHDC != 552 {
		t.Errorf("derived totals = %d/%d, want 540/552", first.Scratch, first.TotalHDC)
	}
	if first.Avg != 180 {
		t.Errorf("derived avg = %v, want 180", first.Avg)
	}

	second, err := s.CreateWeeklyScore(model.WeeklyScore{
		MatchID: match.ID, TeamID: fx.teamA.ID, PlayerID: p2.ID, G1: 120, G2: 130, G3: 140,
	})
	if err != nil {
		t.Fatalf("create second score: %v", err)
	}
	if second.OrderIndex != 2 {
		t.Errorf("second OrderIndex = %d, want 2", second.OrderIndex)
	}

	_, err = s.CreateWeeklyScore(model.WeeklyScore{
		MatchID: match.ID, TeamID: fx.teamA.ID, PlayerID: p1.ID, G1: 99,
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate for second score of same player, got %v", err)
	}
}

func TestDeleteMatchRemovesScores(t *testing.T) {
	s := newTestStore(t)
	fx := newFixture(t, s)

	match, _ := s.CreateMatch(model.Match{
		LeagueID: fx.league.ID, BlockID: fx.block1.ID, WeekNumber: 1,
		Team1ID: fx.teamA.ID, Team2ID: fx.teamB.ID,
	})
	player, _ := s.CreatePlayer(model.Player{LeagueID: fx.league.ID, TeamID: fx.teamA.ID, Name: "Mo"})
	if _, err := s.CreateWeeklyScore(model.WeeklyScore{MatchID: match.ID, TeamID: fx.teamA.ID, PlayerID: player.ID, G1: 200}); err != nil {
		t.Fatalf("create score: %v", err)
	}

	if err := s.DeleteMatch(match.ID); err != nil {
		t.Fatalf("delete match: %v", err)
	}
	scores, err := s.ListPlayerScores(player.ID)
	if err != nil {
		t.Fatalf("list player scores: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("orphaned scores after match delete: %d", len(scores))
	}
}

func TestDeleteTeamRemovesMatchesAndPlayers(t *testing.T) {
	s := newTestStore(t)
	fx := newFixture(t, s)

	match, _ := s.CreateMatch(model.Match{
		LeagueID: fx.league.ID, BlockID: fx.block1.ID, WeekNumber: 1,
		Team1ID: fx.teamA.ID, Team2ID: fx.teamB.ID,
	})
	player, _ := s.CreatePlayer(model.Player{LeagueID: fx.league.ID, TeamID: fx.teamA.ID, Name: "Mo"})

	if err := s.DeleteTeam(fx.teamA.ID); err != nil {
		t.Fatalf("delete team: %v", err)
	}
	if _, ok := s.GetMatch(match.ID); ok {
		t.Error("match survived team delete")
	}
	if _, ok := s.GetPlayer(player.ID); ok {
		t.Error("player survived team delete")
	}
	if _, ok := s.GetTeam(fx.teamB.ID); !ok {
		t.Error("opponent team should survive")
	}
}

func TestDeleteLeagueCascades(t *testing.T) {
	s := newTestStore(t)
	fx := newFixture(t, s)

	player, _ := s.CreatePlayer(model.Player{LeagueID: fx.league.ID, TeamID: fx.teamA.ID, Name: "Mo"})
	match, _ := s.CreateMatch(model.Match{
		LeagueID: fx.league.ID, BlockID: fx.block2.ID, WeekNumber: 3,
		Team1ID: fx.teamA.ID, Team2ID: fx.teamB.ID,
	})
	if _, err := s.CreateWeeklyScore(model.WeeklyScore{MatchID: match.ID, TeamID: fx.teamA.ID, PlayerID: player.ID, G1: 180}); err != nil {
		t.Fatalf("create score: %v", err)
	}

	if err := s.DeleteLeague(fx.league.ID); err != nil {
		t.Fatalf("delete league: %v", err)
	}
	for name, gone := range map[string]bool{
		"league": func() bool { _, ok := s.GetLeague(fx.league.ID); return !ok }(),
		"block":  func() bool { _, ok := s.GetBlock(fx.block1.ID); return !ok }(),
		"team":   func() bool { _, ok := s.GetTeam(fx.teamA.ID); return !ok }(),
		"player": func() bool { _, ok := s.GetPlayer(player.ID); return !ok }(),
		"match":  func() bool { _, ok := s.GetMatch(match.ID); return !ok }(),
	} {
		if !gone {
			t.Errorf("%s survived league delete", name)
		}
	}
}

func TestAddMemberToLeagueIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	fx := newFixture(t, s)

	user, _ := s.CreateUser(model.User{FirstName: "Ada", Email: "ada@example.com"})
	for i := 0; i < 2; i++ {
		if err := s.AddMemberToLeague(fx.league.ID, user.ID); err != nil {
			t.Fatalf("add member: %v", err)
		}
	}
	league, _ := s.GetLeague(fx.league.ID)
	if len(league.MemberIDs) != 1 {
		t.Errorf("member added twice: %v", league.MemberIDs)
	}
}

func TestFullTimetableOrderingAndJoin(t *testing.T) {
	s := newTestStore(t)
	fx := newFixture(t, s)

	// Created out of block/week order on purpose.
	late, _ := s.CreateMatch(model.Match{
		LeagueID: fx.league.ID, BlockID: fx.block2.ID, WeekNumber: 1, Lane: "4",
		Team1ID: fx.teamA.ID, Team2ID: fx.teamB.ID,
	})
	week2, _ := s.CreateMatch(model.Match{
		LeagueID: fx.league.ID, BlockID: fx.block1.ID, WeekNumber: 2, Lane: "2",
		Team1ID: fx.teamB.ID, Team2ID: fx.teamA.ID,
	})
	week1, _ := s.CreateMatch(model.Match{
		LeagueID: fx.league.ID, BlockID: fx.block1.ID, WeekNumber: 1, Lane: "1",
		Team1ID: fx.teamA.ID, Team2ID: fx.teamB.ID,
	})

	p1, _ := s.CreatePlayer(model.Player{LeagueID: fx.league.ID, TeamID: fx.teamA.ID, Name: "Mo"})
	p2, _ := s.CreatePlayer(model.Player{LeagueID: fx.league.ID, TeamID: fx.teamA.ID, Name: "Lena"})
	if _, err := s.CreateWeeklyScore(model.WeeklyScore{MatchID: week1.ID, TeamID: fx.teamA.ID, PlayerID: p1.ID, G1: 150, G2: 160, G3: 170, HDC: 9}); err != nil {
		t.Fatalf("create score: %v", err)
	}
	if _, err := s.CreateWeeklyScore(model.WeeklyScore{MatchID: week1.ID, TeamID: fx.teamA.ID, PlayerID: p2.ID, G1: 140, G2: 140, G3: 140}); err != nil {
		t.Fatalf("create score: %v", err)
	}

	rows, err := s.FullTimetable(fx.league.ID)
	if err != nil {
		t.Fatalf("full timetable: %v", err)
	}
	// week1 has two score rows, the other matches one bare row each.
	if len(rows) != 4 {
		t.Fatalf("row count = %d, want 4", len(rows))
	}
	if rows[0].MatchID != week1.ID || rows[1].MatchID != week1.ID {
		t.Errorf("week 1 of block 1 should lead: %s %s", rows[0].MatchID, rows[1].MatchID)
	}
	if rows[2].MatchID != week2.ID {
		t.Errorf("rows[2] = match %s, want block 1 week 2", rows[2].MatchID)
	}
	if rows[3].MatchID != late.ID || rows[3].BlockNumber != 2 {
		t.Errorf("block 2 should come last, got match %s block %d", rows[3].MatchID, rows[3].BlockNumber)
	}

	if rows[0].PlayerName != "Mo" || rows[0].OrderIndex != 1 {
		t.Errorf("first score row = %q idx %d, want Mo idx 1", rows[0].PlayerName, rows[0].OrderIndex)
	}
	if rows[0].Scratch != 480 || rows[0].TotalHDC != 489 {
		t.Errorf("joined totals = %d/%d, want 480/489", rows[0].Scratch, rows[0].TotalHDC)
	}
	if rows[1].PlayerName != "Lena" {
		t.Errorf("second score row = %q, want Lena", rows[1].PlayerName)
	}
	if rows[2].ScoreID != "" {
		t.Errorf("scoreless match should have empty ScoreID, got %q", rows[2].ScoreID)
	}
	if rows[2].Team1Name != "Gutter Gang" || rows[2].Team2Name != "Alley Cats" {
		t.Errorf("team names not joined: %q vs %q", rows[2].Team1Name, rows[2].Team2Name)
	}
}

func TestSeedDataLoadsOutsideProd(t *testing.T) {
	t.Setenv("APP", "dev")
	s := NewMemoryStore()

	leagues, err := s.ListLeagues()
	if err != nil {
		t.Fatalf("list leagues: %v", err)
	}
	if len(leagues) == 0 {
		t.Fatal("expected a seeded league")
	}
	league := leagues[0]

	if _, ok := s.GetUserByEmail("secretary@example.com"); !ok {
		t.Error("seeded secretary account missing")
	}
	blocks, _ := s.ListBlocks(league.ID)
	if len(blocks) != 2 {
		t.Errorf("seeded blocks = %d, want 2", len(blocks))
	}
	teams, _ := s.ListTeams(league.ID)
	hasBlind := false
	for _, team := range teams {
		if team.IsBlind() {
			hasBlind = true
		}
	}
	if !hasBlind {
		t.Error("seed should include a BLIND placeholder team")
	}
	rows, err := s.FullTimetable(league.ID)
	if err != nil {
		t.Fatalf("full timetable: %v", err)
	}
	scored := 0
	for _, row := range rows {
		if row.ScoreID != "" {
			scored++
		}
	}
	if scored == 0 {
		t.Error("seed should include at least one scored match")
	}
}

func TestListPlayersOrderedByCreation(t *testing.T) {
	s := newTestStore(t)
	fx := newFixture(t, s)

	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	pb, _ := s.CreatePlayer(model.Player{LeagueID: fx.league.ID, TeamID: fx.teamA.ID, Name: "B", CreatedAt: base.Add(time.Minute)})
	pa, _ := s.CreatePlayer(model.Player{LeagueID: fx.league.ID, TeamID: fx.teamA.ID, Name: "A", CreatedAt: base})

	players, err := s.ListTeamPlayers(fx.teamA.ID)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 2 || players[0].ID != pa.ID || players[1].ID != pb.ID {
		t.Errorf("creation order not respected: %+v", players)
	}
}
