package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"tenpin-app/internal/model"
	"tenpin-app/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	t.Setenv("APP", "prod")
	st := store.NewMemoryStore()
	return NewServer(st, nil), st
}

func TestParseScoreLinesSkipsEmptyRows(t *testing.T) {
	players := []model.Player{
		{ID: "p1", Name: "Mo"},
		{ID: "p2", Name: "Lena"},
		{ID: "p3", Name: "Gus"},
	}
	form := url.Values{
		"g1_p1":  {"150"},
		"g2_p1":  {"180"},
		"g3_p1":  {"210"},
		"hdc_p1": {"12"},
		"g1_p2":  {"0"},
		"g2_p2":  {""},
		"g3_p2":  {"garbage"},
	}
	r := httptest.NewRequest(http.MethodPost, "/matches/m1/scores", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if err := r.ParseForm(); err != nil {
		t.Fatalf("parse form: %v", err)
	}

	lines := parseScoreLines(r, players)
	if len(lines) != 1 {
		t.Fatalf("line count = %d, want 1", len(lines))
	}
	line := lines[0]
	if line.PlayerID != "p1" || line.G1 != 150 || line.G2 != 180 || line.G3 != 210 || line.HDC != 12 {
		t.Errorf("unexpected line: %+v", line)
	}
}

func TestParseGameClamps(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"200", 200},
		{" 210 ", 210},
		{"-5", 0},
		{"301", 300},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := parseGame(tt.in); got != tt.want {
			t.Errorf("parseGame(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLeaguesForUserFiltersByMembership(t *testing.T) {
	s, st := newTestServer(t)

	owner, _ := st.CreateUser(model.User{FirstName: "Owner", Email: "owner@example.com"})
	member, _ := st.CreateUser(model.User{FirstName: "Member", Email: "member@example.com"})
	outsider, _ := st.CreateUser(model.User{FirstName: "Out", Email: "out@example.com"})
	super, _ := st.CreateUser(model.User{FirstName: "Root", Email: "root@example.com", Role: model.RoleSuperAdmin})

	mine, _ := st.CreateLeague(model.League{Name: "Mine", OwnerID: owner.ID})
	joined, _ := st.CreateLeague(model.League{Name: "Joined", OwnerID: outsider.ID, MemberIDs: []string{member.ID}})
	if _, err := st.CreateLeague(model.League{Name: "Other", OwnerID: outsider.ID}); err != nil {
		t.Fatalf("create league: %v", err)
	}

	got, err := s.leaguesForUser(owner)
	if err != nil {
		t.Fatalf("leaguesForUser: %v", err)
	}
	if len(got) != 1 || got[0].ID != mine.ID {
		t.Errorf("owner sees %v, want just own league", got)
	}

	got, _ = s.leaguesForUser(member)
	if len(got) != 1 || got[0].ID != joined.ID {
		t.Errorf("member sees %v, want just joined league", got)
	}

	got, _ = s.leaguesForUser(super)
	if len(got) != 3 {
		t.Errorf("super admin sees %d leagues, want all 3", len(got))
	}

	got, _ = s.leaguesForUser(model.User{})
	if len(got) != 0 {
		t.Errorf("anonymous sees %d leagues, want none", len(got))
	}
}

func TestLaneFree(t *testing.T) {
	s, st := newTestServer(t)

	league, _ := st.CreateLeague(model.League{Name: "L"})
	block, _ := st.CreateBlock(model.Block{LeagueID: league.ID, Number: 1})
	other, _ := st.CreateBlock(model.Block{LeagueID: league.ID, Number: 2})
	t1, _ := st.CreateTeam(model.Team{LeagueID: league.ID, Name: "A"})
	t2, _ := st.CreateTeam(model.Team{LeagueID: league.ID, Name: "B"})
	if _, err := st.CreateMatch(model.Match{
		LeagueID: league.ID, BlockID: block.ID, WeekNumber: 3, Lane: "5-6",
		Team1ID: t1.ID, Team2ID: t2.ID,
	}); err != nil {
		t.Fatalf("create match: %v", err)
	}

	tests := []struct {
		name    string
		blockID string
		week    int
		lane    string
		want    bool
	}{
		{"taken", block.ID, 3, "5-6", false},
		{"other lane", block.ID, 3, "7-8", true},
		{"other week", block.ID, 4, "5-6", true},
		{"other block", other.ID, 3, "5-6", true},
	}
	for _, tt := range tests {
		free, err := s.laneFree(league.ID, tt.blockID, tt.week, tt.lane)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if free != tt.want {
			t.Errorf("%s: laneFree = %v, want %v", tt.name, free, tt.want)
		}
	}
}

func TestSearchPlayersRanksFuzzyMatches(t *testing.T) {
	s, st := newTestServer(t)

	league, _ := st.CreateLeague(model.League{Name: "L"})
	team, _ := st.CreateTeam(model.Team{LeagueID: league.ID, Name: "Strikers"})
	for _, name := range []string{"Marta Nowak", "Mark Spencer", "Lena Holt"} {
		if _, err := st.CreatePlayer(model.Player{LeagueID: league.ID, TeamID: team.ID, Name: name}); err != nil {
			t.Fatalf("create player: %v", err)
		}
	}
	players, _ := st.ListLeaguePlayers(league.ID)

	results := s.searchPlayers(players, "mar")
	if len(results) != 2 {
		t.Fatalf("result count = %d, want 2", len(results))
	}
	for _, result := range results {
		if !strings.HasPrefix(result.Player.Name, "Mar") {
			t.Errorf("unexpected match %q", result.Player.Name)
		}
		if result.TeamName != "Strikers" {
			t.Errorf("team name = %q, want Strikers", result.TeamName)
		}
	}

	if got := s.searchPlayers(players, "zzz"); len(got) != 0 {
		t.Errorf("no-match query returned %d results", len(got))
	}
}

func TestWithCurrentUserRedirectsAnonymous(t *testing.T) {
	t.Setenv("APP", "prod")
	st := store.NewMemoryStore()
	user, _ := st.CreateUser(model.User{FirstName: "Ada", Email: "ada@example.com"})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := WithCurrentUser(st, next)

	tests := []struct {
		name       string
		path       string
		cookie     string
		wantStatus int
	}{
		{"anonymous redirect", "/", "", http.StatusSeeOther},
		{"bad cookie redirect", "/", "nope", http.StatusSeeOther},
		{"authenticated pass", "/", user.ID, http.StatusOK},
		{"login is public", "/login", "", http.StatusOK},
		{"static is public", "/static/css/app.css", "", http.StatusOK},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.cookie != "" {
			r.AddCookie(&http.Cookie{Name: userCookieName, Value: tt.cookie})
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		if w.Code != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d", tt.name, w.Code, tt.wantStatus)
		}
	}
}

func TestFlashMessageKnownNotices(t *testing.T) {
	if flashMessage("scores_saved") == "" {
		t.Error("scores_saved should map to a message")
	}
	if flashMessage("unknown") != "" {
		t.Error("unknown notice should be empty")
	}
}
