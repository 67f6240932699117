package store

import (
	"math/rand"
	"time"

	"tenpin-app/internal/model"

	"github.com/google/uuid"
)

// seedData fills the memory store with a small league so the app is usable
// out of the box in dev mode.
func seedData(s *MemoryStore) {
	rng := rand.New(rand.NewSource(42))
	defaultHash := hashPassword("password123")

	secretary := model.User{
		ID:           uuid.NewString(),
		FirstName:    "Rita",
		LastName:     "Kowalczyk",
		Email:        "secretary@example.com",
		PasswordHash: defaultHash,
		Role:         model.RoleSuperAdmin,
	}
	captain := model.User{
		ID:           uuid.NewString(),
		FirstName:    "Ben",
		LastName:     "Okafor",
		Email:        "ben.okafor@example.com",
		PasswordHash: defaultHash,
		Role:         model.RoleUser,
	}
	s.users[secretary.ID] = secretary
	s.users[captain.ID] = captain

	league := model.League{
		ID:        uuid.NewString(),
		Name:      "Tuesday Night Classic",
		OwnerID:   secretary.ID,
		MemberIDs: []string{secretary.ID, captain.ID},
		CreatedAt: time.Now().AddDate(0, -2, 0),
	}
	s.leagues[league.ID] = league

	block1 := model.Block{ID: uuid.NewString(), LeagueID: league.ID, Number: 1}
	block2 := model.Block{ID: uuid.NewString(), LeagueID: league.ID, Number: 2}
	s.blocks[block1.ID] = block1
	s.blocks[block2.ID] = block2

	rosters := map[string][]string{
		"Strikers":      {"Pat Molloy", "Dana Reyes", "Chris Waters", "Iza Lewin"},
		"Pin Pals":      {"Sam Carver", "Jo Nakamura", "Lee Brandt", "Mia Torres"},
		"Split Happens": {"Ada Brook", "Tom Siek", "Nina Falk", "Gus Pearce"},
		"BLIND":         nil,
	}
	teamIDs := map[string]string{}
	teamPlayers := map[string][]model.Player{}
	for name, roster := range rosters {
		team := model.Team{
			ID:        uuid.NewString(),
			LeagueID:  league.ID,
			Name:      name,
			CreatedAt: league.CreatedAt,
		}
		s.teams[team.ID] = team
		teamIDs[name] = team.ID
		for i, playerName := range roster {
			player := model.Player{
				ID:        uuid.NewString(),
				LeagueID:  league.ID,
				TeamID:    team.ID,
				Name:      playerName,
				Status:    model.PlayerActive,
				CreatedAt: league.CreatedAt.Add(time.Duration(i) * time.Minute),
			}
			if playerName == "Gus Pearce" {
				player.Status = model.PlayerInactive
			}
			s.players[player.ID] = player
			teamPlayers[name] = append(teamPlayers[name], player)
		}
	}

	fixtures := []struct {
		block model.Block
		week  int
		lane  string
		team1 string
		team2 string
	}{
		{block1, 1, "1-2", "Strikers", "Pin Pals"},
		{block1, 1, "3-4", "Split Happens", "BLIND"},
		{block1, 2, "1-2", "Strikers", "Split Happens"},
		{block1, 2, "3-4", "Pin Pals", "BLIND"},
		{block2, 1, "1-2", "Pin Pals", "Split Happens"},
		{block2, 1, "3-4", "Strikers", "BLIND"},
	}
	for i, f := range fixtures {
		match := model.Match{
			ID:         uuid.NewString(),
			LeagueID:   league.ID,
			BlockID:    f.block.ID,
			WeekNumber: f.week,
			Lane:       f.lane,
			Team1ID:    teamIDs[f.team1],
			Team2ID:    teamIDs[f.team2],
			CreatedAt:  league.CreatedAt.AddDate(0, 0, i),
		}
		s.matches[match.ID] = match
		// The first two fixtures already have scores on both sides.
		if i < 2 {
			seedMatchScores(s, rng, match, teamPlayers[f.team1])
			seedMatchScores(s, rng, match, teamPlayers[f.team2])
		}
	}
}

func seedMatchScores(s *MemoryStore, rng *rand.Rand, match model.Match, players []model.Player) {
	for i, player := range players {
		if player.Status != model.PlayerActive {
			continue
		}
		score := model.WeeklyScore{
			ID:         uuid.NewString(),
			MatchID:    match.ID,
			TeamID:     player.TeamID,
			PlayerID:   player.ID,
			G1:         120 + rng.Intn(120),
			G2:         120 + rng.Intn(120),
			G3:         120 + rng.Intn(120),
			HDC:        5 * rng.Intn(8),
			OrderIndex: i + 1,
			CreatedAt:  match.CreatedAt,
		}
		score.Recompute()
		s.scores[score.ID] = score
	}
}
