package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/league"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/team"
	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
	cacherepo "github.com/riskibarqy/fantasy-draft/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-draft/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/fantasy-draft/internal/platform/cache"
)

type draftFixture struct {
	store      *memory.Store
	leagueRepo *memory.LeagueRepository
	teamRepo   *memory.TeamRepository
	playerRepo *memory.PlayerRepository
	draftRepo  *memory.DraftRepository
	service    *DraftService
}

func newDraftFixture(t *testing.T, order []string, limits map[string]int) *draftFixture {
	t.Helper()

	store := memory.NewStore()
	f := &draftFixture{
		store:      store,
		leagueRepo: memory.NewLeagueRepository(store),
		teamRepo:   memory.NewTeamRepository(store),
		playerRepo: memory.NewPlayerRepository(store),
		draftRepo:  memory.NewDraftRepository(store),
	}
	f.service = NewDraftService(f.leagueRepo, f.teamRepo, f.playerRepo, f.draftRepo)

	ctx := context.Background()
	err := f.leagueRepo.Create(ctx, league.League{
		ID:             "l1",
		Name:           "Test League",
		PasswordHash:   "hash",
		AdminTeam:      "Alpha",
		DraftOrder:     order,
		PositionLimits: limits,
		CreatedAt:      time.Now(),
	})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}

	for i, name := range order {
		err := f.teamRepo.Create(ctx, team.Team{
			ID:       fmt.Sprintf("t%d", i),
			LeagueID: "l1",
			Name:     name,
			IsAdmin:  i == 0,
			JoinedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("create team %s: %v", name, err)
		}
	}

	return f
}

func (f *draftFixture) addPlayers(t *testing.T, players ...player.Player) {
	t.Helper()
	if _, err := f.playerRepo.Merge(context.Background(), "l1", players); err != nil {
		t.Fatalf("merge players: %v", err)
	}
}

func principalFor(teamName string, admin bool) user.Principal {
	return user.Principal{LeagueID: "l1", TeamName: teamName, IsAdmin: admin}
}

func TestDraftService_AttemptPickSnakeProgression(t *testing.T) {
	f := newDraftFixture(t, []string{"Alpha", "Beta"}, nil)
	f.addPlayers(t,
		player.Player{ID: "p1", LeagueID: "l1", Name: "One", Position: player.PositionRunningBack},
		player.Player{ID: "p2", LeagueID: "l1", Name: "Two", Position: player.PositionWideReceiver},
		player.Player{ID: "p3", LeagueID: "l1", Name: "Three", Position: player.PositionQuarterback},
		player.Player{ID: "p4", LeagueID: "l1", Name: "Four", Position: player.PositionTightEnd},
	)

	ctx := context.Background()
	// Snake over two teams: Alpha, Beta, Beta, Alpha.
	sequence := []struct {
		team     string
		playerID string
	}{
		{"Alpha", "p1"},
		{"Beta", "p2"},
		{"Beta", "p3"},
		{"Alpha", "p4"},
	}

	for i, step := range sequence {
		result, err := f.service.AttemptPick(ctx, principalFor(step.team, false), step.playerID)
		if err != nil {
			t.Fatalf("pick %d by %s: %v", i, step.team, err)
		}
		if result.Player.DraftedBy != step.team {
			t.Fatalf("pick %d: drafted by %s, want %s", i, result.Player.DraftedBy, step.team)
		}
		if result.State.CurrentPickIndex != i+1 {
			t.Fatalf("pick %d: index advanced to %d, want %d", i, result.State.CurrentPickIndex, i+1)
		}
	}
}

func TestDraftService_AttemptPickOutOfTurn(t *testing.T) {
	f := newDraftFixture(t, []string{"Alpha", "Beta"}, nil)
	f.addPlayers(t, player.Player{ID: "p1", LeagueID: "l1", Name: "One", Position: player.PositionRunningBack})

	_, err := f.service.AttemptPick(context.Background(), principalFor("Beta", false), "p1")
	if !errors.Is(err, draft.ErrOutOfTurn) {
		t.Fatalf("expected ErrOutOfTurn, got %v", err)
	}
}

func TestDraftService_AttemptPickNotConfigured(t *testing.T) {
	f := newDraftFixture(t, nil, nil)

	ctx := context.Background()
	if err := f.teamRepo.Create(ctx, team.Team{ID: "t0", LeagueID: "l1", Name: "Alpha", IsAdmin: true, JoinedAt: time.Now()}); err != nil {
		t.Fatalf("create team: %v", err)
	}
	f.addPlayers(t, player.Player{ID: "p1", LeagueID: "l1", Name: "One", Position: player.PositionRunningBack})

	if _, err := f.service.AttemptPick(ctx, principalFor("Alpha", true), "p1"); !errors.Is(err, draft.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestDraftService_AttemptPickPlayerUnavailable(t *testing.T) {
	f := newDraftFixture(t, []string{"Alpha", "Beta"}, nil)
	f.addPlayers(t, player.Player{ID: "p1", LeagueID: "l1", Name: "One", Position: player.PositionRunningBack})

	ctx := context.Background()
	if _, err := f.service.AttemptPick(ctx, principalFor("Alpha", false), "missing"); !errors.Is(err, draft.ErrPlayerUnavailable) {
		t.Fatalf("expected ErrPlayerUnavailable for unknown player, got %v", err)
	}

	if _, err := f.service.AttemptPick(ctx, principalFor("Alpha", false), "p1"); err != nil {
		t.Fatalf("first pick: %v", err)
	}
	if _, err := f.service.AttemptPick(ctx, principalFor("Beta", false), "p1"); !errors.Is(err, draft.ErrPlayerUnavailable) {
		t.Fatalf("expected ErrPlayerUnavailable for drafted player, got %v", err)
	}
}

func TestDraftService_AttemptPickRosterFull(t *testing.T) {
	f := newDraftFixture(t, []string{"Alpha", "Beta"}, map[string]int{"RB": 1, "FLEX": 0, "QB": 1})
	f.addPlayers(t,
		player.Player{ID: "rb1", LeagueID: "l1", Name: "Back One", Position: player.PositionRunningBack},
		player.Player{ID: "rb2", LeagueID: "l1", Name: "Back Two", Position: player.PositionRunningBack},
		player.Player{ID: "rb3", LeagueID: "l1", Name: "Back Three", Position: player.PositionRunningBack},
		player.Player{ID: "qb1", LeagueID: "l1", Name: "Quarter", Position: player.PositionQuarterback},
	)

	ctx := context.Background()
	if _, err := f.service.AttemptPick(ctx, principalFor("Alpha", false), "rb1"); err != nil {
		t.Fatalf("alpha pick 1: %v", err)
	}
	if _, err := f.service.AttemptPick(ctx, principalFor("Beta", false), "rb2"); err != nil {
		t.Fatalf("beta pick 1: %v", err)
	}

	// Beta picks again (snake) but the RB slot is full and FLEX is closed.
	if _, err := f.service.AttemptPick(ctx, principalFor("Beta", false), "rb3"); !errors.Is(err, draft.ErrRosterFull) {
		t.Fatalf("expected ErrRosterFull, got %v", err)
	}

	// A different position still works.
	if _, err := f.service.AttemptPick(ctx, principalFor("Beta", false), "qb1"); err != nil {
		t.Fatalf("beta qb pick: %v", err)
	}
}

func TestDraftService_BackToBackPicksCountFreshRoster(t *testing.T) {
	store := memory.NewStore()
	cacheStore := basecache.NewStore(time.Minute)
	playerRepo := cacherepo.NewPlayerRepository(memory.NewPlayerRepository(store), cacheStore)
	draftRepo := cacherepo.NewDraftRepository(memory.NewDraftRepository(store), playerRepo)
	leagueRepo := memory.NewLeagueRepository(store)
	teamRepo := memory.NewTeamRepository(store)
	service := NewDraftService(leagueRepo, teamRepo, playerRepo, draftRepo)

	ctx := context.Background()
	order := []string{"Alpha", "Beta"}
	err := leagueRepo.Create(ctx, league.League{
		ID:             "l1",
		Name:           "Test League",
		PasswordHash:   "hash",
		AdminTeam:      "Alpha",
		DraftOrder:     order,
		PositionLimits: map[string]int{"RB": 1, "FLEX": 0},
		CreatedAt:      time.Now(),
	})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	for i, name := range order {
		err := teamRepo.Create(ctx, team.Team{ID: fmt.Sprintf("t%d", i), LeagueID: "l1", Name: name, IsAdmin: i == 0, JoinedAt: time.Now()})
		if err != nil {
			t.Fatalf("create team %s: %v", name, err)
		}
	}
	_, err = playerRepo.Merge(ctx, "l1", []player.Player{
		{ID: "rb1", LeagueID: "l1", Name: "Back One", Position: player.PositionRunningBack},
		{ID: "rb2", LeagueID: "l1", Name: "Back Two", Position: player.PositionRunningBack},
		{ID: "rb3", LeagueID: "l1", Name: "Back Three", Position: player.PositionRunningBack},
	})
	if err != nil {
		t.Fatalf("merge players: %v", err)
	}

	if _, err := service.AttemptPick(ctx, principalFor("Alpha", false), "rb1"); err != nil {
		t.Fatalf("alpha pick: %v", err)
	}
	if _, err := service.AttemptPick(ctx, principalFor("Beta", false), "rb2"); err != nil {
		t.Fatalf("beta pick: %v", err)
	}

	// A roster load that raced Beta's commit re-stores the pre-pick roster
	// after the commit's invalidation. Beta's snake follow-up must still see
	// the committed pick and hit the limit.
	cacheStore.Set(ctx, "player:l1:team:Beta", []player.Player{})
	if _, err := service.AttemptPick(ctx, principalFor("Beta", false), "rb3"); !errors.Is(err, draft.ErrRosterFull) {
		t.Fatalf("expected ErrRosterFull on back-to-back pick, got %v", err)
	}
}

func TestDraftService_ConcurrentPicksSingleAssignment(t *testing.T) {
	f := newDraftFixture(t, []string{"Alpha", "Beta"}, nil)

	const poolSize = 16
	players := make([]player.Player, 0, poolSize)
	for i := 0; i < poolSize; i++ {
		players = append(players, player.Player{
			ID:       fmt.Sprintf("p%d", i),
			LeagueID: "l1",
			Name:     fmt.Sprintf("Player %02d", i),
			Position: player.PositionRunningBack,
		})
	}
	f.addPlayers(t, players...)

	// The on-clock team fires many picks for distinct players at once.
	// Exactly one commit may land; the pick index moves by one.
	ctx := context.Background()
	var successes atomic.Int32
	var wg conc.WaitGroup
	for i := 0; i < poolSize; i++ {
		playerID := fmt.Sprintf("p%d", i)
		wg.Go(func() {
			if _, err := f.service.AttemptPick(ctx, principalFor("Alpha", false), playerID); err == nil {
				successes.Add(1)
			}
		})
	}
	wg.Wait()

	if got := successes.Load(); got != 1 {
		t.Fatalf("expected exactly one successful pick, got %d", got)
	}

	state, err := f.service.State(ctx, "l1")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.CurrentPickIndex != 1 {
		t.Fatalf("pick index should advance exactly once, got %d", state.CurrentPickIndex)
	}

	drafted, err := f.playerRepo.ListDrafted(ctx, "l1", 0)
	if err != nil {
		t.Fatalf("list drafted: %v", err)
	}
	if len(drafted) != 1 {
		t.Fatalf("expected one drafted player, got %d", len(drafted))
	}
}

func TestDraftService_UpdateConfig(t *testing.T) {
	f := newDraftFixture(t, []string{"Alpha", "Beta"}, nil)

	ctx := context.Background()
	if _, err := f.service.UpdateConfig(ctx, principalFor("Beta", false), DraftConfigInput{
		DraftOrder: []string{"Beta", "Alpha"},
	}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}

	if _, err := f.service.UpdateConfig(ctx, principalFor("Alpha", true), DraftConfigInput{
		DraftOrder: []string{"Alpha", "alpha"},
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate team, got %v", err)
	}

	if _, err := f.service.UpdateConfig(ctx, principalFor("Alpha", true), DraftConfigInput{
		DraftOrder: []string{"Alpha", "Ghost"},
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown team, got %v", err)
	}

	state, err := f.service.UpdateConfig(ctx, principalFor("Alpha", true), DraftConfigInput{
		DraftOrder:     []string{"Beta", "Alpha"},
		PositionLimits: map[string]int{"RB": 2, "FLEX": 1},
	})
	if err != nil {
		t.Fatalf("update config: %v", err)
	}
	if state.CurrentTeam != "Beta" {
		t.Fatalf("expected Beta on the clock, got %s", state.CurrentTeam)
	}
	if state.PositionLimits["RB"] != 2 {
		t.Fatalf("position limits not applied: %+v", state.PositionLimits)
	}
}

func TestDraftService_UpdateConfigFlexEligibility(t *testing.T) {
	f := newDraftFixture(t, []string{"Alpha", "Beta"}, map[string]int{"QB": 1, "FLEX": 1})
	f.addPlayers(t,
		player.Player{ID: "qb1", LeagueID: "l1", Name: "Quarter One", Position: player.PositionQuarterback},
		player.Player{ID: "qb2", LeagueID: "l1", Name: "Quarter Two", Position: player.PositionQuarterback},
		player.Player{ID: "rb1", LeagueID: "l1", Name: "Back One", Position: player.PositionRunningBack},
		player.Player{ID: "rb2", LeagueID: "l1", Name: "Back Two", Position: player.PositionRunningBack},
	)

	ctx := context.Background()
	if _, err := f.service.AttemptPick(ctx, principalFor("Alpha", false), "qb1"); err != nil {
		t.Fatalf("alpha pick 1: %v", err)
	}
	if _, err := f.service.AttemptPick(ctx, principalFor("Beta", false), "rb1"); err != nil {
		t.Fatalf("beta pick 1: %v", err)
	}
	if _, err := f.service.AttemptPick(ctx, principalFor("Beta", false), "rb2"); err != nil {
		t.Fatalf("beta pick 2: %v", err)
	}

	// Default eligibility keeps quarterbacks out of the flex bucket.
	if _, err := f.service.AttemptPick(ctx, principalFor("Alpha", false), "qb2"); !errors.Is(err, draft.ErrRosterFull) {
		t.Fatalf("expected ErrRosterFull under default eligibility, got %v", err)
	}

	// The admin opens the flex bucket to quarterbacks; codes are normalized.
	state, err := f.service.UpdateConfig(ctx, principalFor("Alpha", true), DraftConfigInput{
		FlexEligible: []string{"qb"},
	})
	if err != nil {
		t.Fatalf("update flex eligibility: %v", err)
	}
	if len(state.FlexEligible) != 1 || state.FlexEligible[0] != "QB" {
		t.Fatalf("flex eligibility not applied: %+v", state.FlexEligible)
	}

	// The same pick now lands in the flex slot.
	result, err := f.service.AttemptPick(ctx, principalFor("Alpha", false), "qb2")
	if err != nil {
		t.Fatalf("flex pick: %v", err)
	}
	if result.Player.DraftedBy != "Alpha" {
		t.Fatalf("unexpected pick owner: %s", result.Player.DraftedBy)
	}
}

func TestDraftService_UpdateConfigFlexEligibilityValidation(t *testing.T) {
	f := newDraftFixture(t, []string{"Alpha", "Beta"}, nil)

	ctx := context.Background()
	cases := []struct {
		name     string
		eligible []string
	}{
		{name: "empty list", eligible: []string{}},
		{name: "flex is not a position", eligible: []string{"FLEX"}},
		{name: "unknown position", eligible: []string{"GOALIE"}},
		{name: "duplicate position", eligible: []string{"RB", "rb"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.UpdateConfig(ctx, principalFor("Alpha", true), DraftConfigInput{
				FlexEligible: tc.eligible,
			})
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestDraftService_UpdateConfigNeverRewindsPickIndex(t *testing.T) {
	f := newDraftFixture(t, []string{"Alpha", "Beta"}, nil)
	f.addPlayers(t, player.Player{ID: "p1", LeagueID: "l1", Name: "One", Position: player.PositionRunningBack})

	ctx := context.Background()
	if _, err := f.service.AttemptPick(ctx, principalFor("Alpha", false), "p1"); err != nil {
		t.Fatalf("pick: %v", err)
	}

	state, err := f.service.UpdateConfig(ctx, principalFor("Alpha", true), DraftConfigInput{
		DraftOrder: []string{"Beta", "Alpha"},
	})
	if err != nil {
		t.Fatalf("update config: %v", err)
	}
	if state.CurrentPickIndex != 1 {
		t.Fatalf("config update must not rewind the pick index, got %d", state.CurrentPickIndex)
	}

	// The committed pick is a stored fact, unaffected by the new order.
	drafted, err := f.playerRepo.ListDrafted(ctx, "l1", 0)
	if err != nil {
		t.Fatalf("list drafted: %v", err)
	}
	if len(drafted) != 1 || drafted[0].DraftedBy != "Alpha" {
		t.Fatalf("committed pick changed: %+v", drafted)
	}
}

func TestDraftService_UpcomingPicks(t *testing.T) {
	f := newDraftFixture(t, []string{"Alpha", "Beta", "Gamma"}, nil)

	picks, err := f.service.UpcomingPicks(context.Background(), "l1", 6)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}

	want := []string{"Alpha", "Beta", "Gamma", "Gamma", "Beta", "Alpha"}
	if len(picks) != len(want) {
		t.Fatalf("unexpected count: %d", len(picks))
	}
	for i, name := range want {
		if picks[i].TeamName != name {
			t.Fatalf("pick %d: got %s, want %s", i, picks[i].TeamName, name)
		}
	}
}
