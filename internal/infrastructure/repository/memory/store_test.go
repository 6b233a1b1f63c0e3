package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/league"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
)

func newTestStore(t *testing.T) (*Store, *LeagueRepository, *PlayerRepository, *DraftRepository) {
	t.Helper()

	store := NewStore()
	leagueRepo := NewLeagueRepository(store)
	playerRepo := NewPlayerRepository(store)
	draftRepo := NewDraftRepository(store)

	err := leagueRepo.Create(context.Background(), league.League{
		ID:           "l1",
		Name:         "Test League",
		PasswordHash: "hash",
		AdminTeam:    "A",
		DraftOrder:   []string{"A", "B"},
	})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}

	return store, leagueRepo, playerRepo, draftRepo
}

func TestLeagueRepository_CreateDuplicateName(t *testing.T) {
	_, leagueRepo, _, _ := newTestStore(t)

	err := leagueRepo.Create(context.Background(), league.League{
		ID:           "l2",
		Name:         "test league",
		PasswordHash: "hash",
		AdminTeam:    "X",
	})
	if !errors.Is(err, league.ErrLeagueExists) {
		t.Fatalf("expected ErrLeagueExists, got %v", err)
	}
}

func TestLeagueRepository_UpdateConfigRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, leagueRepo, _, _ := newTestStore(t)

	err := leagueRepo.UpdateConfig(ctx, "l1", league.ConfigUpdate{
		PositionLimits: map[string]int{"QB": 1, "FLEX": 1},
		FlexEligible:   []string{"QB", "RB"},
	})
	if err != nil {
		t.Fatalf("update config: %v", err)
	}

	l, exists, err := leagueRepo.GetByID(ctx, "l1")
	if err != nil || !exists {
		t.Fatalf("get league: exists=%v err=%v", exists, err)
	}
	if l.PositionLimits["QB"] != 1 {
		t.Fatalf("position limits not stored: %+v", l.PositionLimits)
	}
	if len(l.FlexEligible) != 2 || l.FlexEligible[0] != "QB" {
		t.Fatalf("flex eligibility not stored: %+v", l.FlexEligible)
	}
	if len(l.DraftOrder) != 2 {
		t.Fatalf("nil fields must leave existing config alone: %+v", l.DraftOrder)
	}
}

func TestDraftRepository_CommitPick(t *testing.T) {
	ctx := context.Background()
	_, leagueRepo, playerRepo, draftRepo := newTestStore(t)

	if _, err := playerRepo.Merge(ctx, "l1", []player.Player{
		{ID: "p1", LeagueID: "l1", Name: "One", Position: player.PositionRunningBack},
	}); err != nil {
		t.Fatalf("merge: %v", err)
	}

	picked, err := draftRepo.CommitPick(ctx, "l1", 0, "p1", "A", time.Now())
	if err != nil {
		t.Fatalf("commit pick: %v", err)
	}
	if picked.DraftedBy != "A" || picked.DraftedAtPick != 0 {
		t.Fatalf("unexpected pick facts: %+v", picked)
	}

	l, _, err := leagueRepo.GetByID(ctx, "l1")
	if err != nil {
		t.Fatalf("get league: %v", err)
	}
	if l.CurrentPickIndex != 1 {
		t.Fatalf("expected pick index 1, got %d", l.CurrentPickIndex)
	}
	if !l.DraftStarted {
		t.Fatalf("expected draft marked started")
	}
}

func TestDraftRepository_CommitPickConflicts(t *testing.T) {
	ctx := context.Background()
	_, _, playerRepo, draftRepo := newTestStore(t)

	if _, err := playerRepo.Merge(ctx, "l1", []player.Player{
		{ID: "p1", LeagueID: "l1", Name: "One", Position: player.PositionRunningBack},
		{ID: "p2", LeagueID: "l1", Name: "Two", Position: player.PositionWideReceiver},
	}); err != nil {
		t.Fatalf("merge: %v", err)
	}

	if _, err := draftRepo.CommitPick(ctx, "l1", 0, "p1", "A", time.Now()); err != nil {
		t.Fatalf("first commit: %v", err)
	}

	// Stale pick index.
	if _, err := draftRepo.CommitPick(ctx, "l1", 0, "p2", "B", time.Now()); !errors.Is(err, draft.ErrPickConflict) {
		t.Fatalf("expected ErrPickConflict for stale index, got %v", err)
	}

	// Already-drafted player at the current index.
	if _, err := draftRepo.CommitPick(ctx, "l1", 1, "p1", "B", time.Now()); !errors.Is(err, draft.ErrPickConflict) {
		t.Fatalf("expected ErrPickConflict for drafted player, got %v", err)
	}

	// Unknown player.
	if _, err := draftRepo.CommitPick(ctx, "l1", 1, "missing", "B", time.Now()); !errors.Is(err, draft.ErrPlayerUnavailable) {
		t.Fatalf("expected ErrPlayerUnavailable, got %v", err)
	}
}

func TestPlayerRepository_ListAvailableOrdering(t *testing.T) {
	ctx := context.Background()
	_, _, playerRepo, _ := newTestStore(t)

	if _, err := playerRepo.Merge(ctx, "l1", []player.Player{
		{ID: "p1", LeagueID: "l1", Name: "Zeta", Position: player.PositionRunningBack, Rank: 2},
		{ID: "p2", LeagueID: "l1", Name: "Alpha", Position: player.PositionRunningBack},
		{ID: "p3", LeagueID: "l1", Name: "Mid", Position: player.PositionWideReceiver, Rank: 1},
	}); err != nil {
		t.Fatalf("merge: %v", err)
	}

	players, err := playerRepo.ListAvailable(ctx, "l1", "")
	if err != nil {
		t.Fatalf("list available: %v", err)
	}

	wantIDs := []string{"p3", "p1", "p2"}
	if len(players) != len(wantIDs) {
		t.Fatalf("unexpected count: %d", len(players))
	}
	for i, want := range wantIDs {
		if players[i].ID != want {
			t.Fatalf("position %d: got %s, want %s", i, players[i].ID, want)
		}
	}

	onlyWR, err := playerRepo.ListAvailable(ctx, "l1", player.PositionWideReceiver)
	if err != nil {
		t.Fatalf("list available WR: %v", err)
	}
	if len(onlyWR) != 1 || onlyWR[0].ID != "p3" {
		t.Fatalf("unexpected WR filter result: %+v", onlyWR)
	}
}

func TestPlayerRepository_ReplacePreservesDraftedFacts(t *testing.T) {
	ctx := context.Background()
	_, _, playerRepo, draftRepo := newTestStore(t)

	if _, err := playerRepo.Merge(ctx, "l1", []player.Player{
		{ID: "p1", LeagueID: "l1", Name: "Keeper", Position: player.PositionRunningBack},
		{ID: "p2", LeagueID: "l1", Name: "Gone", Position: player.PositionWideReceiver},
	}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if _, err := draftRepo.CommitPick(ctx, "l1", 0, "p1", "A", time.Now()); err != nil {
		t.Fatalf("commit: %v", err)
	}

	// New upload keeps Keeper (same identity), drops Gone, adds Fresh.
	result, err := playerRepo.Replace(ctx, "l1", []player.Player{
		{ID: "n1", LeagueID: "l1", Name: "Keeper", Position: player.PositionRunningBack, Rank: 5},
		{ID: "n2", LeagueID: "l1", Name: "Fresh", Position: player.PositionTightEnd},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if result.Updated != 1 || result.Inserted != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}

	kept, exists, err := playerRepo.GetByID(ctx, "l1", "p1")
	if err != nil || !exists {
		t.Fatalf("drafted player lost: exists=%v err=%v", exists, err)
	}
	if kept.DraftedBy != "A" || kept.Rank != 5 {
		t.Fatalf("unexpected reconciled player: %+v", kept)
	}

	if _, exists, _ := playerRepo.GetByID(ctx, "l1", "p2"); exists {
		t.Fatalf("undrafted player should have been replaced away")
	}
}

func TestPlayerRepository_ReplaceWarnsOnMissingDraftedPlayer(t *testing.T) {
	ctx := context.Background()
	_, _, playerRepo, draftRepo := newTestStore(t)

	if _, err := playerRepo.Merge(ctx, "l1", []player.Player{
		{ID: "p1", LeagueID: "l1", Name: "Keeper", Position: player.PositionRunningBack},
	}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if _, err := draftRepo.CommitPick(ctx, "l1", 0, "p1", "A", time.Now()); err != nil {
		t.Fatalf("commit: %v", err)
	}

	result, err := playerRepo.Replace(ctx, "l1", []player.Player{
		{ID: "n1", LeagueID: "l1", Name: "Other", Position: player.PositionTightEnd},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", result.Warnings)
	}

	if _, exists, _ := playerRepo.GetByID(ctx, "l1", "p1"); !exists {
		t.Fatalf("drafted player must never be deleted by replace")
	}
}

func TestPlayerRepository_ReplaceIdempotent(t *testing.T) {
	ctx := context.Background()
	_, _, playerRepo, _ := newTestStore(t)

	upload := []player.Player{
		{ID: "p1", LeagueID: "l1", Name: "One", Position: player.PositionRunningBack, Rank: 1},
		{ID: "p2", LeagueID: "l1", Name: "Two", Position: player.PositionWideReceiver, Rank: 2},
	}

	if _, err := playerRepo.Replace(ctx, "l1", upload); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	second, err := playerRepo.Replace(ctx, "l1", upload)
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}
	if second.Inserted != 0 || second.Updated != 2 {
		t.Fatalf("expected idempotent second replace, got %+v", second)
	}

	players, err := playerRepo.ListAvailable(ctx, "l1", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("unexpected pool size: %d", len(players))
	}
}
