package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
)

func TestTeamService_Roster(t *testing.T) {
	f := newDraftFixture(t, []string{"Alpha", "Beta"}, nil)
	f.addPlayers(t,
		player.Player{ID: "p1", LeagueID: "l1", Name: "One", Position: player.PositionRunningBack},
		player.Player{ID: "p2", LeagueID: "l1", Name: "Two", Position: player.PositionWideReceiver},
		player.Player{ID: "p3", LeagueID: "l1", Name: "Three", Position: player.PositionRunningBack},
		player.Player{ID: "p4", LeagueID: "l1", Name: "Four", Position: player.PositionTightEnd},
	)

	ctx := context.Background()
	// Alpha drafts p1 then (snake) p4; Beta takes p2 and p3.
	for _, step := range []struct{ team, playerID string }{
		{"Alpha", "p1"}, {"Beta", "p2"}, {"Beta", "p3"}, {"Alpha", "p4"},
	} {
		if _, err := f.draftRepo.CommitPick(ctx, "l1", pickIndexOf(t, f, ctx), step.playerID, step.team, time.Now()); err != nil {
			t.Fatalf("commit %s for %s: %v", step.playerID, step.team, err)
		}
	}

	service := NewTeamService(f.teamRepo, f.playerRepo)
	roster, err := service.Roster(ctx, "l1", "Alpha")
	if err != nil {
		t.Fatalf("roster: %v", err)
	}

	if len(roster.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(roster.Players))
	}
	// Pick order, not pool order.
	if roster.Players[0].ID != "p1" || roster.Players[1].ID != "p4" {
		t.Fatalf("roster not in pick order: %+v", roster.Players)
	}
	if roster.CountsByPosition[player.PositionRunningBack] != 1 ||
		roster.CountsByPosition[player.PositionTightEnd] != 1 {
		t.Fatalf("unexpected counts: %+v", roster.CountsByPosition)
	}
	if !roster.Team.IsAdmin {
		t.Fatal("Alpha should be admin")
	}
}

func TestTeamService_RosterUnknownTeam(t *testing.T) {
	f := newDraftFixture(t, []string{"Alpha", "Beta"}, nil)

	service := NewTeamService(f.teamRepo, f.playerRepo)
	if _, err := service.Roster(context.Background(), "l1", "Ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTeamService_ListByLeague(t *testing.T) {
	f := newDraftFixture(t, []string{"Alpha", "Beta", "Gamma"}, nil)

	service := NewTeamService(f.teamRepo, f.playerRepo)
	teams, err := service.ListByLeague(context.Background(), "l1")
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(teams) != 3 {
		t.Fatalf("expected 3 teams, got %d", len(teams))
	}
	// Join order is preserved.
	if teams[0].Name != "Alpha" || teams[2].Name != "Gamma" {
		t.Fatalf("unexpected order: %+v", teams)
	}
}

func pickIndexOf(t *testing.T, f *draftFixture, ctx context.Context) int {
	t.Helper()
	l, exists, err := f.leagueRepo.GetByID(ctx, "l1")
	if err != nil || !exists {
		t.Fatalf("get league: exists=%v err=%v", exists, err)
	}
	return l.CurrentPickIndex
}
