package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/riskibarqy/fantasy-draft/internal/domain/league"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
	"github.com/riskibarqy/fantasy-draft/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-draft/internal/platform/id"
)

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

type stubTokenIssuer struct{}

func (stubTokenIssuer) Issue(principal user.Principal) (string, time.Time, error) {
	return "token-" + principal.TeamName, time.Now().Add(time.Hour), nil
}

func newLeagueFixture(t *testing.T) (*LeagueService, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	service := NewLeagueService(
		memory.NewLeagueRepository(store),
		memory.NewTeamRepository(store),
		stubTokenIssuer{},
		id.NewRandomGenerator(),
	)

	return service, store
}

func TestLeagueService_CreateLeague(t *testing.T) {
	service, _ := newLeagueFixture(t)

	session, err := service.CreateLeague(context.Background(), CreateLeagueInput{
		LeagueName: "Sunday League",
		Password:   "hunter2",
		TeamName:   "Commissioners",
	})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	if !session.IsAdmin {
		t.Fatal("creator team must be admin")
	}
	if session.Token == "" || session.LeagueID == "" {
		t.Fatalf("incomplete session: %+v", session)
	}
}

func TestLeagueService_CreateLeagueDuplicateName(t *testing.T) {
	service, _ := newLeagueFixture(t)

	ctx := context.Background()
	input := CreateLeagueInput{LeagueName: "Sunday League", Password: "hunter2", TeamName: "Commissioners"}
	if _, err := service.CreateLeague(ctx, input); err != nil {
		t.Fatalf("first create: %v", err)
	}

	input.TeamName = "Other Team"
	if _, err := service.CreateLeague(ctx, input); !errors.Is(err, league.ErrLeagueExists) {
		t.Fatalf("expected ErrLeagueExists, got %v", err)
	}
}

func TestLeagueService_CreateLeagueValidation(t *testing.T) {
	service, _ := newLeagueFixture(t)

	if _, err := service.CreateLeague(context.Background(), CreateLeagueInput{
		LeagueName: " ",
		Password:   "hunter2",
		TeamName:   "Commissioners",
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLeagueService_LoginPasswordAndAutoJoin(t *testing.T) {
	service, _ := newLeagueFixture(t)

	ctx := context.Background()
	created, err := service.CreateLeague(ctx, CreateLeagueInput{
		LeagueName: "Sunday League",
		Password:   "hunter2",
		TeamName:   "Commissioners",
	})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}

	if _, err := service.Login(ctx, LoginInput{
		LeagueName: "Sunday League",
		Password:   "wrong",
		TeamName:   "Challengers",
	}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for bad password, got %v", err)
	}

	if _, err := service.Login(ctx, LoginInput{
		LeagueName: "Unknown League",
		Password:   "hunter2",
		TeamName:   "Challengers",
	}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown league, got %v", err)
	}

	// New team name joins on first login.
	joined, err := service.Login(ctx, LoginInput{
		LeagueName: "Sunday League",
		Password:   "hunter2",
		TeamName:   "Challengers",
	})
	if err != nil {
		t.Fatalf("login new team: %v", err)
	}
	if joined.IsAdmin {
		t.Fatal("joining team must not be admin")
	}
	if joined.LeagueID != created.LeagueID {
		t.Fatalf("joined wrong league: %s", joined.LeagueID)
	}

	// Returning team keeps the admin flag from its record.
	again, err := service.Login(ctx, LoginInput{
		LeagueName: "Sunday League",
		Password:   "hunter2",
		TeamName:   "Commissioners",
	})
	if err != nil {
		t.Fatalf("login existing team: %v", err)
	}
	if !again.IsAdmin {
		t.Fatal("admin flag lost on re-login")
	}
}

func TestLeagueService_LoginLockedAfterDraftStarts(t *testing.T) {
	service, store := newLeagueFixture(t)

	ctx := context.Background()
	created, err := service.CreateLeague(ctx, CreateLeagueInput{
		LeagueName: "Sunday League",
		Password:   "hunter2",
		TeamName:   "Commissioners",
	})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}

	// Committing the first pick is what flips the draft-started flag.
	playerRepo := memory.NewPlayerRepository(store)
	if _, err := playerRepo.Merge(ctx, created.LeagueID, []player.Player{
		{ID: "p1", LeagueID: created.LeagueID, Name: "Back One", Position: player.PositionRunningBack},
	}); err != nil {
		t.Fatalf("merge players: %v", err)
	}
	if _, err := memory.NewDraftRepository(store).CommitPick(ctx, created.LeagueID, 0, "p1", "Commissioners", time.Now()); err != nil {
		t.Fatalf("commit pick: %v", err)
	}

	// Existing members still log in.
	if _, err := service.Login(ctx, LoginInput{
		LeagueName: "Sunday League",
		Password:   "hunter2",
		TeamName:   "Commissioners",
	}); err != nil {
		t.Fatalf("existing member login: %v", err)
	}

	// New names are rejected once the draft is underway.
	if _, err := service.Login(ctx, LoginInput{
		LeagueName: "Sunday League",
		Password:   "hunter2",
		TeamName:   "Latecomers",
	}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for new team after start, got %v", err)
	}
}
