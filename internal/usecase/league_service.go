package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/riskibarqy/fantasy-draft/internal/domain/league"
	"github.com/riskibarqy/fantasy-draft/internal/domain/team"
	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
	"github.com/riskibarqy/fantasy-draft/internal/platform/id"
)

// TokenIssuer mints the access token handed back by create and login.
type TokenIssuer interface {
	Issue(principal user.Principal) (string, time.Time, error)
}

type CreateLeagueInput struct {
	LeagueName string
	Password   string
	TeamName   string
}

type LoginInput struct {
	LeagueName string
	Password   string
	TeamName   string
}

// Session is the authenticated result of creating or joining a league.
type Session struct {
	Token     string
	ExpiresAt time.Time
	LeagueID  string
	TeamName  string
	IsAdmin   bool
}

type LeagueService struct {
	leagueRepo league.Repository
	teamRepo   team.Repository
	tokens     TokenIssuer
	idGen      id.Generator
	now        func() time.Time
}

func NewLeagueService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	tokens TokenIssuer,
	idGen id.Generator,
) *LeagueService {
	return &LeagueService{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		tokens:     tokens,
		idGen:      idGen,
		now:        time.Now,
	}
}

// CreateLeague registers a league and its admin team in one step. The
// creating team administers the league and is logged in immediately.
func (s *LeagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (Session, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.CreateLeague")
	defer span.End()

	leagueName := strings.TrimSpace(input.LeagueName)
	teamName := strings.TrimSpace(input.TeamName)
	if leagueName == "" || teamName == "" || input.Password == "" {
		return Session{}, fmt.Errorf("%w: league name, team name and password are required", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash league password: %w", err)
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return Session{}, fmt.Errorf("generate league id: %w", err)
	}

	newLeague := league.League{
		ID:           leagueID,
		Name:         leagueName,
		PasswordHash: string(hash),
		AdminTeam:    teamName,
		CreatedAt:    s.now().UTC(),
	}
	if err := newLeague.Validate(); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.leagueRepo.Create(ctx, newLeague); err != nil {
		return Session{}, err
	}

	if err := s.joinTeam(ctx, leagueID, teamName, true); err != nil {
		return Session{}, err
	}

	return s.openSession(user.Principal{
		LeagueID: leagueID,
		TeamName: teamName,
		IsAdmin:  true,
	})
}

// Login authenticates against the league password and resolves the caller's
// team. Unknown teams auto-join while the draft has not started; once the
// first pick lands the member list is frozen and new names are rejected.
func (s *LeagueService) Login(ctx context.Context, input LoginInput) (Session, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.Login")
	defer span.End()

	leagueName := strings.TrimSpace(input.LeagueName)
	teamName := strings.TrimSpace(input.TeamName)
	if leagueName == "" || teamName == "" || input.Password == "" {
		return Session{}, fmt.Errorf("%w: league name, team name and password are required", ErrInvalidInput)
	}

	l, exists, err := s.leagueRepo.GetByName(ctx, leagueName)
	if err != nil {
		return Session{}, fmt.Errorf("get league by name: %w", err)
	}
	if !exists {
		return Session{}, fmt.Errorf("%w: invalid league or password", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(l.PasswordHash), []byte(input.Password)); err != nil {
		return Session{}, fmt.Errorf("%w: invalid league or password", ErrUnauthorized)
	}

	member, exists, err := s.teamRepo.GetByName(ctx, l.ID, teamName)
	if err != nil {
		return Session{}, fmt.Errorf("get team by name: %w", err)
	}
	if exists {
		return s.openSession(user.Principal{
			LeagueID: l.ID,
			TeamName: member.Name,
			IsAdmin:  member.IsAdmin,
		})
	}

	if l.DraftStarted {
		return Session{}, fmt.Errorf("%w: league is locked once the draft starts", ErrForbidden)
	}
	if err := s.joinTeam(ctx, l.ID, teamName, false); err != nil {
		return Session{}, err
	}

	return s.openSession(user.Principal{
		LeagueID: l.ID,
		TeamName: teamName,
		IsAdmin:  false,
	})
}

func (s *LeagueService) joinTeam(ctx context.Context, leagueID, teamName string, isAdmin bool) error {
	teamID, err := s.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate team id: %w", err)
	}

	newTeam := team.Team{
		ID:       teamID,
		LeagueID: leagueID,
		Name:     teamName,
		IsAdmin:  isAdmin,
		JoinedAt: s.now().UTC(),
	}
	if err := newTeam.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.teamRepo.Create(ctx, newTeam); err != nil {
		return fmt.Errorf("create team: %w", err)
	}

	return nil
}

func (s *LeagueService) openSession(principal user.Principal) (Session, error) {
	token, expiresAt, err := s.tokens.Issue(principal)
	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}

	return Session{
		Token:     token,
		ExpiresAt: expiresAt,
		LeagueID:  principal.LeagueID,
		TeamName:  principal.TeamName,
		IsAdmin:   principal.IsAdmin,
	}, nil
}
