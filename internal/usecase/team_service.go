package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/team"
)

// TeamRoster is a team's committed picks in pick order, with per-position
// counts derived on read. Counts are never stored; the drafted facts on
// players are the single source of truth.
type TeamRoster struct {
	Team             team.Team
	Players          []player.Player
	CountsByPosition map[player.Position]int
}

type TeamService struct {
	teamRepo   team.Repository
	playerRepo player.Repository
}

func NewTeamService(teamRepo team.Repository, playerRepo player.Repository) *TeamService {
	return &TeamService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
	}
}

func (s *TeamService) Roster(ctx context.Context, leagueID, teamName string) (TeamRoster, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamService.Roster")
	defer span.End()

	member, exists, err := s.teamRepo.GetByName(ctx, leagueID, teamName)
	if err != nil {
		return TeamRoster{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return TeamRoster{}, fmt.Errorf("%w: team %q", ErrNotFound, teamName)
	}

	roster, err := s.playerRepo.ListByTeam(ctx, leagueID, member.Name)
	if err != nil {
		return TeamRoster{}, fmt.Errorf("list team roster: %w", err)
	}

	counts := make(map[player.Position]int, len(roster))
	for _, p := range roster {
		counts[p.Position]++
	}

	return TeamRoster{
		Team:             member,
		Players:          roster,
		CountsByPosition: counts,
	}, nil
}

func (s *TeamService) ListByLeague(ctx context.Context, leagueID string) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamService.ListByLeague")
	defer span.End()

	teams, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return teams, nil
}
