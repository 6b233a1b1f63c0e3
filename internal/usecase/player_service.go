package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
)

// listDraftedDefaultLimit caps the recent-picks feed when the caller does not
// ask for a specific size.
const listDraftedDefaultLimit = 50

type PlayerService struct {
	playerRepo player.Repository
}

func NewPlayerService(playerRepo player.Repository) *PlayerService {
	return &PlayerService{playerRepo: playerRepo}
}

// ListAvailable returns undrafted players ordered by rank then name,
// optionally narrowed to one position.
func (s *PlayerService) ListAvailable(ctx context.Context, leagueID, position string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "PlayerService.ListAvailable")
	defer span.End()

	var pos player.Position
	if position != "" {
		parsed, err := player.ParsePosition(position)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		pos = parsed
	}

	players, err := s.playerRepo.ListAvailable(ctx, leagueID, pos)
	if err != nil {
		return nil, fmt.Errorf("list available players: %w", err)
	}

	return players, nil
}

// GetByID looks a player up within the caller's league.
func (s *PlayerService) GetByID(ctx context.Context, leagueID, playerID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "PlayerService.GetByID")
	defer span.End()

	p, exists, err := s.playerRepo.GetByID(ctx, leagueID, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}

	return p, nil
}

// ListDrafted returns committed picks, most recent first.
func (s *PlayerService) ListDrafted(ctx context.Context, leagueID string, limit int) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "PlayerService.ListDrafted")
	defer span.End()

	if limit <= 0 {
		limit = listDraftedDefaultLimit
	}

	players, err := s.playerRepo.ListDrafted(ctx, leagueID, limit)
	if err != nil {
		return nil, fmt.Errorf("list drafted players: %w", err)
	}

	return players, nil
}
