package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, t Team) error
	GetByName(ctx context.Context, leagueID, name string) (Team, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Team, error)
}
