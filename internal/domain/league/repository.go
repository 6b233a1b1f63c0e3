package league

import "context"

// ConfigUpdate carries the admin-editable fields. Nil means "leave as is".
type ConfigUpdate struct {
	DraftOrder     []string
	PositionLimits map[string]int
	FlexEligible   []string
}

// Repository describes league persistence needs from use cases.
type Repository interface {
	// Create fails with ErrLeagueExists when the name is taken.
	Create(ctx context.Context, l League) error
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetByName(ctx context.Context, name string) (League, bool, error)
	// UpdateConfig replaces draft order and/or position limits. It never
	// touches CurrentPickIndex.
	UpdateConfig(ctx context.Context, leagueID string, update ConfigUpdate) error
}
