package player

import "context"

// BulkLoadResult reports the outcome of a pool replace or merge.
type BulkLoadResult struct {
	Inserted int
	Updated  int
	Skipped  int
	// Warnings lists drafted players that the incoming set no longer contains.
	// Their drafted facts are preserved rather than deleted.
	Warnings []string
}

// Repository describes player pool persistence needs from use cases.
type Repository interface {
	// ListAvailable returns undrafted players, optionally filtered by position,
	// ordered by rank then name.
	ListAvailable(ctx context.Context, leagueID string, position Position) ([]Player, error)
	GetByID(ctx context.Context, leagueID, playerID string) (Player, bool, error)
	// ListDrafted returns drafted players ordered most-recent-pick-first,
	// bounded by limit when limit > 0.
	ListDrafted(ctx context.Context, leagueID string, limit int) ([]Player, error)
	ListByTeam(ctx context.Context, leagueID, teamName string) ([]Player, error)
	// Replace swaps the undrafted pool for the incoming set. Players already
	// drafted are reconciled by identity key and never deleted; unmatched
	// drafted players are reported in the result warnings.
	Replace(ctx context.Context, leagueID string, players []Player) (BulkLoadResult, error)
	// Merge inserts players whose identity key is not yet present and reports
	// duplicates as skipped.
	Merge(ctx context.Context, leagueID string, players []Player) (BulkLoadResult, error)
}
