package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	qb "github.com/riskibarqy/fantasy-draft/internal/platform/querybuilder"
)

type DraftRepository struct {
	db *sqlx.DB
}

func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

// CommitPick advances the draft atomically. Both updates carry a guard in
// their WHERE clause, so a concurrent pick that landed first leaves zero rows
// affected here and the transaction rolls back with ErrPickConflict.
func (r *DraftRepository) CommitPick(ctx context.Context, leagueID string, expectedPickIndex int, playerID, teamName string, pickedAt time.Time) (player.Player, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return player.Player{}, fmt.Errorf("begin tx for pick commit: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const advanceQuery = `
UPDATE leagues
SET current_pick_index = current_pick_index + 1,
    draft_started = TRUE,
    updated_at = NOW()
WHERE public_id = :league_public_id
  AND current_pick_index = :expected_pick_index`

	advanceSQL, advanceArgs, err := sqlx.Named(advanceQuery, map[string]any{
		"league_public_id":    leagueID,
		"expected_pick_index": expectedPickIndex,
	})
	if err != nil {
		return player.Player{}, fmt.Errorf("bind advance pick index query: %w", err)
	}
	advanceSQL = tx.Rebind(advanceSQL)

	advanced, err := tx.ExecContext(ctx, advanceSQL, advanceArgs...)
	if err != nil {
		return player.Player{}, fmt.Errorf("advance pick index: %w", err)
	}
	if n, err := advanced.RowsAffected(); err != nil {
		return player.Player{}, fmt.Errorf("advance pick index rows affected: %w", err)
	} else if n == 0 {
		return player.Player{}, fmt.Errorf("pick index moved past %d: %w", expectedPickIndex, draft.ErrPickConflict)
	}

	const claimQuery = `
UPDATE players
SET drafted_by = :team_name,
    drafted_at_pick = :pick_index,
    drafted_at = :picked_at
WHERE league_public_id = :league_public_id
  AND public_id = :player_public_id
  AND drafted_by IS NULL`

	claimSQL, claimArgs, err := sqlx.Named(claimQuery, map[string]any{
		"team_name":        teamName,
		"pick_index":       expectedPickIndex,
		"picked_at":        pickedAt,
		"league_public_id": leagueID,
		"player_public_id": playerID,
	})
	if err != nil {
		return player.Player{}, fmt.Errorf("bind claim player query: %w", err)
	}
	claimSQL = tx.Rebind(claimSQL)

	claimed, err := tx.ExecContext(ctx, claimSQL, claimArgs...)
	if err != nil {
		return player.Player{}, fmt.Errorf("claim player: %w", err)
	}
	if n, err := claimed.RowsAffected(); err != nil {
		return player.Player{}, fmt.Errorf("claim player rows affected: %w", err)
	} else if n == 0 {
		return player.Player{}, r.claimFailure(ctx, tx, leagueID, playerID)
	}

	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("public_id", playerID),
		).
		ToSQL()
	if err != nil {
		return player.Player{}, fmt.Errorf("build select picked player query: %w", err)
	}

	var row playerTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		return player.Player{}, fmt.Errorf("select picked player: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return player.Player{}, fmt.Errorf("commit pick tx: %w", err)
	}

	return row.toDomain(), nil
}

func (r *DraftRepository) claimFailure(ctx context.Context, tx *sqlx.Tx, leagueID, playerID string) error {
	query, args, err := qb.Select("drafted_by").From("players").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("public_id", playerID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build inspect claimed player query: %w", err)
	}

	var draftedBy *string
	if err := tx.GetContext(ctx, &draftedBy, query, args...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("player %s not in pool: %w", playerID, draft.ErrPlayerUnavailable)
		}
		return fmt.Errorf("inspect claimed player: %w", err)
	}

	return fmt.Errorf("player %s already drafted: %w", playerID, draft.ErrPickConflict)
}
