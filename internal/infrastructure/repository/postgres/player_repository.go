package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	qb "github.com/riskibarqy/fantasy-draft/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Unranked players (rank 0) sort after ranked ones.
const availableOrder = `(rank = 0), rank, LOWER(name)`

func (r *PlayerRepository) ListAvailable(ctx context.Context, leagueID string, position player.Position) ([]player.Player, error) {
	conditions := []qb.Condition{
		qb.Eq("league_public_id", leagueID),
		qb.IsNull("drafted_by"),
	}
	if position != "" {
		conditions = append(conditions, qb.Eq("position", string(position)))
	}

	query, args, err := qb.Select("*").From("players").
		Where(conditions...).
		OrderBy(availableOrder).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list available players query: %w", err)
	}

	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) GetByID(ctx context.Context, leagueID, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("public_id", playerID),
		).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player by id query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) ListDrafted(ctx context.Context, leagueID string, limit int) ([]player.Player, error) {
	builder := qb.Select("*").From("players").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNotNull("drafted_by"),
		).
		OrderBy("drafted_at_pick DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list drafted players query: %w", err)
	}

	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, leagueID, teamName string) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Expr("LOWER(drafted_by) = ?", nameKey(teamName)),
		).
		OrderBy("drafted_at_pick").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players by team query: %w", err)
	}

	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) Replace(ctx context.Context, leagueID string, players []player.Player) (player.BulkLoadResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return player.BulkLoadResult{}, fmt.Errorf("begin tx for player replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	existing, drafted, err := identitySets(ctx, tx, leagueID)
	if err != nil {
		return player.BulkLoadResult{}, err
	}

	var result player.BulkLoadResult
	incoming := make(map[string]struct{}, len(players))
	for _, p := range players {
		key := p.IdentityKey()
		if _, dup := incoming[key]; dup {
			result.Skipped++
			continue
		}
		incoming[key] = struct{}{}

		if err := upsertPlayer(ctx, tx, leagueID, p); err != nil {
			return player.BulkLoadResult{}, err
		}
		if _, exists := existing[key]; exists {
			result.Updated++
		} else {
			result.Inserted++
		}
	}

	// Undrafted players absent from the upload are dropped. Drafted ones are
	// never deleted; they surface as warnings instead.
	keep := make([]string, 0, len(incoming))
	for key := range incoming {
		keep = append(keep, key)
	}
	if err := deleteUndraftedExcept(ctx, tx, leagueID, keep); err != nil {
		return player.BulkLoadResult{}, err
	}

	for key, label := range drafted {
		if _, matched := incoming[key]; matched {
			continue
		}
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("drafted player %s missing from upload; kept", label))
	}
	sort.Strings(result.Warnings)

	if err := tx.Commit(); err != nil {
		return player.BulkLoadResult{}, fmt.Errorf("commit player replace tx: %w", err)
	}

	return result, nil
}

func (r *PlayerRepository) Merge(ctx context.Context, leagueID string, players []player.Player) (player.BulkLoadResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return player.BulkLoadResult{}, fmt.Errorf("begin tx for player merge: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	existing, _, err := identitySets(ctx, tx, leagueID)
	if err != nil {
		return player.BulkLoadResult{}, err
	}

	var result player.BulkLoadResult
	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		key := p.IdentityKey()
		if _, dup := seen[key]; dup {
			result.Skipped++
			continue
		}
		seen[key] = struct{}{}

		if _, exists := existing[key]; exists {
			result.Skipped++
			continue
		}

		query, args, err := qb.InsertInto("players").
			Columns("public_id", "league_public_id", "name", "position", "rank", "identity_key").
			Values(p.ID, leagueID, p.Name, string(p.Position), p.Rank, key).
			ToSQL()
		if err != nil {
			return player.BulkLoadResult{}, fmt.Errorf("build insert player query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return player.BulkLoadResult{}, fmt.Errorf("insert player %q: %w", p.Name, err)
		}
		result.Inserted++
	}

	if err := tx.Commit(); err != nil {
		return player.BulkLoadResult{}, fmt.Errorf("commit player merge tx: %w", err)
	}

	return result, nil
}

func (r *PlayerRepository) selectPlayers(ctx context.Context, query string, args []any) ([]player.Player, error) {
	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

// identitySets returns every identity key in the league pool, plus a label
// map for the drafted subset used to build reconciliation warnings.
func identitySets(ctx context.Context, tx *sqlx.Tx, leagueID string) (map[string]struct{}, map[string]string, error) {
	query, args, err := qb.Select("identity_key", "name", "position", "drafted_by").
		From("players").
		Where(qb.Eq("league_public_id", leagueID)).
		ToSQL()
	if err != nil {
		return nil, nil, fmt.Errorf("build select player identities query: %w", err)
	}

	var rows []struct {
		IdentityKey string  `db:"identity_key"`
		Name        string  `db:"name"`
		Position    string  `db:"position"`
		DraftedBy   *string `db:"drafted_by"`
	}
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, nil, fmt.Errorf("select player identities: %w", err)
	}

	existing := make(map[string]struct{}, len(rows))
	drafted := make(map[string]string)
	for _, row := range rows {
		existing[row.IdentityKey] = struct{}{}
		if row.DraftedBy != nil {
			drafted[row.IdentityKey] = fmt.Sprintf("%q (%s)", row.Name, row.Position)
		}
	}

	return existing, drafted, nil
}

// upsertPlayer keys on (league, identity) so a re-upload refreshes rank and
// display name while the stored public ID and drafted facts survive.
func upsertPlayer(ctx context.Context, tx *sqlx.Tx, leagueID string, p player.Player) error {
	const upsertQuery = `
INSERT INTO players (public_id, league_public_id, name, position, rank, identity_key)
VALUES (:public_id, :league_public_id, :name, :position, :rank, :identity_key)
ON CONFLICT (league_public_id, identity_key)
DO UPDATE SET
    name = EXCLUDED.name,
    rank = EXCLUDED.rank`

	query, args, err := sqlx.Named(upsertQuery, map[string]any{
		"public_id":        p.ID,
		"league_public_id": leagueID,
		"name":             p.Name,
		"position":         string(p.Position),
		"rank":             p.Rank,
		"identity_key":     p.IdentityKey(),
	})
	if err != nil {
		return fmt.Errorf("bind upsert player %q query: %w", p.Name, err)
	}
	query = tx.Rebind(query)

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player %q: %w", p.Name, err)
	}

	return nil
}

func deleteUndraftedExcept(ctx context.Context, tx *sqlx.Tx, leagueID string, keepKeys []string) error {
	if len(keepKeys) == 0 {
		query, args, err := qb.DeleteFrom("players").
			Where(
				qb.Eq("league_public_id", leagueID),
				qb.IsNull("drafted_by"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build delete undrafted players query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete undrafted players: %w", err)
		}
		return nil
	}

	query, args, err := sqlx.In(
		`DELETE FROM players WHERE league_public_id = ? AND drafted_by IS NULL AND identity_key NOT IN (?)`,
		leagueID, keepKeys)
	if err != nil {
		return fmt.Errorf("bind delete undrafted players query: %w", err)
	}
	query = tx.Rebind(query)

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete undrafted players: %w", err)
	}

	return nil
}
