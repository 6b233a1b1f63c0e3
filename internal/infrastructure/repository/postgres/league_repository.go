package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-draft/internal/domain/league"
	qb "github.com/riskibarqy/fantasy-draft/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	draftOrder, err := sonic.Marshal(l.DraftOrder)
	if err != nil {
		return fmt.Errorf("encode draft order: %w", err)
	}
	positionLimits, err := sonic.Marshal(l.PositionLimits)
	if err != nil {
		return fmt.Errorf("encode position limits: %w", err)
	}
	flexEligible, err := sonic.Marshal(l.FlexEligible)
	if err != nil {
		return fmt.Errorf("encode flex eligibility: %w", err)
	}

	query, args, err := qb.InsertInto("leagues").
		Columns("public_id", "name", "name_key", "password_hash", "admin_team",
			"draft_order", "position_limits", "flex_eligible", "current_pick_index", "draft_started", "created_at").
		Values(l.ID, l.Name, nameKey(l.Name), l.PasswordHash, l.AdminTeam,
			draftOrder, positionLimits, flexEligible, l.CurrentPickIndex, l.DraftStarted, l.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("league %q: %w", l.Name, league.ErrLeagueExists)
		}
		return fmt.Errorf("insert league: %w", err)
	}

	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	return r.getOne(ctx, qb.Eq("public_id", leagueID))
}

func (r *LeagueRepository) GetByName(ctx context.Context, name string) (league.League, bool, error) {
	return r.getOne(ctx, qb.Eq("name_key", nameKey(name)))
}

func (r *LeagueRepository) getOne(ctx context.Context, cond qb.Condition) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").Where(cond).ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}

	out, err := row.toDomain()
	if err != nil {
		return league.League{}, false, err
	}
	return out, true, nil
}

func (r *LeagueRepository) UpdateConfig(ctx context.Context, leagueID string, update league.ConfigUpdate) error {
	builder := qb.Update("leagues").
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("public_id", leagueID))

	if update.DraftOrder != nil {
		encoded, err := sonic.Marshal(update.DraftOrder)
		if err != nil {
			return fmt.Errorf("encode draft order: %w", err)
		}
		builder = builder.Set("draft_order", encoded)
	}
	if update.PositionLimits != nil {
		encoded, err := sonic.Marshal(update.PositionLimits)
		if err != nil {
			return fmt.Errorf("encode position limits: %w", err)
		}
		builder = builder.Set("position_limits", encoded)
	}
	if update.FlexEligible != nil {
		encoded, err := sonic.Marshal(update.FlexEligible)
		if err != nil {
			return fmt.Errorf("encode flex eligibility: %w", err)
		}
		builder = builder.Set("flex_eligible", encoded)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build update league config query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update league config: %w", err)
	}

	return nil
}
