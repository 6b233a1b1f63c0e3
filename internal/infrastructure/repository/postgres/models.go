package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-draft/internal/domain/league"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/team"
)

type leagueTableModel struct {
	ID               int64     `db:"id"`
	PublicID         string    `db:"public_id"`
	Name             string    `db:"name"`
	NameKey          string    `db:"name_key"`
	PasswordHash     string    `db:"password_hash"`
	AdminTeam        string    `db:"admin_team"`
	DraftOrder       []byte    `db:"draft_order"`
	PositionLimits   []byte    `db:"position_limits"`
	FlexEligible     []byte    `db:"flex_eligible"`
	CurrentPickIndex int       `db:"current_pick_index"`
	DraftStarted     bool      `db:"draft_started"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (m leagueTableModel) toDomain() (league.League, error) {
	out := league.League{
		ID:               m.PublicID,
		Name:             m.Name,
		PasswordHash:     m.PasswordHash,
		AdminTeam:        m.AdminTeam,
		CurrentPickIndex: m.CurrentPickIndex,
		DraftStarted:     m.DraftStarted,
		CreatedAt:        m.CreatedAt,
	}
	if len(m.DraftOrder) > 0 {
		if err := sonic.Unmarshal(m.DraftOrder, &out.DraftOrder); err != nil {
			return league.League{}, fmt.Errorf("decode draft order for league %s: %w", m.PublicID, err)
		}
	}
	if len(m.PositionLimits) > 0 {
		if err := sonic.Unmarshal(m.PositionLimits, &out.PositionLimits); err != nil {
			return league.League{}, fmt.Errorf("decode position limits for league %s: %w", m.PublicID, err)
		}
	}
	if len(m.FlexEligible) > 0 {
		if err := sonic.Unmarshal(m.FlexEligible, &out.FlexEligible); err != nil {
			return league.League{}, fmt.Errorf("decode flex eligibility for league %s: %w", m.PublicID, err)
		}
	}
	return out, nil
}

type teamTableModel struct {
	ID             int64     `db:"id"`
	PublicID       string    `db:"public_id"`
	LeaguePublicID string    `db:"league_public_id"`
	Name           string    `db:"name"`
	NameKey        string    `db:"name_key"`
	IsAdmin        bool      `db:"is_admin"`
	JoinedAt       time.Time `db:"joined_at"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:       m.PublicID,
		LeagueID: m.LeaguePublicID,
		Name:     m.Name,
		IsAdmin:  m.IsAdmin,
		JoinedAt: m.JoinedAt,
	}
}

type playerTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	LeaguePublicID string         `db:"league_public_id"`
	Name           string         `db:"name"`
	Position       string         `db:"position"`
	Rank           int            `db:"rank"`
	IdentityKey    string         `db:"identity_key"`
	DraftedBy      sql.NullString `db:"drafted_by"`
	DraftedAtPick  sql.NullInt64  `db:"drafted_at_pick"`
	DraftedAt      sql.NullTime   `db:"drafted_at"`
}

func (m playerTableModel) toDomain() player.Player {
	out := player.Player{
		ID:       m.PublicID,
		LeagueID: m.LeaguePublicID,
		Name:     m.Name,
		Position: player.Position(m.Position),
		Rank:     m.Rank,
	}
	if m.DraftedBy.Valid {
		out.DraftedBy = m.DraftedBy.String
		out.DraftedAtPick = int(m.DraftedAtPick.Int64)
		out.DraftedAt = m.DraftedAt.Time
	}
	return out
}
