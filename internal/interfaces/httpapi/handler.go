package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/team"
	"github.com/riskibarqy/fantasy-draft/internal/usecase"
)

// defaultMaxUploadBytes bounds CSV upload bodies when no explicit limit is
// configured.
const defaultMaxUploadBytes = 8 << 20

type Handler struct {
	leagueService    *usecase.LeagueService
	draftService     *usecase.DraftService
	playerService    *usecase.PlayerService
	teamService      *usecase.TeamService
	ingestionService *usecase.IngestionService
	logger           *slog.Logger
	validator        *validator.Validate
	maxUploadBytes   int64
}

func NewHandler(
	leagueService *usecase.LeagueService,
	draftService *usecase.DraftService,
	playerService *usecase.PlayerService,
	teamService *usecase.TeamService,
	ingestionService *usecase.IngestionService,
	logger *slog.Logger,
	maxUploadBytes int64,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}

	return &Handler{
		leagueService:    leagueService,
		draftService:     draftService,
		playerService:    playerService,
		teamService:      teamService,
		ingestionService: ingestionService,
		logger:           logger,
		validator:        validator.New(),
		maxUploadBytes:   maxUploadBytes,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type sessionDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	LeagueID  string    `json:"leagueId"`
	TeamName  string    `json:"teamName"`
	IsAdmin   bool      `json:"isAdmin"`
}

func sessionToDTO(session usecase.Session) sessionDTO {
	return sessionDTO{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		LeagueID:  session.LeagueID,
		TeamName:  session.TeamName,
		IsAdmin:   session.IsAdmin,
	}
}

type draftStateDTO struct {
	LeagueID         string         `json:"leagueId"`
	DraftOrder       []string       `json:"draftOrder"`
	PositionLimits   map[string]int `json:"positionLimits,omitempty"`
	FlexEligible     []string       `json:"flexEligible,omitempty"`
	CurrentPickIndex int            `json:"currentPickIndex"`
	CurrentTeam      string         `json:"currentTeam,omitempty"`
}

func draftStateToDTO(state draft.State) draftStateDTO {
	return draftStateDTO{
		LeagueID:         state.LeagueID,
		DraftOrder:       state.DraftOrder,
		PositionLimits:   state.PositionLimits,
		FlexEligible:     state.FlexEligible,
		CurrentPickIndex: state.CurrentPickIndex,
		CurrentTeam:      state.CurrentTeam,
	}
}

type upcomingPickDTO struct {
	PickNumber int    `json:"pickNumber"`
	TeamName   string `json:"teamName"`
}

type playerDTO struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Position      string     `json:"position"`
	Rank          int        `json:"rank,omitempty"`
	DraftedBy     string     `json:"draftedBy,omitempty"`
	DraftedAtPick *int       `json:"draftedAtPick,omitempty"`
	DraftedAt     *time.Time `json:"draftedAt,omitempty"`
}

func playerToDTO(p player.Player) playerDTO {
	dto := playerDTO{
		ID:       p.ID,
		Name:     p.Name,
		Position: string(p.Position),
		Rank:     p.Rank,
	}
	if p.Drafted() {
		pick := p.DraftedAtPick
		at := p.DraftedAt
		dto.DraftedBy = p.DraftedBy
		dto.DraftedAtPick = &pick
		dto.DraftedAt = &at
	}

	return dto
}

func playersToDTO(players []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(players))
	for _, p := range players {
		out = append(out, playerToDTO(p))
	}

	return out
}

type teamDTO struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	IsAdmin  bool      `json:"isAdmin"`
	JoinedAt time.Time `json:"joinedAt"`
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:       t.ID,
		Name:     t.Name,
		IsAdmin:  t.IsAdmin,
		JoinedAt: t.JoinedAt,
	}
}
