package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/fantasy-draft/internal/usecase"
)

const defaultUpcomingCount = 10

type submitPickRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
}

type updateDraftConfigRequest struct {
	DraftOrder     []string       `json:"draftOrder"`
	PositionLimits map[string]int `json:"positionLimits"`
	FlexEligible   []string       `json:"flexEligible"`
}

type pickResultDTO struct {
	Player playerDTO     `json:"player"`
	State  draftStateDTO `json:"state"`
}

func (h *Handler) GetDraftState(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDraftState")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	state, err := h.draftService.State(ctx, principal.LeagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get draft state failed", "league_id", principal.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftStateToDTO(state))
}

func (h *Handler) ListUpcomingPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingPicks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	count := defaultUpcomingCount
	if raw := strings.TrimSpace(r.URL.Query().Get("count")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: count must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		count = parsed
	}

	picks, err := h.draftService.UpcomingPicks(ctx, principal.LeagueID, count)
	if err != nil {
		h.logger.WarnContext(ctx, "list upcoming picks failed", "league_id", principal.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]upcomingPickDTO, 0, len(picks))
	for _, pick := range picks {
		items = append(items, upcomingPickDTO{PickNumber: pick.PickNumber, TeamName: pick.TeamName})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) SubmitPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPick")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	var req submitPickRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.draftService.AttemptPick(ctx, principal, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "pick failed",
			"league_id", principal.LeagueID,
			"team_name", principal.TeamName,
			"player_id", req.PlayerID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "pick committed",
		"league_id", principal.LeagueID,
		"team_name", principal.TeamName,
		"player_id", result.Player.ID,
		"pick_number", result.Player.DraftedAtPick,
	)

	writeSuccess(ctx, w, http.StatusOK, pickResultDTO{
		Player: playerToDTO(result.Player),
		State:  draftStateToDTO(result.State),
	})
}

func (h *Handler) UpdateDraftConfig(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateDraftConfig")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	var req updateDraftConfigRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.draftService.UpdateConfig(ctx, principal, usecase.DraftConfigInput{
		DraftOrder:     req.DraftOrder,
		PositionLimits: req.PositionLimits,
		FlexEligible:   req.FlexEligible,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update draft config failed", "league_id", principal.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftStateToDTO(state))
}
