package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/fantasy-draft/internal/usecase"
)

type rosterDTO struct {
	Team             teamDTO        `json:"team"`
	Players          []playerDTO    `json:"players"`
	CountsByPosition map[string]int `json:"countsByPosition"`
}

func rosterToDTO(roster usecase.TeamRoster) rosterDTO {
	counts := make(map[string]int, len(roster.CountsByPosition))
	for pos, count := range roster.CountsByPosition {
		counts[string(pos)] = count
	}

	return rosterDTO{
		Team:             teamToDTO(roster.Team),
		Players:          playersToDTO(roster.Players),
		CountsByPosition: counts,
	}
}

func (h *Handler) GetMyRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyRoster")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	roster, err := h.teamService.Roster(ctx, principal.LeagueID, principal.TeamName)
	if err != nil {
		h.logger.WarnContext(ctx, "get my roster failed", "league_id", principal.LeagueID, "team_name", principal.TeamName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(roster))
}

func (h *Handler) GetRosterByName(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRosterByName")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	teamName := r.PathValue("teamName")
	roster, err := h.teamService.Roster(ctx, principal.LeagueID, teamName)
	if err != nil {
		h.logger.WarnContext(ctx, "get roster failed", "league_id", principal.LeagueID, "team_name", teamName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(roster))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	teams, err := h.teamService.ListByLeague(ctx, principal.LeagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "league_id", principal.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
