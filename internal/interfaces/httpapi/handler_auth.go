package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fantasy-draft/internal/usecase"
)

type createLeagueRequest struct {
	LeagueName string `json:"leagueName" validate:"required,max=100"`
	Password   string `json:"password" validate:"required,min=4,max=128"`
	TeamName   string `json:"teamName" validate:"required,max=100"`
}

type loginRequest struct {
	LeagueName string `json:"leagueName" validate:"required,max=100"`
	Password   string `json:"password" validate:"required,max=128"`
	TeamName   string `json:"teamName" validate:"required,max=100"`
}

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateLeague")
	defer span.End()

	var req createLeagueRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.leagueService.CreateLeague(ctx, usecase.CreateLeagueInput{
		LeagueName: req.LeagueName,
		Password:   req.Password,
		TeamName:   req.TeamName,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create league failed", "league_name", req.LeagueName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, sessionToDTO(session))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Login")
	defer span.End()

	var req loginRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.leagueService.Login(ctx, usecase.LoginInput{
		LeagueName: req.LeagueName,
		Password:   req.Password,
		TeamName:   req.TeamName,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "login failed", "league_name", req.LeagueName, "team_name", req.TeamName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(session))
}
