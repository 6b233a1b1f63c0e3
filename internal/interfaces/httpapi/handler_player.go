package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/fantasy-draft/internal/usecase"
)

func (h *Handler) ListAvailablePlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAvailablePlayers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	position := strings.TrimSpace(r.URL.Query().Get("position"))
	players, err := h.playerService.ListAvailable(ctx, principal.LeagueID, position)
	if err != nil {
		h.logger.WarnContext(ctx, "list available players failed", "league_id", principal.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(players))
}

func (h *Handler) ListDraftedPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDraftedPlayers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	players, err := h.playerService.ListDrafted(ctx, principal.LeagueID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list drafted players failed", "league_id", principal.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(players))
}

// UploadPlayers streams the CSV body through a pooled buffer before parsing,
// so oversized uploads fail fast and the reader is fully consumed once.
func (h *Handler) UploadPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UploadPlayers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	overwrite := false
	if raw := strings.TrimSpace(r.URL.Query().Get("overwrite")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: overwrite must be a boolean", usecase.ErrInvalidInput))
			return
		}
		overwrite = parsed
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	limited := io.LimitReader(r.Body, h.maxUploadBytes+1)
	if _, err := buf.ReadFrom(limited); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read upload body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if int64(buf.Len()) > h.maxUploadBytes {
		writeError(ctx, w, fmt.Errorf("%w: upload exceeds %d bytes", usecase.ErrInvalidInput, h.maxUploadBytes))
		return
	}

	report, err := h.ingestionService.LoadCSV(ctx, principal.LeagueID, bytes.NewReader(buf.B), overwrite)
	if err != nil {
		h.logger.WarnContext(ctx, "player upload failed", "league_id", principal.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "player upload applied",
		"league_id", principal.LeagueID,
		"overwrite", overwrite,
		"inserted", report.Inserted,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"row_errors", len(report.RowErrors),
	)

	writeSuccess(ctx, w, http.StatusOK, report)
}
