package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/usecase"
)

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListLeagues")
	defer span.End()

	items, err := h.syncService.ListLeagues(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]leagueDTO, 0, len(items))
	for _, item := range items {
		out = append(out, leagueToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListLeagueStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListLeagueStandings")
	defer span.End()

	rows, err := h.syncService.ListStandings(ctx, r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]standingDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, standingToDTO(row))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

// SyncLeague runs the full pipeline for one federation league id. When a
// later stage fails the error is reported and the committed stages stay.
func (h *Handler) SyncLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "SyncLeague")
	defer span.End()

	opts := usecase.SyncOptions{}
	if raw := r.URL.Query().Get("skipGameDetails"); raw != "" {
		skip, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(ctx, w, invalidQuery("skipGameDetails must be a boolean"))
			return
		}
		opts.SkipGameDetails = skip
	}

	externalID := r.PathValue("externalLeagueID")
	report, err := h.syncService.SyncLeague(ctx, externalID, opts)
	if err != nil {
		var stageErr *usecase.StageError
		if errors.As(err, &stageErr) {
			h.logger.WarnContext(ctx, "league sync stopped",
				"external_league_id", externalID,
				"stage", stageErr.Stage,
				"standings_rows", report.StandingsRows,
				"error", err,
			)
		}
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncReportToDTO(report))
}

func (h *Handler) SyncSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "SyncSchedule")
	defer span.End()

	report, err := h.syncService.SyncSchedule(ctx, r.PathValue("externalLeagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncReportToDTO(report))
}
