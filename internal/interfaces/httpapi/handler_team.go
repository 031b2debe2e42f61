package httpapi

import (
	"net/http"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/usecase"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListTeams")
	defer span.End()

	if kind := r.URL.Query().Get("kind"); kind != "" && kind != "own" {
		writeError(ctx, w, invalidQuery("only kind=own is supported"))
		return
	}

	items, err := h.identityService.ListOwnTeams(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]teamDTO, 0, len(items))
	for _, item := range items {
		out = append(out, teamToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListTeamGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListTeamGames")
	defer span.End()

	games, err := h.identityService.ListGamesForTeam(ctx, r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]gameDTO, 0, len(games))
	for _, g := range games {
		out = append(out, gameToDTO(g))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListTeamPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListTeamPlayers")
	defer span.End()

	players, err := h.identityService.ListPlayers(ctx, r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]playerDTO, 0, len(players))
	for _, p := range players {
		out = append(out, playerToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) MarkOwnTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "MarkOwnTeam")
	defer span.End()

	marked, err := h.identityService.MarkOwnTeam(ctx, r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(marked))
}

func (h *Handler) CreateOwnTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "CreateOwnTeam")
	defer span.End()

	var req createOwnTeamRequest
	if err := h.bind(r.WithContext(ctx), &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.identityService.CreateOwnTeam(ctx, usecase.CreateOwnTeamInput{
		Name:        req.Name,
		ClubID:      req.ClubID,
		AgeCategory: req.AgeCategory,
		Season:      req.Season,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(created))
}

func (h *Handler) MergeTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "MergeTeams")
	defer span.End()

	var req mergeTeamsRequest
	if err := h.bind(r.WithContext(ctx), &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.identityService.Merge(ctx, usecase.MergeInput{
		AuthoritativeTeamID: req.AuthoritativeTeamID,
		DuplicateTeamID:     req.DuplicateTeamID,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}
