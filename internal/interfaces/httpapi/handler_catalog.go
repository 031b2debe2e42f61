package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/usecase"
)

func (h *Handler) SearchCatalogClubs(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "SearchCatalogClubs")
	defer span.End()

	query := r.URL.Query()
	var federationID *int
	if raw := strings.TrimSpace(query.Get("federation")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeError(ctx, w, invalidQuery("federation must be a positive integer"))
			return
		}
		federationID = &v
	}

	entries, err := h.catalogService.Search(ctx, query.Get("q"), federationID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]catalogEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, catalogEntryToDTO(e))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetCatalogClub(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "GetCatalogClub")
	defer span.End()

	clubID := r.PathValue("clubID")
	club, ok, err := h.catalogService.LoadDetail(ctx, clubID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: catalog club %s", usecase.ErrNotFound, clubID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, catalogClubToDTO(club))
}

func (h *Handler) ListCatalogClubTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListCatalogClubTeams")
	defer span.End()

	teams, err := h.catalogService.Teams(ctx, r.PathValue("clubID"), r.URL.Query().Get("ageCategory"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]catalogTeamDTO, 0, len(teams))
	for _, t := range teams {
		out = append(out, catalogTeamToDTO(t))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func invalidQuery(msg string) error {
	return fmt.Errorf("%w: %s", usecase.ErrInvalidInput, msg)
}
