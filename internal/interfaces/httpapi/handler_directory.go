package httpapi

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/usecase"
)

// BrowseFederationLeagues pages through the federation's league listing.
// federation and ageGroup accept repeated or comma separated ids.
func (h *Handler) BrowseFederationLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "BrowseFederationLeagues")
	defer span.End()

	query := r.URL.Query()
	listing := usecase.LeagueListingQuery{}
	var err error
	if listing.FederationIDs, err = queryIDs(query, "federation"); err != nil {
		writeError(ctx, w, err)
		return
	}
	if listing.AgeGroupIDs, err = queryIDs(query, "ageGroup"); err != nil {
		writeError(ctx, w, err)
		return
	}
	if listing.StartAt, err = queryInt(query, "start"); err != nil {
		writeError(ctx, w, err)
		return
	}
	if listing.PageSize, err = queryInt(query, "pageSize"); err != nil {
		writeError(ctx, w, err)
		return
	}

	page, err := h.directoryService.Browse(ctx, listing)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, listingPageToDTO(page))
}

func queryIDs(query url.Values, key string) ([]int, error) {
	var out []int
	for _, raw := range query[key] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := strconv.Atoi(part)
			if err != nil {
				return nil, invalidQuery(key + " must be a list of integers")
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func queryInt(query url.Values, key string) (int, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidQuery(key + " must be an integer")
	}
	return v, nil
}
