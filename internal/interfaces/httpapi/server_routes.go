package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/standings", handler.ListLeagueStandings)
	mux.Handle("POST /v1/leagues/{externalLeagueID}/sync", RequireAdminToken(adminToken, http.HandlerFunc(handler.SyncLeague)))
	mux.Handle("POST /v1/leagues/{externalLeagueID}/schedule/sync", RequireAdminToken(adminToken, http.HandlerFunc(handler.SyncSchedule)))
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}/games", handler.ListTeamGames)
	mux.HandleFunc("GET /v1/teams/{teamID}/players", handler.ListTeamPlayers)
	mux.Handle("POST /v1/teams", RequireAdminToken(adminToken, http.HandlerFunc(handler.CreateOwnTeam)))
	mux.Handle("POST /v1/teams/merge", RequireAdminToken(adminToken, http.HandlerFunc(handler.MergeTeams)))
	mux.Handle("POST /v1/teams/{teamID}/own", RequireAdminToken(adminToken, http.HandlerFunc(handler.MarkOwnTeam)))
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/catalog/clubs", handler.SearchCatalogClubs)
	mux.HandleFunc("GET /v1/catalog/clubs/{clubID}", handler.GetCatalogClub)
	mux.HandleFunc("GET /v1/catalog/clubs/{clubID}/teams", handler.ListCatalogClubTeams)
	mux.HandleFunc("GET /v1/federation/leagues", handler.BrowseFederationLeagues)
}
