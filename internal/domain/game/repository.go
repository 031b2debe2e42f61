package game

import "context"

type Repository interface {
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	GetByExternalID(ctx context.Context, externalID string) (Game, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Game, error)
	// ListByTeam returns games where the team plays home or away, ordered
	// by date and time.
	ListByTeam(ctx context.Context, teamID string) ([]Game, error)
	Upsert(ctx context.Context, item Game) error
	// ReassignHomeTeam rewrites every home reference to fromTeamID and
	// returns the number of games changed.
	ReassignHomeTeam(ctx context.Context, fromTeamID, toTeamID string) (int, error)
	ReassignAwayTeam(ctx context.Context, fromTeamID, toTeamID string) (int, error)
}
