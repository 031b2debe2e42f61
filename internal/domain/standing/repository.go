package standing

import "context"

type Repository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Standing, error)
	Upsert(ctx context.Context, item Standing) error
	ReassignTeam(ctx context.Context, fromTeamID, toTeamID string) (int, error)
}
