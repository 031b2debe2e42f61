package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	GetByExternalID(ctx context.Context, externalID string) (Player, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]Player, error)
	Upsert(ctx context.Context, item Player) error
	ReassignTeam(ctx context.Context, fromTeamID, toTeamID string) (int, error)
}
