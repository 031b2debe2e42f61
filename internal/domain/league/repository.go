package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]League, error)
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetByExternalID(ctx context.Context, externalID string) (League, bool, error)
	Upsert(ctx context.Context, item League) error
}
