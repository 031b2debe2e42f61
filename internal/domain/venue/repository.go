package venue

import "context"

type Repository interface {
	GetByID(ctx context.Context, venueID string) (Venue, bool, error)
	FindByName(ctx context.Context, name string) (Venue, bool, error)
	Upsert(ctx context.Context, item Venue) error
}
