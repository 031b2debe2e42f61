package club

import "context"

type Repository interface {
	List(ctx context.Context) ([]Club, error)
	GetByID(ctx context.Context, clubID string) (Club, bool, error)
	GetByExternalID(ctx context.Context, externalID string) (Club, bool, error)
	Upsert(ctx context.Context, item Club) error
}
