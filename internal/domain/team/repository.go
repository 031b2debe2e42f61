package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	GetByExternalID(ctx context.Context, externalID string) (Team, bool, error)
	// FindUnlinkedOwn returns the own team without external id whose name,
	// age category and season match. Names compare case-insensitively.
	FindUnlinkedOwn(ctx context.Context, name, ageCategory, season string) (Team, bool, error)
	ListByKind(ctx context.Context, kind Kind) ([]Team, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Team, error)
	Create(ctx context.Context, item Team) error
	Update(ctx context.Context, item Team) error
	Delete(ctx context.Context, teamID string) error
}
