package store

import (
	"context"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/club"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/game"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/league"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/player"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/standing"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/team"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/venue"
)

// Repositories groups the entity repositories bound to one unit of work.
type Repositories struct {
	Leagues   league.Repository
	Clubs     club.Repository
	Teams     team.Repository
	Games     game.Repository
	Standings standing.Repository
	Venues    venue.Repository
	Players   player.Repository
}

// Transactor runs fn against repositories scoped to a single transaction.
// Writes made through them become visible only if fn returns nil.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Repositories() Repositories
}
