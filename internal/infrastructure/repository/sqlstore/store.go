package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/store"
)

// Store persists entities through sqlx. The SQL is kept to the subset shared
// by PostgreSQL and SQLite so both drivers run the same repositories.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ store.Transactor = (*Store)(nil)

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos store.Repositories) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, s.repositoriesFor(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) Repositories() store.Repositories {
	return s.repositoriesFor(s.db)
}

func (s *Store) repositoriesFor(q sqlx.ExtContext) store.Repositories {
	return store.Repositories{
		Leagues:   &LeagueRepository{q: q, now: s.now},
		Clubs:     &ClubRepository{q: q},
		Teams:     &TeamRepository{q: q, now: s.now},
		Games:     &GameRepository{q: q, now: s.now},
		Standings: &StandingRepository{q: q, now: s.now},
		Venues:    &VenueRepository{q: q},
		Players:   &PlayerRepository{q: q, now: s.now},
	}
}
