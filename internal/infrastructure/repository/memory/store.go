package memory

import (
	"context"
	"sync"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/club"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/game"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/league"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/player"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/standing"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/store"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/team"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/venue"
)

// Store keeps every entity in process memory. Transactions work on a copy
// of the state that replaces the live state only when the callback
// succeeds.
type Store struct {
	txMu  sync.Mutex
	mu    sync.RWMutex
	state *state
}

var _ store.Transactor = (*Store)(nil)

func NewStore() *Store {
	return &Store{state: newState()}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos store.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	working := s.state.clone()
	s.mu.RUnlock()

	if err := fn(ctx, repositoriesFor(txAccessor{st: working})); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = working
	s.mu.Unlock()
	return nil
}

func (s *Store) Repositories() store.Repositories {
	return repositoriesFor(liveAccessor{s: s})
}

func repositoriesFor(acc accessor) store.Repositories {
	return store.Repositories{
		Leagues:   &LeagueRepository{acc: acc},
		Clubs:     &ClubRepository{acc: acc},
		Teams:     &TeamRepository{acc: acc},
		Games:     &GameRepository{acc: acc},
		Standings: &StandingRepository{acc: acc},
		Venues:    &VenueRepository{acc: acc},
		Players:   &PlayerRepository{acc: acc},
	}
}

type accessor interface {
	read(fn func(st *state))
	write(fn func(st *state) error) error
}

type liveAccessor struct {
	s *Store
}

func (a liveAccessor) read(fn func(st *state)) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	fn(a.s.state)
}

func (a liveAccessor) write(fn func(st *state) error) error {
	a.s.txMu.Lock()
	defer a.s.txMu.Unlock()
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return fn(a.s.state)
}

// txAccessor is used by a single transaction callback and needs no locking.
type txAccessor struct {
	st *state
}

func (a txAccessor) read(fn func(st *state)) {
	fn(a.st)
}

func (a txAccessor) write(fn func(st *state) error) error {
	return fn(a.st)
}

type state struct {
	leagues   map[string]league.League
	clubs     map[string]club.Club
	teams     map[string]team.Team
	games     map[string]game.Game
	standings map[string]standing.Standing
	venues    map[string]venue.Venue
	players   map[string]player.Player
}

func newState() *state {
	return &state{
		leagues:   make(map[string]league.League),
		clubs:     make(map[string]club.Club),
		teams:     make(map[string]team.Team),
		games:     make(map[string]game.Game),
		standings: make(map[string]standing.Standing),
		venues:    make(map[string]venue.Venue),
		players:   make(map[string]player.Player),
	}
}

func (st *state) clone() *state {
	out := &state{
		leagues:   make(map[string]league.League, len(st.leagues)),
		clubs:     make(map[string]club.Club, len(st.clubs)),
		teams:     make(map[string]team.Team, len(st.teams)),
		games:     make(map[string]game.Game, len(st.games)),
		standings: make(map[string]standing.Standing, len(st.standings)),
		venues:    make(map[string]venue.Venue, len(st.venues)),
		players:   make(map[string]player.Player, len(st.players)),
	}
	for k, v := range st.leagues {
		out.leagues[k] = cloneLeague(v)
	}
	for k, v := range st.clubs {
		out.clubs[k] = cloneClub(v)
	}
	for k, v := range st.teams {
		out.teams[k] = v
	}
	for k, v := range st.games {
		out.games[k] = cloneGame(v)
	}
	for k, v := range st.standings {
		out.standings[k] = v
	}
	for k, v := range st.venues {
		out.venues[k] = v
	}
	for k, v := range st.players {
		v.JerseyNumber = cloneIntPtr(v.JerseyNumber)
		out.players[k] = v
	}
	return out
}

func cloneLeague(item league.League) league.League {
	if item.LastSyncedAt != nil {
		ts := *item.LastSyncedAt
		item.LastSyncedAt = &ts
	}
	return item
}

func cloneClub(item club.Club) club.Club {
	item.FederationIDs = append([]int(nil), item.FederationIDs...)
	return item
}

func cloneGame(item game.Game) game.Game {
	item.HomeScore = cloneIntPtr(item.HomeScore)
	item.AwayScore = cloneIntPtr(item.AwayScore)
	item.Referees = append([]string(nil), item.Referees...)
	return item
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
