package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/game"
)

type GameRepository struct {
	acc accessor
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	var (
		item game.Game
		ok   bool
	)
	r.acc.read(func(st *state) {
		item, ok = st.games[gameID]
	})
	if !ok {
		return game.Game{}, false, nil
	}
	return cloneGame(item), true, nil
}

func (r *GameRepository) GetByExternalID(_ context.Context, externalID string) (game.Game, bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return game.Game{}, false, nil
	}

	var (
		item game.Game
		ok   bool
	)
	r.acc.read(func(st *state) {
		for _, candidate := range st.games {
			if candidate.ExternalID == externalID {
				item, ok = cloneGame(candidate), true
				return
			}
		}
	})
	return item, ok, nil
}

func (r *GameRepository) ListByLeague(_ context.Context, leagueID string) ([]game.Game, error) {
	return r.filter(func(item game.Game) bool {
		return item.LeagueID == leagueID
	}), nil
}

func (r *GameRepository) ListByTeam(_ context.Context, teamID string) ([]game.Game, error) {
	return r.filter(func(item game.Game) bool {
		return item.Involves(teamID)
	}), nil
}

func (r *GameRepository) filter(keep func(game.Game) bool) []game.Game {
	var out []game.Game
	r.acc.read(func(st *state) {
		for _, item := range st.games {
			if keep(item) {
				out = append(out, cloneGame(item))
			}
		}
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *GameRepository) Upsert(_ context.Context, item game.Game) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("upsert game: %w", err)
	}

	return r.acc.write(func(st *state) error {
		if item.ExternalID != "" {
			for id, other := range st.games {
				if id != item.ID && other.ExternalID == item.ExternalID {
					return fmt.Errorf("upsert game id=%s: external id %s belongs to game %s", item.ID, item.ExternalID, id)
				}
			}
		}
		st.games[item.ID] = cloneGame(item)
		return nil
	})
}

func (r *GameRepository) ReassignHomeTeam(_ context.Context, fromTeamID, toTeamID string) (int, error) {
	return r.reassign(func(item *game.Game) bool {
		if item.HomeTeamID != fromTeamID {
			return false
		}
		item.HomeTeamID = toTeamID
		return true
	})
}

func (r *GameRepository) ReassignAwayTeam(_ context.Context, fromTeamID, toTeamID string) (int, error) {
	return r.reassign(func(item *game.Game) bool {
		if item.AwayTeamID != fromTeamID {
			return false
		}
		item.AwayTeamID = toTeamID
		return true
	})
}

func (r *GameRepository) reassign(apply func(item *game.Game) bool) (int, error) {
	changed := 0
	err := r.acc.write(func(st *state) error {
		for id, item := range st.games {
			if apply(&item) {
				st.games[id] = item
				changed++
			}
		}
		return nil
	})
	return changed, err
}
