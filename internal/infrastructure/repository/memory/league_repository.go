package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/league"
)

type LeagueRepository struct {
	acc accessor
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	var out []league.League
	r.acc.read(func(st *state) {
		out = make([]league.League, 0, len(st.leagues))
		for _, item := range st.leagues {
			out = append(out, cloneLeague(item))
		}
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	var (
		item league.League
		ok   bool
	)
	r.acc.read(func(st *state) {
		item, ok = st.leagues[leagueID]
	})
	if !ok {
		return league.League{}, false, nil
	}

	return cloneLeague(item), true, nil
}

func (r *LeagueRepository) GetByExternalID(_ context.Context, externalID string) (league.League, bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return league.League{}, false, nil
	}

	var (
		item league.League
		ok   bool
	)
	r.acc.read(func(st *state) {
		for _, candidate := range st.leagues {
			if candidate.ExternalID == externalID {
				item, ok = cloneLeague(candidate), true
				return
			}
		}
	})
	return item, ok, nil
}

func (r *LeagueRepository) Upsert(_ context.Context, item league.League) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("upsert league: %w", err)
	}

	return r.acc.write(func(st *state) error {
		for id, existing := range st.leagues {
			if id != item.ID && existing.ExternalID == item.ExternalID {
				return fmt.Errorf("upsert league id=%s: external id %s belongs to league %s", item.ID, item.ExternalID, id)
			}
		}
		st.leagues[item.ID] = cloneLeague(item)
		return nil
	})
}
