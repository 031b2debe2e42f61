package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/standing"
)

type StandingRepository struct {
	acc accessor
}

func standingKey(leagueID, externalTeamID string) string {
	return leagueID + "|" + externalTeamID
}

func (r *StandingRepository) ListByLeague(_ context.Context, leagueID string) ([]standing.Standing, error) {
	var out []standing.Standing
	r.acc.read(func(st *state) {
		for _, item := range st.standings {
			if item.LeagueID == leagueID {
				out = append(out, item)
			}
		}
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].ExternalTeamID < out[j].ExternalTeamID
	})
	return out, nil
}

func (r *StandingRepository) Upsert(_ context.Context, item standing.Standing) error {
	if item.LeagueID == "" || item.ExternalTeamID == "" {
		return fmt.Errorf("upsert standing: league id and external team id are required")
	}

	return r.acc.write(func(st *state) error {
		st.standings[standingKey(item.LeagueID, item.ExternalTeamID)] = item
		return nil
	})
}

func (r *StandingRepository) ReassignTeam(_ context.Context, fromTeamID, toTeamID string) (int, error) {
	changed := 0
	err := r.acc.write(func(st *state) error {
		for key, item := range st.standings {
			if item.TeamID == fromTeamID {
				item.TeamID = toTeamID
				st.standings[key] = item
				changed++
			}
		}
		return nil
	})
	return changed, err
}
