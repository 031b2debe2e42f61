package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/player"
)

type PlayerRepository struct {
	acc accessor
}

func (r *PlayerRepository) GetByExternalID(_ context.Context, externalID string) (player.Player, bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return player.Player{}, false, nil
	}

	var (
		item player.Player
		ok   bool
	)
	r.acc.read(func(st *state) {
		for _, candidate := range st.players {
			if candidate.ExternalID == externalID {
				item, ok = candidate, true
				return
			}
		}
	})
	item.JerseyNumber = cloneIntPtr(item.JerseyNumber)
	return item, ok, nil
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID string) ([]player.Player, error) {
	var out []player.Player
	r.acc.read(func(st *state) {
		for _, item := range st.players {
			if item.TeamID == teamID {
				item.JerseyNumber = cloneIntPtr(item.JerseyNumber)
				out = append(out, item)
			}
		}
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PlayerRepository) Upsert(_ context.Context, item player.Player) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}

	return r.acc.write(func(st *state) error {
		for id, other := range st.players {
			if id != item.ID && other.ExternalID == item.ExternalID {
				return fmt.Errorf("upsert player id=%s: external_id=%s belongs to player=%s", item.ID, item.ExternalID, id)
			}
		}
		item.JerseyNumber = cloneIntPtr(item.JerseyNumber)
		st.players[item.ID] = item
		return nil
	})
}

func (r *PlayerRepository) ReassignTeam(_ context.Context, fromTeamID, toTeamID string) (int, error) {
	moved := 0
	err := r.acc.write(func(st *state) error {
		for id, item := range st.players {
			if item.TeamID == fromTeamID {
				item.TeamID = toTeamID
				st.players[id] = item
				moved++
			}
		}
		return nil
	})
	return moved, err
}
