package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/team"
)

type TeamRepository struct {
	acc accessor
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	var (
		item team.Team
		ok   bool
	)
	r.acc.read(func(st *state) {
		item, ok = st.teams[teamID]
	})
	return item, ok, nil
}

func (r *TeamRepository) GetByExternalID(_ context.Context, externalID string) (team.Team, bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return team.Team{}, false, nil
	}

	var (
		item team.Team
		ok   bool
	)
	r.acc.read(func(st *state) {
		for _, candidate := range st.teams {
			if candidate.ExternalID == externalID {
				item, ok = candidate, true
				return
			}
		}
	})
	return item, ok, nil
}

func (r *TeamRepository) FindUnlinkedOwn(_ context.Context, name, ageCategory, season string) (team.Team, bool, error) {
	name = strings.TrimSpace(name)

	var matches []team.Team
	r.acc.read(func(st *state) {
		for _, candidate := range st.teams {
			if candidate.Kind != team.KindOwn || candidate.ExternalID != "" {
				continue
			}
			if !strings.EqualFold(strings.TrimSpace(candidate.Name), name) {
				continue
			}
			if candidate.AgeCategory != ageCategory || candidate.Season != season {
				continue
			}
			matches = append(matches, candidate)
		}
	})
	if len(matches) == 0 {
		return team.Team{}, false, nil
	}

	sortTeams(matches)
	return matches[0], true, nil
}

func (r *TeamRepository) ListByKind(_ context.Context, kind team.Kind) ([]team.Team, error) {
	var out []team.Team
	r.acc.read(func(st *state) {
		for _, item := range st.teams {
			if item.Kind == kind {
				out = append(out, item)
			}
		}
	})

	sortTeams(out)
	return out, nil
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID string) ([]team.Team, error) {
	var out []team.Team
	r.acc.read(func(st *state) {
		for _, item := range st.teams {
			if item.LeagueID == leagueID {
				out = append(out, item)
			}
		}
	})

	sortTeams(out)
	return out, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("create team: %w", err)
	}

	return r.acc.write(func(st *state) error {
		if _, exists := st.teams[item.ID]; exists {
			return fmt.Errorf("create team id=%s: already exists", item.ID)
		}
		if err := checkUniqueKeys(st, item); err != nil {
			return err
		}
		st.teams[item.ID] = item
		return nil
	})
}

func (r *TeamRepository) Update(_ context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("update team: %w", err)
	}

	return r.acc.write(func(st *state) error {
		if _, exists := st.teams[item.ID]; !exists {
			return fmt.Errorf("update team id=%s: not found", item.ID)
		}
		if err := checkUniqueKeys(st, item); err != nil {
			return err
		}
		st.teams[item.ID] = item
		return nil
	})
}

func (r *TeamRepository) Delete(_ context.Context, teamID string) error {
	return r.acc.write(func(st *state) error {
		if _, exists := st.teams[teamID]; !exists {
			return fmt.Errorf("delete team id=%s: not found", teamID)
		}
		delete(st.teams, teamID)
		return nil
	})
}

// checkUniqueKeys mirrors the unique indexes of the SQL schema.
func checkUniqueKeys(st *state, item team.Team) error {
	for id, other := range st.teams {
		if id == item.ID {
			continue
		}
		if item.ExternalID != "" && other.ExternalID == item.ExternalID {
			return fmt.Errorf("%w: external_id=%s team=%s", team.ErrExternalIDTaken, item.ExternalID, id)
		}
		if item.SameOwnIdentity(other) {
			return fmt.Errorf("%w: team=%s", team.ErrOwnTeamExists, id)
		}
	}
	return nil
}

func sortTeams(items []team.Team) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
}
