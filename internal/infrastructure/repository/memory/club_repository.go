package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/club"
)

type ClubRepository struct {
	acc accessor
}

func (r *ClubRepository) List(_ context.Context) ([]club.Club, error) {
	var out []club.Club
	r.acc.read(func(st *state) {
		out = make([]club.Club, 0, len(st.clubs))
		for _, item := range st.clubs {
			out = append(out, cloneClub(item))
		}
	})

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *ClubRepository) GetByID(_ context.Context, clubID string) (club.Club, bool, error) {
	var (
		item club.Club
		ok   bool
	)
	r.acc.read(func(st *state) {
		item, ok = st.clubs[clubID]
	})
	if !ok {
		return club.Club{}, false, nil
	}
	return cloneClub(item), true, nil
}

func (r *ClubRepository) GetByExternalID(_ context.Context, externalID string) (club.Club, bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return club.Club{}, false, nil
	}

	var (
		item club.Club
		ok   bool
	)
	r.acc.read(func(st *state) {
		for _, candidate := range st.clubs {
			if candidate.ExternalID == externalID {
				item, ok = cloneClub(candidate), true
				return
			}
		}
	})
	return item, ok, nil
}

func (r *ClubRepository) Upsert(_ context.Context, item club.Club) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("upsert club: %w", err)
	}

	return r.acc.write(func(st *state) error {
		st.clubs[item.ID] = cloneClub(item)
		return nil
	})
}
