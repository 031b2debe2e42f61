package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/venue"
)

type VenueRepository struct {
	acc accessor
}

func (r *VenueRepository) GetByID(_ context.Context, venueID string) (venue.Venue, bool, error) {
	var (
		item venue.Venue
		ok   bool
	)
	r.acc.read(func(st *state) {
		item, ok = st.venues[venueID]
	})
	return item, ok, nil
}

func (r *VenueRepository) FindByName(_ context.Context, name string) (venue.Venue, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return venue.Venue{}, false, nil
	}

	var (
		item venue.Venue
		ok   bool
	)
	r.acc.read(func(st *state) {
		for _, candidate := range st.venues {
			if strings.EqualFold(candidate.Name, name) {
				item, ok = candidate, true
				return
			}
		}
	})
	return item, ok, nil
}

func (r *VenueRepository) Upsert(_ context.Context, item venue.Venue) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("upsert venue: %w", err)
	}

	return r.acc.write(func(st *state) error {
		st.venues[item.ID] = item
		return nil
	})
}
