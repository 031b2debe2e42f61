package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/venue"
	qb "github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/querybuilder"
)

type VenueRepository struct {
	q sqlx.ExtContext
}

func (r *VenueRepository) GetByID(ctx context.Context, venueID string) (venue.Venue, bool, error) {
	return r.getOne(ctx, qb.Eq("id", venueID))
}

func (r *VenueRepository) FindByName(ctx context.Context, name string) (venue.Venue, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return venue.Venue{}, false, nil
	}
	return r.getOne(ctx, qb.Expr("LOWER(name) = LOWER(?)", name))
}

func (r *VenueRepository) getOne(ctx context.Context, cond qb.Condition) (venue.Venue, bool, error) {
	query, args, err := qb.Select("*").From("venues").Where(cond).OrderBy("id").Limit(1).ToSQL()
	if err != nil {
		return venue.Venue{}, false, fmt.Errorf("build get venue query: %w", err)
	}

	var row venueTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, r.q.Rebind(query), args...); err != nil {
		if isNotFound(err) {
			return venue.Venue{}, false, nil
		}
		return venue.Venue{}, false, fmt.Errorf("get venue: %w", err)
	}
	return venue.Venue{
		ID:         row.ID,
		Name:       row.Name,
		Street:     row.Street,
		PostalCode: row.PostalCode,
		City:       row.City,
	}, true, nil
}

func (r *VenueRepository) Upsert(ctx context.Context, item venue.Venue) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("upsert venue: %w", err)
	}

	query, args, err := qb.UpsertModel("venues", venueTableModel{
		ID:         item.ID,
		Name:       item.Name,
		Street:     item.Street,
		PostalCode: item.PostalCode,
		City:       item.City,
	}, []string{"id"})
	if err != nil {
		return fmt.Errorf("build upsert venue query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, r.q.Rebind(query), args...); err != nil {
		return fmt.Errorf("upsert venue id=%s: %w", item.ID, err)
	}
	return nil
}
