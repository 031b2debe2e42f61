package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/club"
	qb "github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/querybuilder"
)

type ClubRepository struct {
	q sqlx.ExtContext
}

func (r *ClubRepository) List(ctx context.Context) ([]club.Club, error) {
	query, args, err := qb.Select("*").From("clubs").OrderBy("name", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list clubs query: %w", err)
	}

	var rows []clubTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}

	out := make([]club.Club, 0, len(rows))
	for _, row := range rows {
		item, err := clubFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *ClubRepository) GetByID(ctx context.Context, clubID string) (club.Club, bool, error) {
	return r.getOne(ctx, qb.Eq("id", clubID))
}

func (r *ClubRepository) GetByExternalID(ctx context.Context, externalID string) (club.Club, bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return club.Club{}, false, nil
	}
	return r.getOne(ctx, qb.Eq("external_id", externalID))
}

func (r *ClubRepository) getOne(ctx context.Context, cond qb.Condition) (club.Club, bool, error) {
	query, args, err := qb.Select("*").From("clubs").Where(cond).Limit(1).ToSQL()
	if err != nil {
		return club.Club{}, false, fmt.Errorf("build get club query: %w", err)
	}

	var row clubTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, r.q.Rebind(query), args...); err != nil {
		if isNotFound(err) {
			return club.Club{}, false, nil
		}
		return club.Club{}, false, fmt.Errorf("get club: %w", err)
	}

	item, err := clubFromRow(row)
	if err != nil {
		return club.Club{}, false, err
	}
	return item, true, nil
}

func (r *ClubRepository) Upsert(ctx context.Context, item club.Club) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("upsert club: %w", err)
	}

	federations, err := encodeJSONList(item.FederationIDs)
	if err != nil {
		return fmt.Errorf("encode club federations id=%s: %w", item.ID, err)
	}

	query, args, err := qb.UpsertModel("clubs", clubTableModel{
		ID:            item.ID,
		ExternalID:    nullString(item.ExternalID),
		Name:          item.Name,
		ShortName:     item.ShortName,
		FederationIDs: federations,
		IsOwn:         item.IsOwn,
	}, []string{"id"})
	if err != nil {
		return fmt.Errorf("build upsert club query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, r.q.Rebind(query), args...); err != nil {
		return fmt.Errorf("upsert club id=%s: %w", item.ID, err)
	}
	return nil
}

func clubFromRow(row clubTableModel) (club.Club, error) {
	federations, err := decodeJSONList[int](row.FederationIDs)
	if err != nil {
		return club.Club{}, fmt.Errorf("decode club federations id=%s: %w", row.ID, err)
	}
	return club.Club{
		ID:            row.ID,
		ExternalID:    row.ExternalID.String,
		Name:          row.Name,
		ShortName:     row.ShortName,
		FederationIDs: federations,
		IsOwn:         row.IsOwn,
	}, nil
}
