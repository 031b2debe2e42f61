package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/league"
	qb "github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/querybuilder"
)

type LeagueRepository struct {
	q   sqlx.ExtContext
	now func() time.Time
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").OrderBy("name", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromRow(row))
	}
	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	return r.getOne(ctx, qb.Eq("id", leagueID))
}

func (r *LeagueRepository) GetByExternalID(ctx context.Context, externalID string) (league.League, bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return league.League{}, false, nil
	}
	return r.getOne(ctx, qb.Eq("external_id", externalID))
}

func (r *LeagueRepository) getOne(ctx context.Context, cond qb.Condition) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").Where(cond).Limit(1).ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league query: %w", err)
	}

	var row leagueTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, r.q.Rebind(query), args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}
	return leagueFromRow(row), true, nil
}

func (r *LeagueRepository) Upsert(ctx context.Context, item league.League) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("upsert league: %w", err)
	}

	now := r.now()
	row := leagueTableModel{
		ID:          item.ID,
		ExternalID:  item.ExternalID,
		Name:        item.Name,
		Season:      item.Season,
		AgeCategory: item.AgeCategory,
		CreatedAt:   orNow(item.CreatedAt, now),
		UpdatedAt:   orNow(item.UpdatedAt, now),
	}
	if item.LastSyncedAt != nil {
		row.LastSyncedAt = sql.NullTime{Time: item.LastSyncedAt.UTC(), Valid: true}
	}

	query, args, err := qb.UpsertModel("leagues", row, []string{"id"}, "created_at")
	if err != nil {
		return fmt.Errorf("build upsert league query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, r.q.Rebind(query), args...); err != nil {
		return fmt.Errorf("upsert league id=%s: %w", item.ID, err)
	}
	return nil
}

func leagueFromRow(row leagueTableModel) league.League {
	out := league.League{
		ID:          row.ID,
		ExternalID:  row.ExternalID,
		Name:        row.Name,
		Season:      row.Season,
		AgeCategory: row.AgeCategory,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.LastSyncedAt.Valid {
		ts := row.LastSyncedAt.Time
		out.LastSyncedAt = &ts
	}
	return out
}

func orNow(value, now time.Time) time.Time {
	if value.IsZero() {
		return now
	}
	return value.UTC()
}
