package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/player"
	qb "github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/querybuilder"
)

type PlayerRepository struct {
	q   sqlx.ExtContext
	now func() time.Time
}

func (r *PlayerRepository) GetByExternalID(ctx context.Context, externalID string) (player.Player, bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return player.Player{}, false, nil
	}

	query, args, err := qb.Select("*").From("players").Where(qb.Eq("external_id", externalID)).Limit(1).ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, r.q.Rebind(query), args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player external_id=%s: %w", externalID, err)
	}
	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("last_name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list players team=%s: %w", teamID, err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

// Upsert writes the player keyed by external id. An existing row keeps its
// id and created_at.
func (r *PlayerRepository) Upsert(ctx context.Context, item player.Player) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}

	now := r.now()
	query, args, err := qb.UpsertModel("players", playerTableModel{
		ID:            item.ID,
		ExternalID:    item.ExternalID,
		TeamID:        item.TeamID,
		FirstName:     item.FirstName,
		LastName:      item.LastName,
		JerseyNumber:  nullInt(item.JerseyNumber),
		LicenseSuffix: item.LicenseSuffix,
		IsActive:      item.Active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, []string{"external_id"}, "id", "created_at")
	if err != nil {
		return fmt.Errorf("build upsert player query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, r.q.Rebind(query), args...); err != nil {
		return fmt.Errorf("upsert player external_id=%s: %w", item.ExternalID, err)
	}
	return nil
}

func (r *PlayerRepository) ReassignTeam(ctx context.Context, fromTeamID, toTeamID string) (int, error) {
	query, args, err := qb.Update("players").
		Set("team_id", toTeamID).
		Set("updated_at", r.now()).
		Where(qb.Eq("team_id", fromTeamID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build reassign players query: %w", err)
	}

	res, err := r.q.ExecContext(ctx, r.q.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("reassign players from=%s to=%s: %w", fromTeamID, toTeamID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reassign players rows affected: %w", err)
	}
	return int(affected), nil
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:            row.ID,
		ExternalID:    row.ExternalID,
		TeamID:        row.TeamID,
		FirstName:     row.FirstName,
		LastName:      row.LastName,
		JerseyNumber:  intPtr(row.JerseyNumber),
		LicenseSuffix: row.LicenseSuffix,
		Active:        row.IsActive,
	}
}
