package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/game"
	qb "github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/querybuilder"
)

type GameRepository struct {
	q   sqlx.ExtContext
	now func() time.Time
}

var gameOrder = []string{"game_date", "game_time", "number", "id"}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	return r.getOne(ctx, qb.Eq("id", gameID))
}

func (r *GameRepository) GetByExternalID(ctx context.Context, externalID string) (game.Game, bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return game.Game{}, false, nil
	}
	return r.getOne(ctx, qb.Eq("external_id", externalID))
}

func (r *GameRepository) getOne(ctx context.Context, cond qb.Condition) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").Where(cond).Limit(1).ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game query: %w", err)
	}

	var row gameTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, r.q.Rebind(query), args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game: %w", err)
	}

	item, err := gameFromRow(row)
	if err != nil {
		return game.Game{}, false, err
	}
	return item, true, nil
}

func (r *GameRepository) ListByLeague(ctx context.Context, leagueID string) ([]game.Game, error) {
	return r.list(ctx, qb.Eq("league_id", leagueID))
}

func (r *GameRepository) ListByTeam(ctx context.Context, teamID string) ([]game.Game, error) {
	return r.list(ctx, qb.Or(qb.Eq("home_team_id", teamID), qb.Eq("away_team_id", teamID)))
}

func (r *GameRepository) list(ctx context.Context, cond qb.Condition) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").Where(cond).OrderBy(gameOrder...).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games query: %w", err)
	}

	var rows []gameTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		item, err := gameFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *GameRepository) Upsert(ctx context.Context, item game.Game) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("upsert game: %w", err)
	}

	referees, err := encodeJSONList(item.Referees)
	if err != nil {
		return fmt.Errorf("encode referees game=%s: %w", item.ID, err)
	}

	now := r.now()
	query, args, err := qb.UpsertModel("games", gameTableModel{
		ID:           item.ID,
		ExternalID:   nullString(item.ExternalID),
		LeagueID:     item.LeagueID,
		HomeTeamID:   item.HomeTeamID,
		AwayTeamID:   item.AwayTeamID,
		HomeTeamName: item.HomeTeamName,
		AwayTeamName: item.AwayTeamName,
		Matchday:     item.Matchday,
		Number:       item.Number,
		Date:         item.Date,
		Time:         item.Time,
		Status:       string(item.Status),
		HomeScore:    nullInt(item.HomeScore),
		AwayScore:    nullInt(item.AwayScore),
		IsHomeGame:   item.IsHomeGame,
		VenueID:      item.VenueID,
		Referees:     referees,
		CreatedAt:    orNow(item.CreatedAt, now),
		UpdatedAt:    orNow(item.UpdatedAt, now),
	}, []string{"id"}, "created_at")
	if err != nil {
		return fmt.Errorf("build upsert game query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, r.q.Rebind(query), args...); err != nil {
		return fmt.Errorf("upsert game id=%s: %w", item.ID, err)
	}
	return nil
}

func (r *GameRepository) ReassignHomeTeam(ctx context.Context, fromTeamID, toTeamID string) (int, error) {
	return r.reassign(ctx, "home_team_id", fromTeamID, toTeamID)
}

func (r *GameRepository) ReassignAwayTeam(ctx context.Context, fromTeamID, toTeamID string) (int, error) {
	return r.reassign(ctx, "away_team_id", fromTeamID, toTeamID)
}

func (r *GameRepository) reassign(ctx context.Context, column, fromTeamID, toTeamID string) (int, error) {
	query, args, err := qb.Update("games").
		Set(column, toTeamID).
		Set("updated_at", r.now()).
		Where(qb.Eq(column, fromTeamID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build reassign %s query: %w", column, err)
	}

	res, err := r.q.ExecContext(ctx, r.q.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("reassign %s from=%s to=%s: %w", column, fromTeamID, toTeamID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reassign %s rows affected: %w", column, err)
	}
	return int(affected), nil
}

func gameFromRow(row gameTableModel) (game.Game, error) {
	referees, err := decodeJSONList[string](row.Referees)
	if err != nil {
		return game.Game{}, fmt.Errorf("decode referees game=%s: %w", row.ID, err)
	}
	return game.Game{
		ID:           row.ID,
		ExternalID:   row.ExternalID.String,
		LeagueID:     row.LeagueID,
		HomeTeamID:   row.HomeTeamID,
		AwayTeamID:   row.AwayTeamID,
		HomeTeamName: row.HomeTeamName,
		AwayTeamName: row.AwayTeamName,
		Matchday:     row.Matchday,
		Number:       row.Number,
		Date:         row.Date,
		Time:         row.Time,
		Status:       game.Status(row.Status),
		HomeScore:    intPtr(row.HomeScore),
		AwayScore:    intPtr(row.AwayScore),
		IsHomeGame:   row.IsHomeGame,
		VenueID:      row.VenueID,
		Referees:     referees,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}
