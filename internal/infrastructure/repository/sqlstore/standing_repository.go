package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/standing"
	qb "github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/querybuilder"
)

type StandingRepository struct {
	q   sqlx.ExtContext
	now func() time.Time
}

func (r *StandingRepository) ListByLeague(ctx context.Context, leagueID string) ([]standing.Standing, error) {
	query, args, err := qb.Select("*").From("standings").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("rank", "external_team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Standing{
			LeagueID:       row.LeagueID,
			ExternalTeamID: row.ExternalTeamID,
			TeamID:         row.TeamID,
			Rank:           row.Rank,
			Games:          row.Games,
			Wins:           row.Wins,
			Losses:         row.Losses,
			Points:         row.Points,
			ScoredPoints:   row.ScoredPoints,
			ConcededPoints: row.ConcededPoints,
			PointsDiff:     row.PointsDiff,
			HomeWins:       row.HomeWins,
			HomeLosses:     row.HomeLosses,
			AwayWins:       row.AwayWins,
			AwayLosses:     row.AwayLosses,
			UpdatedAt:      row.UpdatedAt,
		})
	}
	return out, nil
}

func (r *StandingRepository) Upsert(ctx context.Context, item standing.Standing) error {
	if item.LeagueID == "" || item.ExternalTeamID == "" {
		return fmt.Errorf("upsert standing: league id and external team id are required")
	}

	query, args, err := qb.UpsertModel("standings", standingTableModel{
		LeagueID:       item.LeagueID,
		ExternalTeamID: item.ExternalTeamID,
		TeamID:         item.TeamID,
		Rank:           item.Rank,
		Games:          item.Games,
		Wins:           item.Wins,
		Losses:         item.Losses,
		Points:         item.Points,
		ScoredPoints:   item.ScoredPoints,
		ConcededPoints: item.ConcededPoints,
		PointsDiff:     item.PointsDiff,
		HomeWins:       item.HomeWins,
		HomeLosses:     item.HomeLosses,
		AwayWins:       item.AwayWins,
		AwayLosses:     item.AwayLosses,
		UpdatedAt:      orNow(item.UpdatedAt, r.now()),
	}, []string{"league_id", "external_team_id"})
	if err != nil {
		return fmt.Errorf("build upsert standing query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, r.q.Rebind(query), args...); err != nil {
		return fmt.Errorf("upsert standing league=%s team=%s: %w", item.LeagueID, item.ExternalTeamID, err)
	}
	return nil
}

func (r *StandingRepository) ReassignTeam(ctx context.Context, fromTeamID, toTeamID string) (int, error) {
	query, args, err := qb.Update("standings").
		Set("team_id", toTeamID).
		Set("updated_at", r.now()).
		Where(qb.Eq("team_id", fromTeamID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build reassign standings query: %w", err)
	}

	res, err := r.q.ExecContext(ctx, r.q.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("reassign standings from=%s to=%s: %w", fromTeamID, toTeamID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reassign standings rows affected: %w", err)
	}
	return int(affected), nil
}
