package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/team"
	qb "github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/querybuilder"
)

type TeamRepository struct {
	q   sqlx.ExtContext
	now func() time.Time
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("id", teamID))
}

func (r *TeamRepository) GetByExternalID(ctx context.Context, externalID string) (team.Team, bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return team.Team{}, false, nil
	}
	return r.getOne(ctx, qb.Eq("external_id", externalID))
}

func (r *TeamRepository) FindUnlinkedOwn(ctx context.Context, name, ageCategory, season string) (team.Team, bool, error) {
	return r.getOne(ctx,
		qb.Eq("kind", string(team.KindOwn)),
		qb.IsNull("external_id"),
		qb.Eq("age_category", ageCategory),
		qb.Eq("season", season),
		qb.Expr("LOWER(name) = LOWER(?)", strings.TrimSpace(name)),
	)
}

func (r *TeamRepository) getOne(ctx context.Context, conds ...qb.Condition) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").Where(conds...).OrderBy("name", "id").Limit(1).ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, r.q.Rebind(query), args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}
	return teamFromRow(row), true, nil
}

func (r *TeamRepository) ListByKind(ctx context.Context, kind team.Kind) ([]team.Team, error) {
	return r.list(ctx, qb.Eq("kind", string(kind)))
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID string) ([]team.Team, error) {
	return r.list(ctx, qb.Eq("league_id", leagueID))
}

func (r *TeamRepository) list(ctx context.Context, cond qb.Condition) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").Where(cond).OrderBy("name", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("create team: %w", err)
	}

	query, args, err := qb.InsertModel("teams", r.toRow(item))
	if err != nil {
		return fmt.Errorf("build create team query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, r.q.Rebind(query), args...); err != nil {
		if mapped := uniqueTeamError(err, item); mapped != nil {
			return mapped
		}
		return fmt.Errorf("create team id=%s: %w", item.ID, err)
	}
	return nil
}

func (r *TeamRepository) Update(ctx context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("update team: %w", err)
	}

	row := r.toRow(item)
	query, args, err := qb.Update("teams").
		Set("external_id", row.ExternalID).
		Set("club_id", row.ClubID).
		Set("name", row.Name).
		Set("age_category", row.AgeCategory).
		Set("season", row.Season).
		Set("kind", row.Kind).
		Set("league_id", row.LeagueID).
		Set("league_name", row.LeagueName).
		Set("updated_at", row.UpdatedAt).
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}

	res, err := r.q.ExecContext(ctx, r.q.Rebind(query), args...)
	if err != nil {
		if mapped := uniqueTeamError(err, item); mapped != nil {
			return mapped
		}
		return fmt.Errorf("update team id=%s: %w", item.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update team id=%s: not found", item.ID)
	}
	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, teamID string) error {
	query, args, err := qb.DeleteFrom("teams").Where(qb.Eq("id", teamID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete team query: %w", err)
	}

	res, err := r.q.ExecContext(ctx, r.q.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("delete team id=%s: %w", teamID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("delete team id=%s: not found", teamID)
	}
	return nil
}

const ownTeamIdentityIndex = "idx_teams_own_identity"

// uniqueTeamError translates unique-index violations on teams into domain
// errors. It returns nil for any other failure.
func uniqueTeamError(err error, item team.Team) error {
	if !isUniqueViolation(err) {
		return nil
	}
	if violatesIndex(err, ownTeamIdentityIndex) {
		return fmt.Errorf("%w: name=%q age_category=%s season=%s: %v", team.ErrOwnTeamExists, item.Name, item.AgeCategory, item.Season, err)
	}
	if item.ExternalID != "" {
		return fmt.Errorf("%w: external_id=%s: %v", team.ErrExternalIDTaken, item.ExternalID, err)
	}
	return nil
}

func (r *TeamRepository) toRow(item team.Team) teamTableModel {
	now := r.now()
	return teamTableModel{
		ID:          item.ID,
		ExternalID:  nullString(item.ExternalID),
		ClubID:      item.ClubID,
		Name:        item.Name,
		AgeCategory: item.AgeCategory,
		Season:      item.Season,
		Kind:        string(item.Kind),
		LeagueID:    item.LeagueID,
		LeagueName:  item.LeagueName,
		CreatedAt:   orNow(item.CreatedAt, now),
		UpdatedAt:   orNow(item.UpdatedAt, now),
	}
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:          row.ID,
		ExternalID:  row.ExternalID.String,
		ClubID:      row.ClubID,
		Name:        row.Name,
		AgeCategory: row.AgeCategory,
		Season:      row.Season,
		Kind:        team.Kind(row.Kind),
		LeagueID:    row.LeagueID,
		LeagueName:  row.LeagueName,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
