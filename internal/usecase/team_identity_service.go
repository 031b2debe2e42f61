package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/game"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/player"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/store"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/team"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/id"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/logging"
)

// Resolution tells how CreateOrLink matched a candidate.
type Resolution string

const (
	ResolutionUpdated Resolution = "updated"
	ResolutionAdopted Resolution = "adopted"
	ResolutionCreated Resolution = "created"
)

// TeamCandidate is a team as reported by the federation during league sync.
type TeamCandidate struct {
	ExternalTeamID string
	Name           string
	ClubID         string
	AgeCategory    string
	Season         string
	LeagueID       string
	LeagueName     string
}

type MergeInput struct {
	AuthoritativeTeamID string
	DuplicateTeamID     string
}

// ScheduleConflict lists games of one team starting at the same date and time.
type ScheduleConflict struct {
	Date    string   `json:"date"`
	Time    string   `json:"time"`
	GameIDs []string `json:"game_ids"`
}

type MergeReport struct {
	AuthoritativeTeamID string             `json:"authoritative_team_id"`
	RemovedTeamID       string             `json:"removed_team_id"`
	ExternalID          string             `json:"external_id,omitempty"`
	HomeGamesMoved      int                `json:"home_games_moved"`
	AwayGamesMoved      int                `json:"away_games_moved"`
	StandingsMoved      int                `json:"standings_moved"`
	PlayersMoved        int                `json:"players_moved"`
	Conflicts           []ScheduleConflict `json:"conflicts"`
	SelfFixtures        []string           `json:"self_fixtures"`
}

type CreateOwnTeamInput struct {
	Name        string
	ClubID      string
	AgeCategory string
	Season      string
}

// TeamIdentityService keeps exactly one team record per real-world team:
// it links synced teams to locally created ones and merges duplicates.
type TeamIdentityService struct {
	tx     store.Transactor
	ids    id.Generator
	clock  clockwork.Clock
	logger *logging.Logger
}

func NewTeamIdentityService(tx store.Transactor, ids id.Generator, clock clockwork.Clock, logger *logging.Logger) *TeamIdentityService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamIdentityService{
		tx:     tx,
		ids:    ids,
		clock:  clock,
		logger: logger,
	}
}

// CreateOrLink resolves a synced team against repos, which must belong to
// the caller's transaction. Repeated calls with the same candidate leave the
// team set unchanged.
func (s *TeamIdentityService) CreateOrLink(ctx context.Context, repos store.Repositories, c TeamCandidate) (team.Team, Resolution, error) {
	c.ExternalTeamID = strings.TrimSpace(c.ExternalTeamID)
	c.Name = strings.TrimSpace(c.Name)
	if c.ExternalTeamID == "" {
		return team.Team{}, "", fmt.Errorf("%w: external team id is required", ErrInvalidInput)
	}
	if c.Name == "" {
		return team.Team{}, "", fmt.Errorf("%w: team name is required for external id=%s", ErrInvalidInput, c.ExternalTeamID)
	}

	now := s.clock.Now().UTC()

	existing, ok, err := repos.Teams.GetByExternalID(ctx, c.ExternalTeamID)
	if err != nil {
		return team.Team{}, "", fmt.Errorf("get team by external id=%s: %w", c.ExternalTeamID, err)
	}
	if ok {
		updated := existing
		updated.Name = c.Name
		if c.ClubID != "" {
			updated.ClubID = c.ClubID
		}
		if c.LeagueID != "" {
			updated.LeagueID = c.LeagueID
			updated.LeagueName = c.LeagueName
		}
		if updated.AgeCategory == "" {
			updated.AgeCategory = c.AgeCategory
		}
		if updated.Season == "" {
			updated.Season = c.Season
		}
		if !sameTeamFields(existing, updated) {
			updated.UpdatedAt = now
			if err := repos.Teams.Update(ctx, updated); err != nil {
				return team.Team{}, "", fmt.Errorf("update team id=%s: %w", existing.ID, err)
			}
		}
		return updated, ResolutionUpdated, nil
	}

	own, ok, err := repos.Teams.FindUnlinkedOwn(ctx, c.Name, c.AgeCategory, c.Season)
	if err != nil {
		return team.Team{}, "", fmt.Errorf("find unlinked own team: %w", err)
	}
	if ok {
		own.ExternalID = c.ExternalTeamID
		own.LeagueID = c.LeagueID
		own.LeagueName = c.LeagueName
		if own.ClubID == "" {
			own.ClubID = c.ClubID
		}
		own.UpdatedAt = now
		if err := repos.Teams.Update(ctx, own); err != nil {
			return team.Team{}, "", fmt.Errorf("adopt external id=%s on team id=%s: %w", c.ExternalTeamID, own.ID, err)
		}

		s.logger.InfoContext(ctx, "linked own team to federation record",
			"team_id", own.ID,
			"external_team_id", c.ExternalTeamID,
			"league_id", c.LeagueID,
		)
		return own, ResolutionAdopted, nil
	}

	teamID, err := s.ids.NewID()
	if err != nil {
		return team.Team{}, "", fmt.Errorf("generate team id: %w", err)
	}
	created := team.Team{
		ID:          teamID,
		ExternalID:  c.ExternalTeamID,
		ClubID:      c.ClubID,
		Name:        c.Name,
		AgeCategory: c.AgeCategory,
		Season:      c.Season,
		Kind:        team.KindOpponent,
		LeagueID:    c.LeagueID,
		LeagueName:  c.LeagueName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repos.Teams.Create(ctx, created); err != nil {
		if isExternalIDConflict(err) {
			return team.Team{}, "", fmt.Errorf("%w: external id=%s: %v", ErrInvariantViolation, c.ExternalTeamID, err)
		}
		return team.Team{}, "", fmt.Errorf("create team external id=%s: %w", c.ExternalTeamID, err)
	}

	return created, ResolutionCreated, nil
}

func sameTeamFields(a, b team.Team) bool {
	return a.Name == b.Name &&
		a.ClubID == b.ClubID &&
		a.LeagueID == b.LeagueID &&
		a.LeagueName == b.LeagueName &&
		a.AgeCategory == b.AgeCategory &&
		a.Season == b.Season
}

// Merge folds the duplicate team into the authoritative one. Every game and
// standings reference moves over, the external id follows, and the duplicate
// is deleted. All of it happens in one transaction.
func (s *TeamIdentityService) Merge(ctx context.Context, input MergeInput) (MergeReport, error) {
	ctx, span := startSpan(ctx, "TeamIdentityService.Merge")
	defer span.End()

	input.AuthoritativeTeamID = strings.TrimSpace(input.AuthoritativeTeamID)
	input.DuplicateTeamID = strings.TrimSpace(input.DuplicateTeamID)
	if input.AuthoritativeTeamID == "" || input.DuplicateTeamID == "" {
		return MergeReport{}, fmt.Errorf("%w: authoritative and duplicate team ids are required", ErrInvalidInput)
	}
	if input.AuthoritativeTeamID == input.DuplicateTeamID {
		return MergeReport{}, fmt.Errorf("%w: cannot merge team id=%s into itself", ErrInvalidInput, input.AuthoritativeTeamID)
	}

	var report MergeReport
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		var err error
		report, err = s.merge(ctx, repos, input)
		return err
	})
	if err != nil {
		return MergeReport{}, err
	}

	if len(report.Conflicts) > 0 || len(report.SelfFixtures) > 0 {
		s.logger.WarnContext(ctx, "merged team has overlapping games",
			"team_id", report.AuthoritativeTeamID,
			"conflicts", len(report.Conflicts),
			"self_fixtures", len(report.SelfFixtures),
		)
	}
	s.logger.InfoContext(ctx, "merged duplicate team",
		"team_id", report.AuthoritativeTeamID,
		"removed_team_id", report.RemovedTeamID,
		"external_team_id", report.ExternalID,
		"home_games_moved", report.HomeGamesMoved,
		"away_games_moved", report.AwayGamesMoved,
		"standings_moved", report.StandingsMoved,
		"players_moved", report.PlayersMoved,
	)
	return report, nil
}

func (s *TeamIdentityService) merge(ctx context.Context, repos store.Repositories, input MergeInput) (MergeReport, error) {
	auth, ok, err := repos.Teams.GetByID(ctx, input.AuthoritativeTeamID)
	if err != nil {
		return MergeReport{}, fmt.Errorf("get authoritative team: %w", err)
	}
	if !ok {
		return MergeReport{}, fmt.Errorf("%w: authoritative team id=%s does not exist", ErrInvariantViolation, input.AuthoritativeTeamID)
	}
	dup, ok, err := repos.Teams.GetByID(ctx, input.DuplicateTeamID)
	if err != nil {
		return MergeReport{}, fmt.Errorf("get duplicate team: %w", err)
	}
	if !ok {
		return MergeReport{}, fmt.Errorf("%w: duplicate team id=%s does not exist", ErrInvariantViolation, input.DuplicateTeamID)
	}
	if dup.IsOwn() && !auth.IsOwn() {
		return MergeReport{}, fmt.Errorf(
			"%w: own team id=%s cannot be merged into opponent team id=%s, swap the pair",
			ErrInvariantViolation, dup.ID, auth.ID,
		)
	}
	if auth.ExternalID != "" && dup.ExternalID != "" && auth.ExternalID != dup.ExternalID {
		return MergeReport{}, fmt.Errorf(
			"%w: team id=%s is already linked to external id=%s, duplicate carries external id=%s",
			ErrInvariantViolation, auth.ID, auth.ExternalID, dup.ExternalID,
		)
	}

	report := MergeReport{
		AuthoritativeTeamID: auth.ID,
		RemovedTeamID:       dup.ID,
		Conflicts:           []ScheduleConflict{},
		SelfFixtures:        []string{},
	}

	if report.HomeGamesMoved, err = repos.Games.ReassignHomeTeam(ctx, dup.ID, auth.ID); err != nil {
		return MergeReport{}, fmt.Errorf("repoint home games: %w", err)
	}
	if report.AwayGamesMoved, err = repos.Games.ReassignAwayTeam(ctx, dup.ID, auth.ID); err != nil {
		return MergeReport{}, fmt.Errorf("repoint away games: %w", err)
	}
	if report.StandingsMoved, err = repos.Standings.ReassignTeam(ctx, dup.ID, auth.ID); err != nil {
		return MergeReport{}, fmt.Errorf("repoint standings: %w", err)
	}
	if report.PlayersMoved, err = repos.Players.ReassignTeam(ctx, dup.ID, auth.ID); err != nil {
		return MergeReport{}, fmt.Errorf("repoint players: %w", err)
	}

	now := s.clock.Now().UTC()
	if dup.ExternalID != "" {
		externalID := dup.ExternalID
		dup.ExternalID = ""
		dup.UpdatedAt = now
		if err := repos.Teams.Update(ctx, dup); err != nil {
			return MergeReport{}, fmt.Errorf("release external id=%s: %w", externalID, err)
		}
		auth.ExternalID = externalID
		report.ExternalID = externalID
	}
	if auth.LeagueID == "" {
		auth.LeagueID = dup.LeagueID
		auth.LeagueName = dup.LeagueName
	}
	if auth.ClubID == "" {
		auth.ClubID = dup.ClubID
	}
	auth.UpdatedAt = now
	if err := repos.Teams.Update(ctx, auth); err != nil {
		return MergeReport{}, fmt.Errorf("update authoritative team: %w", err)
	}
	if err := repos.Teams.Delete(ctx, dup.ID); err != nil {
		return MergeReport{}, fmt.Errorf("delete duplicate team: %w", err)
	}

	games, err := repos.Games.ListByTeam(ctx, auth.ID)
	if err != nil {
		return MergeReport{}, fmt.Errorf("list games of merged team: %w", err)
	}
	for _, item := range games {
		if item.HomeTeamID == auth.ID && item.IsHomeGame != auth.IsOwn() {
			item.IsHomeGame = auth.IsOwn()
			item.UpdatedAt = now
			if err := repos.Games.Upsert(ctx, item); err != nil {
				return MergeReport{}, fmt.Errorf("update home flag of game id=%s: %w", item.ID, err)
			}
		}
		if item.HomeTeamID == auth.ID && item.AwayTeamID == auth.ID {
			report.SelfFixtures = append(report.SelfFixtures, item.ID)
		}
	}
	report.Conflicts = scheduleConflicts(games)

	return report, nil
}

// scheduleConflicts groups games that share a non-empty date and time.
func scheduleConflicts(games []game.Game) []ScheduleConflict {
	type slot struct{ date, time string }
	bySlot := make(map[slot][]string)
	order := make([]slot, 0)
	for _, item := range games {
		if item.Date == "" || item.Time == "" {
			continue
		}
		key := slot{date: item.Date, time: item.Time}
		if _, seen := bySlot[key]; !seen {
			order = append(order, key)
		}
		bySlot[key] = append(bySlot[key], item.ID)
	}

	out := make([]ScheduleConflict, 0)
	for _, key := range order {
		ids := bySlot[key]
		if len(ids) < 2 {
			continue
		}
		sort.Strings(ids)
		out = append(out, ScheduleConflict{Date: key.date, Time: key.time, GameIDs: ids})
	}
	return out
}

// CreateOwnTeam registers a team of the coach's club before any league
// sync knows about it.
func (s *TeamIdentityService) CreateOwnTeam(ctx context.Context, input CreateOwnTeamInput) (team.Team, error) {
	ctx, span := startSpan(ctx, "TeamIdentityService.CreateOwnTeam")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.ClubID = strings.TrimSpace(input.ClubID)
	if input.Name == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	ageCategory, err := NormalizeAgeCategory(input.AgeCategory)
	if err != nil {
		return team.Team{}, err
	}
	season := CurrentSeason(s.clock.Now())
	if strings.TrimSpace(input.Season) != "" {
		if season, err = NormalizeSeason(input.Season); err != nil {
			return team.Team{}, err
		}
	}

	var created team.Team
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if input.ClubID != "" {
			_, ok, err := repos.Clubs.GetByID(ctx, input.ClubID)
			if err != nil {
				return fmt.Errorf("get club: %w", err)
			}
			if !ok {
				return fmt.Errorf("%w: club=%s", ErrNotFound, input.ClubID)
			}
		}

		own, err := repos.Teams.ListByKind(ctx, team.KindOwn)
		if err != nil {
			return fmt.Errorf("list own teams: %w", err)
		}
		for _, item := range own {
			if strings.EqualFold(item.Name, input.Name) && item.AgeCategory == ageCategory && item.Season == season {
				return fmt.Errorf("%w: own team %q %s %s already exists as id=%s", ErrInvariantViolation, input.Name, ageCategory, season, item.ID)
			}
		}

		teamID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate team id: %w", err)
		}
		now := s.clock.Now().UTC()
		created = team.Team{
			ID:          teamID,
			ClubID:      input.ClubID,
			Name:        input.Name,
			AgeCategory: ageCategory,
			Season:      season,
			Kind:        team.KindOwn,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repos.Teams.Create(ctx, created); err != nil {
			if errors.Is(err, team.ErrOwnTeamExists) {
				return fmt.Errorf("%w: %v", ErrInvariantViolation, err)
			}
			return fmt.Errorf("create own team: %w", err)
		}
		return nil
	})
	if err != nil {
		return team.Team{}, err
	}

	s.logger.InfoContext(ctx, "created own team",
		"team_id", created.ID,
		"age_category", created.AgeCategory,
		"season", created.Season,
	)
	return created, nil
}

// MarkOwnTeam turns a synced team into one of the coach's own teams. Its
// club becomes an own club and its home fixtures count as home games.
// Marking an own team again changes nothing.
func (s *TeamIdentityService) MarkOwnTeam(ctx context.Context, teamID string) (team.Team, error) {
	ctx, span := startSpan(ctx, "TeamIdentityService.MarkOwnTeam")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	var (
		marked  team.Team
		changed bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		item, ok, err := repos.Teams.GetByID(ctx, teamID)
		if err != nil {
			return fmt.Errorf("get team: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
		}
		marked = item
		if item.IsOwn() {
			return nil
		}

		now := s.clock.Now().UTC()
		item.Kind = team.KindOwn
		item.UpdatedAt = now
		if err := repos.Teams.Update(ctx, item); err != nil {
			if errors.Is(err, team.ErrOwnTeamExists) {
				return fmt.Errorf("%w: %v", ErrInvariantViolation, err)
			}
			return fmt.Errorf("mark team id=%s as own: %w", item.ID, err)
		}
		if err := markClubOwn(ctx, repos, item.ClubID); err != nil {
			return err
		}

		games, err := repos.Games.ListByTeam(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("list games of team: %w", err)
		}
		for _, g := range games {
			if g.HomeTeamID != item.ID || g.IsHomeGame {
				continue
			}
			g.IsHomeGame = true
			g.UpdatedAt = now
			if err := repos.Games.Upsert(ctx, g); err != nil {
				return fmt.Errorf("update home flag of game id=%s: %w", g.ID, err)
			}
		}

		marked, changed = item, true
		return nil
	})
	if err != nil {
		return team.Team{}, err
	}

	if changed {
		s.logger.InfoContext(ctx, "marked team as own",
			"team_id", marked.ID,
			"external_team_id", marked.ExternalID,
		)
	}
	return marked, nil
}

// ListPlayers returns the roster recorded for a team from match info.
func (s *TeamIdentityService) ListPlayers(ctx context.Context, teamID string) ([]player.Player, error) {
	ctx, span := startSpan(ctx, "TeamIdentityService.ListPlayers")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	repos := s.tx.Repositories()
	if _, ok, err := repos.Teams.GetByID(ctx, teamID); err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	} else if !ok {
		return nil, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	items, err := repos.Players.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list players of team: %w", err)
	}
	return items, nil
}

func (s *TeamIdentityService) ListOwnTeams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startSpan(ctx, "TeamIdentityService.ListOwnTeams")
	defer span.End()

	items, err := s.tx.Repositories().Teams.ListByKind(ctx, team.KindOwn)
	if err != nil {
		return nil, fmt.Errorf("list own teams: %w", err)
	}
	return items, nil
}

func (s *TeamIdentityService) ListGamesForTeam(ctx context.Context, teamID string) ([]game.Game, error) {
	ctx, span := startSpan(ctx, "TeamIdentityService.ListGamesForTeam")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	repos := s.tx.Repositories()
	if _, ok, err := repos.Teams.GetByID(ctx, teamID); err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	} else if !ok {
		return nil, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	items, err := repos.Games.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list games of team: %w", err)
	}
	return items, nil
}

// isExternalIDConflict reports a store rejection of a second team with the
// same external id.
func isExternalIDConflict(err error) bool {
	return errors.Is(err, team.ErrExternalIDTaken)
}
