package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/club"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/game"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/league"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/player"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/standing"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/store"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/venue"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/id"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/logging"
)

const (
	StageStandings = "standings"
	StagePersist   = "persist"
	StageSchedule  = "schedule"
	StageDetails   = "details"
)

// StageError reports which sync stage failed. Work committed by earlier
// stages stays in place.
type StageError struct {
	Stage      string
	ExternalID string
	Err        error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("sync league %s: %s stage: %v", e.ExternalID, e.Stage, e.Err)
}

// Unwrap exposes the cause. Fetch stages also match ErrDependencyUnavailable.
func (e *StageError) Unwrap() []error {
	if e.Stage == StageStandings || e.Stage == StageSchedule {
		return []error{e.Err, ErrDependencyUnavailable}
	}
	return []error{e.Err}
}

type SyncOptions struct {
	SkipGameDetails bool
}

type SkippedGame struct {
	ExternalGameID string `json:"external_game_id"`
	Reason         string `json:"reason"`
}

type SyncReport struct {
	League         league.League
	TeamsCreated   int
	TeamsLinked    int
	TeamsUpdated   int
	StandingsRows  int
	ScheduleSynced bool
	GamesCreated   int
	GamesUpdated   int
	Skipped        []SkippedGame
	DetailsFetched int
	DetailsFailed  int
	PlayersSynced  int
}

// LeagueSyncResult is the outcome of one league in a batch sync.
type LeagueSyncResult struct {
	ExternalLeagueID string
	Report           SyncReport
	Err              error
}

type LeagueSyncConfig struct {
	// GameDetailInterval spaces game detail requests. Zero disables the limit.
	GameDetailInterval time.Duration
	// Workers bounds how many leagues SyncLeagues runs at once. Defaults to 1.
	Workers int
}

// LeagueSyncService mirrors one federation league into the local store:
// league, clubs, teams and standings first, then the schedule, then
// optional per-game details.
type LeagueSyncService struct {
	provider LeagueDataProvider
	tx       store.Transactor
	identity *TeamIdentityService
	ids      id.Generator
	clock    clockwork.Clock
	cfg      LeagueSyncConfig
	logger   *logging.Logger

	// writes serializes store transactions across concurrently synced
	// leagues, so adoption always sees teams written by an earlier league.
	writes sync.Mutex
}

func NewLeagueSyncService(
	provider LeagueDataProvider,
	tx store.Transactor,
	identity *TeamIdentityService,
	ids id.Generator,
	clock clockwork.Clock,
	cfg LeagueSyncConfig,
	logger *logging.Logger,
) *LeagueSyncService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if identity == nil {
		identity = NewTeamIdentityService(tx, ids, clock, logger)
	}

	return &LeagueSyncService{
		provider: provider,
		tx:       tx,
		identity: identity,
		ids:      ids,
		clock:    clock,
		cfg:      cfg,
		logger:   logger.Named("league_sync"),
	}
}

func (s *LeagueSyncService) SyncLeague(ctx context.Context, externalLeagueID string, opts SyncOptions) (SyncReport, error) {
	ctx, span := startSpan(ctx, "LeagueSyncService.SyncLeague", attribute.String("dbb.league_id", externalLeagueID))
	defer span.End()

	externalLeagueID, err := normalizeExternalID(externalLeagueID)
	if err != nil {
		return SyncReport{}, err
	}

	startedAt := s.clock.Now()
	report := SyncReport{Skipped: []SkippedGame{}}

	standings, err := s.provider.FetchStandings(ctx, externalLeagueID)
	if err != nil {
		s.logger.WarnContext(ctx, "fetch standings failed", "external_league_id", externalLeagueID, "error", err)
		return report, failSpan(span, &StageError{Stage: StageStandings, ExternalID: externalLeagueID, Err: err})
	}

	err = s.withinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		return s.persistStandings(ctx, repos, externalLeagueID, standings, &report)
	})
	if err != nil {
		return SyncReport{Skipped: []SkippedGame{}}, failSpan(span, &StageError{Stage: StagePersist, ExternalID: externalLeagueID, Err: err})
	}

	if err := s.syncSchedule(ctx, report.League, &report); err != nil {
		return report, failSpan(span, err)
	}

	if !opts.SkipGameDetails {
		if err := s.syncGameDetails(ctx, report.League, &report); err != nil {
			return report, failSpan(span, &StageError{Stage: StageDetails, ExternalID: externalLeagueID, Err: err})
		}
	}

	s.logger.InfoContext(ctx, "league synced",
		"external_league_id", externalLeagueID,
		"league_id", report.League.ID,
		"teams_created", report.TeamsCreated,
		"teams_linked", report.TeamsLinked,
		"teams_updated", report.TeamsUpdated,
		"games_created", report.GamesCreated,
		"games_updated", report.GamesUpdated,
		"games_skipped", len(report.Skipped),
		"details_failed", report.DetailsFailed,
		"players_synced", report.PlayersSynced,
		"duration_ms", s.clock.Since(startedAt).Milliseconds(),
	)
	return report, nil
}

// SyncSchedule refreshes only the games of a league whose standings were
// synced before.
func (s *LeagueSyncService) SyncSchedule(ctx context.Context, externalLeagueID string) (SyncReport, error) {
	ctx, span := startSpan(ctx, "LeagueSyncService.SyncSchedule", attribute.String("dbb.league_id", externalLeagueID))
	defer span.End()

	externalLeagueID, err := normalizeExternalID(externalLeagueID)
	if err != nil {
		return SyncReport{}, err
	}

	lg, ok, err := s.tx.Repositories().Leagues.GetByExternalID(ctx, externalLeagueID)
	if err != nil {
		return SyncReport{}, fmt.Errorf("get league: %w", err)
	}
	if !ok {
		return SyncReport{}, fmt.Errorf("%w: league external id=%s was never synced", ErrStandingsNotSynced, externalLeagueID)
	}

	report := SyncReport{League: lg, Skipped: []SkippedGame{}}
	if err := s.syncSchedule(ctx, lg, &report); err != nil {
		return report, err
	}
	return report, nil
}

// SyncLeagues syncs every league and reports each outcome in input order.
// A failing league does not stop the batch. Up to cfg.Workers leagues fetch
// at once; their store writes still happen one transaction at a time.
func (s *LeagueSyncService) SyncLeagues(ctx context.Context, externalLeagueIDs []string, opts SyncOptions) []LeagueSyncResult {
	out := make([]LeagueSyncResult, len(externalLeagueIDs))
	for i, externalID := range externalLeagueIDs {
		out[i].ExternalLeagueID = externalID
	}
	if len(externalLeagueIDs) == 0 {
		return out
	}

	workerCount := s.cfg.Workers
	if workerCount <= 0 {
		workerCount = 1
	}
	if workerCount > len(externalLeagueIDs) {
		workerCount = len(externalLeagueIDs)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		for i := range out {
			out[i].Err = fmt.Errorf("create worker pool: %w", err)
		}
		return out
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, externalID := range externalLeagueIDs {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			out[i] = s.syncOne(ctx, externalID, opts)
		}); err != nil {
			workers.Done()
			out[i].Err = fmt.Errorf("submit league sync: %w", err)
		}
	}
	workers.Wait()

	return out
}

func (s *LeagueSyncService) withinTx(ctx context.Context, fn func(ctx context.Context, repos store.Repositories) error) error {
	s.writes.Lock()
	defer s.writes.Unlock()
	return s.tx.WithinTx(ctx, fn)
}

func (s *LeagueSyncService) syncOne(ctx context.Context, externalID string, opts SyncOptions) LeagueSyncResult {
	if err := ctx.Err(); err != nil {
		return LeagueSyncResult{ExternalLeagueID: externalID, Err: err}
	}
	report, err := s.SyncLeague(ctx, externalID, opts)
	if err != nil {
		s.logger.ErrorContext(ctx, "league sync failed", "external_league_id", externalID, "error", err)
	}
	return LeagueSyncResult{ExternalLeagueID: externalID, Report: report, Err: err}
}

func (s *LeagueSyncService) ListLeagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startSpan(ctx, "LeagueSyncService.ListLeagues")
	defer span.End()

	items, err := s.tx.Repositories().Leagues.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return items, nil
}

// ListStandings returns the stored table of a league ordered by rank.
func (s *LeagueSyncService) ListStandings(ctx context.Context, leagueID string) ([]standing.Standing, error) {
	ctx, span := startSpan(ctx, "LeagueSyncService.ListStandings")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	repos := s.tx.Repositories()
	if _, ok, err := repos.Leagues.GetByID(ctx, leagueID); err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	} else if !ok {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	items, err := repos.Standings.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	return items, nil
}

func (s *LeagueSyncService) persistStandings(
	ctx context.Context,
	repos store.Repositories,
	externalLeagueID string,
	standings ExternalStandings,
	report *SyncReport,
) error {
	now := s.clock.Now().UTC()

	lg, err := s.upsertLeague(ctx, repos, externalLeagueID, standings.League.Name, now)
	if err != nil {
		return err
	}
	report.League = lg

	clubIDs := make(map[string]string, len(standings.Teams))
	for _, entry := range standings.Teams {
		if entry.ExternalClubID == "" {
			continue
		}
		if _, done := clubIDs[entry.ExternalClubID]; done {
			continue
		}
		clubID, err := s.findOrCreateClub(ctx, repos, entry)
		if err != nil {
			return err
		}
		clubIDs[entry.ExternalClubID] = clubID
	}

	for _, entry := range standings.Teams {
		resolved, resolution, err := s.identity.CreateOrLink(ctx, repos, TeamCandidate{
			ExternalTeamID: entry.ExternalTeamID,
			Name:           entry.Name,
			ClubID:         clubIDs[entry.ExternalClubID],
			AgeCategory:    TeamAgeCategory(entry.Name, lg.AgeCategory),
			Season:         lg.Season,
			LeagueID:       lg.ID,
			LeagueName:     lg.Name,
		})
		if err != nil {
			return fmt.Errorf("resolve team external id=%s: %w", entry.ExternalTeamID, err)
		}
		switch resolution {
		case ResolutionCreated:
			report.TeamsCreated++
		case ResolutionAdopted:
			report.TeamsLinked++
			if err := markClubOwn(ctx, repos, resolved.ClubID); err != nil {
				return err
			}
		default:
			report.TeamsUpdated++
		}

		if err := repos.Standings.Upsert(ctx, standing.Standing{
			LeagueID:       lg.ID,
			ExternalTeamID: entry.ExternalTeamID,
			TeamID:         resolved.ID,
			Rank:           entry.Rank,
			Games:          entry.Games,
			Wins:           entry.Wins,
			Losses:         entry.Losses,
			Points:         entry.Points,
			ScoredPoints:   entry.ScoredPoints,
			ConcededPoints: entry.ConcededPoints,
			PointsDiff:     entry.PointsDiff,
			HomeWins:       entry.HomeWins,
			HomeLosses:     entry.HomeLosses,
			AwayWins:       entry.AwayWins,
			AwayLosses:     entry.AwayLosses,
			UpdatedAt:      now,
		}); err != nil {
			return fmt.Errorf("upsert standing team=%s: %w", resolved.ID, err)
		}
		report.StandingsRows++
	}

	return nil
}

func (s *LeagueSyncService) upsertLeague(ctx context.Context, repos store.Repositories, externalLeagueID, name string, now time.Time) (league.League, error) {
	existing, ok, err := repos.Leagues.GetByExternalID(ctx, externalLeagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}

	name = strings.TrimSpace(name)
	explicitSeason, hasSeason := SeasonFromName(name)

	lg := existing
	if !ok {
		leagueID, err := s.ids.NewID()
		if err != nil {
			return league.League{}, fmt.Errorf("generate league id: %w", err)
		}
		lg = league.League{
			ID:         leagueID,
			ExternalID: externalLeagueID,
			Season:     CurrentSeason(s.clock.Now()),
			CreatedAt:  now,
		}
	}
	if name != "" {
		lg.Name = name
	}
	if lg.Name == "" {
		lg.Name = "Liga " + externalLeagueID
	}
	if hasSeason {
		lg.Season = explicitSeason
	}
	lg.AgeCategory = LeagueAgeCategory(lg.Name)
	lg.LastSyncedAt = &now
	lg.UpdatedAt = now

	if err := repos.Leagues.Upsert(ctx, lg); err != nil {
		return league.League{}, fmt.Errorf("upsert league: %w", err)
	}
	return lg, nil
}

func (s *LeagueSyncService) findOrCreateClub(ctx context.Context, repos store.Repositories, entry ExternalTeamEntry) (string, error) {
	existing, ok, err := repos.Clubs.GetByExternalID(ctx, entry.ExternalClubID)
	if err != nil {
		return "", fmt.Errorf("get club by external id=%s: %w", entry.ExternalClubID, err)
	}
	if ok {
		if entry.ClubName != "" && existing.Name != entry.ClubName {
			existing.Name = entry.ClubName
			if err := repos.Clubs.Upsert(ctx, existing); err != nil {
				return "", fmt.Errorf("update club id=%s: %w", existing.ID, err)
			}
		}
		return existing.ID, nil
	}

	clubID, err := s.ids.NewID()
	if err != nil {
		return "", fmt.Errorf("generate club id: %w", err)
	}
	name := entry.ClubName
	if name == "" {
		name = entry.Name
	}
	if err := repos.Clubs.Upsert(ctx, club.Club{
		ID:         clubID,
		ExternalID: entry.ExternalClubID,
		Name:       name,
	}); err != nil {
		return "", fmt.Errorf("create club external id=%s: %w", entry.ExternalClubID, err)
	}
	return clubID, nil
}

func markClubOwn(ctx context.Context, repos store.Repositories, clubID string) error {
	if clubID == "" {
		return nil
	}
	item, ok, err := repos.Clubs.GetByID(ctx, clubID)
	if err != nil {
		return fmt.Errorf("get club id=%s: %w", clubID, err)
	}
	if !ok || item.IsOwn {
		return nil
	}
	item.IsOwn = true
	if err := repos.Clubs.Upsert(ctx, item); err != nil {
		return fmt.Errorf("mark club id=%s as own: %w", clubID, err)
	}
	return nil
}

func (s *LeagueSyncService) syncSchedule(ctx context.Context, lg league.League, report *SyncReport) error {
	teams, err := s.tx.Repositories().Teams.ListByLeague(ctx, lg.ID)
	if err != nil {
		return fmt.Errorf("list league teams: %w", err)
	}
	if len(teams) == 0 {
		return fmt.Errorf("%w: league external id=%s has no teams", ErrStandingsNotSynced, lg.ExternalID)
	}

	entries, err := s.provider.FetchSchedule(ctx, lg.ExternalID)
	if err != nil {
		s.logger.WarnContext(ctx, "fetch schedule failed", "external_league_id", lg.ExternalID, "error", err)
		return &StageError{Stage: StageSchedule, ExternalID: lg.ExternalID, Err: err}
	}

	var created, updated int
	var skipped []SkippedGame
	err = s.withinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		created, updated, skipped = 0, 0, nil
		for _, entry := range entries {
			outcome, reason, err := s.upsertGame(ctx, repos, lg, entry)
			if err != nil {
				return err
			}
			switch outcome {
			case ResolutionCreated:
				created++
			case ResolutionUpdated:
				updated++
			default:
				skipped = append(skipped, SkippedGame{ExternalGameID: entry.ExternalGameID, Reason: reason})
				s.logger.WarnContext(ctx, "skipped game",
					"external_league_id", lg.ExternalID,
					"external_game_id", entry.ExternalGameID,
					"reason", reason,
				)
			}
		}
		return nil
	})
	if err != nil {
		return &StageError{Stage: StagePersist, ExternalID: lg.ExternalID, Err: err}
	}

	report.ScheduleSynced = true
	report.GamesCreated += created
	report.GamesUpdated += updated
	report.Skipped = append(report.Skipped, skipped...)
	return nil
}

// upsertGame returns an empty resolution and a reason when the game cannot
// be stored.
func (s *LeagueSyncService) upsertGame(ctx context.Context, repos store.Repositories, lg league.League, entry ExternalGameEntry) (Resolution, string, error) {
	if entry.ExternalGameID == "" {
		return "", "missing external game id", nil
	}

	home, ok, err := repos.Teams.GetByExternalID(ctx, entry.HomeExternalTeamID)
	if err != nil {
		return "", "", fmt.Errorf("resolve home team external id=%s: %w", entry.HomeExternalTeamID, err)
	}
	if !ok || entry.HomeExternalTeamID == "" {
		return "", fmt.Sprintf("home team external id=%q not found", entry.HomeExternalTeamID), nil
	}
	away, ok, err := repos.Teams.GetByExternalID(ctx, entry.AwayExternalTeamID)
	if err != nil {
		return "", "", fmt.Errorf("resolve away team external id=%s: %w", entry.AwayExternalTeamID, err)
	}
	if !ok || entry.AwayExternalTeamID == "" {
		return "", fmt.Sprintf("away team external id=%q not found", entry.AwayExternalTeamID), nil
	}

	now := s.clock.Now().UTC()
	item, exists, err := repos.Games.GetByExternalID(ctx, entry.ExternalGameID)
	if err != nil {
		return "", "", fmt.Errorf("get game external id=%s: %w", entry.ExternalGameID, err)
	}
	if !exists {
		gameID, err := s.ids.NewID()
		if err != nil {
			return "", "", fmt.Errorf("generate game id: %w", err)
		}
		item = game.Game{ID: gameID, ExternalID: entry.ExternalGameID, CreatedAt: now}
	}

	item.LeagueID = lg.ID
	item.HomeTeamID = home.ID
	item.AwayTeamID = away.ID
	item.HomeTeamName = firstNonBlank(entry.HomeTeamName, home.Name)
	item.AwayTeamName = firstNonBlank(entry.AwayTeamName, away.Name)
	item.Matchday = entry.Matchday
	item.Number = entry.Number
	item.Date = entry.Date
	item.Time = entry.Time
	if entry.HomeScore != nil && entry.AwayScore != nil {
		item.HomeScore = entry.HomeScore
		item.AwayScore = entry.AwayScore
	}
	item.Status = gameStatus(entry.Cancelled, item.HomeScore, item.AwayScore)
	item.IsHomeGame = home.IsOwn()
	item.UpdatedAt = now

	if entry.VenueName != "" && item.VenueID == "" {
		v, err := s.findOrCreateVenue(ctx, repos, ExternalGameDetail{VenueName: entry.VenueName})
		if err != nil {
			return "", "", err
		}
		item.VenueID = v.ID
	}

	if err := repos.Games.Upsert(ctx, item); err != nil {
		return "", "", fmt.Errorf("upsert game external id=%s: %w", entry.ExternalGameID, err)
	}
	if exists {
		return ResolutionUpdated, "", nil
	}
	return ResolutionCreated, "", nil
}

func gameStatus(cancelled bool, homeScore, awayScore *int) game.Status {
	switch {
	case cancelled:
		return game.StatusCancelled
	case homeScore != nil && awayScore != nil:
		return game.StatusFinished
	default:
		return game.StatusScheduled
	}
}

func (s *LeagueSyncService) syncGameDetails(ctx context.Context, lg league.League, report *SyncReport) error {
	games, err := s.tx.Repositories().Games.ListByLeague(ctx, lg.ID)
	if err != nil {
		return fmt.Errorf("list league games: %w", err)
	}

	limit := rate.Inf
	if s.cfg.GameDetailInterval > 0 {
		limit = rate.Every(s.cfg.GameDetailInterval)
	}
	limiter := rate.NewLimiter(limit, 1)

	for _, item := range games {
		if item.ExternalID == "" || item.Status == game.StatusCancelled {
			continue
		}
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		detail, err := s.provider.FetchGameDetail(ctx, item.ExternalID)
		if err != nil {
			report.DetailsFailed++
			s.logger.WarnContext(ctx, "fetch game detail failed",
				"external_game_id", item.ExternalID,
				"error", err,
			)
			continue
		}

		var players int
		err = s.withinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
			var err error
			players, err = s.applyGameDetail(ctx, repos, item.ID, detail)
			return err
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			report.DetailsFailed++
			s.logger.WarnContext(ctx, "apply game detail failed",
				"external_game_id", item.ExternalID,
				"error", err,
			)
			continue
		}
		report.DetailsFetched++
		report.PlayersSynced += players
	}
	return nil
}

// applyGameDetail stores venue, referees, final score and both rosters of
// one game. It returns how many players were written.
func (s *LeagueSyncService) applyGameDetail(ctx context.Context, repos store.Repositories, gameID string, detail ExternalGameDetail) (int, error) {
	item, ok, err := repos.Games.GetByID(ctx, gameID)
	if err != nil {
		return 0, fmt.Errorf("get game id=%s: %w", gameID, err)
	}
	if !ok {
		return 0, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	if detail.VenueName != "" {
		v, err := s.findOrCreateVenue(ctx, repos, detail)
		if err != nil {
			return 0, err
		}
		item.VenueID = v.ID
	}
	if len(detail.Referees) > 0 {
		item.Referees = append([]string(nil), detail.Referees...)
	}
	if detail.HomeScore != nil && detail.AwayScore != nil {
		item.HomeScore = detail.HomeScore
		item.AwayScore = detail.AwayScore
		if item.Status != game.StatusCancelled {
			item.Status = game.StatusFinished
		}
	}
	item.UpdatedAt = s.clock.Now().UTC()

	if err := repos.Games.Upsert(ctx, item); err != nil {
		return 0, fmt.Errorf("update game id=%s: %w", gameID, err)
	}

	written := 0
	for _, roster := range []ExternalRoster{detail.HomeRoster, detail.AwayRoster} {
		n, err := s.syncRoster(ctx, repos, roster)
		if err != nil {
			return 0, err
		}
		written += n
	}
	return written, nil
}

// syncRoster upserts the players of a team known by its external id.
// Rosters of teams that are not in the store are ignored.
func (s *LeagueSyncService) syncRoster(ctx context.Context, repos store.Repositories, roster ExternalRoster) (int, error) {
	if roster.ExternalTeamID == "" || len(roster.Players) == 0 {
		return 0, nil
	}
	owner, ok, err := repos.Teams.GetByExternalID(ctx, roster.ExternalTeamID)
	if err != nil {
		return 0, fmt.Errorf("get team by external id=%s: %w", roster.ExternalTeamID, err)
	}
	if !ok {
		return 0, nil
	}

	written := 0
	for _, entry := range roster.Players {
		existing, found, err := repos.Players.GetByExternalID(ctx, entry.ExternalPlayerID)
		if err != nil {
			return 0, fmt.Errorf("get player by external id=%s: %w", entry.ExternalPlayerID, err)
		}
		item := existing
		if !found {
			playerID, err := s.ids.NewID()
			if err != nil {
				return 0, fmt.Errorf("generate player id: %w", err)
			}
			item = player.Player{ID: playerID, ExternalID: entry.ExternalPlayerID, Active: true}
		}
		item.TeamID = owner.ID
		item.FirstName = firstNonBlank(entry.FirstName, item.FirstName)
		item.LastName = firstNonBlank(entry.LastName, item.LastName)
		if entry.JerseyNumber != nil {
			item.JerseyNumber = entry.JerseyNumber
		}
		item.LicenseSuffix = firstNonBlank(entry.LicenseSuffix, item.LicenseSuffix)

		if err := repos.Players.Upsert(ctx, item); err != nil {
			return 0, fmt.Errorf("upsert player external id=%s: %w", entry.ExternalPlayerID, err)
		}
		written++
	}
	return written, nil
}

// findOrCreateVenue matches venues by name and fills in address fields the
// stored record is missing.
func (s *LeagueSyncService) findOrCreateVenue(ctx context.Context, repos store.Repositories, detail ExternalGameDetail) (venue.Venue, error) {
	name := strings.TrimSpace(detail.VenueName)
	existing, ok, err := repos.Venues.FindByName(ctx, name)
	if err != nil {
		return venue.Venue{}, fmt.Errorf("find venue %q: %w", name, err)
	}

	item := existing
	if !ok {
		venueID, err := s.ids.NewID()
		if err != nil {
			return venue.Venue{}, fmt.Errorf("generate venue id: %w", err)
		}
		item = venue.Venue{ID: venueID, Name: name}
	}
	item.Street = firstNonBlank(item.Street, detail.VenueStreet)
	item.PostalCode = firstNonBlank(item.PostalCode, detail.VenuePostalCode)
	item.City = firstNonBlank(item.City, detail.VenueCity)

	if ok && item == existing {
		return existing, nil
	}
	if err := repos.Venues.Upsert(ctx, item); err != nil {
		return venue.Venue{}, fmt.Errorf("upsert venue %q: %w", name, err)
	}
	return item, nil
}

func normalizeExternalID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	value, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || value <= 0 {
		return "", fmt.Errorf("%w: external id must be a positive number, got %q", ErrInvalidInput, raw)
	}
	return strconv.FormatInt(value, 10), nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
