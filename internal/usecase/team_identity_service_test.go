package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/club"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/game"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/player"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/standing"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/store"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/team"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/infrastructure/repository/memory"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/id"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/logging"
)

func newIdentityService(tx store.Transactor) *TeamIdentityService {
	clock := clockwork.NewFakeClockAt(time.Date(2025, time.October, 12, 9, 0, 0, 0, time.UTC))
	return NewTeamIdentityService(tx, id.NewSequenceGenerator("id"), clock, logging.NewNop())
}

// seedMergeFixture stores an unlinked own team "auth" and a synced duplicate
// "dup" with two home games, one away game, one standings row and two players.
func seedMergeFixture(t *testing.T, st store.Transactor) {
	t.Helper()

	ctx := context.Background()
	repos := st.Repositories()
	mustNoErr := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	mustNoErr(repos.Teams.Create(ctx, team.Team{ID: "auth", Name: "Fibalon Baskets Neumarkt", Kind: team.KindOwn, AgeCategory: "U10", Season: "2025/2026"}))
	mustNoErr(repos.Teams.Create(ctx, team.Team{ID: "dup", ExternalID: "432555", Name: "Fibalon Baskets Neumarkt", Kind: team.KindOpponent, LeagueID: "l1", LeagueName: "U10 mixed Bezirksliga"}))
	mustNoErr(repos.Teams.Create(ctx, team.Team{ID: "opp", ExternalID: "432556", Name: "TSV Neumarkt", Kind: team.KindOpponent, LeagueID: "l1"}))

	mustNoErr(repos.Games.Upsert(ctx, game.Game{ID: "g1", ExternalID: "2804049", LeagueID: "l1", HomeTeamID: "dup", AwayTeamID: "opp", Date: "2025-10-11", Time: "10:00"}))
	mustNoErr(repos.Games.Upsert(ctx, game.Game{ID: "g2", ExternalID: "2804050", LeagueID: "l1", HomeTeamID: "opp", AwayTeamID: "dup", Date: "2025-10-18", Time: "12:00", IsHomeGame: false}))
	mustNoErr(repos.Games.Upsert(ctx, game.Game{ID: "g3", ExternalID: "2804051", LeagueID: "l1", HomeTeamID: "dup", AwayTeamID: "opp", Date: "2025-11-08", Time: "11:00"}))
	mustNoErr(repos.Standings.Upsert(ctx, standing.Standing{LeagueID: "l1", ExternalTeamID: "432555", TeamID: "dup", Rank: 1}))
	mustNoErr(repos.Players.Upsert(ctx, player.Player{ID: "p1", ExternalID: "9001", TeamID: "dup", FirstName: "Lena", LastName: "Maier", Active: true}))
	mustNoErr(repos.Players.Upsert(ctx, player.Player{ID: "p2", ExternalID: "9002", TeamID: "dup", FirstName: "Jonas", LastName: "Bauer", Active: true}))
}

func TestTeamIdentityService_Merge_RepointsEveryReference(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := memory.NewStore()
	seedMergeFixture(t, st)
	service := newIdentityService(st)

	report, err := service.Merge(ctx, MergeInput{AuthoritativeTeamID: "auth", DuplicateTeamID: "dup"})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if report.HomeGamesMoved != 2 || report.AwayGamesMoved != 1 || report.StandingsMoved != 1 || report.PlayersMoved != 2 {
		t.Fatalf("unexpected moved counts: %+v", report)
	}
	if report.ExternalID != "432555" || len(report.Conflicts) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	repos := st.Repositories()
	if _, ok, _ := repos.Teams.GetByID(ctx, "dup"); ok {
		t.Fatalf("duplicate team still exists")
	}
	auth, ok, err := repos.Teams.GetByExternalID(ctx, "432555")
	if err != nil || !ok {
		t.Fatalf("expected authoritative team by external id: ok=%v err=%v", ok, err)
	}
	if auth.ID != "auth" || auth.Kind != team.KindOwn || auth.LeagueID != "l1" {
		t.Fatalf("unexpected authoritative team: %+v", auth)
	}

	games, err := repos.Games.ListByTeam(ctx, "auth")
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("unexpected game count: got=%d want=3", len(games))
	}
	for _, item := range games {
		if item.Involves("dup") {
			t.Fatalf("game %s still references duplicate", item.ID)
		}
		if item.HomeTeamID == "auth" && !item.IsHomeGame {
			t.Fatalf("game %s should be a home game", item.ID)
		}
	}

	rows, err := repos.Standings.ListByLeague(ctx, "l1")
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if len(rows) != 1 || rows[0].TeamID != "auth" {
		t.Fatalf("unexpected standings: %+v", rows)
	}

	roster, err := service.ListPlayers(ctx, "auth")
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(roster) != 2 || roster[0].LastName != "Bauer" || roster[1].LastName != "Maier" {
		t.Fatalf("unexpected roster after merge: %+v", roster)
	}
}

func TestTeamIdentityService_Merge_SecondMergeFailsWithoutWrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := memory.NewStore()
	seedMergeFixture(t, st)
	service := newIdentityService(st)

	if _, err := service.Merge(ctx, MergeInput{AuthoritativeTeamID: "auth", DuplicateTeamID: "dup"}); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	before, err := st.Repositories().Games.ListByTeam(ctx, "auth")
	if err != nil {
		t.Fatalf("list games: %v", err)
	}

	_, err = service.Merge(ctx, MergeInput{AuthoritativeTeamID: "auth", DuplicateTeamID: "dup"})
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}

	after, err := st.Repositories().Games.ListByTeam(ctx, "auth")
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("games changed: before=%d after=%d", len(before), len(after))
	}
}

type failingDeleteTeams struct {
	team.Repository
}

func (failingDeleteTeams) Delete(context.Context, string) error {
	return errors.New("disk full")
}

// failingTransactor injects a team repository whose Delete always fails.
type failingTransactor struct {
	store.Transactor
}

func (f failingTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos store.Repositories) error) error {
	return f.Transactor.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		repos.Teams = failingDeleteTeams{Repository: repos.Teams}
		return fn(ctx, repos)
	})
}

func TestTeamIdentityService_Merge_FailureLeavesStoreUntouched(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := memory.NewStore()
	seedMergeFixture(t, st)
	service := newIdentityService(failingTransactor{Transactor: st})

	if _, err := service.Merge(ctx, MergeInput{AuthoritativeTeamID: "auth", DuplicateTeamID: "dup"}); err == nil {
		t.Fatalf("expected merge to fail")
	}

	repos := st.Repositories()
	dup, ok, err := repos.Teams.GetByID(ctx, "dup")
	if err != nil || !ok {
		t.Fatalf("duplicate should still exist: ok=%v err=%v", ok, err)
	}
	if dup.ExternalID != "432555" {
		t.Fatalf("duplicate lost its external id: %+v", dup)
	}
	auth, _, _ := repos.Teams.GetByID(ctx, "auth")
	if auth.ExternalID != "" {
		t.Fatalf("authoritative team was modified: %+v", auth)
	}
	games, err := repos.Games.ListByTeam(ctx, "dup")
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("games were repointed: got=%d want=3", len(games))
	}
	rows, _ := repos.Standings.ListByLeague(ctx, "l1")
	if len(rows) != 1 || rows[0].TeamID != "dup" {
		t.Fatalf("standings were repointed: %+v", rows)
	}
	if roster, _ := repos.Players.ListByTeam(ctx, "dup"); len(roster) != 2 {
		t.Fatalf("players were repointed: %+v", roster)
	}
}

func TestTeamIdentityService_Merge_ReportsScheduleConflicts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := memory.NewStore()
	seedMergeFixture(t, st)
	if err := st.Repositories().Games.Upsert(ctx, game.Game{ID: "g9", LeagueID: "l2", HomeTeamID: "auth", AwayTeamID: "opp", Date: "2025-10-11", Time: "10:00"}); err != nil {
		t.Fatalf("seed game: %v", err)
	}
	service := newIdentityService(st)

	report, err := service.Merge(ctx, MergeInput{AuthoritativeTeamID: "auth", DuplicateTeamID: "dup"})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(report.Conflicts) != 1 {
		t.Fatalf("unexpected conflicts: %+v", report.Conflicts)
	}
	got := report.Conflicts[0]
	if got.Date != "2025-10-11" || got.Time != "10:00" || len(got.GameIDs) != 2 || got.GameIDs[0] != "g1" || got.GameIDs[1] != "g9" {
		t.Fatalf("unexpected conflict: %+v", got)
	}
}

func TestTeamIdentityService_Merge_RejectsInvalidPairs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := memory.NewStore()
	seedMergeFixture(t, st)
	if err := st.Repositories().Teams.Create(ctx, team.Team{ID: "linked", ExternalID: "500001", Name: "Fibalon Baskets Neumarkt", Kind: team.KindOwn}); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	if err := st.Repositories().Teams.Create(ctx, team.Team{ID: "own-other", Name: "Fibalon Baskets Neumarkt 2", Kind: team.KindOwn, AgeCategory: "U10", Season: "2025/2026"}); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	service := newIdentityService(st)

	cases := []struct {
		name  string
		input MergeInput
		want  error
	}{
		{name: "same team", input: MergeInput{AuthoritativeTeamID: "auth", DuplicateTeamID: "auth"}, want: ErrInvalidInput},
		{name: "empty id", input: MergeInput{AuthoritativeTeamID: "auth"}, want: ErrInvalidInput},
		{name: "missing authoritative", input: MergeInput{AuthoritativeTeamID: "ghost", DuplicateTeamID: "dup"}, want: ErrInvariantViolation},
		{name: "conflicting external ids", input: MergeInput{AuthoritativeTeamID: "linked", DuplicateTeamID: "dup"}, want: ErrInvariantViolation},
		{name: "own team into opponent", input: MergeInput{AuthoritativeTeamID: "opp", DuplicateTeamID: "own-other"}, want: ErrInvariantViolation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Merge(ctx, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, ok, _ := st.Repositories().Teams.GetByID(ctx, "dup"); !ok {
		t.Fatalf("rejected merges must not delete the duplicate")
	}
	if _, ok, _ := st.Repositories().Teams.GetByID(ctx, "own-other"); !ok {
		t.Fatalf("rejected merges must not delete an own team")
	}
	if games, _ := st.Repositories().Games.ListByTeam(ctx, "opp"); len(games) != 3 {
		t.Fatalf("rejected merges must not touch games: got=%d want=3", len(games))
	}
}

func TestTeamIdentityService_MarkOwnTeam(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := memory.NewStore()
	seedMergeFixture(t, st)
	repos := st.Repositories()
	if err := repos.Clubs.Upsert(ctx, club.Club{ID: "c1", ExternalID: "4468", Name: "TSV Neumarkt"}); err != nil {
		t.Fatalf("seed club: %v", err)
	}
	opp, _, _ := repos.Teams.GetByID(ctx, "opp")
	opp.ClubID = "c1"
	if err := repos.Teams.Update(ctx, opp); err != nil {
		t.Fatalf("seed club link: %v", err)
	}
	service := newIdentityService(st)

	marked, err := service.MarkOwnTeam(ctx, "opp")
	if err != nil {
		t.Fatalf("mark own: %v", err)
	}
	if marked.Kind != team.KindOwn || marked.ExternalID != "432556" {
		t.Fatalf("unexpected marked team: %+v", marked)
	}

	stored, _, _ := repos.Teams.GetByID(ctx, "opp")
	if !stored.IsOwn() {
		t.Fatalf("team kind not persisted: %+v", stored)
	}
	if c, _, _ := repos.Clubs.GetByID(ctx, "c1"); !c.IsOwn {
		t.Fatalf("club of marked team should be own")
	}
	g2, _, _ := repos.Games.GetByID(ctx, "g2")
	if !g2.IsHomeGame {
		t.Fatalf("home game of marked team should be flagged: %+v", g2)
	}
	g1, _, _ := repos.Games.GetByID(ctx, "g1")
	if g1.IsHomeGame {
		t.Fatalf("away game of marked team must stay unflagged: %+v", g1)
	}

	again, err := service.MarkOwnTeam(ctx, "opp")
	if err != nil {
		t.Fatalf("second mark own: %v", err)
	}
	if again.ID != "opp" || !again.IsOwn() {
		t.Fatalf("unexpected idempotent result: %+v", again)
	}
}

func TestTeamIdentityService_MarkOwnTeam_Rejections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := memory.NewStore()
	seedMergeFixture(t, st)
	service := newIdentityService(st)

	if _, err := service.MarkOwnTeam(ctx, " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := service.MarkOwnTeam(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// "dup" has the same identity as the unlinked own team "auth".
	dup, _, _ := st.Repositories().Teams.GetByID(ctx, "dup")
	dup.AgeCategory, dup.Season = "U10", "2025/2026"
	if err := st.Repositories().Teams.Update(ctx, dup); err != nil {
		t.Fatalf("seed identity: %v", err)
	}
	if _, err := service.MarkOwnTeam(ctx, "dup"); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}
	stored, _, _ := st.Repositories().Teams.GetByID(ctx, "dup")
	if stored.IsOwn() {
		t.Fatalf("rejected mark must not change the team kind")
	}
	if _, err := service.ListPlayers(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for players of unknown team, got %v", err)
	}
}

func TestTeamIdentityService_CreateOrLink_ResolutionOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := memory.NewStore()
	service := newIdentityService(st)

	if _, err := service.CreateOwnTeam(ctx, CreateOwnTeamInput{Name: "Fibalon Baskets Neumarkt", AgeCategory: "U10", Season: "2025/2026"}); err != nil {
		t.Fatalf("create own team: %v", err)
	}

	candidate := TeamCandidate{ExternalTeamID: "432555", Name: "FIBALON Baskets Neumarkt", AgeCategory: "U10", Season: "2025/2026", LeagueID: "l1", LeagueName: "U10 mixed Bezirksliga"}
	wantOrder := []Resolution{ResolutionAdopted, ResolutionUpdated}
	var linkedID string
	for i, want := range wantOrder {
		var got Resolution
		err := st.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
			item, resolution, err := service.CreateOrLink(ctx, repos, candidate)
			if linkedID == "" {
				linkedID = item.ID
			} else if item.ID != linkedID {
				t.Fatalf("call %d resolved to a different team: got=%s want=%s", i, item.ID, linkedID)
			}
			got = resolution
			return err
		})
		if err != nil {
			t.Fatalf("create or link call %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("call %d: got=%s want=%s", i, got, want)
		}
	}

	var created team.Team
	err := st.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		item, resolution, err := service.CreateOrLink(ctx, repos, TeamCandidate{ExternalTeamID: "432556", Name: "Fibalon Baskets Neumarkt", AgeCategory: "U12", Season: "2025/2026"})
		if resolution != ResolutionCreated {
			t.Fatalf("expected a new opponent team, got %s", resolution)
		}
		created = item
		return err
	})
	if err != nil {
		t.Fatalf("create or link: %v", err)
	}
	if created.Kind != team.KindOpponent || created.ExternalID != "432556" {
		t.Fatalf("unexpected created team: %+v", created)
	}
}

func TestTeamIdentityService_CreateOwnTeam_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := newIdentityService(memory.NewStore())

	created, err := service.CreateOwnTeam(ctx, CreateOwnTeamInput{Name: " Fibalon Baskets Neumarkt ", AgeCategory: "u10"})
	if err != nil {
		t.Fatalf("create own team: %v", err)
	}
	if created.Season != "2025/2026" || created.AgeCategory != "U10" || created.Name != "Fibalon Baskets Neumarkt" {
		t.Fatalf("unexpected normalized team: %+v", created)
	}

	if _, err := service.CreateOwnTeam(ctx, CreateOwnTeamInput{Name: "fibalon baskets neumarkt", AgeCategory: "U10", Season: "2025-2026"}); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation for duplicate, got %v", err)
	}
	if _, err := service.CreateOwnTeam(ctx, CreateOwnTeamInput{Name: "Fibalon", AgeCategory: "U99"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for age category, got %v", err)
	}
	if _, err := service.CreateOwnTeam(ctx, CreateOwnTeamInput{Name: "Fibalon", AgeCategory: "U10", ClubID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for club, got %v", err)
	}
	if _, err := service.ListGamesForTeam(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for team, got %v", err)
	}
}
