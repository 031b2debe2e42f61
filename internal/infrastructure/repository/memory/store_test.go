package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/game"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/player"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/store"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/team"
)

func TestStoreWithinTx_CommitsOnSuccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore()

	err := s.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if err := repos.Teams.Create(ctx, team.Team{ID: "t1", Name: "Fibalon Baskets Neumarkt", Kind: team.KindOwn}); err != nil {
			return err
		}
		// Later statements in the same transaction observe earlier writes.
		_, ok, err := repos.Teams.GetByID(ctx, "t1")
		if err != nil {
			return err
		}
		if !ok {
			t.Fatalf("expected team visible inside transaction")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("within tx: %v", err)
	}

	if _, ok, _ := s.Repositories().Teams.GetByID(ctx, "t1"); !ok {
		t.Fatalf("expected committed team")
	}
}

func TestStoreWithinTx_DiscardsOnError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore()
	if err := s.Repositories().Teams.Create(ctx, team.Team{ID: "t1", Name: "TSV Neumarkt", Kind: team.KindOpponent, ExternalID: "100"}); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if err := repos.Teams.Delete(ctx, "t1"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if _, ok, _ := s.Repositories().Teams.GetByID(ctx, "t1"); !ok {
		t.Fatalf("expected delete to be rolled back")
	}
}

func TestTeamRepository_ExternalIDIsUnique(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos := NewStore().Repositories()

	if err := repos.Teams.Create(ctx, team.Team{ID: "a", Name: "A", Kind: team.KindOpponent, ExternalID: "432555"}); err != nil {
		t.Fatalf("create a: %v", err)
	}
	err := repos.Teams.Create(ctx, team.Team{ID: "b", Name: "B", Kind: team.KindOpponent, ExternalID: "432555"})
	if !errors.Is(err, team.ErrExternalIDTaken) {
		t.Fatalf("expected ErrExternalIDTaken, got %v", err)
	}
}

func TestTeamRepository_FindUnlinkedOwn(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos := NewStore().Repositories()

	seed := []team.Team{
		{ID: "own-linked", Name: "Fibalon Baskets Neumarkt", Kind: team.KindOwn, ExternalID: "1", AgeCategory: "U12", Season: "2025/2026"},
		{ID: "opp", Name: "Fibalon Baskets Neumarkt", Kind: team.KindOpponent, AgeCategory: "U10", Season: "2025/2026"},
		{ID: "own", Name: "Fibalon Baskets Neumarkt", Kind: team.KindOwn, AgeCategory: "U10", Season: "2025/2026"},
	}
	for _, item := range seed {
		if err := repos.Teams.Create(ctx, item); err != nil {
			t.Fatalf("seed %s: %v", item.ID, err)
		}
	}

	got, ok, err := repos.Teams.FindUnlinkedOwn(ctx, "fibalon baskets neumarkt", "U10", "2025/2026")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !ok || got.ID != "own" {
		t.Fatalf("unexpected match: ok=%v id=%s", ok, got.ID)
	}

	if _, ok, _ := repos.Teams.FindUnlinkedOwn(ctx, "Fibalon Baskets Neumarkt", "U10", "2024/2025"); ok {
		t.Fatalf("expected no match for another season")
	}
	if _, ok, _ := repos.Teams.FindUnlinkedOwn(ctx, "Fibalon Baskets Neumarkt", "U12", "2025/2026"); ok {
		t.Fatalf("expected linked own team to be skipped")
	}
}

func TestTeamRepository_OwnIdentityIsUnique(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos := NewStore().Repositories()

	if err := repos.Teams.Create(ctx, team.Team{ID: "own", Name: "Fibalon Baskets Neumarkt", Kind: team.KindOwn, AgeCategory: "U10", Season: "2025/2026"}); err != nil {
		t.Fatalf("create own: %v", err)
	}

	err := repos.Teams.Create(ctx, team.Team{ID: "own2", Name: " FIBALON baskets neumarkt ", Kind: team.KindOwn, AgeCategory: "U10", Season: "2025/2026"})
	if !errors.Is(err, team.ErrOwnTeamExists) {
		t.Fatalf("expected ErrOwnTeamExists, got %v", err)
	}

	allowed := []team.Team{
		{ID: "opp", Name: "Fibalon Baskets Neumarkt", Kind: team.KindOpponent, AgeCategory: "U10", Season: "2025/2026"},
		{ID: "own-u12", Name: "Fibalon Baskets Neumarkt", Kind: team.KindOwn, AgeCategory: "U12", Season: "2025/2026"},
		{ID: "own-next", Name: "Fibalon Baskets Neumarkt", Kind: team.KindOwn, AgeCategory: "U10", Season: "2026/2027"},
	}
	for _, item := range allowed {
		if err := repos.Teams.Create(ctx, item); err != nil {
			t.Fatalf("create %s: %v", item.ID, err)
		}
	}

	opp, _, _ := repos.Teams.GetByID(ctx, "opp")
	opp.Kind = team.KindOwn
	if err := repos.Teams.Update(ctx, opp); !errors.Is(err, team.ErrOwnTeamExists) {
		t.Fatalf("expected ErrOwnTeamExists when promoting opponent, got %v", err)
	}

	own, _, _ := repos.Teams.GetByID(ctx, "own")
	own.ExternalID = "432555"
	if err := repos.Teams.Update(ctx, own); err != nil {
		t.Fatalf("updating the own team itself must not conflict: %v", err)
	}
}

func TestPlayerRepository_UpsertListAndReassign(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos := NewStore().Repositories()

	seven := 7
	seed := []player.Player{
		{ID: "p1", ExternalID: "9001", TeamID: "dup", FirstName: "Lena", LastName: "Maier", JerseyNumber: &seven, Active: true},
		{ID: "p2", ExternalID: "9002", TeamID: "dup", FirstName: "Jonas", LastName: "Bauer", Active: true},
		{ID: "p3", ExternalID: "9003", TeamID: "other", FirstName: "Mia", LastName: "Huber", Active: true},
	}
	for _, item := range seed {
		if err := repos.Players.Upsert(ctx, item); err != nil {
			t.Fatalf("seed %s: %v", item.ID, err)
		}
	}

	if err := repos.Players.Upsert(ctx, player.Player{ID: "p4", ExternalID: "9001", TeamID: "dup", LastName: "Maier"}); err == nil {
		t.Fatalf("expected external id conflict for a different player id")
	}

	got, ok, err := repos.Players.GetByExternalID(ctx, "9001")
	if err != nil || !ok {
		t.Fatalf("get by external id: ok=%v err=%v", ok, err)
	}
	*got.JerseyNumber = 99
	again, _, _ := repos.Players.GetByExternalID(ctx, "9001")
	if again.JerseyNumber == nil || *again.JerseyNumber != 7 {
		t.Fatalf("stored player was mutated through a returned copy: %+v", again)
	}

	moved, err := repos.Players.ReassignTeam(ctx, "dup", "auth")
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if moved != 2 {
		t.Fatalf("moved got=%d want=2", moved)
	}

	list, err := repos.Players.ListByTeam(ctx, "auth")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].LastName != "Bauer" || list[1].LastName != "Maier" {
		t.Fatalf("unexpected roster order: %+v", list)
	}
	if left, _ := repos.Players.ListByTeam(ctx, "dup"); len(left) != 0 {
		t.Fatalf("expected no players left on duplicate, got %d", len(left))
	}
}

func TestGameRepository_ReassignAndListByTeam(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos := NewStore().Repositories()

	games := []game.Game{
		{ID: "g1", LeagueID: "l", HomeTeamID: "dup", AwayTeamID: "x", Date: "2025-10-11", Time: "10:00"},
		{ID: "g2", LeagueID: "l", HomeTeamID: "y", AwayTeamID: "dup", Date: "2025-10-18", Time: "12:00"},
		{ID: "g3", LeagueID: "l", HomeTeamID: "x", AwayTeamID: "y", Date: "2025-10-25", Time: "12:00"},
	}
	for _, item := range games {
		if err := repos.Games.Upsert(ctx, item); err != nil {
			t.Fatalf("seed %s: %v", item.ID, err)
		}
	}

	home, err := repos.Games.ReassignHomeTeam(ctx, "dup", "auth")
	if err != nil {
		t.Fatalf("reassign home: %v", err)
	}
	away, err := repos.Games.ReassignAwayTeam(ctx, "dup", "auth")
	if err != nil {
		t.Fatalf("reassign away: %v", err)
	}
	if home != 1 || away != 1 {
		t.Fatalf("unexpected reassign counts: home=%d away=%d", home, away)
	}

	list, err := repos.Games.ListByTeam(ctx, "auth")
	if err != nil {
		t.Fatalf("list by team: %v", err)
	}
	if len(list) != 2 || list[0].ID != "g1" || list[1].ID != "g2" {
		t.Fatalf("unexpected games for team: %+v", list)
	}
	if left, _ := repos.Games.ListByTeam(ctx, "dup"); len(left) != 0 {
		t.Fatalf("expected no games left on duplicate, got %d", len(left))
	}
}

func TestGameRepository_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos := NewStore().Repositories()

	score := 64
	if err := repos.Games.Upsert(ctx, game.Game{ID: "g1", LeagueID: "l", HomeTeamID: "a", AwayTeamID: "b", HomeScore: &score, Referees: []string{"Max"}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, _, _ := repos.Games.GetByID(ctx, "g1")
	*got.HomeScore = 0
	got.Referees[0] = "changed"

	again, _, _ := repos.Games.GetByID(ctx, "g1")
	if *again.HomeScore != 64 || again.Referees[0] != "Max" {
		t.Fatalf("stored game was mutated through a returned copy: %+v", again)
	}
}
