package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/logging"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/usecase"
)

type countingSyncer struct {
	rounds atomic.Int32
	done   chan struct{}
}

func (s *countingSyncer) SyncLeagues(_ context.Context, ids []string, _ usecase.SyncOptions) []usecase.LeagueSyncResult {
	out := make([]usecase.LeagueSyncResult, 0, len(ids))
	for _, id := range ids {
		res := usecase.LeagueSyncResult{ExternalLeagueID: id}
		if id == "broken" {
			res.Err = errors.New("upstream timeout")
		}
		out = append(out, res)
	}
	s.rounds.Add(1)
	s.done <- struct{}{}
	return out
}

func TestRunScheduledSync_RunsImmediatelyAndOnEveryTick(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	syncer := &countingSyncer{done: make(chan struct{}, 4)}
	ctx, cancel := context.WithCancel(context.Background())

	finished := make(chan struct{})
	go func() {
		RunScheduledSync(ctx, syncer, []string{"51961", "broken"}, 30*time.Minute, clock, logging.NewNop())
		close(finished)
	}()

	waitRound(t, syncer.done)
	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("wait for ticker: %v", err)
	}
	clock.Advance(30 * time.Minute)
	waitRound(t, syncer.done)

	cancel()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduler did not stop after cancel")
	}
	if got := syncer.rounds.Load(); got != 2 {
		t.Fatalf("rounds got=%d want=2", got)
	}
}

func TestRunScheduledSync_DisabledWithoutInterval(t *testing.T) {
	t.Parallel()

	syncer := &countingSyncer{done: make(chan struct{}, 1)}
	RunScheduledSync(context.Background(), syncer, []string{"51961"}, 0, clockwork.NewFakeClock(), logging.NewNop())

	if got := syncer.rounds.Load(); got != 0 {
		t.Fatalf("rounds got=%d want=0", got)
	}
}

type blockingSyncer struct {
	started chan struct{}
	release chan struct{}
}

func (s *blockingSyncer) SyncLeagues(_ context.Context, ids []string, _ usecase.SyncOptions) []usecase.LeagueSyncResult {
	s.started <- struct{}{}
	<-s.release
	return []usecase.LeagueSyncResult{{ExternalLeagueID: ids[0]}}
}

func TestStartScheduledSync_WaitCoversInFlightRound(t *testing.T) {
	t.Parallel()

	syncer := &blockingSyncer{started: make(chan struct{}, 1), release: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	wait := StartScheduledSync(ctx, syncer, []string{"51961"}, time.Hour, clockwork.NewFakeClock(), logging.NewNop())

	waitRound(t, syncer.started)
	cancel()

	shortCtx, shortCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer shortCancel()
	if err := wait(shortCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("wait during in-flight round got=%v want=%v", err, context.DeadlineExceeded)
	}

	close(syncer.release)
	longCtx, longCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer longCancel()
	if err := wait(longCtx); err != nil {
		t.Fatalf("wait after round finished: %v", err)
	}
}

func TestStartScheduledSync_DisabledReturnsImmediately(t *testing.T) {
	t.Parallel()

	syncer := &countingSyncer{done: make(chan struct{}, 1)}
	wait := StartScheduledSync(context.Background(), syncer, nil, time.Hour, clockwork.NewFakeClock(), logging.NewNop())

	waitCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := wait(waitCtx); err != nil {
		t.Fatalf("wait got=%v want=nil", err)
	}
}

func waitRound(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("sync round did not run")
	}
}
