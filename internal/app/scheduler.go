package app

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/observability"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/logging"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/usecase"
)

type leagueSyncer interface {
	SyncLeagues(ctx context.Context, externalLeagueIDs []string, opts usecase.SyncOptions) []usecase.LeagueSyncResult
}

// StartScheduledSync runs RunScheduledSync in the background. The returned
// wait blocks until the scheduler has returned or waitCtx is done, so callers
// can keep shared resources open while a round is still in flight.
func StartScheduledSync(
	ctx context.Context,
	syncer leagueSyncer,
	leagueIDs []string,
	interval time.Duration,
	clock clockwork.Clock,
	logger *logging.Logger,
) (wait func(waitCtx context.Context) error) {
	var wg sync.WaitGroup
	wg.Go(func() {
		RunScheduledSync(ctx, syncer, leagueIDs, interval, clock, logger)
	})

	stopped := make(chan struct{})
	go func() {
		wg.Wait()
		close(stopped)
	}()

	return func(waitCtx context.Context) error {
		select {
		case <-stopped:
			return nil
		case <-waitCtx.Done():
			return waitCtx.Err()
		}
	}
}

// RunScheduledSync syncs leagueIDs immediately and then every interval until
// ctx is done. A failing league is logged and retried on the next tick.
func RunScheduledSync(
	ctx context.Context,
	syncer leagueSyncer,
	leagueIDs []string,
	interval time.Duration,
	clock clockwork.Clock,
	logger *logging.Logger,
) {
	if interval <= 0 || len(leagueIDs) == 0 {
		return
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("scheduler")

	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		observability.WithProfileLabels(ctx, "scheduled_sync", func(ctx context.Context) {
			runSyncRound(ctx, syncer, leagueIDs, logger)
		})

		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
		}
	}
}

func runSyncRound(ctx context.Context, syncer leagueSyncer, leagueIDs []string, logger *logging.Logger) {
	results := syncer.SyncLeagues(ctx, leagueIDs, usecase.SyncOptions{})

	failed := 0
	for _, res := range results {
		if res.Err == nil {
			continue
		}
		failed++
		logger.WarnContext(ctx, "scheduled league sync failed",
			"external_league_id", res.ExternalLeagueID,
			"error", res.Err,
		)
	}
	logger.InfoContext(ctx, "scheduled sync round finished",
		"leagues", len(results),
		"failed", failed,
	)
}
