package observability

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/config"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/logging"
)

type ingestRecorder struct {
	mu       sync.Mutex
	requests int
	auth     string
	lines    []map[string]any
}

func (r *ingestRecorder) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		r.requests++
		r.auth = req.Header.Get("Authorization")
		scanner := bufio.NewScanner(bytes.NewReader(body))
		for scanner.Scan() {
			var line map[string]any
			if err := sonic.Unmarshal(scanner.Bytes(), &line); err != nil {
				t.Errorf("decode ndjson line %q: %v", scanner.Text(), err)
				continue
			}
			r.lines = append(r.lines, line)
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func shippingConfig(endpoint string) config.Config {
	return config.Config{
		BetterStackEnabled:  true,
		BetterStackEndpoint: endpoint,
		BetterStackToken:    "secret-token",
		BetterStackTimeout:  2 * time.Second,
		BetterStackMinLevel: logging.LevelWarn,
		ServiceName:         "dbb-sync-api",
		AppEnv:              config.EnvDev,
	}
}

func TestInitBetterStackLogger_ShipsBatchOnFlush(t *testing.T) {
	t.Parallel()

	rec := &ingestRecorder{}
	server := httptest.NewServer(rec.handler(t))
	defer server.Close()

	logger, flush, err := InitBetterStackLogger(shippingConfig(server.URL), logging.NewNop())
	if err != nil {
		t.Fatalf("init log shipping: %v", err)
	}

	ctx := context.Background()
	logger.WarnContext(ctx, "relay failed", "relay", "corsproxy")
	logger.ErrorContext(ctx, "league sync failed", "external_league_id", "51961")
	logger.InfoContext(ctx, "below min level")

	flushCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := flush(flushCtx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.requests == 0 {
		t.Fatalf("expected a batched request")
	}
	if rec.auth != "Bearer secret-token" {
		t.Fatalf("unexpected authorization header: %q", rec.auth)
	}
	if len(rec.lines) != 2 {
		t.Fatalf("expected 2 shipped entries, got %d", len(rec.lines))
	}
	if rec.lines[1]["message"] != "league sync failed" || rec.lines[1]["external_league_id"] != "51961" {
		t.Fatalf("unexpected entry: %v", rec.lines[1])
	}
	if rec.lines[0]["service"] != "dbb-sync-api" || rec.lines[0]["env"] != config.EnvDev {
		t.Fatalf("missing service fields: %v", rec.lines[0])
	}
}

func TestInitBetterStackLogger_RespectsMinLevel(t *testing.T) {
	t.Parallel()

	rec := &ingestRecorder{}
	server := httptest.NewServer(rec.handler(t))
	defer server.Close()

	cfg := shippingConfig(server.URL)
	cfg.BetterStackMinLevel = logging.LevelError

	logger, flush, err := InitBetterStackLogger(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init log shipping: %v", err)
	}

	logger.InfoContext(context.Background(), "info log should not be shipped")
	logger.WarnContext(context.Background(), "warn log should not be shipped")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.requests != 0 {
		t.Fatalf("expected no request, got %d", rec.requests)
	}
}

func TestInitBetterStackLogger_DisabledReturnsBaseLogger(t *testing.T) {
	t.Parallel()

	base := logging.NewNop()
	logger, flush, err := InitBetterStackLogger(config.Config{}, base)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if logger != base {
		t.Fatalf("expected base logger when shipping is disabled")
	}
	if err := flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
}

func TestNormalizeBetterStackEndpoint(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                             "",
		"  in.logs.betterstack.com ":   "https://in.logs.betterstack.com",
		"http://localhost:9999/ingest": "http://localhost:9999/ingest",
	}
	for raw, want := range cases {
		if got := normalizeBetterStackEndpoint(raw); got != want {
			t.Fatalf("normalize %q: got=%q want=%q", raw, got, want)
		}
	}
	if !strings.HasPrefix(normalizeBetterStackEndpoint("example.com"), "https://") {
		t.Fatalf("expected https default")
	}
}
