package relay

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/resilience"
)

const standingsURL = "https://www.basketball-bund.net/rest/competition/table/id/51961"

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type callLog struct {
	mu    sync.Mutex
	hosts []string
}

func (l *callLog) add(host string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hosts = append(l.hosts, host)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.hosts...)
}

func textResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func testRelays() []string {
	return []string{
		"https://relay-one.test/?url=",
		"https://relay-two.test/fetch/",
		"https://relay-three.test/raw?url=",
	}
}

func TestFetch_DirectSuccessSkipsRelays(t *testing.T) {
	t.Parallel()

	calls := &callLog{}
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls.add(r.URL.Host)
		return textResponse(http.StatusOK, `{"status":"0","data":{}}`), nil
	})}
	f := NewFetcher(Config{HTTPClient: client, Relays: testRelays()})

	resp, err := f.Fetch(context.Background(), Request{URL: standingsURL})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if resp.Via != ViaDirect {
		t.Fatalf("unexpected via: got=%s want=%s", resp.Via, ViaDirect)
	}
	if got := calls.list(); len(got) != 1 || got[0] != "www.basketball-bund.net" {
		t.Fatalf("unexpected calls: %v", got)
	}
}

func TestFetch_SecondRelaySucceeds(t *testing.T) {
	t.Parallel()

	calls := &callLog{}
	var relayedTarget string
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls.add(r.URL.Host)
		switch r.URL.Host {
		case "www.basketball-bund.net":
			return nil, errors.New("blocked by cors")
		case "relay-one.test":
			return textResponse(http.StatusBadGateway, "upstream down"), nil
		case "relay-two.test":
			raw := strings.TrimPrefix(r.URL.EscapedPath(), "/fetch/")
			decoded, err := url.QueryUnescape(raw)
			if err != nil {
				return nil, err
			}
			relayedTarget = decoded
			return textResponse(http.StatusOK, `{"status":"0","data":{"teams":[]}}`), nil
		default:
			t.Errorf("unexpected call to %s", r.URL.Host)
			return textResponse(http.StatusInternalServerError, ""), nil
		}
	})}
	f := NewFetcher(Config{HTTPClient: client, Relays: testRelays()})

	resp, err := f.Fetch(context.Background(), Request{URL: standingsURL})
	if err != nil {
		t.Fatalf("expected second relay to succeed, got %v", err)
	}
	if resp.Via != "https://relay-two.test/fetch/" {
		t.Fatalf("unexpected via: %s", resp.Via)
	}
	if !strings.Contains(string(resp.Body), `"teams"`) {
		t.Fatalf("unexpected body: %s", resp.Body)
	}
	if relayedTarget != standingsURL {
		t.Fatalf("relay received wrong target: got=%s want=%s", relayedTarget, standingsURL)
	}
	want := []string{"www.basketball-bund.net", "relay-one.test", "relay-two.test"}
	got := calls.list()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected call order: got=%v want=%v", got, want)
	}
}

func TestFetch_AllAttemptsFailAggregates(t *testing.T) {
	t.Parallel()

	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		switch r.URL.Host {
		case "www.basketball-bund.net":
			<-r.Context().Done()
			return nil, r.Context().Err()
		case "relay-one.test":
			return textResponse(http.StatusForbidden, "denied"), nil
		case "relay-two.test":
			return nil, errors.New("connection refused")
		default:
			return textResponse(http.StatusServiceUnavailable, ""), nil
		}
	})}
	f := NewFetcher(Config{
		HTTPClient:    client,
		Relays:        testRelays(),
		DirectTimeout: 20 * time.Millisecond,
		RelayTimeout:  time.Second,
	})

	_, err := f.Fetch(context.Background(), Request{URL: standingsURL})
	if !errors.Is(err, ErrAllAttemptsFailed) {
		t.Fatalf("expected ErrAllAttemptsFailed, got %v", err)
	}

	var chainErr *ChainError
	if !errors.As(err, &chainErr) {
		t.Fatalf("expected *ChainError, got %T", err)
	}
	if len(chainErr.Attempts) != 4 {
		t.Fatalf("unexpected attempt count: got=%d want=4", len(chainErr.Attempts))
	}

	wantKinds := []AttemptKind{KindTimeout, KindStatus, KindTransport, KindStatus}
	for i, want := range wantKinds {
		if chainErr.Attempts[i].Kind != want {
			t.Fatalf("attempt %d kind: got=%s want=%s", i, chainErr.Attempts[i].Kind, want)
		}
	}
	if chainErr.Attempts[1].StatusCode != http.StatusForbidden {
		t.Fatalf("unexpected status on relay-one: %d", chainErr.Attempts[1].StatusCode)
	}
	if chainErr.LastStatus() != http.StatusServiceUnavailable {
		t.Fatalf("unexpected last status: %d", chainErr.LastStatus())
	}
	if !strings.Contains(err.Error(), "relay-two.test") {
		t.Fatalf("expected error message to list relay-two, got %s", err.Error())
	}
}

func TestFetch_LocalTargetHasNoFallback(t *testing.T) {
	t.Parallel()

	calls := &callLog{}
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls.add(r.URL.Host)
		return textResponse(http.StatusInternalServerError, "dev server error"), nil
	})}
	f := NewFetcher(Config{HTTPClient: client, Relays: testRelays()})

	_, err := f.Fetch(context.Background(), Request{URL: "http://localhost:3000/rest/competition/table/id/1"})
	var chainErr *ChainError
	if !errors.As(err, &chainErr) {
		t.Fatalf("expected *ChainError, got %v", err)
	}
	if len(chainErr.Attempts) != 1 {
		t.Fatalf("expected a single attempt, got %d", len(chainErr.Attempts))
	}
	if got := calls.list(); len(got) != 1 {
		t.Fatalf("expected one call, got %v", got)
	}
}

func TestFetch_OpenCircuitSkipsRelay(t *testing.T) {
	t.Parallel()

	calls := &callLog{}
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls.add(r.URL.Host)
		switch r.URL.Host {
		case "relay-two.test":
			return textResponse(http.StatusOK, `{}`), nil
		default:
			return textResponse(http.StatusBadGateway, ""), nil
		}
	})}
	f := NewFetcher(Config{
		HTTPClient: client,
		Relays:     testRelays(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Hour,
		},
	})

	if _, err := f.Fetch(context.Background(), Request{URL: standingsURL}); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if _, err := f.Fetch(context.Background(), Request{URL: standingsURL}); err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	relayOneCalls := 0
	for _, host := range calls.list() {
		if host == "relay-one.test" {
			relayOneCalls++
		}
	}
	if relayOneCalls != 1 {
		t.Fatalf("expected relay-one to be skipped once its circuit opened, calls=%d", relayOneCalls)
	}
}

func TestFetch_PostForwardsBody(t *testing.T) {
	t.Parallel()

	var gotBody, gotMethod string
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		gotMethod = r.Method
		return textResponse(http.StatusOK, `{}`), nil
	})}
	f := NewFetcher(Config{HTTPClient: client, Relays: []string{}})

	_, err := f.Fetch(context.Background(), Request{
		Method: http.MethodPost,
		URL:    "https://www.basketball-bund.net/rest/wam/data?startAtIndex=0&pageSize=50",
		Body:   []byte(`{"token":0}`),
	})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotMethod != http.MethodPost || gotBody != `{"token":0}` {
		t.Fatalf("unexpected request: method=%s body=%s", gotMethod, gotBody)
	}
}

func TestFetch_RejectsInvalidURL(t *testing.T) {
	t.Parallel()

	f := NewFetcher(Config{Relays: []string{}})
	if _, err := f.Fetch(context.Background(), Request{URL: "not a url"}); err == nil {
		t.Fatalf("expected invalid url error")
	}
}

func TestFetch_BodyLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantError bool
	}{
		{name: "exactly at limit", body: `{"a":12}`},
		{name: "one byte over", body: `{"a":123}`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
				return textResponse(http.StatusOK, tt.body), nil
			})}
			f := NewFetcher(Config{HTTPClient: client, Relays: []string{}, MaxBodyBytes: 8})

			resp, err := f.Fetch(context.Background(), Request{URL: standingsURL})
			if !tt.wantError {
				if err != nil {
					t.Fatalf("fetch: %v", err)
				}
				if string(resp.Body) != tt.body {
					t.Fatalf("unexpected body: %q", resp.Body)
				}
				return
			}

			var chain *ChainError
			if !errors.As(err, &chain) {
				t.Fatalf("expected ChainError, got %v", err)
			}
			if len(chain.Attempts) != 1 || chain.Attempts[0].Kind != KindOversized {
				t.Fatalf("unexpected attempts: %+v", chain.Attempts)
			}
			if !errors.Is(chain.Attempts[0].Err, ErrBodyTooLarge) {
				t.Fatalf("expected ErrBodyTooLarge, got %v", chain.Attempts[0].Err)
			}
		})
	}
}
