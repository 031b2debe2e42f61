package relay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/logging"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/resilience"
)

const (
	DefaultDirectTimeout = 2 * time.Second
	DefaultRelayTimeout  = 8 * time.Second
	DefaultMaxBodyBytes  = 6 << 20

	// ViaDirect marks a response that did not go through a relay.
	ViaDirect = "direct"
)

// DefaultRelays returns the ordered relay prefixes. The escaped target URL is
// appended to each prefix.
func DefaultRelays() []string {
	return []string{
		"https://corsproxy.io/?",
		"https://proxy.cors.sh/",
		"https://cors.bridged.cc/",
		"https://cors-anywhere.herokuapp.com/",
		"https://thingproxy.freeboard.io/fetch/",
		"https://api.allorigins.win/raw?url=",
	}
}

type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// Via is ViaDirect or the relay prefix that served the response.
	Via string
}

type Config struct {
	HTTPClient     *http.Client
	Relays         []string
	DirectTimeout  time.Duration
	RelayTimeout   time.Duration
	MaxBodyBytes   int64
	CircuitBreaker resilience.CircuitBreakerConfig
	// Clock drives the circuit breakers. Defaults to the real clock.
	Clock  clockwork.Clock
	Logger *logging.Logger
}

// Fetcher performs one outbound call with relay fallback. It holds no state
// besides the optional per-relay circuit breakers.
type Fetcher struct {
	httpClient    *http.Client
	relays        []string
	directTimeout time.Duration
	relayTimeout  time.Duration
	maxBodyBytes  int64
	breakers      *resilience.BreakerSet
	logger        *logging.Logger
}

func NewFetcher(cfg Config) *Fetcher {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	relays := make([]string, 0, len(cfg.Relays))
	for _, item := range cfg.Relays {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			relays = append(relays, trimmed)
		}
	}
	if cfg.Relays == nil {
		relays = DefaultRelays()
	}

	directTimeout := cfg.DirectTimeout
	if directTimeout <= 0 {
		directTimeout = DefaultDirectTimeout
	}
	relayTimeout := cfg.RelayTimeout
	if relayTimeout <= 0 {
		relayTimeout = DefaultRelayTimeout
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	return &Fetcher{
		httpClient:    httpClient,
		relays:        relays,
		directTimeout: directTimeout,
		relayTimeout:  relayTimeout,
		maxBodyBytes:  maxBody,
		breakers:      resilience.NewBreakerSet(cfg.CircuitBreaker, cfg.Clock),
		logger:        logger.Named("relay"),
	}
}

// Relays returns a copy of the configured relay prefixes in attempt order.
func (f *Fetcher) Relays() []string {
	return append([]string(nil), f.relays...)
}

// Fetch returns the first successful (2xx) response. Local development
// targets are called once without fallback; everything else gets a direct
// attempt with the short budget followed by every relay with the long budget.
// When all attempts fail the error is a *ChainError.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (Response, error) {
	target, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil || target.Scheme == "" || target.Host == "" {
		return Response{}, crerr.Newf("invalid fetch url %q", req.URL)
	}
	req.URL = target.String()

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("relay.target", target.Host+target.Path))

	if IsLocalTarget(target) {
		resp, attempt := f.attempt(ctx, req, ViaDirect, req.URL, 0)
		if attempt == nil {
			return resp, nil
		}
		return Response{}, &ChainError{URL: req.URL, Attempts: []Attempt{*attempt}}
	}

	attempts := make([]Attempt, 0, len(f.relays)+1)
	resp, failed := f.attempt(ctx, req, ViaDirect, req.URL, f.directTimeout)
	if failed == nil {
		return resp, nil
	}
	attempts = append(attempts, *failed)
	f.logger.DebugContext(ctx, "direct fetch failed, trying relays", "url", req.URL, "reason", failed.String())

	for _, prefix := range f.relays {
		if err := ctx.Err(); err != nil {
			return Response{}, crerr.Wrapf(err, "fetch %s", req.URL)
		}

		if err := f.breakers.Allow(prefix); err != nil {
			attempts = append(attempts, Attempt{Endpoint: prefix, Kind: KindCircuitOpen, Err: err})
			continue
		}

		resp, failed = f.attempt(ctx, req, prefix, prefix+url.QueryEscape(req.URL), f.relayTimeout)
		f.breakers.Record(prefix, failed != nil)
		if failed == nil {
			f.logger.InfoContext(ctx, "fetch served by relay", "url", req.URL, "relay", prefix, "failed_attempts", len(attempts))
			return resp, nil
		}
		attempts = append(attempts, *failed)
		f.logger.DebugContext(ctx, "relay fetch failed", "url", req.URL, "relay", prefix, "reason", failed.String())
	}

	chainErr := &ChainError{URL: req.URL, Attempts: attempts}
	f.logger.WarnContext(ctx, "all fetch attempts failed", "url", req.URL, "attempts", len(attempts), "error", chainErr)
	return Response{}, chainErr
}

// attempt performs a single call. A nil *Attempt means success.
func (f *Fetcher) attempt(ctx context.Context, req Request, endpoint, fullURL string, budget time.Duration) (Response, *Attempt) {
	callCtx := ctx
	if budget > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(callCtx, method, fullURL, body)
	if err != nil {
		return Response{}, &Attempt{Endpoint: endpoint, Kind: KindTransport, Err: fmt.Errorf("build request: %w", err)}
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}

	httpResp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, classifyTransportError(endpoint, budget, err)
	}
	defer httpResp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	// One byte past the limit tells a complete body from a truncated one.
	if _, err := buf.ReadFrom(io.LimitReader(httpResp.Body, f.maxBodyBytes+1)); err != nil {
		return Response{}, classifyTransportError(endpoint, budget, fmt.Errorf("read response body: %w", err))
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return Response{}, &Attempt{
			Endpoint:   endpoint,
			Kind:       KindStatus,
			StatusCode: httpResp.StatusCode,
			Err:        fmt.Errorf("status=%d body=%s", httpResp.StatusCode, abbreviateBody(buf.B)),
		}
	}

	if int64(buf.Len()) > f.maxBodyBytes {
		return Response{}, &Attempt{
			Endpoint: endpoint,
			Kind:     KindOversized,
			Err:      crerr.Wrapf(ErrBodyTooLarge, "limit=%d bytes", f.maxBodyBytes),
		}
	}

	return Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header.Clone(),
		Body:       append([]byte(nil), buf.B...),
		Via:        endpoint,
	}, nil
}

func classifyTransportError(endpoint string, budget time.Duration, err error) *Attempt {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Attempt{Endpoint: endpoint, Kind: KindTimeout, Err: fmt.Errorf("timeout after %s: %w", budget, err)}
	}
	return &Attempt{Endpoint: endpoint, Kind: KindTransport, Err: err}
}

// IsLocalTarget reports whether u points at a local development server.
func IsLocalTarget(u *url.URL) bool {
	if u == nil {
		return false
	}
	switch strings.ToLower(u.Hostname()) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}

func abbreviateBody(raw []byte) string {
	const limit = 200
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
