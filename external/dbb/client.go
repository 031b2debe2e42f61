package dbb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/logging"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/relay"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/usecase"
)

const DefaultBaseURL = "https://www.basketball-bund.net"

// Fetcher is the outbound call used by the client, normally *relay.Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, req relay.Request) (relay.Response, error)
}

type ClientConfig struct {
	Fetcher Fetcher
	BaseURL string
	Logger  *logging.Logger
}

// Client reads the federation's public REST endpoints.
type Client struct {
	fetcher Fetcher
	baseURL string
	logger  *logging.Logger
}

var (
	_ usecase.LeagueDataProvider  = (*Client)(nil)
	_ usecase.LeagueListingSource = (*Client)(nil)
)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = relay.NewFetcher(relay.Config{Logger: logger})
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		fetcher: fetcher,
		baseURL: baseURL,
		logger:  logger.Named("dbb"),
	}
}

func (c *Client) FetchStandings(ctx context.Context, externalLeagueID string) (usecase.ExternalStandings, error) {
	id, err := normalizeNumericID(externalLeagueID)
	if err != nil {
		return usecase.ExternalStandings{}, err
	}

	raw, err := c.get(ctx, "/rest/competition/table/id/"+id)
	if err != nil {
		return usecase.ExternalStandings{}, fmt.Errorf("fetch standings league=%s: %w", id, err)
	}

	out, err := MapStandings(raw)
	if err != nil {
		return usecase.ExternalStandings{}, fmt.Errorf("map standings league=%s: %w", id, err)
	}
	if out.League.ExternalID == "" {
		out.League.ExternalID = id
	}
	return out, nil
}

func (c *Client) FetchSchedule(ctx context.Context, externalLeagueID string) ([]usecase.ExternalGameEntry, error) {
	id, err := normalizeNumericID(externalLeagueID)
	if err != nil {
		return nil, err
	}

	raw, err := c.get(ctx, "/rest/competition/spielplan/id/"+id)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule league=%s: %w", id, err)
	}

	out, err := MapSchedule(raw)
	if err != nil {
		return nil, fmt.Errorf("map schedule league=%s: %w", id, err)
	}
	return out, nil
}

func (c *Client) FetchGameDetail(ctx context.Context, externalGameID string) (usecase.ExternalGameDetail, error) {
	id, err := normalizeNumericID(externalGameID)
	if err != nil {
		return usecase.ExternalGameDetail{}, err
	}

	raw, err := c.get(ctx, "/rest/match/id/"+id+"/matchInfo")
	if err != nil {
		return usecase.ExternalGameDetail{}, fmt.Errorf("fetch game detail game=%s: %w", id, err)
	}

	out, err := MapGameDetail(id, raw)
	if err != nil {
		return usecase.ExternalGameDetail{}, fmt.Errorf("map game detail game=%s: %w", id, err)
	}
	return out, nil
}

type listingRequest struct {
	Token            int      `json:"token"`
	FederationIDs    []int    `json:"verbandIds"`
	AreaIDs          []string `json:"gebietIds"`
	LeagueTypeIDs    []int    `json:"ligatypIds"`
	AgeGenderIDs     []string `json:"akgGeschlechtIds"`
	AgeGroupIDs      []int    `json:"altersklasseIds"`
	CompetitionClass []int    `json:"spielklasseIds"`
	SortBy           int      `json:"sortBy"`
}

// ListLeagues reads one page of the league listing. The page size defaults
// to usecase.DefaultListingPageSize.
func (c *Client) ListLeagues(ctx context.Context, q usecase.LeagueListingQuery) ([]usecase.ExternalLeagueListing, bool, error) {
	if q.StartAt < 0 {
		return nil, false, fmt.Errorf("%w: start index must be >= 0", usecase.ErrInvalidInput)
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = usecase.DefaultListingPageSize
	}

	body, err := sonic.Marshal(listingRequest{
		FederationIDs:    nonNilInts(q.FederationIDs),
		AreaIDs:          []string{},
		LeagueTypeIDs:    []int{},
		AgeGenderIDs:     []string{},
		AgeGroupIDs:      nonNilInts(q.AgeGroupIDs),
		CompetitionClass: []int{},
		SortBy:           1,
	})
	if err != nil {
		return nil, false, crerr.Wrap(err, "encode listing filter")
	}

	query := url.Values{}
	query.Set("startAtIndex", strconv.Itoa(q.StartAt))
	query.Set("pageSize", strconv.Itoa(pageSize))

	resp, err := c.fetcher.Fetch(ctx, relay.Request{
		Method: http.MethodPost,
		URL:    c.baseURL + "/rest/wam/data?" + query.Encode(),
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   body,
	})
	if err != nil {
		return nil, false, fmt.Errorf("fetch league listing start=%d: %w", q.StartAt, err)
	}

	items, hasMore, err := MapLeagueListing(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("map league listing start=%d: %w", q.StartAt, err)
	}
	return items, hasMore, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.fetcher.Fetch(ctx, relay.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + path,
	})
	if err != nil {
		return nil, err
	}
	if resp.Via != relay.ViaDirect {
		c.logger.DebugContext(ctx, "dbb request served by relay", "path", path, "relay", resp.Via)
	}
	return resp.Body, nil
}

func normalizeNumericID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	value, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || value <= 0 {
		return "", fmt.Errorf("%w: id must be a positive number, got %q", usecase.ErrInvalidInput, raw)
	}
	return strconv.FormatInt(value, 10), nil
}

func nonNilInts(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}
