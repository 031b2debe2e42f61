package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/cache"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/logging"
)

const (
	DefaultListingPageSize = 50
	MaxListingPageSize     = 200
)

// LeagueListingQuery selects one page of the country-wide league listing.
type LeagueListingQuery struct {
	FederationIDs []int
	AgeGroupIDs   []int
	StartAt       int
	PageSize      int
}

type LeagueListingPage struct {
	Items   []ExternalLeagueListing
	StartAt int
	HasMore bool
}

// NextStartAt is the StartAt of the following page.
func (p LeagueListingPage) NextStartAt() int {
	return p.StartAt + len(p.Items)
}

type LeagueListingSource interface {
	ListLeagues(ctx context.Context, query LeagueListingQuery) ([]ExternalLeagueListing, bool, error)
}

// LeagueDirectoryService lets a coach browse federation leagues before
// picking the ones to sync. Pages are cached for pageTTL because the listing
// changes only between seasons.
type LeagueDirectoryService struct {
	source LeagueListingSource
	pages  *cache.Store[string, LeagueListingPage]
	logger *logging.Logger
}

func NewLeagueDirectoryService(source LeagueListingSource, pageTTL time.Duration, logger *logging.Logger) *LeagueDirectoryService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LeagueDirectoryService{
		source: source,
		pages:  cache.NewStore[string, LeagueListingPage](pageTTL),
		logger: logger.Named("league_directory"),
	}
}

func (s *LeagueDirectoryService) Browse(ctx context.Context, query LeagueListingQuery) (LeagueListingPage, error) {
	query, err := normalizeListingQuery(query)
	if err != nil {
		return LeagueListingPage{}, err
	}

	ctx, span := startSpan(ctx, "LeagueDirectoryService.Browse",
		attribute.Int("dbb.listing.start", query.StartAt),
		attribute.Int("dbb.listing.page_size", query.PageSize),
	)
	defer span.End()

	page, err := s.pages.GetOrLoad(ctx, listingCacheKey(query), func(ctx context.Context) (LeagueListingPage, error) {
		items, hasMore, err := s.source.ListLeagues(ctx, query)
		if err != nil {
			return LeagueListingPage{}, err
		}
		s.logger.DebugContext(ctx, "league listing page loaded",
			"start_at", query.StartAt,
			"items", len(items),
			"has_more", hasMore,
		)
		return LeagueListingPage{Items: items, StartAt: query.StartAt, HasMore: hasMore}, nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return LeagueListingPage{}, err
		}
		return LeagueListingPage{}, failSpan(span, fmt.Errorf("%w: list leagues: %w", ErrDependencyUnavailable, err))
	}
	return page, nil
}

func normalizeListingQuery(q LeagueListingQuery) (LeagueListingQuery, error) {
	if q.StartAt < 0 {
		return q, fmt.Errorf("%w: start index must be >= 0", ErrInvalidInput)
	}
	switch {
	case q.PageSize == 0:
		q.PageSize = DefaultListingPageSize
	case q.PageSize < 0 || q.PageSize > MaxListingPageSize:
		return q, fmt.Errorf("%w: page size must be between 1 and %d", ErrInvalidInput, MaxListingPageSize)
	}

	q.FederationIDs = sortedUniqueIDs(q.FederationIDs)
	q.AgeGroupIDs = sortedUniqueIDs(q.AgeGroupIDs)
	for _, id := range slices.Concat(q.FederationIDs, q.AgeGroupIDs) {
		if id <= 0 {
			return q, fmt.Errorf("%w: filter ids must be positive, got %d", ErrInvalidInput, id)
		}
	}
	return q, nil
}

func sortedUniqueIDs(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func listingCacheKey(q LeagueListingQuery) string {
	join := func(ids []int) string {
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = strconv.Itoa(id)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprintf("f=%s|a=%s|s=%d|n=%d", join(q.FederationIDs), join(q.AgeGroupIDs), q.StartAt, q.PageSize)
}
