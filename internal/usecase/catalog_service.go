package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/catalog"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/cache"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/logging"
)

const catalogIndexKey = "index"

// loadedIndex is one generation of the catalog. Partitions are cached per
// generation so a club listed by the index is always read from a partition
// of the same catalog build.
type loadedIndex struct {
	index      catalog.Index
	byID       map[string]catalog.IndexEntry
	partitions *cache.Store[string, catalog.Partition]
}

// CatalogService answers club searches from the catalog index and loads a
// partition only when a club's full record is requested. The index is
// reloaded after indexTTL so a regenerated catalog is picked up. Zero keeps
// it forever. Partitions live as long as the index generation they belong
// to; a reload with the same GeneratedAt keeps them.
type CatalogService struct {
	source catalog.Source
	index  *cache.Store[string, loadedIndex]
	logger *logging.Logger

	mu      sync.Mutex
	current *loadedIndex
}

func NewCatalogService(source catalog.Source, indexTTL time.Duration, logger *logging.Logger) *CatalogService {
	return newCatalogService(source, indexTTL, clockwork.NewRealClock(), logger)
}

func newCatalogService(source catalog.Source, indexTTL time.Duration, clock clockwork.Clock, logger *logging.Logger) *CatalogService {
	if logger == nil {
		logger = logging.Default()
	}

	return &CatalogService{
		source: source,
		index:  cache.NewStoreWithClock[string, loadedIndex](indexTTL, clock),
		logger: logger.Named("catalog"),
	}
}

// Search filters the index by case-insensitive name substring and, when
// federationID is set, by federation membership.
func (s *CatalogService) Search(ctx context.Context, query string, federationID *int) ([]catalog.IndexEntry, error) {
	ctx, span := startSpan(ctx, "CatalogService.Search")
	defer span.End()

	idx, err := s.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	lowerQuery := strings.ToLower(strings.TrimSpace(query))
	out := make([]catalog.IndexEntry, 0)
	for _, entry := range idx.index.Entries {
		if !entry.MatchesName(lowerQuery) {
			continue
		}
		if federationID != nil && !entry.InFederation(*federationID) {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

// LoadDetail returns the full record of a club. The partition holding it
// is read at most once.
func (s *CatalogService) LoadDetail(ctx context.Context, clubID string) (catalog.Club, bool, error) {
	ctx, span := startSpan(ctx, "CatalogService.LoadDetail")
	defer span.End()

	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return catalog.Club{}, false, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}

	idx, err := s.loadIndex(ctx)
	if err != nil {
		return catalog.Club{}, false, err
	}
	entry, ok := idx.byID[clubID]
	if !ok {
		return catalog.Club{}, false, nil
	}
	if entry.DetailFile == "" {
		s.logger.WarnContext(ctx, "catalog entry has no partition", "club_id", clubID)
		return catalog.Club{}, false, nil
	}

	partition, err := idx.partitions.GetOrLoad(ctx, entry.DetailFile, func(ctx context.Context) (catalog.Partition, error) {
		s.logger.DebugContext(ctx, "loading catalog partition", "detail_file", entry.DetailFile)
		return s.source.LoadPartition(ctx, entry.DetailFile)
	})
	if err != nil {
		return catalog.Club{}, false, fmt.Errorf("%w: load catalog partition %s: %w", ErrDependencyUnavailable, entry.DetailFile, err)
	}

	for _, item := range partition.Clubs {
		if item.ClubID == clubID {
			return item, true, nil
		}
	}

	s.logger.WarnContext(ctx, "club missing from its catalog partition",
		"club_id", clubID,
		"detail_file", entry.DetailFile,
	)
	return catalog.Club{}, false, nil
}

// Teams lists the teams of a club, optionally narrowed to one age group.
func (s *CatalogService) Teams(ctx context.Context, clubID, ageCategory string) ([]catalog.Team, error) {
	item, ok, err := s.LoadDetail(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: catalog club=%s", ErrNotFound, clubID)
	}

	ageCategory = strings.TrimSpace(ageCategory)
	out := make([]catalog.Team, 0, len(item.Teams))
	for _, t := range item.Teams {
		if ageCategory == "" || teamInAgeCategory(t, ageCategory) {
			out = append(out, t)
		}
	}
	return out, nil
}

func teamInAgeCategory(t catalog.Team, ageCategory string) bool {
	if strings.EqualFold(t.AgeCategory, ageCategory) {
		return true
	}
	for _, ref := range t.Leagues {
		if strings.EqualFold(ref.AgeGroupName, ageCategory) {
			return true
		}
	}
	return false
}

// CachedPartitions counts the partitions loaded for the current index.
func (s *CatalogService) CachedPartitions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return 0
	}
	return s.current.partitions.Len()
}

func (s *CatalogService) loadIndex(ctx context.Context) (loadedIndex, error) {
	idx, err := s.index.GetOrLoad(ctx, catalogIndexKey, func(ctx context.Context) (loadedIndex, error) {
		raw, err := s.source.LoadIndex(ctx)
		if err != nil {
			return loadedIndex{}, err
		}

		byID := make(map[string]catalog.IndexEntry, len(raw.Entries))
		for _, entry := range raw.Entries {
			byID[entry.ClubID] = entry
		}
		loaded := loadedIndex{index: raw, byID: byID}

		s.mu.Lock()
		reused := s.current != nil && !raw.GeneratedAt.IsZero() && raw.GeneratedAt.Equal(s.current.index.GeneratedAt)
		if reused {
			loaded.partitions = s.current.partitions
		} else {
			loaded.partitions = cache.NewStore[string, catalog.Partition](0)
		}
		s.current = &loaded
		s.mu.Unlock()

		s.logger.InfoContext(ctx, "catalog index loaded",
			"clubs", len(raw.Entries),
			"chunks", raw.TotalChunks,
			"generated_at", raw.GeneratedAt,
			"partitions_kept", reused,
		)
		return loaded, nil
	})
	if err != nil {
		return loadedIndex{}, fmt.Errorf("%w: load catalog index: %w", ErrDependencyUnavailable, err)
	}
	return idx, nil
}
