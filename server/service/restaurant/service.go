// Package restaurant wraps the places upstream with a short-TTL cache, a
// category filter, heuristic nutrition scoring, tag generation, and a
// distance/rating sort.
package restaurant

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nutrisense/nutrisense/plugin/places"
	apierrors "github.com/nutrisense/nutrisense/internal/errors"
)

const (
	// CacheTTL bounds how long a fetched list is served without refreshing.
	CacheTTL = 600 * time.Second

	// searchRadiusM is the nearby-search radius around the reference point.
	searchRadiusM = 3000
)

// ReferencePoint is the fixed center for nearby searches, the NKUST Jiangong
// campus.
var ReferencePoint = places.Location{Lat: 22.6273, Lng: 120.3014}

// Searcher is the slice of the places client the service depends on.
type Searcher interface {
	NearbySearch(ctx context.Context, center places.Location, radiusM int, keyword string) ([]places.Place, error)
	PhotoURL(photoReference string) string
}

// ListResult is the outcome of a list or search call.
type ListResult struct {
	Restaurants []Record `json:"data"`
	Count       int      `json:"count"`
	// Cached reports whether the list was served from the cache rather than
	// a fresh upstream fetch.
	Cached bool `json:"cached"`
	// Stale is set when an upstream refresh failed and the expired cache was
	// served instead.
	Stale bool `json:"stale,omitempty"`
}

// Service owns the restaurant cache and the ranking pipeline. The cached list
// always holds the maximal unfiltered set; category filtering happens on top.
type Service struct {
	upstream Searcher
	center   places.Location
	radiusM  int
	logger   *slog.Logger

	mu        sync.RWMutex
	cached    []Record
	fetchedAt time.Time

	group singleflight.Group

	now func() time.Time
}

// NewService creates a restaurant service over the given upstream.
func NewService(upstream Searcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		upstream: upstream,
		center:   ReferencePoint,
		radiusM:  searchRadiusM,
		logger:   logger,
		now:      time.Now,
	}
}

// List returns the ranked restaurant list for a category. The cache is used
// while valid unless forceRefresh is set. When a refresh fails and an expired
// cache exists, the stale list is served and marked as such.
func (s *Service) List(ctx context.Context, category Category, forceRefresh bool) (*ListResult, error) {
	records, cached, stale, err := s.fullList(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}

	if category != CategoryAll {
		records = filterByCategory(records, category)
	}
	sortRecords(records)

	return &ListResult{
		Restaurants: records,
		Count:       len(records),
		Cached:      cached,
		Stale:       stale,
	}, nil
}

// Search runs a fresh keyword search against the upstream, bypassing the
// cache and the category filter. An empty query degrades to the unfiltered
// cached list.
func (s *Service) Search(ctx context.Context, query string) (*ListResult, error) {
	if query == "" {
		return s.List(ctx, CategoryAll, false)
	}

	results, err := s.upstream.NearbySearch(ctx, s.center, s.radiusM, query)
	if err != nil {
		return nil, err
	}

	records := s.enrichAll(results)
	sortRecords(records)
	return &ListResult{Restaurants: records, Count: len(records)}, nil
}

// Get returns the record with the given id from the cached list, refreshing
// the cache the same way List does. Unknown ids yield a NotFound error.
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	records, _, _, err := s.fullList(ctx, false)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, apierrors.NotFound("restaurant")
}

// ClearCache discards the cached list and timestamp unconditionally.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
	s.fetchedAt = time.Time{}
}

// CacheStatus reports whether a cached list currently exists. Used by the
// health endpoint.
func (s *Service) CacheStatus() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cached == nil {
		return "empty"
	}
	return "cached"
}

// fullList returns a copy of the unfiltered record list, refreshing the cache
// when needed. The copy keeps callers from observing each other's sorts.
func (s *Service) fullList(ctx context.Context, forceRefresh bool) (records []Record, cached, stale bool, err error) {
	s.mu.RLock()
	valid := s.cached != nil && s.now().Sub(s.fetchedAt) < CacheTTL
	if valid && !forceRefresh {
		records = copyRecords(s.cached)
		s.mu.RUnlock()
		return records, true, false, nil
	}
	s.mu.RUnlock()

	records, err = s.refresh(ctx)
	if err == nil {
		return records, false, false, nil
	}

	// Availability over freshness: serve the expired list when one exists.
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cached != nil {
		s.logger.Warn("restaurant refresh failed, serving stale cache",
			slog.String("error", err.Error()),
			slog.Int("records", len(s.cached)))
		return copyRecords(s.cached), true, true, nil
	}
	return nil, false, false, err
}

// refresh fetches the unfiltered set and replaces the cache wholesale.
// Concurrent callers collapse into a single upstream request.
func (s *Service) refresh(ctx context.Context) ([]Record, error) {
	v, err, _ := s.group.Do("nearby", func() (any, error) {
		results, err := s.upstream.NearbySearch(ctx, s.center, s.radiusM, "")
		if err != nil {
			return nil, err
		}

		records := s.enrichAll(results)
		s.mu.Lock()
		s.cached = records
		s.fetchedAt = s.now()
		s.mu.Unlock()

		s.logger.Info("restaurant cache refreshed", slog.Int("records", len(records)))
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return copyRecords(v.([]Record)), nil
}

func (s *Service) enrichAll(results []places.Place) []Record {
	records := make([]Record, 0, len(results))
	for _, place := range results {
		records = append(records, newRecord(place, s.center, s.upstream.PhotoURL))
	}
	return records
}

// filterByCategory keeps records matching the category's keyword set. Keyword
// matching for cafes is noisy, so when it yields fewer than 3 records the
// filter falls back to an exact category-label match.
func filterByCategory(records []Record, category Category) []Record {
	filtered := make([]Record, 0, len(records))
	for _, r := range records {
		if matchesCategory(r, category) {
			filtered = append(filtered, r)
		}
	}

	if category == CategoryCafe && len(filtered) < 3 {
		filtered = filtered[:0]
		for _, r := range records {
			if r.Category == "cafe" {
				filtered = append(filtered, r)
			}
		}
	}
	return filtered
}

// sortRecords orders ascending by distance, ties broken by higher rating.
func sortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].DistanceKm != records[j].DistanceKm {
			return records[i].DistanceKm < records[j].DistanceKm
		}
		return records[i].Rating > records[j].Rating
	})
}

func copyRecords(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	return out
}
