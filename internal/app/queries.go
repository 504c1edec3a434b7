package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hqvjet/TourAI/internal/domain"
)

// QueryService serves the public read paths of the directory, caching
// catalog pages and comment lists with a cache-aside policy.
type QueryService struct {
	catalog  domain.CatalogClient
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(c domain.CatalogClient, cache domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{catalog: c, cache: cache, cacheTTL: ttl}
}

func servicesKey(category domain.Category, page, limit int) string {
	return fmt.Sprintf("services:%s:%d:%d", category, page, limit)
}

func commentsKey(serviceID int64) string {
	return fmt.Sprintf("comments:%d", serviceID)
}

// ListServices returns one catalog page plus the total page count for the
// pagination UI. An empty category means all categories.
func (s *QueryService) ListServices(ctx context.Context, category domain.Category, page, limit int) (domain.ServicesPage, int, error) {
	key := servicesKey(category, page, limit)
	var pg domain.ServicesPage
	if ok, _ := s.cache.Get(ctx, key, &pg); ok {
		return pg, Pages(pg.Total, limit), nil
	}
	pg, err := s.catalog.ListServices(ctx, category, page, limit)
	if err != nil {
		return domain.ServicesPage{}, 0, err
	}
	// size guard: very large pages are not worth caching
	if b, _ := json.Marshal(pg); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, pg, int(s.cacheTTL.Seconds()))
	}
	return pg, Pages(pg.Total, limit), nil
}

// SearchServices is an uncached passthrough; result sets are query-specific
// and rarely repeat.
func (s *QueryService) SearchServices(ctx context.Context, query string, category domain.Category) ([]domain.Service, error) {
	return s.catalog.SearchServices(ctx, query, category)
}

// Trending fetches one page across all categories and reduces it to the
// top-rated service per category.
func (s *QueryService) Trending(ctx context.Context, page, limit int) ([]domain.Service, error) {
	pg, _, err := s.ListServices(ctx, "", page, limit)
	if err != nil {
		return nil, err
	}
	return SelectTrending(pg.Items, domain.Categories()), nil
}

// Comments returns the comment list for a service, cache-aside.
func (s *QueryService) Comments(ctx context.Context, serviceID int64) ([]domain.Comment, error) {
	key := commentsKey(serviceID)
	var out []domain.Comment
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.catalog.ListComments(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

// InvalidateComments drops the cached comment list after a new review lands.
func (s *QueryService) InvalidateComments(ctx context.Context, serviceID int64) {
	_ = s.cache.Del(ctx, commentsKey(serviceID))
}

// Service is a passthrough to the catalog's detail endpoint.
func (s *QueryService) Service(ctx context.Context, id int64) (domain.Service, error) {
	return s.catalog.GetService(ctx, id)
}
