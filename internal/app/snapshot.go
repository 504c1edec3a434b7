package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/hqvjet/TourAI/internal/domain"
)

// Snapshotter walks the catalog and persists trending and per-service
// statistics rows into the local snapshot store. Page walks and comment
// fetches run under a bounded worker pool.
type Snapshotter struct {
	catalog domain.CatalogClient
	store   domain.SnapshotStore
	limit   int
	workers int64
}

func NewSnapshotter(cc domain.CatalogClient, store domain.SnapshotStore, pageLimit, workers int) *Snapshotter {
	if pageLimit <= 0 {
		pageLimit = 8
	}
	if workers <= 0 {
		workers = 8
	}
	return &Snapshotter{catalog: cc, store: store, limit: pageLimit, workers: int64(workers)}
}

// Run takes one full snapshot. Categories are walked concurrently; a
// category whose walk fails is logged and skipped, the others still land.
func (s *Snapshotter) Run(ctx context.Context) error {
	takenAt := time.Now().UTC()
	sem := semaphore.NewWeighted(s.workers)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		services []domain.Service
		trending []domain.TrendingSnapshot
	)
	for _, cat := range domain.Categories() {
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		wg.Add(1)
		go func(cat domain.Category) {
			defer wg.Done()
			defer sem.Release(1)

			found, err := s.collect(ctx, cat)
			if err != nil {
				log.Warn().Str("category", string(cat)).Err(err).Msg("category walk failed")
				return
			}
			top := SelectTrending(found, []domain.Category{cat})

			mu.Lock()
			defer mu.Unlock()
			services = append(services, found...)
			if len(top) > 0 {
				trending = append(trending, domain.TrendingSnapshot{
					Category:      cat,
					ServiceID:     top[0].ID,
					ServiceName:   top[0].Name,
					AverageRating: top[0].Rating(),
					TakenAt:       takenAt,
				})
			}
		}(cat)
	}
	wg.Wait()

	if err := s.store.UpsertTrending(ctx, trending); err != nil {
		return err
	}

	// comment fetches per service, same pool
	var comments []domain.Comment
	for _, svc := range services {
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			defer sem.Release(1)

			cs, err := s.catalog.ListComments(ctx, id)
			if err != nil {
				log.Warn().Int64("service_id", id).Err(err).Msg("comment fetch failed")
				return
			}
			mu.Lock()
			comments = append(comments, cs...)
			mu.Unlock()
		}(svc.ID)
	}
	wg.Wait()

	stats := make([]domain.ServiceStatSnapshot, 0, len(services))
	for _, st := range OwnerStatistics(services, comments) {
		var owner int64
		if st.Service.UserID != nil {
			owner = *st.Service.UserID
		}
		stats = append(stats, domain.ServiceStatSnapshot{
			ServiceID:     st.Service.ID,
			OwnerID:       owner,
			TotalComments: st.TotalComments,
			TotalRating:   st.TotalRating,
			AverageRating: st.AverageRating,
			TakenAt:       takenAt,
		})
	}
	return s.store.UpsertServiceStats(ctx, stats)
}

// collect pages through one category until the reported total is covered.
func (s *Snapshotter) collect(ctx context.Context, cat domain.Category) ([]domain.Service, error) {
	var out []domain.Service
	for page := 1; ; page++ {
		pg, err := s.catalog.ListServices(ctx, cat, page, s.limit)
		if err != nil {
			return nil, err
		}
		out = append(out, pg.Items...)
		if len(pg.Items) == 0 || len(out) >= pg.Total || page >= Pages(pg.Total, s.limit) {
			return out, nil
		}
	}
}
