package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hqvjet/TourAI/internal/domain"
)

// OwnerView serves the business-owner surfaces. It is built per request from
// a session-scoped catalog client; all its loads fan out concurrently and
// the join fails as a whole if any branch fails.
type OwnerView struct {
	catalog domain.CatalogClient
}

func NewOwnerView(cc domain.CatalogClient) OwnerView {
	return OwnerView{catalog: cc}
}

// Services lists the services owned by the session's user.
func (v OwnerView) Services(ctx context.Context, ownerID int64) ([]domain.Service, error) {
	return v.catalog.ListOwnerServices(ctx, ownerID)
}

// Dashboard is the owner's overview: totals plus the per-service average
// ratings feeding the rating distribution chart.
type Dashboard struct {
	TotalServices int                `json:"total_services"`
	TotalComments int                `json:"total_comments"`
	Services      []domain.Service   `json:"services"`
	Ratings       map[string]float64 `json:"ratings"` // service name -> average rating
}

func (v OwnerView) Dashboard(ctx context.Context, session domain.Session) (Dashboard, error) {
	services, comments, err := v.load(ctx, session)
	if err != nil {
		return Dashboard{}, err
	}

	// keep only comments on services this owner actually holds
	owned := make(map[int64]struct{}, len(services))
	for _, s := range services {
		owned[s.ID] = struct{}{}
	}
	kept := comments[:0]
	for _, c := range comments {
		if _, ok := owned[c.ServiceID]; ok {
			kept = append(kept, c)
		}
	}

	ratings := make(map[string]float64, len(services))
	for _, st := range OwnerStatistics(services, kept) {
		ratings[st.Service.Name] = st.AverageRating
	}
	return Dashboard{
		TotalServices: len(services),
		TotalComments: len(kept),
		Services:      services,
		Ratings:       ratings,
	}, nil
}

// Statistics returns the per-service stat rows of the statistics surface.
func (v OwnerView) Statistics(ctx context.Context, session domain.Session) ([]domain.OwnerStat, error) {
	services, comments, err := v.load(ctx, session)
	if err != nil {
		return nil, err
	}
	return OwnerStatistics(services, comments), nil
}

// load fetches the owner's services and comments concurrently.
func (v OwnerView) load(ctx context.Context, session domain.Session) ([]domain.Service, []domain.Comment, error) {
	var (
		services []domain.Service
		comments []domain.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		services, err = v.catalog.ListOwnerServices(gctx, session.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = v.catalog.ListBusinessComments(gctx, session.UserID, domain.CommentFilters{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return services, comments, nil
}
