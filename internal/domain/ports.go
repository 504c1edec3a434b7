package domain

import (
	"context"
	"time"
)

// CatalogClient is the read/write surface of the external service catalog.
type CatalogClient interface {
	ListServices(ctx context.Context, category Category, page, limit int) (ServicesPage, error)
	SearchServices(ctx context.Context, query string, category Category) ([]Service, error)
	GetService(ctx context.Context, id int64) (Service, error)
	ListOwnerServices(ctx context.Context, ownerID int64) ([]Service, error)

	ListComments(ctx context.Context, serviceID int64) ([]Comment, error)
	ListBusinessComments(ctx context.Context, userID int64, f CommentFilters) ([]Comment, error)
	CreateComment(ctx context.Context, c NewComment) (Comment, error)

	Me(ctx context.Context) (Session, error)
}

// Classifier scores free-text review content.
type Classifier interface {
	Predict(ctx context.Context, title, content string) (Scores, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// CommentFilters narrows owner-scoped comment listings.
type CommentFilters struct {
	Type      Category
	MinRating *int
	MaxRating *int
	SortBy    string // rating_asc|rating_desc|created_at_asc|created_at_desc
}

// SnapshotStore persists periodic aggregation results (cmd/snapshot).
type SnapshotStore interface {
	UpsertTrending(ctx context.Context, rows []TrendingSnapshot) error
	UpsertServiceStats(ctx context.Context, rows []ServiceStatSnapshot) error
}

type TrendingSnapshot struct {
	Category      Category
	ServiceID     int64
	ServiceName   string
	AverageRating float64
	TakenAt       time.Time
}

type ServiceStatSnapshot struct {
	ServiceID     int64
	OwnerID       int64
	TotalComments int
	TotalRating   int
	AverageRating float64
	TakenAt       time.Time
}
