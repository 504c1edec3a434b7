package app_test

import (
	"math"
	"testing"

	"github.com/hqvjet/TourAI/internal/app"
	"github.com/hqvjet/TourAI/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func svc(id int64, cat domain.Category, rating float64) domain.Service {
	s := domain.Service{ID: id, Name: "svc", Type: cat}
	if rating > 0 {
		s.AverageRating = ptr(rating)
	}
	return s
}

func comment(serviceID int64, rating domain.Rating) domain.Comment {
	return domain.Comment{ServiceID: serviceID, UserID: 1, Rating: rating}
}

func TestComputeBreakdown_SumsToHundred(t *testing.T) {
	comments := []domain.Comment{
		comment(1, domain.RatingPositive),
		comment(1, domain.RatingPositive),
		comment(1, domain.RatingNeutral),
		comment(1, domain.RatingNegative),
		comment(1, domain.RatingNegative),
		comment(1, domain.RatingNegative),
	}
	b := app.ComputeBreakdown(comments)

	sum := b.Positive + b.Neutral + b.Negative
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("expected ratios to sum to ~100, got %v (%+v)", sum, b)
	}
	if math.Abs(b.Negative-50) > 1e-9 {
		t.Fatalf("expected 50%% negative, got %v", b.Negative)
	}
}

func TestComputeBreakdown_EmptyIsZeros(t *testing.T) {
	b := app.ComputeBreakdown(nil)
	if b.Positive != 0 || b.Neutral != 0 || b.Negative != 0 {
		t.Fatalf("expected zero breakdown, got %+v", b)
	}
	// and definitely not NaN
	if math.IsNaN(b.Positive) || math.IsNaN(b.Neutral) || math.IsNaN(b.Negative) {
		t.Fatalf("breakdown produced NaN: %+v", b)
	}
}

func TestSelectTrending_TopPerCategory(t *testing.T) {
	services := []domain.Service{
		svc(1, domain.CategoryLodging, 3.5),
		svc(2, domain.CategoryLodging, 4.8),
		svc(3, domain.CategoryRestaurant, 2.0),
		svc(4, domain.CategoryAirline, 0), // no rating -> treated as 0
		svc(5, domain.CategoryAirline, 1.0),
	}
	got := app.SelectTrending(services, domain.Categories())

	if len(got) != 3 {
		t.Fatalf("expected 3 entries (no rideshare present), got %d", len(got))
	}
	seen := map[domain.Category]bool{}
	for _, s := range got {
		if seen[s.Type] {
			t.Fatalf("duplicate category %s in trending", s.Type)
		}
		seen[s.Type] = true
	}
	if got[0].ID != 2 {
		t.Fatalf("expected lodging top to be id 2, got %d", got[0].ID)
	}
	if got[1].ID != 5 {
		t.Fatalf("expected airline top to be id 5, got %d", got[1].ID)
	}
}

func TestSelectTrending_TieKeepsCatalogOrder(t *testing.T) {
	services := []domain.Service{
		svc(7, domain.CategoryRestaurant, 4.0),
		svc(8, domain.CategoryRestaurant, 4.0),
	}
	got := app.SelectTrending(services, []domain.Category{domain.CategoryRestaurant})
	if len(got) != 1 || got[0].ID != 7 {
		t.Fatalf("expected first-encountered service 7 to win the tie, got %+v", got)
	}
}

func TestSelectTrending_NeverExceedsCategories(t *testing.T) {
	var services []domain.Service
	for i := int64(0); i < 40; i++ {
		services = append(services, svc(i, domain.CategoryLodging, float64(i)))
	}
	got := app.SelectTrending(services, domain.Categories())
	if len(got) != 1 {
		t.Fatalf("expected a single lodging entry, got %d", len(got))
	}
}

func TestOwnerStatistics_ZeroCommentsMeansZeroAverage(t *testing.T) {
	services := []domain.Service{
		svc(1, domain.CategoryLodging, 0),
		svc(2, domain.CategoryRestaurant, 0),
	}
	comments := []domain.Comment{
		comment(1, domain.RatingPositive),
		comment(1, domain.RatingNegative),
	}
	stats := app.OwnerStatistics(services, comments)

	if len(stats) != 2 {
		t.Fatalf("expected stats for both services, got %d", len(stats))
	}
	if stats[0].TotalComments != 2 || stats[0].TotalRating != 4 || stats[0].AverageRating != 2 {
		t.Fatalf("unexpected stats for service 1: %+v", stats[0])
	}
	if stats[1].TotalComments != 0 || stats[1].AverageRating != 0 {
		t.Fatalf("expected zero average for commentless service, got %+v", stats[1])
	}
	if math.IsNaN(stats[1].AverageRating) {
		t.Fatalf("average must not be NaN")
	}
}

func TestPages(t *testing.T) {
	if got := app.Pages(17, 8); got != 3 {
		t.Fatalf("17/8: expected 3 pages, got %d", got)
	}
	if got := app.Pages(16, 8); got != 2 {
		t.Fatalf("16/8: expected 2 pages, got %d", got)
	}
	if got := app.Pages(0, 8); got != 0 {
		t.Fatalf("0 items: expected 0 pages, got %d", got)
	}
	if got := app.Pages(5, 0); got != 0 {
		t.Fatalf("limit 0: expected 0 pages, got %d", got)
	}
}
