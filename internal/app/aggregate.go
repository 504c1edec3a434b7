package app

import (
	"sort"

	"github.com/hqvjet/TourAI/internal/domain"
)

// SelectTrending picks, for each category in the given fixed order, the
// service with the highest catalog-supplied average rating within the
// supplied page (a missing rating counts as 0). The sort is stable, so ties
// keep catalog return order and the first element encountered wins.
//
// This is a single-page approximation of "top by category", bounded by
// whatever page the caller fetched; it is intentionally not a server-side
// top-N query.
func SelectTrending(services []domain.Service, categories []domain.Category) []domain.Service {
	out := make([]domain.Service, 0, len(categories))
	for _, cat := range categories {
		var matched []domain.Service
		for _, s := range services {
			if s.Type == cat {
				matched = append(matched, s)
			}
		}
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Rating() > matched[j].Rating()
		})
		if len(matched) > 0 {
			out = append(out, matched[0])
		}
	}
	return out
}

// OwnerStatistics derives per-service comment counts, rating sums and
// averages. A service with no comments averages 0, never NaN.
func OwnerStatistics(services []domain.Service, comments []domain.Comment) []domain.OwnerStat {
	out := make([]domain.OwnerStat, 0, len(services))
	for _, svc := range services {
		st := domain.OwnerStat{Service: svc}
		for _, c := range comments {
			if c.ServiceID != svc.ID {
				continue
			}
			st.TotalComments++
			st.TotalRating += int(c.Rating)
		}
		if st.TotalComments > 0 {
			st.AverageRating = float64(st.TotalRating) / float64(st.TotalComments)
		}
		out = append(out, st)
	}
	return out
}

// ComputeBreakdown turns a single service's comment list into percentage
// ratios per sentiment bucket. An empty list yields all zeros; the divisions
// are guarded so no NaN ever reaches a caller.
func ComputeBreakdown(comments []domain.Comment) domain.Breakdown {
	total := len(comments)
	if total == 0 {
		return domain.Breakdown{}
	}
	var pos, neu, neg int
	for _, c := range comments {
		switch c.Rating {
		case domain.RatingPositive:
			pos++
		case domain.RatingNeutral:
			neu++
		case domain.RatingNegative:
			neg++
		}
	}
	return domain.Breakdown{
		Positive: 100 * float64(pos) / float64(total),
		Neutral:  100 * float64(neu) / float64(total),
		Negative: 100 * float64(neg) / float64(total),
	}
}

// Pages computes the page count for a paginated listing (ceil division).
func Pages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
