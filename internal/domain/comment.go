package domain

import "time"

// Rating is the ordinal sentiment class attached to a comment.
type Rating int

const (
	RatingNegative Rating = 1
	RatingNeutral  Rating = 2
	RatingPositive Rating = 3
)

func (r Rating) Valid() bool { return r >= RatingNegative && r <= RatingPositive }

// Comment is a persisted review. Immutable once created.
type Comment struct {
	ServiceID int64      `json:"service_id"`
	UserID    int64      `json:"users_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Rating    Rating     `json:"rating"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	FullName  *string    `json:"full_name,omitempty"` // denormalized author name
}

// NewComment is the creation payload for the catalog's comment endpoint.
type NewComment struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Rating    Rating `json:"rating"`
	ServiceID int64  `json:"service_id"`
	UserID    int64  `json:"users_id"`
}

// Scores is the classifier output, ordered negative, neutral, positive.
type Scores [3]float64

// Rating maps the class scores to a rating by arg-max. The tuple is scanned
// in its fixed order and a later score must be strictly greater to displace
// the current maximum: negative wins ties with neutral, neutral wins ties
// with positive.
func (s Scores) Rating() Rating {
	best, max := RatingNegative, s[0]
	if s[1] > max {
		best, max = RatingNeutral, s[1]
	}
	if s[2] > max {
		best = RatingPositive
	}
	return best
}

// Breakdown is the percentage distribution of ratings for one service's
// comments. Fields are 0-100 and need not sum to exactly 100.
type Breakdown struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// OwnerStat is the per-service statistics row shown on owner surfaces.
type OwnerStat struct {
	Service       Service `json:"service"`
	TotalComments int     `json:"total_comments"`
	TotalRating   int     `json:"total_rating"`
	AverageRating float64 `json:"average_rating"`
}
