package app

import (
	"context"
	"sync"

	"github.com/hqvjet/TourAI/internal/domain"
)

// FetchComments loads the current comment list of one service.
type FetchComments func(ctx context.Context, serviceID int64) ([]domain.Comment, error)

// CommentFeed owns the fetched-and-derived comment state of one service.
// Refreshes are tagged with a generation counter so that a slow response
// can never overwrite the state of a newer refresh (the stale-overwrite race
// of rapid re-fetching).
type CommentFeed struct {
	serviceID int64
	fetch     FetchComments

	mu        sync.Mutex
	gen       uint64
	comments  []domain.Comment
	breakdown domain.Breakdown
}

func NewCommentFeed(serviceID int64, fetch FetchComments) *CommentFeed {
	return &CommentFeed{serviceID: serviceID, fetch: fetch}
}

// Refresh fetches the comment list and recomputes the breakdown. If another
// Refresh started while this one was in flight, the late response is
// discarded and the current state is returned instead.
func (f *CommentFeed) Refresh(ctx context.Context) ([]domain.Comment, domain.Breakdown, error) {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.mu.Unlock()

	comments, err := f.fetch(ctx, f.serviceID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		// a newer refresh superseded this one
		return f.comments, f.breakdown, nil
	}
	if err != nil {
		return nil, domain.Breakdown{}, err
	}
	f.comments = comments
	f.breakdown = ComputeBreakdown(comments)
	return f.comments, f.breakdown, nil
}

// Seed applies an already-fetched comment list as the newest state without
// another fetch. It bumps the generation, so any refresh still in flight is
// discarded when it lands.
func (f *CommentFeed) Seed(comments []domain.Comment) ([]domain.Comment, domain.Breakdown) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	f.comments = comments
	f.breakdown = ComputeBreakdown(comments)
	return f.comments, f.breakdown
}

// Snapshot returns the last applied state without fetching.
func (f *CommentFeed) Snapshot() ([]domain.Comment, domain.Breakdown) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.comments, f.breakdown
}

// FeedSet hands out one CommentFeed per service so concurrent viewers of the
// same detail surface share a single derived state.
type FeedSet struct {
	fetch FetchComments

	mu    sync.Mutex
	feeds map[int64]*CommentFeed
}

func NewFeedSet(fetch FetchComments) *FeedSet {
	return &FeedSet{fetch: fetch, feeds: make(map[int64]*CommentFeed)}
}

func (s *FeedSet) For(serviceID int64) *CommentFeed {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.feeds[serviceID]
	if !ok {
		f = NewCommentFeed(serviceID, s.fetch)
		s.feeds[serviceID] = f
	}
	return f
}
