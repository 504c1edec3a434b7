package app

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/hqvjet/TourAI/internal/domain"
)

// SubmitState tracks one review submission: Idle -> Submitting ->
// Succeeded|Failed. Submitting is exited exactly once; there is no automatic
// retry, a failed submission is retried only by a fresh user action.
type SubmitState int

const (
	StateIdle SubmitState = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

// ErrSubmissionInFlight rejects a second Submit while the first one has not
// settled.
var ErrSubmissionInFlight = errors.New("review submission already in flight")

// Submission is one user review before classification.
type Submission struct {
	ServiceID int64
	UserID    int64
	Title     string
	Content   string
}

// SubmitResult carries the persisted comment and the refreshed aggregate
// state of its service.
type SubmitResult struct {
	Comment   domain.Comment   `json:"comment"`
	Comments  []domain.Comment `json:"comments"`
	Breakdown domain.Breakdown `json:"breakdown"`
}

// ReviewPipeline coordinates the three external effects of one review
// submission: classify, map to a rating, persist. On success it re-fetches
// the service's comments and recomputes the sentiment breakdown.
type ReviewPipeline struct {
	classifier domain.Classifier
	queries    *QueryService

	mu    sync.Mutex
	state SubmitState
}

func NewReviewPipeline(cl domain.Classifier, q *QueryService) *ReviewPipeline {
	return &ReviewPipeline{classifier: cl, queries: q, state: StateIdle}
}

func (p *ReviewPipeline) State() SubmitState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Submit runs the pipeline once. The catalog client passed in carries the
// submitting user's session. Classifier failure and persist failure both
// settle the submission as Failed; no comment exists in either case, so
// there is nothing to roll back.
func (p *ReviewPipeline) Submit(ctx context.Context, cc domain.CatalogClient, sub Submission) (SubmitResult, error) {
	p.mu.Lock()
	if p.state == StateSubmitting {
		p.mu.Unlock()
		return SubmitResult{}, ErrSubmissionInFlight
	}
	p.state = StateSubmitting
	p.mu.Unlock()

	res, err := p.run(ctx, cc, sub)

	p.mu.Lock()
	if err != nil {
		p.state = StateFailed
	} else {
		p.state = StateSucceeded
	}
	p.mu.Unlock()
	return res, err
}

func (p *ReviewPipeline) run(ctx context.Context, cc domain.CatalogClient, sub Submission) (SubmitResult, error) {
	scores, err := p.classifier.Predict(ctx, sub.Title, sub.Content)
	if err != nil {
		return SubmitResult{}, err
	}
	rating := scores.Rating()

	created, err := cc.CreateComment(ctx, domain.NewComment{
		Title:     sub.Title,
		Content:   sub.Content,
		Rating:    rating,
		ServiceID: sub.ServiceID,
		UserID:    sub.UserID,
	})
	if err != nil {
		return SubmitResult{}, err
	}

	// The comment is persisted at this point. The refresh below is derived
	// state only; its failure must not turn a stored review into an error.
	p.queries.InvalidateComments(ctx, sub.ServiceID)
	comments, err := p.queries.Comments(ctx, sub.ServiceID)
	if err != nil {
		log.Warn().Int64("service_id", sub.ServiceID).Err(err).
			Msg("comment refresh after submit failed")
		return SubmitResult{Comment: created}, nil
	}
	return SubmitResult{
		Comment:   created,
		Comments:  comments,
		Breakdown: ComputeBreakdown(comments),
	}, nil
}
