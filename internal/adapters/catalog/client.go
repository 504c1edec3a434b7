package catalog

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hqvjet/TourAI/internal/adapters/observability"
	"github.com/hqvjet/TourAI/internal/domain"
)

// Client talks to the external service catalog. All calls share one timeout
// ceiling and a client-side rate limiter; GETs retry transient failures,
// writes are single-shot.
type Client struct {
	base   string
	hc     *http.Client
	rl     *rate.Limiter
	cookie string
}

func New(base string, timeout time.Duration, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("catalog base URL is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// WithSession returns a copy of the client that forwards the given Cookie
// header on every call. The zero cookie means an anonymous client.
func (c *Client) WithSession(cookie string) *Client {
	cp := *c
	cp.cookie = cookie
	return &cp
}

// ForSession adapts WithSession to the port type used by callers that only
// know the domain interface.
func (c *Client) ForSession(cookie string) domain.CatalogClient {
	return c.WithSession(cookie)
}

// ---- Service Query Client ----

func (c *Client) ListServices(ctx context.Context, category domain.Category, page, limit int) (domain.ServicesPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if category != "" {
		q.Set("type", string(category))
	}
	var out domain.ServicesPage
	if err := c.get(ctx, "/service", q, &out); err != nil {
		return domain.ServicesPage{}, err
	}
	return out, nil
}

// SearchServices queries the catalog's full-text search. The type parameter
// is omitted whenever category is empty; an empty query is valid and returns
// the category-filtered set.
func (c *Client) SearchServices(ctx context.Context, query string, category domain.Category) ([]domain.Service, error) {
	q := url.Values{}
	q.Set("search", query)
	if category != "" {
		q.Set("type", string(category))
	}
	var out struct {
		Services []domain.Service `json:"services"`
	}
	if err := c.get(ctx, "/service/", q, &out); err != nil {
		return nil, err
	}
	return out.Services, nil
}

func (c *Client) GetService(ctx context.Context, id int64) (domain.Service, error) {
	var out domain.Service
	if err := c.get(ctx, fmt.Sprintf("/service/%d", id), nil, &out); err != nil {
		return domain.Service{}, err
	}
	return out, nil
}

func (c *Client) ListOwnerServices(ctx context.Context, ownerID int64) ([]domain.Service, error) {
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(ownerID, 10))
	var out []domain.Service
	if err := c.get(ctx, "/service/my_services", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- Comments ----

// ListComments returns the comments for one service. The catalog responds
// 404 when a service has no comments yet; that maps to an empty list here.
func (c *Client) ListComments(ctx context.Context, serviceID int64) ([]domain.Comment, error) {
	var out []domain.Comment
	err := c.get(ctx, fmt.Sprintf("/comment/%d", serviceID), nil, &out)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.Comment{}, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListBusinessComments(ctx context.Context, userID int64, f domain.CommentFilters) ([]domain.Comment, error) {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if f.MinRating != nil {
		q.Set("min_rating", strconv.Itoa(*f.MinRating))
	}
	if f.MaxRating != nil {
		q.Set("max_rating", strconv.Itoa(*f.MaxRating))
	}
	if f.SortBy != "" {
		q.Set("sort_by", f.SortBy)
	}
	var out []domain.Comment
	if err := c.get(ctx, fmt.Sprintf("/comment/business/%d", userID), q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateComment persists a new review. Exactly one attempt: a submission is
// never retried automatically, the user re-submits on failure.
func (c *Client) CreateComment(ctx context.Context, nc domain.NewComment) (domain.Comment, error) {
	body, err := json.Marshal(nc)
	if err != nil {
		return domain.Comment{}, err
	}
	var out domain.Comment
	if err := c.post(ctx, "/comment/", body, &out); err != nil {
		return domain.Comment{}, err
	}
	return out, nil
}

// ---- Session ----

func (c *Client) Me(ctx context.Context) (domain.Session, error) {
	var out domain.Session
	if err := c.get(ctx, "/auth/me", nil, &out); err != nil {
		return domain.Session{}, err
	}
	return out, nil
}

// ---- Internals ----

const maxAttempts = 4

// get performs a GET with client-side rate limiting, retries on 429 and
// transient 5xx honoring Retry-After, and decodes JSON into out.
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	start := time.Now()
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		c.setHeaders(req)

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			observability.ObserveExternal("catalog", path, 0, time.Since(start))
			return lastErr
		}

		done, err := c.consume(resp, out)
		if done {
			observability.ObserveExternal("catalog", path, resp.StatusCode, time.Since(start))
			return err
		}
		// retryable status
		wait := retryAfter(resp)
		if wait == 0 {
			wait = backoff(i)
		}
		lastErr = err
		if i < maxAttempts-1 && sleepCtx(ctx, wait) {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		observability.ObserveExternal("catalog", path, resp.StatusCode, time.Since(start))
		return lastErr
	}
	return lastErr
}

// post performs a single-attempt JSON POST. No retries: write endpoints are
// not idempotent and the review pipeline requires exactly one attempt.
func (c *Client) post(ctx context.Context, path string, body []byte, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		observability.ObserveExternal("catalog", path, 0, time.Since(start))
		return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	observability.ObserveExternal("catalog", path, resp.StatusCode, time.Since(start))

	done, err := c.consume(resp, out)
	if done {
		return err
	}
	// 429/5xx on a write is still a hard failure here
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return fmt.Errorf("%w: remote %d", domain.ErrCatalogUnavailable, resp.StatusCode)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tourai/1.0")
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}
}

// consume closes the body and reports whether the response is terminal.
// Non-terminal (retryable) statuses return done=false with a wrapped error.
func (c *Client) consume(resp *http.Response, out any) (bool, error) {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		err := json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return true, fmt.Errorf("%w: decode: %v", domain.ErrCatalogUnavailable, err)
		}
		return true, nil

	case http.StatusNoContent:
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return true, nil

	case http.StatusNotFound:
		resp.Body.Close()
		return true, domain.ErrNotFound

	case http.StatusUnauthorized, http.StatusForbidden:
		resp.Body.Close()
		return true, domain.ErrUnauthorized

	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return false, fmt.Errorf("%w: remote %d", domain.ErrCatalogUnavailable, resp.StatusCode)

	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return true, fmt.Errorf("%w: status %d: %s", domain.ErrCatalogUnavailable, resp.StatusCode, strings.TrimSpace(string(b)))
	}
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with concurrency-safe jitter.
// i = retry attempt (0,1,2,...). Base doubles each attempt (200ms, 400ms, 800ms...),
// with up to +50% random jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
