package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hqvjet/TourAI/internal/domain"
)

func newTestClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c, err := New(ts.URL, 5*time.Second, 1000)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c, ts
}

func TestListServices_RetriesThenSucceeds(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"services": []domain.Service{{ID: 1, Name: "Harbor Inn"}},
			"total":    17,
		})
	}))

	pg, err := c.ListServices(context.Background(), "", 1, 8)
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if pg.Total != 17 || len(pg.Items) != 1 {
		t.Fatalf("unexpected page: %+v", pg)
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestListServices_GivesUpAfterMaxAttempts(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.ListServices(context.Background(), "", 1, 8)
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Fatalf("expected catalog unavailable, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != maxAttempts {
		t.Fatalf("expected %d attempts, got %d", maxAttempts, got)
	}
}

func TestListServices_SendsCategoryParam(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{"services": []domain.Service{}, "total": 0})
	}))

	if _, err := c.ListServices(context.Background(), domain.CategoryAirline, 2, 8); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotQuery != "limit=8&page=2&type=airline" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
}

func TestSearchServices_OmitsEmptyCategory(t *testing.T) {
	var gotType []string
	var hasType bool
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType, hasType = r.URL.Query()["type"]
		json.NewEncoder(w).Encode(map[string]any{"services": []domain.Service{{ID: 3}}})
	}))

	out, err := c.SearchServices(context.Background(), "pier", "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if hasType {
		t.Fatalf("type param must be absent for the all-categories search, got %v", gotType)
	}
	if len(out) != 1 || out[0].ID != 3 {
		t.Fatalf("unexpected result: %+v", out)
	}

	if _, err := c.SearchServices(context.Background(), "pier", domain.CategoryRestaurant); err != nil {
		t.Fatalf("filtered search: %v", err)
	}
	if !hasType || len(gotType) != 1 || gotType[0] != "restaurant" {
		t.Fatalf("expected type=restaurant, got %v", gotType)
	}
}

func TestSearchServices_EmptyQueryReturnsFilteredSet(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{"services": []domain.Service{{ID: 4}, {ID: 5}}})
	}))

	// an empty query is a valid request for the whole category
	out, err := c.SearchServices(context.Background(), "", domain.CategoryRestaurant)
	if err != nil {
		t.Fatalf("empty-query search: %v", err)
	}
	if gotQuery != "search=&type=restaurant" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
	if len(out) != 2 {
		t.Fatalf("expected the category-filtered set, got %+v", out)
	}
}

func TestGetService_NotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := c.GetService(context.Background(), 42)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListComments_NotFoundMeansEmpty(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	out, err := c.ListComments(context.Background(), 42)
	if err != nil {
		t.Fatalf("expected empty list, got %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected non-nil empty slice, got %#v", out)
	}
}

func TestListOwnerServices_UnauthorizedWithoutSession(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode([]domain.Service{{ID: 1}})
	}))

	_, err := c.ListOwnerServices(context.Background(), 5)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	out, err := c.WithSession("session=abc").ListOwnerServices(context.Background(), 5)
	if err != nil {
		t.Fatalf("with session: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestCreateComment_SingleAttempt(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := c.CreateComment(context.Background(), domain.NewComment{ServiceID: 1, UserID: 2, Rating: domain.RatingPositive})
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Fatalf("expected catalog unavailable, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("writes must never retry, got %d attempts", got)
	}
}

func TestCreateComment_RoundTrip(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/comment/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var nc domain.NewComment
		if err := json.NewDecoder(r.Body).Decode(&nc); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Comment{
			ServiceID: nc.ServiceID, UserID: nc.UserID,
			Title: nc.Title, Content: nc.Content, Rating: nc.Rating,
		})
	}))

	out, err := c.WithSession("session=abc").CreateComment(context.Background(), domain.NewComment{
		Title: "great", Content: "stay", Rating: domain.RatingPositive, ServiceID: 7, UserID: 2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.ServiceID != 7 || out.Rating != domain.RatingPositive {
		t.Fatalf("unexpected comment: %+v", out)
	}
}

func TestMe_ForwardsCookie(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") != "session=abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(domain.Session{UserID: 5, FullName: "Pat", Role: domain.RoleBusiness})
	}))

	s, err := c.WithSession("session=abc").Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if s.UserID != 5 || s.Role != domain.RoleBusiness {
		t.Fatalf("unexpected session: %+v", s)
	}

	if _, err := c.Me(context.Background()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("anonymous me must be unauthorized, got %v", err)
	}
}

func TestRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	if got := retryAfter(resp); got != 0 {
		t.Fatalf("absent header: expected 0, got %v", got)
	}
	resp.Header.Set("Retry-After", "2")
	if got := retryAfter(resp); got != 2*time.Second {
		t.Fatalf("seconds form: expected 2s, got %v", got)
	}
	resp.Header.Set("Retry-After", "soon")
	if got := retryAfter(resp); got != 0 {
		t.Fatalf("garbage header: expected 0, got %v", got)
	}
}
