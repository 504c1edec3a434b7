package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hqvjet/TourAI/internal/app"
	"github.com/hqvjet/TourAI/internal/domain"
)

// SessionCatalog hands out catalog clients scoped to a caller's session
// cookie.
type SessionCatalog interface {
	ForSession(cookie string) domain.CatalogClient
}

type Handlers struct {
	Q          *app.QueryService
	Catalog    SessionCatalog
	Classifier domain.Classifier
	Feeds      *app.FeedSet
	PageLimit  int
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/trending", h.trending)
	s.mux.Get("/v1/services", h.listServices)
	s.mux.Get("/v1/services/search", h.searchServices)
	s.mux.Get("/v1/services/{id}", h.serviceDetail)
	s.mux.Get("/v1/owner/services", h.ownerServices)
	s.mux.Get("/v1/owner/dashboard", h.ownerDashboard)
	s.mux.Get("/v1/owner/statistics", h.ownerStatistics)
	s.mux.Post("/v1/reviews", h.submitReview)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeETagJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "response could not be encoded")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// queryInt parses a positive integer query param, falling back to def.
func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// queryCategory reads the optional type filter. "" and "all" both mean
// unfiltered; anything else must parse as a known category.
func queryCategory(r *http.Request) (domain.Category, bool) {
	v := r.URL.Query().Get("type")
	if v == "" || v == "all" {
		return "", true
	}
	c, err := domain.ParseCategory(v)
	if err != nil {
		return "", false
	}
	return c, true
}

// session resolves the caller's session once and returns a catalog client
// bound to it.
func (h *Handlers) session(r *http.Request) (domain.Session, domain.CatalogClient, error) {
	cc := h.Catalog.ForSession(r.Header.Get("Cookie"))
	s, err := cc.Me(r.Context())
	return s, cc, err
}

// ---- public read surfaces ----

func (h *Handlers) trending(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)
	items, err := h.Q.Trending(r.Context(), page, limit)
	if err != nil {
		// catalog down: degrade to an empty trending list, never a crash
		log.Warn().Err(err).Msg("trending fetch failed")
		items = []domain.Service{}
	}
	writeETagJSON(w, r, struct {
		Services []domain.Service `json:"services"`
	}{Services: items})
}

func (h *Handlers) listServices(w http.ResponseWriter, r *http.Request) {
	cat, ok := queryCategory(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid type", "unknown service category")
		return
	}
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", h.PageLimit)
	if limit > 100 {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be between 1 and 100")
		return
	}

	pg, pages, err := h.Q.ListServices(r.Context(), cat, page, limit)
	if err != nil {
		log.Warn().Err(err).Str("type", string(cat)).Msg("service listing failed")
		pg = domain.ServicesPage{Items: []domain.Service{}}
		pages = 0
	}
	writeETagJSON(w, r, struct {
		Services []domain.Service `json:"services"`
		Total    int              `json:"total"`
		Pages    int              `json:"pages"`
	}{Services: pg.Items, Total: pg.Total, Pages: pages})
}

func (h *Handlers) searchServices(w http.ResponseWriter, r *http.Request) {
	cat, ok := queryCategory(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid type", "unknown service category")
		return
	}
	items, err := h.Q.SearchServices(r.Context(), r.URL.Query().Get("q"), cat)
	if err != nil {
		log.Warn().Err(err).Msg("service search failed")
		items = []domain.Service{}
	}
	writeETagJSON(w, r, struct {
		Services []domain.Service `json:"services"`
	}{Services: items})
}

func (h *Handlers) serviceDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}

	var (
		svc       domain.Service
		comments  []domain.Comment
		breakdown domain.Breakdown
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var gerr error
		svc, gerr = h.Q.Service(gctx, id)
		return gerr
	})
	g.Go(func() error {
		var gerr error
		comments, breakdown, gerr = h.Feeds.For(id).Refresh(gctx)
		return gerr
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "service not found")
			return
		}
		writeProblem(w, http.StatusBadGateway, "Catalog Unavailable", "service detail could not be loaded")
		return
	}
	writeETagJSON(w, r, struct {
		Service   domain.Service   `json:"service"`
		Comments  []domain.Comment `json:"comments"`
		Breakdown domain.Breakdown `json:"breakdown"`
	}{Service: svc, Comments: comments, Breakdown: breakdown})
}

// ---- owner surfaces (session required) ----

func (h *Handlers) ownerServices(w http.ResponseWriter, r *http.Request) {
	session, cc, err := h.session(r)
	if err != nil {
		h.ownerError(w, r, err)
		return
	}
	services, err := app.NewOwnerView(cc).Services(r.Context(), session.UserID)
	if err != nil {
		h.ownerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Services []domain.Service `json:"services"`
	}{Services: services})
}

func (h *Handlers) ownerDashboard(w http.ResponseWriter, r *http.Request) {
	session, cc, err := h.session(r)
	if err != nil {
		h.ownerError(w, r, err)
		return
	}
	dash, err := app.NewOwnerView(cc).Dashboard(r.Context(), session)
	if err != nil {
		h.ownerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (h *Handlers) ownerStatistics(w http.ResponseWriter, r *http.Request) {
	session, cc, err := h.session(r)
	if err != nil {
		h.ownerError(w, r, err)
		return
	}
	stats, err := app.NewOwnerView(cc).Statistics(r.Context(), session)
	if err != nil {
		h.ownerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Statistics []domain.OwnerStat `json:"statistics"`
	}{Statistics: stats})
}

// ownerError sends expired sessions back to the login surface; anything else
// degrades to a problem response.
func (h *Handlers) ownerError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrUnauthorized) {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	log.Warn().Err(err).Str("route", r.URL.Path).Msg("owner surface load failed")
	writeProblem(w, http.StatusBadGateway, "Catalog Unavailable", "data could not be loaded")
}

// ---- review submission ----

type reviewRequest struct {
	ServiceID int64  `json:"service_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

func (h *Handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "malformed review payload")
		return
	}
	if req.ServiceID == 0 || req.Content == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "service_id and content are required")
		return
	}

	session, cc, err := h.session(r)
	if err != nil {
		h.ownerError(w, r, err)
		return
	}

	// A fresh pipeline per request: an HTTP submission is single-shot by
	// nature, so the in-flight guard only comes into play for embedded
	// callers that hold one pipeline across submissions.
	pipeline := app.NewReviewPipeline(h.Classifier, h.Q)
	res, err := pipeline.Submit(r.Context(), cc, app.Submission{
		ServiceID: req.ServiceID,
		UserID:    session.UserID,
		Title:     req.Title,
		Content:   req.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrClassifierUnavailable):
			writeProblem(w, http.StatusBadGateway, "Review submission failed", "sentiment service unavailable, please try again")
		case errors.Is(err, domain.ErrUnauthorized):
			http.Redirect(w, r, "/login", http.StatusFound)
		default:
			writeProblem(w, http.StatusBadGateway, "Review submission failed", "review could not be saved, please try again")
		}
		return
	}

	// keep the shared detail view state in step with the new comment; the
	// pipeline already holds the refetched list, so seed rather than refetch
	if res.Comments != nil {
		h.Feeds.For(req.ServiceID).Seed(res.Comments)
	} else if _, _, ferr := h.Feeds.For(req.ServiceID).Refresh(r.Context()); ferr != nil {
		log.Warn().Err(ferr).Int64("service_id", req.ServiceID).Msg("feed refresh after review failed")
	}
	writeJSON(w, http.StatusCreated, res)
}
