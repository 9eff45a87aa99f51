// Package v1 implements the native REST API.
package v1

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/vversio/cinegrid/internal/query"
	"github.com/vversio/cinegrid/internal/tmdb"
	"github.com/vversio/cinegrid/internal/watchlog"
)

// Config holds API server configuration.
type Config struct {
	Version  string
	AdminKey string           // empty disables changes
	Now      func() time.Time // defaults to time.Now
}

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
	cfg  Config
}

// New creates a new v1 API server.
func New(deps ServerDeps, cfg Config) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingDependency, err)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &Server{deps: deps, cfg: cfg}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Watch log
	mux.HandleFunc("GET /api/v1/items", s.listItems)
	mux.HandleFunc("GET /api/v1/items/{id}", s.getItem)
	mux.HandleFunc("POST /api/v1/items", s.requireAdmin(s.addItem))
	mux.HandleFunc("DELETE /api/v1/items/{id}", s.requireAdmin(s.deleteItem))
	mux.HandleFunc("POST /api/v1/items/{id}/favorite", s.requireAdmin(s.toggleFavorite))
	mux.HandleFunc("PUT /api/v1/items/{id}/rating", s.requireAdmin(s.updateRating))
	mux.HandleFunc("GET /api/v1/favorites", s.listFavorites)

	// Analytics
	mux.HandleFunc("GET /api/v1/genres", s.listGenres)
	mux.HandleFunc("GET /api/v1/stats", s.getStats)
	mux.HandleFunc("GET /api/v1/stats/genres", s.getGenreStats)
	mux.HandleFunc("GET /api/v1/stats/trends", s.getTrends)

	// TMDB proxy
	mux.HandleFunc("GET /api/v1/tmdb/search", s.requireMetadata(s.searchTMDB))
	mux.HandleFunc("GET /api/v1/tmdb/{id}", s.requireMetadata(s.tmdbDetails))

	// System
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	writeJSON(w, code, errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// writeStoreError maps watch log errors to responses.
func writeStoreError(w http.ResponseWriter, err error) {
	var verr *watchlog.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", verr.Error())
	case errors.Is(err, watchlog.ErrInvalidRating):
		writeError(w, http.StatusBadRequest, "INVALID_RATING", err.Error())
	case errors.Is(err, watchlog.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Item not found")
	case errors.Is(err, watchlog.ErrDuplicate):
		writeError(w, http.StatusConflict, "DUPLICATE", err.Error())
	case errors.Is(err, watchlog.ErrConstraint):
		writeError(w, http.StatusBadRequest, "CONSTRAINT", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
	}
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	f, err := query.ParseFilterState(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}

	items, err := s.deps.Items.List()
	if err != nil {
		writeStoreError(w, err)
		return
	}

	filtered := query.ApplyFilters(items, f)
	writeJSON(w, http.StatusOK, listItemsResponse{
		Items: itemsToResponse(filtered),
		Total: len(filtered),
	})
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	it, err := s.deps.Items.Get(r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemToResponse(it))
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	it := req.toItem()
	if err := s.deps.Items.Add(it); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, itemToResponse(it))
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Items.Delete(r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	fav, err := s.deps.Items.ToggleFavorite(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteResponse{ID: id, IsFavorite: fav})
}

func (s *Server) updateRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	it, err := s.deps.Items.UpdateRating(r.PathValue("id"), req.Rating)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemToResponse(it))
}

func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request) {
	items, err := s.deps.Items.Favorites()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listItemsResponse{
		Items: itemsToResponse(items),
		Total: len(items),
	})
}

func (s *Server) listGenres(w http.ResponseWriter, r *http.Request) {
	items, err := s.deps.Items.List()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, genresResponse{Genres: query.UniqueGenres(items)})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	items, err := s.deps.Items.List()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsToResponse(query.QuickStats(items)))
}

func (s *Server) getGenreStats(w http.ResponseWriter, r *http.Request) {
	items, err := s.deps.Items.List()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	stats := query.GenreStats(items)
	resp := make([]genreCountResponse, len(stats))
	for i, gc := range stats {
		resp[i] = genreCountResponse{Genre: gc.Genre, Count: gc.Count}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getTrends(w http.ResponseWriter, r *http.Request) {
	rng := r.URL.Query().Get("range")
	var start *time.Time
	switch rng {
	case "", "all":
		rng = "all"
	case "year":
		t := query.ThisYearStart(s.cfg.Now().UTC())
		start = &t
	default:
		writeError(w, http.StatusBadRequest, "INVALID_RANGE", fmt.Sprintf("range must be all or year, got %q", rng))
		return
	}

	items, err := s.deps.Items.List()
	if err != nil {
		writeStoreError(w, err)
		return
	}

	points := query.AggregateByGenreAndMonth(items, start)
	resp := trendsResponse{
		Range:  rng,
		Genres: query.TopGenres(items, queryInt(r, "top", query.DefaultTopGenres)),
		Points: make([]map[string]any, len(points)),
	}
	for i, p := range points {
		resp.Points[i] = trendPointToMap(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) searchTMDB(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("query"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "MISSING_QUERY", "Query parameter is required")
		return
	}
	mt, ok := tmdb.ParseMediaType(r.URL.Query().Get("type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_TYPE", "type must be movie or series")
		return
	}

	resp, err := s.deps.Metadata.Search(r.Context(), q, mt)
	if err != nil {
		s.writeMetadataError(w, err)
		return
	}
	s.setRateLimitHeader(w)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) tmdbDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "ID must be a positive integer")
		return
	}
	mt, ok := tmdb.ParseMediaType(r.URL.Query().Get("type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_TYPE", "type must be movie or series")
		return
	}

	d, err := s.deps.Metadata.Details(r.Context(), id, mt)
	if err != nil {
		s.writeMetadataError(w, err)
		return
	}
	s.setRateLimitHeader(w)
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) setRateLimitHeader(w http.ResponseWriter) {
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(s.deps.Metadata.Status().Remaining))
}

// writeMetadataError maps TMDB proxy errors to responses.
// A limiter refusal is retryable and carries the suggested wait.
func (s *Server) writeMetadataError(w http.ResponseWriter, err error) {
	var rle *tmdb.RateLimitError
	switch {
	case errors.As(err, &rle):
		secs := int(math.Ceil(rle.RetryAfter.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		writeJSON(w, http.StatusTooManyRequests, rateLimitedResponse{
			Error:      "Rate limit exceeded. Please try again.",
			Code:       "RATE_LIMITED",
			RetryAfter: rle.RetryAfter.Milliseconds(),
		})
	case errors.Is(err, tmdb.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found")
	case errors.Is(err, tmdb.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "TMDB_UNAVAILABLE", err.Error())
	default:
		writeError(w, http.StatusBadGateway, "TMDB_ERROR", "Failed to fetch from TMDB")
	}
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	n, err := s.deps.Items.Count()
	if err != nil {
		writeStoreError(w, err)
		return
	}

	resp := statusResponse{
		Status:  "ok",
		Version: s.cfg.Version,
		Items:   n,
		TMDB:    s.deps.Metadata != nil,
	}
	if s.deps.Metadata != nil {
		st := s.deps.Metadata.Status()
		resp.RateLimit = &rateLimitResponse{Remaining: st.Remaining, ResetInMs: st.ResetInMs()}
	}
	writeJSON(w, http.StatusOK, resp)
}
