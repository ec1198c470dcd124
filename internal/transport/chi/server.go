// Package chi exposes the search, document, and history services over
// HTTP. Routes are registered by hand on a chi router; request parsing
// and domain-error mapping live here and nowhere else.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/midori-cloud/kensaku/internal/domain"
	"github.com/midori-cloud/kensaku/internal/domain/search/filter"
	"github.com/midori-cloud/kensaku/internal/domain/search/mode"
	"github.com/midori-cloud/kensaku/internal/domain/search/request"
	"github.com/midori-cloud/kensaku/internal/domain/search/result"
	"github.com/midori-cloud/kensaku/internal/usecase/document"
	"github.com/midori-cloud/kensaku/internal/usecase/export"
	historyuc "github.com/midori-cloud/kensaku/internal/usecase/history"
	searchuc "github.com/midori-cloud/kensaku/internal/usecase/search"
	"github.com/midori-cloud/kensaku/internal/version"
)

const maxBatchSize = 1000

// userHeader carries the requesting username for history attribution.
const userHeader = "X-User"

// Error codes returned in JSON error bodies.
const (
	codeBadRequest        = "bad_request"
	codeValidationFailed  = "validation_failed"
	codeEmptyQuery        = "empty_query"
	codeInvalidFilter     = "invalid_filter"
	codeUnknownPrefecture = "unknown_prefecture"
	codeNotFound          = "not_found"
	codeIndexUnavailable  = "index_unavailable"
	codeInternalError     = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the use case services to HTTP handlers.
type Server struct {
	search        *searchuc.Service
	documents     *document.Service
	history       *historyuc.Service
	statuses      []string
	limits        Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// Limits bounds search page sizes, from configuration. Zero values
// fall back to the request package defaults.
type Limits struct {
	Default int
	Max     int
}

// NewServer creates an HTTP API server. statuses is the set of known
// customer statuses accepted in the cust_status filter.
func NewServer(
	search *searchuc.Service,
	documents *document.Service,
	history *historyuc.Service,
	statuses []string,
	limits Limits,
	logger *zap.Logger,
) *Server {
	if limits.Default <= 0 {
		limits.Default = request.DefaultLimit
	}
	if limits.Max <= 0 {
		limits.Max = request.MaxLimit
	}
	s := &Server{
		search:    search,
		documents: documents,
		history:   history,
		statuses:  statuses,
		limits:    limits,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, codeEmptyQuery),
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, codeInvalidFilter),
		sentinelHandler(domain.ErrDocumentInvalid, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrUnknownPrefecture, http.StatusNotFound, codeUnknownPrefecture),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, codeIndexUnavailable),
	}
	return s
}

// Register mounts all routes on r. Middleware is the caller's concern.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.SearchCompanies)
		r.Get("/search/export.csv", s.ExportCSV)

		r.Post("/documents", s.AddDocument)
		r.Post("/documents/batch", s.AddDocumentBatch)
		r.Delete("/documents/{prefecture}/{id}", s.RemoveDocument)

		r.Post("/indexes/{prefecture}/clear", s.ClearIndex)
		r.Post("/indexes/{prefecture}/optimize", s.OptimizeIndex)

		r.Get("/history", s.GetHistory)
		r.Get("/rankings", s.GetRankings)
		r.Get("/stats", s.GetStats)
	})
}

// searchResponse adds the elapsed time, which the result type keeps out
// of its own JSON form so cached entries stay timing-free.
type searchResponse struct {
	result.Response
	ElapsedMS int64 `json:"elapsed_ms"`
}

// SearchCompanies handles GET /api/search.
func (s *Server) SearchCompanies(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseSearchRequest(r, 0)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Response:  resp,
		ElapsedMS: resp.Elapsed.Milliseconds(),
	})
}

// ExportCSV handles GET /api/search/export.csv. The same query
// parameters apply; the limit is raised to the maximum so the export
// covers the full result set.
func (s *Server) ExportCSV(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseSearchRequest(r, s.limits.Max)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="search_results.csv"`)
	if err := export.WriteCSV(w, resp.Companies); err != nil {
		// Headers are gone; all we can do is log.
		s.logger.Error("csv export write failed", zap.Error(err))
	}
}

func (s *Server) parseSearchRequest(r *http.Request, limitOverride int) (*request.Request, error) {
	q := r.URL.Query()

	f, err := filter.New(q.Get("city"), q.Get("cust_status"), s.statuses)
	if err != nil {
		return nil, err
	}

	match, err := mode.ParseOption(q.Get("search_option"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidFilter, err)
	}
	fields, err := mode.ParseFieldOption(q.Get("type"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidFilter, err)
	}

	limit := limitOverride
	if limit == 0 {
		if raw := q.Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil || limit <= 0 {
				return nil, fmt.Errorf("%w: limit must be a positive integer", domain.ErrInvalidFilter)
			}
		} else {
			limit = s.limits.Default
		}
	}
	if limit > s.limits.Max {
		limit = s.limits.Max
	}

	req, err := request.New(
		q.Get("q"), q.Get("prefecture"), f, match, fields, limit,
		r.Header.Get(userHeader),
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

type addDocumentRequest struct {
	Prefecture string          `json:"prefecture"`
	Document   domain.Document `json:"document"`
}

// AddDocument handles POST /api/documents.
func (s *Server) AddDocument(w http.ResponseWriter, r *http.Request) {
	var req addDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := s.documents.Add(r.Context(), req.Prefecture, req.Document); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int{"indexed": 1})
}

type addBatchRequest struct {
	Prefecture string            `json:"prefecture"`
	Documents  []domain.Document `json:"documents"`
}

// AddDocumentBatch handles POST /api/documents/batch.
func (s *Server) AddDocumentBatch(w http.ResponseWriter, r *http.Request) {
	var req addBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	if len(req.Documents) == 0 || len(req.Documents) > maxBatchSize {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			fmt.Sprintf("documents count must be between 1 and %d", maxBatchSize))
		return
	}

	indexed, err := s.documents.AddBatch(r.Context(), req.Prefecture, req.Documents)
	if err != nil {
		// Partial progress still counts; the client needs both facts.
		s.logger.Warn("batch stopped early",
			zap.Int("indexed", indexed), zap.Error(err))
		writeJSON(w, http.StatusMultiStatus, map[string]any{
			"indexed": indexed,
			"error":   safeDomainMessage(s.errorSentinels(), err),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"indexed": indexed})
}

// RemoveDocument handles DELETE /api/documents/{prefecture}/{id}.
func (s *Server) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	prefecture := chi.URLParam(r, "prefecture")
	id := chi.URLParam(r, "id")

	if err := s.documents.Remove(r.Context(), prefecture, id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearIndex handles POST /api/indexes/{prefecture}/clear.
func (s *Server) ClearIndex(w http.ResponseWriter, r *http.Request) {
	prefecture := chi.URLParam(r, "prefecture")

	if err := s.documents.Clear(r.Context(), prefecture); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// OptimizeIndex handles POST /api/indexes/{prefecture}/optimize.
func (s *Server) OptimizeIndex(w http.ResponseWriter, r *http.Request) {
	prefecture := chi.URLParam(r, "prefecture")

	if err := s.documents.Optimize(r.Context(), prefecture); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "optimized"})
}

// GetHistory handles GET /api/history. The user comes from the X-User
// header, same as search attribution.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	username := r.Header.Get(userHeader)
	if username == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "X-User header is required")
		return
	}

	limit := historyuc.DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := s.history.History(r.Context(), username, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.SearchLogEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"username": username,
		"entries":  entries,
	})
}

// GetRankings handles GET /api/rankings.
func (s *Server) GetRankings(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = historyuc.KindKeyword
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be a positive integer")
			return
		}
		limit = n
	}

	var (
		terms []domain.RankedTerm
		err   error
	)
	switch kind {
	case historyuc.KindKeyword:
		terms, err = s.history.TopKeywords(r.Context(), limit)
	case historyuc.KindQuery:
		terms, err = s.history.TopQueries(r.Context(), limit)
	default:
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			fmt.Sprintf("kind must be %q or %q", historyuc.KindKeyword, historyuc.KindQuery))
		return
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if terms == nil {
		terms = []domain.RankedTerm{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"kind":  kind,
		"items": terms,
	})
}

// GetStats handles GET /api/stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	regions, companies := s.documents.Stats()

	writeJSON(w, http.StatusOK, map[string]any{
		"regions":       regions,
		"companies":     companies,
		"multi_index":   s.documents.Multi(),
		"cache_entries": s.search.CacheEntries(),
		"version":       version.Version,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func (s *Server) errorSentinels() []error {
	return []error{
		domain.ErrEmptyQuery,
		domain.ErrInvalidFilter,
		domain.ErrDocumentInvalid,
		domain.ErrUnknownPrefecture,
		domain.ErrNotFound,
		domain.ErrIndexUnavailable,
	}
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(sentinels []error, err error) string {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// handleDomainError maps err through the sentinel chain: known domain
// errors log once at Warn, anything unmatched logs once at Error and
// becomes an opaque 500.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(s.errorSentinels(), err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
