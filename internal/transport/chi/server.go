package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/segmentd/internal/domain"
	"github.com/kailas-cloud/segmentd/internal/domain/entry"
	domsel "github.com/kailas-cloud/segmentd/internal/domain/selection"
	healthuc "github.com/kailas-cloud/segmentd/internal/usecase/health"
)

// maxTopViewedWindow caps the number of entries one top-viewed call returns.
const maxTopViewedWindow = 1000

// selector is the consumer interface over the selection service (ISP).
type selector interface {
	Select(ctx context.Context, req domsel.Request) (domsel.Selection, error)
	TopViewed(ctx context.Context, asc bool, start, end int) ([]entry.Entry, error)
	CountEntries(ctx context.Context, companyID int64) (int, error)
	Label() string
}

// healthChecker is the consumer interface over the health service (ISP).
type healthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the selection HTTP API.
type Server struct {
	selection          selector
	health             healthChecker
	defaultContentType string
	logger             *zap.Logger
	errorHandlers      []errorHandler
}

// NewServer creates an HTTP API server.
// defaultContentType is used when a selection request omits content_type.
func NewServer(sel selector, health healthChecker, defaultContentType string, logger *zap.Logger) *Server {
	s := &Server{
		selection:          sel,
		health:             health,
		defaultContentType: defaultContentType,
		logger:             logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrSearchUnavailable, http.StatusServiceUnavailable, CodeSearchUnavailable),
		sentinelHandler(domain.ErrDirectoryUnavailable, http.StatusServiceUnavailable, CodeDirectoryUnavailable),
		sentinelHandler(domain.ErrInvalidRange, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		cancelledHandler,
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/groups/{groupID}/selection", s.Select)
		r.Get("/entries/top-viewed", s.TopViewed)
		r.Get("/companies/{companyID}/entries/count", s.CountEntries)
	})
}

// Select handles GET /v1/groups/{groupID}/selection.
func (s *Server) Select(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "groupID must be an integer")
		return
	}

	contentType := r.URL.Query().Get("content_type")
	if contentType == "" {
		contentType = s.defaultContentType
	}
	req := domsel.NewRequest(groupID, contentType)

	if raw := r.URL.Query().Get("viewer_id"); raw != "" {
		viewerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "viewer_id must be an integer")
			return
		}
		req = req.WithViewer(viewerID)
	}

	sel, err := s.selection.Select(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SelectionResponse{
		Provider: s.selection.Label(),
		Source:   string(sel.Source()),
		Entries:  entriesToResponse(sel.Entries()),
	})
}

// TopViewed handles GET /v1/entries/top-viewed.
func (s *Server) TopViewed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := intParam(q.Get("start"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "start must be an integer")
		return
	}
	end, err := intParam(q.Get("end"), start+20)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "end must be an integer")
		return
	}
	if end-start > maxTopViewedWindow {
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			"window must not exceed "+strconv.Itoa(maxTopViewedWindow)+" entries")
		return
	}

	var asc bool
	switch q.Get("order") {
	case "", "desc":
	case "asc":
		asc = true
	default:
		writeError(w, http.StatusBadRequest, CodeBadRequest, `order must be "asc" or "desc"`)
		return
	}

	entries, err := s.selection.TopViewed(r.Context(), asc, start, end)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, EntryListResponse{Entries: entriesToResponse(entries)})
}

// CountEntries handles GET /v1/companies/{companyID}/entries/count.
func (s *Server) CountEntries(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "companyID must be an integer")
		return
	}

	n, err := s.selection.CountEntries(r.Context(), companyID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw) //nolint:wrapcheck // caller reports a fixed message
}

func entriesToResponse(entries []entry.Entry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i := range entries {
		e := &entries[i]
		out[i] = EntryResponse{
			ID:        e.ID(),
			ClassName: e.ClassName(),
			ClassPK:   e.ClassPK(),
			GroupID:   e.GroupID(),
			CompanyID: e.CompanyID(),
			Title:     e.Title(),
			ViewCount: e.ViewCount(),
			Modified:  e.Modified().UTC().Format(time.RFC3339Nano),
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrSearchUnavailable,
		domain.ErrDirectoryUnavailable,
		domain.ErrInvalidRange,
		domain.ErrNotFound,
		context.Canceled,
		context.DeadlineExceeded,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// cancelledHandler maps an aborted request context to 503 Service Unavailable.
func cancelledHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	writeError(w, http.StatusServiceUnavailable, CodeTimeout, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
