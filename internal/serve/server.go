// Package serve exposes the validation and enrichment workflow over
// HTTP for analysts who script against the dataset rather than using
// the CLI.
package serve

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/selam-analytics/fidata/internal/enrich"
	"github.com/selam-analytics/fidata/internal/model"
	"github.com/selam-analytics/fidata/internal/store"
	"github.com/selam-analytics/fidata/internal/validate"
)

// Server handles the HTTP validation and enrichment endpoints.
type Server struct {
	validator *validate.Validator
	enricher  *enrich.Enricher
	store     store.Store
	limiter   *rate.Limiter
}

// New creates a Server. limit and burst bound inbound request rate
// across all clients.
func New(v *validate.Validator, e *enrich.Enricher, st store.Store, limit float64, burst int) *Server {
	return &Server{
		validator: v,
		enricher:  e,
		store:     st,
		limiter:   rate.NewLimiter(rate.Limit(limit), burst),
	}
}

// Router builds the chi router with CORS and rate limiting applied.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(s.rateLimit)

	r.Get("/health", s.handleHealth)
	r.Post("/validate", s.handleValidate)
	r.Post("/enrich", s.handleEnrich)
	r.Get("/log", s.handleLog)

	return r
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, eris.New("rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// batchRequest is the JSON body for /validate and /enrich.
type batchRequest struct {
	Records    []model.Record     `json:"records"`
	Links      []model.ImpactLink `json:"links,omitempty"`
	EnrichedBy string             `json:"enriched_by,omitempty"`
	Notes      string             `json:"notes,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.Wrap(err, "decode request"))
		return
	}

	report, err := s.validator.ValidateAll(req.Records)
	if err != nil {
		if eris.Is(err, validate.ErrEmptyBatch) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.Wrap(err, "decode request"))
		return
	}
	if req.EnrichedBy == "" {
		writeError(w, http.StatusBadRequest, eris.New("enriched_by is required"))
		return
	}

	result, err := s.enricher.Enrich(r.Context(), enrich.Batch{
		Records: req.Records,
		Links:   req.Links,
	}, req.EnrichedBy, req.Notes)
	if err != nil {
		if eris.Is(err, validate.ErrEmptyBatch) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	status := http.StatusOK
	if !result.Committed {
		// The batch was processed but rejected by validation.
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	limit := 50
	entries, err := s.store.ListLog(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
