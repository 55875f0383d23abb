// Package api provides the HTTP REST API server for finlens.
//
// It exposes endpoints for report normalization, ratio derivation and the
// document type catalog.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/seenimoa/finlens/internal/config"
	"github.com/seenimoa/finlens/internal/doctype"
	"github.com/seenimoa/finlens/internal/infra"
	"github.com/seenimoa/finlens/internal/normalize"
	"github.com/seenimoa/finlens/internal/payload"
	"github.com/seenimoa/finlens/internal/ratios"
	"github.com/seenimoa/finlens/internal/report"
	"github.com/seenimoa/finlens/pkg/utils"
)

// maxBodyBytes caps request payloads.
const maxBodyBytes = 10 << 20

// Version is reported by /health. The CLI overrides it at startup.
var Version = "dev"

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	norm   *normalize.Normalizer
	types  *doctype.Catalog
	limit  *infra.RateLimiter
	log    zerolog.Logger
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, types *doctype.Catalog, log zerolog.Logger) *Server {
	if types == nil {
		types = doctype.Default()
	}
	log = log.With().Str("component", "api").Logger()
	srv := &Server{
		cfg:   cfg,
		norm:  normalize.New(NormalizerOptions(cfg), log),
		types: types,
		limit: infra.PerMinute(cfg.API.RateLimit),
		log:   log,
	}
	srv.router = srv.buildRouter()
	return srv
}

// NormalizerOptions maps the normalize section of cfg onto normalizer options.
func NormalizerOptions(cfg *config.Config) normalize.Options {
	return normalize.Options{
		DefaultPeriod:  cfg.Normalize.DefaultPeriod,
		DefaultCompany: cfg.Normalize.DefaultCompany,
		FiscalYearEnd:  cfg.Normalize.FiscalYearEnd,
		Concurrency:    cfg.Normalize.Concurrency,
	}
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown on SIGINT or
// SIGTERM.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(done)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-done:
	}
	s.log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Run-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireToken)

		r.Get("/health", s.handleHealth)

		// Document types
		r.Get("/document-types", s.handleDocumentTypes)
		r.Get("/document-types/{type}", s.handleDocumentType)

		// Normalization
		r.Group(func(r chi.Router) {
			r.Use(s.throttle)
			r.Post("/normalize", s.handleNormalize)
			r.Post("/reports/{name}", s.handleReport)
			r.Post("/ratios", s.handleRatios)
		})

		// Config
		r.Get("/config", s.handleGetConfig)
	})

	return r
}

// ════════════════════════════════════════════════════════════════════
// Middleware
// ════════════════════════════════════════════════════════════════════

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// requireToken enforces the bearer token when one is configured.
func (s *Server) requireToken(next http.Handler) http.Handler {
	token := s.cfg.API.AuthToken
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			writeError(w, http.StatusUnauthorized, "missing or invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// throttle rejects requests once the configured rate is exceeded.
func (s *Server) throttle(next http.Handler) http.Handler {
	if s.limit == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limit.Allow() {
			secs := int(math.Ceil(s.limit.RetryAfter().Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ════════════════════════════════════════════════════════════════════
// Response types
// ════════════════════════════════════════════════════════════════════

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ════════════════════════════════════════════════════════════════════
// Handlers
// ════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":   "ok",
			"version":  Version,
			"time_ist": utils.FormatDateTimeIST(utils.NowIST()),
		},
	})
}

func (s *Server) handleDocumentTypes(w http.ResponseWriter, r *http.Request) {
	names := s.types.Names()
	out := make([]doctype.Type, 0, len(names))
	for _, n := range names {
		out = append(out, s.types.Lookup(n))
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: out})
}

func (s *Server) handleDocumentType(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "type")
	t, ok := s.types.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown document type: %s", name))
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: t})
}

// handleNormalize normalizes every report of an analysis result. The
// optional format query parameter selects text, html or msgpack output
// instead of the JSON envelope.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	format, err := queryFormat(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := payload.Decode(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.norm.Batch(r.Context(), res)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	w.Header().Set("X-Run-ID", out.RunID)

	if format == report.FormatJSON {
		writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: out})
		return
	}
	s.writeRendered(w, format, func(wr io.Writer, cfg report.ReportConfig) error {
		return report.RenderBatch(wr, out, cfg)
	})
}

// handleReport normalizes one report. The body is either the report payload
// itself or an analysis result whose reports contain {name}.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	format, err := queryFormat(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	raw, err := payload.DecodeRaw(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reportRaw, base := any(raw), normalize.BaseContext{}
	if res := payload.FromMap(raw); res.Reports[name] != nil {
		reportRaw, base = res.Reports[name], normalize.ContextOf(res)
	}
	rec := s.norm.NormalizeReport(name, reportRaw, base)

	if format == report.FormatJSON {
		writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: rec})
		return
	}
	s.writeRendered(w, format, func(wr io.Writer, cfg report.ReportConfig) error {
		return report.Render(wr, rec, cfg)
	})
}

// handleRatios derives the full ratio set from a payload holding ratio
// values, statement figures or profit_loss / balance_sheet sub-objects.
func (s *Server) handleRatios(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	raw, err := payload.DecodeRaw(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: ratios.FromPayload(raw)})
}

// ════════════════════════════════════════════════════════════════════
// Helpers
// ════════════════════════════════════════════════════════════════════

// queryFormat reads the format query parameter; JSON when absent.
func queryFormat(r *http.Request) (report.ReportFormat, error) {
	q := r.URL.Query().Get("format")
	if q == "" {
		return report.FormatJSON, nil
	}
	return report.ParseFormat(q)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	return body, nil
}

func (s *Server) writeRendered(w http.ResponseWriter, format report.ReportFormat, render func(io.Writer, report.ReportConfig) error) {
	cfg := report.DefaultReportConfig()
	cfg.Format = format
	if s.cfg.Format.PercentDecimals > 0 {
		cfg.PercentDecimals = s.cfg.Format.PercentDecimals
	}
	cfg.CompactAmounts = s.cfg.Format.CompactAmounts

	switch format {
	case report.FormatHTML:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	case report.FormatMsgpack:
		w.Header().Set("Content-Type", "application/x-msgpack")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	if err := render(w, cfg); err != nil {
		s.log.Error().Err(err).Msg("rendering response")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Error().Err(err).Msg("failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
