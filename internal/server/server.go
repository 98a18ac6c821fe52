// Package server exposes the analysis pipeline over HTTP.
//
//	POST /api/analyze  multipart form: file, optional kind, limit, budget
//	GET  /healthz
package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Wozniak7/Analisador-Financeiro/internal/analysis"
	"github.com/Wozniak7/Analisador-Financeiro/internal/buildinfo"
	"github.com/Wozniak7/Analisador-Financeiro/internal/config"
	"github.com/Wozniak7/Analisador-Financeiro/internal/ingest"
	"github.com/Wozniak7/Analisador-Financeiro/internal/logger"
	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
	"github.com/Wozniak7/Analisador-Financeiro/internal/report"
)

// RequestIDHeader carries the request ID on responses.
const RequestIDHeader = "X-Request-ID"

// CacheHeader reports whether a report came from the cache.
const CacheHeader = "X-Cache"

// Server serves analysis requests.
type Server struct {
	analyzer     *analysis.Analyzer
	cfg          config.ServerConfig
	defaultLimit int
	reports      *cache.Cache
	limiter      *rate.Limiter
	log          zerolog.Logger
}

// New creates a Server.
func New(a *analysis.Analyzer, cfg *config.Config, log zerolog.Logger) *Server {
	return &Server{
		analyzer:     a,
		cfg:          cfg.Server,
		defaultLimit: cfg.Report.DetailLimit,
		reports:      cache.New(cfg.Server.CacheTTL, 2*cfg.Server.CacheTTL),
		limiter:      rate.NewLimiter(rate.Limit(cfg.Server.RatePerSecond), cfg.Server.RateBurst),
		log:          log,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.rateLimit)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info().Msg("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		w.Header().Set(RequestIDHeader, requestID)

		reqLog := logger.WithFields(s.log, map[string]interface{}{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), reqLog)))

		reqLog.Info().
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			log := logger.FromContext(r.Context())
			log.Warn().Msg("rate limit exceeded")
			writeError(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version, "build": buildinfo.String()})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", s.cfg.MaxUploadBytes))
			return
		}
		log.Warn().Err(err).Msg("parsing multipart form failed")
		writeError(w, http.StatusBadRequest, "expected a multipart form with a 'file' field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing 'file' field")
		return
	}
	defer file.Close()

	limit := s.defaultLimit
	if v := r.FormValue("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", v))
			return
		}
		limit = n
	}

	kind, err := requestKind(r.FormValue("kind"), header.Filename, r.FormValue("budget") == "true")
	if err != nil {
		writeReport(w, report.Failed(err))
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeReport(w, report.Failed(fmt.Errorf("%w: reading upload: %v", model.ErrIO, err)))
		return
	}

	key := cacheKey(content, kind, limit)
	if cached, ok := s.reports.Get(key); ok {
		log.Debug().Str("file", header.Filename).Msg("report served from cache")
		w.Header().Set(CacheHeader, "HIT")
		writeReport(w, cached.(report.Report))
		return
	}

	rep := s.analyzer.AnalyzeBytes(content, kind, limit)
	s.reports.SetDefault(key, rep)
	log.Info().Str("file", header.Filename).Str("kind", string(kind)).Bool("failed", rep.HasError()).Msg("analyzed upload")

	w.Header().Set(CacheHeader, "MISS")
	writeReport(w, rep)
}

func requestKind(declared, filename string, budget bool) (model.SourceKind, error) {
	if declared != "" {
		return model.ParseSourceKind(declared)
	}
	return ingest.KindFromPath(filename, budget)
}

func cacheKey(content []byte, kind model.SourceKind, limit int) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:]) + "|" + string(kind) + "|" + strconv.Itoa(limit)
}

// statusFor maps a report's terminal error kind to an HTTP status.
func statusFor(r report.Report) int {
	if !r.HasError() {
		return http.StatusOK
	}
	switch r.Error.Kind {
	case "FormatError", "SchemaError":
		return http.StatusUnprocessableEntity
	case "IOError":
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeReport(w http.ResponseWriter, r report.Report) {
	writeJSON(w, statusFor(r), r)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
