// Package http provides the read-only HTTP surface for SearchLens:
// health, Prometheus metrics, and a JSON analyze endpoint.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/searchlens/searchlens/internal/analysis"
	"github.com/searchlens/searchlens/internal/config"
	bundleio "github.com/searchlens/searchlens/internal/io"
	"github.com/searchlens/searchlens/internal/net/ratelimit"
)

// maxBundleBytes caps the accepted dataset bundle payload size.
const maxBundleBytes = 64 << 20

type contextKey string

const requestIDKey contextKey = "request_id"

// Server is the read-only HTTP server wrapping one analyzer.
type Server struct {
	router   *mux.Router
	server   *http.Server
	analyzer *analysis.Analyzer
	limiter  *ratelimit.Limiter
	config   ServerConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	RateRPS      float64
	RateBurst    int
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	port := 8080
	if portStr := os.Getenv("HTTP_PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	return ServerConfig{
		Host:         "127.0.0.1", // Local-only by default
		Port:         port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		RateRPS:      5,
		RateBurst:    10,
	}
}

// NewServer creates a new HTTP server instance around the given analysis
// thresholds.
func NewServer(serverConfig ServerConfig, analysisConfig *config.AnalysisConfig) (*Server, error) {
	// Check if port is available
	addr := fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("port %d is busy or unavailable: %w", serverConfig.Port, err)
	}
	listener.Close()

	server := &Server{
		router:   mux.NewRouter(),
		analyzer: analysis.New(analysisConfig),
		limiter:  ratelimit.NewLimiter(serverConfig.RateRPS, serverConfig.RateBurst),
		config:   serverConfig,
	}

	server.setupRoutes()

	server.server = &http.Server{
		Addr:         addr,
		Handler:      server.router,
		ReadTimeout:  serverConfig.ReadTimeout,
		WriteTimeout: serverConfig.WriteTimeout,
		IdleTimeout:  serverConfig.IdleTimeout,
	}

	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)
	s.router.Use(s.jsonContentTypeMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	if DefaultMetrics != nil {
		s.router.Handle("/metrics", DefaultMetrics.MetricsHandler()).Methods("GET")
	}

	analyze := s.router.PathPrefix("/analyze").Subrouter()
	analyze.Use(s.rateLimitMiddleware)
	analyze.HandleFunc("", s.handleAnalyze).Methods("POST")

	s.router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleAnalyze decodes a dataset bundle from the request body, runs the
// full analysis, and returns the result record. Malformed bundles are a
// client error; missing views inside a well-formed bundle are not.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if DefaultMetrics != nil {
		DefaultMetrics.IncrementActiveAnalyses()
		defer DefaultMetrics.DecrementActiveAnalyses()
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBundleBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err))
		return
	}

	bundle, err := bundleio.DecodeBundle(body)
	if err != nil {
		if DefaultMetrics != nil {
			DefaultMetrics.RecordAnalysisError("malformed_bundle")
		}
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	timer := (*SectionTimer)(nil)
	if DefaultMetrics != nil {
		timer = DefaultMetrics.StartSectionTimer("full_analysis")
	}
	result := s.analyzer.Run(bundle)
	if timer != nil {
		timer.Stop()
	}
	if DefaultMetrics != nil {
		DefaultMetrics.RecordFindings("cannibalization", len(result.Cannibalization))
		DefaultMetrics.RecordFindings("striking_distance", len(result.Opportunities.StrikingDistance))
		DefaultMetrics.RecordFindings("device_gap", len(result.DeviceComparison.ProblematicPages))
		DefaultMetrics.RecordFindings("cwv_failures", len(result.CWV.FailingPages))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Error().Err(err).Msg("failed to encode analysis result")
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusNotFound, "not found")
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// requestIDMiddleware adds unique request ID to each request
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()[:8]
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLoggingMiddleware logs all requests with structured format
func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID, _ := r.Context().Value(requestIDKey).(string)

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}
		next.ServeHTTP(wrapper, r)

		log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

// rateLimitMiddleware throttles analyze requests per client address
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			client = r.RemoteAddr
		}
		if !s.limiter.Allow(client) {
			s.writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// jsonContentTypeMiddleware sets JSON content type for API responses
func (s *Server) jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().
		Str("host", s.config.Host).
		Int("port", s.config.Port).
		Msg("Starting HTTP server (local-only, read-only)")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// GetAddress returns the server address
func (s *Server) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// responseWrapper captures HTTP status codes for logging
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
