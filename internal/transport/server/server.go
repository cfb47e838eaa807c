package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"

	"textdigest/internal/analyze"
	"textdigest/internal/cache"
	"textdigest/internal/config"
	"textdigest/internal/extract"
	"textdigest/internal/inference"
	"textdigest/internal/transport/handler"
	"textdigest/internal/transport/middleware"
	"textdigest/internal/transport/response"
)

// Server holds the HTTP surface and its dependencies
type Server struct {
	config       *config.Config
	provider     inference.Provider
	cacheManager cache.Cache
	resolver     *extract.Resolver
	analyzer     *analyze.Analyzer
	startedAt    time.Time
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config) (*Server, error) {
	provider, err := inference.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating provider: %w", err)
	}

	cacheManager, err := cache.NewManager(cfg.CacheType, cfg.CacheBucket, time.Duration(cfg.CacheDuration)*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("creating cache manager: %w", err)
	}

	resolver, err := extract.NewResolver(cfg.MinInputChars, time.Duration(cfg.FetchTimeout)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("creating resolver: %w", err)
	}

	return &Server{
		config:       cfg,
		provider:     provider,
		cacheManager: cacheManager,
		resolver:     resolver,
		analyzer:     analyze.New(provider, cacheManager),
		startedAt:    time.Now(),
	}, nil
}

// SetupRoutes configures HTTP routes
func (s *Server) SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	maxUploadBytes := int64(s.config.MaxUploadMB) * 1024 * 1024
	analyzeHandler := handler.NewAnalyze(s.resolver, s.analyzer, maxUploadBytes)

	// UI page
	r.Handle("/", handler.NewIndex(s.config, s.provider.Name())).Methods("GET")

	// API routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(s.corsMiddleware)
	api.Use(s.loggingMiddleware)

	api.Handle("/analyze", analyzeHandler).Methods("POST", "OPTIONS")
	api.HandleFunc("/health", s.healthHandler).Methods("GET")
	api.HandleFunc("/status", s.statusHandler).Methods("GET")

	// Cache admin, only with a token configured
	if s.config.AdminToken != "" {
		admin := api.PathPrefix("/cache").Subrouter()
		admin.Use(middleware.Auth(s.config.AdminToken))
		admin.HandleFunc("/stats", s.cacheStatsHandler).Methods("GET")
		admin.HandleFunc("/clear", s.cacheClearHandler).Methods("DELETE")
	}

	return r
}

// SweepCache drops expired cache entries; the server main schedules this
func (s *Server) SweepCache(ctx context.Context) (int, error) {
	return s.cacheManager.Sweep(ctx)
}

// Close releases server resources
func (s *Server) Close() error {
	return s.cacheManager.Close()
}

// healthHandler provides health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, response.Response{
		Status: "ok",
		Data: map[string]interface{}{
			"timestamp": time.Now().Unix(),
		},
	})
}

// statusHandler reports runtime configuration and uptime
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, response.Response{
		Status: "ok",
		Data: map[string]interface{}{
			"provider":       s.provider.Name(),
			"cache_type":     s.config.CacheType,
			"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
		},
	})
}

// cacheStatsHandler returns cache statistics
func (s *Server) cacheStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.cacheManager.GetStats(r.Context())
	if err != nil {
		response.WriteInternalError(w, fmt.Sprintf("getting cache stats: %v", err))
		return
	}
	response.WriteSuccess(w, "cache stats", stats)
}

// cacheClearHandler empties the result cache
func (s *Server) cacheClearHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.cacheManager.Clear(r.Context()); err != nil {
		response.WriteInternalError(w, fmt.Sprintf("clearing cache: %v", err))
		return
	}
	response.WriteSuccess(w, "cache cleared", nil)
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log.Printf("%s %s %d %v", r.Method, r.URL.Path, wrapped.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// CreateHandler builds a fully wired handler plus its cleanup function,
// used by the Cloud Functions entrypoint
func CreateHandler() (http.Handler, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Error loading configuration: %v", err)
		return nil, nil, err
	}

	srv, err := NewServer(cfg)
	if err != nil {
		log.Printf("Error creating server: %v\nStack:\n%s", err, debug.Stack())
		return nil, nil, err
	}

	cleanup := func() {
		srv.Close()
	}

	return srv.SetupRoutes(), cleanup, nil
}

// HandleRequest handles a single HTTP request (for Cloud Functions)
func HandleRequest(w http.ResponseWriter, r *http.Request) {
	h, cleanup, err := CreateHandler()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer cleanup()

	h.ServeHTTP(w, r)
}
