package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"textdigest/internal/analyze"
	"textdigest/internal/cache"
	"textdigest/internal/config"
	"textdigest/internal/extract"
	"textdigest/internal/mocks"
)

func testServer(t *testing.T, cfg *config.Config) (*Server, *mocks.Provider) {
	t.Helper()

	provider := &mocks.Provider{}
	cacheManager := cache.NewMemoryCache(time.Hour)
	resolver, err := extract.NewResolver(cfg.MinInputChars, 5*time.Second)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	return &Server{
		config:       cfg,
		provider:     provider,
		cacheManager: cacheManager,
		resolver:     resolver,
		analyzer:     analyze.New(provider, cacheManager),
		startedAt:    time.Now(),
	}, provider
}

func testConfig() *config.Config {
	return &config.Config{
		Port:          "8080",
		Host:          "0.0.0.0",
		Provider:      config.ProviderLocal,
		CacheType:     "memory",
		CacheDuration: 24,
		MaxUploadMB:   10,
		MinInputChars: 10,
		FetchTimeout:  5,
		UITitle:       "Text Digest",
		UITheme:       "#4f46e5",
	}
}

const longText = "Go is a statically typed language designed at Google. It compiles quickly and has a rich standard library. Many teams use it for network services."

func TestHealthEndpoint(t *testing.T) {
	srv, _ := testServer(t, testConfig())
	router := srv.SetupRoutes()

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("health status field = %v, want ok", resp["status"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := testServer(t, testConfig())
	router := srv.SetupRoutes()

	req := httptest.NewRequest("GET", "/api/v1/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Data struct {
			Provider  string `json:"provider"`
			CacheType string `json:"cache_type"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding status response: %v", err)
	}
	if resp.Data.Provider != "mock" {
		t.Errorf("provider = %q, want mock", resp.Data.Provider)
	}
	if resp.Data.CacheType != "memory" {
		t.Errorf("cache_type = %q, want memory", resp.Data.CacheType)
	}
}

func TestIndexPage(t *testing.T) {
	srv, _ := testServer(t, testConfig())
	router := srv.SetupRoutes()

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("index status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Text Digest") {
		t.Error("index page missing configured title")
	}
	if !strings.Contains(body, "/api/v1/analyze") {
		t.Error("index page missing analyze endpoint reference")
	}
}

func TestAnalyzeJSONRequest(t *testing.T) {
	srv, provider := testServer(t, testConfig())
	router := srv.SetupRoutes()

	payload := map[string]interface{}{
		"text": longText,
		"task": "summarize",
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("analyze status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if provider.SummarizeCalls != 1 {
		t.Errorf("SummarizeCalls = %d, want 1", provider.SummarizeCalls)
	}

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Summary string `json:"summary"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding analyze response: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}
	if resp.Data.Summary == "" {
		t.Error("expected non-empty summary")
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	srv, provider := testServer(t, testConfig())
	router := srv.SetupRoutes()

	body, _ := json.Marshal(map[string]string{"text": "   ", "task": "summarize"})
	req := httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("empty input status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if provider.SummarizeCalls != 0 {
		t.Errorf("SummarizeCalls = %d, want 0 for rejected input", provider.SummarizeCalls)
	}
}

func TestCacheAdminRequiresToken(t *testing.T) {
	cfg := testConfig()
	cfg.AdminToken = "secret-token"
	srv, _ := testServer(t, cfg)
	router := srv.SetupRoutes()

	req := httptest.NewRequest("GET", "/api/v1/cache/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("stats without token status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest("GET", "/api/v1/cache/stats", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("stats with token status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestCacheAdminDisabledWithoutToken(t *testing.T) {
	srv, _ := testServer(t, testConfig())
	router := srv.SetupRoutes()

	req := httptest.NewRequest("GET", "/api/v1/cache/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code == http.StatusOK {
		t.Error("cache admin route should not be registered without an admin token")
	}
}

func TestCacheClear(t *testing.T) {
	cfg := testConfig()
	cfg.AdminToken = "secret-token"
	srv, _ := testServer(t, cfg)
	router := srv.SetupRoutes()

	// warm the cache through a real request
	body, _ := json.Marshal(map[string]string{"text": longText, "task": "summarize"})
	req := httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("analyze status = %d, want %d", w.Code, http.StatusOK)
	}

	req = httptest.NewRequest("DELETE", "/api/v1/cache/clear", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("clear status = %d, want %d", w.Code, http.StatusOK)
	}

	stats, err := srv.cacheManager.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalEntries != 0 {
		t.Errorf("TotalEntries after clear = %d, want 0", stats.TotalEntries)
	}
}

func TestCORSPreflightRequest(t *testing.T) {
	srv, _ := testServer(t, testConfig())
	router := srv.SetupRoutes()

	req := httptest.NewRequest("OPTIONS", "/api/v1/analyze", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("preflight status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
