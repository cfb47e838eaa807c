package textdigest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// Set up test environment variables
	os.Setenv("PROVIDER", "local")
	os.Setenv("CACHE_TYPE", "memory")
	os.Setenv("CACHE_DURATION_HOURS", "1")
	os.Setenv("MIN_INPUT_CHARS", "10")

	code := m.Run()

	os.Unsetenv("PROVIDER")
	os.Unsetenv("CACHE_TYPE")
	os.Unsetenv("CACHE_DURATION_HOURS")
	os.Unsetenv("MIN_INPUT_CHARS")

	os.Exit(code)
}

func TestAnalyzeTextHealthCheck(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()

	AnalyzeText(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response["status"] != "ok" {
		t.Errorf("Expected status 'ok', got '%v'", response["status"])
	}
}

func TestAnalyzeTextSummarize(t *testing.T) {
	payload, _ := json.Marshal(map[string]string{
		"text": "Go is a statically typed language designed at Google. It compiles quickly and ships a rich standard library. Many teams pick it for network services.",
		"task": "summarize",
	})

	req := httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	AnalyzeText(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var response struct {
		Status string `json:"status"`
		Data   struct {
			Summary string `json:"summary"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response.Status != "success" {
		t.Errorf("Expected status 'success', got '%v'", response.Status)
	}
	if response.Data.Summary == "" {
		t.Error("Expected a non-empty summary")
	}
}

func TestAnalyzeTextRejectsUnknownPath(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/nonexistent", nil)
	w := httptest.NewRecorder()

	AnalyzeText(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}
