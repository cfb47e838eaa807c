package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"textdigest/internal/analyze"
	"textdigest/internal/extract"
	"textdigest/internal/inference"
	"textdigest/internal/mocks"
)

const articleText = "Go is a statically typed language designed at Google. It compiles quickly and ships a rich standard library. Many teams pick it for network services and tooling."

func newTestHandler(t *testing.T, provider *mocks.Provider) *Analyze {
	t.Helper()

	resolver, err := extract.NewResolver(10, 5*time.Second)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	return NewAnalyze(resolver, analyze.New(provider, nil), 10*1024*1024)
}

func multipartBody(t *testing.T, fields map[string]string, filename, fileContent string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("WriteField(%q) error = %v", key, err)
		}
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("CreateFormFile() error = %v", err)
		}
		if _, err := io.WriteString(part, fileContent); err != nil {
			t.Fatalf("writing file part: %v", err)
		}
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestAnalyzeMultipartText(t *testing.T) {
	provider := &mocks.Provider{}
	h := newTestHandler(t, provider)

	body, contentType := multipartBody(t, map[string]string{
		"text": articleText,
		"task": "summarize",
	}, "", "")

	req := httptest.NewRequest("POST", "/api/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if provider.SummarizeCalls != 1 {
		t.Errorf("SummarizeCalls = %d, want 1", provider.SummarizeCalls)
	}
}

func TestAnalyzeMultipartFileUpload(t *testing.T) {
	provider := &mocks.Provider{}
	h := newTestHandler(t, provider)

	body, contentType := multipartBody(t, map[string]string{
		"task": "summarize",
	}, "notes.txt", articleText)

	req := httptest.NewRequest("POST", "/api/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if provider.SummarizeCalls != 1 {
		t.Errorf("SummarizeCalls = %d, want 1", provider.SummarizeCalls)
	}
}

func TestAnalyzeUnsupportedFileExtension(t *testing.T) {
	provider := &mocks.Provider{}
	h := newTestHandler(t, provider)

	body, contentType := multipartBody(t, map[string]string{
		"task": "summarize",
	}, "report.docx", "binary-ish content")

	req := httptest.NewRequest("POST", "/api/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if provider.SummarizeCalls != 0 {
		t.Errorf("SummarizeCalls = %d, want 0 for rejected upload", provider.SummarizeCalls)
	}
}

func TestAnalyzeQAMultipartQuestions(t *testing.T) {
	provider := &mocks.Provider{}
	h := newTestHandler(t, provider)

	body, contentType := multipartBody(t, map[string]string{
		"text":      articleText,
		"task":      "qa",
		"questions": "Who designed Go?\n\nWhy do teams pick it?\n",
	}, "", "")

	req := httptest.NewRequest("POST", "/api/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if provider.AnswerCalls != 2 {
		t.Errorf("AnswerCalls = %d, want 2 (blank lines skipped)", provider.AnswerCalls)
	}
}

func TestAnalyzeQAWithoutQuestions(t *testing.T) {
	provider := &mocks.Provider{}
	h := newTestHandler(t, provider)

	payload, _ := json.Marshal(map[string]string{"text": articleText, "task": "qa"})
	req := httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAnalyzeInvalidJSON(t *testing.T) {
	provider := &mocks.Provider{}
	h := newTestHandler(t, provider)

	req := httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAnalyzeJSONBodyTooLarge(t *testing.T) {
	provider := &mocks.Provider{}
	resolver, err := extract.NewResolver(10, 5*time.Second)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	h := NewAnalyze(resolver, analyze.New(provider, nil), 1024)

	payload, _ := json.Marshal(map[string]string{
		"text": strings.Repeat("a", 4096),
		"task": "summarize",
	})
	req := httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if provider.SummarizeCalls != 0 {
		t.Errorf("SummarizeCalls = %d, want 0 for oversized body", provider.SummarizeCalls)
	}
}

func TestAnalyzeUnknownTask(t *testing.T) {
	provider := &mocks.Provider{}
	h := newTestHandler(t, provider)

	payload, _ := json.Marshal(map[string]string{"text": articleText, "task": "translate"})
	req := httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAnalyzeProviderFailure(t *testing.T) {
	provider := &mocks.Provider{
		SummarizeFunc: func(ctx context.Context, req inference.SummarizeRequest) (*inference.Summary, error) {
			return nil, errors.New("model endpoint unavailable")
		},
	}
	h := newTestHandler(t, provider)

	payload, _ := json.Marshal(map[string]string{"text": articleText, "task": "summarize"})
	req := httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadGateway)
	}

	var resp struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if resp.Status != "error" {
		t.Errorf("status field = %q, want error", resp.Status)
	}
	if !strings.Contains(resp.Error, "model endpoint unavailable") {
		t.Errorf("error = %q, want it to mention the upstream failure", resp.Error)
	}
}
