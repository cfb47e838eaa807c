package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"textdigest/internal/analyze"
	"textdigest/internal/extract"
	"textdigest/internal/transport/response"
)

// Analyze handles POST /api/v1/analyze. It accepts multipart form data
// (the UI path, so file uploads work) or a JSON body.
type Analyze struct {
	resolver       *extract.Resolver
	analyzer       *analyze.Analyzer
	maxUploadBytes int64
}

// NewAnalyze creates the analyze handler
func NewAnalyze(resolver *extract.Resolver, analyzer *analyze.Analyzer, maxUploadBytes int64) *Analyze {
	return &Analyze{
		resolver:       resolver,
		analyzer:       analyzer,
		maxUploadBytes: maxUploadBytes,
	}
}

type analyzeRequest struct {
	Text      string   `json:"text"`
	URL       string   `json:"url"`
	Task      string   `json:"task"`
	Questions []string `json:"questions"`
	MinLength int      `json:"min_length"`
	MaxLength int      `json:"max_length"`
	Format    string   `json:"format"`
	Keywords  int      `json:"keywords"`
}

func (h *Analyze) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, input, err := h.parseRequest(w, r)
	if err != nil {
		response.WriteBadRequest(w, err.Error())
		return
	}

	if req.Task == analyze.TaskQA && len(req.Questions) == 0 {
		response.WriteBadRequest(w, "at least one question is required for the qa task")
		return
	}

	text, err := h.resolver.Resolve(r.Context(), input)
	if err != nil {
		var inputErr *extract.InputError
		if errors.As(err, &inputErr) {
			response.WriteBadRequest(w, inputErr.Error())
			return
		}
		response.WriteInternalError(w, "failed to resolve input")
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), analyze.Request{
		Text:      text,
		Task:      req.Task,
		Questions: req.Questions,
		Options: analyze.Options{
			MinLength:    req.MinLength,
			MaxLength:    req.MaxLength,
			Format:       req.Format,
			KeywordCount: req.Keywords,
		},
	})
	if err != nil {
		var infErr *analyze.InferenceError
		if errors.As(err, &infErr) {
			response.WriteBadGateway(w, infErr.Error())
			return
		}
		if errors.Is(err, analyze.ErrUnknownTask) {
			response.WriteBadRequest(w, err.Error())
			return
		}
		response.WriteInternalError(w, err.Error())
		return
	}

	response.WriteSuccess(w, "analysis complete", result)
}

// parseRequest extracts the task request and input source from either a
// multipart form or a JSON body
func (h *Analyze) parseRequest(w http.ResponseWriter, r *http.Request) (*analyzeRequest, extract.Input, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.Contains(contentType, "multipart/form-data") {
		return h.parseMultipart(w, r)
	}

	// The upload cap applies to JSON bodies too
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, extract.Input{}, errors.New("request body too large or invalid JSON")
	}

	return &req, extract.Input{Text: req.Text, URL: req.URL}, nil
}

func (h *Analyze) parseMultipart(w http.ResponseWriter, r *http.Request) (*analyzeRequest, extract.Input, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, extract.Input{}, errors.New("upload too large or malformed form")
	}

	req := &analyzeRequest{
		Text:      r.FormValue("text"),
		URL:       r.FormValue("url"),
		Task:      r.FormValue("task"),
		Format:    r.FormValue("format"),
		MinLength: formInt(r, "min_length"),
		MaxLength: formInt(r, "max_length"),
		Keywords:  formInt(r, "keywords"),
	}

	// One question per line, matching the UI's textarea
	for _, line := range strings.Split(r.FormValue("questions"), "\n") {
		if q := strings.TrimSpace(line); q != "" {
			req.Questions = append(req.Questions, q)
		}
	}

	input := extract.Input{Text: req.Text, URL: req.URL}
	file, header, err := r.FormFile("file")
	if err == nil {
		input.File = file
		input.Filename = header.Filename
	} else if err != http.ErrMissingFile {
		return nil, extract.Input{}, errors.New("unreadable file upload")
	}

	return req, input, nil
}

func formInt(r *http.Request, field string) int {
	if value := r.FormValue(field); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return 0
}
