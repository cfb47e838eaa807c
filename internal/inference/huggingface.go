package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HuggingFace calls the HuggingFace Inference API. Summarization and QA use
// separate hosted models, mirroring the transformer pipelines this service
// fronts.
type HuggingFace struct {
	apiKey          string
	baseURL         string
	summarizerModel string
	qaModel         string
	httpClient      *http.Client
}

// NewHuggingFace creates a new Inference API client
func NewHuggingFace(apiKey, baseURL, summarizerModel, qaModel string) *HuggingFace {
	return &HuggingFace{
		apiKey:          apiKey,
		baseURL:         baseURL,
		summarizerModel: summarizerModel,
		qaModel:         qaModel,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Name returns the provider name
func (h *HuggingFace) Name() string { return "huggingface" }

type hfSummarizeRequest struct {
	Inputs     string        `json:"inputs"`
	Parameters *hfParameters `json:"parameters,omitempty"`
	Options    *hfOptions    `json:"options,omitempty"`
}

type hfParameters struct {
	MinLength int  `json:"min_length,omitempty"`
	MaxLength int  `json:"max_length,omitempty"`
	DoSample  bool `json:"do_sample"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfSummarizeResponse struct {
	SummaryText string `json:"summary_text"`
}

type hfQARequest struct {
	Inputs hfQAInputs `json:"inputs"`
}

type hfQAInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type hfQAResponse struct {
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Answer string  `json:"answer"`
}

type hfErrorResponse struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// Summarize condenses text with the hosted summarization model
func (h *HuggingFace) Summarize(ctx context.Context, req SummarizeRequest) (*Summary, error) {
	hfReq := hfSummarizeRequest{
		Inputs: req.Text,
		Parameters: &hfParameters{
			MinLength: req.MinLength,
			MaxLength: req.MaxLength,
			DoSample:  false,
		},
		Options: &hfOptions{WaitForModel: true},
	}

	var results []hfSummarizeResponse
	if err := h.post(ctx, h.summarizerModel, hfReq, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 || results[0].SummaryText == "" {
		return nil, fmt.Errorf("model %s returned no summary", h.summarizerModel)
	}

	return &Summary{
		Text:        results[0].SummaryText,
		Model:       h.summarizerModel,
		ProcessedAt: time.Now(),
	}, nil
}

// Answer runs extractive QA with the hosted question-answering model
func (h *HuggingFace) Answer(ctx context.Context, req AnswerRequest) (*Answer, error) {
	hfReq := hfQARequest{
		Inputs: hfQAInputs{
			Question: req.Question,
			Context:  req.Context,
		},
	}

	var result hfQAResponse
	if err := h.post(ctx, h.qaModel, hfReq, &result); err != nil {
		return nil, err
	}
	if result.Answer == "" {
		return nil, fmt.Errorf("model %s returned no answer", h.qaModel)
	}

	return &Answer{
		Text:  result.Answer,
		Score: result.Score,
		Start: result.Start,
		End:   result.End,
	}, nil
}

// post sends a JSON payload to a model endpoint and decodes the response
func (h *HuggingFace) post(ctx context.Context, model string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", h.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		var hfErr hfErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&hfErr); err == nil && hfErr.Error != "" {
			return fmt.Errorf("model %s is loading (estimated %.0fs): %s", model, hfErr.EstimatedTime, hfErr.Error)
		}
		return fmt.Errorf("model %s is unavailable", model)
	}

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
