// Package inference wraps the pretrained model backends behind a single
// Provider interface. All NLP heavy lifting is delegated to these backends;
// the rest of the application only sees plain text in and plain text out.
package inference

import (
	"context"
	"fmt"
	"time"

	"textdigest/internal/config"
)

// SummarizeRequest asks a provider to condense text
type SummarizeRequest struct {
	Text      string
	MinLength int // lower bound in tokens/words, model dependent
	MaxLength int // upper bound in tokens/words, model dependent
}

// Summary is a provider's summarization result
type Summary struct {
	Text        string    `json:"text"`
	Model       string    `json:"model"`
	ProcessedAt time.Time `json:"processed_at"`
}

// AnswerRequest asks a provider to answer one question over a context passage
type AnswerRequest struct {
	Question string
	Context  string
}

// Answer holds a QA result. For extractive models the answer is a span of
// the context and Start/End are byte offsets into it; generative models
// return Start = End = -1.
type Answer struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
	Start int     `json:"start"`
	End   int     `json:"end"`
}

// Provider is a pretrained model backend
type Provider interface {
	Summarize(ctx context.Context, req SummarizeRequest) (*Summary, error)
	Answer(ctx context.Context, req AnswerRequest) (*Answer, error)
	Name() string
}

// New creates the provider selected by configuration
func New(cfg *config.Config) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderLocal:
		return NewLocal(), nil
	case config.ProviderHuggingFace:
		return NewHuggingFace(cfg.HuggingFaceAPIKey, cfg.HuggingFaceBaseURL, cfg.SummarizerModel, cfg.QAModel), nil
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
