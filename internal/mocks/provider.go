package mocks

import (
	"context"
	"time"

	"textdigest/internal/inference"
)

// Provider is a hand-written inference.Provider for tests. Call counters
// let tests assert that inference was or was not invoked.
type Provider struct {
	SummarizeCalls int
	AnswerCalls    int

	SummarizeFunc func(ctx context.Context, req inference.SummarizeRequest) (*inference.Summary, error)
	AnswerFunc    func(ctx context.Context, req inference.AnswerRequest) (*inference.Answer, error)
}

func (m *Provider) Name() string { return "mock" }

func (m *Provider) Summarize(ctx context.Context, req inference.SummarizeRequest) (*inference.Summary, error) {
	m.SummarizeCalls++
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, req)
	}
	return &inference.Summary{
		Text:        "test summary.",
		Model:       "mock",
		ProcessedAt: time.Now(),
	}, nil
}

func (m *Provider) Answer(ctx context.Context, req inference.AnswerRequest) (*inference.Answer, error) {
	m.AnswerCalls++
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, req)
	}
	return &inference.Answer{
		Text:  "test answer",
		Score: 0.9,
		Start: 0,
		End:   11,
	}, nil
}
