// Package analyze dispatches resolved text to the configured model backend
// and implements the purely textual tasks (keywords, metrics) locally.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"textdigest/internal/cache"
	"textdigest/internal/inference"
)

// Tasks accepted by the dispatcher
const (
	TaskSummarize = "summarize"
	TaskKeywords  = "keywords"
	TaskQA        = "qa"
	TaskAnalyze   = "analyze" // summary + keywords + optional QA + metrics
)

// Output formats for summaries
const (
	FormatParagraph = "paragraph"
	FormatBullets   = "bullets"
)

// ErrUnknownTask is returned when a request names a task the dispatcher
// does not implement
var ErrUnknownTask = errors.New("unknown task")

// Summarization chunk size in runes. Long inputs are summarized piecewise
// and the partial summaries concatenated.
const chunkSize = 1024

// Default summary length bounds in words
const (
	defaultMinLength    = 30
	defaultMaxLength    = 120
	defaultKeywordCount = 5
)

// InferenceError represents a model backend failure
type InferenceError struct {
	Provider string
	Task     string
	Message  string
	Err      error
}

func (e *InferenceError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Provider, e.Task, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// Options controls summarization output
type Options struct {
	MinLength    int    `json:"min_length"`
	MaxLength    int    `json:"max_length"`
	Format       string `json:"format"`
	KeywordCount int    `json:"keywords"`
}

func (o Options) withDefaults() Options {
	if o.MinLength <= 0 {
		o.MinLength = defaultMinLength
	}
	if o.MaxLength <= 0 {
		o.MaxLength = defaultMaxLength
	}
	if o.Format == "" {
		o.Format = FormatParagraph
	}
	if o.KeywordCount <= 0 {
		o.KeywordCount = defaultKeywordCount
	}
	return o
}

// Request is one dispatch of resolved text to a task
type Request struct {
	Text      string
	Task      string
	Questions []string
	Options   Options
}

// Result carries everything the UI displays
type Result struct {
	Summary  string   `json:"summary,omitempty"`
	Keywords string   `json:"keywords,omitempty"`
	Answers  []string `json:"answers,omitempty"`
	Metrics  *Metrics `json:"metrics,omitempty"`
	Text     string   `json:"text"`
	Provider string   `json:"provider"`
	Elapsed  int64    `json:"elapsed_ms"`
}

// Analyzer maps tasks to provider calls
type Analyzer struct {
	provider inference.Provider
	cache    cache.Cache
}

// New creates an analyzer. cache may be nil to disable result caching.
func New(provider inference.Provider, resultCache cache.Cache) *Analyzer {
	return &Analyzer{
		provider: provider,
		cache:    resultCache,
	}
}

// Provider returns the name of the backing provider
func (a *Analyzer) Provider() string {
	return a.provider.Name()
}

// Analyze runs the requested task and assembles a Result
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	opts := req.Options.withDefaults()
	start := time.Now()

	result := &Result{
		Text:     req.Text,
		Provider: a.provider.Name(),
	}

	task := req.Task
	if task == "" {
		task = TaskAnalyze
	}

	switch task {
	case TaskSummarize:
		summary, err := a.Summarize(ctx, req.Text, opts)
		if err != nil {
			return nil, err
		}
		result.Summary = summary
		metrics := ComputeMetrics(req.Text, summary)
		result.Metrics = &metrics

	case TaskKeywords:
		result.Keywords = Keywords(req.Text, opts.KeywordCount)

	case TaskQA:
		answers, err := a.Answer(ctx, req.Text, req.Questions)
		if err != nil {
			return nil, err
		}
		result.Answers = answers

	case TaskAnalyze:
		summary, err := a.Summarize(ctx, req.Text, opts)
		if err != nil {
			return nil, err
		}
		result.Summary = summary
		result.Keywords = Keywords(req.Text, opts.KeywordCount)
		if len(req.Questions) > 0 {
			answers, err := a.Answer(ctx, req.Text, req.Questions)
			if err != nil {
				return nil, err
			}
			result.Answers = answers
		}
		metrics := ComputeMetrics(req.Text, summary)
		result.Metrics = &metrics

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownTask, task)
	}

	result.Elapsed = time.Since(start).Milliseconds()
	return result, nil
}

// Summarize condenses text chunk by chunk through the provider
func (a *Analyzer) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	opts = opts.withDefaults()
	cacheOpts := fmt.Sprintf("%d|%d|%s", opts.MinLength, opts.MaxLength, opts.Format)
	key := cache.Key(TaskSummarize, cacheOpts, text)

	if cached := a.cached(ctx, key); cached != "" {
		return cached, nil
	}

	chunks := chunkRunes(text, chunkSize)
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		summary, err := a.provider.Summarize(ctx, inference.SummarizeRequest{
			Text:      chunk,
			MinLength: opts.MinLength,
			MaxLength: opts.MaxLength,
		})
		if err != nil {
			return "", &InferenceError{
				Provider: a.provider.Name(),
				Task:     TaskSummarize,
				Message:  "summarization failed",
				Err:      err,
			}
		}
		parts = append(parts, strings.TrimSpace(summary.Text))
	}

	summary := strings.Join(parts, " ")
	if opts.Format == FormatBullets {
		summary = formatBullets(summary)
	}

	a.store(ctx, key, TaskSummarize, summary)
	return summary, nil
}

// Answer runs one QA call per question and formats each answer with its score
func (a *Analyzer) Answer(ctx context.Context, text string, questions []string) ([]string, error) {
	answers := make([]string, 0, len(questions))

	for _, question := range questions {
		question = strings.TrimSpace(question)
		if question == "" {
			continue
		}

		key := cache.Key(TaskQA, question, text)
		if cached := a.cached(ctx, key); cached != "" {
			answers = append(answers, cached)
			continue
		}

		answer, err := a.provider.Answer(ctx, inference.AnswerRequest{
			Question: question,
			Context:  text,
		})
		if err != nil {
			return nil, &InferenceError{
				Provider: a.provider.Name(),
				Task:     TaskQA,
				Message:  fmt.Sprintf("answering %q failed", question),
				Err:      err,
			}
		}

		formatted := fmt.Sprintf("%s: %s (score: %.2f)", question, answer.Text, answer.Score)
		a.store(ctx, key, TaskQA, formatted)
		answers = append(answers, formatted)
	}

	return answers, nil
}

func (a *Analyzer) cached(ctx context.Context, key string) string {
	if a.cache == nil {
		return ""
	}
	entry, err := a.cache.Get(ctx, key)
	if err != nil {
		// Misses and cache trouble alike fall through to the provider
		return ""
	}
	return entry.Result
}

func (a *Analyzer) store(ctx context.Context, key, task, result string) {
	if a.cache == nil {
		return
	}
	_ = a.cache.Set(ctx, key, &cache.Entry{Task: task, Result: result})
}

// formatBullets turns a paragraph summary into one bullet per sentence
func formatBullets(summary string) string {
	sentences := splitSentences(summary)
	bullets := make([]string, 0, len(sentences))
	for _, s := range sentences {
		bullets = append(bullets, "• "+s)
	}
	return strings.Join(bullets, "\n")
}

// chunkRunes splits text into pieces of at most size runes
func chunkRunes(text string, size int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var chunks []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
