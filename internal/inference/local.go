package inference

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Local is a deterministic, fully offline provider. Summaries are extractive
// (leading sentences within the length bounds) and answers are the context
// sentence with the highest word overlap with the question. It backs the
// keyless demo mode and the test suite.
type Local struct{}

// NewLocal creates the offline provider
func NewLocal() *Local {
	return &Local{}
}

// Name returns the provider name
func (l *Local) Name() string { return "local" }

// Summarize selects leading sentences until the word budget is spent
func (l *Local) Summarize(_ context.Context, req SummarizeRequest) (*Summary, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("input is empty")
	}

	minLen, maxLen := req.MinLength, req.MaxLength
	if maxLen <= 0 {
		maxLen = 120
	}
	if minLen < 0 {
		minLen = 0
	}

	var (
		picked []string
		words  int
	)
	for _, sentence := range splitSentences(text) {
		count := len(strings.Fields(sentence))
		if len(picked) > 0 && words+count > maxLen && words >= minLen {
			break
		}
		picked = append(picked, sentence)
		words += count
		if words >= maxLen {
			break
		}
	}

	summary := strings.Join(picked, " ")
	summary = truncateWords(summary, maxLen)

	return &Summary{
		Text:        summary,
		Model:       "local-extractive",
		ProcessedAt: time.Now(),
	}, nil
}

// Answer returns the context sentence that best overlaps the question
func (l *Local) Answer(_ context.Context, req AnswerRequest) (*Answer, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("question is empty")
	}

	// Short function words carry no signal and would drown out content words
	questionWords := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(question)) {
		w = strings.TrimFunc(w, unicode.IsPunct)
		if len([]rune(w)) >= 4 {
			questionWords[w] = struct{}{}
		}
	}
	if len(questionWords) == 0 {
		for _, w := range strings.Fields(strings.ToLower(question)) {
			questionWords[strings.TrimFunc(w, unicode.IsPunct)] = struct{}{}
		}
	}

	var (
		best      string
		bestScore float64
	)
	for _, sentence := range splitSentences(req.Context) {
		overlap := 0
		fields := strings.Fields(strings.ToLower(sentence))
		for _, w := range fields {
			if _, ok := questionWords[strings.TrimFunc(w, unicode.IsPunct)]; ok {
				overlap++
			}
		}
		if len(fields) == 0 {
			continue
		}
		score := float64(overlap) / float64(len(questionWords)+1)
		if score > bestScore || best == "" {
			best = sentence
			bestScore = score
		}
	}

	if best == "" {
		return nil, fmt.Errorf("context contains no sentences")
	}

	start := strings.Index(req.Context, best)
	end := -1
	if start >= 0 {
		end = start + len(best)
	}

	return &Answer{
		Text:  best,
		Score: bestScore,
		Start: start,
		End:   end,
	}, nil
}

// splitSentences splits text after terminal punctuation followed by space
func splitSentences(text string) []string {
	var (
		sentences []string
		current   strings.Builder
	)

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			atEnd := i == len(runes)-1
			if atEnd || unicode.IsSpace(runes[i+1]) {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// truncateWords caps text at n words
func truncateWords(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) <= n {
		return text
	}
	return strings.Join(fields[:n], " ")
}
