package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"mvdan.cc/xurls/v2"
)

// InputError kinds, surfaced as user-facing messages
const (
	KindUnsupportedFormat = "unsupported_format"
	KindUnreadableFile    = "unreadable_file"
	KindUnreachableURL    = "unreachable_url"
	KindEmptyContent      = "empty_content"
)

// InputError represents a failure to resolve user input into usable text
type InputError struct {
	Kind    string
	Message string
	Err     error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Input is one user submission. Exactly one source is used per invocation,
// with precedence file > URL > raw text.
type Input struct {
	Text     string
	Filename string
	File     io.Reader
	URL      string
}

// Resolver turns an Input into plain text ready for inference
type Resolver struct {
	httpClient *http.Client
	urlPattern *regexp.Regexp
	minChars   int
}

// NewResolver creates a resolver. minChars is the minimum number of
// characters the resolved text must contain after trimming.
func NewResolver(minChars int, fetchTimeout time.Duration) (*Resolver, error) {
	urlPattern, err := xurls.StrictMatchingScheme(`https?://`)
	if err != nil {
		return nil, fmt.Errorf("compiling URL pattern: %w", err)
	}

	return &Resolver{
		httpClient: &http.Client{Timeout: fetchTimeout},
		urlPattern: urlPattern,
		minChars:   minChars,
	}, nil
}

// Resolve extracts plain text from the input. Every failure is an *InputError.
func (r *Resolver) Resolve(ctx context.Context, in Input) (string, error) {
	var (
		text string
		err  error
	)

	switch {
	case in.File != nil:
		text, err = r.resolveFile(in.Filename, in.File)
	case strings.TrimSpace(in.URL) != "":
		text, err = r.resolveURL(ctx, strings.TrimSpace(in.URL))
	default:
		text = in.Text
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) < r.minChars {
		return "", &InputError{
			Kind:    KindEmptyContent,
			Message: fmt.Sprintf("input is empty or too short (need at least %d characters)", r.minChars),
		}
	}

	return text, nil
}
