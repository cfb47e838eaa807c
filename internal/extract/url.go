package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const userAgent = "Mozilla/5.0 (compatible; TextDigest Bot/1.0)"

var spaceRe = regexp.MustCompile(`\s+`)

// resolveURL fetches a page and extracts its visible text
func (r *Resolver) resolveURL(ctx context.Context, rawURL string) (string, error) {
	if r.urlPattern.FindString(rawURL) != rawURL {
		return "", &InputError{
			Kind:    KindUnreachableURL,
			Message: fmt.Sprintf("%q is not a valid http(s) URL", rawURL),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &InputError{
			Kind:    KindUnreachableURL,
			Message: fmt.Sprintf("creating request for %s", rawURL),
			Err:     err,
		}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", &InputError{
			Kind:    KindUnreachableURL,
			Message: fmt.Sprintf("fetching %s", rawURL),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &InputError{
			Kind:    KindUnreachableURL,
			Message: fmt.Sprintf("fetching %s: unexpected status code %d", rawURL, resp.StatusCode),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "text/plain"):
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", &InputError{
				Kind:    KindUnreachableURL,
				Message: fmt.Sprintf("reading %s", rawURL),
				Err:     err,
			}
		}
		return string(body), nil
	case contentType == "" || strings.Contains(contentType, "html") || strings.Contains(contentType, "xml"):
		return extractPageText(resp.Body, rawURL)
	default:
		return "", &InputError{
			Kind:    KindUnsupportedFormat,
			Message: fmt.Sprintf("%s returned unsupported content type %q", rawURL, contentType),
		}
	}
}

// extractPageText strips markup and non-content elements from an HTML page
func extractPageText(body io.Reader, rawURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", &InputError{
			Kind:    KindUnreachableURL,
			Message: fmt.Sprintf("parsing page at %s", rawURL),
			Err:     err,
		}
	}

	doc.Find("script, style, noscript, iframe").Remove()

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}

	return spaceRe.ReplaceAllString(strings.TrimSpace(text), " "), nil
}
