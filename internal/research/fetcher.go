package research

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/NJRca/Metapod/internal/config"
)

var (
	scriptRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
)

// Fetcher retrieves and cleans document text over HTTP. Every request is
// bounded by the client timeout and identifies itself with a fixed
// user agent.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxLength int
}

// FetcherOption customizes a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient swaps the underlying HTTP client (used by tests).
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = client }
}

// WithUserAgent overrides the identifying user agent.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithTimeout overrides the per-fetch timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) { f.client.Timeout = d }
}

// NewFetcher returns a fetcher with the default 30-second timeout.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: config.ResearchTimeout},
		userAgent: config.ResearchUserAgent,
		maxLength: config.ResearchMaxContentLength,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch GETs a URL and returns its cleaned text: script and style blocks
// removed, remaining markup stripped, whitespace collapsed, and the result
// truncated to the configured maximum length.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rawURL, err)
	}

	return f.clean(string(body)), nil
}

func (f *Fetcher) clean(html string) string {
	text := scriptRe.ReplaceAllString(html, " ")
	text = styleRe.ReplaceAllString(text, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > f.maxLength {
		text = text[:f.maxLength]
	}
	return text
}
