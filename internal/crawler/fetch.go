package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

const maxRedirects = 10

// Response bodies are capped; a page longer than this is truncated, not
// rejected.
const maxBodyBytes = 2 << 20

// Fetcher performs single-page HTTP GETs with a bounded timeout, a declared
// user agent, and charset-aware body decoding.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		userAgent: userAgent,
	}
}

// Fetch returns the UTF-8 decoded body of the page, or an error for any
// network failure, timeout, or non-200 status.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: HTTP %d", pageURL, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)
	utf8Reader, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		utf8Reader = body
	}
	data, err := io.ReadAll(utf8Reader)
	if err != nil {
		return "", fmt.Errorf("reading body of %s: %w", pageURL, err)
	}
	return string(data), nil
}
