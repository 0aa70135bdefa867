package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// robotsCache loads robots.txt once per host and answers path checks. A
// host whose robots.txt cannot be fetched or parsed is treated as
// allowing everything.
type robotsCache struct {
	fetcher   *Fetcher
	userAgent string
	mu        sync.Mutex
	groups    map[string]*robotstxt.Group
}

func newRobotsCache(fetcher *Fetcher, userAgent string) *robotsCache {
	return &robotsCache{
		fetcher:   fetcher,
		userAgent: userAgent,
		groups:    make(map[string]*robotstxt.Group),
	}
}

// Allowed reports whether the crawler may fetch the given URL.
func (r *robotsCache) Allowed(ctx context.Context, pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return false
	}

	r.mu.Lock()
	group, ok := r.groups[u.Host]
	if !ok {
		group = r.load(ctx, u)
		r.groups[u.Host] = group
	}
	r.mu.Unlock()

	if group == nil {
		return true
	}
	return group.Test(u.Path)
}

func (r *robotsCache) load(ctx context.Context, u *url.URL) *robotstxt.Group {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.userAgent)
	resp, err := r.fetcher.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data.FindGroup(r.userAgent)
}
