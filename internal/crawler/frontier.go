package crawler

import (
	"net/url"
	"strings"
	"sync"
)

// Frontier is the crawl queue plus the visited set. URLs move through
// unseen -> enqueued -> visited; success and failure fold into the same
// visited set so no URL is fetched twice in a run. The queue is FIFO and
// capacity-bound to keep discovery breadth-first without unbounded memory.
type Frontier struct {
	mu      sync.Mutex
	queue   []string
	queued  map[string]struct{}
	visited map[string]struct{}
	cap     int
}

func NewFrontier(capacity int) *Frontier {
	return &Frontier{
		queued:  make(map[string]struct{}),
		visited: make(map[string]struct{}),
		cap:     capacity,
	}
}

// Add enqueues a URL unless it is already queued, already visited, or the
// queue is full. It reports whether the URL was accepted.
func (f *Frontier) Add(rawURL string) bool {
	normalized := NormalizeURL(rawURL)
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) >= f.cap {
		return false
	}
	if _, ok := f.queued[normalized]; ok {
		return false
	}
	if _, ok := f.visited[normalized]; ok {
		return false
	}
	f.queued[normalized] = struct{}{}
	f.queue = append(f.queue, normalized)
	return true
}

// Next pops the oldest queued URL.
func (f *Frontier) Next() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return "", false
	}
	u := f.queue[0]
	f.queue = f.queue[1:]
	delete(f.queued, u)
	return u, true
}

// MarkVisited records a URL as fetched, successfully or not.
func (f *Frontier) MarkVisited(rawURL string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visited[NormalizeURL(rawURL)] = struct{}{}
}

// Visited reports whether a URL has been fetched in this run.
func (f *Frontier) Visited(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.visited[NormalizeURL(rawURL)]
	return ok
}

// Len returns the number of queued URLs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// VisitedCount returns the number of URLs fetched so far.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}

// NormalizeURL strips the fragment and a leading www so that trivially
// equivalent URLs dedupe to one frontier entry.
func NormalizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.Fragment = ""
	parsed.Host = strings.TrimPrefix(parsed.Host, "www.")
	if parsed.Scheme == "" {
		parsed.Scheme = "https"
	}
	return parsed.String()
}
