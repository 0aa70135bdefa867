package storage

// Document is a crawled page as stored in the documents table. A document
// is created once per unique URL and never updated afterwards.
type Document struct {
	ID         int64  `json:"id"`
	URL        string `json:"url"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Popularity int64  `json:"popularity"`
}

// Page is the ingest input produced by the crawler for one fetched URL.
type Page struct {
	URL        string
	Title      string
	Content    string
	Popularity int64
}

// TermMatch is one posting joined with its document, shaped for scoring:
// the query engine needs the frequency plus the title/URL/popularity and a
// coarse length proxy, never the full content.
type TermMatch struct {
	DocID         int64
	URL           string
	Title         string
	Frequency     int
	Popularity    int64
	ContentLength int
	Snippet       string
}

// Image is one entry of the image side-channel keyed by page URL.
type Image struct {
	URL     string `json:"url"`
	PageURL string `json:"page_url"`
	Alt     string `json:"alt"`
}
