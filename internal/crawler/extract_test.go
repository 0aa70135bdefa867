package crawler

import (
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html><head><title>Sample Page</title><script>var x = "ignored";</script></head>
<body>
<nav><a href="/nav-link">Navigation</a></nav>
<article>
<h1>Sample Page</h1>
<p>Some meaningful body text about web crawling that is long enough for the
extractor to treat this element as the main content of the page. It keeps
going for a couple of sentences so readability has something to work with.</p>
<a href="/relative">Relative</a>
<a href="https://other.example/page?utm=1#top">Absolute</a>
<a href="mailto:someone@example.com">Mail</a>
<a href="#anchor">Anchor</a>
<img src="/images/cat.png" alt="a fluffy cat">
<img src="/images/pixel.gif" alt="ad">
</article>
</body></html>`

func TestExtractPageLinks(t *testing.T) {
	content, err := ExtractPage(samplePage, "https://site.example/dir/page")
	if err != nil {
		t.Fatal(err)
	}

	wantLinks := map[string]bool{
		"https://site.example/nav-link": false,
		"https://site.example/relative": false,
		"https://other.example/page":    false,
	}
	for _, link := range content.Links {
		if _, ok := wantLinks[link]; !ok {
			t.Errorf("unexpected link %q", link)
			continue
		}
		wantLinks[link] = true
	}
	for link, seen := range wantLinks {
		if !seen {
			t.Errorf("missing link %q", link)
		}
	}
}

func TestExtractPageTitleAndText(t *testing.T) {
	content, err := ExtractPage(samplePage, "https://site.example/dir/page")
	if err != nil {
		t.Fatal(err)
	}
	if content.Title != "Sample Page" {
		t.Errorf("Title = %q, want %q", content.Title, "Sample Page")
	}
	if !strings.Contains(content.Text, "meaningful body text") {
		t.Errorf("Text missing article body: %q", content.Text)
	}
	if strings.Contains(content.Text, "ignored") {
		t.Errorf("Text contains script content: %q", content.Text)
	}
}

func TestExtractPageTitleFallsBackToURL(t *testing.T) {
	content, err := ExtractPage("<html><body><p>no title here at all</p></body></html>",
		"https://site.example/untitled")
	if err != nil {
		t.Fatal(err)
	}
	if content.Title != "https://site.example/untitled" {
		t.Errorf("Title = %q, want the page URL", content.Title)
	}
}

func TestExtractPageImages(t *testing.T) {
	content, err := ExtractPage(samplePage, "https://site.example/dir/page")
	if err != nil {
		t.Fatal(err)
	}
	if len(content.Images) != 1 {
		t.Fatalf("got %d images, want 1 (short alt text must be dropped)", len(content.Images))
	}
	img := content.Images[0]
	if img.URL != "https://site.example/images/cat.png" {
		t.Errorf("image URL = %q", img.URL)
	}
	if img.Alt != "a fluffy cat" {
		t.Errorf("image alt = %q", img.Alt)
	}
	if img.PageURL != "https://site.example/dir/page" {
		t.Errorf("image page URL = %q", img.PageURL)
	}
}

func TestExtractPageMalformedHTML(t *testing.T) {
	// Best-effort extraction: truncated markup must not error out.
	content, err := ExtractPage("<html><body><p>dangling paragraph", "https://site.example/broken")
	if err != nil {
		t.Fatalf("ExtractPage() error = %v", err)
	}
	if !strings.Contains(content.Text, "dangling paragraph") {
		t.Errorf("Text = %q", content.Text)
	}
}
