package crawler

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"webseek/internal/storage"
)

// PageContent is everything extracted from one fetched page.
type PageContent struct {
	Title  string
	Text   string
	Links  []string
	Images []storage.Image
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// ExtractPage pulls the title, readable text, outbound links, and images
// out of raw HTML. Readability strips boilerplate (script, style,
// navigation) for the text; when it fails, a plain tag-stripping pass over
// the full document is used instead. An empty title falls back to the page
// URL.
func ExtractPage(rawHTML, pageURL string) (*PageContent, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	content := &PageContent{
		Links:  extractLinks(doc, base),
		Images: extractImages(doc, base),
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		content.Title = strings.TrimSpace(article.Title)
		content.Text = normalizeText(article.TextContent)
	} else {
		content.Title = strings.TrimSpace(doc.Find("title").First().Text())
		stripped := doc.Clone()
		stripped.Find("script, style, noscript, nav, header, footer, aside").Remove()
		content.Text = normalizeText(stripped.Text())
	}
	if content.Title == "" {
		content.Title = pageURL
	}
	return content, nil
}

func extractLinks(doc *goquery.Document, base *url.URL) []string {
	var links []string
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") {
			return
		}
		parsed, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(parsed)
		if resolved.Host == "" || (resolved.Scheme != "http" && resolved.Scheme != "https") {
			return
		}
		resolved.RawQuery = ""
		resolved.Fragment = ""
		link := resolved.String()
		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})
	return links
}

func extractImages(doc *goquery.Document, base *url.URL) []storage.Image {
	var images []storage.Image
	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		alt := strings.TrimSpace(sel.AttrOr("alt", ""))
		if src == "" || utf8.RuneCountInString(alt) <= 3 {
			return
		}
		parsed, err := url.Parse(src)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(parsed)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		images = append(images, storage.Image{
			URL:     resolved.String(),
			PageURL: base.String(),
			Alt:     alt,
		})
	})
	return images
}

func normalizeText(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
