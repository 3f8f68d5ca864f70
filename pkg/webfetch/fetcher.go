// Package webfetch pulls readable text from the college website for the
// web-search permission flow. Pages are fetched on demand, never crawled.
package webfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// maxContentChars bounds the extracted text handed to the answer generator.
const maxContentChars = 4000

type Fetcher struct {
	client   *http.Client
	siteURLs map[string]string
	deptURLs map[string]string
}

// NewFetcher maps URL categories to official website pages. siteURLs must
// contain "home" and "general"; deptURLs is keyed by department slug
// (cse, ece, ...) without the dept_ prefix.
func NewFetcher(siteURLs, deptURLs map[string]string) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		siteURLs: siteURLs,
		deptURLs: deptURLs,
	}
}

// ResolveURL picks the page for a detected category. Department categories
// carry a dept_ prefix and resolve against the department map.
func (f *Fetcher) ResolveURL(category string) string {
	if strings.HasPrefix(category, "dept_") {
		if u, ok := f.deptURLs[strings.TrimPrefix(category, "dept_")]; ok {
			return u
		}
		return f.siteURLs["departments"]
	}
	if u, ok := f.siteURLs[category]; ok {
		return u
	}
	return f.siteURLs["general"]
}

// FetchText downloads the page and returns its visible text, whitespace
// collapsed and capped to a size the answer generator can absorb.
func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "admissions-chatbot/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}

	text := ExtractText(string(body))
	if text == "" {
		return "", fmt.Errorf("no readable text at %s", url)
	}
	return text, nil
}

var (
	scriptRe = regexp.MustCompile(`(?is)<script.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style.*?</style>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// ExtractText strips markup from an HTML document. Good enough for the
// college's static pages; this is not a general HTML parser.
func ExtractText(html string) string {
	text := scriptRe.ReplaceAllString(html, " ")
	text = styleRe.ReplaceAllString(text, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">", "&#39;", "'", "&quot;", `"`).Replace(text)
	text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
	if len(text) > maxContentChars {
		text = text[:maxContentChars]
	}
	return text
}
