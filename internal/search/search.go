// Package search fetches web results for providers that cannot search on
// their own. Results are formatted for injection into a prompt.
package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// DefaultEndpoint is DuckDuckGo's script-free results page.
const DefaultEndpoint = "https://html.duckduckgo.com/html/"

const (
	defaultMaxResults = 6
	maxBodyBytes      = 1 << 20
	userAgent         = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) standup"
)

// Result is one search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// HTTPDoer defines the HTTP operations required by Searcher.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Searcher queries an HTML search endpoint.
type Searcher struct {
	http       HTTPDoer
	endpoint   string
	maxResults int
	log        *zap.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(s *Searcher) { s.http = c }
}

// WithEndpoint points the searcher at another results page.
func WithEndpoint(u string) Option {
	return func(s *Searcher) { s.endpoint = u }
}

// WithMaxResults caps the number of results returned.
func WithMaxResults(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Searcher) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Searcher with DuckDuckGo defaults.
func New(opts ...Option) *Searcher {
	s := &Searcher{
		http:       http.DefaultClient,
		endpoint:   DefaultEndpoint,
		maxResults: defaultMaxResults,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns up to the configured number of results for query.
func (s *Searcher) Search(ctx context.Context, query string) ([]Result, error) {
	u := s.endpoint + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web search failed (status %d)", resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing search results: %w", err)
	}

	results := parseResults(doc, s.maxResults)
	s.log.Debug("web search", zap.String("query", query), zap.Int("results", len(results)))
	return results, nil
}

// Format renders results as a prompt section. No results yields "".
func Format(query string, results []Result) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "WEB SEARCH RESULTS for %q:\n\n", query)
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] %s\n%s\n", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			b.WriteString(r.Snippet + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func parseResults(doc *html.Node, limit int) []Result {
	var results []Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "result") {
			if r := parseResult(n); r.Title != "" && r.URL != "" {
				results = append(results, r)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return results
}

func parseResult(n *html.Node) Result {
	var r Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result__a"):
				r.Title = text(n)
				r.URL = resolveRedirect(attr(n, "href"))
			case hasClass(n, "result__snippet"):
				r.Snippet = text(n)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return r
}

// resolveRedirect unwraps DuckDuckGo's //duckduckgo.com/l/?uddg=<target> links.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" && strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
