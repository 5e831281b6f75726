package tool

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"webresearch/internal/domain"
)

// DefaultDuckDuckGoURL is the HTML (JavaScript-free) endpoint.
const DefaultDuckDuckGoURL = "https://html.duckduckgo.com/html"

// DuckDuckGoBackend searches the web by scraping the DuckDuckGo HTML
// endpoint. It needs no API key or self-hosted instance, which makes it
// the default backend.
type DuckDuckGoBackend struct {
	client    *http.Client
	baseURL   string
	userAgent string
	logger    *slog.Logger
}

// NewDuckDuckGoBackend creates a DuckDuckGo search backend. An empty
// baseURL selects the public HTML endpoint.
func NewDuckDuckGoBackend(baseURL, userAgent string, logger *slog.Logger) *DuckDuckGoBackend {
	if baseURL == "" {
		baseURL = DefaultDuckDuckGoURL
	}
	return &DuckDuckGoBackend{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		logger:    logger,
	}
}

func (b *DuckDuckGoBackend) Name() string { return "duckduckgo" }

func (b *DuckDuckGoBackend) Search(ctx context.Context, query string, count int) ([]domain.SearchHit, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("q", query)
	req.URL.RawQuery = q.Encode()
	if b.userAgent != "" {
		req.Header.Set("User-Agent", b.userAgent)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed (HTTP %d)", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSearchBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	hits := parseDuckDuckGoResults(string(body), count)
	b.logger.Debug("duckduckgo search completed", "query", query, "results", len(hits))
	return hits, nil
}

// parseDuckDuckGoResults walks the result page. Each hit is an anchor
// with class "result__a"; the snippet that follows carries class
// "result__snippet" and attaches to the most recent hit.
func parseDuckDuckGoResults(page string, count int) []domain.SearchHit {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil
	}

	hits := []domain.SearchHit{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result__a"):
				if len(hits) >= count {
					return
				}
				u := resolveDuckDuckGoRedirect(attrValue(n, "href"))
				if u != "" {
					hits = append(hits, domain.SearchHit{
						URL:   u,
						Title: strings.TrimSpace(nodeText(n)),
					})
				}
				return
			case hasClass(n, "result__snippet"):
				if len(hits) > 0 && hits[len(hits)-1].Snippet == "" {
					hits[len(hits)-1].Snippet = strings.TrimSpace(nodeText(n))
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return hits
}

// resolveDuckDuckGoRedirect unwraps the /l/?uddg=<target> indirection
// DuckDuckGo puts in front of result links. Direct links pass through.
func resolveDuckDuckGoRedirect(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if strings.HasSuffix(u.Hostname(), "duckduckgo.com") && strings.HasPrefix(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
