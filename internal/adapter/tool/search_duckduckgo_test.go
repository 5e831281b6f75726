package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

const ddgFixture = `<html><body>
<div class="results">
  <div class="result">
    <h2 class="result__title">
      <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fdocs&amp;rut=abc">Example Docs</a>
    </h2>
    <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fdocs">All about examples.</a>
  </div>
  <div class="result">
    <h2 class="result__title">
      <a class="result__a" href="https://other.org/page">Other Page</a>
    </h2>
    <a class="result__snippet" href="https://other.org/page">Something else entirely.</a>
  </div>
</div>
</body></html>`

func TestDuckDuckGoParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "example docs" {
			t.Errorf("query param = %q, want example docs", got)
		}
		fmt.Fprint(w, ddgFixture)
	}))
	defer srv.Close()

	b := NewDuckDuckGoBackend(srv.URL, "test-agent", testLogger())
	hits, err := b.Search(context.Background(), "example docs", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].URL != "https://example.com/docs" {
		t.Errorf("redirect not unwrapped: %s", hits[0].URL)
	}
	if hits[0].Title != "Example Docs" {
		t.Errorf("title = %q", hits[0].Title)
	}
	if hits[0].Snippet != "All about examples." {
		t.Errorf("snippet = %q", hits[0].Snippet)
	}
	if hits[1].URL != "https://other.org/page" {
		t.Errorf("direct link mangled: %s", hits[1].URL)
	}
}

func TestDuckDuckGoRespectsCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, ddgFixture)
	}))
	defer srv.Close()

	b := NewDuckDuckGoBackend(srv.URL, "", testLogger())
	hits, err := b.Search(context.Background(), "q", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("expected count cap of 1, got %d", len(hits))
	}
}

func TestDuckDuckGoServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	b := NewDuckDuckGoBackend(srv.URL, "", testLogger())
	if _, err := b.Search(context.Background(), "q", 5); err == nil {
		t.Error("expected error on HTTP 429")
	}
}

func TestResolveDuckDuckGoRedirect(t *testing.T) {
	target := "https://example.com/path?x=1"
	wrapped := "//duckduckgo.com/l/?uddg=" + url.QueryEscape(target) + "&rut=xyz"

	if got := resolveDuckDuckGoRedirect(wrapped); got != target {
		t.Errorf("unwrap = %q, want %q", got, target)
	}
	if got := resolveDuckDuckGoRedirect("https://direct.example.com/"); got != "https://direct.example.com/" {
		t.Errorf("direct link changed: %q", got)
	}
	if got := resolveDuckDuckGoRedirect(""); got != "" {
		t.Errorf("empty href should stay empty, got %q", got)
	}
}
