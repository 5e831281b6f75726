package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"webresearch/internal/domain"
	"webresearch/internal/infra/config"
	"webresearch/internal/infra/tracer"
	"webresearch/internal/security"
	"webresearch/internal/usecase"
	"webresearch/internal/webpage"
)

// FetchPagesTool downloads several pages concurrently, strips the
// boilerplate from each, and returns the readable text per URL.
type FetchPagesTool struct {
	client         *http.Client
	workers        int
	maxBodyBytes   int64
	userAgent      string
	defaultChars   int
	defaultTimeout time.Duration
	ssrf           bool
	logger         *slog.Logger
}

// NewFetchPagesTool creates the fetch_pages tool from fetch configuration.
func NewFetchPagesTool(cfg config.FetchConfig, logger *slog.Logger) *FetchPagesTool {
	var transport http.RoundTripper
	if cfg.SSRFProtection {
		transport = security.NewSSRFSafeTransport()
	} else {
		transport = http.DefaultTransport
	}

	maxRedirects := cfg.MaxRedirects
	client := &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			if cfg.SSRFProtection {
				return security.ValidateURL(req.URL.String())
			}
			return nil
		},
	}

	return &FetchPagesTool{
		client:         client,
		workers:        cfg.Workers,
		maxBodyBytes:   cfg.MaxBodyBytes,
		userAgent:      cfg.UserAgent,
		defaultChars:   cfg.DefaultMaxChars,
		defaultTimeout: time.Duration(cfg.DefaultTimeoutSeconds) * time.Second,
		ssrf:           cfg.SSRFProtection,
		logger:         logger,
	}
}

func (t *FetchPagesTool) Name() string { return "fetch_pages" }

func (t *FetchPagesTool) Description() string {
	return "Fetch multiple web pages concurrently and extract their readable " +
		"text content. Per-URL failures are reported alongside the successes " +
		"instead of failing the whole batch."
}

func (t *FetchPagesTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"urls": {
					"type": "array",
					"items": {"type": "string"},
					"description": "URLs to fetch concurrently"
				},
				"max_chars": {
					"type": "integer",
					"minimum": 100,
					"description": "Maximum characters of extracted content per page (default: 15000)"
				},
				"timeout_seconds": {
					"type": "integer",
					"minimum": 1,
					"maximum": 120,
					"description": "Per-page fetch timeout in seconds (default: 30)"
				}
			},
			"required": ["urls"]
		}`),
	}
}

type fetchPagesParams struct {
	URLs           []string `json:"urls"`
	MaxChars       int      `json:"max_chars,omitempty"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty"`
}

func (t *FetchPagesTool) Execute(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
	return Execute(ctx, "tool.fetch_pages", t.logger, params,
		func(ctx context.Context, span trace.Span, p fetchPagesParams) (any, error) {
			if len(p.URLs) == 0 {
				return domain.EmptyFetchResponse(), nil
			}

			maxChars := p.MaxChars
			if maxChars <= 0 {
				maxChars = t.defaultChars
			}
			timeout := time.Duration(p.TimeoutSeconds) * time.Second
			if timeout <= 0 {
				timeout = t.defaultTimeout
			}
			span.SetAttributes(
				tracer.IntAttr("urls", len(p.URLs)),
				tracer.IntAttr("max_chars", maxChars),
			)

			outcomes := usecase.FanOut(ctx, p.URLs, t.workers,
				func(ctx context.Context, url string) domain.FetchOutcome {
					return t.fetchOne(ctx, url, maxChars, timeout)
				})

			resp := buildFetchResponse(p.URLs, outcomes)
			t.logger.Info("fetch_pages completed",
				"urls", len(p.URLs),
				"succeeded", resp.SuccessCount,
				"failed", resp.ErrorCount,
			)
			return resp, nil
		})
}

// fetchOne downloads and extracts a single page. Every failure mode is
// folded into the outcome's Err field so the batch always completes.
func (t *FetchPagesTool) fetchOne(ctx context.Context, url string, maxChars int, timeout time.Duration) (out domain.FetchOutcome) {
	out.URL = url
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("fetch worker panic", "url", url, "panic", r)
			out = domain.FetchOutcome{URL: url, Err: fmt.Sprintf("unexpected error: %v", r)}
		}
	}()

	if err := ValidateURL("url", url); err != nil {
		out.Err = err.Error()
		return out
	}
	if t.ssrf {
		if err := security.ValidateURL(url); err != nil {
			out.Err = err.Error()
			return out
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		out.Err = fmt.Sprintf("create request: %v", err)
		return out
	}
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := t.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			out.Err = fmt.Sprintf("request timed out after %s", timeout)
		} else {
			out.Err = err.Error()
		}
		return out
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		out.Err = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		return out
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTMLContentType(contentType) {
		out.Err = fmt.Sprintf("%s: %s", domain.ErrNonHTMLContent, contentType)
		return out
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBodyBytes))
	if err != nil {
		out.Err = fmt.Sprintf("read body: %v", err)
		return out
	}

	page := string(body)
	out.Content = webpage.Extract(page, maxChars)
	out.Title = webpage.ExtractTitle(page)
	out.Fetched = true
	return out
}

// isHTMLContentType reports whether the response can be parsed as a web
// page. Anything else (PDF, JSON, images) gets a distinct per-URL error.
func isHTMLContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

// buildFetchResponse folds worker outcomes into the response maps. Each
// input URL lands in exactly one of Contents or Errors; a duplicate
// input URL keeps its first outcome. Counts derive from the map sizes.
func buildFetchResponse(urls []string, outcomes []domain.FetchOutcome) *domain.FetchResponse {
	resp := domain.EmptyFetchResponse()
	for i, url := range urls {
		if _, ok := resp.Contents[url]; ok {
			continue
		}
		if _, ok := resp.Errors[url]; ok {
			continue
		}
		out := outcomes[i]
		if out.Fetched {
			resp.Contents[url] = out.Content
			if out.Title != "" {
				resp.Titles[url] = out.Title
			}
		} else {
			errMsg := out.Err
			if errMsg == "" {
				errMsg = "fetch failed"
			}
			resp.Errors[url] = errMsg
		}
	}
	resp.SuccessCount = len(resp.Contents)
	resp.ErrorCount = len(resp.Errors)
	return resp
}
