package tool

import (
	"context"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"webresearch/internal/domain"
	"webresearch/internal/infra/config"
	"webresearch/internal/infra/tracer"
	"webresearch/internal/usecase"
	"webresearch/internal/webpage"
)

const defaultResultsPerQuery = 5

// MultiSearchTool runs several web searches concurrently and merges the
// results into one deduplicated URL set with per-URL metadata.
type MultiSearchTool struct {
	backend    SearchBackend
	workers    int
	maxResults int
	limiter    *rate.Limiter // nil when pacing is disabled
	logger     *slog.Logger
}

// NewMultiSearchTool creates the multi_search tool on top of backend.
func NewMultiSearchTool(backend SearchBackend, cfg config.SearchConfig, logger *slog.Logger) *MultiSearchTool {
	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	return &MultiSearchTool{
		backend:    backend,
		workers:    cfg.Workers,
		maxResults: cfg.MaxResultsPerQuery,
		limiter:    limiter,
		logger:     logger,
	}
}

func (t *MultiSearchTool) Name() string { return "multi_search" }

func (t *MultiSearchTool) Description() string {
	return "Search the web with multiple queries at once. Returns a deduplicated " +
		"list of result URLs with per-URL titles and snippets, plus the raw " +
		"result list for each query."
}

func (t *MultiSearchTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"queries": {
					"type": "array",
					"items": {"type": "string"},
					"description": "Search queries to run concurrently"
				},
				"results_per_query": {
					"type": "integer",
					"minimum": 1,
					"maximum": 20,
					"description": "Number of results to return per query (default: 5)"
				}
			},
			"required": ["queries"]
		}`),
	}
}

type multiSearchParams struct {
	Queries         []string `json:"queries"`
	ResultsPerQuery int      `json:"results_per_query,omitempty"`
}

func (t *MultiSearchTool) Execute(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
	return Execute(ctx, "tool.multi_search", t.logger, params,
		func(ctx context.Context, span trace.Span, p multiSearchParams) (any, error) {
			if len(p.Queries) == 0 {
				return domain.EmptySearchResponse(), nil
			}

			perQuery := clampDefault(p.ResultsPerQuery, defaultResultsPerQuery, t.maxResults)
			span.SetAttributes(
				tracer.IntAttr("queries", len(p.Queries)),
				tracer.IntAttr("results_per_query", perQuery),
			)

			hits := usecase.FanOut(ctx, p.Queries, t.workers,
				func(ctx context.Context, query string) []domain.SearchHit {
					return t.searchOne(ctx, query, perQuery)
				})

			resp := buildSearchResponse(p.Queries, hits)
			t.logger.Info("multi_search completed",
				"queries", len(p.Queries),
				"unique_urls", len(resp.URLs),
			)
			return resp, nil
		})
}

// searchOne runs a single provider call. Provider failures degrade to
// zero results so one bad query never sinks the batch; the error is
// logged but not surfaced to the caller.
func (t *MultiSearchTool) searchOne(ctx context.Context, query string, count int) (hits []domain.SearchHit) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("search worker panic", "query", query, "panic", r)
			hits = nil
		}
	}()

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil
		}
	}

	hits, err := t.backend.Search(ctx, query, count)
	if err != nil {
		t.logger.Warn("search failed, returning zero results",
			"backend", t.backend.Name(),
			"query", query,
			"error", err,
		)
		return nil
	}
	return hits
}

// buildSearchResponse merges per-query hits. Metadata is keyed by the
// first-seen form of each URL; later duplicates (including equivalent
// forms that normalize identically) never overwrite it.
func buildSearchResponse(queries []string, perQuery [][]domain.SearchHit) *domain.SearchResponse {
	resp := domain.EmptySearchResponse()
	snippets := map[string]string{}
	titles := map[string]string{}
	var all []string

	for i, query := range queries {
		urls := []string{}
		for _, hit := range perQuery[i] {
			if hit.URL == "" {
				continue
			}
			if _, seen := snippets[hit.URL]; !seen {
				snippets[hit.URL] = hit.Snippet
				titles[hit.URL] = hit.Title
			}
			urls = append(urls, hit.URL)
			all = append(all, hit.URL)
		}
		if _, seen := resp.QueryResults[query]; !seen {
			resp.QueryResults[query] = urls
		}
	}

	resp.URLs = webpage.Deduplicate(all)
	for _, u := range resp.URLs {
		resp.Snippets[u] = snippets[u]
		resp.Titles[u] = titles[u]
	}
	return resp
}
