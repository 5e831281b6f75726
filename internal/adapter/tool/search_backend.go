package tool

import (
	"context"

	"webresearch/internal/domain"
)

// SearchBackend abstracts a web search engine.
type SearchBackend interface {
	// Search performs a web search and returns up to count hits.
	Search(ctx context.Context, query string, count int) ([]domain.SearchHit, error)
	// Name returns the backend identifier (e.g. "searxng").
	Name() string
}
