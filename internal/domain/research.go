package domain

// SearchHit is a single result returned by a search provider.
// Immutable once created; never persisted.
type SearchHit struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// SearchResponse is the merged outcome of a multi-query search.
//
// URLs holds the deduplicated URL set in first-seen order. Every URL in
// URLs has an entry in Snippets and Titles (possibly empty). QueryResults
// maps each query to the original, non-deduplicated URLs the provider
// returned for it, in provider order.
type SearchResponse struct {
	URLs         []string            `json:"urls"`
	Snippets     map[string]string   `json:"snippets"`
	Titles       map[string]string   `json:"titles"`
	QueryResults map[string][]string `json:"query_results"`
}

// EmptySearchResponse returns a SearchResponse with all collections
// initialized and empty, used for the empty-queries shortcut.
func EmptySearchResponse() *SearchResponse {
	return &SearchResponse{
		URLs:         []string{},
		Snippets:     map[string]string{},
		Titles:       map[string]string{},
		QueryResults: map[string][]string{},
	}
}

// FetchOutcome is the per-URL result of one fetch worker. Exactly one of
// Content-present or Err-present holds; Title is independent and may be
// empty even on success.
type FetchOutcome struct {
	URL     string
	Content string
	Title   string
	Err     string
	Fetched bool // true when Content is valid (distinguishes empty pages from failures)
}

// FetchResponse is the aggregated outcome of a fetch batch.
//
// Each input URL appears in exactly one of Contents or Errors.
// SuccessCount and ErrorCount are always derived from the map sizes.
type FetchResponse struct {
	Contents     map[string]string `json:"contents"`
	Titles       map[string]string `json:"titles"`
	Errors       map[string]string `json:"errors"`
	SuccessCount int               `json:"success_count"`
	ErrorCount   int               `json:"error_count"`
}

// EmptyFetchResponse returns an all-zero FetchResponse with initialized maps.
func EmptyFetchResponse() *FetchResponse {
	return &FetchResponse{
		Contents: map[string]string{},
		Titles:   map[string]string{},
		Errors:   map[string]string{},
	}
}
