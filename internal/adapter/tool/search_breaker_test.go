package tool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sony/gobreaker/v2"

	"webresearch/internal/domain"
	"webresearch/internal/infra/config"
)

// flakyBackend fails a fixed number of times, then succeeds.
type flakyBackend struct {
	failures int
	calls    int
}

func (f *flakyBackend) Name() string { return "flaky" }

func (f *flakyBackend) Search(ctx context.Context, query string, count int) ([]domain.SearchHit, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, fmt.Errorf("transient failure %d", f.calls)
	}
	return []domain.SearchHit{{URL: "https://example.com"}}, nil
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &flakyBackend{failures: 100}
	cb := NewCircuitBreakerBackend(inner, config.BreakerConfig{MaxFailures: 3}, testLogger())

	for i := 0; i < 3; i++ {
		if _, err := cb.Search(context.Background(), "q", 5); err == nil {
			t.Fatalf("call %d: expected failure", i)
		}
	}

	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", cb.State())
	}

	// Open circuit fails fast without touching the backend.
	before := inner.calls
	_, err := cb.Search(context.Background(), "q", 5)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if inner.calls != before {
		t.Error("open circuit must not reach the backend")
	}
}

func TestCircuitBreakerPassesThroughSuccess(t *testing.T) {
	inner := &flakyBackend{failures: 0}
	cb := NewCircuitBreakerBackend(inner, config.BreakerConfig{}, testLogger())

	hits, err := cb.Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].URL != "https://example.com" {
		t.Errorf("unexpected hits: %+v", hits)
	}
	if cb.Name() != "flaky" {
		t.Errorf("Name = %q, want inner name", cb.Name())
	}
}
