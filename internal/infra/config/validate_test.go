package config

import (
	"errors"
	"testing"

	"webresearch/internal/domain"
)

func TestValidateDefaults(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Errorf("Validate(Defaults()) = %v", err)
	}
}

func TestValidateUnknownBackend(t *testing.T) {
	cfg := Defaults()
	cfg.Search.Backend = "bing"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if !errors.Is(err, domain.ErrConfigLoad) {
		t.Errorf("error = %v, want ErrConfigLoad", err)
	}
}

func TestValidateSearXNGRequiresURL(t *testing.T) {
	cfg := Defaults()
	cfg.Search.Backend = "searxng"
	cfg.Search.SearXNGURL = ""
	if err := Validate(cfg); err == nil {
		t.Error("expected error for searxng backend without URL")
	}
}

func TestValidateWorkerBounds(t *testing.T) {
	cfg := Defaults()
	cfg.Search.Workers = 0
	if err := Validate(cfg); err == nil {
		t.Error("expected error for search.workers = 0")
	}

	cfg = Defaults()
	cfg.Fetch.Workers = -1
	if err := Validate(cfg); err == nil {
		t.Error("expected error for fetch.workers = -1")
	}
}

func TestValidateFetchDefaults(t *testing.T) {
	cfg := Defaults()
	cfg.Fetch.DefaultMaxChars = 0
	if err := Validate(cfg); err == nil {
		t.Error("expected error for default_max_chars = 0")
	}

	cfg = Defaults()
	cfg.Fetch.DefaultTimeoutSeconds = 0
	if err := Validate(cfg); err == nil {
		t.Error("expected error for default_timeout_seconds = 0")
	}
}

func TestValidateLoggerFormat(t *testing.T) {
	cfg := Defaults()
	cfg.Logger.Format = "xml"
	if err := Validate(cfg); err == nil {
		t.Error("expected error for unknown logger format")
	}
}
