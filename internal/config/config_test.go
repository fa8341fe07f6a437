package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load with defaults: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("default port %q, want 8080", cfg.Port)
	}
	if cfg.MaxConcurrency != 4 {
		t.Fatalf("default concurrency %d, want 4", cfg.MaxConcurrency)
	}
	if cfg.FetchLimit != 50 {
		t.Fatalf("default fetch limit %d, want 50", cfg.FetchLimit)
	}
	if cfg.LLMTimeoutSec != 12 {
		t.Fatalf("default llm timeout %d, want 12", cfg.LLMTimeoutSec)
	}
	if cfg.ElevenLabsBaseURL == "" {
		t.Fatal("expected a default base url")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_CONCURRENCY", "16")
	t.Setenv("LLM_GATEWAY_URL", "http://localhost:11434/v1/chat/completions")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("port %q, want 9090", cfg.Port)
	}
	if cfg.MaxConcurrency != 16 {
		t.Fatalf("concurrency %d, want 16", cfg.MaxConcurrency)
	}
	if cfg.LLMGatewayURL == "" {
		t.Fatal("gateway url should be populated")
	}
}

func TestLoadRejectsOutOfRangeValues(t *testing.T) {
	t.Setenv("MAX_CONCURRENCY", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for zero concurrency")
	}

	t.Setenv("MAX_CONCURRENCY", "4")
	t.Setenv("FETCH_LIMIT", "10000")
	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for oversized fetch limit")
	}
}
