package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadClientDefaults(t *testing.T) {
	t.Setenv("EVENTS_URL", "http://localhost:8080/events")
	t.Setenv("EVENTS_TIMEOUT_MS", "")
	t.Setenv("EVENTS_HEADERS", "")

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Timeout() != 60000*time.Millisecond {
		t.Fatalf("expected default timeout, got %v", cfg.Timeout())
	}
	if cfg.Version != 1 {
		t.Fatalf("expected default version 1, got %d", cfg.Version)
	}
	if len(cfg.Headers) != 0 {
		t.Fatalf("expected no headers, got %v", cfg.Headers)
	}
}

func TestLoadClientHeaders(t *testing.T) {
	t.Setenv("EVENTS_URL", "http://localhost:8080/events")
	t.Setenv("EVENTS_TIMEOUT_MS", "5000")
	t.Setenv("EVENTS_HEADERS", "X-API-Key:k1, Authorization:Bearer a:b ,X-API-Key:k2")

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Timeout() != 5*time.Second {
		t.Fatalf("expected 5s, got %v", cfg.Timeout())
	}
	if got := strings.Join(cfg.Headers.Values("X-Api-Key"), ","); got != "k1,k2" {
		t.Fatalf("expected both api keys, got %q", got)
	}
	if got := cfg.Headers.Get("Authorization"); got != "Bearer a:b" {
		t.Fatalf("unexpected authorization %q", got)
	}
}

func TestLoadClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		timeout string
		headers string
	}{
		{"missing url", "", "", ""},
		{"blank url", "   ", "", ""},
		{"zero timeout", "http://x", "0", ""},
		{"bad timeout", "http://x", "soon", ""},
		{"bad headers", "http://x", "", "novalue"},
		{"empty header key", "http://x", "", ":v"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EVENTS_URL", tt.url)
			t.Setenv("EVENTS_TIMEOUT_MS", tt.timeout)
			t.Setenv("EVENTS_HEADERS", tt.headers)
			if _, err := LoadClient(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadServer(t *testing.T) {
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("DB_URL", "")
	t.Setenv("API_KEYS", "tenant1:key1, tenant2:key2")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected default listen addr, got %q", cfg.ListenAddr)
	}
	if cfg.APIKeys["key1"] != "tenant1" || cfg.APIKeys["key2"] != "tenant2" {
		t.Fatalf("unexpected api keys %v", cfg.APIKeys)
	}
}

func TestLoadServerRejectsBadKeys(t *testing.T) {
	t.Setenv("API_KEYS", "tenant1")
	if _, err := LoadServer(); err == nil {
		t.Fatal("expected error")
	}
}
