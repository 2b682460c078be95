package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// ClientConfig drives the eventsctl CLI.
type ClientConfig struct {
	URL        string `env:"EVENTS_URL,required"`
	TimeoutMS  int    `env:"EVENTS_TIMEOUT_MS" envDefault:"60000"`
	Version    int    `env:"EVENTS_VERSION" envDefault:"1"`
	FlowID     string `env:"EVENTS_FLOW_ID"`
	HeadersRaw string `env:"EVENTS_HEADERS"`

	Headers http.Header // parsed from HeadersRaw
}

// Timeout returns the configured per-call timeout.
func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// ServerConfig contains runtime configuration for the eventsd reference server.
type ServerConfig struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	DBURL      string `env:"DB_URL"` // empty selects the in-memory journal
	APIKeysRaw string `env:"API_KEYS"`

	APIKeys map[string]string // apiKey -> tenantID; empty disables auth
}

// LoadClient reads the CLI configuration from environment variables.
// EVENTS_HEADERS format: "Key:value,Key:value" (repeated keys are kept).
func LoadClient() (ClientConfig, error) {
	cfg, err := env.ParseAs[ClientConfig]()
	if err != nil {
		return ClientConfig{}, err
	}
	cfg.URL = strings.TrimSpace(cfg.URL)
	if cfg.URL == "" {
		return ClientConfig{}, errors.New("EVENTS_URL required")
	}
	if cfg.TimeoutMS <= 0 {
		return ClientConfig{}, fmt.Errorf("EVENTS_TIMEOUT_MS must be positive, got %d", cfg.TimeoutMS)
	}

	pairs, err := splitPairs(cfg.HeadersRaw)
	if err != nil {
		return ClientConfig{}, errors.New(`EVENTS_HEADERS must be "Key:value,Key:value"`)
	}
	cfg.Headers = http.Header{}
	for _, p := range pairs {
		cfg.Headers.Add(p[0], p[1])
	}
	return cfg, nil
}

// LoadServer reads the server configuration from environment variables.
// API_KEYS format: "tenant1:key1,tenant2:key2"
func LoadServer() (ServerConfig, error) {
	cfg, err := env.ParseAs[ServerConfig]()
	if err != nil {
		return ServerConfig{}, err
	}
	cfg.DBURL = strings.TrimSpace(cfg.DBURL)

	pairs, err := splitPairs(cfg.APIKeysRaw)
	if err != nil {
		return ServerConfig{}, errors.New(`API_KEYS must be "tenant:key,tenant:key"`)
	}
	cfg.APIKeys = map[string]string{}
	for _, p := range pairs {
		cfg.APIKeys[p[1]] = p[0]
	}
	return cfg, nil
}

var errMalformedPair = errors.New("malformed pair")

// splitPairs parses "a:b,c:d" into trimmed, non-empty pairs.
func splitPairs(raw string) ([][2]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var out [][2]string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts := strings.SplitN(p, ":", 2)
		if len(parts) != 2 {
			return nil, errMalformedPair
		}
		left := strings.TrimSpace(parts[0])
		right := strings.TrimSpace(parts[1])
		if left == "" || right == "" {
			return nil, errMalformedPair
		}
		out = append(out, [2]string{left, right})
	}
	return out, nil
}
