package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// envelopeServer answers every POST with name+suffix and the request payload.
func envelopeServer(t *testing.T, suffix string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var name string
		_ = json.Unmarshal(in["name"], &name)
		out := map[string]any{
			"name":     name + suffix,
			"version":  1,
			"id":       "r-1",
			"flowId":   in["flowId"],
			"payload":  in["payload"],
			"identity": map[string]any{},
			"auth":     map[string]any{},
			"metadata": map[string]any{"x-test": r.Header.Get("X-Test")},
		}
		_ = json.NewEncoder(w).Encode(out)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestRunPrintsPayload(t *testing.T) {
	ts := envelopeServer(t, ":response")
	t.Setenv("EVENTS_URL", ts.URL)
	t.Setenv("EVENTS_HEADERS", "X-Test:yes")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"echo", `{"a":1}`}, &stdout, &stderr, zerolog.Nop())
	if code != exitOK {
		t.Fatalf("exit %d, stderr %s", code, stderr.String())
	}
	if strings.TrimSpace(stdout.String()) != `{"a":1}` {
		t.Fatalf("unexpected stdout %q", stdout.String())
	}
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		suffix string
		want   int
	}{
		{"redirect", ":redirect", exitRedirect},
		{"error", ":error", exitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := envelopeServer(t, tt.suffix)
			t.Setenv("EVENTS_URL", ts.URL)

			var stdout, stderr bytes.Buffer
			if code := run(context.Background(), []string{"ping"}, &stdout, &stderr, zerolog.Nop()); code != tt.want {
				t.Fatalf("exit %d, want %d (stderr %s)", code, tt.want, stderr.String())
			}
			if !strings.HasPrefix(stderr.String(), "ping"+tt.suffix) {
				t.Fatalf("unexpected stderr %q", stderr.String())
			}
		})
	}
}

func TestRunTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()
	t.Setenv("EVENTS_URL", url)

	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"ping"}, &stdout, &stderr, zerolog.Nop()); code != exitTransport {
		t.Fatalf("exit %d, want %d", code, exitTransport)
	}
}

func TestRunUsage(t *testing.T) {
	t.Setenv("EVENTS_URL", "http://localhost:1")

	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), nil, &stdout, &stderr, zerolog.Nop()); code != exitUsage {
		t.Fatalf("exit %d, want usage", code)
	}
	if code := run(context.Background(), []string{"ping", "{not json"}, &stdout, &stderr, zerolog.Nop()); code != exitUsage {
		t.Fatalf("exit %d, want usage for bad payload", code)
	}
}
