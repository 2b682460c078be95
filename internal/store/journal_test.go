package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

func unique(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// exerciseJournal runs the shared Journal contract against j.
func exerciseJournal(t *testing.T, j Journal) {
	t.Helper()
	ctx := context.Background()

	flow := unique("flow")
	e := Entry{FlowID: flow, EventID: unique("id"), Name: "user:create", Version: 1, Envelope: []byte(`{"name":"user:create"}`)}

	inserted, err := j.Record(ctx, e)
	if err != nil || !inserted {
		t.Fatalf("first record: inserted=%v err=%v", inserted, err)
	}
	inserted, err = j.Record(ctx, e)
	if err != nil || inserted {
		t.Fatalf("duplicate record: inserted=%v err=%v", inserted, err)
	}

	e2 := e
	e2.EventID = unique("id2")
	if _, err := j.Record(ctx, e2); err != nil {
		t.Fatalf("second record: %v", err)
	}

	count, err := j.CountFlow(ctx, flow)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 entries in flow, got %d", count)
	}

	if _, err := j.Record(ctx, Entry{FlowID: flow}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestMemoryJournal(t *testing.T) {
	j := NewMemoryJournal()
	defer j.Close()
	exerciseJournal(t, j)
}

// TestPostgresJournal needs a reachable database, e.g. from docker compose.
func TestPostgresJournal(t *testing.T) {
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		t.Skip("DB_URL not set")
	}
	j, err := NewPostgresJournal(dbURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer j.Close()

	if err := j.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("schema: %v", err)
	}
	exerciseJournal(t, j)
}
