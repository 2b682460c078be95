package store

import (
	"context"
	"errors"
	"sync"
)

// Entry is one received envelope as the journal stores it.
type Entry struct {
	TenantID string
	FlowID   string
	EventID  string
	Name     string
	Version  int
	Envelope []byte // the request body as received
}

func (e Entry) validate() error {
	if e.FlowID == "" || e.EventID == "" || e.Name == "" {
		return errors.New("flowID/eventID/name required")
	}
	return nil
}

// Journal is the durable record of envelopes accepted by the reference server.
// Record is idempotent on (FlowID, EventID).
type Journal interface {
	Record(ctx context.Context, e Entry) (inserted bool, err error)
	CountFlow(ctx context.Context, flowID string) (int64, error)
	Ping(ctx context.Context) error
	Close()
}

type journalKey struct {
	flowID  string
	eventID string
}

// MemoryJournal is a process-local Journal used when no database is configured.
type MemoryJournal struct {
	mu      sync.Mutex
	entries map[journalKey]Entry
	flows   map[string]int64
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{
		entries: make(map[journalKey]Entry),
		flows:   make(map[string]int64),
	}
}

func (m *MemoryJournal) Record(_ context.Context, e Entry) (bool, error) {
	if err := e.validate(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := journalKey{flowID: e.FlowID, eventID: e.EventID}
	if _, ok := m.entries[key]; ok {
		return false, nil
	}
	m.entries[key] = e
	m.flows[e.FlowID]++
	return true, nil
}

func (m *MemoryJournal) CountFlow(_ context.Context, flowID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flows[flowID], nil
}

func (m *MemoryJournal) Ping(context.Context) error { return nil }

func (m *MemoryJournal) Close() {}

var _ Journal = (*MemoryJournal)(nil)
