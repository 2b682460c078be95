package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/PratikDhanave/events-protocol-client/internal/events"
)

// Request is what a handler sees of an accepted envelope.
type Request struct {
	TenantID string
	Event    events.Envelope[json.RawMessage]
}

// HandlerFunc answers one event. The returned value becomes the reply payload.
// Returning Redirect produces a ":redirect" reply; any other error an ":error" reply.
type HandlerFunc func(ctx context.Context, req Request) (any, error)

// Redirect tells the caller to resend the event elsewhere.
type Redirect struct {
	URL string
}

func (r Redirect) Error() string {
	return fmt.Sprintf("redirect to %s", r.URL)
}

// Registry maps event names to handlers. Register everything before serving.
type Registry struct {
	handlers map[string]HandlerFunc
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]HandlerFunc)}
}

// Handle registers fn for name, replacing any previous handler.
func (r *Registry) Handle(name string, fn HandlerFunc) {
	r.handlers[name] = fn
}

func (r *Registry) lookup(name string) (HandlerFunc, bool) {
	fn, ok := r.handlers[name]
	return fn, ok
}

// Names lists registered event names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// RegisterBuiltins installs "echo" (returns the payload) and "ping" (returns "pong").
func RegisterBuiltins(r *Registry) {
	r.Handle("echo", func(_ context.Context, req Request) (any, error) {
		return req.Event.Payload, nil
	})
	r.Handle("ping", func(context.Context, Request) (any, error) {
		return "pong", nil
	})
}
