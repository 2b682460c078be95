package events

import (
	"encoding/json"
	"errors"
	"reflect"

	"github.com/google/uuid"
)

// Event is anything that can be sent as an Events Protocol message.
// Implementations expose the seven envelope fields; the client builds the wire
// form from these accessors, so a concrete type's own JSON tags never drop a field.
type Event interface {
	EventName() string
	EventVersion() int
	EventID() string
	EventFlowID() string
	EventPayload() any
	EventIdentity() any
	EventAuth() any
	EventMetadata() any
}

// Envelope is the default Event implementation with a typed payload.
// identity, auth and metadata are opaque side-channels carried verbatim.
type Envelope[P any] struct {
	Name     string `json:"name"`
	Version  int    `json:"version"`
	ID       string `json:"id"`
	FlowID   string `json:"flowId"`
	Payload  P      `json:"payload"`
	Identity any    `json:"identity"`
	Auth     any    `json:"auth"`
	Metadata any    `json:"metadata"`
}

// NewEnvelope builds an envelope with a fresh id and a fresh flow id.
func NewEnvelope[P any](name string, version int, payload P) Envelope[P] {
	return Envelope[P]{
		Name:     name,
		Version:  version,
		ID:       NewID(),
		FlowID:   NewID(),
		Payload:  payload,
		Identity: map[string]any{},
		Auth:     map[string]any{},
		Metadata: map[string]any{},
	}
}

// Reply builds a follow-up message in the same flow.
// The new message gets its own id; identity, auth and metadata are carried over.
func (e Envelope[P]) Reply(name string, payload any) Envelope[any] {
	return Envelope[any]{
		Name:     name,
		Version:  e.Version,
		ID:       NewID(),
		FlowID:   e.FlowID,
		Payload:  payload,
		Identity: e.Identity,
		Auth:     e.Auth,
		Metadata: e.Metadata,
	}
}

func (e Envelope[P]) EventName() string { return e.Name }
func (e Envelope[P]) EventVersion() int { return e.Version }
func (e Envelope[P]) EventID() string { return e.ID }
func (e Envelope[P]) EventFlowID() string { return e.FlowID }
func (e Envelope[P]) EventPayload() any { return e.Payload }
func (e Envelope[P]) EventIdentity() any { return e.Identity }
func (e Envelope[P]) EventAuth() any { return e.Auth }
func (e Envelope[P]) EventMetadata() any { return e.Metadata }

// NewID returns a random message identifier.
func NewID() string {
	return uuid.New().String()
}

// wireEvent is the on-the-wire request envelope. No field uses omitempty.
type wireEvent struct {
	Name     string `json:"name"`
	Version  int    `json:"version"`
	ID       string `json:"id"`
	FlowID   string `json:"flowId"`
	Payload  any    `json:"payload"`
	Identity any    `json:"identity"`
	Auth     any    `json:"auth"`
	Metadata any    `json:"metadata"`
}

var errNilEvent = errors.New("nil event")

// Marshal serializes ev into the seven-field wire envelope.
// Any failure is reported as ErrInvalidRequest.
func Marshal(ev Event) ([]byte, error) {
	if ev == nil {
		return nil, &ProtocolError{Kind: ErrInvalidRequest, Err: errNilEvent}
	}
	if v := reflect.ValueOf(ev); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil, &ProtocolError{Kind: ErrInvalidRequest, Err: errNilEvent}
	}
	body, err := json.Marshal(wireEvent{
		Name:     ev.EventName(),
		Version:  ev.EventVersion(),
		ID:       ev.EventID(),
		FlowID:   ev.EventFlowID(),
		Payload:  ev.EventPayload(),
		Identity: ev.EventIdentity(),
		Auth:     ev.EventAuth(),
		Metadata: ev.EventMetadata(),
	})
	if err != nil {
		return nil, &ProtocolError{Kind: ErrInvalidRequest, Err: err}
	}
	return body, nil
}
