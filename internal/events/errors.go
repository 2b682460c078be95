package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Protocol error kinds. Match them with errors.Is; use errors.As with
// *ProtocolError to reach the raw body or payload.
var (
	ErrInvalidRequest  = errors.New("events: invalid request")
	ErrInvalidResponse = errors.New("events: invalid response")
	ErrEventRedirect   = errors.New("events: event redirect")
	ErrEventError      = errors.New("events: event error")
	ErrInvalidPayload  = errors.New("events: invalid payload")
)

// ProtocolError is a failure raised by the protocol layer itself.
// Transport failures never take this form.
type ProtocolError struct {
	Kind    error
	Body    []byte          // raw response body, when one was received
	Payload json.RawMessage // raw payload value for ErrInvalidPayload
	Err     error

	resp *Response
}

func (e *ProtocolError) Error() string {
	kind := e.Kind
	if kind == nil {
		kind = ErrInvalidResponse
	}
	if e.resp != nil && e.resp.Name != "" {
		if e.Err != nil {
			return fmt.Sprintf("%v (%s): %v", kind, e.resp.Name, e.Err)
		}
		return fmt.Sprintf("%v (%s)", kind, e.resp.Name)
	}
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", kind, e.Err)
	}
	return kind.Error()
}

// Is reports whether target is the kind of this error.
func (e *ProtocolError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// Response returns the classified response behind a redirect, error or
// invalid-payload failure. ok is false when the body never parsed.
func (e *ProtocolError) Response() (resp Response, ok bool) {
	if e.resp == nil {
		return Response{}, false
	}
	return *e.resp, true
}
