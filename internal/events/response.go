package events

import (
	"encoding/json"
	"errors"
	"strings"
)

// Name suffixes that carry response semantics.
const (
	SuffixResponse = ":response"
	SuffixRedirect = ":redirect"
)

// Kind is the class of a response, derived only from the suffix of its name.
type Kind int

const (
	KindError Kind = iota
	KindSuccess
	KindRedirect
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindRedirect:
		return "redirect"
	default:
		return "error"
	}
}

// Classify maps an event name to exactly one Kind.
// ":response" is success, ":redirect" is redirect, anything else is an error.
func Classify(name string) Kind {
	switch {
	case strings.HasSuffix(name, SuffixResponse):
		return KindSuccess
	case strings.HasSuffix(name, SuffixRedirect):
		return KindRedirect
	default:
		return KindError
	}
}

// Response is an inbound envelope. Opaque fields stay raw until the caller
// asks for them; Kind is computed once when the body is parsed.
type Response struct {
	Name     string
	Version  int
	ID       string
	FlowID   string
	Payload  json.RawMessage // nil when the field was absent
	Identity json.RawMessage
	Auth     json.RawMessage
	Metadata json.RawMessage
	Kind     Kind
	Body     []byte
}

func (r Response) IsSuccess() bool  { return r.Kind == KindSuccess }
func (r Response) IsRedirect() bool { return r.Kind == KindRedirect }
func (r Response) IsError() bool    { return r.Kind == KindError }

// ParseResponse parses a response body and classifies it.
// The body must be a JSON object with a string "name"; other fields are
// carried as-is and never fail the parse.
func ParseResponse(body []byte) (Response, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Response{}, &ProtocolError{Kind: ErrInvalidResponse, Body: body, Err: err}
	}
	if fields == nil {
		return Response{}, &ProtocolError{Kind: ErrInvalidResponse, Body: body, Err: errors.New("body is not an object")}
	}

	var name *string
	raw, ok := fields["name"]
	if !ok {
		return Response{}, &ProtocolError{Kind: ErrInvalidResponse, Body: body, Err: errors.New("missing name")}
	}
	if err := json.Unmarshal(raw, &name); err != nil || name == nil {
		return Response{}, &ProtocolError{Kind: ErrInvalidResponse, Body: body, Err: errors.New("name is not a string")}
	}

	resp := Response{
		Name:     *name,
		Payload:  fields["payload"],
		Identity: fields["identity"],
		Auth:     fields["auth"],
		Metadata: fields["metadata"],
		Kind:     Classify(*name),
		Body:     body,
	}
	// Best effort: a response with an odd version or id is still classifiable.
	_ = json.Unmarshal(fields["version"], &resp.Version)
	_ = json.Unmarshal(fields["id"], &resp.ID)
	_ = json.Unmarshal(fields["flowId"], &resp.FlowID)
	return resp, nil
}

// Err converts a non-success response into its protocol error.
// It returns nil for success responses.
func (r Response) Err() error {
	switch r.Kind {
	case KindSuccess:
		return nil
	case KindRedirect:
		return &ProtocolError{Kind: ErrEventRedirect, Body: r.Body, resp: &r}
	default:
		return &ProtocolError{Kind: ErrEventError, Body: r.Body, resp: &r}
	}
}
