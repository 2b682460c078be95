package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
)

var (
	errMissingPayload = errors.New("missing payload")
	errNullPayload    = errors.New("null payload for non-nillable type")
)

// DecodePayload decodes the payload of a success response into T.
//
// Two strategies are tried in order: the payload's generic JSON value is
// returned as-is when it already is a T (T of any, string, bool, float64,
// map[string]any, []any); otherwise the payload document is decoded into T.
// Both failing yields ErrInvalidPayload carrying the raw payload.
//
// A null payload is accepted only when T can hold nil (pointer, interface,
// map, slice, func, chan). Object fields absent from the payload are left at
// their zero value, as encoding/json does; T must use pointers to tell them apart.
func DecodePayload[T any](r Response) (T, error) {
	var zero T
	if r.Payload == nil {
		return zero, &ProtocolError{Kind: ErrInvalidPayload, Body: r.Body, Err: errMissingPayload, resp: &r}
	}
	if bytes.Equal(bytes.TrimSpace(r.Payload), []byte("null")) {
		if nillable[T]() {
			return zero, nil
		}
		return zero, &ProtocolError{Kind: ErrInvalidPayload, Body: r.Body, Payload: r.Payload, Err: errNullPayload, resp: &r}
	}
	if v, ok := assignPayload[T](r.Payload); ok {
		return v, nil
	}
	v, err := unmarshalPayload[T](r.Payload)
	if err != nil {
		return zero, &ProtocolError{Kind: ErrInvalidPayload, Body: r.Body, Payload: r.Payload, Err: err, resp: &r}
	}
	return v, nil
}

// assignPayload reports whether the payload's generic value is directly a T.
func assignPayload[T any](raw json.RawMessage) (T, bool) {
	var zero T
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return zero, false
	}
	v, ok := generic.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// unmarshalPayload decodes the payload document into a fresh T.
func unmarshalPayload[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// nillable reports whether T's zero value is nil.
func nillable[T any]() bool {
	switch reflect.TypeOf((*T)(nil)).Elem().Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
