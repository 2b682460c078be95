package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnexpectedResponse is returned when the HTTP stack reports neither an
// error nor a usable response.
var ErrUnexpectedResponse = errors.New("transport: unexpected response")

// Request is a fully prepared outbound call.
type Request struct {
	URL     string
	Method  string
	Header  http.Header
	Body    []byte
	Timeout time.Duration // zero means no per-request deadline
}

// Adapter delivers a request and returns the raw response body.
// It never interprets the body and never looks at the status code.
type Adapter interface {
	Send(ctx context.Context, req *Request) ([]byte, error)
}

// Doer is the part of *http.Client the adapter needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TransportError is a failure below the protocol layer.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPAdapter is the net/http implementation of Adapter.
type HTTPAdapter struct {
	doer Doer
}

// NewHTTPAdapter wraps doer. A nil doer selects a fresh *http.Client.
func NewHTTPAdapter(doer Doer) *HTTPAdapter {
	if doer == nil {
		doer = &http.Client{}
	}
	return &HTTPAdapter{doer: doer}
}

// Send issues exactly one HTTP call. Any status code counts as a delivered
// response; only errors from the HTTP stack, or a missing response, fail.
func (a *HTTPAdapter) Send(ctx context.Context, req *Request) ([]byte, error) {
	if req == nil {
		return nil, &TransportError{Op: "send", Err: errors.New("nil request")}
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, &TransportError{Op: "build", URL: req.URL, Err: err}
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := a.doer.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: method, URL: req.URL, Err: err}
	}
	if resp == nil || resp.Body == nil {
		return nil, &TransportError{Op: method, URL: req.URL, Err: ErrUnexpectedResponse}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read", URL: req.URL, Err: err}
	}
	return body, nil
}

var _ Adapter = (*HTTPAdapter)(nil)
