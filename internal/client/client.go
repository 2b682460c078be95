package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/PratikDhanave/events-protocol-client/internal/events"
	"github.com/PratikDhanave/events-protocol-client/internal/transport"
)

// DefaultTimeout is applied when a call does not set its own.
const DefaultTimeout = 60000 * time.Millisecond

const contentTypeJSON = "application/json"

// Client speaks the Events Protocol over a transport.Adapter.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	adapter transport.Adapter
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for dispatch and classification traces.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a client around adapter. The adapter is always supplied by the caller.
func New(adapter transport.Adapter, opts ...Option) (*Client, error) {
	if adapter == nil {
		return nil, errors.New("client: transport adapter required")
	}
	c := &Client{adapter: adapter, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SendOption adjusts a single call.
type SendOption func(*sendOptions)

type sendOptions struct {
	header  http.Header
	timeout time.Duration
}

// WithHeader adds one header value. Repeated keys accumulate.
func WithHeader(key, value string) SendOption {
	return func(o *sendOptions) { o.header.Add(key, value) }
}

// WithHeaders adds every value of h.
func WithHeaders(h http.Header) SendOption {
	return func(o *sendOptions) {
		for key, values := range h {
			for _, v := range values {
				o.header.Add(key, v)
			}
		}
	}
}

// WithTimeout overrides DefaultTimeout for one call. d must be positive;
// NewRequest rejects anything else with events.ErrInvalidRequest.
func WithTimeout(d time.Duration) SendOption {
	return func(o *sendOptions) { o.timeout = d }
}

// NewRequest prepares the POST for ev without doing any I/O.
// Content-Type is set first; caller headers are added after it, never replacing it.
func NewRequest(url string, ev events.Event, opts ...SendOption) (*transport.Request, error) {
	o := sendOptions{header: http.Header{}, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	if o.timeout <= 0 {
		return nil, &events.ProtocolError{Kind: events.ErrInvalidRequest, Err: fmt.Errorf("timeout must be positive, got %v", o.timeout)}
	}

	body, err := events.Marshal(ev)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Content-Type", contentTypeJSON)
	for key, values := range o.header {
		for _, v := range values {
			header.Add(key, v)
		}
	}

	return &transport.Request{
		URL:     url,
		Method:  http.MethodPost,
		Header:  header,
		Body:    body,
		Timeout: o.timeout,
	}, nil
}

// Send posts ev to url and classifies the reply.
//
// Transport failures are returned exactly as the adapter produced them.
// Otherwise the error, if any, is a *events.ProtocolError: ErrInvalidRequest
// before dispatch, then ErrInvalidResponse, ErrEventRedirect or ErrEventError.
// On success the returned Response still holds its raw payload; on redirect
// and error it is returned alongside the error.
func (c *Client) Send(ctx context.Context, url string, ev events.Event, opts ...SendOption) (events.Response, error) {
	req, err := NewRequest(url, ev, opts...)
	if err != nil {
		c.log.Error().Err(err).Str("url", url).Msg("request rejected")
		return events.Response{}, err
	}

	log := c.log.With().
		Str("url", url).
		Str("event", ev.EventName()).
		Str("id", ev.EventID()).
		Str("flow_id", ev.EventFlowID()).
		Logger()
	log.Debug().Dur("timeout", req.Timeout).Msg("dispatching event")

	body, err := c.adapter.Send(ctx, req)
	if err != nil {
		log.Warn().Err(err).Msg("transport failed")
		return events.Response{}, err
	}

	resp, err := events.ParseResponse(body)
	if err != nil {
		log.Debug().Err(err).Int("bytes", len(body)).Msg("unparseable response")
		return events.Response{}, err
	}
	log.Debug().Str("response", resp.Name).Stringer("kind", resp.Kind).Msg("response classified")

	return resp, resp.Err()
}

// SendEvent posts ev and decodes the success payload into T.
// A payload that cannot become a T fails with events.ErrInvalidPayload.
func SendEvent[T any](ctx context.Context, c *Client, url string, ev events.Event, opts ...SendOption) (T, error) {
	var zero T
	resp, err := c.Send(ctx, url, ev, opts...)
	if err != nil {
		return zero, err
	}
	return events.DecodePayload[T](resp)
}

// SendEventAsync runs SendEvent on its own goroutine and calls done exactly once.
func SendEventAsync[T any](ctx context.Context, c *Client, url string, ev events.Event, done func(T, error), opts ...SendOption) {
	go func() {
		done(SendEvent[T](ctx, c, url, ev, opts...))
	}()
}
