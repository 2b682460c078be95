package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type nilDoer struct{}

func (nilDoer) Do(*http.Request) (*http.Response, error) { return nil, nil }

func TestHTTPAdapterReturnsBodyForAnyStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"name":"x:error"}`))
	}))
	defer ts.Close()

	body, err := NewHTTPAdapter(ts.Client()).Send(context.Background(), &Request{
		URL:    ts.URL,
		Method: http.MethodPost,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if string(body) != `{"name":"x:error"}` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestHTTPAdapterSendsMethodHeadersAndBody(t *testing.T) {
	var (
		gotMethod string
		gotHeader http.Header
		gotBody   string
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Clone()
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	header := http.Header{}
	header.Add("Content-Type", "application/json")
	header.Add("X-Test", "a")
	header.Add("X-Test", "b")

	_, err := NewHTTPAdapter(ts.Client()).Send(context.Background(), &Request{
		URL:     ts.URL,
		Header:  header,
		Body:    []byte(`{"name":"ping"}`),
		Timeout: time.Second,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("expected default POST, got %s", gotMethod)
	}
	if gotHeader.Get("Content-Type") != "application/json" {
		t.Fatalf("content type not sent: %v", gotHeader)
	}
	if strings.Join(gotHeader.Values("X-Test"), ",") != "a,b" {
		t.Fatalf("expected both header values, got %v", gotHeader.Values("X-Test"))
	}
	if gotBody != `{"name":"ping"}` {
		t.Fatalf("unexpected body %q", gotBody)
	}
}

func TestHTTPAdapterConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := NewHTTPAdapter(nil).Send(context.Background(), &Request{URL: url, Method: http.MethodPost})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %T %v", err, err)
	}
	if te.URL != url {
		t.Fatalf("expected url %s on error, got %s", url, te.URL)
	}
}

func TestHTTPAdapterTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	_, err := NewHTTPAdapter(ts.Client()).Send(context.Background(), &Request{
		URL:     ts.URL,
		Timeout: 50 * time.Millisecond,
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestHTTPAdapterUnexpectedResponse(t *testing.T) {
	_, err := NewHTTPAdapter(nilDoer{}).Send(context.Background(), &Request{URL: "http://example.invalid"})
	if !errors.Is(err, ErrUnexpectedResponse) {
		t.Fatalf("expected ErrUnexpectedResponse, got %v", err)
	}
}

func TestHTTPAdapterBadURL(t *testing.T) {
	_, err := NewHTTPAdapter(nil).Send(context.Background(), &Request{URL: "://bad"})
	var te *TransportError
	if !errors.As(err, &te) || te.Op != "build" {
		t.Fatalf("expected build TransportError, got %v", err)
	}
}
