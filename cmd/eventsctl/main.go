package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/PratikDhanave/events-protocol-client/internal/client"
	"github.com/PratikDhanave/events-protocol-client/internal/config"
	"github.com/PratikDhanave/events-protocol-client/internal/events"
	"github.com/PratikDhanave/events-protocol-client/internal/logging"
	"github.com/PratikDhanave/events-protocol-client/internal/transport"
)

// Exit codes, one per failure family.
const (
	exitOK        = 0
	exitUsage     = 64
	exitTransport = 1
	exitError     = 2
	exitRedirect  = 3
	exitInvalid   = 4
)

const usage = "usage: eventsctl <event-name> [payload-json]"

// main sends one event built from the command line to EVENTS_URL and prints
// the reply payload. Configuration comes from the environment.
func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, logging.ConfigureRuntime()))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, log zerolog.Logger) int {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(stderr, usage)
		return exitUsage
	}

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	payload := json.RawMessage("null")
	if len(args) == 2 {
		if !json.Valid([]byte(args[1])) {
			fmt.Fprintln(stderr, "payload must be valid JSON")
			return exitUsage
		}
		payload = json.RawMessage(args[1])
	}

	ev := events.NewEnvelope(args[0], cfg.Version, payload)
	if cfg.FlowID != "" {
		ev.FlowID = cfg.FlowID
	}

	c, err := client.New(transport.NewHTTPAdapter(nil), client.WithLogger(log))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	resp, err := c.Send(ctx, cfg.URL, ev, client.WithHeaders(cfg.Headers), client.WithTimeout(cfg.Timeout()))
	switch {
	case err == nil:
		fmt.Fprintf(stdout, "%s\n", resp.Payload)
		return exitOK
	case errors.Is(err, events.ErrEventRedirect):
		fmt.Fprintf(stderr, "%s: %s\n", resp.Name, resp.Payload)
		return exitRedirect
	case errors.Is(err, events.ErrEventError):
		fmt.Fprintf(stderr, "%s: %s\n", resp.Name, resp.Payload)
		return exitError
	case errors.Is(err, events.ErrInvalidResponse), errors.Is(err, events.ErrInvalidRequest):
		fmt.Fprintln(stderr, err)
		return exitInvalid
	default:
		fmt.Fprintln(stderr, err)
		return exitTransport
	}
}
