package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/PratikDhanave/events-protocol-client/internal/auth"
	"github.com/PratikDhanave/events-protocol-client/internal/events"
	"github.com/PratikDhanave/events-protocol-client/internal/store"
)

// MalformedName is the reply name for bodies that are not envelopes.
const MalformedName = "events:error"

// RegisterEventRoutes registers the Events Protocol endpoint.
//
// POST /events
// - Body is a seven-field envelope; "name" selects the handler
// - Journaled idempotently on (flowId, id) before dispatch
// - Replies are envelopes named "<name>:response", "<name>:redirect" or "<name>:error"
//   and always use status 200 once the body parsed
func RegisterEventRoutes(r gin.IRoutes, reg *Registry, j store.Journal, log zerolog.Logger) {
	r.POST("/events", func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, malformed("unreadable body"))
			return
		}

		var ev events.Envelope[json.RawMessage]
		if err := json.Unmarshal(body, &ev); err != nil {
			c.JSON(http.StatusBadRequest, malformed("invalid JSON envelope"))
			return
		}
		if ev.Name == "" || ev.ID == "" || ev.FlowID == "" {
			c.JSON(http.StatusBadRequest, malformed("name, id and flowId required"))
			return
		}

		tenantID := auth.TenantID(c)
		log := log.With().Str("event", ev.Name).Str("id", ev.ID).Str("flow_id", ev.FlowID).Logger()

		inserted, err := j.Record(c.Request.Context(), store.Entry{
			TenantID: tenantID,
			FlowID:   ev.FlowID,
			EventID:  ev.ID,
			Name:     ev.Name,
			Version:  ev.Version,
			Envelope: body,
		})
		if err != nil {
			log.Error().Err(err).Msg("journal write failed")
			c.JSON(http.StatusInternalServerError, reply(ev, events.KindError, gin.H{"error": "journal write failed"}, false))
			return
		}
		dup := !inserted

		fn, ok := reg.lookup(ev.Name)
		if !ok {
			log.Debug().Msg("no handler")
			c.JSON(http.StatusOK, reply(ev, events.KindError, gin.H{"error": "unknown event"}, dup))
			return
		}

		payload, err := fn(c.Request.Context(), Request{TenantID: tenantID, Event: ev})
		var redirect Redirect
		switch {
		case err == nil:
			c.JSON(http.StatusOK, reply(ev, events.KindSuccess, payload, dup))
		case errors.As(err, &redirect):
			c.JSON(http.StatusOK, reply(ev, events.KindRedirect, gin.H{"url": redirect.URL}, dup))
		default:
			log.Debug().Err(err).Msg("handler failed")
			c.JSON(http.StatusOK, reply(ev, events.KindError, gin.H{"error": err.Error()}, dup))
		}
	})
}

// reply builds the answer to ev in the same flow. Credentials are not echoed.
func reply(ev events.Envelope[json.RawMessage], kind events.Kind, payload any, dup bool) events.Envelope[any] {
	out := ev.Reply(replyName(ev.Name, kind), payload)
	out.Auth = gin.H{}
	out.Metadata = gin.H{"duplicate": dup}
	return out
}

func replyName(name string, kind events.Kind) string {
	switch kind {
	case events.KindSuccess:
		return name + events.SuffixResponse
	case events.KindRedirect:
		return name + events.SuffixRedirect
	default:
		return name + ":error"
	}
}

func malformed(msg string) events.Envelope[any] {
	return events.NewEnvelope[any](MalformedName, 1, gin.H{"error": msg})
}
