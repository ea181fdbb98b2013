package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/detetive/internal/domain/model"
)

// keepAliveInterval is how often an idle stream gets a comment line.
const keepAliveInterval = 25 * time.Second

// EventDependencies defines the interface for streaming session changes.
type EventDependencies interface {
	Subscribe(ctx context.Context, id string) (<-chan model.Change, func(), error)
}

// EventsHandler streams session changes as server-sent events.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandleStream handles GET /sessions/{id}/events requests. Each change is
// written as an SSE event named after the change kind with the change as
// JSON data. The stream ends when the client leaves or the session is gone.
func (h *EventsHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	changes, cancel, err := h.deps.Subscribe(ctx, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer cancel()

	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case c, ok := <-changes:
			if !ok {
				return
			}
			if err := writeEvent(w, c); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, c model.Change) error { //nolint:gocritic // hugeParam: matches channel element
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", c.Version, c.Kind, data); err != nil {
		return fmt.Errorf("write change: %w", err)
	}
	return nil
}
