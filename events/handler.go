package events

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/greengauge/greengauge-go/logging"
)

const keepAliveInterval = 25 * time.Second

// Handler streams broadcaster events as text/event-stream.
type Handler struct {
	broadcaster *Broadcaster
}

// NewHandler creates an SSE handler for b.
func NewHandler(b *Broadcaster) *Handler {
	return &Handler{broadcaster: b}
}

// HandleStream godoc
// @Summary Live events
// @Description Server-Sent Events stream of purchase.recorded and leaderboard.snapshot events.
// @Tags Events
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Router /events [get]
func (h *Handler) HandleStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := http.NewResponseController(w)
		// The stream outlives the server's write timeout.
		if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
			logging.Warnf("could not clear write deadline for event stream: %v", err)
		}

		id, ch := h.broadcaster.Subscribe()
		defer h.broadcaster.Unsubscribe(id)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		if _, err := io.WriteString(w, "retry: 5000\n\n"); err != nil {
			return
		}
		if err := rc.Flush(); err != nil {
			logging.Errorf("event stream cannot flush: %v", err)
			return
		}

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case event, ok := <-ch:
				if !ok {
					return
				}
				if _, err := event.WriteTo(w); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := io.WriteString(w, ": keep-alive\n\n"); err != nil {
					return
				}
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
