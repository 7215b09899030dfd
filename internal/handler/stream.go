package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seat-booking/internal/availability"
)

// keepAliveEvery spaces the SSE comment lines that keep idle proxies from
// closing the stream.
const keepAliveEvery = 25 * time.Second

// AvailabilityStream handles GET /v1/events/:id/availability/stream.  It
// sends one "availability" Server-Sent Event with the current view and one
// more after every booking change of the event, until the client goes away.
func (h *Handler) AvailabilityStream(c echo.Context) error {
	ctx := c.Request().Context()
	it, err := h.Backend.GetItem(ctx, c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	// Only this goroutine writes to the response; the watcher hands frames
	// over until quit is closed.
	frames := make(chan []byte, 1)
	quit := make(chan struct{})
	stop, err := h.Watcher.Watch(ctx, it.ID, it.Capacity(), func(v availability.View) {
		body, err := json.Marshal(frameOf(it.ID, v))
		if err != nil {
			return
		}
		select {
		case frames <- body:
		case <-quit:
		}
	})
	if err != nil {
		h.Log.Error("availability stream: subscribe failed", "event_id", it.ID, "err", err)
		return nil
	}
	defer stop()
	defer close(quit)

	ping := time.NewTicker(keepAliveEvery)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case body := <-frames:
			if _, err := fmt.Fprintf(res, "event: availability\ndata: %s\n\n", body); err != nil {
				return nil
			}
			res.Flush()
		case <-ping.C:
			if _, err := fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
