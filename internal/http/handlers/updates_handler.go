package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	applog "anynow/internal/log"
	"anynow/internal/watch"
)

// UpdatesHandler streams storage change events as server-sent events so open
// pages can refetch what changed.
type UpdatesHandler struct {
	Hub       *watch.Hub
	Keys      []string
	Heartbeat time.Duration
}

// GET /api/v1/updates
func (h *UpdatesHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	hb := h.Heartbeat
	if hb <= 0 {
		hb = 15 * time.Second
	}
	events, cancel := h.Hub.Listen(h.Keys...)
	applog.Info(c, "updates.subscribe", map[string]any{"listeners": h.Hub.Listeners()})

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		fmt.Fprint(w, "event: ready\ndata: {}\n\n")
		if w.Flush() != nil {
			return
		}
		ticker := time.NewTicker(hb)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				b, _ := json.Marshal(ev)
				fmt.Fprintf(w, "event: change\ndata: %s\n\n", b)
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}
