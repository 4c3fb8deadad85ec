package handlers

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/valyala/fasthttp"

	"github.com/biosecret/portfolio-api/middleware"
	"github.com/biosecret/portfolio-api/notify"
)

const keepAliveInterval = 15 * time.Second

// HandleEvents godoc
// @Summary Stream the caller's todo reminders as Server-Sent Events
// @Tags todos
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {string} string "event: reminder"
// @Router /api/events [get]
func (h *Handler) HandleEvents(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	// the fiber ctx is recycled once this handler returns; capture what the stream needs
	user := middleware.CurrentUser(c).Username
	events, unsubscribe := h.Hub.Subscribe(user)
	log.Infof("event stream opened for %s", user)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()
		keepAliveTicker := time.NewTicker(keepAliveInterval)
		defer keepAliveTicker.Stop()

		if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil || w.Flush() != nil {
			return
		}

		for {
			select {
			case r, ok := <-events:
				if !ok {
					log.Infof("event stream closed for %s", user)
					return
				}
				msg, err := notify.FormatSSE("reminder", r)
				if err != nil {
					log.Errorf("Error formatting sse message: %v", err)
					continue
				}
				fmt.Fprint(w, msg)
				if err := w.Flush(); err != nil {
					log.Infof("event stream for %s dropped: %v", user, err)
					return
				}
			case <-keepAliveTicker.C:
				fmt.Fprint(w, ":keepalive\n\n")
				if err := w.Flush(); err != nil {
					log.Infof("event stream for %s dropped: %v", user, err)
					return
				}
			}
		}
	}))

	return nil
}
