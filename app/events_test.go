package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biosecret/portfolio-api/notify"
)

func TestEvents_RequiresToken(t *testing.T) {
	app := newTestApp(t)

	status, raw := call(t, app, fiber.MethodGet, "/api/events", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "No token provided.", errorOf(t, raw))
}

func TestEvents_StreamsOnlyTheCallersReminders(t *testing.T) {
	ctx := context.Background()
	app, hub := newTestAppWithHub(t)
	alice := login(t, app, "alice")

	bobEvents, stopBob := hub.Subscribe("bob")
	defer stopBob()

	req := httptest.NewRequest(fiber.MethodGet, "/api/events", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+alice)

	type result struct {
		resp *http.Response
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := app.Test(req, -1)
		done <- result{resp, err}
	}()

	require.Eventually(t, func() bool { return hub.Sessions() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Notify(ctx, notify.Reminder{TodoID: 7, User: "alice", Text: "stand-up", DueDate: "2025-06-01T09:00"}))
	require.NoError(t, hub.Notify(ctx, notify.Reminder{TodoID: 8, User: "bob", Text: "surprise party"}))
	assert.Len(t, bobEvents, 1)

	// closing the hub ends alice's stream so the response completes
	hub.Close()

	var res result
	select {
	case res = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("event stream did not end after the hub closed")
	}
	require.NoError(t, res.err)
	defer res.resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, res.resp.StatusCode)
	assert.Contains(t, res.resp.Header.Get(fiber.HeaderContentType), "text/event-stream")

	raw, err := io.ReadAll(res.resp.Body)
	require.NoError(t, err)
	body := string(raw)

	assert.Contains(t, body, "event: reminder\n")
	assert.Contains(t, body, `"todoId":7`)
	assert.Contains(t, body, `"user":"alice"`)
	assert.Contains(t, body, "stand-up")
	assert.NotContains(t, body, "surprise party")
}
