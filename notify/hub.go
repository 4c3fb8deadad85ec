package notify

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/gofiber/fiber/v2/log"
)

const sessionBuffer = 16

// ErrNotDelivered is returned by Hub.Notify when no open stream of the user
// queued the reminder.
var ErrNotDelivered = errors.New("no open event stream accepted the reminder")

type session struct {
	user   string
	events chan Reminder
}

// Hub keeps the open event streams and routes each reminder to the streams
// of its owner. Delivery never blocks: a session whose buffer is full misses
// the reminder.
type Hub struct {
	mu       sync.Mutex
	sessions []*session
	closed   bool
}

func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers a stream for user. The returned function unregisters it
// and must be called once the stream ends.
func (h *Hub) Subscribe(user string) (<-chan Reminder, func()) {
	s := &session{user: user, events: make(chan Reminder, sessionBuffer)}

	h.mu.Lock()
	if h.closed {
		close(s.events)
	} else {
		h.sessions = append(h.sessions, s)
	}
	h.mu.Unlock()

	return s.events, func() { h.removeSession(s) }
}

func (h *Hub) removeSession(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	idx := slices.Index(h.sessions, s)
	if idx != -1 {
		h.sessions[idx] = nil
		h.sessions = slices.Delete(h.sessions, idx, idx+1)
		close(s.events)
	}
}

// Notify queues r on every open stream of its user. It returns ErrNotDelivered
// when the user has no open stream or all of them are full.
func (h *Hub) Notify(_ context.Context, r Reminder) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	queued := 0
	for _, s := range h.sessions {
		if s.user != r.User {
			continue
		}
		select {
		case s.events <- r:
			queued++
		default:
			log.Warnf("event stream for %s is full, dropping reminder %d", r.User, r.TodoID)
		}
	}
	if queued == 0 {
		return ErrNotDelivered
	}
	return nil
}

// Sessions returns the number of open streams.
func (h *Hub) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Close ends every open stream.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, s := range h.sessions {
		close(s.events)
	}
	h.sessions = nil
	h.closed = true
}
