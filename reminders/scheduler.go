package reminders

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/biosecret/portfolio-api/database"
	"github.com/biosecret/portfolio-api/models"
	"github.com/biosecret/portfolio-api/notify"
)

var errDueDateChanged = errors.New("due date changed while notifying")

type todoStore interface {
	ListAllTodos(ctx context.Context) ([]models.Todo, error)
	UpdateTodo(ctx context.Context, user string, id int64, fn func(*models.Todo) error) (models.Todo, error)
}

// Scheduler periodically looks for open todos whose due date falls within the
// lead window and sends one reminder per due date.
type Scheduler struct {
	store    todoStore
	notifier notify.Notifier
	interval time.Duration
	lead     time.Duration

	loc *time.Location
	now func() time.Time
}

func NewScheduler(store todoStore, notifier notify.Notifier, interval, lead time.Duration) *Scheduler {
	return &Scheduler{
		store:    store,
		notifier: notifier,
		interval: interval,
		lead:     lead,
		loc:      time.Local,
		now:      time.Now,
	}
}

// Run scans once immediately and then on every tick until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.Scan(ctx); err != nil && ctx.Err() == nil {
			log.Errorf("reminder scan failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Scan sends the reminders that are due now and returns how many were sent.
// A todo is flagged only after the notifier accepted its reminder, so a failed
// delivery is retried on the next scan.
func (s *Scheduler) Scan(ctx context.Context) (int, error) {
	todos, err := s.store.ListAllTodos(ctx)
	if err != nil {
		return 0, err
	}

	deadline := s.now().Add(s.lead)
	sent := 0
	for _, todo := range todos {
		if todo.Completed || todo.Notified {
			continue
		}
		due, ok := todo.Due(s.loc)
		if !ok || due.After(deadline) {
			continue
		}

		r := notify.Reminder{TodoID: todo.ID, User: todo.User, Text: todo.Text, DueDate: todo.DueDate}
		if err := s.notifier.Notify(ctx, r); err != nil {
			if errors.Is(err, notify.ErrNotDelivered) {
				log.Debugf("reminder for todo %d waits for %s to connect", todo.ID, todo.User)
			} else {
				log.Warnf("reminder for todo %d not delivered: %v", todo.ID, err)
			}
			continue
		}

		dueDate := todo.DueDate
		_, err := s.store.UpdateTodo(ctx, todo.User, todo.ID, func(t *models.Todo) error {
			if t.DueDate != dueDate {
				return errDueDateChanged
			}
			t.Notified = true
			return nil
		})
		switch {
		case err == nil:
			sent++
		case errors.Is(err, database.ErrNotFound), errors.Is(err, errDueDateChanged):
			// deleted or rescheduled in the meantime
		default:
			return sent, err
		}
	}
	return sent, nil
}
