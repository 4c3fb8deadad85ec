package notify

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2/log"
)

// Reminder announces that a todo is about to become due
type Reminder struct {
	TodoID  int64  `json:"todoId"`
	User    string `json:"user"`
	Text    string `json:"text"`
	DueDate string `json:"dueDate"`
}

// Notifier delivers reminders. A nil error means the reminder was accepted.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// Multi fans a reminder out to every notifier. It succeeds when at least one
// of them accepted the reminder; the failures of the others are logged.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, r Reminder) error {
	if len(m) == 0 {
		return errors.New("no notifier configured")
	}

	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == len(m) {
		return errors.Join(errs...)
	}
	for _, err := range errs {
		log.Warnf("reminder %d for %s partially delivered: %v", r.TodoID, r.User, err)
	}
	return nil
}
