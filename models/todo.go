package models

import (
	"encoding/json"
	"time"
)

// Todo is a task owned by a single user
type Todo struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	DueDate   string    `json:"dueDate,omitempty"`
	Notified  bool      `json:"notified,omitempty"` // reminder already delivered for DueDate
}

// UnmarshalJSON also accepts whatsappNotified, the name the flag had in older
// todos.json files.
func (t *Todo) UnmarshalJSON(data []byte) error {
	type plain Todo
	var v struct {
		plain
		WhatsappNotified bool `json:"whatsappNotified"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = Todo(v.plain)
	t.Notified = t.Notified || v.WhatsappNotified
	return nil
}

// dueDateLayouts are the formats accepted from clients, in order of preference.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Due parses DueDate. Layouts without a zone are read in loc.
func (t Todo) Due(loc *time.Location) (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	for _, layout := range dueDateLayouts {
		if d, err := time.ParseInLocation(layout, t.DueDate, loc); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// ValidDueDate reports whether s is empty or parseable as a due date.
func ValidDueDate(s string) bool {
	if s == "" {
		return true
	}
	_, ok := Todo{DueDate: s}.Due(time.UTC)
	return ok
}
