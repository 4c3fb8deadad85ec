package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodo_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		notified bool
	}{
		{"current key", `{"id": 1, "text": "a", "notified": true}`, true},
		{"legacy key", `{"id": 1, "text": "a", "whatsappNotified": true}`, true},
		{"neither", `{"id": 1, "text": "a"}`, false},
		{"legacy false", `{"id": 1, "text": "a", "whatsappNotified": false}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var todo Todo
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &todo))
			assert.Equal(t, int64(1), todo.ID)
			assert.Equal(t, "a", todo.Text)
			assert.Equal(t, tt.notified, todo.Notified)
		})
	}
}

func TestTodo_MarshalUsesCurrentKey(t *testing.T) {
	data, err := json.Marshal(Todo{ID: 2, Text: "b", Notified: true, CreatedAt: time.Unix(0, 0).UTC()})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"notified":true`)
	assert.NotContains(t, string(data), "whatsappNotified")
}

func TestTodo_Due(t *testing.T) {
	loc := time.FixedZone("test", 2*60*60)

	due, ok := Todo{DueDate: "2025-06-01T09:30"}.Due(loc)
	require.True(t, ok)
	assert.True(t, due.Equal(time.Date(2025, 6, 1, 9, 30, 0, 0, loc)))

	due, ok = Todo{DueDate: "2025-06-01T09:30:00Z"}.Due(loc)
	require.True(t, ok)
	assert.True(t, due.Equal(time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)))

	_, ok = Todo{DueDate: "next week"}.Due(loc)
	assert.False(t, ok)
	_, ok = Todo{}.Due(loc)
	assert.False(t, ok)

	assert.True(t, ValidDueDate(""))
	assert.False(t, ValidDueDate("32/13/2025"))
}
