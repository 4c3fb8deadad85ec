package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biosecret/portfolio-api/models"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// storeBackends lists every Store implementation that runs without external services
func storeBackends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	return map[string]func(t *testing.T) Store{
		"file": func(t *testing.T) Store {
			s, err := NewFileStore(t.TempDir())
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := StartSQLite(context.Background(), ":memory:")
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s Store)) {
	for name, open := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, open(t))
		})
	}
}

// ============================================================================
// USERS
// ============================================================================

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	forEachBackend(t, func(t *testing.T, s Store) {
		require.NoError(t, s.CreateUser(ctx, models.User{Username: "alice", Password: "hash", Email: "a@example.com"}))

		err := s.CreateUser(ctx, models.User{Username: "alice", Password: "other"})
		assert.ErrorIs(t, err, ErrConflict)

		u, err := s.GetUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "hash", u.Password)
		assert.Equal(t, "a@example.com", u.Email)

		_, err = s.GetUser(ctx, "bob")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// ============================================================================
// PROJECTS
// ============================================================================

func TestStore_Projects(t *testing.T) {
	ctx := context.Background()
	forEachBackend(t, func(t *testing.T, s Store) {
		first, err := s.CreateProject(ctx, models.Project{Title: "One", Description: "first", Image: "one.png"})
		require.NoError(t, err)
		second, err := s.CreateProject(ctx, models.Project{Title: "Two"})
		require.NoError(t, err)
		assert.Greater(t, second.ID, first.ID)

		projects, err := s.ListProjects(ctx)
		require.NoError(t, err)
		require.Len(t, projects, 2)
		assert.Equal(t, "One", projects[0].Title)

		updated, err := s.UpdateProject(ctx, first.ID, func(p *models.Project) error {
			p.Likes++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, updated.Likes)
		assert.Equal(t, "first", updated.Description)

		got, err := s.GetProject(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, got)

		_, err = s.UpdateProject(ctx, 42, func(*models.Project) error { return nil })
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.DeleteProject(ctx, 42), ErrNotFound)
	})
}

func TestStore_DeleteProjectRemovesComments(t *testing.T) {
	ctx := context.Background()
	forEachBackend(t, func(t *testing.T, s Store) {
		p, err := s.CreateProject(ctx, models.Project{Title: "Doomed"})
		require.NoError(t, err)
		other, err := s.CreateProject(ctx, models.Project{Title: "Kept"})
		require.NoError(t, err)

		_, err = s.CreateComment(ctx, models.Comment{ProjectID: p.ID, Text: "bye", Author: "alice", CreatedAt: time.Now()})
		require.NoError(t, err)
		kept, err := s.CreateComment(ctx, models.Comment{ProjectID: other.ID, Text: "stay", Author: "alice", CreatedAt: time.Now()})
		require.NoError(t, err)

		require.NoError(t, s.DeleteProject(ctx, p.ID))

		_, err = s.GetProject(ctx, p.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		comments, err := s.ListComments(ctx, p.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)

		_, err = s.GetComment(ctx, kept.ID)
		assert.NoError(t, err)
	})
}

// ============================================================================
// TODOS
// ============================================================================

func TestStore_TodosAreOwnerScoped(t *testing.T) {
	ctx := context.Background()
	forEachBackend(t, func(t *testing.T, s Store) {
		created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
		mine, err := s.CreateTodo(ctx, models.Todo{Text: "mine", User: "alice", CreatedAt: created, DueDate: "2025-03-02T10:00"})
		require.NoError(t, err)
		_, err = s.CreateTodo(ctx, models.Todo{Text: "theirs", User: "bob", CreatedAt: created})
		require.NoError(t, err)

		todos, err := s.ListTodos(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, todos, 1)
		assert.Equal(t, "mine", todos[0].Text)
		assert.True(t, todos[0].CreatedAt.Equal(created))
		assert.Equal(t, "2025-03-02T10:00", todos[0].DueDate)

		all, err := s.ListAllTodos(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		_, err = s.UpdateTodo(ctx, "bob", mine.ID, func(t *models.Todo) error {
			t.Text = "hijacked"
			return nil
		})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.DeleteTodo(ctx, "bob", mine.ID), ErrNotFound)

		updated, err := s.UpdateTodo(ctx, "alice", mine.ID, func(t *models.Todo) error {
			t.Completed = true
			t.User = "mallory"
			return nil
		})
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Equal(t, "alice", updated.User)
		assert.Equal(t, "mine", updated.Text)

		require.NoError(t, s.DeleteTodo(ctx, "alice", mine.ID))
		todos, err = s.ListTodos(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, todos)
	})
}

// ============================================================================
// COMMENTS
// ============================================================================

func TestStore_Comments(t *testing.T) {
	ctx := context.Background()
	forEachBackend(t, func(t *testing.T, s Store) {
		_, err := s.CreateComment(ctx, models.Comment{ProjectID: 999, Text: "orphan", Author: "alice", CreatedAt: time.Now()})
		assert.ErrorIs(t, err, ErrNotFound)

		p, err := s.CreateProject(ctx, models.Project{Title: "Gallery"})
		require.NoError(t, err)
		c, err := s.CreateComment(ctx, models.Comment{ProjectID: p.ID, Text: "nice", Author: "alice", CreatedAt: time.Now()})
		require.NoError(t, err)

		_, err = s.UpdateComment(ctx, c.ID, func(*models.Comment) error { return ErrForbidden })
		assert.ErrorIs(t, err, ErrForbidden)

		got, err := s.GetComment(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "nice", got.Text)

		edited, err := s.UpdateComment(ctx, c.ID, func(c *models.Comment) error {
			c.Text = "very nice"
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "very nice", edited.Text)
		assert.Equal(t, "alice", edited.Author)

		err = s.DeleteComment(ctx, c.ID, func(models.Comment) error { return ErrForbidden })
		assert.ErrorIs(t, err, ErrForbidden)

		require.NoError(t, s.DeleteComment(ctx, c.ID, nil))
		_, err = s.GetComment(ctx, c.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// ============================================================================
// FILE STORE
// ============================================================================

func TestFileStore_CreatesEmptyFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	_, err := NewFileStore(dir)
	require.NoError(t, err)

	for _, name := range []string{"users.json", "projects.json", "todos.json", "comments.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Equal(t, "[]", string(data), name)
	}
}

func TestFileStore_ConcurrentWritesAreNotLost(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	frozen := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return frozen }

	const writers = 25
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateTodo(ctx, models.Todo{Text: "task", User: "alice", CreatedAt: frozen})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	todos, err := s.ListTodos(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, todos, writers)

	seen := map[int64]bool{}
	for _, todo := range todos {
		assert.False(t, seen[todo.ID], "duplicate id %d", todo.ID)
		seen[todo.ID] = true
	}
}

func TestFileStore_ReadsExistingData(t *testing.T) {
	dir := t.TempDir()
	raw := `[{"id": 7, "title": "Legacy", "description": "", "image": "", "likes": 3, "dislikes": 1}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects.json"), []byte(raw), 0o644))

	s, err := NewFileStore(dir)
	require.NoError(t, err)

	p, err := s.GetProject(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Legacy", p.Title)
	assert.Equal(t, 3, p.Likes)
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "todos.json"), []byte("{not json"), 0o644))

	_, err := NewFileStore(dir)
	assert.ErrorContains(t, err, "decode todos.json")
}

func TestFileStore_DeleteProjectFailureKeepsComments(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	p, err := s.CreateProject(ctx, models.Project{Title: "Sticky"})
	require.NoError(t, err)
	_, err = s.CreateComment(ctx, models.Comment{ProjectID: p.ID, Text: "keep me", Author: "alice", CreatedAt: time.Now()})
	require.NoError(t, err)

	rename = func(oldpath, newpath string) error {
		if filepath.Base(newpath) == "projects.json" {
			return errors.New("disk full")
		}
		return os.Rename(oldpath, newpath)
	}
	t.Cleanup(func() { rename = os.Rename })

	assert.ErrorContains(t, s.DeleteProject(ctx, p.ID), "disk full")

	_, err = s.GetProject(ctx, p.ID)
	assert.NoError(t, err)
	comments, err := s.ListComments(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestFileStore_ReadsLegacyNotifiedFlag(t *testing.T) {
	dir := t.TempDir()
	raw := `[{"id": 3, "text": "dentist", "completed": false, "user": "alice",
		"createdAt": "2024-05-01T08:00:00.000Z", "dueDate": "2024-05-02T09:00", "whatsappNotified": true}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "todos.json"), []byte(raw), 0o644))

	s, err := NewFileStore(dir)
	require.NoError(t, err)

	todos, err := s.ListTodos(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.True(t, todos[0].Notified)
}

// ============================================================================
// SQL STORE
// ============================================================================

func TestSQLStore_Rebind(t *testing.T) {
	pg := &SQLStore{dialect: dialectPostgres}
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", pg.rebind("SELECT a FROM t WHERE x = ? AND y = ?"))

	lite := &SQLStore{dialect: dialectSQLite}
	assert.Equal(t, "SELECT a FROM t WHERE x = ?", lite.rebind("SELECT a FROM t WHERE x = ?"))
}

func TestSQLStore_LockTable(t *testing.T) {
	pg := &SQLStore{dialect: dialectPostgres}
	assert.Equal(t, "LOCK TABLE todos IN SHARE ROW EXCLUSIVE MODE", pg.lockTable("todos"))

	lite := &SQLStore{dialect: dialectSQLite}
	assert.Empty(t, lite.lockTable("todos"))
}

func TestStore_ConcurrentCreatesGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	frozen := time.UnixMilli(1_700_000_000_000)

	forEachBackend(t, func(t *testing.T, s Store) {
		switch st := s.(type) {
		case *FileStore:
			st.now = func() time.Time { return frozen }
		case *SQLStore:
			st.now = func() time.Time { return frozen }
		}

		const writers = 10
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.CreateProject(ctx, models.Project{Title: "race"})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		projects, err := s.ListProjects(ctx)
		require.NoError(t, err)
		require.Len(t, projects, writers)
		seen := map[int64]bool{}
		for _, p := range projects {
			assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
			seen[p.ID] = true
		}
	})
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mongo", "")
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestStartPostgreSQL_RequiresURI(t *testing.T) {
	_, err := StartPostgreSQL(context.Background(), "")
	assert.ErrorContains(t, err, "POSTGRESQL_URI")
}
