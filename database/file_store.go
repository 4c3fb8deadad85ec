package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/biosecret/portfolio-api/models"
	"github.com/biosecret/portfolio-api/utils"
)

// FileStore keeps each entity as a JSON array in its own file under a directory.
// A single mutex serializes every operation, so a read-modify-write never
// interleaves with another one.
type FileStore struct {
	mu       sync.Mutex
	users    collection[models.User]
	projects collection[models.Project]
	todos    collection[models.Todo]
	comments collection[models.Comment]

	now func() time.Time
}

// NewFileStore creates dir if needed and makes sure every data file exists.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &FileStore{
		users:    collection[models.User]{path: filepath.Join(dir, "users.json")},
		projects: collection[models.Project]{path: filepath.Join(dir, "projects.json")},
		todos:    collection[models.Todo]{path: filepath.Join(dir, "todos.json")},
		comments: collection[models.Comment]{path: filepath.Join(dir, "comments.json")},
		now:      time.Now,
	}

	for _, c := range []interface{ ensure() error }{s.users, s.projects, s.todos, s.comments} {
		if err := c.ensure(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *FileStore) lock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	return nil
}

func projectID(p models.Project) int64 { return p.ID }
func todoID(t models.Todo) int64       { return t.ID }
func commentID(c models.Comment) int64 { return c.ID }

func (s *FileStore) CreateUser(ctx context.Context, u models.User) error {
	if err := s.lock(ctx); err != nil {
		return err
	}
	defer s.mu.Unlock()

	users, err := s.users.load()
	if err != nil {
		return err
	}
	if slices.ContainsFunc(users, func(x models.User) bool { return x.Username == u.Username }) {
		return ErrConflict
	}
	return s.users.save(append(users, u))
}

func (s *FileStore) GetUser(ctx context.Context, username string) (models.User, error) {
	if err := s.lock(ctx); err != nil {
		return models.User{}, err
	}
	defer s.mu.Unlock()

	users, err := s.users.load()
	if err != nil {
		return models.User{}, err
	}
	i := slices.IndexFunc(users, func(x models.User) bool { return x.Username == username })
	if i < 0 {
		return models.User{}, ErrNotFound
	}
	return users[i], nil
}

func (s *FileStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	return s.projects.load()
}

func (s *FileStore) GetProject(ctx context.Context, id int64) (models.Project, error) {
	if err := s.lock(ctx); err != nil {
		return models.Project{}, err
	}
	defer s.mu.Unlock()

	projects, err := s.projects.load()
	if err != nil {
		return models.Project{}, err
	}
	i := slices.IndexFunc(projects, func(p models.Project) bool { return p.ID == id })
	if i < 0 {
		return models.Project{}, ErrNotFound
	}
	return projects[i], nil
}

func (s *FileStore) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	if err := s.lock(ctx); err != nil {
		return models.Project{}, err
	}
	defer s.mu.Unlock()

	projects, err := s.projects.load()
	if err != nil {
		return models.Project{}, err
	}
	p.ID = utils.NextID(s.now(), maxID(projects, projectID))
	if err := s.projects.save(append(projects, p)); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

func (s *FileStore) UpdateProject(ctx context.Context, id int64, fn func(*models.Project) error) (models.Project, error) {
	if err := s.lock(ctx); err != nil {
		return models.Project{}, err
	}
	defer s.mu.Unlock()

	projects, err := s.projects.load()
	if err != nil {
		return models.Project{}, err
	}
	i := slices.IndexFunc(projects, func(p models.Project) bool { return p.ID == id })
	if i < 0 {
		return models.Project{}, ErrNotFound
	}
	if err := fn(&projects[i]); err != nil {
		return models.Project{}, err
	}
	projects[i].ID = id
	if err := s.projects.save(projects); err != nil {
		return models.Project{}, err
	}
	return projects[i], nil
}

// DeleteProject removes the project together with its comments.
func (s *FileStore) DeleteProject(ctx context.Context, id int64) error {
	if err := s.lock(ctx); err != nil {
		return err
	}
	defer s.mu.Unlock()

	projects, err := s.projects.load()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(projects, func(p models.Project) bool { return p.ID == id })
	if i < 0 {
		return ErrNotFound
	}

	comments, err := s.comments.load()
	if err != nil {
		return err
	}

	// a failure after the project is gone leaves orphan comments, never a
	// project that lost its comments
	if err := s.projects.save(slices.Delete(projects, i, i+1)); err != nil {
		return err
	}
	kept := slices.DeleteFunc(comments, func(c models.Comment) bool { return c.ProjectID == id })
	if len(kept) == len(comments) {
		return nil
	}
	return s.comments.save(kept)
}

func (s *FileStore) ListTodos(ctx context.Context, user string) ([]models.Todo, error) {
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	todos, err := s.todos.load()
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(todos, func(t models.Todo) bool { return t.User != user }), nil
}

func (s *FileStore) ListAllTodos(ctx context.Context) ([]models.Todo, error) {
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	return s.todos.load()
}

func (s *FileStore) CreateTodo(ctx context.Context, t models.Todo) (models.Todo, error) {
	if err := s.lock(ctx); err != nil {
		return models.Todo{}, err
	}
	defer s.mu.Unlock()

	todos, err := s.todos.load()
	if err != nil {
		return models.Todo{}, err
	}
	t.ID = utils.NextID(s.now(), maxID(todos, todoID))
	if err := s.todos.save(append(todos, t)); err != nil {
		return models.Todo{}, err
	}
	return t, nil
}

func (s *FileStore) UpdateTodo(ctx context.Context, user string, id int64, fn func(*models.Todo) error) (models.Todo, error) {
	if err := s.lock(ctx); err != nil {
		return models.Todo{}, err
	}
	defer s.mu.Unlock()

	todos, err := s.todos.load()
	if err != nil {
		return models.Todo{}, err
	}
	i := slices.IndexFunc(todos, func(t models.Todo) bool { return t.ID == id && t.User == user })
	if i < 0 {
		return models.Todo{}, ErrNotFound
	}
	if err := fn(&todos[i]); err != nil {
		return models.Todo{}, err
	}
	todos[i].ID, todos[i].User = id, user
	if err := s.todos.save(todos); err != nil {
		return models.Todo{}, err
	}
	return todos[i], nil
}

func (s *FileStore) DeleteTodo(ctx context.Context, user string, id int64) error {
	if err := s.lock(ctx); err != nil {
		return err
	}
	defer s.mu.Unlock()

	todos, err := s.todos.load()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(todos, func(t models.Todo) bool { return t.ID == id && t.User == user })
	if i < 0 {
		return ErrNotFound
	}
	return s.todos.save(slices.Delete(todos, i, i+1))
}

func (s *FileStore) ListComments(ctx context.Context, projectID int64) ([]models.Comment, error) {
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	comments, err := s.comments.load()
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(comments, func(c models.Comment) bool { return c.ProjectID != projectID }), nil
}

func (s *FileStore) GetComment(ctx context.Context, id int64) (models.Comment, error) {
	if err := s.lock(ctx); err != nil {
		return models.Comment{}, err
	}
	defer s.mu.Unlock()

	comments, err := s.comments.load()
	if err != nil {
		return models.Comment{}, err
	}
	i := slices.IndexFunc(comments, func(c models.Comment) bool { return c.ID == id })
	if i < 0 {
		return models.Comment{}, ErrNotFound
	}
	return comments[i], nil
}

// CreateComment returns ErrNotFound when the target project does not exist.
func (s *FileStore) CreateComment(ctx context.Context, c models.Comment) (models.Comment, error) {
	if err := s.lock(ctx); err != nil {
		return models.Comment{}, err
	}
	defer s.mu.Unlock()

	projects, err := s.projects.load()
	if err != nil {
		return models.Comment{}, err
	}
	if !slices.ContainsFunc(projects, func(p models.Project) bool { return p.ID == c.ProjectID }) {
		return models.Comment{}, ErrNotFound
	}

	comments, err := s.comments.load()
	if err != nil {
		return models.Comment{}, err
	}
	c.ID = utils.NextID(s.now(), maxID(comments, commentID))
	if err := s.comments.save(append(comments, c)); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

func (s *FileStore) UpdateComment(ctx context.Context, id int64, fn func(*models.Comment) error) (models.Comment, error) {
	if err := s.lock(ctx); err != nil {
		return models.Comment{}, err
	}
	defer s.mu.Unlock()

	comments, err := s.comments.load()
	if err != nil {
		return models.Comment{}, err
	}
	i := slices.IndexFunc(comments, func(c models.Comment) bool { return c.ID == id })
	if i < 0 {
		return models.Comment{}, ErrNotFound
	}
	if err := fn(&comments[i]); err != nil {
		return models.Comment{}, err
	}
	comments[i].ID = id
	if err := s.comments.save(comments); err != nil {
		return models.Comment{}, err
	}
	return comments[i], nil
}

func (s *FileStore) DeleteComment(ctx context.Context, id int64, check func(models.Comment) error) error {
	if err := s.lock(ctx); err != nil {
		return err
	}
	defer s.mu.Unlock()

	comments, err := s.comments.load()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(comments, func(c models.Comment) bool { return c.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	if check != nil {
		if err := check(comments[i]); err != nil {
			return err
		}
	}
	return s.comments.save(slices.Delete(comments, i, i+1))
}

// Close is a no-op; every operation already flushed its file.
func (s *FileStore) Close() error {
	return nil
}
