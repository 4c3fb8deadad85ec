package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/biosecret/portfolio-api/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("already exists")
	ErrForbidden = errors.New("forbidden")
)

// Drivers accepted by Open
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store is the persistence layer used by the API and the reminder scheduler.
//
// Update functions receive the stored value and may change it in place. Returning
// an error from fn aborts the update and the error is returned unchanged.
type Store interface {
	CreateUser(ctx context.Context, u models.User) error
	GetUser(ctx context.Context, username string) (models.User, error)

	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id int64) (models.Project, error)
	CreateProject(ctx context.Context, p models.Project) (models.Project, error)
	UpdateProject(ctx context.Context, id int64, fn func(*models.Project) error) (models.Project, error)
	DeleteProject(ctx context.Context, id int64) error

	ListTodos(ctx context.Context, user string) ([]models.Todo, error)
	ListAllTodos(ctx context.Context) ([]models.Todo, error)
	CreateTodo(ctx context.Context, t models.Todo) (models.Todo, error)
	UpdateTodo(ctx context.Context, user string, id int64, fn func(*models.Todo) error) (models.Todo, error)
	DeleteTodo(ctx context.Context, user string, id int64) error

	ListComments(ctx context.Context, projectID int64) ([]models.Comment, error)
	GetComment(ctx context.Context, id int64) (models.Comment, error)
	CreateComment(ctx context.Context, c models.Comment) (models.Comment, error)
	UpdateComment(ctx context.Context, id int64, fn func(*models.Comment) error) (models.Comment, error)
	DeleteComment(ctx context.Context, id int64, check func(models.Comment) error) error

	Close() error
}

// Open returns the Store for driver. source is the data directory for the file
// driver and the DSN or database path for the SQL drivers.
func Open(ctx context.Context, driver, source string) (Store, error) {
	switch driver {
	case DriverFile, "":
		return NewFileStore(source)
	case DriverPostgres:
		return StartPostgreSQL(ctx, source)
	case DriverSQLite:
		return StartSQLite(ctx, source)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
