package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/biosecret/portfolio-api/models"
	"github.com/biosecret/portfolio-api/utils"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// SQLStore implements Store on database/sql. Queries are written with ?
// placeholders and rewritten to $n for PostgreSQL.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

func newSQLStore(ctx context.Context, db *sql.DB, d dialect) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: d, now: time.Now}
	if err := s.createTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// createTables creates the tables if they do not exist
func (s *SQLStore) createTables(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		password TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS projects (
		id BIGINT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		likes INTEGER NOT NULL DEFAULT 0,
		dislikes INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS todos (
		id BIGINT PRIMARY KEY,
		text TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		username TEXT NOT NULL,
		created_at TEXT NOT NULL,
		due_date TEXT NOT NULL DEFAULT '',
		notified BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE TABLE IF NOT EXISTS comments (
		id BIGINT PRIMARY KEY,
		project_id BIGINT NOT NULL,
		text TEXT NOT NULL,
		author TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return err
	}

	log.Info("Tables created or already exist")
	return nil
}

// rebind rewrites ? placeholders to $1, $2, ... for PostgreSQL
func (s *SQLStore) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// forUpdate locks the selected row inside a transaction where the dialect supports it
func (s *SQLStore) forUpdate() string {
	if s.dialect == dialectPostgres {
		return " FOR UPDATE"
	}
	return ""
}

// withTx runs fn in a transaction and commits when fn returns nil
func (s *SQLStore) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Errorf("rollback failed: %v", rbErr)
		}
		return err
	}
	return tx.Commit()
}

// lockTable returns the statement that keeps concurrent transactions from
// reading the same MAX(id) on table. SQLite runs a single writer and needs none.
func (s *SQLStore) lockTable(table string) string {
	if s.dialect != dialectPostgres {
		return ""
	}
	return "LOCK TABLE " + table + " IN SHARE ROW EXCLUSIVE MODE"
}

func (s *SQLStore) nextID(ctx context.Context, tx *sql.Tx, table string) (int64, error) {
	if stmt := s.lockTable(table); stmt != "" {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("lock %s: %w", table, err)
		}
	}

	var last int64
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM "+table).Scan(&last); err != nil {
		return 0, err
	}
	return utils.NextID(s.now(), last), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// Users

func (s *SQLStore) CreateUser(ctx context.Context, u models.User) error {
	res, err := s.db.ExecContext(ctx, s.rebind(
		"INSERT INTO users (username, password, email) VALUES (?, ?, ?) ON CONFLICT (username) DO NOTHING"),
		u.Username, u.Password, u.Email,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrConflict
	}
	return nil
}

func (s *SQLStore) GetUser(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT username, password, email FROM users WHERE username = ?"), username).
		Scan(&u.Username, &u.Password, &u.Email)
	if err != nil {
		return models.User{}, notFound(err)
	}
	return u, nil
}

// Projects

const projectColumns = "id, title, description, image, likes, dislikes"

func scanProject(row rowScanner) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Image, &p.Likes, &p.Dislikes)
	return p, err
}

func (s *SQLStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *SQLStore) GetProject(ctx context.Context, id int64) (models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, s.rebind("SELECT "+projectColumns+" FROM projects WHERE id = ?"), id))
	if err != nil {
		return models.Project{}, notFound(err)
	}
	return p, nil
}

func (s *SQLStore) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := s.nextID(ctx, tx, "projects")
		if err != nil {
			return err
		}
		p.ID = id
		_, err = tx.ExecContext(ctx, s.rebind(
			"INSERT INTO projects ("+projectColumns+") VALUES (?, ?, ?, ?, ?, ?)"),
			p.ID, p.Title, p.Description, p.Image, p.Likes, p.Dislikes,
		)
		return err
	})
	if err != nil {
		return models.Project{}, err
	}
	return p, nil
}

func (s *SQLStore) UpdateProject(ctx context.Context, id int64, fn func(*models.Project) error) (models.Project, error) {
	var p models.Project
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		p, err = scanProject(tx.QueryRowContext(ctx, s.rebind("SELECT "+projectColumns+" FROM projects WHERE id = ?"+s.forUpdate()), id))
		if err != nil {
			return notFound(err)
		}
		if err := fn(&p); err != nil {
			return err
		}
		p.ID = id
		_, err = tx.ExecContext(ctx, s.rebind(
			"UPDATE projects SET title = ?, description = ?, image = ?, likes = ?, dislikes = ? WHERE id = ?"),
			p.Title, p.Description, p.Image, p.Likes, p.Dislikes, id,
		)
		return err
	})
	if err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// DeleteProject removes the project together with its comments.
func (s *SQLStore) DeleteProject(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.rebind("DELETE FROM projects WHERE id = ?"), id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrNotFound
		}
		_, err = tx.ExecContext(ctx, s.rebind("DELETE FROM comments WHERE project_id = ?"), id)
		return err
	})
}

// Todos

const todoColumns = "id, text, completed, username, created_at, due_date, notified"

func scanTodo(row rowScanner) (models.Todo, error) {
	var (
		t       models.Todo
		created string
	)
	if err := row.Scan(&t.ID, &t.Text, &t.Completed, &t.User, &created, &t.DueDate, &t.Notified); err != nil {
		return models.Todo{}, err
	}
	var err error
	if t.CreatedAt, err = parseTime(created); err != nil {
		return models.Todo{}, fmt.Errorf("todo %d: bad created_at: %w", t.ID, err)
	}
	return t, nil
}

func (s *SQLStore) queryTodos(ctx context.Context, query string, args ...any) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (s *SQLStore) ListTodos(ctx context.Context, user string) ([]models.Todo, error) {
	return s.queryTodos(ctx, "SELECT "+todoColumns+" FROM todos WHERE username = ? ORDER BY id", user)
}

func (s *SQLStore) ListAllTodos(ctx context.Context) ([]models.Todo, error) {
	return s.queryTodos(ctx, "SELECT "+todoColumns+" FROM todos ORDER BY id")
}

func (s *SQLStore) CreateTodo(ctx context.Context, t models.Todo) (models.Todo, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := s.nextID(ctx, tx, "todos")
		if err != nil {
			return err
		}
		t.ID = id
		_, err = tx.ExecContext(ctx, s.rebind(
			"INSERT INTO todos ("+todoColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)"),
			t.ID, t.Text, t.Completed, t.User, formatTime(t.CreatedAt), t.DueDate, t.Notified,
		)
		return err
	})
	if err != nil {
		return models.Todo{}, err
	}
	return t, nil
}

func (s *SQLStore) UpdateTodo(ctx context.Context, user string, id int64, fn func(*models.Todo) error) (models.Todo, error) {
	var t models.Todo
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		t, err = scanTodo(tx.QueryRowContext(ctx, s.rebind(
			"SELECT "+todoColumns+" FROM todos WHERE id = ? AND username = ?"+s.forUpdate()), id, user))
		if err != nil {
			return notFound(err)
		}
		if err := fn(&t); err != nil {
			return err
		}
		t.ID, t.User = id, user
		_, err = tx.ExecContext(ctx, s.rebind(
			"UPDATE todos SET text = ?, completed = ?, due_date = ?, notified = ? WHERE id = ?"),
			t.Text, t.Completed, t.DueDate, t.Notified, id,
		)
		return err
	})
	if err != nil {
		return models.Todo{}, err
	}
	return t, nil
}

func (s *SQLStore) DeleteTodo(ctx context.Context, user string, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM todos WHERE id = ? AND username = ?"), id, user)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Comments

const commentColumns = "id, project_id, text, author, created_at"

func scanComment(row rowScanner) (models.Comment, error) {
	var (
		c       models.Comment
		created string
	)
	if err := row.Scan(&c.ID, &c.ProjectID, &c.Text, &c.Author, &created); err != nil {
		return models.Comment{}, err
	}
	var err error
	if c.CreatedAt, err = parseTime(created); err != nil {
		return models.Comment{}, fmt.Errorf("comment %d: bad created_at: %w", c.ID, err)
	}
	return c, nil
}

func (s *SQLStore) ListComments(ctx context.Context, projectID int64) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind("SELECT "+commentColumns+" FROM comments WHERE project_id = ? ORDER BY id"), projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *SQLStore) GetComment(ctx context.Context, id int64) (models.Comment, error) {
	c, err := scanComment(s.db.QueryRowContext(ctx, s.rebind("SELECT "+commentColumns+" FROM comments WHERE id = ?"), id))
	if err != nil {
		return models.Comment{}, notFound(err)
	}
	return c, nil
}

// CreateComment returns ErrNotFound when the target project does not exist.
func (s *SQLStore) CreateComment(ctx context.Context, c models.Comment) (models.Comment, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, s.rebind("SELECT EXISTS(SELECT 1 FROM projects WHERE id = ?)"), c.ProjectID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}

		id, err := s.nextID(ctx, tx, "comments")
		if err != nil {
			return err
		}
		c.ID = id
		_, err = tx.ExecContext(ctx, s.rebind(
			"INSERT INTO comments ("+commentColumns+") VALUES (?, ?, ?, ?, ?)"),
			c.ID, c.ProjectID, c.Text, c.Author, formatTime(c.CreatedAt),
		)
		return err
	})
	if err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

func (s *SQLStore) UpdateComment(ctx context.Context, id int64, fn func(*models.Comment) error) (models.Comment, error) {
	var c models.Comment
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		c, err = scanComment(tx.QueryRowContext(ctx, s.rebind("SELECT "+commentColumns+" FROM comments WHERE id = ?"+s.forUpdate()), id))
		if err != nil {
			return notFound(err)
		}
		if err := fn(&c); err != nil {
			return err
		}
		c.ID = id
		_, err = tx.ExecContext(ctx, s.rebind("UPDATE comments SET text = ? WHERE id = ?"), c.Text, id)
		return err
	})
	if err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

func (s *SQLStore) DeleteComment(ctx context.Context, id int64, check func(models.Comment) error) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		c, err := scanComment(tx.QueryRowContext(ctx, s.rebind("SELECT "+commentColumns+" FROM comments WHERE id = ?"+s.forUpdate()), id))
		if err != nil {
			return notFound(err)
		}
		if check != nil {
			if err := check(c); err != nil {
				return err
			}
		}
		_, err = tx.ExecContext(ctx, s.rebind("DELETE FROM comments WHERE id = ?"), id)
		return err
	})
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	if err := s.db.Close(); err != nil {
		return err
	}
	log.Info("Database connection closed")
	return nil
}
