package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	_ "modernc.org/sqlite"
)

// StartSQLite opens (or creates) the SQLite database at path
func StartSQLite(ctx context.Context, path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps :memory: databases shared and avoids SQLITE_BUSY on writes
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot open SQLite database: %w", err)
	}
	log.Infof("Opened SQLite database %s", path)

	return newSQLStore(ctx, db, dialectSQLite)
}
