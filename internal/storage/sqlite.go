package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"iter"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// SQLiteStore keeps lines in a SQLite table ordered by rowid
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if needed) the SQLite database at path
// and applies migrations. Use ":memory:" for an in-memory database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapErr("open", path, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, wrapErr("ping", path, err)
	}

	// One writer; also keeps ":memory:" on a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = FULL;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, wrapErr("configure", path, err)
		}
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.runMigrations(ctx); err != nil {
		db.Close()
		return nil, wrapErr("migrate", path, err)
	}

	return s, nil
}

func (s *SQLiteStore) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}
	return nil
}

// ReadAll yields lines in insertion order
func (s *SQLiteStore) ReadAll(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		rows, err := s.db.QueryContext(ctx, `SELECT line FROM credential_lines ORDER BY id`)
		if err != nil {
			yield("", wrapErr("query", s.path, err))
			return
		}

		var lines []string
		for rows.Next() {
			var line string
			if err := rows.Scan(&line); err != nil {
				rows.Close()
				yield("", wrapErr("scan", s.path, err))
				return
			}
			lines = append(lines, line)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			yield("", wrapErr("read", s.path, err))
			return
		}

		yieldAll(lines, yield)
	}
}

// AppendOne inserts line after the existing ones
func (s *SQLiteStore) AppendOne(ctx context.Context, line string) error {
	if err := checkLine(line); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO credential_lines (line) VALUES (?)`, line); err != nil {
		return wrapErr("insert", s.path, err)
	}
	return nil
}

// WriteAll replaces every line in one transaction
func (s *SQLiteStore) WriteAll(ctx context.Context, lines []string) error {
	if err := checkLines(lines); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("begin", s.path, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM credential_lines`); err != nil {
		return wrapErr("delete", s.path, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO credential_lines (line) VALUES (?)`)
	if err != nil {
		return wrapErr("prepare", s.path, err)
	}
	defer stmt.Close()

	for _, line := range lines {
		if _, err := stmt.ExecContext(ctx, line); err != nil {
			return wrapErr("insert", s.path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapErr("commit", s.path, err)
	}
	return nil
}

// Compact runs VACUUM to reclaim space
func (s *SQLiteStore) Compact(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `VACUUM`); err != nil {
		return wrapErr("vacuum", s.path, err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
