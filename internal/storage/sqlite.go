package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/common"
	"github.com/easymigrate/docintake/internal/entity"
	"github.com/easymigrate/docintake/internal/merge"
)

// SQLite is the embedded fallback store for runs without a Postgres DSN.
// Both destination tables are created on open with all-TEXT columns.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", path, err)
	}
	// The store serves one session at a time; a single connection avoids
	// SQLITE_BUSY on concurrent finalizations.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, logger: logger}
	for _, table := range []string{constants.TableApplications, constants.TableNotifications} {
		if err := s.ensureTable(ctx, table); err != nil {
			db.Close()
			return nil, err
		}
	}
	logger.Info("storage.sqlite.opened", "path", path)
	return s, nil
}

func (s *SQLite) ensureTable(ctx context.Context, table string) error {
	cols := merge.TableColumns(table)
	if cols == nil {
		return fmt.Errorf("unknown table %q", table)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (id INTEGER PRIMARY KEY AUTOINCREMENT, created_at TEXT NOT NULL DEFAULT (datetime('now'))", table)
	for _, c := range cols {
		fmt.Fprintf(&b, ", %s TEXT", c)
	}
	b.WriteString(")")

	if _, err := s.db.ExecContext(ctx, b.String()); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

func (s *SQLite) SaveRecord(ctx context.Context, table string, rec entity.CanonicalRecord) error {
	stmt, args, err := insertStatement(table, rec, "?")
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return common.NewAppError("STORAGE", fmt.Sprintf("insert into %s", table), err)
	}
	s.logger.Info("storage.sqlite.saved", "table", table, "fields", len(rec))
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
