package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/huangsam/devinsight/internal/contract"
	"github.com/huangsam/devinsight/schema"
)

// worksheetStore persists built tables to a SQL backend. Each run is
// keyed by run id; re-running with the same id replaces the prior rows.
type worksheetStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.WorksheetStore = (*worksheetStore)(nil)

// NewWorksheetStore opens the configured database backend and prepares
// the worksheet tables.
func NewWorksheetStore(cfg *contract.Config) (contract.WorksheetStore, error) {
	var db *sql.DB
	var err error

	switch cfg.ExportBackend {
	case schema.SQLiteBackend:
		dbPath := cfg.ExportDBConnect
		if dbPath == "" {
			dbPath = filepath.Join(cfg.OutputDir, "devinsight.db")
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w", dbPath, err)
		}
		// A single open connection avoids "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open("mysql", cfg.ExportDBConnect)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open("pgx", cfg.ExportDBConnect)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported export backend: %s. Must be sqlite, mysql, or postgresql", cfg.ExportBackend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.ExportBackend, err)
	}

	store := &worksheetStore{db: db, backend: cfg.ExportBackend}
	if err := store.createTables(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// createTables prepares the worksheet schema. Headers and row payloads
// are stored as JSON text so every backend shares one layout.
func (s *worksheetStore) createTables() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS worksheets (
			run_id TEXT NOT NULL,
			name TEXT NOT NULL,
			headers TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			column_count INTEGER NOT NULL,
			PRIMARY KEY (run_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS worksheet_rows (
			run_id TEXT NOT NULL,
			worksheet TEXT NOT NULL,
			row_index INTEGER NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (run_id, worksheet, row_index)
		)`,
	}
	if s.backend == schema.MySQLBackend {
		// MySQL cannot index unbounded TEXT columns.
		statements = []string{
			`CREATE TABLE IF NOT EXISTS worksheets (
				run_id VARCHAR(128) NOT NULL,
				name VARCHAR(128) NOT NULL,
				headers TEXT NOT NULL,
				row_count INT NOT NULL,
				column_count INT NOT NULL,
				PRIMARY KEY (run_id, name)
			)`,
			`CREATE TABLE IF NOT EXISTS worksheet_rows (
				run_id VARCHAR(128) NOT NULL,
				worksheet VARCHAR(128) NOT NULL,
				row_index INT NOT NULL,
				data TEXT NOT NULL,
				PRIMARY KEY (run_id, worksheet, row_index)
			)`,
		}
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create worksheet tables: %w", err)
		}
	}
	return nil
}

// placeholder returns the parameter marker for the backend.
func (s *worksheetStore) placeholder(n int) string {
	if s.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Store writes every table under the run id inside one transaction.
func (s *worksheetStore) Store(ctx context.Context, runID string, tables []*schema.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	deleteMeta := fmt.Sprintf("DELETE FROM worksheets WHERE run_id = %s", s.placeholder(1))
	deleteRows := fmt.Sprintf("DELETE FROM worksheet_rows WHERE run_id = %s", s.placeholder(1))
	if _, err := tx.ExecContext(ctx, deleteMeta, runID); err != nil {
		return fmt.Errorf("clear prior run: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteRows, runID); err != nil {
		return fmt.Errorf("clear prior run rows: %w", err)
	}

	insertMeta := fmt.Sprintf(
		"INSERT INTO worksheets (run_id, name, headers, row_count, column_count) VALUES (%s, %s, %s, %s, %s)",
		s.placeholder(1), s.placeholder(2), s.placeholder(3), s.placeholder(4), s.placeholder(5))
	insertRow := fmt.Sprintf(
		"INSERT INTO worksheet_rows (run_id, worksheet, row_index, data) VALUES (%s, %s, %s, %s)",
		s.placeholder(1), s.placeholder(2), s.placeholder(3), s.placeholder(4))

	for _, t := range tables {
		headers, err := json.Marshal(t.Headers)
		if err != nil {
			return fmt.Errorf("encode headers for %s: %w", t.Name, err)
		}
		if _, err := tx.ExecContext(ctx, insertMeta,
			runID, t.Name, string(headers), t.RowCount(), t.ColumnCount()); err != nil {
			return fmt.Errorf("store worksheet %s: %w", t.Name, err)
		}
		for i, row := range t.Rows {
			data, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("encode row %d of %s: %w", i, t.Name, err)
			}
			if _, err := tx.ExecContext(ctx, insertRow, runID, t.Name, i, string(data)); err != nil {
				return fmt.Errorf("store row %d of %s: %w", i, t.Name, err)
			}
		}
	}
	return tx.Commit()
}

// Close closes the underlying connection.
func (s *worksheetStore) Close() error {
	return s.db.Close()
}
