package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raysh454/respdiff/internal/logging"
	_ "modernc.org/sqlite" // SQLite driver
)

const selectColumns = `id, source_response, target_response, differences, metrics, content_type1, content_type2, created_at`

// SQLiteStore persists comparison records in an append-only sqlite table.
type SQLiteStore struct {
	db     *sql.DB
	logger logging.Logger
	path   string
}

// Open opens (creating if needed) the database at cfg.Path and migrates it.
func Open(ctx context.Context, cfg Config, logger logging.Logger) (*SQLiteStore, error) {
	if logger == nil {
		return nil, errors.New("store: nil logger provided")
	}
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}

	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dsn(path, cfg.BusyTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger.With(logging.Field{Key: "component", Value: "store"}),
		path:   path,
	}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s.logger.Info("store initialized", logging.Field{Key: "path", Value: path})
	return s, nil
}

// Migrate creates the comparisons table when missing and adds any optional
// columns an older table lacks. Running it again is a no-op.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	cols, err := tableColumns(ctx, s.db, "comparisons")
	if err != nil {
		return fmt.Errorf("failed to inspect comparisons table: %w", err)
	}
	for _, col := range optionalColumns {
		if cols[col.name] {
			continue
		}
		if _, err := s.db.ExecContext(ctx, col.ddl); err != nil {
			return fmt.Errorf("failed to add column %s: %w", col.name, err)
		}
		s.logger.Info("added missing column", logging.Field{Key: "column", Value: col.name})
	}
	return nil
}

// Insert stores rec in its own transaction and returns it with id and
// created_at assigned.
func (s *SQLiteStore) Insert(ctx context.Context, rec NewRecord) (*Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Warn("failed to rollback transaction", logging.Field{Key: "error", Value: rbErr.Error()})
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO comparisons (source_response, target_response, differences, metrics, content_type1, content_type2)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.SourceResponse, rec.TargetResponse, rec.Differences, rec.Metrics,
		nullableString(rec.ContentType1), nullableString(rec.ContentType2))
	if err != nil {
		return nil, fmt.Errorf("failed to insert comparison: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}

	stored, err := scanRecord(tx.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM comparisons WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to read back comparison %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug("comparison stored", logging.Field{Key: "id", Value: id})
	return stored, nil
}

// FetchRecent returns up to limit records, newest first. Read failures are
// logged and yield an empty slice.
func (s *SQLiteStore) FetchRecent(ctx context.Context, limit int) []*Record {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	records := make([]*Record, 0)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM comparisons ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		s.logger.Error("failed to query recent comparisons", logging.Field{Key: "error", Value: err})
		return records
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			s.logger.Error("failed to scan comparison", logging.Field{Key: "error", Value: err})
			return make([]*Record, 0)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("failed to iterate comparisons", logging.Field{Key: "error", Value: err})
		return make([]*Record, 0)
	}
	return records
}

// FetchLatest returns the newest record. The bool is false when the table is
// empty or the read failed.
func (s *SQLiteStore) FetchLatest(ctx context.Context) (*Record, bool) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM comparisons ORDER BY created_at DESC, id DESC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		s.logger.Error("failed to fetch latest comparison", logging.Field{Key: "error", Value: err})
		return nil, false
	}
	return rec, true
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec       Record
		ct1, ct2  sql.NullString
		createdAt any
	)
	if err := row.Scan(&rec.ID, &rec.SourceResponse, &rec.TargetResponse, &rec.Differences,
		&rec.Metrics, &ct1, &ct2, &createdAt); err != nil {
		return nil, err
	}
	ts, err := parseTimestamp(createdAt)
	if err != nil {
		return nil, err
	}
	rec.ContentType1 = stringPtr(ct1)
	rec.ContentType2 = stringPtr(ct2)
	rec.CreatedAt = ts
	return &rec, nil
}
