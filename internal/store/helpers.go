package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net/url"
	"time"
)

//go:embed schema.sql
var schemaFS embed.FS

// optionalColumns may be missing from tables created by older releases.
var optionalColumns = []struct {
	name string
	ddl  string
}{
	{"content_type1", "ALTER TABLE comparisons ADD COLUMN content_type1 TEXT"},
	{"content_type2", "ALTER TABLE comparisons ADD COLUMN content_type2 TEXT"},
}

// dsn builds the driver connection string. Pragmas go in the DSN so that every
// pooled connection gets them, not only the first one.
func dsn(path string, busyTimeout int) string {
	if path == ":memory:" {
		return path
	}
	if busyTimeout <= 0 {
		busyTimeout = 5000
	}
	pragmas := []string{
		"journal_mode(WAL)",
		"synchronous(NORMAL)",
		fmt.Sprintf("busy_timeout(%d)", busyTimeout),
		"temp_store(MEMORY)",
	}
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}

func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05Z07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
}

// parseTimestamp accepts whatever the driver returns for a TIMESTAMP column.
// CURRENT_TIMESTAMP values are UTC.
func parseTimestamp(v any) (time.Time, error) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return x.UTC(), nil
	case int64:
		return time.Unix(x, 0).UTC(), nil
	case []byte:
		return parseTimestamp(string(x))
	case string:
		for _, layout := range timestampLayouts {
			if t, err := time.ParseInLocation(layout, x, time.UTC); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", x)
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func nullableString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
