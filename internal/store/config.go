package store

// DefaultPath is the database file used when no path is configured.
const DefaultPath = "comparisons.db"

// Config controls where and how the comparison database is opened.
type Config struct {
	// Path is the sqlite database file. ":memory:" keeps everything in a
	// single in-process connection.
	Path string `yaml:"path" json:"path"`

	// BusyTimeout in milliseconds applied through PRAGMA busy_timeout.
	BusyTimeout int `yaml:"busy_timeout_ms" json:"busy_timeout_ms,omitempty"`
}
