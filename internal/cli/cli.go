package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// CLIArgs are the command-line arguments for the server or a one-shot comparison.
type CLIArgs struct {
	// ConfigPath is an optional YAML config file.
	ConfigPath string

	// EnvFile is the .env file merged under the process environment.
	EnvFile string

	// ListenAddr and DBPath override the configured values when set.
	ListenAddr string
	DBPath     string

	// Source and Target select one-shot mode; both or neither must be given.
	Source string
	Target string
	Method string

	// Body is sent to both sides in one-shot mode when the method carries a body.
	Body string

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// OneShot reports whether the args ask for a single comparison instead of
// starting the API server.
func (a *CLIArgs) OneShot() bool {
	return a.Source != "" && a.Target != ""
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by passing
// arbitrary slices. The function is deterministic and does not read os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet("respdiff", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "Path to a YAML config file")
		envFile    = fs.String("env-file", ".env", "Path to a .env file (ignored when missing)")
		listenAddr = fs.String("addr", "", "API listen address (overrides config)")
		dbPath     = fs.String("db", "", "SQLite database path (overrides config)")
		source     = fs.String("source", "", "Source URL for a one-shot comparison")
		target     = fs.String("target", "", "Target URL for a one-shot comparison")
		method     = fs.String("method", "GET", "HTTP method for a one-shot comparison: GET|POST|PUT|DELETE")
		body       = fs.String("body", "", "Request body for POST/PUT one-shot comparisons")
	)

	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	src := strings.TrimSpace(*source)
	tgt := strings.TrimSpace(*target)
	if (src == "") != (tgt == "") {
		return nil, fmt.Errorf("-source and -target must be given together")
	}

	return &CLIArgs{
		ConfigPath: *configPath,
		EnvFile:    *envFile,
		ListenAddr: *listenAddr,
		DBPath:     *dbPath,
		Source:     src,
		Target:     tgt,
		Method:     *method,
		Body:       *body,
		RawArgs:    args,
	}, nil
}
