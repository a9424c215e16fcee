package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raysh454/respdiff/internal/cli"
	"github.com/raysh454/respdiff/internal/logging"
	"github.com/raysh454/respdiff/internal/store"
	"github.com/raysh454/respdiff/internal/webclient"
)

// Application is the global runtime state container.
// It holds config, parsed CLI args and the core services that are shared
// across modules (orchestrator, logger). Pass Application into modules that
// need access to the global state rather than using package-level variables.
type Application struct {
	Config *Config
	Args   *cli.CLIArgs

	Logger logging.Logger
	Orch   *Orchestrator

	client webclient.WebClient
	store  *store.SQLiteStore
}

// ApplyArgs copies CLI overrides onto cfg.
func ApplyArgs(cfg *Config, args *cli.CLIArgs) {
	if args == nil {
		return
	}
	if args.ListenAddr != "" {
		cfg.ListenAddr = args.ListenAddr
	}
	if args.DBPath != "" {
		cfg.Store.Path = args.DBPath
	}
}

// NewApplication builds the transport, opens and migrates the store and
// wires the orchestrator.
func NewApplication(ctx context.Context, cfg *Config, args *cli.CLIArgs, logger logging.Logger) (*Application, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewLogger("respdiff", logging.ParseLevel(cfg.LogLevel), nil)
	}

	client, err := webclient.NewWebClient(cfg.WebClient, logger)
	if err != nil {
		return nil, fmt.Errorf("creating webclient: %w", err)
	}

	st, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("opening store: %w", err)
	}

	return &Application{
		Config: cfg,
		Args:   args,
		Logger: logger,
		Orch:   NewOrchestrator(cfg, client, st, logger),
		client: client,
		store:  st,
	}, nil
}

// RunOnce performs the comparison described by the CLI args.
func (a *Application) RunOnce(ctx context.Context) (*ComparisonResult, error) {
	if a == nil {
		return nil, errors.New("application is nil")
	}
	if a.Args == nil || !a.Args.OneShot() {
		return nil, fmt.Errorf("%w: one-shot mode needs -source and -target", ErrInvalidRequest)
	}
	req := &ComparisonRequest{
		Method:    a.Args.Method,
		SourceURL: a.Args.Source,
		TargetURL: a.Args.Target,
	}
	if a.Args.Body != "" {
		body := a.Args.Body
		req.SourceBody = &body
		req.TargetBody = &body
	}
	return a.Orch.Run(ctx, req)
}

// Shutdown ends subscriptions and releases the transport and the store.
func (a *Application) Shutdown(ctx context.Context) error {
	if a == nil {
		return errors.New("application is nil")
	}
	a.Logger.Info("application shutdown initiated")

	a.Orch.Close()

	done := make(chan error, 1)
	go func() {
		var errs []error
		if err := a.client.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := a.store.Close(); err != nil {
			errs = append(errs, err)
		}
		done <- errors.Join(errs...)
	}()

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	select {
	case err := <-done:
		return err
	case <-shutdownCtx.Done():
		return shutdownCtx.Err()
	}
}
