// Command respdiff compares the responses of two HTTP endpoints.
//
// Without -source/-target it serves the comparison API:
//
//	go run ./cmd/respdiff -addr :8000 -db comparisons.db
//
// With both set it runs a single comparison and prints the result as JSON:
//
//	go run ./cmd/respdiff -source http://old/api/items -target http://new/api/items
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raysh454/respdiff/internal/app"
	"github.com/raysh454/respdiff/internal/cli"
	"github.com/raysh454/respdiff/internal/logging"
	"github.com/raysh454/respdiff/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "respdiff: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		return err
	}

	cfg, err := app.LoadConfig(args.ConfigPath, args.EnvFile)
	if err != nil {
		return err
	}
	app.ApplyArgs(cfg, args)

	logger := logging.NewLogger("respdiff", logging.ParseLevel(cfg.LogLevel), os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if args.OneShot() {
		return runOnce(ctx, cfg, args, logger)
	}
	return serve(ctx, cfg, logger)
}

func runOnce(ctx context.Context, cfg *app.Config, args *cli.CLIArgs, logger logging.Logger) error {
	application, err := app.NewApplication(ctx, cfg, args, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Shutdown(context.Background()); err != nil {
			logger.Warn("shutdown failed", logging.Field{Key: "error", Value: err.Error()})
		}
	}()

	result, err := application.RunOnce(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func serve(ctx context.Context, cfg *app.Config, logger logging.Logger) error {
	s, err := server.NewServer(server.Config{AppConfig: cfg, Logger: logger})
	if err != nil {
		return err
	}
	defer s.Close()

	httpServer := s.HTTPServer()
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", logging.Field{Key: "addr", Value: httpServer.Addr})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
