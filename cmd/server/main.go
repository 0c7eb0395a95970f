// Package main implements the entry point for the scry-decks server, which
// schedules flashcard reviews with a difficulty-based spaced repetition model.
//
// Usage:
//
//	scry-server [flags]                 serve the HTTP API
//	scry-server [flags] migrate <cmd>   run a goose command (up, down, status, version, reset)
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/scry-decks/internal/config"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "scry-server: %v\n", err)
		os.Exit(1)
	}
}

// run parses flags, loads configuration and dispatches to the server or the
// migrate subcommand. It returns when the server has shut down.
func run(args []string) error {
	fs := config.NewFlagSet("scry-server")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAppConfig(fs)
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if rest := fs.Args(); len(rest) > 0 {
		if rest[0] != "migrate" {
			return fmt.Errorf("unknown command %q", rest[0])
		}
		if len(rest) != 2 {
			return errors.New("usage: scry-server migrate <up|down|status|version|reset>")
		}
		return handleMigrations(ctx, cfg, rest[1], logger)
	}

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	logger.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver))

	return app.Run(ctx)
}
