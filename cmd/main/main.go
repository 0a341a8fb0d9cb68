package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/CTAG07/pagegen/pkg/attendee"
	"github.com/CTAG07/pagegen/pkg/ledger"
	"github.com/CTAG07/pagegen/pkg/templating"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	if err := run(context.Background(), "./config.json", os.Stdout, os.Stderr); err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("Page generation failed", "error", err)
		os.Exit(1)
	}
}

// newLogger builds a text logger for the configured level, defaulting to info.
func newLogger(level string, w io.Writer) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// run performs one full generation: load config and inputs, then write every
// page. Progress goes to out, diagnostics to logOut.
func run(ctx context.Context, configPath string, out, logOut io.Writer) error {
	config, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err = config.ApplyEnv(filepath.Join(filepath.Dir(configPath), ".env")); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	gc := config.Generator

	logger := newLogger(gc.LogLevel, logOut)
	logger.Debug("Starting page generation", "version", Version, "commit", Commit, "build_date", BuildDate)

	tm, err := templating.NewTemplateManager(logger, config.Templates, gc.TemplatePath)
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	attendees, err := attendee.Load(gc.DataPath)
	if err != nil {
		return fmt.Errorf("failed to load attendees: %w", err)
	}
	logger.Info("Loaded attendees", "count", len(attendees), "path", gc.DataPath)

	var l *ledger.Ledger
	if gc.LedgerPath != "" {
		var db *sql.DB
		if l, db, err = openLedger(gc.LedgerPath); err != nil {
			logger.Warn("Ledger unavailable, continuing without it", "path", gc.LedgerPath, "error", err)
			l = nil
		} else {
			defer func() {
				l.Close()
				if err := db.Close(); err != nil {
					logger.Error("Failed to close ledger database", "error", err)
				}
			}()
		}
	}

	pg := NewPageGenerator(tm, l, gc.OutputDir, out, logger)
	n, err := pg.Run(ctx, gc.DataPath, attendees)
	if err != nil {
		logger.Error("Generation aborted", "pages_written", n)
		return err
	}
	logger.Debug("Generation finished", "pages", n)
	return nil
}

func openLedger(path string) (*ledger.Ledger, *sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, err
		}
	}
	db, err := ledger.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if err = ledger.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	l, err := ledger.New(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return l, db, nil
}
