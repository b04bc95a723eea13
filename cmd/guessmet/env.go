package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/guess-the-met/internal/artwork"
	"github.com/vovakirdan/guess-the-met/internal/config"
	"github.com/vovakirdan/guess-the-met/internal/registry"
	"github.com/vovakirdan/guess-the-met/internal/storage"
)

// env is what every command needs: configuration with flag overrides
// applied, a logger and, on demand, the artwork source and score store.
type env struct {
	cfg     config.Config
	logger  *log.Logger
	logFile *os.File
}

// loadEnv loads the configuration and sets up logging. Logs go to
// --log-file when given, otherwise to fallback.
func loadEnv(fallback io.Writer, opts log.Options) (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDBPath != "" {
		cfg.Scores.DBPath = flagDBPath
	}
	if flagCatalog != "" {
		cfg.Source.Catalog.Path = flagCatalog
		if flagSource == "" {
			cfg.Source.Kind = "catalog"
		}
	}
	if flagSource != "" {
		cfg.Source.Kind = flagSource
	}
	if flagSeed != 0 {
		cfg.Source.Catalog.Seed = flagSeed
	}

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	opts.Level = level

	e := &env{cfg: cfg}
	out := fallback
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("cannot open log file: %w", err)
		}
		e.logFile = f
		out = f
		opts.ReportTimestamp = true
	}
	e.logger = log.NewWithOptions(out, opts)
	return e, nil
}

// source creates the configured artwork source.
func (e *env) source() (artwork.Source, error) {
	if !registry.Exists(e.cfg.Source.Kind) {
		return nil, fmt.Errorf("unknown source %q, run 'guessmet sources' to see available sources", e.cfg.Source.Kind)
	}
	return registry.Create(e.cfg.Source.Kind, e.cfg, e.logger)
}

// openStore opens the score database. Play goes on without high scores
// when it cannot be opened.
func (e *env) openStore() *storage.Store {
	store, err := storage.Open(e.cfg.Scores.DBPath)
	if err != nil {
		e.logger.Warn("could not open scores database", "path", e.cfg.Scores.DBPath, "error", err)
		return nil
	}
	return store
}

func (e *env) close() {
	if e.logFile != nil {
		e.logFile.Close()
	}
}

// fail prints the error the way every command reports it and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
