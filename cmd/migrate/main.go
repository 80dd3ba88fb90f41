// Package main applies the embedded database migrations.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/caarlos0/env/v10"
	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"

	"github.com/pricewatch/pricewatch/migrations"
)

type migrateConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
}

func main() {
	var envFile string
	flag.StringVar(&envFile, "env-file", ".env", "Optional .env file to load before reading the environment")
	flag.Usage = printUsage
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error("failed to load env file", "file", envFile, "error", err)
		os.Exit(1)
	}

	var cfg migrateConfig
	if err := env.Parse(&cfg); err != nil {
		logger.Error("failed to parse config", "error", err)
		os.Exit(1)
	}

	m, err := migrations.New(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create migrator", "error", err)
		os.Exit(1)
	}

	err = run(m, args, logger)
	if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
		logger.Warn("failed to close migrator", "source_error", srcErr, "database_error", dbErr)
	}
	if err != nil {
		logger.Error("migration failed", "command", args[0], "error", err)
		os.Exit(1)
	}
}

func run(m *migrate.Migrate, args []string, logger *slog.Logger) error {
	switch args[0] {
	case "up":
		return ignoreNoChange(m.Up(), logger)

	case "down":
		return ignoreNoChange(m.Down(), logger)

	case "step":
		if len(args) < 2 {
			return errors.New("usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[1])
		}
		return ignoreNoChange(m.Steps(n), logger)

	case "force":
		if len(args) < 2 {
			return errors.New("usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		logger.Warn("forcing migration version", "version", version)
		return m.Force(version)

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("no migrations applied")
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("current migration version", "version", version, "dirty", dirty)
		return nil

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func ignoreNoChange(err error, logger *slog.Logger) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no change")
		return nil
	}
	if err == nil {
		logger.Info("done")
	}
	return err
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `pricewatch database migrations

Usage:
  migrate [-env-file path] <command> [arguments]

Commands:
  up                Apply all pending migrations
  down              Roll back all migrations
  step <n>          Apply n migrations (negative rolls back)
  force <version>   Set the version without running migrations
  version           Show the current version

Environment:
  DATABASE_URL      PostgreSQL connection string (required)`)
}
