// cmd/dbtools/migrate/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/themegallery/internal/config"
	"github.com/codr1/themegallery/internal/db"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "Path to the configuration file")
		dbPath     = flag.String("db", "", "Path to SQLite database (overrides the config)")
		command    = flag.String("command", "", "Command to run (up, down, version)")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *command == "" {
		flag.Usage()
		os.Exit(1)
	}

	path := *dbPath
	if path == "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		path = cfg.Database.Filename
	}

	m, err := db.NewMigrator(path)
	if err != nil {
		log.Fatal().Err(err).Str("db", path).Msg("Migration init failed")
	}
	defer m.Close()

	if err := run(m, *command); err != nil {
		log.Fatal().Err(err).Str("db", path).Str("command", *command).Msg("Migration failed")
	}
}

type migrator interface {
	Up() error
	Down() error
	Version() (uint, bool, error)
}

func run(m migrator, command string) error {
	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up failed: %w", err)
		}
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration down failed: %w", err)
		}
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("get version failed: %w", err)
		}
		fmt.Printf("Version: %d, Dirty: %v\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
	log.Info().Str("command", command).Msg("Migration complete")
	return nil
}
