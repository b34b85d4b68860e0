package main

import (
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/stemsi/classroom-backend/internal/config"
	"github.com/stemsi/classroom-backend/internal/logger"
)

func main() {
	var migrationDir string
	flag.StringVar(&migrationDir, "path", "migrations", "Path to migration files")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat).With().Str("component", "migrate").Logger()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return
	}

	m, err := migrate.New("file://"+migrationDir, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("path", migrationDir).Msg("Migration failed to initialize")
	}
	defer m.Close()
	m.Log = migrateLogger{log: log}

	switch args[0] {
	case "up":
		check(log, "up", m.Up())
	case "down":
		check(log, "down", m.Down())
	case "steps":
		n := intArg(log, args, "steps")
		check(log, "steps", m.Steps(n))
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("Version: none")
			return
		}
		if err != nil {
			log.Fatal().Err(err).Msg("Version failed")
		}
		fmt.Printf("Version: %d, Dirty: %t\n", version, dirty)
	case "force":
		v := intArg(log, args, "force")
		if err := m.Force(v); err != nil {
			log.Fatal().Err(err).Int("version", v).Msg("Force failed")
		}
		fmt.Printf("Forced version to %d\n", v)
	default:
		printUsage()
	}
}

func check(log zerolog.Logger, command string, err error) {
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("No change")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("Migration failed")
	}
	fmt.Printf("Migrated %s successfully\n", command)
}

func intArg(log zerolog.Logger, args []string, command string) int {
	if len(args) < 2 {
		log.Fatal().Str("command", command).Msg("Missing numeric argument")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("Invalid numeric argument")
	}
	return n
}

// migrateLogger routes golang-migrate's progress output through zerolog.
type migrateLogger struct {
	log zerolog.Logger
}

func (l migrateLogger) Printf(format string, v ...interface{}) {
	l.log.Info().Msgf(format, v...)
}

func (l migrateLogger) Verbose() bool {
	return l.log.GetLevel() <= zerolog.DebugLevel
}

func printUsage() {
	fmt.Println("Usage: migrate [flags] <command>")
	fmt.Println("Commands: up, down, steps <n>, version, force <version>")
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
