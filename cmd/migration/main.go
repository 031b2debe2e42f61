package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	dbmigrations "github.com/OliEder/dbb-mini-bball-coach-app-sub001/db"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/logging"
)

const usage = `usage: migration <up|down [n]|version|force <v>|goto <v>>
environment: DB_DRIVER (postgres|sqlite), DB_URL, MIGRATIONS_DIR (optional)`

var errUsage = errors.New("invalid usage")

func main() {
	logger := logging.NewJSON(logging.LevelInfo).Named("migration")
	defer func() { _ = logger.Sync() }()

	if err := run(os.Args[1:], os.Getenv, os.Stdout, logger); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Error("migration failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

// command is one parsed CLI invocation.
type command struct {
	name string
	// n is the step count for down and the version for force and goto.
	n int
}

func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, errUsage
	}

	cmd := command{name: strings.ToLower(strings.TrimSpace(args[0]))}
	rest := args[1:]
	switch cmd.name {
	case "up", "version":
		return cmd, nil
	case "down":
		cmd.n = 1
		if len(rest) > 0 {
			steps, err := strconv.Atoi(strings.TrimSpace(rest[0]))
			if err != nil || steps <= 0 {
				return command{}, fmt.Errorf("down steps must be a positive integer, got %q", rest[0])
			}
			cmd.n = steps
		}
		return cmd, nil
	case "force", "goto", "migrate":
		if len(rest) == 0 {
			return command{}, fmt.Errorf("%s requires a version argument: %w", cmd.name, errUsage)
		}
		version, err := strconv.Atoi(strings.TrimSpace(rest[0]))
		if err != nil || version < 0 {
			return command{}, fmt.Errorf("version must be a non-negative integer, got %q", rest[0])
		}
		if cmd.name == "migrate" {
			cmd.name = "goto"
		}
		cmd.n = version
		return cmd, nil
	default:
		return command{}, fmt.Errorf("unknown command %q: %w", cmd.name, errUsage)
	}
}

func run(args []string, getenv func(string) string, stdout io.Writer, logger *logging.Logger) error {
	cmd, err := parseCommand(args)
	if err != nil {
		return err
	}

	driver := strings.ToLower(strings.TrimSpace(getenv("DB_DRIVER")))
	if driver == "" {
		driver = "postgres"
	}
	dbURL, err := migrationDatabaseURL(driver, strings.TrimSpace(getenv("DB_URL")))
	if err != nil {
		return err
	}

	m, source, err := newMigrator(dbURL, strings.TrimSpace(getenv("MIGRATIONS_DIR")))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			logger.Warn("close migrator", "error", err)
		}
	}()

	logger = logger.With("driver", driver, "source", source, "command", cmd.name)
	switch cmd.name {
	case "up":
		return logApplied(logger, m.Up(), "migrations applied")
	case "down":
		return logApplied(logger, m.Steps(-cmd.n), "migrations rolled back", "steps", cmd.n)
	case "goto":
		return logApplied(logger, m.Migrate(uint(cmd.n)), "migrated to version", "version", cmd.n)
	case "force":
		if err := m.Force(cmd.n); err != nil {
			return fmt.Errorf("force version %d: %w", cmd.n, err)
		}
		logger.Info("forced version", "version", cmd.n)
		return nil
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			_, err = fmt.Fprintln(stdout, "version: none\ndirty: false")
			return err
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		_, err = fmt.Fprintf(stdout, "version: %d\ndirty: %t\n", version, dirty)
		return err
	}
	return nil
}

func logApplied(logger *logging.Logger, err error, msg string, args ...any) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info(msg, args...)
	return nil
}

// newMigrator reads migrations from dir when set and from the copy embedded
// in the binary otherwise.
func newMigrator(dbURL, dir string) (*migrate.Migrate, string, error) {
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, "", fmt.Errorf("resolve MIGRATIONS_DIR: %w", err)
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			return nil, "", fmt.Errorf("MIGRATIONS_DIR %q is not a directory", abs)
		}
		sourceURL := "file://" + filepath.ToSlash(abs)
		m, err := migrate.New(sourceURL, dbURL)
		return m, sourceURL, err
	}

	source, err := iofs.New(dbmigrations.Migrations, "migrations")
	if err != nil {
		return nil, "", fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	return m, "embedded", err
}

// migrationDatabaseURL maps the API's DB_DRIVER/DB_URL pair to the URL form
// golang-migrate expects.
func migrationDatabaseURL(driver, raw string) (string, error) {
	switch driver {
	case "postgres":
		if raw == "" {
			return "", fmt.Errorf("DB_URL is required for DB_DRIVER=postgres")
		}
		return raw, nil
	case "sqlite":
		if raw == "" {
			raw = "file:dbb-sync.db"
		}
		if strings.HasPrefix(raw, "sqlite://") {
			return raw, nil
		}
		return "sqlite://" + strings.TrimPrefix(raw, "file:"), nil
	default:
		return "", fmt.Errorf("DB_DRIVER %q has no migrations", driver)
	}
}
