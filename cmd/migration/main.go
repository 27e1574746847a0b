package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Schema migration runner for the event display database. Reads
// DATABASE_URL, locates the SQL sources under db/migrations (or the
// MIGRATIONS_DIR override), and drives golang-migrate.

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			usage()
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "migration:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	m, source, err := openMigrator()
	if err != nil {
		return err
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			fmt.Fprintf(os.Stderr, "migration: close: source=%v db=%v\n", srcErr, dbErr)
		}
	}()

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "up":
		return applyAll(m, source)
	case "down":
		return rollBack(m, args[1:])
	case "version":
		return reportVersion(m)
	case "force":
		return pinVersion(m, args[1:])
	case "goto", "migrate":
		return migrateTo(m, args[1:])
	}
	return errUsage
}

func openMigrator() (*migrate.Migrate, string, error) {
	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		return nil, "", errors.New("DATABASE_URL is not set")
	}
	if flagEnv("DB_DISABLE_PREPARED_BINARY_RESULT") {
		dsn = withDisabledBinaryResults(dsn)
	}

	dir, err := migrationsDir()
	if err != nil {
		return nil, "", err
	}
	source := "file://" + filepath.ToSlash(dir)

	m, err := migrate.New(source, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("open migrator: %w", err)
	}
	return m, source, nil
}

func applyAll(m *migrate.Migrate, source string) error {
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("schema already current")
			return nil
		}
		return err
	}
	fmt.Println("schema migrated from " + source)
	return nil
}

func rollBack(m *migrate.Migrate, args []string) error {
	steps := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil || n <= 0 {
			return fmt.Errorf("down wants a positive step count, got %q", args[0])
		}
		steps = n
	}
	if err := m.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("nothing to roll back")
			return nil
		}
		return err
	}
	fmt.Printf("rolled back %d migration(s)\n", steps)
	return nil
}

func reportVersion(m *migrate.Migrate) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("no migrations applied yet")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Printf("schema at %d (%s)\n", version, state)
	return nil
}

func pinVersion(m *migrate.Migrate, args []string) error {
	if len(args) == 0 {
		return errors.New("force wants a version")
	}
	version, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || version < 0 {
		return fmt.Errorf("force wants a non-negative version, got %q", args[0])
	}
	if err := m.Force(version); err != nil {
		return fmt.Errorf("force %d: %w", version, err)
	}
	fmt.Printf("schema version pinned to %d\n", version)
	return nil
}

func migrateTo(m *migrate.Migrate, args []string) error {
	if len(args) == 0 {
		return errors.New("goto wants a target version")
	}
	target, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 64)
	if err != nil {
		return fmt.Errorf("goto wants a numeric target, got %q", args[0])
	}
	if err := m.Migrate(uint(target)); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("already at %d\n", target)
			return nil
		}
		return err
	}
	fmt.Printf("schema moved to %d\n", target)
	return nil
}

// migrationsDir prefers the env override, then the repo-relative path,
// then the path baked into the deploy image.
func migrationsDir() (string, error) {
	for _, candidate := range []string{
		os.Getenv("MIGRATIONS_DIR"),
		os.Getenv("MIGRATIONS_PATH"),
		"db/migrations",
		"/app/db/migrations",
	} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", errors.New("no migrations directory: set MIGRATIONS_DIR or run from the repo root")
}

// Poolers in transaction mode break lib/pq's prepared binary result
// path. The flag appends the pq escape hatch when the deploy opts in,
// matching what the API server does with the same variable.
func withDisabledBinaryResults(dsn string) string {
	parsed, err := url.Parse(dsn)
	if err != nil || parsed == nil {
		return dsn
	}
	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func flagEnv(key string) bool {
	switch strings.TrimSpace(strings.ToLower(os.Getenv(key))) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	}
	return false
}

func usage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, `usage: %s <command>

commands:
  up              apply every pending migration
  down [n]        roll back n migrations (default 1)
  version         print the current schema version
  force <v>       pin the schema version without running SQL
  goto <v>        migrate up or down to version v
`, prog)
}
