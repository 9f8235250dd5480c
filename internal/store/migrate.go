// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package store

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/samber/oops"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrateIface abstracts the golang-migrate handle for testing.
type migrateIface interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
	Close() (source error, database error)
}

// Migrator applies the embedded schema migrations against PostgreSQL.
type Migrator struct {
	m migrateIface

	versionsOnce sync.Once
	versions     []uint
}

// NewMigrator builds a Migrator for the given database URL. The
// postgres:// scheme is rewritten to pgx5:// so golang-migrate uses the
// same driver family as the rest of the service.
func NewMigrator(databaseURL string) (*Migrator, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, oops.Code("MIGRATE_SOURCE_FAILED").
			With("operation", "load embedded migrations").
			Wrap(err)
	}

	url := databaseURL
	if strings.HasPrefix(url, "postgres://") {
		url = "pgx5://" + strings.TrimPrefix(url, "postgres://")
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, oops.Code("MIGRATE_INIT_FAILED").
			With("operation", "create migrator").
			Wrap(err)
	}

	return &Migrator{m: m}, nil
}

// Up applies all pending migrations. A database already at the latest
// version is not an error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return oops.Code("MIGRATE_UP_FAILED").Wrap(err)
	}
	return nil
}

// Down rolls back all applied migrations.
func (mg *Migrator) Down() error {
	if err := mg.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return oops.Code("MIGRATE_DOWN_FAILED").Wrap(err)
	}
	return nil
}

// Steps applies n migrations forward (n > 0) or backward (n < 0).
func (mg *Migrator) Steps(n int) error {
	if n == 0 {
		return nil
	}
	if err := mg.m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return oops.Code("MIGRATE_STEPS_FAILED").With("steps", n).Wrap(err)
	}
	return nil
}

// Version reports the current schema version and whether the database is
// in a dirty state. A pristine database reports version 0.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, oops.Code("MIGRATE_VERSION_FAILED").Wrap(err)
	}
	return version, dirty, nil
}

// Force sets the schema version without running migrations, clearing the
// dirty flag. Only used to recover from a failed migration.
func (mg *Migrator) Force(version int) error {
	if version < 0 {
		return oops.Code("MIGRATE_FORCE_FAILED").
			With("version", version).
			New("version must be non-negative")
	}
	if err := mg.m.Force(version); err != nil {
		return oops.Code("MIGRATE_FORCE_FAILED").With("version", version).Wrap(err)
	}
	return nil
}

// Close releases the migrator's source and database handles.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil || dbErr != nil {
		return oops.Code("MIGRATE_CLOSE_FAILED").
			With("source_error", srcErr).
			With("database_error", dbErr).
			New("closing migrator")
	}
	return nil
}

// PendingMigrations lists the embedded migration versions above the
// currently applied version.
func (mg *Migrator) PendingMigrations() ([]uint, error) {
	current, _, err := mg.Version()
	if err != nil {
		return nil, err
	}

	all := mg.allMigrationVersions()
	pending := make([]uint, 0, len(all))
	for _, v := range all {
		if v > current {
			pending = append(pending, v)
		}
	}
	return pending, nil
}

// MigrationName returns the human-readable name of a migration version,
// derived from the embedded file name.
func (mg *Migrator) MigrationName(version uint) string {
	prefix := fmt.Sprintf("%06d_", version)
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".up.sql") {
			return strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".up.sql")
		}
	}
	return ""
}

func (mg *Migrator) allMigrationVersions() []uint {
	mg.versionsOnce.Do(func() {
		mg.versions = loadMigrationVersions()
	})
	return mg.versions
}

func loadMigrationVersions() []uint {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		slog.Warn("reading embedded migrations", "error", err)
		return nil
	}

	versions := make([]uint, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		var version uint
		if _, err := fmt.Sscanf(name, "%06d_", &version); err != nil {
			slog.Warn("skipping migration with unparseable version", "file", name)
			continue
		}
		versions = append(versions, version)
	}

	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions
}
