package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"quiz-submission-service/internal/domain"
	pgmigrations "quiz-submission-service/internal/infra/postgres/migrations"
)

// Open returns a bun handle over a pgdriver connection pool.
func Open(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator, err := newMigrator(ctx, db)
	if err != nil {
		return nil, err
	}
	return migrator.Migrate(ctx)
}

// Rollback reverts the most recently applied migration group.
func Rollback(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator, err := newMigrator(ctx, db)
	if err != nil {
		return nil, err
	}
	return migrator.Rollback(ctx)
}

// MigrationStatus splits the registered migrations into applied and pending.
func MigrationStatus(ctx context.Context, db *bun.DB) (applied, pending migrate.MigrationSlice, err error) {
	migrator, err := newMigrator(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	all, err := migrator.MigrationsWithStatus(ctx)
	if err != nil {
		return nil, nil, err
	}
	return all.Applied(), all.Unapplied(), nil
}

func newMigrator(ctx context.Context, db *bun.DB) (*migrate.Migrator, error) {
	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	return migrator, nil
}

const uniqueViolation = "23505"

// mapError translates driver errors into domain errors.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation {
		return domain.ErrConflict
	}
	return fmt.Errorf("%s: %w", op, err)
}
