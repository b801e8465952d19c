package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"quiz-submission-service/internal/config"
	"quiz-submission-service/internal/infra/postgres"
)

// NewMigrateCmd manages the postgres schema. Without a subcommand it applies pending migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), *configPath, migrateUp)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "rollback",
			Short: "Roll back the last migration group",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(cmd.Context(), *configPath, migrateRollback)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List applied and pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(cmd.Context(), *configPath, migrateStatus)
			},
		},
	)
	return cmd
}

func withDatabase(ctx context.Context, path string, fn func(context.Context, *bun.DB) error) error {
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	db := postgres.Open(cfg.Postgres.URL)
	defer db.Close()
	return fn(ctx, db)
}

func migrateUp(ctx context.Context, db *bun.DB) error {
	group, err := postgres.Migrate(ctx, db)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Printf("no new migrations to apply")
		return nil
	}
	log.Printf("migrations applied: %s", group)
	return nil
}

func migrateRollback(ctx context.Context, db *bun.DB) error {
	group, err := postgres.Rollback(ctx, db)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Printf("nothing to roll back")
		return nil
	}
	log.Printf("rolled back: %s", group)
	return nil
}

func migrateStatus(ctx context.Context, db *bun.DB) error {
	applied, pending, err := postgres.MigrationStatus(ctx, db)
	if err != nil {
		return err
	}
	log.Printf("applied: %s", applied)
	log.Printf("pending: %s", pending)
	return nil
}

// loadConfig reads .env, the YAML file and env overrides, then validates the result.
func loadConfig(path string) (config.Config, error) {
	config.LoadDotEnv()
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	config.ApplyEnv(&cfg)
	return cfg, cfg.Validate()
}
