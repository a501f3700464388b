package main

import (
	"context"
	"fmt"
	"log"

	"github.com/alecthomas/kong"

	"github.com/muhammadchandra19/exchange/pkg/logger"
	migration "github.com/muhammadchandra19/exchange/pkg/migration-pg"
	"github.com/muhammadchandra19/exchange/pkg/postgresql"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/migrations"
	"github.com/muhammadchandra19/exchange/services/order-management/pkg/config"
)

type runContext struct {
	ctx    context.Context
	runner *migration.Runner
}

type upCmd struct {
	Steps int `help:"Number of migrations to apply (0 = all)." default:"0"`
}

func (c *upCmd) Run(rc *runContext) error {
	return rc.runner.MigrateUp(rc.ctx, c.Steps)
}

type downCmd struct {
	Steps int `help:"Number of migrations to roll back (0 = all)." default:"1"`
}

func (c *downCmd) Run(rc *runContext) error {
	return rc.runner.MigrateDown(rc.ctx, c.Steps)
}

type statusCmd struct{}

func (c *statusCmd) Run(rc *runContext) error {
	statuses, err := rc.runner.Status(rc.ctx)
	if err != nil {
		return err
	}
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		fmt.Printf("%-8s %s\n", state, s.ID)
	}
	return nil
}

var cli struct {
	Schema string    `help:"Schema holding the migration table." default:"public"`
	Table  string    `help:"Migration tracking table." default:"schema_migrations"`
	Up     upCmd     `cmd:"" help:"Apply pending migrations."`
	Down   downCmd   `cmd:"" help:"Roll back applied migrations."`
	Status statusCmd `cmd:"" help:"List migrations and whether they are applied."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("migrate"),
		kong.Description("Order management schema migrations."),
		kong.UsageOnError(),
	)

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l, err := logger.NewLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer l.Sync()

	pgClient, err := postgresql.NewClient(ctx, cfg.PostgreSQL)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()

	runner := migration.NewRunner(pgClient, l, migration.Config{
		Source:    migrations.FS,
		Schema:    cli.Schema,
		TableName: cli.Table,
	})

	if err := runner.EnsureMigrationTable(ctx); err != nil {
		log.Fatalf("Failed to create migration table: %v", err)
	}

	if err := kctx.Run(&runContext{ctx: ctx, runner: runner}); err != nil {
		log.Fatalf("Migration %s failed: %v", kctx.Command(), err)
	}
	log.Printf("Migration %s completed successfully", kctx.Command())
}
