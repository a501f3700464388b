package migrationpg

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/postgresql"
)

// Migration represents a database migration
type Migration struct {
	ID        string
	Name      string
	Timestamp time.Time
	UpSQL     string
	DownSQL   string
}

// Status pairs a migration with whether it has been applied.
type Status struct {
	Migration
	Applied bool
}

// Runner handles PostgreSQL migration execution
type Runner struct {
	client    postgresql.PostgreSQLClient
	tx        postgresql.Transaction
	logger    logger.Interface
	source    fs.FS
	schema    string
	tableName string
}

// Config for migration runner
type Config struct {
	// Source holds NAME.up.sql and NAME.down.sql files at its root.
	Source    fs.FS
	Schema    string // default: "public"
	TableName string // default: "schema_migrations"
}

// NewRunner creates a new migration runner for PostgreSQL
func NewRunner(client postgresql.PostgreSQLClient, log logger.Interface, config Config) *Runner {
	if config.Schema == "" {
		config.Schema = "public"
	}
	if config.TableName == "" {
		config.TableName = "schema_migrations"
	}

	return &Runner{
		client:    client,
		tx:        postgresql.NewTransaction(client),
		logger:    log,
		source:    config.Source,
		schema:    config.Schema,
		tableName: config.TableName,
	}
}

func (r *Runner) table() string {
	return fmt.Sprintf("%s.%s", r.schema, r.tableName)
}

// EnsureMigrationTable creates the migration bookkeeping table if it doesn't exist
func (r *Runner) EnsureMigrationTable(ctx context.Context) error {
	_, err := r.client.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`, r.table()))
	return err
}

// GetAppliedMigrations returns a set of applied migration IDs
func (r *Runner) GetAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := r.client.Query(ctx, fmt.Sprintf("SELECT id FROM %s ORDER BY applied_at", r.table()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		applied[id] = true
	}

	return applied, rows.Err()
}

// LoadMigrations loads all migrations from the source, sorted by id.
func (r *Runner) LoadMigrations() ([]Migration, error) {
	return LoadMigrations(r.source)
}

// LoadMigrations reads the *.up.sql files of fsys and their optional *.down.sql pair.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	upFiles, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(upFiles)

	migrations := make([]Migration, 0, len(upFiles))
	for _, upFile := range upFiles {
		migration, err := parseMigration(fsys, upFile)
		if err != nil {
			return nil, fmt.Errorf("failed to parse migration %s: %w", upFile, err)
		}
		migrations = append(migrations, migration)
	}

	return migrations, nil
}

// parseMigration reads a migration named YYYYMMDDHHMMSS_name.up.sql.
func parseMigration(fsys fs.FS, upFile string) (Migration, error) {
	upContent, err := fs.ReadFile(fsys, upFile)
	if err != nil {
		return Migration{}, err
	}

	id := strings.TrimSuffix(path.Base(upFile), ".up.sql")
	name := id
	timestampStr := id
	if parts := strings.SplitN(id, "_", 2); len(parts) == 2 {
		timestampStr, name = parts[0], parts[1]
	}

	timestamp, err := time.Parse("20060102150405", timestampStr)
	if err != nil {
		timestamp = time.Unix(0, 0)
	}

	var downSQL string
	if downContent, err := fs.ReadFile(fsys, strings.TrimSuffix(upFile, ".up.sql")+".down.sql"); err == nil {
		downSQL = strings.TrimSpace(string(downContent))
	}

	return Migration{
		ID:        id,
		Name:      name,
		Timestamp: timestamp,
		UpSQL:     strings.TrimSpace(string(upContent)),
		DownSQL:   downSQL,
	}, nil
}

// Status lists every known migration and whether it is applied.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	migrations, err := r.LoadMigrations()
	if err != nil {
		return nil, err
	}
	applied, err := r.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(migrations))
	for _, m := range migrations {
		statuses = append(statuses, Status{Migration: m, Applied: applied[m.ID]})
	}
	return statuses, nil
}

// MigrateUp applies pending migrations. steps <= 0 applies all of them.
func (r *Runner) MigrateUp(ctx context.Context, steps int) error {
	statuses, err := r.Status(ctx)
	if err != nil {
		return err
	}

	var toApply []Migration
	for _, s := range statuses {
		if !s.Applied {
			toApply = append(toApply, s.Migration)
		}
	}
	if steps > 0 && len(toApply) > steps {
		toApply = toApply[:steps]
	}

	for _, migration := range toApply {
		if migration.UpSQL == "" {
			r.logger.Warn("Migration has no up sql", logger.NewField("migration", migration.ID))
			continue
		}

		err := postgresql.WithTx(ctx, r.tx, func(txCtx context.Context) error {
			if _, err := r.client.Exec(txCtx, migration.UpSQL); err != nil {
				return err
			}
			_, err := r.client.Exec(txCtx,
				fmt.Sprintf("INSERT INTO %s (id, name, applied_at) VALUES ($1, $2, NOW())", r.table()),
				migration.ID, migration.Name,
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.ID, err)
		}

		r.logger.Info("Applied migration", logger.NewField("migration", migration.ID))
	}

	return nil
}

// MigrateDown reverts the last steps applied migrations.
func (r *Runner) MigrateDown(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be greater than 0 for down migrations")
	}

	statuses, err := r.Status(ctx)
	if err != nil {
		return err
	}

	var toRevert []Migration
	for i := len(statuses) - 1; i >= 0 && len(toRevert) < steps; i-- {
		if statuses[i].Applied {
			toRevert = append(toRevert, statuses[i].Migration)
		}
	}

	for _, migration := range toRevert {
		if migration.DownSQL == "" {
			return fmt.Errorf("no down sql found for migration %s", migration.ID)
		}

		err := postgresql.WithTx(ctx, r.tx, func(txCtx context.Context) error {
			if _, err := r.client.Exec(txCtx, migration.DownSQL); err != nil {
				return err
			}
			_, err := r.client.Exec(txCtx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table()), migration.ID)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to revert migration %s: %w", migration.ID, err)
		}

		r.logger.Info("Reverted migration", logger.NewField("migration", migration.ID))
	}

	return nil
}
