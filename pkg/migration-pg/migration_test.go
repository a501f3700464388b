package migrationpg

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"20250102000000_add_executions.up.sql":  {Data: []byte("CREATE TABLE executions (id BIGSERIAL);\n")},
		"20250101000000_create_orders.up.sql":   {Data: []byte("CREATE TABLE orders (id BIGSERIAL);")},
		"20250101000000_create_orders.down.sql": {Data: []byte("DROP TABLE orders;")},
		"README.md":                             {Data: []byte("not a migration")},
		"20250103000000_no_down_pair.down.sql":  {Data: []byte("DROP TABLE nothing;")},
	}

	migrations, err := LoadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, "20250101000000_create_orders", migrations[0].ID)
	assert.Equal(t, "create_orders", migrations[0].Name)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), migrations[0].Timestamp)
	assert.Equal(t, "DROP TABLE orders;", migrations[0].DownSQL)

	assert.Equal(t, "add_executions", migrations[1].Name)
	assert.Equal(t, "CREATE TABLE executions (id BIGSERIAL);", migrations[1].UpSQL)
	assert.Empty(t, migrations[1].DownSQL)
}

func TestLoadMigrationsWithoutTimestamp(t *testing.T) {
	fsys := fstest.MapFS{
		"initial.up.sql": {Data: []byte("SELECT 1;")},
	}

	migrations, err := LoadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 1)
	assert.Equal(t, "initial", migrations[0].Name)
	assert.Equal(t, time.Unix(0, 0), migrations[0].Timestamp)
}
