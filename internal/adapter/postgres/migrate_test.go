package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordersys/tableside/internal/adapter/postgres/migrations"
)

func TestMigrationFilesEmbedded(t *testing.T) {
	entries, err := migrations.FS.ReadDir(".")
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, e := range entries {
		names[e.Name()] = true
	}

	assert.True(t, names["00001_create_orders_tables.go"])
	assert.True(t, names["00002_create_users_tables.go"])
	assert.True(t, names["00003_seed_default_admin.go"])
}
