package migration

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	t.Run("creates up and down file pair", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "Add Invoice Tables", "invoice schema")
		require.NoError(t, err)

		assert.True(t, strings.HasSuffix(mf.UpPath, "_add_invoice_tables.up.sql"))
		assert.True(t, strings.HasSuffix(mf.DownPath, "_add_invoice_tables.down.sql"))

		upContent, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(upContent), "Add Invoice Tables")

		_, err = os.Stat(mf.DownPath)
		assert.NoError(t, err)
	})

	t.Run("sanitizes awkward names", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "  po--milestones!! ", "")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(mf.UpPath, "_po_milestones.up.sql"))
	})
}

func TestListMigrations(t *testing.T) {
	t.Run("lists base names once per pair", func(t *testing.T) {
		dir := t.TempDir()

		_, err := CreateMigration(dir, "first", "")
		require.NoError(t, err)

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		require.Len(t, migrations, 1)
		assert.True(t, strings.HasSuffix(migrations[0], "_first"))
	})

	t.Run("missing directory yields empty list", func(t *testing.T) {
		migrations, err := ListMigrations("/nonexistent/migrations")
		assert.NoError(t, err)
		assert.Empty(t, migrations)
	})
}
