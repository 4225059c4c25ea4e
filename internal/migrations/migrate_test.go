package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000001_create_users.up.sql",
		"000001_create_users.down.sql",
		"000012_add_index.up.sql",
		"000013_add_index.down.sql",
		"README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- test"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "000099_dir.up.sql"), 0o755))

	assert.Equal(t, int64(12), LatestVersion(dir))
}

func TestLatestVersionShippedMigrations(t *testing.T) {
	assert.Equal(t, int64(2), LatestVersion("../../migrations"))
}

func TestLatestVersionMissingDir(t *testing.T) {
	assert.Equal(t, int64(0), LatestVersion(filepath.Join(t.TempDir(), "missing")))
}

func TestRunMigrationsRequiresURL(t *testing.T) {
	assert.Error(t, RunMigrations("", "../../migrations"))
}
