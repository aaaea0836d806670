package database

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles(t *testing.T) {
	t.Run("embedded migrations are ordered", func(t *testing.T) {
		files, err := migrationFiles(Migrations())
		require.NoError(t, err)
		assert.Equal(t, []string{
			"001_admin_credentials.sql",
			"002_posts.sql",
			"003_reviews.sql",
			"004_media.sql",
		}, files)
	})

	t.Run("ignores non-sql entries", func(t *testing.T) {
		mfs := fstest.MapFS{
			"002_b.sql": {Data: []byte("SELECT 1")},
			"001_a.sql": {Data: []byte("SELECT 1")},
			"README.md": {Data: []byte("notes")},
			"sub/x.sql": {Data: []byte("SELECT 1")},
		}
		files, err := migrationFiles(mfs)
		require.NoError(t, err)
		assert.Equal(t, []string{"001_a.sql", "002_b.sql"}, files)
	})

	t.Run("review rating constraint is present", func(t *testing.T) {
		content, err := fs.ReadFile(Migrations(), "003_reviews.sql")
		require.NoError(t, err)
		assert.Contains(t, string(content), "rating BETWEEN 1 AND 5")
	})
}
