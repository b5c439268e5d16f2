package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFilesOrderedAndFiltered(t *testing.T) {
	fsys := fstest.MapFS{
		"m/002_courses.sql": {Data: []byte("SELECT 2;")},
		"m/001_init.sql":    {Data: []byte("SELECT 1;")},
		"m/README.md":       {Data: []byte("docs")},
		"m/nested/003.sql":  {Data: []byte("SELECT 3;")},
	}

	files, err := migrationFiles(fsys, "m")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "001", files[0].version)
	assert.Equal(t, "001_init.sql", files[0].name)
	assert.Equal(t, "002", files[1].version)
}

func TestMigrationFilesRejectsDuplicateVersions(t *testing.T) {
	fsys := fstest.MapFS{
		"m/001_init.sql":  {Data: []byte("SELECT 1;")},
		"m/001_other.sql": {Data: []byte("SELECT 1;")},
	}

	_, err := migrationFiles(fsys, "m")
	assert.Error(t, err)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	files, err := migrationFiles(Embedded, EmbeddedDir)
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001", files[0].version)
}
