package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBackups_NoBackupDir(t *testing.T) {
	backups, err := ListBackups(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestListBackups_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	bdir := BackupDir(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(bdir, "nested"), 0755))

	names := []string{
		"App_replacedat_2024-02-01T00-00-00-000Z.tsx",
		"App_replacedat_2023-12-31T23-59-59-999Z.tsx",
		"App_replacedat_2024-01-15T10-00-00-000Z.tsx",
		"notes.txt",
	}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(bdir, n), []byte(n), 0644))
	}

	backups, err := ListBackups(dir)
	require.NoError(t, err)
	require.Len(t, backups, 3)

	assert.Equal(t, "2023-12-31T23-59-59-999Z", backups[0].Timestamp)
	assert.Equal(t, "2024-01-15T10-00-00-000Z", backups[1].Timestamp)
	assert.Equal(t, "2024-02-01T00-00-00-000Z", backups[2].Timestamp)
	assert.Equal(t, filepath.Join(bdir, names[1]), backups[0].Path)
	assert.Equal(t, int64(len(names[1])), backups[0].Size)
}
