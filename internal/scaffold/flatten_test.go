package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/artifactsplus/artifactsplus/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

func TestFlatten(t *testing.T) {
	target := t.TempDir()
	writeTree(t, target, map[string]string{
		"repo-main/app/package.json":  "{}",
		"repo-main/app/src/App.tsx":   "template",
		"repo-main/app/src/ui/btn.ts": "button",
		"src/App.tsx":                 "stale",
	})

	require.NoError(t, Flatten(target, "repo-main/app/"))

	data, err := os.ReadFile(filepath.Join(target, "src", "App.tsx"))
	require.NoError(t, err)
	assert.Equal(t, "template", string(data), "merge overwrites existing files")
	assert.FileExists(t, filepath.Join(target, "package.json"))
	assert.FileExists(t, filepath.Join(target, "src", "ui", "btn.ts"))
	assert.NoDirExists(t, filepath.Join(target, "repo-main"))
}

func TestFlatten_EmptyPrefix(t *testing.T) {
	target := t.TempDir()
	writeTree(t, target, map[string]string{"a.txt": "a"})

	require.NoError(t, Flatten(target, ""))
	assert.FileExists(t, filepath.Join(target, "a.txt"))
}

func TestFlatten_MissingSubtree(t *testing.T) {
	err := Flatten(t.TempDir(), "repo-main/app/")
	assert.ErrorIs(t, err, errs.ErrDownload)
}

func TestCopyFile_PreservesMode(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "run.sh")
	dst := filepath.Join(tmp, "copy.sh")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh"), 0755))

	require.NoError(t, copyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh", string(data))
}
