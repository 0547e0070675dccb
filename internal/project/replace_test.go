package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/artifactsplus/artifactsplus/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newProject lays out a project with a managed file holding initial.
func newProject(t *testing.T, initial string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, SourceDir), 0755))
	if initial != "" {
		require.NoError(t, os.WriteFile(ManagedPath(dir, ""), []byte(initial), 0644))
	}
	return dir
}

func frozenClock(t0 time.Time) func() time.Time {
	return func() time.Time { return t0 }
}

func TestTimestamp(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 123_000_000, time.UTC)
	assert.Equal(t, "2024-03-09T14-05-07-123Z", Timestamp(at))
	assert.Equal(t, "App_replacedat_2024-03-09T14-05-07-123Z.tsx", BackupName(at, ""))

	local := at.In(time.FixedZone("X", 5*3600))
	assert.Equal(t, Timestamp(at), Timestamp(local), "token is always UTC")
	assert.NotContains(t, Timestamp(at), ":")
}

func TestReplace_WritesAndBacksUp(t *testing.T) {
	dir := newProject(t, "export default function App(){return <div/>}")
	at := time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	r := &Replacer{Now: frozenClock(at)}

	written, err := r.Replace(dir, "export default function App(){return null}")
	require.NoError(t, err)
	assert.Equal(t, ManagedPath(dir, ""), written)

	data, err := os.ReadFile(written)
	require.NoError(t, err)
	assert.Equal(t, "export default function App(){return null}", string(data))

	backup := filepath.Join(BackupDir(dir), "App_replacedat_2024-01-02T03-04-05-006Z.tsx")
	old, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "export default function App(){return <div/>}", string(old))
}

func TestReplace_UnicodeRoundTrip(t *testing.T) {
	contents := []string{
		"const s = 'héllo wörld';",
		"// 日本語のコメント\nexport default () => '😀🚀';",
		"​ zero width, ﷽, 𝔘𝔫𝔦𝔠𝔬𝔡𝔢",
		"line1\r\nline2\n\ttab",
	}
	for _, content := range contents {
		dir := newProject(t, "seed")
		r := &Replacer{}

		path, err := r.Replace(dir, content)
		require.NoError(t, err)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, content, string(got))
	}
}

func TestReplace_EmptyContentMutatesNothing(t *testing.T) {
	dir := newProject(t, "seed")
	r := &Replacer{}

	_, err := r.Replace(dir, "")
	assert.ErrorIs(t, err, errs.ErrValidation)

	assert.NoDirExists(t, BackupDir(dir))
	data, err := os.ReadFile(ManagedPath(dir, ""))
	require.NoError(t, err)
	assert.Equal(t, "seed", string(data))
}

func TestReplace_MissingManagedFile(t *testing.T) {
	dir := newProject(t, "")
	r := &Replacer{}

	_, err := r.Replace(dir, "content")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	// The backup directory may have been created but holds nothing.
	entries, err := os.ReadDir(BackupDir(dir))
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoFileExists(t, ManagedPath(dir, ""))
}

func TestReplace_AllowFirstWrite(t *testing.T) {
	dir := newProject(t, "")
	r := &Replacer{AllowFirstWrite: true}

	path, err := r.Replace(dir, "first")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	backups, err := ListBackups(dir)
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestReplace_SequentialCallsKeepEveryBackup(t *testing.T) {
	dir := newProject(t, "v0")
	// A frozen clock forces every call onto the same instant.
	r := &Replacer{Now: frozenClock(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))}

	const n = 5
	for i := 1; i <= n; i++ {
		_, err := r.Replace(dir, "v"+string(rune('0'+i)))
		require.NoError(t, err)
	}

	backups, err := ListBackups(dir)
	require.NoError(t, err)
	require.Len(t, backups, n)

	names := make([]string, len(backups))
	for i, b := range backups {
		names[i] = b.Name
		data, err := os.ReadFile(b.Path)
		require.NoError(t, err)
		assert.Equal(t, "v"+string(rune('0'+i)), string(data), "backup %d holds version %d", i, i)
	}
	assert.True(t, sort.StringsAreSorted(names))

	current, err := os.ReadFile(ManagedPath(dir, ""))
	require.NoError(t, err)
	assert.Equal(t, "v5", string(current))
}

func TestReplace_RealClockProducesDistinctBackups(t *testing.T) {
	dir := newProject(t, "v0")
	r := &Replacer{}

	for i := 0; i < 3; i++ {
		_, err := r.Replace(dir, "next")
		require.NoError(t, err)
	}

	backups, err := ListBackups(dir)
	require.NoError(t, err)
	assert.Len(t, backups, 3)
}

func TestReplace_CustomExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, SourceDir), 0755))
	require.NoError(t, os.WriteFile(ManagedPath(dir, ".jsx"), []byte("old"), 0644))

	r := &Replacer{Ext: ".jsx", Now: frozenClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}
	path, err := r.Replace(dir, "new")
	require.NoError(t, err)
	assert.Equal(t, ManagedPath(dir, ".jsx"), path)
	assert.FileExists(t, filepath.Join(BackupDir(dir), "App_replacedat_2024-01-01T00-00-00-000Z.jsx"))
}

func TestReplace_FailedWriteKeepsBackup(t *testing.T) {
	dir := newProject(t, "precious")
	r := &Replacer{
		Now: frozenClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		writeFile: func(string, []byte, fs.FileMode) error {
			return errors.New("disk full")
		},
	}

	_, err := r.Replace(dir, "new content")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrFilesystem)

	// The move is not rolled back: the old version survives only as a backup.
	assert.NoFileExists(t, ManagedPath(dir, ""))
	backups, err := ListBackups(dir)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	data, err := os.ReadFile(backups[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "precious", string(data))
}

func TestReplace_ReadOnlySourceDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := newProject(t, "seed")
	require.NoError(t, os.MkdirAll(BackupDir(dir), 0755))

	src := filepath.Join(dir, SourceDir)
	require.NoError(t, os.Chmod(src, 0555))
	t.Cleanup(func() { os.Chmod(src, 0755) })

	_, err := (&Replacer{}).Replace(dir, "new")
	assert.ErrorIs(t, err, errs.ErrFilesystem)

	data, err := os.ReadFile(ManagedPath(dir, ""))
	require.NoError(t, err)
	assert.Equal(t, "seed", string(data), "nothing moved when src is read-only")
}
