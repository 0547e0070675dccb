package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/artifactsplus/artifactsplus/internal/errs"
)

// timestampLayout mirrors an ISO-8601 UTC instant with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Replacer swaps the managed content file of a project, moving the previous
// version into the backup directory first.
type Replacer struct {
	// Ext is the managed file extension, including the dot. Defaults to ".tsx".
	Ext string

	// AllowFirstWrite skips the backup step when no managed file exists yet.
	// When false, a missing managed file is an errs.NotFound failure.
	AllowFirstWrite bool

	// Now returns the current instant. Defaults to time.Now.
	Now func() time.Time

	writeFile func(name string, data []byte, perm fs.FileMode) error
}

// Timestamp formats t as a filename-safe, lexically sortable token:
// the UTC ISO-8601 form with ':' and '.' replaced by '-'.
func Timestamp(t time.Time) string {
	return strings.NewReplacer(":", "-", ".", "-").Replace(t.UTC().Format(timestampLayout))
}

// BackupName returns the backup file name for the managed file replaced at t.
func BackupName(t time.Time, ext string) string {
	if ext == "" {
		ext = DefaultExt
	}
	return ManagedStem + backupInfix + Timestamp(t) + ext
}

// Replace writes content to the managed file of the project at projectPath
// and returns the path written.
//
// The steps run strictly in order and the first failure aborts the rest:
// ensure the backup directory, move the current managed file into it under a
// timestamped name, write content. A completed move is never rolled back, so
// a failed write leaves the previous version in the backup directory and no
// managed file in place.
func (r *Replacer) Replace(projectPath, content string) (string, error) {
	if content == "" {
		return "", errs.Errorf(errs.Validation, "replace managed file", "", "no content provided to write")
	}

	ext := r.ext()
	managed := ManagedPath(projectPath, ext)
	backupDir := BackupDir(projectPath)

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", errs.E(errs.Filesystem, "create backup directory", backupDir, err)
	}

	if _, err := os.Lstat(managed); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return "", errs.E(errs.Filesystem, "backup managed file", managed, err)
		}
		if !r.AllowFirstWrite {
			return "", errs.E(errs.NotFound, "backup managed file", managed, err)
		}
	} else {
		backupPath, err := r.freeBackupPath(backupDir, ext)
		if err != nil {
			return "", err
		}
		if err := os.Rename(managed, backupPath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", errs.E(errs.NotFound, "backup managed file", managed, err)
			}
			return "", errs.E(errs.Filesystem, "backup managed file", managed, err)
		}
	}

	write := r.writeFile
	if write == nil {
		write = os.WriteFile
	}
	if err := write(managed, []byte(content), 0644); err != nil {
		return "", errs.E(errs.Filesystem, "write managed file", managed, err)
	}
	return managed, nil
}

// freeBackupPath picks the backup name for the current instant, advancing one
// millisecond at a time past names already taken so that no backup is ever
// overwritten and lexical order stays chronological.
func (r *Replacer) freeBackupPath(backupDir, ext string) (string, error) {
	at := r.now()
	for {
		candidate := filepath.Join(backupDir, BackupName(at, ext))
		_, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", errs.E(errs.Filesystem, "backup managed file", candidate, err)
		}
		at = at.Add(time.Millisecond)
	}
}

func (r *Replacer) ext() string {
	if r.Ext == "" {
		return DefaultExt
	}
	return r.Ext
}

func (r *Replacer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}
