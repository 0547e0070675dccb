package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/artifactsplus/artifactsplus/internal/errs"
)

// Backup describes one preserved version of the managed file.
type Backup struct {
	Name      string
	Path      string
	Timestamp string // the token between the infix and the extension
	Size      int64
}

// ListBackups returns the backup entries of a project, oldest first.
// A project that has never been replaced has no backup directory and
// yields an empty list.
func ListBackups(projectPath string) ([]Backup, error) {
	dir := BackupDir(projectPath)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errs.E(errs.Filesystem, "list backups", dir, err)
	}

	prefix := ManagedStem + backupInfix
	var backups []Backup
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, errs.E(errs.Filesystem, "list backups", dir, err)
		}
		rest := strings.TrimPrefix(e.Name(), prefix)
		backups = append(backups, Backup{
			Name:      e.Name(),
			Path:      filepath.Join(dir, e.Name()),
			Timestamp: strings.TrimSuffix(rest, filepath.Ext(rest)),
			Size:      info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Name < backups[j].Name
	})
	return backups, nil
}
