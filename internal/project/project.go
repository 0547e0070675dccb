package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/artifactsplus/artifactsplus/internal/errs"
)

// Layout constants for a scaffolded artifact project.
const (
	SourceDir     = "src"
	ManagedStem   = "App"
	DefaultExt    = ".tsx"
	BackupDirName = "old_App"
	backupInfix   = "_replacedat_"
)

// Resolve joins base and name into the project's candidate path.
// It performs no I/O.
func Resolve(base, name string) string {
	return filepath.Join(base, name)
}

// ValidateName rejects names that are not a single path element.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errs.Errorf(errs.Validation, "validate project name", "", "project name is empty")
	case name == "." || name == "..":
		return errs.Errorf(errs.Validation, "validate project name", "", "invalid project name %q", name)
	case strings.ContainsAny(name, `/\`) || filepath.Base(name) != name:
		return errs.Errorf(errs.Validation, "validate project name", "", "project name %q must not contain path separators", name)
	}
	return nil
}

// Create makes the directory for a new project under parent.
//
// If anything already exists at the candidate path, Create returns that path
// together with errs.ErrAlreadyExists and touches nothing. parent must exist;
// Create never creates it.
func Create(parent, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	candidate := Resolve(parent, name)

	if _, err := os.Lstat(candidate); err == nil {
		return candidate, errs.ErrAlreadyExists
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", errs.E(errs.Filesystem, "create project", candidate, err)
	}

	if err := os.Mkdir(candidate, 0755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return candidate, errs.ErrAlreadyExists
		}
		return "", errs.E(errs.Filesystem, "create project", candidate, err)
	}

	return candidate, nil
}

// ManagedPath returns the path of the managed content file for ext
// (".tsx" when ext is empty).
func ManagedPath(projectPath, ext string) string {
	if ext == "" {
		ext = DefaultExt
	}
	return filepath.Join(projectPath, SourceDir, ManagedStem+ext)
}

// BackupDir returns the directory holding replaced versions of the managed file.
func BackupDir(projectPath string) string {
	return filepath.Join(projectPath, SourceDir, BackupDirName)
}
