package scaffold

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/artifactsplus/artifactsplus/internal/errs"
)

// Flatten lifts the extracted template subtree target/<prefix> up into target
// itself, overwriting files that already exist there, then removes the
// archive's top-level directory (the "<repo>-<branch>" folder). An empty
// prefix means the template already sits at the archive root.
func Flatten(target, prefix string) error {
	rel := strings.Trim(prefix, "/")
	if rel == "" {
		return nil
	}

	nested := filepath.Join(target, filepath.FromSlash(rel))
	info, err := os.Stat(nested)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errs.Errorf(errs.Download, "flatten template", nested, "archive contains no %s subtree", prefix)
		}
		return errs.E(errs.Filesystem, "flatten template", nested, err)
	}
	if !info.IsDir() {
		return errs.Errorf(errs.Download, "flatten template", nested, "template root is not a directory")
	}

	if err := copyDir(nested, target); err != nil {
		return errs.E(errs.Filesystem, "flatten template", nested, err)
	}

	top := strings.SplitN(rel, "/", 2)[0]
	if err := os.RemoveAll(filepath.Join(target, top)); err != nil {
		return errs.E(errs.Filesystem, "flatten template", filepath.Join(target, top), err)
	}
	return nil
}

// copyDir recursively merges src into dst.
func copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else if entry.Type().IsRegular() {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
		// Skip symlinks and other special files during copy.
	}

	return nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, data, srcInfo.Mode())
}
