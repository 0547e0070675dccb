package scaffold

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/artifactsplus/artifactsplus/internal/errs"
)

// Sink consumes archive entries one by one, writing the ones Filter keeps
// and discarding the rest. The archive format knows nothing about which
// subtree is wanted; that policy lives entirely in Filter.
type Sink struct {
	// Filter reports whether the entry named name is materialized.
	// A nil Filter keeps everything.
	Filter func(name string) bool

	// Remap rewrites a kept entry name into its path relative to the
	// destination. A nil Remap keeps the name unchanged.
	Remap func(name string) string
}

// PrefixFilter keeps entries whose archive path starts with prefix.
func PrefixFilter(prefix string) func(string) bool {
	return func(name string) bool {
		return strings.HasPrefix(name, prefix)
	}
}

// StripPrefix returns a Remap that drops prefix from entry names.
func StripPrefix(prefix string) func(string) string {
	return func(name string) string {
		return strings.TrimPrefix(name, prefix)
	}
}

// Extract materializes the kept entries of r under dst and returns the
// number of files written. Entries that would land outside dst are rejected.
func (s *Sink) Extract(r *zip.Reader, dst string) (int, error) {
	root, err := filepath.Abs(dst)
	if err != nil {
		return 0, errs.E(errs.Filesystem, "extract template", dst, err)
	}

	written := 0
	for _, entry := range r.File {
		if s.Filter != nil && !s.Filter(entry.Name) {
			continue
		}

		name := entry.Name
		if s.Remap != nil {
			name = s.Remap(name)
		}
		if name == "" || name == "/" {
			continue
		}

		destPath, err := safeJoin(root, name)
		if err != nil {
			return written, errs.E(errs.Download, "extract template", entry.Name, err)
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0755); err != nil {
				return written, errs.E(errs.Filesystem, "extract template", destPath, err)
			}
			continue
		}
		if !entry.Mode().IsRegular() {
			continue
		}

		if err := writeEntry(entry, destPath); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func writeEntry(entry *zip.File, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return errs.E(errs.Filesystem, "extract template", destPath, err)
	}

	rc, err := entry.Open()
	if err != nil {
		return errs.E(errs.Download, "extract template", entry.Name, fmt.Errorf("opening zip entry: %w", err))
	}
	defer rc.Close()

	perm := entry.Mode().Perm()
	if perm == 0 {
		perm = 0644
	}
	out, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return errs.E(errs.Filesystem, "extract template", destPath, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return errs.E(errs.Download, "extract template", entry.Name, err)
	}
	if err := out.Close(); err != nil {
		return errs.E(errs.Filesystem, "extract template", destPath, err)
	}
	return nil
}

// safeJoin joins an archive path onto root and refuses results outside root.
func safeJoin(root, name string) (string, error) {
	p := filepath.Join(root, filepath.FromSlash(name))
	if p != root && !strings.HasPrefix(p, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal path %q escapes destination", name)
	}
	return p, nil
}
