package scaffold

import (
	"context"

	"github.com/artifactsplus/artifactsplus/internal/errs"
	"github.com/artifactsplus/artifactsplus/internal/runtime"
)

// InstallDeps runs `<installer> install` inside dir. Any failure, including
// a missing installer binary, is an errs.Setup error: an uninstalled project
// is not usable.
func InstallDeps(ctx context.Context, r runtime.Runner, installer, dir string) error {
	if _, err := r.Run(ctx, dir, installer, "install"); err != nil {
		return errs.E(errs.Setup, "install dependencies", dir, err)
	}
	return nil
}
