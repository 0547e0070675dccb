// Package launcher opens an artifact project in the user's editor. Launching
// is a convenience: it never fails the operation that triggered it, and its
// failures are reported through a separate diagnostic channel.
package launcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/artifactsplus/artifactsplus/internal/runtime"
)

// DefaultEditor is the editor executable used when none is configured.
const DefaultEditor = "/usr/local/bin/cursor"

// Launcher starts an editor on a project directory.
type Launcher struct {
	Editor string
	Runner runtime.Runner

	// OnError receives launch failures. When nil they are logged at WARN.
	OnError func(projectPath string, err error)

	Logger *slog.Logger
}

// Launch runs `<editor> .` with projectPath as the working directory and
// waits for it to exit. It has no error result by contract.
func (l *Launcher) Launch(ctx context.Context, projectPath string) {
	editor := l.Editor
	if editor == "" {
		editor = DefaultEditor
	}
	runner := l.Runner
	if runner == nil {
		runner = &runtime.ExecRunner{}
	}

	l.logger().Info("launching editor", "editor", editor, "project", projectPath)

	out, err := runner.Run(ctx, projectPath, editor, ".")
	if err != nil {
		l.report(projectPath, fmt.Errorf("launching %s: %w", editor, err))
		return
	}
	if out != nil && out.Stderr != "" {
		l.logger().Debug("editor stderr", "project", projectPath, "stderr", out.Stderr)
	}
}

// Hook adapts Launch to a post-commit hook signature.
func (l *Launcher) Hook() func(ctx context.Context, projectPath string) {
	return l.Launch
}

func (l *Launcher) report(projectPath string, err error) {
	if l.OnError != nil {
		l.OnError(projectPath, err)
		return
	}
	l.logger().Warn("editor launch failed", "project", projectPath, "error", err)
}

func (l *Launcher) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.Logger
}
