package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/artifactsplus/artifactsplus/internal/branding"
	"github.com/artifactsplus/artifactsplus/internal/config"
	"github.com/artifactsplus/artifactsplus/internal/hostconfig"
	"github.com/artifactsplus/artifactsplus/internal/runtime"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment artifact operations depend on",
	Long: `Verify the projects directory, the editor, the package manager, npx and the
Node.js version, and whether the MCP server is registered with the desktop host.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := &doctor{
			w:        cmd.OutOrStdout(),
			cfg:      cfg,
			runner:   &runtime.ExecRunner{},
			lookPath: exec.LookPath,
		}
		if path, err := hostConfigPath(); err == nil {
			d.hostConfig = path
		}
		if failed := d.run(cmd.Context()); failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

type doctor struct {
	w          io.Writer
	cfg        config.Config
	runner     runtime.Runner
	lookPath   func(string) (string, error)
	hostConfig string

	failed int
}

func (d *doctor) run(ctx context.Context) int {
	fmt.Fprintln(d.w, "Projects check:")
	d.checkProjectsPath()

	fmt.Fprintln(d.w, "Runtime check:")
	d.checkBinary("editor", d.cfg.EditorPath, false)
	d.checkBinary("installer", d.cfg.InstallerPath, true)
	d.checkBinary("npx", d.cfg.NpxPath, true)
	d.checkNode(ctx)

	fmt.Fprintln(d.w, "Host check:")
	d.checkHost()
	return d.failed
}

func (d *doctor) ok(format string, args ...any) {
	fmt.Fprintf(d.w, "  [ OK ] "+format+"\n", args...)
}

func (d *doctor) warn(format string, args ...any) {
	fmt.Fprintf(d.w, "  [WARN] "+format+"\n", args...)
}

func (d *doctor) fail(format string, args ...any) {
	d.failed++
	fmt.Fprintf(d.w, "  [FAIL] "+format+"\n", args...)
}

func (d *doctor) checkProjectsPath() {
	p := d.cfg.ProjectsPath
	if p == "" {
		d.fail("%s is not set (set PROJECTS_PATH or run '%s config set %s <dir>')", config.KeyProjectsPath, branding.CLIName(), config.KeyProjectsPath)
		return
	}
	info, err := os.Stat(p)
	if err != nil {
		d.fail("%s %s: %v", config.KeyProjectsPath, p, err)
		return
	}
	if !info.IsDir() {
		d.fail("%s %s is not a directory", config.KeyProjectsPath, p)
		return
	}
	probe, err := os.CreateTemp(p, ".doctor-*")
	if err != nil {
		d.fail("%s %s is not writable: %v", config.KeyProjectsPath, p, err)
		return
	}
	probe.Close()
	os.Remove(probe.Name())
	d.ok("%s %s is a writable directory", config.KeyProjectsPath, p)
}

// checkBinary fails for a required binary that is missing and warns otherwise.
func (d *doctor) checkBinary(label, name string, required bool) {
	path, err := d.lookPath(name)
	switch {
	case err == nil:
		d.ok("%s found at %s", label, path)
	case required:
		d.fail("%s %s not found", label, name)
	default:
		d.warn("%s %s not found; projects will not open automatically", label, name)
	}
}

func (d *doctor) checkNode(ctx context.Context) {
	v, err := runtime.NodeVersion(ctx, d.runner)
	if err != nil {
		d.fail("node: %v", err)
		return
	}
	ok, err := runtime.SatisfiesMinimum(v.String(), runtime.MinNodeVersion)
	if err != nil {
		d.fail("node: %v", err)
		return
	}
	if !ok {
		d.fail("node %s is older than %s", v, runtime.MinNodeVersion)
		return
	}
	d.ok("node %s", v)
}

func (d *doctor) checkHost() {
	if d.hostConfig == "" {
		d.warn("no desktop host config location on this platform")
		return
	}
	e, err := hostconfig.Lookup(d.hostConfig, branding.ServerName())
	if err != nil {
		d.warn("%s not registered in %s (run '%s install')", branding.ServerName(), filepath.Base(d.hostConfig), branding.CLIName())
		return
	}
	d.ok("%s registered: %s %v", branding.ServerName(), e.Command, e.Args)
}
