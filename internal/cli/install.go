package cli

import (
	"fmt"
	"os"
	"path/filepath"
	goruntime "runtime"

	"github.com/artifactsplus/artifactsplus/internal/branding"
	"github.com/artifactsplus/artifactsplus/internal/hostconfig"
	"github.com/artifactsplus/artifactsplus/internal/output"
	"github.com/spf13/cobra"
)

var (
	installHostConfig string
	installCommand    string
)

func init() {
	installCmd.Flags().StringVar(&installHostConfig, "host-config", "", "Path to "+hostconfig.FileName+" (default: the desktop host's location)")
	installCmd.Flags().StringVar(&installCommand, "command", "", "Executable the host should start (default: this binary)")
	rootCmd.AddCommand(installCmd)
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Register the MCP server with the desktop host",
	Long: `Add or update the "` + branding.ServerName() + `" entry under mcpServers in the desktop
host's ` + hostconfig.FileName + `. Other entries and settings are kept.
The configured projects path is passed to the server as PROJECTS_PATH.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := hostConfigPath()
		if err != nil {
			return err
		}

		command := installCommand
		if command == "" {
			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("locating executable: %w", err)
			}
			command = exe
		}

		entry := hostconfig.Entry{Command: command, Args: []string{"serve"}}
		if cfg.ProjectsPath != "" {
			entry.Env = map[string]string{"PROJECTS_PATH": cfg.ProjectsPath}
		}

		kept, err := hostconfig.Install(path, branding.ServerName(), entry)
		if err != nil {
			return fmt.Errorf("updating host config: %w", err)
		}

		out := output.New(cmd.OutOrStdout())
		if !kept {
			out.Info("Created new config file")
		}
		out.Success("Updated config at: %s", path)
		out.Step("%s → %s serve", branding.ServerName(), command)
		if cfg.ProjectsPath == "" {
			out.Warn("projects_path is not set; every tool call will return an error until it is")
		}
		return nil
	},
}

func hostConfigPath() (string, error) {
	if installHostConfig != "" {
		return filepath.Abs(installHostConfig)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return hostconfig.DefaultPath(goruntime.GOOS, home, os.Getenv("APPDATA"))
}
