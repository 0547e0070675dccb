package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/artifactsplus/artifactsplus/internal/artifact"
	"github.com/artifactsplus/artifactsplus/internal/branding"
	"github.com/artifactsplus/artifactsplus/internal/config"
	"github.com/artifactsplus/artifactsplus/internal/logging"
	"github.com/artifactsplus/artifactsplus/internal/output"
	"github.com/artifactsplus/artifactsplus/internal/runtime"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	configDir    string
	projectsPath string
	logLevel     string

	// store and cfg are loaded before every command runs.
	store *config.Store
	cfg   config.Config

	// managerOptions are appended when building a Manager. Tests use it to
	// swap the runner and HTTP client.
	managerOptions []artifact.Option
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates React artifact projects, scaffolds them from a template,
writes generated App.tsx content with automatic backups, and opens them in
your editor. Run "` + branding.CLIName() + ` serve" to expose the same operations to an MCP host.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.Load(configDir, config.EnvFiles(configDir)...)
		if err != nil {
			return err
		}
		if err := s.BindFlag(config.KeyProjectsPath, cmd.Flags().Lookup("projects-path")); err != nil {
			return err
		}
		if err := s.BindFlag(config.KeyLogLevel, cmd.Flags().Lookup("log-level")); err != nil {
			return err
		}
		c, err := s.Config()
		if err != nil {
			return err
		}
		store, cfg = s, c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", config.Dir(), "Directory holding config.yaml and .env")
	rootCmd.PersistentFlags().StringVar(&projectsPath, "projects-path", "", "Directory that holds artifact projects")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	err := rootCmd.Execute()
	if err != nil {
		output.New(rootCmd.ErrOrStderr()).Error("%v", err)
	}
	return err
}

// newLogger writes to the command's stderr; stdout may carry the MCP stream.
func newLogger(cmd *cobra.Command) *slog.Logger {
	return logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
}

// newManager builds a Manager whose child processes stream to live, when set.
func newManager(cmd *cobra.Command, live io.Writer, extra ...artifact.Option) (*artifact.Manager, error) {
	m, err := buildManager(cmd, live, extra...)
	if err != nil {
		return nil, fmt.Errorf("%w\nrun '%s config set %s <dir>' or pass --projects-path", err, branding.CLIName(), config.KeyProjectsPath)
	}
	return m, nil
}

func buildManager(cmd *cobra.Command, live io.Writer, extra ...artifact.Option) (*artifact.Manager, error) {
	logger := newLogger(cmd)
	opts := []artifact.Option{
		artifact.WithLogger(logger),
		artifact.WithRunner(&runtime.ExecRunner{Stdout: live, Stderr: live}),
	}
	opts = append(opts, extra...)
	opts = append(opts, managerOptions...)
	return artifact.New(cfg, opts...)
}
