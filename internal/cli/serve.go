package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/artifactsplus/artifactsplus/internal/artifact"
	"github.com/artifactsplus/artifactsplus/internal/mcpserver"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	Long: `Serve artifact tools to an MCP host over stdin/stdout. Logs go to stderr.
The host normally starts this command itself; see "install". Without a
projects path the server still starts and every tool call reports the error.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := newLogger(cmd)
		m, err := buildManager(cmd, nil)
		if err != nil {
			// Stay up so the host can connect; every tool call reports err.
			logger.Warn("tool calls will fail until the configuration is fixed", "error", err)
		} else {
			defer m.Wait()
		}

		mcpserver.Version = buildVersion
		s := mcpserver.NewFrom(func() (*artifact.Manager, error) { return m, err }, logger)
		logger.Info("serving", "projects_path", cfg.ProjectsPath)
		return mcpserver.Serve(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	},
}
