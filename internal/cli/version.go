package cli

import (
	"encoding/json"
	"fmt"

	"github.com/artifactsplus/artifactsplus/internal/branding"
	"github.com/artifactsplus/artifactsplus/internal/mcpserver"
	"github.com/artifactsplus/artifactsplus/internal/runtime"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

// versionInfo is the --json payload.
type versionInfo struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Date     string `json:"date"`
	Server   string `json:"server"`
	ServerV  string `json:"server_version"`
	Protocol string `json:"protocol_version"`
	MinNode  string `json:"min_node_version"`
}

func currentVersion() versionInfo {
	if buildVersion != "" {
		mcpserver.Version = buildVersion
	}
	return versionInfo{
		Version:  buildVersion,
		Commit:   buildCommit,
		Date:     buildDate,
		Server:   branding.ServerName(),
		ServerV:  mcpserver.ReportedVersion(),
		Protocol: mcp.LATEST_PROTOCOL_VERSION,
		MinNode:  runtime.MinNodeVersion,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the CLI build information together with the MCP server name and
version announced to hosts by "serve".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(w, buildVersion)
			return nil
		}

		info := currentVersion()
		if versionJSON {
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(w, string(out))
			return nil
		}

		fmt.Fprintf(w, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), info.Version, info.Commit, info.Date)
		fmt.Fprintf(w, "mcp server %s %s (protocol %s, node >= %s)\n", info.Server, info.ServerV, info.Protocol, info.MinNode)
		return nil
	},
}
