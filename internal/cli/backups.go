package cli

import (
	"encoding/json"
	"fmt"

	"github.com/artifactsplus/artifactsplus/internal/output"
	"github.com/spf13/cobra"
)

var backupsJSON bool

func init() {
	backupsCmd.Flags().BoolVar(&backupsJSON, "json", false, "Print backups as JSON")
	rootCmd.AddCommand(backupsCmd)
}

var backupsCmd = &cobra.Command{
	Use:   "backups <name>",
	Short: "List previous versions of a project's App.tsx",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager(cmd, nil)
		if err != nil {
			return err
		}
		backups, err := m.Backups(args[0])
		if err != nil {
			return err
		}

		if backupsJSON {
			data, err := json.MarshalIndent(backups, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling backups: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}

		out := output.New(cmd.OutOrStdout())
		if len(backups) == 0 {
			out.Info("%s has no backups", args[0])
			return nil
		}
		out.Info("%d backup(s), oldest first:", len(backups))
		for _, b := range backups {
			out.Step("%s  %d bytes", b.Name, b.Size)
		}
		return nil
	},
}
