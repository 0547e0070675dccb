package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/artifactsplus/artifactsplus/internal/output"
	"github.com/spf13/cobra"
)

var (
	writeFile     string
	writeNoEditor bool
)

func init() {
	writeCmd.Flags().StringVarP(&writeFile, "file", "f", "", "Read content from this file instead of stdin")
	writeCmd.Flags().BoolVar(&writeNoEditor, "no-editor", false, "Do not open the editor after writing")
	rootCmd.AddCommand(writeCmd)
}

var writeCmd = &cobra.Command{
	Use:   "write <name>",
	Short: "Replace a project's App.tsx, keeping a backup",
	Long: `Write new content to <projects_path>/<name>/src/App.tsx. The previous file is
moved to src/old_App/ under a timestamped name first. Content is read from
--file, or from stdin when no file is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readContent(cmd)
		if err != nil {
			return err
		}

		if writeNoEditor {
			cfg.LaunchEditor = false
		}
		m, err := newManager(cmd, nil)
		if err != nil {
			return err
		}

		written, err := m.Write(cmd.Context(), args[0], content)
		if err != nil {
			return err
		}
		m.Wait()

		output.New(cmd.OutOrStdout()).Success("Successfully wrote content to %s", written.File)
		return nil
	},
}

func readContent(cmd *cobra.Command) (string, error) {
	if writeFile != "" {
		data, err := os.ReadFile(writeFile)
		if err != nil {
			return "", fmt.Errorf("reading content: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading content from stdin: %w", err)
	}
	return string(data), nil
}
