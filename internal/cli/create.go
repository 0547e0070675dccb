package cli

import (
	"errors"
	"fmt"

	"github.com/artifactsplus/artifactsplus/internal/artifact"
	"github.com/artifactsplus/artifactsplus/internal/errs"
	"github.com/artifactsplus/artifactsplus/internal/output"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create and scaffold a new artifact project",
	Long: `Create <projects_path>/<name>, download the React template into it and
install its dependencies. An existing folder with that name is left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		m, err := newManager(cmd, cmd.ErrOrStderr(), artifact.WithProgress(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}

		created, err := m.Create(cmd.Context(), name)
		if errors.Is(err, errs.ErrAlreadyExists) {
			return fmt.Errorf("a project with name %s already exists, choose a different name: %w", name, err)
		}
		if err != nil {
			return err
		}

		out := output.New(cmd.OutOrStdout())
		out.Success("Created new artifact folder: %s", created.Path)
		out.Step("%s write %s --file App.tsx", rootCmd.Name(), name)
		return nil
	},
}
