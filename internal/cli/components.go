package cli

import (
	"github.com/artifactsplus/artifactsplus/internal/output"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(componentsCmd)
}

var componentsCmd = &cobra.Command{
	Use:   "components <name>",
	Short: "Install the ui components App.tsx imports",
	Long: `Scan the project's src/App.tsx for "@/components/ui/<name>" imports and add
each one with the shadcn generator (npx shadcn@latest add ...).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		res, err := m.InstallComponents(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := output.New(cmd.OutOrStdout())
		if len(res.Components) == 0 {
			out.Info("App.tsx imports no ui components; nothing to install")
			return nil
		}
		out.Success("Installed %d ui component(s)", len(res.Components))
		for _, c := range res.Components {
			out.Step("%s", c)
		}
		return nil
	},
}
