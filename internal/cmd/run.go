package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a single monitoring cycle",
	Long: `Run fetches the trailing flare window once, processes any new
significant flares through analysis, reporting, and distribution, then
exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		processed := a.pipe.RunCycle(cmd.Context())
		slog.Info("single cycle finished", "processed", processed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
