package cmd

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor continuously until interrupted",
	Long: `Watch runs monitoring cycles at the configured interval until
SIGINT or SIGTERM, then logs a summary of everything processed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.OutOrStdout())
		if err != nil {
			return err
		}

		interval := a.cfg.Monitor.Interval
		if watchInterval > 0 {
			interval = watchInterval
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a.pipe.Run(ctx, interval)
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "override the cycle interval (e.g. 10m)")
	rootCmd.AddCommand(watchCmd)
}
