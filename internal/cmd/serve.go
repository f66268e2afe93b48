package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/flarewatch/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard server with background monitoring",
	Long: `Serve exposes the dashboard API and prometheus metrics over HTTP
while monitoring cycles run in the background at the configured
interval. Cycles can also be triggered on demand via POST /api/run-cycle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.OutOrStdout())
		if err != nil {
			return err
		}

		addr := a.cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := api.New(addr, a.pipe, a.store, a.prom)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		done := make(chan struct{})
		go func() {
			defer close(done)
			a.pipe.Run(ctx, a.cfg.Monitor.Interval)
		}()

		errc := make(chan error, 1)
		go func() { errc <- srv.ListenAndServe() }()

		select {
		case err := <-errc:
			stop()
			<-done
			return err
		case <-ctx.Done():
		}

		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown incomplete", "error", err)
		}
		<-done
		return <-errc
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "override the dashboard listen address")
	rootCmd.AddCommand(serveCmd)
}
