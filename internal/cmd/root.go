// Package cmd wires configuration, the feed, the agent stages, and the
// notification channels into the flarewatch CLI.
package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/flarewatch/internal/agent"
	"github.com/crimson-sun/flarewatch/internal/config"
	"github.com/crimson-sun/flarewatch/internal/feed"
	_ "github.com/crimson-sun/flarewatch/internal/feed/donki"
	"github.com/crimson-sun/flarewatch/internal/genai"
	"github.com/crimson-sun/flarewatch/internal/logging"
	"github.com/crimson-sun/flarewatch/internal/mail"
	"github.com/crimson-sun/flarewatch/internal/metrics"
	"github.com/crimson-sun/flarewatch/internal/notify"
	"github.com/crimson-sun/flarewatch/internal/notify/console"
	"github.com/crimson-sun/flarewatch/internal/notify/email"
	"github.com/crimson-sun/flarewatch/internal/notify/file"
	"github.com/crimson-sun/flarewatch/internal/pipeline"
	"github.com/crimson-sun/flarewatch/internal/report"
	"github.com/crimson-sun/flarewatch/internal/search"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "flarewatch",
	Short: "Solar flare monitoring pipeline",
	Long: `Flarewatch polls a space-weather feed for significant (M and X class)
solar flares, enriches each detection with analysis and a rendered
report, and distributes alerts across the configured channels.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default searches ./flarewatch.yaml)")
}

// app holds the assembled pipeline and its supporting pieces.
type app struct {
	cfg   config.Config
	pipe  *pipeline.Pipeline
	store *report.Store
	prom  *metrics.Metrics
}

// buildApp loads configuration and assembles the full pipeline. Absent
// capabilities (no Gemini key, no search key, incomplete mail settings)
// leave their interfaces nil; downstream stages fall back accordingly.
func buildApp(stdout io.Writer) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	logging.Init(cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))

	ctor, err := feed.Get(cfg.Feed.Provider)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %v)", err, feed.Providers())
	}
	feedImpl := ctor()
	feedCfg := feed.Config{
		Provider: cfg.Feed.Provider,
		APIKey:   cfg.Feed.APIKey,
		Endpoint: cfg.Feed.Endpoint,
		Timeout:  cfg.Feed.Timeout,
	}

	var gen genai.Generator
	if c := genai.NewClient(genai.Config{
		APIKey:          cfg.Gemini.APIKey,
		Model:           cfg.Gemini.Model,
		Endpoint:        cfg.Gemini.Endpoint,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		Timeout:         cfg.Gemini.Timeout,
	}); c != nil {
		gen = c
	} else {
		slog.Info("ai generation disabled, using report templates")
	}

	var searcher search.Searcher
	if s := search.NewSerper(search.Config{
		APIKey:   cfg.Search.APIKey,
		Endpoint: cfg.Search.Endpoint,
		Results:  cfg.Search.Results,
	}); s != nil {
		searcher = s
	}

	store := report.NewStore(cfg.Reports.Dir)
	prom := metrics.New()

	channels := []notify.Channel{
		console.New(stdout),
		file.New(store),
	}
	if t := mail.NewSMTP(mail.Config{
		Sender:    cfg.Mail.Sender,
		Password:  cfg.Mail.Password,
		Recipient: cfg.Mail.Recipient,
		Host:      cfg.Mail.SMTPHost,
		Port:      cfg.Mail.SMTPPort,
	}); t != nil {
		channels = append(channels, email.New(t))
	} else {
		slog.Info("email channel disabled, mail settings incomplete")
	}

	monitor := agent.NewMonitor(feedImpl, feedCfg, cfg.Monitor.WindowDays)
	monitor.OnFetchFailure(prom.FetchFailures.Inc)
	analyst := agent.NewAnalyst(gen, searcher)
	writer := agent.NewWriter(gen, "")
	notifier := agent.NewNotifier(channels, prom.ObserveDelivery)

	return &app{
		cfg:   cfg,
		pipe:  pipeline.New(monitor, analyst, writer, notifier, prom),
		store: store,
		prom:  prom,
	}, nil
}
