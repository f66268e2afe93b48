package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all flarewatch configuration.
type Config struct {
	Feed    FeedConfig    `mapstructure:"feed"`
	Gemini  GeminiConfig  `mapstructure:"gemini"`
	Search  SearchConfig  `mapstructure:"search"`
	Mail    MailConfig    `mapstructure:"mail"`
	Reports ReportsConfig `mapstructure:"reports"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
}

// FeedConfig configures the solar-flare feed provider.
type FeedConfig struct {
	// Provider selects the registered feed implementation (default "donki").
	Provider string `mapstructure:"provider"`
	// APIKey authenticates against the feed. DONKI accepts "DEMO_KEY"
	// with tight rate limits.
	APIKey string `mapstructure:"api_key"`
	// Endpoint overrides the provider's default base URL (tests, proxies).
	Endpoint string `mapstructure:"endpoint"`
	// Timeout bounds a single fetch call.
	Timeout time.Duration `mapstructure:"timeout"`
}

// GeminiConfig configures the optional AI text-generation capability.
// An empty APIKey disables it; the pipeline falls back to templates.
type GeminiConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	Model           string        `mapstructure:"model"`
	Endpoint        string        `mapstructure:"endpoint"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// SearchConfig configures the optional web-search capability.
type SearchConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
	// Results caps how many hits a query requests.
	Results int `mapstructure:"results"`
}

// MailConfig configures the optional email channel. The channel is enabled
// only when Sender, Recipient, and SMTPHost are all present.
type MailConfig struct {
	Sender    string `mapstructure:"sender"`
	Password  string `mapstructure:"password"`
	Recipient string `mapstructure:"recipient"`
	SMTPHost  string `mapstructure:"smtp_host"`
	SMTPPort  int    `mapstructure:"smtp_port"`
}

// Enabled reports whether the mail channel has a usable configuration.
func (m MailConfig) Enabled() bool {
	return m.Sender != "" && m.Recipient != "" && m.SMTPHost != ""
}

// ReportsConfig configures the persistent report store.
type ReportsConfig struct {
	Dir string `mapstructure:"dir"`
}

// MonitorConfig controls the detection cycle.
type MonitorConfig struct {
	// Interval between cycles in continuous mode.
	Interval time.Duration `mapstructure:"interval"`
	// WindowDays is the trailing fetch window.
	WindowDays int `mapstructure:"window_days"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Feed: FeedConfig{
			Provider: "donki",
			APIKey:   "DEMO_KEY",
			Timeout:  10 * time.Second,
		},
		Gemini: GeminiConfig{
			Model:           "gemini-pro",
			MaxOutputTokens: 2048,
			Timeout:         30 * time.Second,
		},
		Search: SearchConfig{
			Results: 5,
		},
		Mail: MailConfig{
			SMTPPort: 587,
		},
		Reports: ReportsConfig{
			Dir: "reports",
		},
		Monitor: MonitorConfig{
			Interval:   30 * time.Minute,
			WindowDays: 7,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from an optional YAML file and FLAREWATCH_*
// environment variables, layered over the defaults. An empty path searches
// the working directory for flarewatch.yaml; a missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FLAREWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("flarewatch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Monitor.WindowDays <= 0 {
		return fmt.Errorf("config: monitor.window_days must be positive, got %d", c.Monitor.WindowDays)
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("config: monitor.interval must be positive, got %s", c.Monitor.Interval)
	}
	if c.Reports.Dir == "" {
		return fmt.Errorf("config: reports.dir must not be empty")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("feed.provider", d.Feed.Provider)
	v.SetDefault("feed.api_key", d.Feed.APIKey)
	v.SetDefault("feed.endpoint", d.Feed.Endpoint)
	v.SetDefault("feed.timeout", d.Feed.Timeout)

	v.SetDefault("gemini.api_key", d.Gemini.APIKey)
	v.SetDefault("gemini.model", d.Gemini.Model)
	v.SetDefault("gemini.endpoint", d.Gemini.Endpoint)
	v.SetDefault("gemini.max_output_tokens", d.Gemini.MaxOutputTokens)
	v.SetDefault("gemini.timeout", d.Gemini.Timeout)

	v.SetDefault("search.api_key", d.Search.APIKey)
	v.SetDefault("search.endpoint", d.Search.Endpoint)
	v.SetDefault("search.results", d.Search.Results)

	v.SetDefault("mail.sender", d.Mail.Sender)
	v.SetDefault("mail.password", d.Mail.Password)
	v.SetDefault("mail.recipient", d.Mail.Recipient)
	v.SetDefault("mail.smtp_host", d.Mail.SMTPHost)
	v.SetDefault("mail.smtp_port", d.Mail.SMTPPort)

	v.SetDefault("reports.dir", d.Reports.Dir)

	v.SetDefault("monitor.interval", d.Monitor.Interval)
	v.SetDefault("monitor.window_days", d.Monitor.WindowDays)

	v.SetDefault("server.addr", d.Server.Addr)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}
