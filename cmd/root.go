package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	cfgpkg "github.com/always1st-js/KPC-ai-survey-dashboard/internal/config"
)

var (
	cfgFile string
	envFile string
	debug   bool
	// Source flag (overrides config if set)
	flagSource string
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	// Loaded configuration
	cfg *cfgpkg.Global
	// logger writes diagnostics to stderr; command results go to stdout.
	logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, TimeFormat: time.Kitchen})
)

var rootCmd = &cobra.Command{
	Use:   "surveydash",
	Short: "KPC AI survey dashboard: cohort statistics and AI insights from a survey sheet",
	Long: `surveydash reads the KPC AI usage survey from its Google Sheets CSV export
(or a local CSV/XLSX export), compares new hires with existing staff, and asks
an LLM for presentation-ready insights. Run "serve" for the HTTP API used by
the web dashboard.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadEnv, loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.surveydash/config.yaml)")
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file with API keys (ignored when missing)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")
	pf.StringVar(&flagSource, "source", "", "survey CSV URL, local .csv/.tsv/.xlsx path (overrides config)")
	pf.IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	pf.IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max retry attempts on 429/5xx (overrides config)")
	pf.IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	pf.IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
}

// loadEnv loads API keys from a dotenv file. Variables already set win.
func loadEnv() {
	if envFile == "" {
		return
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to read env file", "path", envFile, "err", err)
	}
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		logger.Warn("failed to load config", "err", err)
		return
	}
	cfg = c
	applyOverrides(rootCmd, cfg)
	configureLogger(cfg.LogLevel)
}

func applyOverrides(cmd *cobra.Command, c *cfgpkg.Global) {
	f := cmd.PersistentFlags()
	if f.Changed("source") && flagSource != "" {
		c.Source = flagSource
	}
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		c.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		c.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		c.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		c.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
}

func configureLogger(level string) {
	if debug {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportCaller(true)
		return
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		logger.Warn("unknown log_level, using info", "value", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
}

// requireConfig returns the loaded config, loading defaults when the
// initial load failed.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	applyOverrides(rootCmd, cfg)
	return cfg, nil
}
