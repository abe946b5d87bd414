package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/ai"
	cfgpkg "github.com/always1st-js/KPC-ai-survey-dashboard/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set surveydash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "source: %s\n", cfg.SurveySource())
		fmt.Fprintf(w, "sheet_id: %s\n", cfg.SheetID)
		if cfg.CSVURL != "" {
			fmt.Fprintf(w, "csv_url: %s\n", cfg.CSVURL)
		}
		if cfg.SheetName != "" {
			fmt.Fprintf(w, "sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Fprintf(w, "provider: %s\n", cfg.Provider)
		fmt.Fprintf(w, "model: %s\n", cfg.Model)
		fmt.Fprintf(w, "api_key: %s\n", mask(cfg.APIKey))
		fmt.Fprintf(w, "max_tokens: %d\n", cfg.MaxTokens)
		fmt.Fprintf(w, "temperature: %.3f\n", cfg.Temperature)
		fmt.Fprintf(w, "ollama_host: %s\n", cfg.OllamaHost)
		fmt.Fprintf(w, "http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Fprintf(w, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(w, "allowed_origins: %s\n", strings.Join(cfg.AllowedOrigins, ","))
		fmt.Fprintf(w, "log_level: %s\n", cfg.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if err := setConfigValue(c, args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "sheet_id":
		c.SheetID = val
	case "csv_url":
		c.CSVURL = val
	case "source":
		c.Source = val
	case "sheet_name":
		c.SheetName = val
	case "provider":
		p := strings.ToLower(strings.TrimSpace(val))
		if _, ok := ai.GetRuntime(p, ai.RuntimeConfig{}); !ok {
			return fmt.Errorf("invalid provider: %s (use one of %s)", val, strings.Join(ai.Providers(), ", "))
		}
		c.Provider = p
	case "model":
		c.Model = val
	case "api_key":
		c.APIKey = val
	case "ollama_host":
		c.OllamaHost = val
	case "listen_addr":
		c.ListenAddr = val
	case "allowed_origins":
		c.AllowedOrigins = splitList(val)
	case "log_level":
		c.LogLevel = val
	case "max_tokens", "http_timeout_sec", "retry_max_attempts", "retry_base_delay_ms", "retry_max_delay_ms":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		switch key {
		case "max_tokens":
			c.MaxTokens = i
		case "http_timeout_sec":
			c.HTTPTimeoutSec = i
		case "retry_max_attempts":
			c.RetryMaxAttempts = i
		case "retry_base_delay_ms":
			c.RetryBaseDelayMs = i
		case "retry_max_delay_ms":
			c.RetryMaxDelayMs = i
		}
	case "temperature":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f < 0 || f > 2 {
			return fmt.Errorf("invalid float for temperature: %v", val)
		}
		c.Temperature = f
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
