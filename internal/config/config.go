package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultSheetID is the survey spreadsheet the dashboard was built for.
const DefaultSheetID = "1hNuZ_4r69CQ7prjCXdFK3sXGX8jkzC1NH7PlYjXzmYg"

const (
	envPrefix = "SURVEYDASH"
	dirName   = ".surveydash"
)

// Global configuration structure.
type Global struct {
	// Survey source. Source wins over CSVURL, which wins over SheetID.
	SheetID   string `mapstructure:"sheet_id" yaml:"sheet_id"`
	CSVURL    string `mapstructure:"csv_url" yaml:"csv_url"`
	Source    string `mapstructure:"source" yaml:"source"`
	SheetName string `mapstructure:"sheet_name" yaml:"sheet_name"`

	// Insight generation
	Provider    string  `mapstructure:"provider" yaml:"provider"`
	Model       string  `mapstructure:"model" yaml:"model"`
	APIKey      string  `mapstructure:"api_key" yaml:"api_key,omitempty"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	OllamaHost  string  `mapstructure:"ollama_host" yaml:"ollama_host"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	// Server
	ListenAddr     string   `mapstructure:"listen_addr" yaml:"listen_addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	LogLevel       string   `mapstructure:"log_level" yaml:"log_level"`
}

// SurveySource returns the location the loader should read.
func (c *Global) SurveySource() string {
	switch {
	case c.Source != "":
		return c.Source
	case c.CSVURL != "":
		return c.CSVURL
	case c.SheetID != "":
		return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", c.SheetID)
	}
	return ""
}

// HTTPTimeout is HTTPTimeoutSec as a duration.
func (c *Global) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// DefaultPath is ~/.surveydash/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to DefaultPath, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SetDefaults registers every key's default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("sheet_id", DefaultSheetID)
	v.SetDefault("csv_url", "")
	v.SetDefault("source", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("provider", "gemini")
	v.SetDefault("model", "gemini-2.0-flash")
	v.SetDefault("api_key", "")
	v.SetDefault("max_tokens", 1024)
	v.SetDefault("temperature", 0.7)
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	// Server defaults
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("log_level", "info")
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A missing file is not an error.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, dirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
