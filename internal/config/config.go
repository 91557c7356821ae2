// Package config loads runtime configuration from environment variables and
// an optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	ListenAddr string `mapstructure:"listen_addr"`

	// Webhook channel credentials.
	ChannelSecret string `mapstructure:"channel_secret"`
	ChannelToken  string `mapstructure:"channel_token"`
	LineEndpoint  string `mapstructure:"line_endpoint"`

	DBPath string `mapstructure:"db_path"`

	// Provider selects the translation backend: groq, deepseek or google.
	Provider          string `mapstructure:"provider"`
	GroqAPIKey        string `mapstructure:"groq_api_key"`
	DeepSeekAPIKey    string `mapstructure:"deepseek_api_key"`
	DeepSeekBaseURL   string `mapstructure:"deepseek_base_url"`
	GoogleCredentials string `mapstructure:"google_credentials"`

	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	MinInterval    time.Duration `mapstructure:"min_interval"`

	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from LINEGLOT_* environment variables, overlaid on
// an optional config.yaml in the working directory.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("line_endpoint", "https://api.line.me/v2/bot")
	v.SetDefault("db_path", "lineglot.db")
	v.SetDefault("provider", "groq")
	v.SetDefault("request_timeout", 5*time.Second)
	v.SetDefault("max_attempts", 2)
	v.SetDefault("min_interval", 500*time.Millisecond)
	v.SetDefault("log_level", "info")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LINEGLOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	if c.ChannelSecret == "" {
		return fmt.Errorf("channel_secret is required (LINEGLOT_CHANNEL_SECRET)")
	}
	if c.ChannelToken == "" {
		return fmt.Errorf("channel_token is required (LINEGLOT_CHANNEL_TOKEN)")
	}

	switch c.Provider {
	case "groq":
		if c.GroqAPIKey == "" {
			return fmt.Errorf("groq_api_key is required for the groq provider")
		}
	case "deepseek":
		if c.DeepSeekAPIKey == "" {
			return fmt.Errorf("deepseek_api_key is required for the deepseek provider")
		}
	case "google":
		if c.GoogleCredentials == "" {
			return fmt.Errorf("google_credentials is required for the google provider")
		}
	default:
		return fmt.Errorf("unknown provider %q (want groq, deepseek or google)", c.Provider)
	}

	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1")
	}
	return nil
}
