package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIKey             string        `mapstructure:"api_key"`
	Nation             string        `mapstructure:"nation"`
	Mock               bool          `mapstructure:"nb_mock"`
	ProviderScheme     string        `mapstructure:"provider_scheme"`
	ProviderHost       string        `mapstructure:"provider_host"`
	SampleLimit        int           `mapstructure:"sample_limit"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	ListenAddr       string `mapstructure:"listen_addr"`
	ContactTypesFile string `mapstructure:"contact_types_file"`
	PublishersFile   string `mapstructure:"publishers_file"`

	StorageType string `mapstructure:"storage_type"`
	BBoltPath   string `mapstructure:"bbolt_path"`
}

// Load reads configuration from configs/.env (when present) and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_name", "nbdev")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_key", "")
	v.SetDefault("nation", "")
	v.SetDefault("nb_mock", false)
	v.SetDefault("provider_scheme", "https")
	v.SetDefault("provider_host", "nationbuilder.com")
	v.SetDefault("sample_limit", 10)
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("contact_types_file", "")
	v.SetDefault("publishers_file", "")
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/mock.db")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Nation = strings.TrimSpace(cfg.Nation)
	if !cfg.Mock {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("missing API_KEY: set your NationBuilder API key or NB_MOCK=true")
		}
		if cfg.Nation == "" {
			return nil, fmt.Errorf("missing NATION: set your NationBuilder slug or NB_MOCK=true")
		}
	}

	if cfg.SampleLimit <= 0 {
		return nil, fmt.Errorf("invalid sample_limit (must be positive)")
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	return &cfg, nil
}

// Production reports whether the app runs in the production environment.
func (c *Config) Production() bool {
	return c != nil && strings.EqualFold(c.Env, "production")
}

// Redacted returns a copy that is safe to log.
func (c *Config) Redacted() Config {
	if c == nil {
		return Config{}
	}
	out := *c
	if out.APIKey != "" {
		out.APIKey = "***"
	}
	return out
}
