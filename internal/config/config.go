package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type Toml struct {
	Development *Config `toml:"development"`
	Production  *Config `toml:"production"`
}

type Config struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Environment string `toml:"-"`

	LogLevel    string `toml:"log_level"`
	LogsPath    string `toml:"logs_path"`
	LogToStdout bool   `toml:"log_to_stdout"`

	SentryEnabled bool `toml:"sentry_enabled"`

	DBPath string `toml:"db_path"`

	OpenAIBaseURL string `toml:"openai_base_url"`
	OpenAIModel   string `toml:"openai_model"`

	AllowedOrigins []string `toml:"allowed_origins"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort int    `toml:"prometheus_metrics_port"`
}

func (t *Toml) Get(environment string) (*Config, error) {
	switch environment {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown environment: %s", environment)
	}
}

func Load(environment, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := tomlConfig.Get(environment)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for environment: %s", environment)
	}

	cfg.Environment = environment

	if cfg.DBPath == "" {
		cfg.DBPath = "./fit-coach.db"
	}

	return cfg, nil
}
