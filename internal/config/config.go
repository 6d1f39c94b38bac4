package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Db       DbConfig      `mapstructure:"db"`
	Queue    *QueueConfig  `mapstructure:"queue"`
	Server   ServerConfig  `mapstructure:"server"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
	Farming  FarmingConfig `mapstructure:"farming"`
	Poller   PollerConfig  `mapstructure:"poller"`
	LogLevel string        `mapstructure:"log-level"`
}

func (cfg *Config) Validate() error {
	if err := cfg.Db.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}

	// queue is optional, events are only logged when it is absent
	if cfg.Queue != nil {
		if err := cfg.Queue.Validate(); err != nil {
			return fmt.Errorf("queue: %w", err)
		}
	}

	if err := cfg.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	if err := cfg.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	if err := cfg.Farming.Validate(); err != nil {
		return fmt.Errorf("farming: %w", err)
	}

	if err := cfg.Poller.Validate(); err != nil {
		return fmt.Errorf("poller: %w", err)
	}

	if cfg.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
			return fmt.Errorf("invalid log-level %q: %w", cfg.LogLevel, err)
		}
	}

	return nil
}

// New loads the config file at cfgFile. Environment variables override file
// values, e.g. FARMING_DB_PASSWORD overrides db.password.
func New(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(cfgFile)
	v.SetEnvPrefix("farming")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
