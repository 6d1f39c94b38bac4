package config

import (
	"errors"
	"time"
)

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read-timeout"`
	WriteTimeout time.Duration `mapstructure:"write-timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle-timeout"`
	// APIToken, when set, must be sent as a bearer token on every request
	// that changes state. Without it the server trusts the caller header
	// and has to sit behind an authenticating proxy.
	APIToken string `mapstructure:"api-token"`
}

func (cfg *ServerConfig) Validate() error {
	if cfg.Host == "" {
		return errors.New("missing server host")
	}

	if cfg.Port < 0 || cfg.Port > 65535 {
		return errors.New("server port must be between 0 and 65535")
	}

	if cfg.ReadTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}

	return nil
}
