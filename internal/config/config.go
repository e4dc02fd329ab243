// Package config loads plugin settings from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the plugin process settings.
type Config struct {
	// Port is the loopback TCP port the plugin serves net/rpc on.
	Port int `env:"EMMA_BRIDGE_PORT" envDefault:"0"`

	// HostAddr is the host's net/rpc callback service ("host:port").
	HostAddr string `env:"EMMA_BRIDGE_HOST_ADDR"`

	ServiceName  string `env:"EMMA_BRIDGE_SERVICE_NAME" envDefault:"emma-bridge-plugin"`
	OTelEndpoint string `env:"EMMA_BRIDGE_OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"EMMA_BRIDGE_OTEL_ENABLED" envDefault:"true"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings needed to serve.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("missing --port/-port or EMMA_BRIDGE_PORT")
	}
	if c.HostAddr == "" {
		return errors.New("missing --host-addr or EMMA_BRIDGE_HOST_ADDR")
	}
	return nil
}
