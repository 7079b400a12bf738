// Package config loads SDK configuration for embedding applications and
// the CLI from environment variables, with an optional YAML file layered
// on top.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/datafund/swarm-provenance-SDK/pkg/gateway"
)

// Config holds client configuration.
type Config struct {
	// GatewayURL is the provenance gateway endpoint.
	GatewayURL string `yaml:"gateway_url"`

	// TimeoutMS is the per-request deadline in milliseconds.
	TimeoutMS int `yaml:"timeout_ms"`

	// PaymentMode is the X-Payment-Mode header value.
	PaymentMode string `yaml:"payment_mode"`

	// LogLevel is one of DEBUG, INFO, WARN, ERROR.
	LogLevel string `yaml:"log_level"`
}

// Load reads configuration from environment variables, applying the
// client defaults for anything unset.
func Load() *Config {
	cfg := &Config{
		GatewayURL:  gateway.DefaultGatewayURL,
		TimeoutMS:   int(gateway.DefaultTimeout / time.Millisecond),
		PaymentMode: gateway.DefaultPaymentMode,
		LogLevel:    "INFO",
	}

	if u := os.Getenv("PROVENANCE_GATEWAY_URL"); u != "" {
		cfg.GatewayURL = u
	}
	if raw := os.Getenv("PROVENANCE_TIMEOUT_MS"); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			cfg.TimeoutMS = ms
		}
	}
	if mode := os.Getenv("PROVENANCE_PAYMENT_MODE"); mode != "" {
		cfg.PaymentMode = mode
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	return cfg
}

// LoadFile reads a YAML config file over the environment-derived base,
// so file values win over environment values and both win over
// defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Load()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Timeout returns the request deadline as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// ClientOptions converts the configuration into gateway client options.
func (c *Config) ClientOptions() []gateway.Option {
	return []gateway.Option{
		gateway.WithGatewayURL(c.GatewayURL),
		gateway.WithTimeout(c.Timeout()),
		gateway.WithPaymentMode(c.PaymentMode),
	}
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
