package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/waabox/deploybot/internal/domain"
)

// GatewayConfig holds connection settings for the agent gateway.
type GatewayConfig struct {
	URL            string `toml:"url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// AgentsConfig overrides the agent identity used for each capability.
// Empty values keep the built-in identity.
type AgentsConfig struct {
	CodeAnalysis           string `toml:"code_analysis"`
	SecurityScanner        string `toml:"security_scanner"`
	Infrastructure         string `toml:"infrastructure"`
	DeploymentOrchestrator string `toml:"deployment_orchestrator"`
	ChatAssistant          string `toml:"chat_assistant"`
}

// TimingConfig holds the pipeline's fixed delays in milliseconds.
type TimingConfig struct {
	PhaseDelayMS      int `toml:"phase_delay_ms"`
	ResetDelayMS      int `toml:"reset_delay_ms"`
	NotificationTTLMS int `toml:"notification_ttl_ms"`
}

// Config holds all deploybot configuration.
type Config struct {
	Gateway         GatewayConfig `toml:"gateway"`
	Agents          AgentsConfig  `toml:"agents"`
	Timing          TimingConfig  `toml:"timing"`
	DefaultPlatform string        `toml:"default_platform"`
	LogFile         string        `toml:"log_file"`
	LogLevel        string        `toml:"log_level"`
}

const (
	defaultPhaseDelay      = 1 * time.Second
	defaultResetDelay      = 3 * time.Second
	defaultNotificationTTL = 5 * time.Second
	defaultGatewayTimeout  = 120 * time.Second
)

// Default returns a config populated with the built-in defaults.
func Default() Config {
	return Config{
		Gateway: GatewayConfig{TimeoutSeconds: int(defaultGatewayTimeout / time.Second)},
		Timing: TimingConfig{
			PhaseDelayMS:      int(defaultPhaseDelay / time.Millisecond),
			ResetDelayMS:      int(defaultResetDelay / time.Millisecond),
			NotificationTTLMS: int(defaultNotificationTTL / time.Millisecond),
		},
		DefaultPlatform: domain.DefaultPlatform,
		LogLevel:        "info",
	}
}

// PhaseDelay returns the delay between analysis phases.
func (c Config) PhaseDelay() time.Duration {
	return millisOrDefault(c.Timing.PhaseDelayMS, defaultPhaseDelay)
}

// ResetDelay returns the delay between a successful deploy and the pipeline reset.
func (c Config) ResetDelay() time.Duration {
	return millisOrDefault(c.Timing.ResetDelayMS, defaultResetDelay)
}

// NotificationTTL returns how long a notification stays visible.
func (c Config) NotificationTTL() time.Duration {
	return millisOrDefault(c.Timing.NotificationTTLMS, defaultNotificationTTL)
}

// GatewayTimeout returns the HTTP timeout for agent calls.
func (c Config) GatewayTimeout() time.Duration {
	if c.Gateway.TimeoutSeconds > 0 {
		return time.Duration(c.Gateway.TimeoutSeconds) * time.Second
	}
	return defaultGatewayTimeout
}

// PlatformOrDefault returns DefaultPlatform if set, otherwise domain.DefaultPlatform.
func (c Config) PlatformOrDefault() string {
	if c.DefaultPlatform != "" {
		return c.DefaultPlatform
	}
	return domain.DefaultPlatform
}

func millisOrDefault(ms int, def time.Duration) time.Duration {
	if ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}

// LoadFrom reads configuration from the given TOML file path.
// If the file does not exist, it returns an empty config without error.
// Environment variables always take precedence over file values:
//   - DEPLOYBOT_GATEWAY_URL overrides gateway.url
//   - DEPLOYBOT_API_KEY     overrides gateway.api_key
//   - DEPLOYBOT_LOG_LEVEL   overrides log_level
func LoadFrom(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decoding %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// DefaultConfigPath returns the default path for the deploybot config file.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "deploybot", "config.toml")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DEPLOYBOT_GATEWAY_URL"); v != "" {
		cfg.Gateway.URL = v
	}
	if v := os.Getenv("DEPLOYBOT_API_KEY"); v != "" {
		cfg.Gateway.APIKey = v
	}
	if v := os.Getenv("DEPLOYBOT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Save writes cfg to the given TOML file path, creating parent directories as needed.
// Existing file contents are overwritten. Permissions on the written file are 0600.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	if encErr := toml.NewEncoder(f).Encode(cfg); encErr != nil {
		f.Close()
		return encErr
	}
	return f.Close()
}
