package config

import (
	"fmt"
	"os"

	"stream-viewer/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides validation plus env overrides.
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new MConfig instance from a YAML file.
func NewConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()
	config.applyEnvOverrides()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// applyDefaults fills the optional sections the way the observed client
// behaves when not configured: 1000 chart points, 100 log lines, 3000 ms
// notification auto-hide, 60 s metric window, 1 s metric throttle, EMA(20).
func (c *Config) applyDefaults() {
	if c.Chart.MaxPoints == 0 {
		c.Chart.MaxPoints = 1000
	}
	if c.Chart.LogLines == 0 {
		c.Chart.LogLines = 100
	}
	if c.Notify.HideAfterMs == 0 {
		c.Notify.HideAfterMs = 3000
	}
	if c.Metrics.WindowSeconds == 0 {
		c.Metrics.WindowSeconds = 60
	}
	if c.Metrics.IntervalMs == 0 {
		c.Metrics.IntervalMs = 1000
	}
	if c.Metrics.EmaSpan == 0 {
		c.Metrics.EmaSpan = 20
	}
	if c.Gateway.WSPath == "" {
		c.Gateway.WSPath = "/ws"
	}
	if c.Gateway.RequestTimeout == 0 {
		c.Gateway.RequestTimeout = 10
	}
}

// -----------------------------------------------------------------------------

// applyEnvOverrides lets a .env / environment setting repoint the gateway
// without editing the YAML file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("STREAM_VIEWER_GATEWAY_URL"); v != "" {
		c.Gateway.BaseURL = v
	}
	if v := os.Getenv("STREAM_VIEWER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}

	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway base_url cannot be empty")
	}
	if c.Gateway.RequestTimeout <= 0 {
		return fmt.Errorf("gateway timeout must be greater than 0")
	}

	if c.Chart.MaxPoints <= 0 {
		return fmt.Errorf("chart max_points must be greater than 0")
	}
	if c.Chart.LogLines <= 0 {
		return fmt.Errorf("chart log_lines must be greater than 0")
	}

	if c.Metrics.Local {
		if c.Metrics.WindowSeconds <= 0 {
			return fmt.Errorf("metrics window_seconds must be greater than 0")
		}
		if c.Metrics.IntervalMs <= 0 {
			return fmt.Errorf("metrics interval_ms must be greater than 0")
		}
		if c.Metrics.EmaSpan <= 1 {
			return fmt.Errorf("metrics ema_span must be greater than 1")
		}
	}

	if c.Notify.HideAfterMs <= 0 {
		return fmt.Errorf("notify hide_after_ms must be greater than 0")
	}

	return nil
}
