package models

// MConfig Structure
type MConfig struct {
	Name     string         `yaml:"name"`
	Host     string         `yaml:"host"`
	Port     int            `yaml:"port"`
	LogLevel string         `yaml:"log_level"`
	Gateway  MGatewayConfig `yaml:"gateway"`
	Chart    MChartConfig   `yaml:"chart"`
	Metrics  MMetricsConfig `yaml:"metrics"`
	Notify   MNotifyConfig  `yaml:"notify"`
}

type MGatewayConfig struct {
	BaseURL        string `yaml:"base_url"`
	WSPath         string `yaml:"ws_path"`
	RequestTimeout int    `yaml:"timeout"`
}

type MChartConfig struct {
	MaxPoints int `yaml:"max_points"`
	LogLines  int `yaml:"log_lines"`
}

type MMetricsConfig struct {
	Local         bool `yaml:"local"`
	WindowSeconds int  `yaml:"window_seconds"`
	IntervalMs    int  `yaml:"interval_ms"`
	EmaSpan       int  `yaml:"ema_span"`
}

type MNotifyConfig struct {
	HideAfterMs int `yaml:"hide_after_ms"`
}
