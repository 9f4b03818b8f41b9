// Package config builds the agent configuration once at startup. No other
// package reads environment variables directly.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Defaults used when neither the environment nor a config file says
// otherwise.
const (
	DefaultCloudServerURL = "https://app.smartwish.com"
	DefaultPollIntervalMS = 5000
	DefaultWorkDir        = "temp-print-jobs"
	DefaultMetricsPort    = 9105
	DefaultIPPHost        = "localhost"
	DefaultIPPPort        = 631
	DefaultDiskLimitPct   = 95.0
)

// Config is the explicit configuration struct passed into each component
// constructor.
type Config struct {
	CloudServerURL string `json:"cloud_server_url" yaml:"cloud_server_url"`
	DefaultPrinter string `json:"default_printer" yaml:"default_printer"`

	// PollInterval is derived from POLL_INTERVAL (milliseconds).
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`

	WorkDir     string `json:"work_dir" yaml:"work_dir"`
	MetricsPort int    `json:"metrics_port" yaml:"metrics_port"`
	LogLevel    string `json:"log_level" yaml:"log_level"`

	// TrayPrintScript is the helper script used by the script-based print
	// strategy. Empty means "resolve scripts/print-tray next to the binary".
	TrayPrintScript string `json:"tray_print_script" yaml:"tray_print_script"`

	IPPHost string `json:"ipp_host" yaml:"ipp_host"`
	IPPPort int    `json:"ipp_port" yaml:"ipp_port"`

	// DiskLimitPercent is the used-space threshold above which the agent
	// stops claiming new jobs.
	DiskLimitPercent float64 `json:"disk_limit_percent" yaml:"disk_limit_percent"`
}

// Defaults returns a Config populated with the built-in defaults only.
func Defaults() Config {
	return Config{
		CloudServerURL:   DefaultCloudServerURL,
		PollInterval:     DefaultPollIntervalMS * time.Millisecond,
		WorkDir:          DefaultWorkDir,
		MetricsPort:      DefaultMetricsPort,
		LogLevel:         "info",
		IPPHost:          DefaultIPPHost,
		IPPPort:          DefaultIPPPort,
		DiskLimitPercent: DefaultDiskLimitPct,
	}
}

// Load reads configuration from the environment and, when cfgFile is
// non-empty, a YAML config file. Environment variables win over the file.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("cloud_server_url", DefaultCloudServerURL)
	v.SetDefault("default_printer", "")
	v.SetDefault("poll_interval", DefaultPollIntervalMS)
	v.SetDefault("work_dir", DefaultWorkDir)
	v.SetDefault("metrics_port", DefaultMetricsPort)
	v.SetDefault("log_level", "info")
	v.SetDefault("tray_print_script", "")
	v.SetDefault("ipp_host", DefaultIPPHost)
	v.SetDefault("ipp_port", DefaultIPPPort)
	v.SetDefault("disk_limit_percent", DefaultDiskLimitPct)

	v.BindEnv("cloud_server_url", "CLOUD_SERVER_URL")
	v.BindEnv("default_printer", "DEFAULT_PRINTER")
	v.BindEnv("poll_interval", "POLL_INTERVAL")
	v.BindEnv("work_dir", "WORK_DIR")
	v.BindEnv("metrics_port", "METRICS_PORT")
	v.BindEnv("log_level", "LOG_LEVEL")
	v.BindEnv("tray_print_script", "TRAY_PRINT_SCRIPT")
	v.BindEnv("ipp_host", "IPP_HOST")
	v.BindEnv("ipp_port", "IPP_PORT")
	v.BindEnv("disk_limit_percent", "DISK_LIMIT_PERCENT")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}

	pollMS := v.GetInt("poll_interval")
	if pollMS <= 0 {
		pollMS = DefaultPollIntervalMS
	}

	cfg := &Config{
		CloudServerURL:   trimTrailingSlash(v.GetString("cloud_server_url")),
		DefaultPrinter:   v.GetString("default_printer"),
		PollInterval:     time.Duration(pollMS) * time.Millisecond,
		WorkDir:          v.GetString("work_dir"),
		MetricsPort:      v.GetInt("metrics_port"),
		LogLevel:         v.GetString("log_level"),
		TrayPrintScript:  v.GetString("tray_print_script"),
		IPPHost:          v.GetString("ipp_host"),
		IPPPort:          v.GetInt("ipp_port"),
		DiskLimitPercent: v.GetFloat64("disk_limit_percent"),
	}

	if cfg.CloudServerURL == "" {
		return nil, fmt.Errorf("cloud server URL must not be empty")
	}
	if cfg.DiskLimitPercent <= 0 || cfg.DiskLimitPercent > 100 {
		cfg.DiskLimitPercent = DefaultDiskLimitPct
	}

	return cfg, nil
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
