package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// overlay holds the tuning values that may come from a YAML file.
// Secrets are deliberately absent.
type overlay struct {
	Server struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
	} `yaml:"server"`
	Report struct {
		Model       string   `yaml:"model"`
		Temperature *float32 `yaml:"temperature"`
		Timeout     string   `yaml:"timeout"`
		Language    string   `yaml:"language"`
		Timezone    string   `yaml:"timezone"`
		RateLimit   *int     `yaml:"rate_limit"`
	} `yaml:"report"`
	Archive struct {
		Bucket string `yaml:"bucket"`
		Region string `yaml:"region"`
	} `yaml:"archive"`
	LogLevel string `yaml:"log_level"`
}

func applyOverlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return applyOverlay(cfg, data)
}

func applyOverlay(cfg *Config, data []byte) error {
	var o overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}

	setString(&cfg.ServerHost, o.Server.Host)
	setString(&cfg.ServerPort, o.Server.Port)
	setString(&cfg.GeminiModel, o.Report.Model)
	setString(&cfg.ReportLanguage, o.Report.Language)
	setString(&cfg.ReportTimezone, o.Report.Timezone)
	setString(&cfg.S3BucketName, o.Archive.Bucket)
	setString(&cfg.AWSRegion, o.Archive.Region)
	setString(&cfg.LogLevel, o.LogLevel)

	if o.Report.Temperature != nil {
		cfg.ReportTemperature = *o.Report.Temperature
	}
	if o.Report.RateLimit != nil {
		cfg.ReportRateLimit = *o.Report.RateLimit
	}
	if o.Report.Timeout != "" {
		d, err := time.ParseDuration(o.Report.Timeout)
		if err != nil {
			return fmt.Errorf("report.timeout: %w", err)
		}
		cfg.ReportTimeout = d
	}
	return nil
}
