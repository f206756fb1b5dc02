package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv  = "SCREENER_FETCHER_CONFIG"
	databaseDSNEnv = "DATABASE_DSN"
	baseURLEnv     = "SCREENER_BASE_URL"
)

// Config holds the settings required across the application.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Browser  BrowserConfig  `yaml:"browser"`
	Download DownloadConfig `yaml:"download"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SourceConfig points at the financial data site.
type SourceConfig struct {
	BaseURL          string `yaml:"baseUrl"`
	SearchTimeoutSec int    `yaml:"searchTimeoutSec"`
}

// BrowserConfig tunes the headless session.
type BrowserConfig struct {
	// Headful disables headless mode for debugging.
	Headful            bool `yaml:"headful"`
	PageLoadTimeoutSec int  `yaml:"pageLoadTimeoutSec"`
	SettleDelaySec     int  `yaml:"settleDelaySec"`
	WindowWidth        int  `yaml:"windowWidth"`
	WindowHeight       int  `yaml:"windowHeight"`
	// ExpandThresholdYears: requesting more annual history than this clicks
	// the section's show-more control first. A tunable default, not a firm
	// contract.
	ExpandThresholdYears int `yaml:"expandThresholdYears"`
}

// DownloadConfig tunes the per-file fetch behavior.
type DownloadConfig struct {
	TimeoutSec int `yaml:"timeoutSec"`
	// PauseSec is the politeness delay between successive fetches.
	PauseSec  int    `yaml:"pauseSec"`
	OutputDir string `yaml:"outputDir"`
}

// DatabaseConfig describes the optional fetch-ledger connection.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// LoggingConfig selects the console log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SearchTimeout returns the search client timeout as a duration.
func (s SourceConfig) SearchTimeout() time.Duration {
	return time.Duration(s.SearchTimeoutSec) * time.Second
}

// PageLoadTimeout returns the bounded page-load wait.
func (b BrowserConfig) PageLoadTimeout() time.Duration {
	return time.Duration(b.PageLoadTimeoutSec) * time.Second
}

// SettleDelay returns the wait applied after page interactions.
func (b BrowserConfig) SettleDelay() time.Duration {
	return time.Duration(b.SettleDelaySec) * time.Second
}

// Timeout returns the per-fetch HTTP timeout.
func (d DownloadConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSec) * time.Second
}

// Pause returns the politeness delay between fetches.
func (d DownloadConfig) Pause() time.Duration {
	return time.Duration(d.PauseSec) * time.Second
}

// Load reads YAML configuration (if present) and applies environment
// overrides. path may be empty; the config path env var is the fallback.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(baseURLEnv); v != "" {
		c.Source.BaseURL = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Source.BaseURL != "" {
		base.Source.BaseURL = override.Source.BaseURL
	}
	if override.Source.SearchTimeoutSec > 0 {
		base.Source.SearchTimeoutSec = override.Source.SearchTimeoutSec
	}

	if override.Browser.Headful {
		base.Browser.Headful = true
	}
	if override.Browser.PageLoadTimeoutSec > 0 {
		base.Browser.PageLoadTimeoutSec = override.Browser.PageLoadTimeoutSec
	}
	if override.Browser.SettleDelaySec > 0 {
		base.Browser.SettleDelaySec = override.Browser.SettleDelaySec
	}
	if override.Browser.WindowWidth > 0 {
		base.Browser.WindowWidth = override.Browser.WindowWidth
	}
	if override.Browser.WindowHeight > 0 {
		base.Browser.WindowHeight = override.Browser.WindowHeight
	}
	if override.Browser.ExpandThresholdYears > 0 {
		base.Browser.ExpandThresholdYears = override.Browser.ExpandThresholdYears
	}

	if override.Download.TimeoutSec > 0 {
		base.Download.TimeoutSec = override.Download.TimeoutSec
	}
	if override.Download.PauseSec > 0 {
		base.Download.PauseSec = override.Download.PauseSec
	}
	if override.Download.OutputDir != "" {
		base.Download.OutputDir = override.Download.OutputDir
	}

	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Source: SourceConfig{
			BaseURL:          "https://www.screener.in",
			SearchTimeoutSec: 10,
		},
		Browser: BrowserConfig{
			PageLoadTimeoutSec:   60,
			SettleDelaySec:       3,
			WindowWidth:          1920,
			WindowHeight:         10000,
			ExpandThresholdYears: 5,
		},
		Download: DownloadConfig{
			TimeoutSec: 60,
			PauseSec:   1,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
