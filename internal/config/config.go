// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Timing  TimingConfig  `mapstructure:"timing" yaml:"timing"`
	Docs    DocsConfig    `mapstructure:"docs" yaml:"docs"`
}

// LoggerConfig controls the zap logger and optional rotating file sink.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // "console" or "json"
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig controls the Chrome process the session manager launches.
type BrowserConfig struct {
	Headless bool   `mapstructure:"headless" yaml:"headless"`
	ExecPath string `mapstructure:"exec_path" yaml:"exec_path"`
	// UserDataDir points at a persistent Chrome profile. Google Docs requires
	// an authenticated profile; credential handling itself is out of scope.
	UserDataDir    string   `mapstructure:"user_data_dir" yaml:"user_data_dir"`
	Args           []string `mapstructure:"args" yaml:"args"`
	ViewportWidth  int      `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight int      `mapstructure:"viewport_height" yaml:"viewport_height"`
}

// TimingConfig bounds every wait the orchestrator performs.
type TimingConfig struct {
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	ElementTimeout    time.Duration `mapstructure:"element_timeout" yaml:"element_timeout"`
	// SettleDelay is the fixed pause after state-changing UI actions. The
	// remote editor's state propagation is not externally observable, so this
	// stands in for a completion signal.
	SettleDelay  time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
	PostLoadWait time.Duration `mapstructure:"post_load_wait" yaml:"post_load_wait"`
	LaunchProbe  time.Duration `mapstructure:"launch_probe" yaml:"launch_probe"`
	// TypeRate caps simulated typing in characters per second.
	TypeRate int `mapstructure:"type_rate" yaml:"type_rate"`
}

// DocsConfig describes the remote editor deployment and its drift-prone
// frame-matching fragments.
type DocsConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// FrameNameFragment matches the nested editing context by target name.
	FrameNameFragment string `mapstructure:"frame_name_fragment" yaml:"frame_name_fragment"`
	// FrameURLFragment matches the nested editing context by target URL.
	FrameURLFragment string `mapstructure:"frame_url_fragment" yaml:"frame_url_fragment"`
	DefaultListLimit int    `mapstructure:"default_list_limit" yaml:"default_list_limit"`
}

// SetDefaults registers every configuration default on the given viper
// instance. Called before reading any config file or environment.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "docpilot")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.user_data_dir", "~/.docpilot/chrome-profile")
	v.SetDefault("browser.viewport_width", 1440)
	v.SetDefault("browser.viewport_height", 900)

	v.SetDefault("timing.navigation_timeout", 45*time.Second)
	v.SetDefault("timing.element_timeout", 10*time.Second)
	v.SetDefault("timing.settle_delay", 750*time.Millisecond)
	v.SetDefault("timing.post_load_wait", 1500*time.Millisecond)
	v.SetDefault("timing.launch_probe", 30*time.Second)
	v.SetDefault("timing.type_rate", 40)

	v.SetDefault("docs.base_url", "https://docs.google.com")
	v.SetDefault("docs.frame_name_fragment", "texteventtarget")
	v.SetDefault("docs.frame_url_fragment", "docs.google.com/document")
	v.SetDefault("docs.default_list_limit", 25)
}

// NewFromViper unmarshals, normalizes and validates the configuration.
func NewFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The profile dir is commonly given as "~/...". Resolve it up front so
	// the browser manager never has to care.
	if cfg.Browser.UserDataDir != "" {
		expanded, err := homedir.Expand(cfg.Browser.UserDataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to expand user_data_dir: %w", err)
		}
		cfg.Browser.UserDataDir = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the orchestrator cannot run with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logger.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logger.format must be \"console\" or \"json\", got %q", c.Logger.Format)
	}
	if c.Timing.NavigationTimeout <= 0 {
		return fmt.Errorf("timing.navigation_timeout must be positive")
	}
	if c.Timing.ElementTimeout <= 0 {
		return fmt.Errorf("timing.element_timeout must be positive")
	}
	if c.Timing.TypeRate <= 0 {
		return fmt.Errorf("timing.type_rate must be positive")
	}
	if !strings.HasPrefix(c.Docs.BaseURL, "http://") && !strings.HasPrefix(c.Docs.BaseURL, "https://") {
		return fmt.Errorf("docs.base_url must be an absolute URL, got %q", c.Docs.BaseURL)
	}
	if c.Docs.FrameNameFragment == "" && c.Docs.FrameURLFragment == "" {
		return fmt.Errorf("at least one of docs.frame_name_fragment or docs.frame_url_fragment is required")
	}
	if c.Browser.ViewportWidth <= 0 || c.Browser.ViewportHeight <= 0 {
		return fmt.Errorf("browser viewport dimensions must be positive")
	}
	return nil
}
