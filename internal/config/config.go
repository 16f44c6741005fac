// Package config loads epsaku settings from file, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

const appName = "epsaku"

var envKeyReplacer = strings.NewReplacer(".", "_")

// Config is the complete program configuration.
type Config struct {
	Viewer        string        `mapstructure:"viewer"`
	HistoryFile   string        `mapstructure:"history_file"`
	MaxImageWidth int           `mapstructure:"max_image_width"`
	TextWidth     int           `mapstructure:"text_width"`
	Log           LoggingConfig `mapstructure:"log"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Viewer:        defaultViewer(),
		HistoryFile:   defaultHistoryFile(),
		MaxImageWidth: 0,
		TextWidth:     80,
		Log: LoggingConfig{
			Level: "none",
		},
	}
}

// Load reads configuration. cfgFile may be empty, in which case
// ./epsaku.yaml and $XDG_CONFIG_HOME/epsaku/epsaku.yaml are tried; a missing
// file is not an error. Environment variables with the EPSAKU_ prefix
// override file values (EPSAKU_LOG_LEVEL for log.level).
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("viewer", defaults.Viewer)
	v.SetDefault("history_file", defaults.HistoryFile)
	v.SetDefault("max_image_width", defaults.MaxImageWidth)
	v.SetDefault("text_width", defaults.TextWidth)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)

	v.SetEnvPrefix("EPSAKU")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be used as given.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "none", "normal", "debug":
	default:
		return fmt.Errorf("invalid log level %q: must be none, normal or debug", c.Log.Level)
	}
	if c.TextWidth <= 0 {
		return fmt.Errorf("invalid text_width %d: must be positive", c.TextWidth)
	}
	if c.MaxImageWidth < 0 {
		return fmt.Errorf("invalid max_image_width %d: must not be negative", c.MaxImageWidth)
	}
	return nil
}

func defaultViewer() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	}
	return "xdg-open"
}

func defaultHistoryFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName+"-history.yaml")
	}
	return filepath.Join(dir, appName, "history.yaml")
}
