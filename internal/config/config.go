// Package config loads the settings of the libman command.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goplus/libman/internal/env"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. LIBMAN_LOG_LEVEL.
	EnvPrefix = "LIBMAN"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
)

// Config holds the command settings.
type Config struct {
	LogLevel string `mapstructure:"log_level"`
	Output   string `mapstructure:"output"`
	Session  string `mapstructure:"session"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Output:   ".",
		Session:  ".libman-session.json",
	}
}

// LoadOptions controls where Load looks for a config file.
type LoadOptions struct {
	// ConfigFile is used exclusively when set and must exist.
	ConfigFile string
	// ConfigDir overrides the per-user config directory.
	ConfigDir string
}

// Load reads the config file, if any, and applies LIBMAN_* environment
// overrides on top of the defaults. It returns the path of the file read,
// or "" when none was found.
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("session", defaults.Session)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolved := ""
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("failed to read config %s: %w", opts.ConfigFile, err)
		}
		resolved = opts.ConfigFile
	} else {
		dir := opts.ConfigDir
		if dir == "" {
			var err error
			if dir, err = env.ConfigDir(); err != nil {
				return nil, "", err
			}
		}
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, "", fmt.Errorf("failed to read config in %s: %w", dir, err)
			}
		} else {
			resolved = v.ConfigFileUsed()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, resolved, nil
}
