// Package config loads the command line configuration through viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"yaml-reconciler/internal/logging"
)

// EnvPrefix prefixes environment overrides, e.g. YAMLRECON_LOG_LEVEL.
const EnvPrefix = "YAMLRECON"

// DefaultFile is read when no config file is given and it exists.
const DefaultFile = ".yaml-reconciler"

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds the complete configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Output    OutputConfig    `mapstructure:"output"`
	Reconcile ReconcileConfig `mapstructure:"reconcile"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig controls how problems are printed.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// ReconcileConfig holds reconciliation switches.
type ReconcileConfig struct {
	// SkipPlaceholders leaves "${...}" values unchecked.
	SkipPlaceholders bool `mapstructure:"skip_placeholders"`
	// FailOnWarning makes warnings count as failures for the exit status.
	FailOnWarning bool `mapstructure:"fail_on_warning"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatText)
	v.SetDefault("output.format", OutputText)
	v.SetDefault("reconcile.skip_placeholders", true)
	v.SetDefault("reconcile.fail_on_warning", false)
}

// Load reads the config file and environment into a new viper instance.
// An empty file looks for .yaml-reconciler.yaml in the working directory,
// which may be missing.
func Load(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(DefaultFile)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return v, nil
}

// New decodes and validates the configuration held by v.
func New(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	switch c.Log.Format {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("log.format must be %q or %q, got %q", logging.FormatText, logging.FormatJSON, c.Log.Format)
	}

	switch c.Output.Format {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("output.format must be %q or %q, got %q", OutputText, OutputJSON, c.Output.Format)
	}

	return nil
}
