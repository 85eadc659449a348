// Package cli implements the yaml-reconciler command line.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"yaml-reconciler/internal/config"
	"yaml-reconciler/internal/logging"
)

// ErrProblemsFound is returned when a checked file has problems that fail the run.
var ErrProblemsFound = errors.New("problems found")

// app carries the state shared by all commands of one invocation.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "yaml-reconciler",
		Short: "Check YAML and .properties configuration files against a schema",
		Long: `yaml-reconciler validates configuration documents and reports positioned
problems: unknown or deprecated properties, type mismatches, values that do
not parse and constraint violations.

Schemas come from YAML schema definitions, Go struct types or Spring Boot
configuration metadata JSON.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./.yaml-reconciler.yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")
	flags.StringP("output", "o", "", "problem output format (text, json)")

	root.AddCommand(
		newCheckCmd(a),
		newStructCmd(a),
		newMetadataCmd(a),
		newMappingsCmd(a),
	)

	return root
}

// Execute runs the root command with the given arguments.
func Execute(args []string) error {
	root := NewRootCommand()
	root.SetArgs(args)

	return root.Execute()
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	v, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	for key, flag := range map[string]string{
		"log.level":     "log-level",
		"log.format":    "log-format",
		"output.format": "output",
	} {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	cfg, err := config.New(v)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	a.cfg, a.logger = cfg, logger

	logger.Debug("configuration loaded",
		slog.String("file", v.ConfigFileUsed()),
		slog.String("output", cfg.Output.Format))

	return nil
}
