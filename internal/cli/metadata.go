package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"yaml-reconciler/internal/appyaml"
	"yaml-reconciler/internal/diagnostic"
	"yaml-reconciler/internal/metadata"
	"yaml-reconciler/internal/properties"
	"yaml-reconciler/internal/yamlast"
)

func newMetadataCmd(a *app) *cobra.Command {
	var (
		metadataFiles []string
		dump          bool
	)

	cmd := &cobra.Command{
		Use:   "metadata --metadata <spring-configuration-metadata.json>... <file>...",
		Short: "Check application.yml and .properties files against Spring Boot metadata",
		Long: `Check Spring Boot application configuration against configuration metadata.
Files ending in .properties are read as properties files, everything else as YAML.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := metadata.LoadFiles(metadataFiles...)
			if err != nil {
				return err
			}

			a.logger.Debug("metadata loaded", slog.Int("properties", index.Len()))

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			resolver := metadata.NewTypeResolver()
			props := properties.NewReconciler(index,
				properties.WithLogger(a.logger), properties.WithTypeResolver(resolver))
			yml := appyaml.NewReconciler(index,
				appyaml.WithLogger(a.logger), appyaml.WithTypeResolver(resolver))

			var rep report

			for _, path := range args {
				source, err := readSource(path)
				if err != nil {
					return err
				}

				list, problems := newCollector()

				if strings.EqualFold(filepath.Ext(path), ".properties") {
					err = props.Reconcile(ctx, source, problems)
				} else {
					err = reconcileAppYAML(ctx, cmd, yml, source, dump, problems)
				}

				if err != nil {
					return fmt.Errorf("failed to reconcile %s: %w", path, err)
				}

				rep.add(path, source, list.Problems())
			}

			return rep.write(cmd.OutOrStdout(), a.cfg)
		},
	}

	cmd.Flags().StringSliceVarP(&metadataFiles, "metadata", "m", nil, "metadata JSON file (repeatable)")
	_ = cmd.MarkFlagRequired("metadata")
	cmd.Flags().BoolVar(&dump, "dump-ast", false, "print the parsed document tree to stderr")

	return cmd
}

func reconcileAppYAML(ctx context.Context, cmd *cobra.Command, r *appyaml.Reconciler, source string, dump bool, problems diagnostic.Collector) error {
	file, err := yamlast.ParseString(source)
	if err != nil {
		problems.Accept(diagnostic.NewProblem(diagnostic.SyntaxError, err.Error(), 0, 0))
		return nil
	}

	if dump {
		dumpAST(cmd.ErrOrStderr(), file.Documents)
	}

	return r.Reconcile(ctx, file, problems)
}
