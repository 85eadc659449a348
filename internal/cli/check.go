package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"yaml-reconciler/internal/diagnostic"
	"yaml-reconciler/internal/reconcile"
	"yaml-reconciler/internal/schema"
	"yaml-reconciler/internal/schemadef"
	"yaml-reconciler/internal/typeschema"
	"yaml-reconciler/internal/yamlast"
)

type schemaFlags struct {
	dumpAST bool
}

func (f *schemaFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.dumpAST, "dump-ast", false, "print the parsed document tree to stderr")
}

func newCheckCmd(a *app) *cobra.Command {
	var (
		flags      schemaFlags
		schemaFile string
	)

	cmd := &cobra.Command{
		Use:   "check --schema <definition.yaml> <file>...",
		Short: "Check YAML files against a YAML schema definition",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schemadef.LoadFile(schemaFile)
			if err != nil {
				return err
			}

			return a.checkYAML(cmd, s, flags, args)
		},
	}

	cmd.Flags().StringVarP(&schemaFile, "schema", "s", "", "schema definition file")
	_ = cmd.MarkFlagRequired("schema")
	flags.register(cmd)

	return cmd
}

func newStructCmd(a *app) *cobra.Command {
	var (
		flags schemaFlags
		dir   string
	)

	cmd := &cobra.Command{
		Use:   "struct <package>.<Type> <file>...",
		Short: "Check YAML files against a Go struct type",
		Long: `Check YAML files against a Go struct type. The type is named by its package
pattern and type name, for example ./internal/config.Config.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, typeName, err := splitTypeRef(args[0])
			if err != nil {
				return err
			}

			loader := typeschema.NewLoader()
			loader.Dir = dir

			if err := loader.Load(pkg); err != nil {
				return err
			}

			s, err := loader.Schema(strings.TrimPrefix(filepath.ToSlash(pkg), "./"), typeName)
			if err != nil {
				return err
			}

			return a.checkYAML(cmd, s, flags, args[1:])
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory the package pattern is resolved in")
	flags.register(cmd)

	return cmd
}

// splitTypeRef splits "pkg/path.Type" at the last dot.
func splitTypeRef(ref string) (string, string, error) {
	i := strings.LastIndexByte(ref, '.')
	if i <= 0 || i == len(ref)-1 || strings.ContainsRune(ref[i:], '/') {
		return "", "", fmt.Errorf("expected <package>.<Type>, got %q", ref)
	}

	return ref[:i], ref[i+1:], nil
}

func (a *app) checkYAML(cmd *cobra.Command, s schema.Schema, flags schemaFlags, files []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var rep report

	for _, path := range files {
		problems, source, err := a.reconcileYAML(ctx, cmd, s, flags, path)
		if err != nil {
			return err
		}

		rep.add(path, source, problems)
	}

	return rep.write(cmd.OutOrStdout(), a.cfg)
}

func (a *app) reconcileYAML(ctx context.Context, cmd *cobra.Command, s schema.Schema, flags schemaFlags, path string) ([]diagnostic.Problem, string, error) {
	source, err := readSource(path)
	if err != nil {
		return nil, "", err
	}

	file, err := yamlast.ParseString(source)
	if err != nil {
		problems := []diagnostic.Problem{
			diagnostic.NewProblem(diagnostic.SyntaxError, err.Error(), 0, 0),
		}

		return problems, source, nil
	}

	if flags.dumpAST {
		dumpAST(cmd.ErrOrStderr(), file.Documents)
	}

	list, problems := newCollector()
	opts := []reconcile.Option{reconcile.WithLogger(a.logger)}

	if a.cfg.Reconcile.SkipPlaceholders {
		opts = append(opts, reconcile.WithPlaceholderSkipping())
	}

	engine := reconcile.New(problems, s, opts...)
	if err := engine.Reconcile(ctx, file); err != nil {
		return nil, "", fmt.Errorf("failed to reconcile %s: %w", path, err)
	}

	a.logger.Debug("checked file", slog.String("file", path), slog.Int("problems", list.Len()))

	return list.Problems(), source, nil
}
