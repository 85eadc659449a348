package appyaml

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"yaml-reconciler/internal/common"
	"yaml-reconciler/internal/diagnostic"
	"yaml-reconciler/internal/logging"
	"yaml-reconciler/internal/match"
	"yaml-reconciler/internal/metadata"
	"yaml-reconciler/internal/reconcile"
	"yaml-reconciler/internal/schema"
	"yaml-reconciler/internal/yamlast"
)

// profilesPrefix may be assigned a scalar although it has sub properties.
const profilesPrefix = "spring.profiles"

// mergeKey is the YAML merge key ("<<: *defaults").
const mergeKey = "<<"

// Reconciler checks application.yml files. It is not safe for concurrent use.
type Reconciler struct {
	index    *metadata.Index
	resolver *metadata.TypeResolver
	logger   *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTypeResolver shares a type resolver between reconcilers.
func WithTypeResolver(tr *metadata.TypeResolver) Option {
	return func(r *Reconciler) {
		if tr != nil {
			r.resolver = tr
		}
	}
}

// NewReconciler creates a reconciler for the given index.
func NewReconciler(index *metadata.Index, opts ...Option) *Reconciler {
	r := &Reconciler{
		index:    index,
		resolver: metadata.NewTypeResolver(),
		logger:   logging.Discard(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Reconcile reports the problems of file to problems. Nothing is checked when
// the index is empty.
func (r *Reconciler) Reconcile(ctx context.Context, file *yamlast.File, problems diagnostic.Collector) error {
	if r.index.IsEmpty() {
		r.logger.Debug("empty property index, skipping application yaml checks")
		return nil
	}

	started := time.Now()
	util := r.resolver.TypeUtil()

	w := &walker{
		ctx:      ctx,
		file:     file,
		index:    r.index,
		resolver: r.resolver,
		problems: problems,
		engine: reconcile.New(problems,
			schema.NewBasicSchema("application.yml", nil, util),
			reconcile.WithPlaceholderSkipping(),
			reconcile.WithLogger(r.logger)),
	}

	for i, doc := range file.Documents {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := w.node(yamlast.Path{yamlast.IndexSegment(i)}, doc, r.index.Navigate("")); err != nil {
			return err
		}
	}

	r.logger.Debug("reconciled application yaml",
		slog.Int("documents", len(file.Documents)),
		slog.Int("values", w.values),
		slog.Duration("duration", time.Since(started)))

	return nil
}

type walker struct {
	ctx      context.Context
	file     *yamlast.File
	index    *metadata.Index
	resolver *metadata.TypeResolver
	problems diagnostic.Collector
	engine   *reconcile.Engine

	values int
}

// node checks a node reached through the property prefix of nav.
func (w *walker) node(path yamlast.Path, n yamlast.Node, nav *metadata.Navigator) error {
	switch n := n.(type) {
	case *yamlast.MappingNode:
		w.checkDuplicateKeys(n)

		for _, entry := range n.Entries {
			if err := w.entry(path, n, entry, nav); err != nil {
				return err
			}
		}
	case *yamlast.AnchorNode:
		// aliases are checked where the anchor is defined
	case *yamlast.ScalarNode:
		if nav.Prefix() != profilesPrefix {
			w.expectMapping(n)
		}
	default:
		w.expectMapping(n)
	}

	return nil
}

func (w *walker) entry(path yamlast.Path, parent *yamlast.MappingNode, entry yamlast.Entry, nav *metadata.Navigator) error {
	key, ok := yamlast.AsScalar(entry.Key)
	if !ok {
		w.report(diagnostic.ExpectedScalar, "Expecting a 'Scalar' node but got "+reconcile.DescribeNode(entry.Key), entry.Key)
		return nil
	}

	var (
		sub       *metadata.Navigator
		exact     *metadata.PropertyInfo
		extension *metadata.PropertyInfo
	)

	// the first relaxed spelling of the key that leads somewhere wins
	for _, alias := range match.KeyAliases(key) {
		candidate := nav.SelectSubProperty(alias)
		if sub == nil {
			sub = candidate
		}

		exact, extension = candidate.ExactMatch(), candidate.ExtensionCandidate()
		if exact != nil || extension != nil {
			sub = candidate
			break
		}
	}

	valuePath := path.Append(yamlast.KeySegment(key))

	switch {
	case exact != nil && extension != nil:
		// a property that is also the prefix of others is ambiguous
		return nil
	case exact != nil:
		if exact.IsDeprecated() {
			w.deprecated(entry.Key, exact)
		}

		w.values++

		return w.engine.ReconcileValue(w.ctx, w.file, valuePath, parent, entry.Value, w.resolver.ResolveProperty(exact))
	case extension != nil:
		return w.node(valuePath, entry.Value, sub)
	default:
		if key == mergeKey || (entry.Value != nil && entry.Value.Kind() == yamlast.Anchor) {
			return nil
		}

		p := w.problem(diagnostic.UnknownProperty, fmt.Sprintf("Unknown property '%s'", sub.Prefix()), entry.Key)
		p.Metadata = unknownProperties(match.CamelCaseToHyphens(sub.Prefix()), entry.Value, nil)
		w.problems.Accept(p)
	}

	return nil
}

func (w *walker) deprecated(key yamlast.Node, prop *metadata.PropertyInfo) {
	p := w.problem(prop.DeprecationProblemType(), prop.DeprecationMessage(), key)
	p.Metadata = prop

	if repl := prop.DeprecationReplacement(); common.HasText(repl) {
		p = p.WithFix(fmt.Sprintf("Replace with '%s'", repl), repl)
	}

	w.problems.Accept(p)
}

func (w *walker) checkDuplicateKeys(m *yamlast.MappingNode) {
	seen := make(map[string]struct{}, len(m.Entries))
	duplicates := make(map[string]struct{})

	for _, entry := range m.Entries {
		if key, ok := yamlast.AsScalar(entry.Key); ok {
			if _, dup := seen[key]; dup {
				duplicates[key] = struct{}{}
			}

			seen[key] = struct{}{}
		}
	}

	for _, entry := range m.Entries {
		if key, ok := yamlast.AsScalar(entry.Key); ok {
			if _, dup := duplicates[key]; dup {
				w.report(diagnostic.DuplicateKey, fmt.Sprintf("Duplicate key '%s'", key), entry.Key)
			}
		}
	}
}

func (w *walker) expectMapping(n yamlast.Node) {
	w.report(diagnostic.TypeMismatch, "Expecting a 'Mapping' node but got "+reconcile.DescribeNode(n), n)
}

func (w *walker) problem(t diagnostic.ProblemType, msg string, n yamlast.Node) diagnostic.Problem {
	span := n.Span()
	return diagnostic.NewProblem(t, msg, span.Start, span.End)
}

func (w *walker) report(t diagnostic.ProblemType, msg string, n yamlast.Node) {
	w.problems.Accept(w.problem(t, msg, n))
}

// unknownProperties lists the full names of the leaf properties written below
// an unknown prefix, the properties that would need metadata.
func unknownProperties(name string, value yamlast.Node, acc []string) []string {
	m := yamlast.AsMapping(value)
	if m == nil {
		return append(acc, name)
	}

	for _, entry := range m.Entries {
		if key, ok := yamlast.AsScalar(entry.Key); ok {
			acc = unknownProperties(name+"."+match.CamelCaseToHyphens(key), entry.Value, acc)
		}
	}

	return acc
}
