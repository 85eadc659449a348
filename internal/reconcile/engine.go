package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"

	"yaml-reconciler/internal/common"
	"yaml-reconciler/internal/diagnostic"
	"yaml-reconciler/internal/logging"
	"yaml-reconciler/internal/match"
	"yaml-reconciler/internal/schema"
	"yaml-reconciler/internal/valueparse"
	"yaml-reconciler/internal/yamlast"
)

// suggestionThreshold is the minimum similarity for a "did you mean" fix.
const suggestionThreshold = 0.7

var placeholderPattern = regexp.MustCompile(`(\$\{\S+\})|(@\S+@)`)

// TypeCollector is told which type every visited node was checked against.
type TypeCollector interface {
	BeginCollecting(file *yamlast.File)
	Accept(node yamlast.Node, t schema.Type)
	EndCollecting(file *yamlast.File)
}

// Engine reconciles files against a schema. An Engine is not safe for
// concurrent use; the schema it reads may be shared.
type Engine struct {
	problems      diagnostic.Collector
	schema        schema.Schema
	util          schema.TypeUtil
	typeCollector TypeCollector
	logger        *slog.Logger

	skipPlaceholders bool

	file    *yamlast.File
	delayed []func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithTypeCollector reports the inferred type of every visited node to c.
func WithTypeCollector(c TypeCollector) Option {
	return func(e *Engine) {
		e.typeCollector = c
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPlaceholderSkipping skips value checks of scalars containing ${...} or @...@ placeholders.
func WithPlaceholderSkipping() Option {
	return func(e *Engine) {
		e.skipPlaceholders = true
	}
}

// New creates an engine reporting to problems.
func New(problems diagnostic.Collector, s schema.Schema, opts ...Option) *Engine {
	e := &Engine{
		problems: problems,
		schema:   s,
		util:     s.TypeUtil(),
		logger:   logging.Discard(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Reconcile checks every document of file against the schema's top level type.
// Cancellation is checked before each document; a cancelled run drops its
// queued constraints and returns the context error.
func (e *Engine) Reconcile(ctx context.Context, file *yamlast.File) error {
	started := time.Now()

	e.file = file
	e.delayed = e.delayed[:0]

	if e.typeCollector != nil {
		e.typeCollector.BeginCollecting(file)
	}

	e.checkDocumentCount(file)

	for i, root := range file.Documents {
		if err := ctx.Err(); err != nil {
			e.delayed = e.delayed[:0]
			return err
		}

		e.visit(yamlast.Path{yamlast.IndexSegment(i)}, nil, root, e.schema.TopLevelType())
	}

	if e.typeCollector != nil {
		e.typeCollector.EndCollecting(file)
	}

	delayed := len(e.delayed)
	e.verifyDelayed()

	e.logger.Debug("reconciled file",
		slog.String("schema", e.schema.Name()),
		slog.Int("documents", len(file.Documents)),
		slog.Int("delayed_checks", delayed),
		slog.Duration("duration", time.Since(started)))

	return nil
}

// ReconcileValue checks a single node of file against t. Queued constraints are
// verified before it returns.
func (e *Engine) ReconcileValue(ctx context.Context, file *yamlast.File, path yamlast.Path, parent, node yamlast.Node, t schema.Type) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.file = file
	e.delayed = e.delayed[:0]

	e.visit(path, parent, node, t)
	e.verifyDelayed()

	return nil
}

func (e *Engine) verifyDelayed() {
	queue := e.delayed
	e.delayed = nil

	for _, run := range queue {
		run()
	}
}

func (e *Engine) checkDocumentCount(file *yamlast.File) {
	expected := e.schema.ExpectedDocuments()
	n := len(file.Documents)
	name := e.schema.Name()

	if expected.Contains(n) {
		return
	}

	switch {
	case n == 0:
		e.report(diagnostic.SchemaProblem, fmt.Sprintf("'%s' must have at least some Yaml content", name),
			0, len(file.Source))
	case expected.IsTooLarge(n):
		upper := expected.UpperBound()
		start, end := e.dashesAtStartOf(file.Documents[upper])
		e.report(diagnostic.SchemaProblem, fmt.Sprintf("'%s' should not have more than %d Yaml Documents", name, upper),
			start, end)
	case expected.IsTooSmall(n):
		e.report(diagnostic.SchemaProblem, fmt.Sprintf("'%s' should have at least %d Yaml Documents", name, expected.LowerBound()),
			len(file.Source), len(file.Source))
	}
}

// dashesAtStartOf locates the '---' separator before node, or node itself.
func (e *Engine) dashesAtStartOf(node yamlast.Node) (int, int) {
	span := node.Span()
	before := strings.TrimRight(e.file.Source[:span.Start], " \t\r\n")

	if strings.HasSuffix(before, "---") {
		return len(before) - 3, len(before)
	}

	return span.Start, span.End
}

func (e *Engine) visit(path yamlast.Path, parent, node yamlast.Node, t schema.Type) {
	if t == nil || node == nil || node.Kind() == yamlast.Anchor {
		return
	}

	dc := schema.NewASTContext(e.file, path, node)
	t = e.util.InferMoreSpecificType(t, dc)

	if e.typeCollector != nil {
		e.typeCollector.Accept(node, t)
	}

	e.checkConstraints(dc, parent, node, t)

	switch kindOf(node) {
	case yamlast.Mapping:
		e.visitMapping(path, parent, node.(*yamlast.MappingNode), t, dc)
	case yamlast.Sequence:
		seq := node.(*yamlast.SequenceNode)
		if !e.util.IsSequenceable(t) {
			e.expectTypeButFound(t, node, "Sequence")
			return
		}

		for i, item := range seq.Items {
			e.visit(path.Append(yamlast.IndexSegment(i)), seq, item, e.util.DomainType(t))
		}
	case yamlast.Scalar:
		if !e.util.IsAtomic(t) {
			e.expectTypeButFound(t, node, "Scalar")
			return
		}

		e.checkScalarValue(dc, node, t)
	}
}

func (e *Engine) checkConstraints(dc schema.DynamicContext, parent, node yamlast.Node, t schema.Type) {
	for _, c := range e.util.Constraints(t) {
		if c == nil {
			continue
		}

		e.delayed = append(e.delayed, func() {
			c.Verify(dc, parent, node, t, e.problems)
		})
	}
}

func (e *Engine) visitMapping(path yamlast.Path, parent yamlast.Node, m *yamlast.MappingNode, t schema.Type, dc schema.DynamicContext) {
	e.checkDuplicateKeys(m)

	switch {
	case e.util.IsMap(t):
		for _, entry := range m.Entries {
			key, _ := yamlast.AsScalar(entry.Key)
			e.visit(path.Append(yamlast.KeyNodeSegment(key)), m, entry.Key, e.util.KeyType(t))
			e.visit(path.Append(yamlast.KeySegment(key)), m, entry.Value, e.util.DomainType(t))
		}
	case e.util.IsBean(t):
		props := e.util.PropertiesMap(t)
		e.checkRequiredProperties(parent, m, t, props)

		for _, entry := range m.Entries {
			key, ok := yamlast.AsScalar(entry.Key)
			if !ok {
				e.reportAt(diagnostic.ExpectedScalar, "Expecting a 'Scalar' node but got "+DescribeNode(entry.Key), entry.Key)
				continue
			}

			prop, ok := props.Get(key)
			if !ok {
				e.unknownBeanProperty(entry.Key, t, key, props)
				continue
			}

			if prop.Deprecated {
				e.deprecatedProperty(entry.Key, t, prop)
			}

			e.visit(path.Append(yamlast.KeySegment(key)), m, entry.Value, prop.Type)
		}
	default:
		e.expectTypeButFound(t, m, "Map")
	}
}

func (e *Engine) checkDuplicateKeys(m *yamlast.MappingNode) {
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

	if len(duplicates) == 0 {
		return
	}

	for _, entry := range m.Entries {
		if key, ok := yamlast.AsScalar(entry.Key); ok {
			if _, dup := duplicates[key]; dup {
				e.reportAt(diagnostic.DuplicateKey, fmt.Sprintf("Duplicate key '%s'", key), entry.Key)
			}
		}
	}
}

// checkRequiredProperties only runs when every key is a known property, so
// that a misspelled required property is not reported twice.
func (e *Engine) checkRequiredProperties(parent yamlast.Node, m *yamlast.MappingNode, t schema.Type, props *schema.PropertyMap) {
	found := yamlast.ScalarKeys(m)
	for key := range found {
		if !props.Has(key) {
			return
		}
	}

	var missing []string

	for _, p := range props.All() {
		if _, ok := found[p.Name]; p.Required && !ok {
			missing = append(missing, p.Name)
		}
	}

	if len(missing) == 0 {
		return
	}

	slices.Sort(missing)

	var msg string
	if len(missing) == 1 {
		msg = fmt.Sprintf("Property '%s' is required for '%s'", missing[0], e.util.NiceTypeName(t))
	} else {
		msg = fmt.Sprintf("Properties [%s] are required for '%s'", strings.Join(missing, ", "), e.util.NiceTypeName(t))
	}

	start, end := schema.MissingPropertyRegion(parent, m)
	p := diagnostic.NewProblem(diagnostic.MissingProperty, msg, start, end)
	p.Metadata = missing
	e.problems.Accept(p)
}

func (e *Engine) unknownBeanProperty(keyNode yamlast.Node, t schema.Type, key string, props *schema.PropertyMap) {
	span := keyNode.Span()
	p := diagnostic.NewProblem(diagnostic.UnknownProperty,
		fmt.Sprintf("Unknown property '%s' for type '%s'", key, e.util.NiceTypeName(t)),
		span.Start, span.End)

	if suggestion, ok := match.Suggest(key, props.Names(), suggestionThreshold); ok {
		p = p.WithFix(fmt.Sprintf("Did you mean '%s'?", suggestion), suggestion)
	}

	e.problems.Accept(p)
}

func (e *Engine) deprecatedProperty(keyNode yamlast.Node, t schema.Type, prop *schema.Property) {
	msg := prop.DeprecationMessage
	if !common.HasText(msg) {
		msg = schema.DeprecatedPropertyMessage(prop.Name, e.util.NiceTypeName(t), prop.DeprecationReplacement, "")
	}

	span := keyNode.Span()
	p := diagnostic.NewProblem(diagnostic.DeprecatedProperty, msg, span.Start, span.End)
	p.Metadata = prop

	if r := prop.DeprecationReplacement; common.HasText(r) {
		p = p.WithFix(fmt.Sprintf("Replace with '%s'", r), r)
	}

	e.problems.Accept(p)
}

func (e *Engine) checkScalarValue(dc schema.DynamicContext, node yamlast.Node, t schema.Type) {
	value, ok := yamlast.AsScalar(node)
	if !ok {
		return
	}

	if e.skipPlaceholders && placeholderPattern.MatchString(value) {
		return
	}

	check := func() {
		parser := e.util.ValueParser(t, dc)
		if parser == nil {
			return
		}

		if _, err := parser.Parse(value); err != nil {
			e.valueParseError(t, node, err)
		}
	}

	if e.util.IsContextAwareParser(t) {
		e.delayed = append(e.delayed, check)
		return
	}

	check()
}

func (e *Engine) valueParseError(t schema.Type, node yamlast.Node, err error) {
	start, end := e.errorRegion(node, err)

	msg := valueparse.MessageOf(err)
	if !common.HasText(msg) {
		msg = fmt.Sprintf("Couldn't parse as '%s'", Describe(e.util, t))
	}

	pt := valueparse.ProblemTypeOf(err)
	if pt == diagnostic.SchemaProblem {
		pt = diagnostic.ValueParseError
	}

	p := diagnostic.NewProblem(pt, msg, start, end)
	if fix := valueparse.ReplacementOf(err); fix != nil {
		p.Fix = fix
	}

	e.problems.Accept(p)
}

// errorRegion maps a parse error onto the document. Offsets are relative to
// the scalar value; a highlight string is re-located inside the node text.
func (e *Engine) errorRegion(node yamlast.Node, err error) (int, int) {
	span := node.Span()

	pe, ok := valueparse.AsParseError(err)
	if !ok {
		return span.Start, span.End
	}

	if pe.Highlight != "" {
		r := valueparse.HighlightRegion(pe, valueparse.Region{Start: span.Start, End: span.End}, e.file.Text(span))
		return r.Start, r.End
	}

	start, end := span.Start, span.End
	if pe.Start >= 0 {
		start = min(span.Start+pe.Start, span.End)
	}

	if pe.End >= 0 {
		end = min(span.Start+pe.End, span.End)
	}

	return start, max(start, end)
}

func (e *Engine) expectTypeButFound(t schema.Type, node yamlast.Node, found string) {
	msg := fmt.Sprintf("Expecting a '%s' but found a '%s'", Describe(e.util, t), found)
	if v, ok := yamlast.AsScalar(node); ok {
		msg += fmt.Sprintf(" ('%s')", v)
	}

	e.reportAt(diagnostic.TypeMismatch, msg, node)
}

func (e *Engine) reportAt(pt diagnostic.ProblemType, msg string, node yamlast.Node) {
	span := node.Span()
	e.report(pt, msg, span.Start, span.End)
}

func (e *Engine) report(pt diagnostic.ProblemType, msg string, start, end int) {
	e.problems.Accept(diagnostic.NewProblem(pt, msg, start, end))
}
