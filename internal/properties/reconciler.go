package properties

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"yaml-reconciler/internal/common"
	"yaml-reconciler/internal/diagnostic"
	"yaml-reconciler/internal/logging"
	"yaml-reconciler/internal/match"
	"yaml-reconciler/internal/metadata"
	"yaml-reconciler/internal/schema"
	"yaml-reconciler/internal/valueparse"
)

// Reconciler checks application.properties files against a metadata index.
type Reconciler struct {
	index    *metadata.Index
	resolver *metadata.TypeResolver
	util     schema.TypeUtil
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

// WithTypeResolver shares a type resolver, and so its type cache, between reconcilers.
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

	r.util = r.resolver.TypeUtil()

	return r
}

// Reconcile reports the problems of text to problems. Syntax errors are always
// reported; property checks are skipped when the index is empty, since every
// property would be unknown.
func (r *Reconciler) Reconcile(ctx context.Context, text string, problems diagnostic.Collector) error {
	started := time.Now()

	result := Parse(text)

	for _, se := range result.Errors {
		problems.Accept(diagnostic.NewProblem(diagnostic.SyntaxError, se.Message, se.Offset, se.Offset+se.Length))
	}

	if r.index.IsEmpty() {
		r.logger.Debug("empty property index, skipping property checks", "pairs", len(result.Pairs))
		return nil
	}

	duplicates := duplicateKeys(result.Pairs)

	for _, pair := range result.Pairs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, dup := duplicates[pair.Key.Text]; dup {
			problems.Accept(diagnostic.NewProblem(diagnostic.DuplicateKey,
				fmt.Sprintf("Duplicate property '%s'", pair.Key.Text), pair.Key.Offset, pair.Key.End()))
		}

		r.reconcilePair(text, pair, problems)
	}

	r.logger.Debug("reconciled properties",
		"pairs", len(result.Pairs),
		"syntax_errors", len(result.Errors),
		"duration", time.Since(started))

	return nil
}

func (r *Reconciler) reconcilePair(text string, pair KeyValuePair, problems diagnostic.Collector) {
	name, err := pair.Key.Decode()
	if err != nil {
		// reported as a syntax error
		return
	}

	prop := r.index.FindLongestValidProperty(name)
	if prop == nil {
		r.unknownProperty(pair.Key, name, problems)
		return
	}

	if prop.IsDeprecated() {
		p := diagnostic.NewProblem(prop.DeprecationProblemType(), prop.DeprecationMessage(), pair.Key.Offset, pair.Key.End())
		p.Metadata = prop

		if repl := prop.DeprecationReplacement(); common.HasText(repl) {
			p = p.WithFix(fmt.Sprintf("Replace with '%s'", repl), repl)
		}

		problems.Accept(p)
	}

	nav := &navigator{
		text:     text,
		start:    pair.Key.Offset,
		end:      pair.Key.End(),
		util:     r.util,
		plain:    r.resolver.Plain,
		problems: problems,
	}

	if t := nav.navigate(pair.Key.Offset+len(prop.ID), r.resolver.ResolveProperty(prop)); t != nil {
		r.reconcileValue(text, pair.Value, t, problems)
	}
}

func (r *Reconciler) unknownProperty(key Node, name string, problems diagnostic.Collector) {
	similar := r.index.FindLongestCommonPrefixEntry(key.Text)
	validPrefix := match.CommonPrefixLen(similar.ID, name)

	msg := fmt.Sprintf("'%s' is an unknown property.", key.Text)
	if wrong := len(key.Text) - validPrefix; wrong < validPrefix {
		msg += fmt.Sprintf(" Did you mean '%s'?", similar.ID)
	}

	p := diagnostic.NewProblem(diagnostic.UnknownProperty, msg, key.Offset+min(validPrefix, key.Length), key.End())
	p.Metadata = name
	problems.Accept(p)
}

func (r *Reconciler) reconcileValue(text string, value Node, t schema.Type, problems diagnostic.Collector) {
	parser := r.util.ValueParser(t, nil)
	if parser == nil {
		return
	}

	start, end := trimSpaces(text, value.Offset, value.End())
	escaped := text[start:end]

	decoded, err := Unescape(joinContinuations(escaped))
	if err != nil {
		return
	}

	// values using variable substitution can't be checked
	if strings.Contains(decoded, "${") {
		return
	}

	_, err = parser.Parse(decoded)
	if err == nil {
		return
	}

	pe, ok := valueparse.AsParseError(err)
	if !ok {
		problems.Accept(diagnostic.NewProblem(diagnostic.ValueParseError,
			fmt.Sprintf("Expecting '%s'", r.util.NiceTypeName(t)), start, end))

		return
	}

	region := valueparse.HighlightRegion(pe, valueparse.Region{Start: start, End: end}, escaped)

	pt := valueparse.ProblemTypeOf(err)
	if pt == diagnostic.SchemaProblem {
		pt = diagnostic.ValueParseError
	}

	p := diagnostic.NewProblem(pt, valueparse.MessageOf(err), region.Start, region.End)
	p.Fix = valueparse.ReplacementOf(err)
	problems.Accept(p)
}

// trimSpaces shrinks [start, end) past whitespace and escaped whitespace at both ends.
func trimSpaces(text string, start, end int) (int, int) {
	for start < end {
		if isSpace(text[start]) {
			start++
		} else if text[start] == '\\' && start+1 < end && isSpace(text[start+1]) {
			start += 2
		} else {
			break
		}
	}

	for end > start && isSpace(text[end-1]) {
		end--
		if end > start && text[end-1] == '\\' {
			end--
		}
	}

	return start, end
}

func isSpace(c byte) bool {
	return isBlank(c) || c == '\n' || c == '\r'
}

func duplicateKeys(pairs []KeyValuePair) map[string]struct{} {
	seen := make(map[string]struct{}, len(pairs))
	duplicates := make(map[string]struct{})

	for _, p := range pairs {
		if _, ok := seen[p.Key.Text]; ok {
			duplicates[p.Key.Text] = struct{}{}
		}

		seen[p.Key.Text] = struct{}{}
	}

	return duplicates
}
