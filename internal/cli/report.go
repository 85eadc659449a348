package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"

	"yaml-reconciler/internal/config"
	"yaml-reconciler/internal/diagnostic"
)

// report collects the diagnostics of every checked file.
type report struct {
	diags diagnostic.Diagnostics
}

func (r *report) add(file, source string, problems []diagnostic.Problem) {
	r.diags.Merge(diagnostic.FromProblems(file, source, problems))
}

// write prints the diagnostics and returns ErrProblemsFound when the run fails.
func (r *report) write(w io.Writer, cfg *config.Config) error {
	r.diags.Sort()
	all := r.diags.All()

	switch cfg.Output.Format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if all == nil {
			all = []diagnostic.Diagnostic{}
		}

		if err := enc.Encode(all); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	default:
		for _, d := range all {
			fmt.Fprintf(w, "%s: %s\n", d.Severity, d)
		}
	}

	if r.diags.HasErrors() || (cfg.Reconcile.FailOnWarning && r.diags.HasWarnings()) {
		return fmt.Errorf("%w: %d", ErrProblemsFound, r.diags.Len())
	}

	return nil
}

// newCollector returns the list problems end up in and the collector that feeds
// it with exact duplicates removed.
func newCollector() (*diagnostic.ProblemList, diagnostic.Collector) {
	list := diagnostic.NewProblemList()
	return list, diagnostic.NewDedupCollector(list)
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return string(data), nil
}

func dumpAST(w io.Writer, v any) {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	cfg.Fdump(w, v)
}
