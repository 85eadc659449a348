// Command yaml-reconciler checks configuration documents against a schema and
// prints positioned problems.
//
// Usage:
//
//	yaml-reconciler check --schema schema.yaml config.yaml
//	yaml-reconciler struct ./internal/config.Config config.yaml
//	yaml-reconciler metadata -m spring-configuration-metadata.json application.yml
//	yaml-reconciler mappings mappings.json
package main

import (
	"errors"
	"fmt"
	"os"

	"yaml-reconciler/internal/cli"
)

func main() {
	if err := cli.Execute(os.Args[1:]); err != nil {
		if !errors.Is(err, cli.ErrProblemsFound) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}

		os.Exit(1)
	}
}
