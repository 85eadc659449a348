package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"yaml-reconciler/internal/config"
	"yaml-reconciler/internal/requestmapping"
)

type mappingView struct {
	Paths      []string `json:"paths"`
	Methods    []string `json:"methods"`
	Class      string   `json:"class,omitempty"`
	Method     string   `json:"method,omitempty"`
	Parameters []string `json:"parameters,omitempty"`
}

func newMappingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mappings <mappings.json>",
		Short: "List the request mappings of a Spring Boot actuator mappings dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			mappings, err := requestmapping.Parse(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			w := cmd.OutOrStdout()

			if a.cfg.Output.Format == config.OutputJSON {
				views := make([]mappingView, 0, len(mappings))
				for _, m := range mappings {
					views = append(views, mappingView{
						Paths:      m.Paths(),
						Methods:    m.RequestMethods(),
						Class:      m.FullyQualifiedClassName(),
						Method:     m.MethodName(),
						Parameters: m.MethodParameters(),
					})
				}

				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")

				return enc.Encode(views)
			}

			for _, m := range mappings {
				methods := "*"
				if verbs := m.RequestMethods(); len(verbs) > 0 {
					methods = strings.Join(verbs, ",")
				}

				line := fmt.Sprintf("%-8s %s", methods, strings.Join(m.Paths(), " "))
				if m.MethodName() != "" {
					line += fmt.Sprintf(" -> %s.%s(%s)",
						m.FullyQualifiedClassName(), m.MethodName(), strings.Join(m.MethodParameters(), ", "))
				}

				fmt.Fprintln(w, line)
			}

			return nil
		},
	}
}
