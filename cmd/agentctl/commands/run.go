package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haidt/agent-engine/internal/pipeline"
	"github.com/haidt/agent-engine/internal/registry"
)

// newRunCommand reads input from stdin, runs the three-stage pipeline, and
// prints the final text
func newRunCommand(configFile *string) *cobra.Command {
	var agentSlug string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline on stdin input",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configFile)
			if err != nil {
				return err
			}
			defer a.cleanup()

			fmt.Fprintln(os.Stderr, "Paste input, then press Ctrl-D (EOF) to submit:")
			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			if strings.TrimSpace(string(input)) == "" {
				return fmt.Errorf("no input provided")
			}

			prompts := registry.TemplateFor(agentSlug).Prompts
			if agentSlug != "" {
				if agent, err := a.registry.Get(cmd.Context(), agentSlug); err == nil {
					prompts = agent.Prompts
				}
			}

			recordID, final, err := a.driver.Run(cmd.Context(), string(input), pipeline.Prompts{
				Plan:    prompts.Plan,
				Execute: prompts.Execute,
				Refine:  prompts.Refine,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), final)
			fmt.Fprintf(os.Stderr, "\n[record_id=%s]\n", recordID)
			return nil
		},
	}

	cmd.Flags().StringVar(&agentSlug, "agent", "", "Registered agent slug (defaults to the research template)")

	return cmd
}
