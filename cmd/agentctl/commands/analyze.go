package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haidt/agent-engine/internal/metrics"
	"github.com/haidt/agent-engine/internal/pipeline"
	"github.com/haidt/agent-engine/internal/store"
)

// newAnalyzeCommand prints the text metrics of a persisted pipeline record
func newAnalyzeCommand(configFile *string) *cobra.Command {
	var recordID string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print metrics for a completed pipeline record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if recordID == "" {
				return fmt.Errorf("--record-id is required")
			}

			a, err := loadApp(*configFile)
			if err != nil {
				return err
			}
			defer a.cleanup()

			record, err := pipeline.GetRecord(cmd.Context(), a.store, recordID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("record not found: %s", recordID)
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), metrics.Report(record.Metrics))
			return nil
		},
	}

	cmd.Flags().StringVar(&recordID, "record-id", "", "Pipeline record id to analyze")

	return cmd
}
