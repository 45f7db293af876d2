package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haidt/agent-engine/internal/registry"
)

// newAgentsCommand manages the agent registry
func newAgentsCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Manage the agent registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newAgentsListCommand(configFile))
	cmd.AddCommand(newAgentsCreateCommand(configFile))
	cmd.AddCommand(newAgentsDeleteCommand(configFile))

	return cmd
}

func newAgentsListCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered agents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configFile)
			if err != nil {
				return err
			}
			defer a.cleanup()

			agents := a.registry.List(cmd.Context())
			if len(agents) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No agents registered.")
				return nil
			}
			for _, agent := range agents {
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %s\n", agent.Slug, agent.Description)
			}
			return nil
		},
	}
}

func newAgentsCreateCommand(configFile *string) *cobra.Command {
	var (
		agentType   string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an agent from a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configFile)
			if err != nil {
				return err
			}
			defer a.cleanup()

			tpl := registry.TemplateFor(agentType)
			agent := registry.Agent{
				Name:         args[0],
				Description:  tpl.Description,
				Prompts:      tpl.Prompts,
				Capabilities: tpl.Capabilities,
			}
			if description != "" {
				agent.Description = description
			}

			created, err := a.registry.Upsert(cmd.Context(), agent)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created agent %s (slug: %s)\n", created.Name, created.Slug)
			return nil
		},
	}

	cmd.Flags().StringVar(&agentType, "type", "research", "Template type: research, code_generator, data_analyst")
	cmd.Flags().StringVar(&description, "description", "", "Override the template description")

	return cmd
}

func newAgentsDeleteCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete an agent by slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configFile)
			if err != nil {
				return err
			}
			defer a.cleanup()

			if err := a.registry.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted agent %s\n", args[0])
			return nil
		},
	}
}
