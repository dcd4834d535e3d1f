package cli

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alessandroavenali/fuel-logistics/internal/logistics/application/queries"
	"github.com/alessandroavenali/fuel-logistics/internal/logistics/wire"
)

var showCmd = &cobra.Command{
	Use:     "show [run-id]",
	Short:   "Show a persisted run",
	Aliases: []string{"get"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.GetRunHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		runID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid run ID: %w", err)
		}

		ctx := cmd.Context()
		run, err := app.GetRunHandler.Handle(ctx, queries.GetRunQuery{RunID: runID})
		if err != nil {
			return fmt.Errorf("failed to get run: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Run:      %s\n", run.ID())
		fmt.Fprintf(cmd.OutOrStdout(), "  Status:   %s\n", run.Status)
		fmt.Fprintf(cmd.OutOrStdout(), "  Started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
		if run.EndedAt != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "  Ended:    %s\n", run.EndedAt.Format("2006-01-02 15:04:05"))
		}
		if run.Error != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "  Error:    %s\n", run.Error)
		}
		if run.Solution != nil {
			doc := wire.FromSolution(*run.Solution)
			encoded, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode solution: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  Solution:\n%s\n", string(encoded))
		}

		return nil
	},
}

var listRunsCmd = &cobra.Command{
	Use:     "list",
	Short:   "List persisted runs",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ListRunsHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		ctx := cmd.Context()
		runs, err := app.ListRunsHandler.Handle(ctx, queries.ListRunsQuery{Limit: limit, Offset: offset})
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		for _, run := range runs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s  %s\n", run.ID(), run.Status, run.StartedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	listRunsCmd.Flags().Int("limit", 50, "maximum number of runs to return")
	listRunsCmd.Flags().Int("offset", 0, "number of runs to skip")
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listRunsCmd)
}
