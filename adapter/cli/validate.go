package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alessandroavenali/fuel-logistics/internal/logistics/wire"
)

var validateCmd = &cobra.Command{
	Use:   "validate [request-file]",
	Short: "Validate a request document without solving it",
	Long: `Reads a request document from a file argument or stdin and checks it
against the structural rules in spec.md §7 kind 1 (missing days, negative
driver counts, an inconsistent time grid) without running the solver.

Examples:
  fuelsched validate request.json
  cat request.json | fuelsched validate`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readRequestInput(args)
		if err != nil {
			return err
		}

		var doc wire.RequestDocument
		if err := json.Unmarshal(body, &doc); err != nil {
			return fmt.Errorf("invalid request document: %w", err)
		}

		req := doc.ToRequest()
		if err := req.Validate(); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "invalid: %s\n", err)
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
