package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alessandroavenali/fuel-logistics/internal/logistics/application/commands"
	"github.com/alessandroavenali/fuel-logistics/internal/logistics/wire"
)

var solveCmd = &cobra.Command{
	Use:   "solve [request-file]",
	Short: "Solve a planning request",
	Long: `Reads a request document from a file argument or stdin, builds and
solves the discrete-time model, and writes the resulting output document
to stdout as pretty-printed JSON.

Examples:
  fuelsched solve request.json
  cat request.json | fuelsched solve`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.SolveRunHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

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
			return fmt.Errorf("invalid request: %w", err)
		}

		ctx := cmd.Context()
		result, err := app.SolveRunHandler.Handle(ctx, commands.SolveRunCommand{Request: req})
		if err != nil {
			return fmt.Errorf("solve failed: %w", err)
		}

		var out wire.SolutionDocument
		if result.Solution != nil {
			out = wire.FromSolution(*result.Solution)
		} else {
			out = wire.SolutionDocument{Status: string(result.Status)}
		}

		encoded, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode output document: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
		return nil
	},
}

// readRequestInput reads the request document from the file argument, if
// given, otherwise from stdin.
func readRequestInput(args []string) ([]byte, error) {
	if len(args) == 1 {
		body, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read request file: %w", err)
		}
		return body, nil
	}

	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read request from stdin: %w", err)
	}
	return body, nil
}

func init() {
	rootCmd.AddCommand(solveCmd)
}
