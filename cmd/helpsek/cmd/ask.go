package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newAskCmd creates the ask command.
func newAskCmd() *cobra.Command {
	var k int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "ask \"question\"",
		Short: "Answer a single question from the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			app, err := newApp(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.service.Ask(cmd.Context(), args[0], k)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Answer)
			return nil
		},
	}

	cmd.Flags().IntVar(&k, "k", 0, "Number of documents to retrieve (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full result as JSON")
	return cmd
}
