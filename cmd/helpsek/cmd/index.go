package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/helpsek/helpsek/internal/corpus"
)

// newIndexCmd creates the index command.
func newIndexCmd() *cobra.Command {
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build or refresh the collection snapshots",
		Long: `Builds the formasi and faq indexes offline and persists them as
snapshots, so a later serve starts without embedding the corpus
again. With --rebuild, existing snapshots are removed first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			app, err := newApp(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer app.Close()

			if rebuild {
				for _, col := range []corpus.Collection{corpus.CollectionFormasi, corpus.CollectionFaq} {
					if err := app.manager.Invalidate(col); err != nil {
						return err
					}
					slog.Info("snapshot removed", "collection", col)
				}
			}

			if err := app.manager.WarmUp(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "indexes ready")
			return nil
		},
	}

	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Remove existing snapshots and rebuild from source")
	return cmd
}
