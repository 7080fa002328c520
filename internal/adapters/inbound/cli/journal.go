package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/docqms/internal/adapters/outbound/journal"
	"github.com/abdidvp/docqms/internal/adapters/outbound/tui"
)

func newJournalCmd() *cobra.Command {
	var (
		jsonOut  bool
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show fixes applied from this project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := projectPath(cmd)
			if err != nil {
				return err
			}
			store := journal.New()
			if clearAll {
				if err := store.Clear(absPath); err != nil {
					return fmt.Errorf("clearing journal: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Journal cleared.")
				return nil
			}

			entries, err := store.Load(absPath)
			if err != nil {
				return fmt.Errorf("loading journal: %w", err)
			}
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderJournal(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete all journal entries")
	return cmd
}
