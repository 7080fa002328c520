package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/docqms/internal/adapters/outbound/tui"
	"github.com/abdidvp/docqms/internal/domain"
)

func newFixAllCmd() *cobra.Command {
	var (
		concurrency int
		listOnly    bool
	)

	cmd := &cobra.Command{
		Use:   "fix-all",
		Short: "Apply every available automatic fix",
		Long:  "Apply the automatic fix for every fixable violation in the current snapshot. A failed fix does not stop the others; the snapshot is refreshed once at the end.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			snap, err := rt.refresh(cmd)
			if err != nil {
				return err
			}
			fixable := snap.Fixable(rt.remediation.Policy())
			out := cmd.OutOrStdout()

			if listOnly {
				for _, v := range fixable {
					fmt.Fprintf(out, "%s\t%s\n", v.File, v.RuleID)
				}
				return nil
			}

			if !cmd.Flags().Changed("concurrency") {
				concurrency = rt.cfg.Concurrency
			}
			report := rt.remediation.ApplyAll(cmd.Context(), fixable, concurrency)
			fmt.Fprint(out, tui.RenderBatch(report))

			if after := rt.snapshots.Current(); after != nil && report.RefreshErr == nil {
				fmt.Fprintf(out, "\n  Score: %d%% → %d%% (%s)\n", snap.Rounded(), after.Rounded(), after.Grade())
			}
			if failed := report.Count(domain.OutcomeFailed); failed > 0 {
				return fmt.Errorf("%d of %d fixes failed", failed, len(report.Items))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", domain.DefaultConcurrency, "Maximum fix requests in flight")
	cmd.Flags().BoolVar(&listOnly, "list", false, "List fixable violations without applying")
	return cmd
}
