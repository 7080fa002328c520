package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abdidvp/docqms/internal/adapters/outbound/tui"
	"github.com/abdidvp/docqms/internal/domain"
)

type statusJSON struct {
	*domain.ComplianceSnapshot
	Grade   string             `json:"grade"`
	Fixable []domain.Violation `json:"fixable"`
}

func newStatusCmd() *cobra.Command {
	var (
		jsonOut  bool
		badgeOut bool
		ciMode   bool
		minScore int
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Fetch and display the current compliance snapshot",
		Long:  "Fetch a fresh compliance snapshot from the server and show the score, grade, and violations, marking the ones an automatic fix exists for.",
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
			policy := rt.remediation.Policy()

			switch {
			case jsonOut:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				out := statusJSON{ComplianceSnapshot: snap, Grade: snap.Grade(), Fixable: snap.Fixable(policy)}
				if out.Fixable == nil {
					out.Fixable = []domain.Violation{}
				}
				if err := enc.Encode(out); err != nil {
					return err
				}
			case badgeOut:
				fmt.Fprintln(cmd.OutOrStdout(), badgeURL(snap.Rounded()))
			default:
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderSnapshot(snap, rt.remediation.States(), policy))
			}

			if !cmd.Flags().Changed("min") {
				minScore = rt.cfg.MinScore
			}
			if ciMode && snap.Score < float64(minScore) {
				return fmt.Errorf("score %s is below minimum %d", strconv.FormatFloat(snap.Score, 'f', -1, 64), minScore)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the snapshot as JSON")
	cmd.Flags().BoolVar(&badgeOut, "badge", false, "Output a shields.io badge URL")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "Exit non-zero when the score is below --min")
	cmd.Flags().IntVar(&minScore, "min", 0, "Minimum score for --ci (defaults to min_score from .docqms.yaml)")
	cmd.Flags().String("target", "", "Restrict validation to a server-side target")
	return cmd
}

func badgeURL(score int) string {
	return fmt.Sprintf("https://img.shields.io/badge/docqms-%d%%25-%s", score, domain.BadgeColor(score))
}
