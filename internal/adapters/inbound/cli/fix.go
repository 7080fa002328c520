package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdidvp/docqms/internal/adapters/outbound/tui"
	"github.com/abdidvp/docqms/internal/domain"
)

func newFixCmd() *cobra.Command {
	var (
		dryRun  bool
		preview bool
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "fix <file> <rule_id>",
		Short: "Fix one violation",
		Long: `Apply the server's automatic fix for one violation of the current snapshot.

By default the fix is applied directly. --dry-run only shows the diff the fix
would produce. --preview shows the diff and asks before applying it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			snap, err := rt.refresh(cmd)
			if err != nil {
				return err
			}
			v, ok := snap.Find(args[0], args[1])
			if !ok {
				return fmt.Errorf("no %s violation for %s in the current snapshot", args[1], args[0])
			}
			out := cmd.OutOrStdout()

			if dryRun || preview {
				st, err := rt.remediation.RequestPreview(cmd.Context(), v)
				if err != nil {
					return fmt.Errorf("preview failed: %w", err)
				}
				fmt.Fprint(out, tui.RenderPreview(st))
				if dryRun {
					// Leave the key idle so a later run starts clean.
					return rt.remediation.Cancel(v)
				}
				if !yes && !confirm(cmd.InOrStdin(), out, "Apply this fix? [y/N] ") {
					if err := rt.remediation.Cancel(v); err != nil {
						return err
					}
					fmt.Fprint(out, tui.RenderHint("Preview discarded."))
					return nil
				}
				res, err := rt.remediation.Confirm(cmd.Context(), v)
				return reportFix(cmd, rt, v, res, err)
			}

			res, err := rt.remediation.RequestApply(cmd.Context(), v)
			return reportFix(cmd, rt, v, res, err)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the diff without applying")
	cmd.Flags().BoolVar(&preview, "preview", false, "Show the diff and confirm before applying")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Apply after --preview without prompting")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "preview")
	return cmd
}

// reportFix prints the outcome of an apply. A refresh failure after a
// successful fix is a warning, not a command failure.
func reportFix(cmd *cobra.Command, rt *runtime, v domain.Violation, res *domain.FixResult, err error) error {
	if res == nil || !res.Success {
		return fmt.Errorf("fix failed: %w", err)
	}
	out := cmd.OutOrStdout()
	msg := res.Message
	if msg == "" {
		msg = "fix applied"
	}
	fmt.Fprintf(out, "  ✓ %s  %s  %s\n", v.File, v.RuleID, msg)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		return nil
	}
	if snap := rt.snapshots.Current(); snap != nil {
		fmt.Fprintf(out, "  Score: %d%% (%s)\n", snap.Rounded(), snap.Grade())
	}
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
