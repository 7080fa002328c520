package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "docqms",
		Short:         "Fix documentation compliance violations",
		Long:          "docqms fetches compliance snapshots from a documentation quality server, previews and applies automatic fixes per violation, and tracks the score over time.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("path", ".", "Project directory holding .docqms.yaml and local history")
	cmd.PersistentFlags().String("server", "", "Compliance server base URL (overrides config and "+envServerURL+")")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log requests and state transitions to stderr")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newFixCmd())
	cmd.AddCommand(newFixAllCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newJournalCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newDashboardCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
