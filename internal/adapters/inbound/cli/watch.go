package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abdidvp/docqms/internal/adapters/outbound/watch"
	"github.com/abdidvp/docqms/internal/domain"
)

func newWatchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Revalidate whenever documentation changes",
		Long:  "Watch a documentation tree and fetch a fresh compliance snapshot after each batch of markdown changes, printing the score delta.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			dir := rt.projectPath
			if len(args) > 0 {
				if dir, err = filepath.Abs(args[0]); err != nil {
					return fmt.Errorf("resolving path: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			snap, err := rt.refresh(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Watching %s  score %d%% (%s)\n", dir, snap.Rounded(), snap.Grade())

			w, err := watch.New(debounce, rt.logger.Named("watch"))
			if err != nil {
				return err
			}
			if err := w.Add(dir); err != nil {
				return err
			}

			err = w.Run(cmd.Context(), func(paths []string) {
				prev := rt.snapshots.Current()
				next, err := rt.snapshots.Refresh(cmd.Context())
				if err != nil {
					rt.logger.Warn("refresh after change failed", zap.Error(err))
					fmt.Fprintf(cmd.ErrOrStderr(), "refresh failed: %s\n", domain.Reason(err))
					return
				}
				fmt.Fprintln(out, scoreDelta(len(paths), prev, next))
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before revalidating")
	return cmd
}

func scoreDelta(changed int, prev, next *domain.ComplianceSnapshot) string {
	noun := "files"
	if changed == 1 {
		noun = "file"
	}
	if prev == nil {
		return fmt.Sprintf("%d %s changed: score %d%%", changed, noun, next.Rounded())
	}
	return fmt.Sprintf("%d %s changed: score %d%% → %d%% (%+d), %d violations",
		changed, noun, prev.Rounded(), next.Rounded(), next.Rounded()-prev.Rounded(), len(next.Violations))
}
