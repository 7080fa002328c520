package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdidvp/docqms/internal/adapters/outbound/config"
	"github.com/abdidvp/docqms/internal/domain"
)

func newInitCmd() *cobra.Command {
	var (
		force    bool
		minScore int
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .docqms.yaml configuration file",
		Long:  "Create a .docqms.yaml with default server, retry, and fixability settings. The API token is read from " + config.EnvToken + " and never written to the file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := projectPath(cmd)
			if err != nil {
				return err
			}
			dest := filepath.Join(absPath, config.FileName)
			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			cfg := domain.DefaultConfig()
			if server, _ := cmd.Flags().GetString("server"); server != "" {
				cfg.Server.BaseURL = server
			}
			cfg.MinScore = minScore
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Write(absPath, cfg); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .docqms.yaml")
	cmd.Flags().IntVar(&minScore, "min-score", 0, "Minimum score enforced by status --ci")
	return cmd
}
