package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abdidvp/docqms/internal/adapters/outbound/compliance"
	"github.com/abdidvp/docqms/internal/adapters/outbound/config"
	"github.com/abdidvp/docqms/internal/adapters/outbound/gitinfo"
	"github.com/abdidvp/docqms/internal/adapters/outbound/history"
	"github.com/abdidvp/docqms/internal/adapters/outbound/journal"
	"github.com/abdidvp/docqms/internal/application"
	"github.com/abdidvp/docqms/internal/domain"
)

const envServerURL = config.EnvServerURL

// runtime is the wiring shared by commands that talk to the server.
type runtime struct {
	projectPath string
	cfg         domain.Config
	logger      *zap.Logger
	snapshots   *application.SnapshotService
	remediation *application.RemediationService
}

func projectPath(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("path")
	if path == "" {
		path = "."
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return absPath, nil
}

// loadConfig loads .docqms.yaml and applies the --server and --target flags.
func loadConfig(cmd *cobra.Command, absPath string) (domain.Config, error) {
	var loader domain.ConfigLoader = config.New()
	cfg, err := loader.Load(absPath)
	if err != nil {
		return domain.Config{}, err
	}
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		cfg.Server.BaseURL = server
	}
	if f := cmd.Flags().Lookup("target"); f != nil && f.Value.String() != "" {
		cfg.Target = f.Value.String()
	}
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return zap.NewNop(), nil
	}
	zc := zap.NewDevelopmentConfig()
	zc.OutputPaths = []string{"stderr"}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	absPath, err := projectPath(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(cmd, absPath)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded",
		zap.String("base_url", cfg.Server.BaseURL),
		zap.String("target", cfg.Target),
		zap.Strings("fixable_rules", cfg.FixableRules))

	client := compliance.NewFromConfig(cfg, logger.Named("client"))
	snaps := application.NewSnapshotService(client, history.New(), gitinfo.New(), absPath, logger.Named("snapshot"))
	rem := application.NewRemediationService(client, snaps, cfg.Policy(), journal.New(), absPath, logger.Named("remediation"))

	return &runtime{
		projectPath: absPath,
		cfg:         cfg,
		logger:      logger,
		snapshots:   snaps,
		remediation: rem,
	}, nil
}

func (rt *runtime) refresh(cmd *cobra.Command) (*domain.ComplianceSnapshot, error) {
	snap, err := rt.snapshots.Refresh(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("fetching compliance snapshot: %w", err)
	}
	return snap, nil
}
