// Package commands implements the calcbuild command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/CalcBuild/internal/logging"
	"github.com/piwi3910/CalcBuild/internal/model"
	"github.com/piwi3910/CalcBuild/internal/project"
)

// NewRootCommand creates the calcbuild command tree. Without a subcommand it
// opens the desktop editor.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "calcbuild",
		Short:         "CalcBuild wall finish estimator",
		Long:          "CalcBuild estimates paint, render and insulation quantities and costs from a list of rooms.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGUI,
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default ~/.calcbuild/config.json)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(NewGUICommand())
	rootCmd.AddCommand(NewEstimateCommand())
	rootCmd.AddCommand(NewProjectsCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewImportCommand())
	rootCmd.AddCommand(NewBackupCommand())
	rootCmd.AddCommand(NewConfigCommand())
	return rootCmd
}

// appEnv is what a command needs once flags are parsed. The repository is
// opened on first use so commands that never touch the store work with an
// unreachable backend.
type appEnv struct {
	configPath string
	cfg        model.AppConfig
	logger     *zap.Logger
	repo       *project.Repository
}

// loadEnv reads .env, the config file and the log flags.
func loadEnv(cmd *cobra.Command) (*appEnv, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = project.DefaultConfigPath()
	}
	cfg, err := project.LoadAppConfig(configPath)
	if err != nil {
		return nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	return &appEnv{configPath: configPath, cfg: cfg, logger: logger}, nil
}

// repository opens the configured store.
func (e *appEnv) repository(ctx context.Context) (*project.Repository, error) {
	if e.repo != nil {
		return e.repo, nil
	}
	repo, err := project.Open(ctx, e.cfg.Store, e.logger)
	if err != nil {
		return nil, err
	}
	e.repo = repo
	return repo, nil
}

func (e *appEnv) Close() {
	if e.repo != nil {
		if err := e.repo.Close(); err != nil {
			e.logger.Warn("failed to close store", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}

// withRepo runs fn with a loaded environment and an open store.
func withRepo(cmd *cobra.Command, fn func(env *appEnv, repo *project.Repository) error) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	repo, err := env.repository(cmd.Context())
	if err != nil {
		return err
	}
	return fn(env, repo)
}
