// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/GoStageSetting/GoStageSetting/internal/config"
	"github.com/GoStageSetting/GoStageSetting/internal/logger"
)

var (
	configPath string        // directory holding main.toml
	cfg        config.Config //nolint:gochecknoglobals

	rootCmd = &cobra.Command{
		Use:   "go-stagesetting",
		Short: "GoStageSetting manages runtime settings stored in the database",
		Long: `GoStageSetting keeps named runtime settings in the database, validates
them against schemas inferred from their declared defaults and serves them
through an admin UI and a REST API.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "directory of main.toml")
}

// loadConfig reads the configuration and sets up logging.
func loadConfig() error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	return logger.Init(cfg.Log)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
