// Package cli wires the lumen command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumen-tui/lumen/internal/config"
	"github.com/lumen-tui/lumen/internal/logging"
)

// Execute runs the CLI.
func Execute(version string) error {
	return newRootCmd(version).Execute()
}

func newRootCmd(version string) *cobra.Command {
	cfg := config.DefaultConfig()

	var (
		configFile  string
		logLevel    string
		logFormat   string
		libraryPath string
		columns     int
		descending  bool
	)

	cmd := &cobra.Command{
		Use:           "lumen",
		Short:         "Terminal photo and video library browser",
		Long:          "lumen indexes media directories into a date-bucketed library and browses them as a virtualized timeline.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console)")
	cmd.PersistentFlags().StringVar(&libraryPath, "library", "", "library database path")
	cmd.PersistentFlags().IntVar(&columns, "columns", 0, "timeline column count")
	cmd.PersistentFlags().BoolVar(&descending, "descending", false, "newest days first")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(configFile)
		if err != nil {
			return err
		}
		*cfg = *loaded

		// Flags override file and environment values.
		flags := cmd.Flags()
		if flags.Changed("log-level") {
			cfg.Logging.Level = logLevel
		}
		if flags.Changed("log-format") {
			cfg.Logging.Format = logFormat
		}
		if flags.Changed("library") {
			cfg.Library.Path = libraryPath
		}
		if flags.Changed("columns") {
			cfg.UI.Columns = columns
		}
		if flags.Changed("descending") {
			cfg.Library.Descending = descending
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			return err
		}

		// The alternate screen owns stderr while browsing, so logs always
		// go to a file.
		logFile := cfg.Logging.File
		if logFile == "" {
			logFile = cfg.LogFilePath()
		}
		logging.Init(logging.Config{
			Level:        cfg.Logging.Level,
			Format:       cfg.Logging.Format,
			File:         logFile,
			EnableCaller: cfg.Logging.EnableCaller,
		})
		return nil
	}

	cmd.AddCommand(
		newBrowseCmd(cfg),
		newScanCmd(cfg),
		newStatsCmd(cfg),
		newVersionCmd(version),
	)

	// Browsing is the default action.
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runBrowse(cfg)
	}

	return cmd
}

func loadConfig(configFile string) (*config.Config, error) {
	if configFile != "" {
		return config.LoadFromFile(configFile)
	}
	return config.LoadDefault()
}
