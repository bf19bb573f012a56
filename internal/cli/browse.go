package cli

import (
	"github.com/spf13/cobra"

	"github.com/lumen-tui/lumen/internal/config"
	"github.com/lumen-tui/lumen/internal/logging"
	"github.com/lumen-tui/lumen/internal/store"
	"github.com/lumen-tui/lumen/internal/tui"
)

func newBrowseCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the library timeline",
		Long:  "Browse the indexed library as a scrollable, date-bucketed timeline.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cfg)
		},
	}
}

func runBrowse(cfg *config.Config) error {
	s, err := store.Open(cfg.LibraryPath(), cfg.Library.BusyTimeoutMs, logging.Component("store"))
	if err != nil {
		return err
	}
	defer s.Close()

	logging.Info().Str("library", cfg.LibraryPath()).Msg("starting browser")
	return tui.Run(s, cfg)
}
