package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lumen-tui/lumen/internal/config"
	"github.com/lumen-tui/lumen/internal/logging"
	"github.com/lumen-tui/lumen/internal/store"
)

func newStatsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show library statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(cfg.LibraryPath(), cfg.Library.BusyTimeoutMs, logging.Component("store"))
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.Stats(cmd.Context())
			if err != nil {
				return err
			}

			rows := [][]string{
				{"items", strconv.Itoa(stats.Items)},
				{"days", strconv.Itoa(stats.Days)},
			}
			if stats.Items > 0 {
				rows = append(rows,
					[]string{"first day", stats.FirstDay},
					[]string{"last day", stats.LastDay},
				)
			}
			return writeTable(cmd.OutOrStdout(), []string{"STAT", "VALUE"}, rows)
		},
	}
}
