package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lumen-tui/lumen/internal/config"
	"github.com/lumen-tui/lumen/internal/logging"
	"github.com/lumen-tui/lumen/internal/store"
)

func newScanCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <dir>...",
		Short: "Index media directories into the library",
		Long:  "Walk the given directories and index every photo and video found into the library database. Already-indexed paths are skipped.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(cfg.LibraryPath(), cfg.Library.BusyTimeoutMs, logging.Component("store"))
			if err != nil {
				return err
			}
			defer s.Close()

			rows := make([][]string, 0, len(args))
			for _, dir := range args {
				result, err := s.Scan(cmd.Context(), dir)
				if err != nil {
					return fmt.Errorf("failed to scan %s: %w", dir, err)
				}
				rows = append(rows, []string{
					dir,
					strconv.Itoa(result.Scanned),
					strconv.Itoa(result.Indexed),
					strconv.Itoa(result.Skipped),
				})
			}
			return writeTable(cmd.OutOrStdout(), []string{"DIR", "SCANNED", "INDEXED", "SKIPPED"}, rows)
		},
	}
}
