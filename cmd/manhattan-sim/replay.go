package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"manhattan-sim/internal/logging"
	"manhattan-sim/internal/sim"
)

var (
	replayInput     string
	replayArchive   string
	replayRunID     string
	replayPrintOnly bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay vehicle rows from a log file or archive",
	Long:  "replay feeds vehicle rows from a JSONL log or a SQLite archive back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if (replayInput == "") == (replayArchive == "") {
			return fmt.Errorf("exactly one of --input or --archive required")
		}
		log := logging.New("info")

		writer, cleanup, err := newWriters(replayPrintOnly, "", "")
		if err != nil {
			return err
		}
		defer cleanup()

		var n int
		if replayInput != "" {
			n, err = sim.ReplayLogFile(replayInput, writer)
		} else {
			n, err = replayFromArchive(replayArchive, replayRunID, writer)
		}
		if err != nil {
			return err
		}
		log.Info("replay complete", "rows", n)
		return nil
	},
}

func replayFromArchive(path, runID string, w sim.VehicleWriter) (int, error) {
	archive, err := sim.NewSQLiteWriter(path)
	if err != nil {
		return 0, err
	}
	defer archive.Close()
	return sim.ReplayArchive(archive, runID, w)
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to vehicle log file (JSONL or .gz)")
	replayCmd.Flags().StringVar(&replayArchive, "archive", "", "Path to SQLite archive")
	replayCmd.Flags().StringVar(&replayRunID, "run", "", "Run ID to replay from the archive (default latest)")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
}
