package main

import (
	"context"

	"github.com/spf13/cobra"

	"manhattan-sim/internal/config"
	"manhattan-sim/internal/logging"
	"manhattan-sim/internal/sweep"
)

var (
	sweepPlanPath   string
	sweepConfigPath string
	sweepSchemaPath string
	sweepPrintOnly  bool
	sweepLogFile    string
	sweepArchive    string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Repeat runs over a density grid",
	Long:  "sweep runs independent simulations for every density point of a plan and reports the in-range fraction with a confidence interval.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(sweepConfigPath, sweepSchemaPath)
		if err != nil {
			return err
		}
		plan, err := sweep.Load(sweepPlanPath)
		if err != nil {
			return err
		}
		log := logging.New(cfg.LogLevel)
		ctx := logging.NewContext(context.Background(), log)

		writer, cleanup, err := newWriters(sweepPrintOnly, sweepLogFile, sweepArchive)
		if err != nil {
			return err
		}
		defer cleanup()

		rows, err := sweep.Run(ctx, cfg, plan, writer, nil)
		if err != nil {
			return err
		}
		log.Info("sweep complete", "points", len(rows), "runs_per_point", plan.Runs)
		return nil
	},
}

func init() {
	sweepCmd.Flags().StringVar(&sweepPlanPath, "plan", "config/sweep.yaml", "Path to sweep plan YAML")
	sweepCmd.Flags().StringVar(&sweepConfigPath, "config", "config/simulation.yaml", "Path to base simulation configuration YAML")
	sweepCmd.Flags().StringVar(&sweepSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	sweepCmd.Flags().BoolVar(&sweepPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
	sweepCmd.Flags().StringVar(&sweepLogFile, "log-file", "", "Path of the vehicle JSONL log; sweep rows go to <path>.sweep (.gz compresses)")
	sweepCmd.Flags().StringVar(&sweepArchive, "archive", "", "Path to a SQLite archive to append sweep rows to")
}
