package main

import (
	"context"

	"github.com/spf13/cobra"

	"manhattan-sim/internal/config"
	"manhattan-sim/internal/export"
	"manhattan-sim/internal/logging"
	"manhattan-sim/internal/sim"
)

var (
	simPrintOnly  bool
	simConfigPath string
	simSchemaPath string
	simLogFile    string
	simArchive    string
	simGeoJSON    string
	simShowMap    bool
	simSeed       uint64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one grid simulation",
	Long:  "simulate generates one grid, picks the observer nearest the centre and writes per-vehicle pathloss rows.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = simSeed
		}
		log := logging.New(cfg.LogLevel)
		ctx := logging.NewContext(context.Background(), log)

		writer, cleanup, err := newWriters(simPrintOnly, simLogFile, simArchive)
		if err != nil {
			return err
		}
		defer cleanup()

		run, err := sim.NewSimulator(cfg, nil, writer, writer, nil).Run(ctx)
		if err != nil {
			return err
		}
		if simGeoJSON != "" {
			if err := export.WriteGeoJSONFile(simGeoJSON, run); err != nil {
				return err
			}
			log.Info("geojson written", "path", simGeoJSON)
		}
		if simShowMap {
			return sim.ShowMap(run)
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export vehicle/run rows (JSONL, .gz compresses)")
	simulateCmd.Flags().StringVar(&simArchive, "archive", "", "Path to a SQLite archive to append the run to")
	simulateCmd.Flags().StringVar(&simGeoJSON, "geojson", "", "Path to write the grid as GeoJSON")
	simulateCmd.Flags().BoolVar(&simShowMap, "map", false, "Show the grid in a terminal map after the run")
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 0, "Override the configured seed (0 draws a random one)")
}
