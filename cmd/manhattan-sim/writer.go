package main

import (
	"os"

	"manhattan-sim/internal/sim"
)

// rowWriter accepts every row kind the commands produce.
type rowWriter interface {
	sim.VehicleWriter
	sim.RunWriter
	sim.SweepWriter
}

// newWriters sets up the output writers based on flags and env vars. It
// returns the writer and a cleanup function to close any resources.
func newWriters(printOnly bool, logFile, archive string) (rowWriter, func() error, error) {
	base, err := baseWriter(printOnly)
	if err != nil {
		return nil, nil, err
	}
	if logFile == "" && archive == "" {
		return base, func() error { return nil }, nil
	}

	ws := []rowWriter{base}
	var closers []func() error
	cleanup := func() error {
		var first error
		for _, c := range closers {
			if err := c(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
	if logFile != "" {
		fw, err := sim.NewFileWriter(logFile, sim.CompanionPath(logFile, "runs"), sim.CompanionPath(logFile, "sweep"))
		if err != nil {
			return nil, nil, err
		}
		ws = append(ws, fw)
		closers = append(closers, fw.Close)
	}
	if archive != "" {
		aw, err := sim.NewSQLiteWriter(archive)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		ws = append(ws, aw)
		closers = append(closers, aw.Close)
	}

	var vws []sim.VehicleWriter
	var rws []sim.RunWriter
	var sws []sim.SweepWriter
	for _, w := range ws {
		vws = append(vws, w)
		rws = append(rws, w)
		sws = append(sws, w)
	}
	return sim.NewMultiWriter(vws, rws, sws), cleanup, nil
}

// baseWriter chooses the underlying writer based on printOnly flag and env vars.
func baseWriter(printOnly bool) (rowWriter, error) {
	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	if printOnly || endpoint == "" {
		return sim.NewJSONStdoutWriter(), nil
	}
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	return sim.NewGreptimeDBWriter(endpoint, database,
		os.Getenv("GREPTIMEDB_TABLE"), os.Getenv("RUN_TABLE"), os.Getenv("SWEEP_TABLE"))
}
