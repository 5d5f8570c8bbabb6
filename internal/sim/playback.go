package sim

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"manhattan-sim/internal/report"
)

// ReplayLog decodes vehicle rows from a JSONL stream and forwards them to
// writer in order. It returns the number of rows forwarded.
func ReplayLog(r io.Reader, writer VehicleWriter) (int, error) {
	dec := json.NewDecoder(r)
	n := 0
	for {
		var row report.VehicleRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, fmt.Errorf("row %d: %w", n+1, err)
		}
		if err := writer.Write(row); err != nil {
			return n, err
		}
		n++
	}
}

// ReplayLogFile opens a file and replays its vehicle rows. Files ending in
// .gz are decompressed.
func ReplayLogFile(path string, writer VehicleWriter) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return 0, fmt.Errorf("open gzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	return ReplayLog(r, writer)
}

// ReplayArchive forwards the vehicle rows of one archived run. An empty
// runID selects the most recent run.
func ReplayArchive(archive *SQLiteWriter, runID string, writer VehicleWriter) (int, error) {
	if runID == "" {
		runs, err := archive.Runs()
		if err != nil {
			return 0, err
		}
		if len(runs) == 0 {
			return 0, fmt.Errorf("archive holds no runs")
		}
		runID = runs[len(runs)-1].RunID
	}
	rows, err := archive.Vehicles(runID)
	if err != nil {
		return 0, err
	}
	for i, r := range rows {
		if err := writer.Write(r); err != nil {
			return i, err
		}
	}
	return len(rows), nil
}
