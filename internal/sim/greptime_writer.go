package sim

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"manhattan-sim/internal/report"
)

// greptimeClient is the subset of the ingester client used by the writer.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes rows to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client       greptimeClient
	vehicleTable string
	runTable     string
	sweepTable   string
}

// NewGreptimeDBWriter connects to endpoint ("host" or "host:port"). Empty
// table names fall back to the report defaults.
func NewGreptimeDBWriter(endpoint, database, vehicleTable, runTable, sweepTable string) (*GreptimeDBWriter, error) {
	host, port := endpoint, 0
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid GreptimeDB port %q: %w", p, err)
		}
		host, port = h, n
	}
	cfg := greptime.NewConfig(host).WithDatabase(database)
	if port != 0 {
		cfg = cfg.WithPort(port)
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if vehicleTable == "" {
		vehicleTable = report.VehicleTableName
	}
	if runTable == "" {
		runTable = report.RunTableName
	}
	if sweepTable == "" {
		sweepTable = report.SweepTableName
	}
	return &GreptimeDBWriter{
		client:       client,
		vehicleTable: vehicleTable,
		runTable:     runTable,
		sweepTable:   sweepTable,
	}, nil
}

func (w *GreptimeDBWriter) send(name string, tbl *table.Table, n int) error {
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		slog.Error("greptimedb write failed", "table", name, "err", err)
		return err
	}
	slog.Debug("greptimedb write", "table", name, "rows", n)
	return nil
}

// Write inserts a single vehicle row.
func (w *GreptimeDBWriter) Write(row report.VehicleRow) error {
	return w.WriteBatch([]report.VehicleRow{row})
}

// WriteBatch inserts multiple vehicle rows.
func (w *GreptimeDBWriter) WriteBatch(rows []report.VehicleRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.vehicleTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("run_id", types.STRING)
	tbl.AddTagColumn("idx", types.INT64)
	tbl.AddFieldColumn("x", types.FLOAT64)
	tbl.AddFieldColumn("y", types.FLOAT64)
	tbl.AddFieldColumn("dir", types.INT64)
	tbl.AddFieldColumn("class", types.STRING)
	tbl.AddFieldColumn("pathloss", types.FLOAT64)
	tbl.AddFieldColumn("quality", types.FLOAT64)
	tbl.AddFieldColumn("in_range", types.BOOLEAN)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	for _, r := range rows {
		if err := tbl.AddRow(r.RunID, int64(r.Index), r.X, r.Y, int64(r.Dir), r.Class,
			r.Pathloss, r.Quality, r.InRange, r.Timestamp); err != nil {
			return err
		}
	}
	return w.send(w.vehicleTable, tbl, len(rows))
}

// WriteRun inserts a run summary.
func (w *GreptimeDBWriter) WriteRun(r report.RunRow) error {
	tbl, err := table.New(w.runTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("run_id", types.STRING)
	tbl.AddFieldColumn("seed", types.STRING)
	tbl.AddFieldColumn("street_density", types.FLOAT64)
	tbl.AddFieldColumn("vehicle_density", types.FLOAT64)
	tbl.AddFieldColumn("road_length", types.FLOAT64)
	tbl.AddFieldColumn("threshold", types.FLOAT64)
	tbl.AddFieldColumn("observer_x", types.FLOAT64)
	tbl.AddFieldColumn("observer_y", types.FLOAT64)
	tbl.AddFieldColumn("vehicles", types.INT64)
	tbl.AddFieldColumn("los", types.INT64)
	tbl.AddFieldColumn("olos", types.INT64)
	tbl.AddFieldColumn("nlos", types.INT64)
	tbl.AddFieldColumn("unreachable", types.INT64)
	tbl.AddFieldColumn("in_range", types.INT64)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	if err := tbl.AddRow(r.RunID, strconv.FormatUint(r.Seed, 10), r.StreetDensity, r.VehicleDensity, r.RoadLength,
		r.Threshold, r.ObserverX, r.ObserverY, int64(r.Vehicles), int64(r.LOS), int64(r.OLOS),
		int64(r.NLOS), int64(r.Unreachable), int64(r.InRange), r.Timestamp); err != nil {
		return err
	}
	return w.send(w.runTable, tbl, 1)
}

// WriteSweep inserts a sweep row.
func (w *GreptimeDBWriter) WriteSweep(r report.SweepRow) error {
	tbl, err := table.New(w.sweepTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("street_density", types.FLOAT64)
	tbl.AddTagColumn("vehicle_density", types.FLOAT64)
	tbl.AddFieldColumn("runs", types.INT64)
	tbl.AddFieldColumn("mean_in_range", types.FLOAT64)
	tbl.AddFieldColumn("ci_low", types.FLOAT64)
	tbl.AddFieldColumn("ci_high", types.FLOAT64)
	tbl.AddFieldColumn("confidence", types.FLOAT64)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	if err := tbl.AddRow(r.StreetDensity, r.VehicleDensity, int64(r.Runs), r.MeanInRange,
		r.CILow, r.CIHigh, r.Confidence, r.Timestamp); err != nil {
		return err
	}
	return w.send(w.sweepTable, tbl, 1)
}
