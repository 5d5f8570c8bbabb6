package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"manhattan-sim/internal/report"
)

type mockGreptimeClient struct {
	table *table.Table
	err   error
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, m.err
}

func TestGreptimeWriterVehicles(t *testing.T) {
	ts := time.Unix(0, 0).UTC()
	rows := []report.VehicleRow{
		{RunID: "r1", Index: 0, X: 1, Y: 2, Class: "los", Pathloss: 80, Quality: -80, InRange: true, Timestamp: ts},
		{RunID: "r1", Index: 1, X: 3, Y: 4, Class: "nlos", Pathloss: 130, Quality: -130, Timestamp: ts},
	}
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, vehicleTable: "grid_vehicles"}

	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}
	got := m.table.GetRows()
	if len(got.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(got.Rows))
	}
	if len(got.Schema) != 10 {
		t.Fatalf("unexpected schema length: %d", len(got.Schema))
	}
	if v := got.Rows[0].Values[0].GetStringValue(); v != "r1" {
		t.Fatalf("run_id = %s, want r1", v)
	}
	if v := got.Rows[1].Values[5].GetStringValue(); v != "nlos" {
		t.Fatalf("class = %s, want nlos", v)
	}
	if v := got.Rows[1].Values[6].GetF64Value(); v != 130 {
		t.Fatalf("pathloss = %v, want 130", v)
	}
	if !got.Rows[0].Values[8].GetBoolValue() {
		t.Fatalf("in_range not set on first row")
	}
}

func TestGreptimeWriterRunAndSweep(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, runTable: "grid_runs", sweepTable: "grid_sweeps"}

	if err := w.WriteRun(report.RunRow{RunID: "r2", Seed: 1<<63 + 5, Vehicles: 9}); err != nil {
		t.Fatalf("WriteRun: %v", err)
	}
	if v := m.table.GetRows().Rows[0].Values[1].GetStringValue(); v != "9223372036854775813" {
		t.Fatalf("seed = %s", v)
	}

	if err := w.WriteSweep(report.SweepRow{StreetDensity: 0.001, Runs: 4, MeanInRange: 0.5}); err != nil {
		t.Fatalf("WriteSweep: %v", err)
	}
	if v := m.table.GetRows().Rows[0].Values[3].GetF64Value(); v != 0.5 {
		t.Fatalf("mean_in_range = %v, want 0.5", v)
	}
}

func TestGreptimeWriterError(t *testing.T) {
	boom := errors.New("unavailable")
	w := &GreptimeDBWriter{client: &mockGreptimeClient{err: boom}, vehicleTable: "v"}
	if err := w.Write(report.VehicleRow{RunID: "x"}); !errors.Is(err, boom) {
		t.Fatalf("expected client error, got %v", err)
	}
	if err := w.WriteBatch(nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
}
