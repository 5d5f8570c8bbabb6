package sim

import (
	"errors"
	"testing"

	"manhattan-sim/internal/report"
)

type batchCollect struct {
	collectWriter
	batches int
	sweeps  []report.SweepRow
}

func (b *batchCollect) WriteBatch(rows []report.VehicleRow) error {
	b.batches++
	b.rows = append(b.rows, rows...)
	return nil
}

func (b *batchCollect) WriteSweep(r report.SweepRow) error {
	b.sweeps = append(b.sweeps, r)
	return nil
}

type errWriter struct{ err error }

func (e errWriter) Write(report.VehicleRow) error { return e.err }

func TestMultiWriterFanOut(t *testing.T) {
	plain := &collectWriter{}
	batch := &batchCollect{}
	mw := NewMultiWriter(
		[]VehicleWriter{plain, batch},
		[]RunWriter{plain, batch},
		[]SweepWriter{batch},
	)
	rows := []report.VehicleRow{{Index: 0}, {Index: 1}, {Index: 2}}
	if err := mw.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if len(plain.rows) != 3 || len(batch.rows) != 3 {
		t.Fatalf("rows not fanned out: %d / %d", len(plain.rows), len(batch.rows))
	}
	if batch.batches != 1 {
		t.Fatalf("batch writer used %d batches, want 1", batch.batches)
	}
	if err := mw.WriteRun(report.RunRow{RunID: "r"}); err != nil {
		t.Fatalf("WriteRun: %v", err)
	}
	if len(plain.runs) != 1 || len(batch.runs) != 1 {
		t.Fatalf("run not fanned out")
	}
	if err := mw.WriteSweep(report.SweepRow{Runs: 2}); err != nil {
		t.Fatalf("WriteSweep: %v", err)
	}
	if len(batch.sweeps) != 1 {
		t.Fatalf("sweep not forwarded")
	}
}

func TestMultiWriterStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	after := &collectWriter{}
	mw := NewMultiWriter([]VehicleWriter{errWriter{boom}, after}, nil, nil)
	if err := mw.Write(report.VehicleRow{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(after.rows) != 0 {
		t.Fatalf("writer after failing one still received row")
	}
}
