package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"manhattan-sim/internal/report"
	"manhattan-sim/internal/sim"
)

func TestNewWritersPrintOnly(t *testing.T) {
	w, cleanup, err := newWriters(true, "", "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer cleanup()
	if _, ok := w.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", w)
	}
}

func TestNewWritersGreptimeFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	w, cleanup, err := newWriters(false, "", "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer cleanup()
	if _, ok := w.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", w)
	}
}

func TestNewWritersLogFileAndArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vehicles.jsonl")
	archive := filepath.Join(dir, "runs.db")
	w, cleanup, err := newWriters(true, path, archive)
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	if _, ok := w.(*sim.MultiWriter); !ok {
		t.Fatalf("expected *sim.MultiWriter, got %T", w)
	}
	row := report.VehicleRow{RunID: "r1", Index: 0, Class: "los", Timestamp: time.Now()}
	if err := w.Write(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.WriteRun(report.RunRow{RunID: "r1", Vehicles: 1, Timestamp: time.Now()}); err != nil {
		t.Fatalf("write run failed: %v", err)
	}
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	for _, p := range []string{path, sim.CompanionPath(path, "runs")} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s failed: %v", p, err)
		}
		if info.Size() == 0 {
			t.Fatalf("expected %s to be non-empty", p)
		}
	}

	aw, err := sim.NewSQLiteWriter(archive)
	if err != nil {
		t.Fatalf("reopen archive: %v", err)
	}
	defer aw.Close()
	rows, err := aw.Vehicles("r1")
	if err != nil || len(rows) != 1 {
		t.Fatalf("archive rows = %v (%v)", rows, err)
	}
}

func TestNewWritersSweepCompanion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.jsonl")
	w, cleanup, err := newWriters(true, path, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	if err := w.WriteSweep(report.SweepRow{Runs: 3, MeanInRange: 0.5, Timestamp: time.Now()}); err != nil {
		t.Fatalf("write sweep failed: %v", err)
	}
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	info, err := os.Stat(sim.CompanionPath(path, "sweep"))
	if err != nil {
		t.Fatalf("stat sweep file: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected sweep rows in %s", sim.CompanionPath(path, "sweep"))
	}
}
