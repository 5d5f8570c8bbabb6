package sim

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"manhattan-sim/internal/report"
)

func TestReplayLog(t *testing.T) {
	rows := []report.VehicleRow{
		{RunID: "r", Index: 0, Class: "los", Timestamp: time.Unix(0, 0)},
		{RunID: "r", Index: 1, Class: "olos", Timestamp: time.Unix(0, 0)},
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	cw := &collectWriter{}
	n, err := ReplayLog(&buf, cw)
	if err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if n != len(rows) || len(cw.rows) != len(rows) {
		t.Fatalf("expected %d rows, got %d/%d", len(rows), n, len(cw.rows))
	}
	for i, r := range rows {
		if cw.rows[i].Class != r.Class {
			t.Fatalf("row %d mismatch: %+v vs %+v", i, cw.rows[i], r)
		}
	}
}

func TestReplayLogMalformed(t *testing.T) {
	cw := &collectWriter{}
	n, err := ReplayLog(strings.NewReader("{\"run_id\":\"a\"}\n{broken"), cw)
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if n != 1 {
		t.Fatalf("forwarded %d rows before error, want 1", n)
	}
}

func TestReplayLogFileGzipRoundTrip(t *testing.T) {
	run, err := Execute(testConfig(), 5, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	run.ID = "round-trip"
	path := filepath.Join(t.TempDir(), "run.jsonl.gz")
	fw, err := NewFileWriter(path, "", "")
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	want := run.VehicleRows()
	if err := fw.WriteBatch(want); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	cw := &collectWriter{}
	n, err := ReplayLogFile(path, cw)
	if err != nil {
		t.Fatalf("ReplayLogFile: %v", err)
	}
	if n != len(want) {
		t.Fatalf("replayed %d rows, want %d", n, len(want))
	}
	for i := range want {
		if cw.rows[i].Pathloss != want[i].Pathloss || cw.rows[i].Class != want[i].Class {
			t.Fatalf("row %d differs after replay", i)
		}
	}
}
