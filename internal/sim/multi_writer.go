package sim

import "manhattan-sim/internal/report"

// MultiWriter fan-outs vehicle, run and sweep rows to multiple writers.
type MultiWriter struct {
	writers      []VehicleWriter
	runWriters   []RunWriter
	sweepWriters []SweepWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(ws []VehicleWriter, rws []RunWriter, sws []SweepWriter) *MultiWriter {
	return &MultiWriter{writers: ws, runWriters: rws, sweepWriters: sws}
}

// Write sends a vehicle row to all writers.
func (mw *MultiWriter) Write(row report.VehicleRow) error {
	for _, w := range mw.writers {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple vehicle rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteBatch(rows []report.VehicleRow) error {
	for _, w := range mw.writers {
		if bw, ok := w.(batchWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteRun sends a run row to all run writers.
func (mw *MultiWriter) WriteRun(row report.RunRow) error {
	for _, w := range mw.runWriters {
		if err := w.WriteRun(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteSweep sends a sweep row to all sweep writers.
func (mw *MultiWriter) WriteSweep(row report.SweepRow) error {
	for _, w := range mw.sweepWriters {
		if err := w.WriteSweep(row); err != nil {
			return err
		}
	}
	return nil
}
