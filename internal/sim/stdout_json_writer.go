package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"manhattan-sim/internal/report"
)

// JSONStdoutWriter prints vehicle, run and sweep rows as JSON to STDOUT.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

func (w *JSONStdoutWriter) emit(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}

// Write outputs a vehicle row in JSON format.
func (w *JSONStdoutWriter) Write(row report.VehicleRow) error {
	return w.emit(row)
}

// WriteBatch outputs multiple vehicle rows in JSON format.
func (w *JSONStdoutWriter) WriteBatch(rows []report.VehicleRow) error {
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteRun outputs a run summary in JSON format.
func (w *JSONStdoutWriter) WriteRun(row report.RunRow) error {
	return w.emit(row)
}

// WriteSweep outputs a sweep row in JSON format.
func (w *JSONStdoutWriter) WriteSweep(row report.SweepRow) error {
	return w.emit(row)
}
