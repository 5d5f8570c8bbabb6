package sim

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"manhattan-sim/internal/report"
)

// CompanionPath derives the path of a secondary log next to path, keeping a
// trailing .gz last: "out.jsonl" -> "out.jsonl.runs", "out.jsonl.gz" ->
// "out.jsonl.runs.gz".
func CompanionPath(path, kind string) string {
	if base, ok := strings.CutSuffix(path, ".gz"); ok {
		return base + "." + kind + ".gz"
	}
	return path + "." + kind
}

// jsonlFile is one JSONL output, gzip-compressed when its name ends in .gz.
type jsonlFile struct {
	f   *os.File
	gz  *gzip.Writer
	enc *json.Encoder
}

func createJSONL(path string) (*jsonlFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	jf := &jsonlFile{f: f}
	var w io.Writer = f
	if strings.HasSuffix(path, ".gz") {
		jf.gz = gzip.NewWriter(f)
		w = jf.gz
	}
	jf.enc = json.NewEncoder(w)
	return jf, nil
}

func (j *jsonlFile) Close() error {
	var err error
	if j.gz != nil {
		err = j.gz.Close()
	}
	return errors.Join(err, j.f.Close())
}

// FileWriter writes vehicle, run and sweep rows to JSONL files.
type FileWriter struct {
	vehicles *jsonlFile
	runs     *jsonlFile
	sweeps   *jsonlFile
}

// NewFileWriter creates a FileWriter. runPath or sweepPath may be empty to
// skip those logs.
func NewFileWriter(vehiclePath, runPath, sweepPath string) (*FileWriter, error) {
	vf, err := createJSONL(vehiclePath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{vehicles: vf}
	if runPath != "" {
		if fw.runs, err = createJSONL(runPath); err != nil {
			fw.Close()
			return nil, err
		}
	}
	if sweepPath != "" {
		if fw.sweeps, err = createJSONL(sweepPath); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return fw, nil
}

// Write logs a single vehicle row.
func (f *FileWriter) Write(row report.VehicleRow) error {
	return f.vehicles.enc.Encode(row)
}

// WriteBatch logs multiple vehicle rows.
func (f *FileWriter) WriteBatch(rows []report.VehicleRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteRun logs a run row, if enabled.
func (f *FileWriter) WriteRun(row report.RunRow) error {
	if f.runs == nil {
		return nil
	}
	return f.runs.enc.Encode(row)
}

// WriteSweep logs a sweep row, if enabled.
func (f *FileWriter) WriteSweep(row report.SweepRow) error {
	if f.sweeps == nil {
		return nil
	}
	return f.sweeps.enc.Encode(row)
}

// Close flushes compressed streams and closes any underlying files.
func (f *FileWriter) Close() error {
	var errs []error
	for _, j := range []*jsonlFile{f.vehicles, f.runs, f.sweeps} {
		if j != nil {
			errs = append(errs, j.Close())
		}
	}
	return errors.Join(errs...)
}
