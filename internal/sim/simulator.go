// Simulator running the grid pipeline and fanning rows out to writers
package sim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"manhattan-sim/internal/config"
	"manhattan-sim/internal/grid"
	"manhattan-sim/internal/logging"
	"manhattan-sim/internal/pathloss"
	"manhattan-sim/internal/quality"
	"manhattan-sim/internal/report"
	"manhattan-sim/internal/visibility"
)

// VehicleWriter is an interface to support different output writers.
type VehicleWriter interface {
	Write(report.VehicleRow) error
}

// Optional: writers can also support batch mode
type batchWriter interface {
	WriteBatch([]report.VehicleRow) error
}

// RunWriter receives one summary row per run.
type RunWriter interface {
	WriteRun(report.RunRow) error
}

// SweepWriter receives one row per density point of a sweep.
type SweepWriter interface {
	WriteSweep(report.SweepRow) error
}

// Run is the outcome of one pipeline execution.
type Run struct {
	ID             string
	Seed           uint64
	Params         grid.Params
	Threshold      float64
	Grid           *grid.Grid
	Observer       grid.Vehicle
	ObserverIndex  int // index of the observer in Grid.Vehicles
	Vehicles       []grid.Vehicle
	Classification visibility.Classification
	Result         *quality.Result
	Timestamp      time.Time
}

// Summary returns the run row for r.
func (r *Run) Summary() report.RunRow {
	c := r.Classification
	row := report.RunRow{
		RunID:           r.ID,
		Seed:            r.Seed,
		StreetDensity:   r.Params.StreetDensity,
		VehicleDensity:  r.Params.VehicleDensity,
		RoadLength:      r.Params.Length,
		Threshold:       r.Threshold,
		ObserverX:       r.Observer.X(),
		ObserverY:       r.Observer.Y(),
		ObserverDir:     uint8(r.Observer.Dir),
		HorizontalCount: len(r.Grid.Horizontal),
		VerticalCount:   len(r.Grid.Vertical),
		Vehicles:        len(r.Vehicles),
		LOS:             c.Count(visibility.LOS),
		OLOS:            c.Count(visibility.OLOS),
		NLOS:            c.Count(visibility.NLOS),
		Unreachable:     c.Count(visibility.Unreachable),
		InRange:         len(r.Result.InRangeIndices()),
		Timestamp:       r.Timestamp,
	}
	if row.Unreachable > 0 {
		row.Sentinel = r.Result.Sentinel
	}
	return row
}

// VehicleRows returns one row per non-observer vehicle, in population order.
func (r *Run) VehicleRows() []report.VehicleRow {
	rows := make([]report.VehicleRow, len(r.Vehicles))
	for i, v := range r.Vehicles {
		rows[i] = report.VehicleRow{
			RunID:     r.ID,
			Index:     i,
			X:         v.X(),
			Y:         v.Y(),
			Dir:       uint8(v.Dir),
			Class:     r.Classification.Classes[i].String(),
			Pathloss:  r.Result.Pathloss[i],
			Quality:   r.Result.Quality[i],
			InRange:   r.Result.InRange[i],
			Timestamp: r.Timestamp,
		}
	}
	return rows
}

// NewModel builds the urban pathloss model from cfg. src seeds shadowing.
func NewModel(cfg *config.SimulationConfig, src rand.Source) *pathloss.Urban {
	p := pathloss.DefaultParams()
	p.FrequencyHz = cfg.Pathloss.FrequencyHz
	p.StreetWidthM = cfg.Pathloss.StreetWidthM
	p.WallDistanceM = cfg.Pathloss.WallDistanceM
	p.BreakpointM = cfg.Pathloss.BreakpointM
	p.Suburban = cfg.Pathloss.Suburban
	p.ShadowingSigmaDB = cfg.Pathloss.ShadowingSigmaDB
	return pathloss.NewUrban(p, src)
}

// Execute runs generation, observer selection, classification and
// aggregation once with the given seed. A nil model selects NewModel.
func Execute(cfg *config.SimulationConfig, seed uint64, model pathloss.Model) (*Run, error) {
	params := grid.Params{
		StreetDensity:  cfg.StreetDensity,
		VehicleDensity: cfg.VehicleDensity,
		Length:         cfg.RoadLength,
	}
	g, err := grid.Build(grid.NewSampler(seed, cfg.MaxRetries), params)
	if err != nil {
		return nil, fmt.Errorf("generate grid: %w", err)
	}
	observer, rest, idx, err := grid.SelectObserver(g.Vehicles, g.Length)
	if err != nil {
		return nil, fmt.Errorf("select observer: %w", err)
	}
	if model == nil {
		model = NewModel(cfg, rand.NewPCG(seed, ^seed))
	}
	c := visibility.Classify(rest, observer)
	res, err := quality.Aggregate(rest, observer, c, model, quality.Config{
		Threshold:         cfg.PathlossThreshold,
		UnreachableMargin: cfg.UnreachableMargin,
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	return &Run{
		Seed:           seed,
		Params:         params,
		Threshold:      cfg.PathlossThreshold,
		Grid:           g,
		Observer:       observer,
		ObserverIndex:  idx,
		Vehicles:       rest,
		Classification: c,
		Result:         res,
	}, nil
}

// Simulator executes runs and writes their rows.
type Simulator struct {
	cfg       *config.SimulationConfig
	model     pathloss.Model
	writer    VehicleWriter
	runWriter RunWriter
	now       func() time.Time
	newID     func() string
}

// NewSimulator creates a Simulator. model may be nil to build one per run
// from cfg; runWriter may be nil; now defaults to time.Now.
func NewSimulator(cfg *config.SimulationConfig, model pathloss.Model, writer VehicleWriter, runWriter RunWriter, now func() time.Time) *Simulator {
	if now == nil {
		now = time.Now
	}
	return &Simulator{
		cfg:       cfg,
		model:     model,
		writer:    writer,
		runWriter: runWriter,
		now:       now,
		newID:     func() string { return uuid.NewString() },
	}
}

// Run executes one run with the configured seed, or a random one when the
// seed is zero.
func (s *Simulator) Run(ctx context.Context) (*Run, error) {
	seed := s.cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return s.RunSeed(ctx, seed)
}

// RunSeed executes one run with an explicit seed and writes its rows.
func (s *Simulator) RunSeed(ctx context.Context, seed uint64) (*Run, error) {
	log := logging.FromContext(ctx)
	run, err := Execute(s.cfg, seed, s.model)
	if err != nil {
		log.Error("run failed", "seed", seed, "err", err)
		return nil, err
	}
	run.ID = s.newID()
	run.Timestamp = s.now().UTC()

	log.Info("run complete",
		"run_id", run.ID,
		"seed", seed,
		"streets", run.Grid.StreetCount(),
		"vehicles", len(run.Vehicles),
		"observer", fmt.Sprintf("(%.1f,%.1f)", run.Observer.X(), run.Observer.Y()),
		"los", run.Classification.Count(visibility.LOS),
		"olos", run.Classification.Count(visibility.OLOS),
		"nlos", run.Classification.Count(visibility.NLOS),
		"unreachable", run.Classification.Count(visibility.Unreachable),
		"in_range", len(run.Result.InRangeIndices()),
	)

	if err := s.write(run); err != nil {
		return run, err
	}
	return run, nil
}

func (s *Simulator) write(run *Run) error {
	if s.writer != nil {
		rows := run.VehicleRows()
		if bw, ok := s.writer.(batchWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				return fmt.Errorf("write vehicles: %w", err)
			}
		} else {
			for _, r := range rows {
				if err := s.writer.Write(r); err != nil {
					return fmt.Errorf("write vehicles: %w", err)
				}
			}
		}
	}
	if s.runWriter != nil {
		if err := s.runWriter.WriteRun(run.Summary()); err != nil {
			return fmt.Errorf("write run: %w", err)
		}
	}
	return nil
}
