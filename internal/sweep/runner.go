package sweep

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"manhattan-sim/internal/config"
	"manhattan-sim/internal/logging"
	"manhattan-sim/internal/report"
	"manhattan-sim/internal/sim"
	"manhattan-sim/internal/stats"
)

// Run executes plan.Runs independent runs per point of the plan, starting
// from base, and writes one row per point to w (which may be nil). Seeds are
// consecutive from plan.Seed; a zero plan seed draws a random start.
func Run(ctx context.Context, base *config.SimulationConfig, plan *Plan, w sim.SweepWriter, now func() time.Time) ([]report.SweepRow, error) {
	if now == nil {
		now = time.Now
	}
	log := logging.FromContext(ctx)
	seed := plan.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	var rows []report.SweepRow
	for _, pt := range plan.Points() {
		cfg := *base
		cfg.StreetDensity = pt.StreetDensity
		cfg.VehicleDensity = pt.VehicleDensity

		fractions := make([]float64, 0, plan.Runs)
		for i := 0; i < plan.Runs; i++ {
			if err := ctx.Err(); err != nil {
				return rows, err
			}
			run, err := sim.Execute(&cfg, seed, nil)
			if err != nil {
				return rows, fmt.Errorf("point %+v seed %d: %w", pt, seed, err)
			}
			fractions = append(fractions, run.Summary().InRangeFraction())
			seed++
		}
		mean, lo, hi, err := stats.MeanCI(fractions, plan.Confidence)
		if err != nil {
			return rows, err
		}
		row := report.SweepRow{
			StreetDensity:  pt.StreetDensity,
			VehicleDensity: pt.VehicleDensity,
			Runs:           plan.Runs,
			MeanInRange:    mean,
			CILow:          lo,
			CIHigh:         hi,
			Confidence:     plan.Confidence,
			Timestamp:      now().UTC(),
		}
		log.Info("sweep point",
			"street_density", pt.StreetDensity,
			"vehicle_density", pt.VehicleDensity,
			"mean_in_range", mean,
			"ci_low", lo,
			"ci_high", hi,
		)
		if w != nil {
			if err := w.WriteSweep(row); err != nil {
				return rows, err
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
