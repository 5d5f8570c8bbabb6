// Row types written by the simulator, tagged for JSON and GreptimeDB
package report

import (
	"os"
	"time"
)

// VehicleRow is one classified and scored vehicle of a run.
type VehicleRow struct {
	RunID     string    `json:"run_id"`   // TAG
	Index     int       `json:"index"`    // TAG, position in the population
	X         float64   `json:"x"`        // FIELD
	Y         float64   `json:"y"`        // FIELD
	Dir       uint8     `json:"dir"`      // FIELD, 0 vertical / 1 horizontal
	Class     string    `json:"class"`    // FIELD
	Pathloss  float64   `json:"pathloss"` // FIELD, dB
	Quality   float64   `json:"quality"`  // FIELD, negated pathloss
	InRange   bool      `json:"in_range"` // FIELD
	Timestamp time.Time `json:"ts"`       // TIME INDEX
}

// RunRow summarizes one simulation run.
type RunRow struct {
	RunID           string    `json:"run_id"`
	Seed            uint64    `json:"seed" gorm:"-"`
	StreetDensity   float64   `json:"street_density"`
	VehicleDensity  float64   `json:"vehicle_density"`
	RoadLength      float64   `json:"road_length"`
	Threshold       float64   `json:"threshold"`
	ObserverX       float64   `json:"observer_x"`
	ObserverY       float64   `json:"observer_y"`
	ObserverDir     uint8     `json:"observer_dir"`
	HorizontalCount int       `json:"horizontal_streets"`
	VerticalCount   int       `json:"vertical_streets"`
	Vehicles        int       `json:"vehicles"`
	LOS             int       `json:"los"`
	OLOS            int       `json:"olos"`
	NLOS            int       `json:"nlos"`
	Unreachable     int       `json:"unreachable"`
	InRange         int       `json:"in_range"`
	Sentinel        float64   `json:"sentinel,omitempty"`
	Timestamp       time.Time `json:"ts"`
}

// InRangeFraction returns the share of vehicles in range.
func (r RunRow) InRangeFraction() float64 {
	if r.Vehicles == 0 {
		return 0
	}
	return float64(r.InRange) / float64(r.Vehicles)
}

// SweepRow aggregates repeated runs at one density point.
type SweepRow struct {
	StreetDensity  float64   `json:"street_density"`
	VehicleDensity float64   `json:"vehicle_density"`
	Runs           int       `json:"runs"`
	MeanInRange    float64   `json:"mean_in_range"`
	CILow          float64   `json:"ci_low"`
	CIHigh         float64   `json:"ci_high"`
	Confidence     float64   `json:"confidence"`
	Timestamp      time.Time `json:"ts"`
}

func envOr(key, def string) string {
	if env := os.Getenv(key); env != "" {
		return env
	}
	return def
}

// VehicleTableName holds the table used for vehicle rows. It defaults to
// "grid_vehicles" and can be overridden via GREPTIMEDB_TABLE.
var VehicleTableName = envOr("GREPTIMEDB_TABLE", "grid_vehicles")

// RunTableName holds the table used for run rows, overridable via RUN_TABLE.
var RunTableName = envOr("RUN_TABLE", "grid_runs")

// SweepTableName holds the table used for sweep rows, overridable via SWEEP_TABLE.
var SweepTableName = envOr("SWEEP_TABLE", "grid_sweeps")

// TableName names the GORM table for vehicle rows.
func (VehicleRow) TableName() string { return VehicleTableName }

// TableName names the GORM table for run rows.
func (RunRow) TableName() string { return RunTableName }

// TableName names the GORM table for sweep rows.
func (SweepRow) TableName() string { return SweepTableName }
