// Package export converts simulation runs into exchange formats.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/peterstace/simplefeatures/geom"

	"manhattan-sim/internal/grid"
	"manhattan-sim/internal/sim"
)

func point(x, y float64) (geom.Geometry, error) {
	p, err := geom.NewPoint(geom.Coordinates{XY: geom.XY{X: x, Y: y}, Type: geom.DimXY})
	if err != nil {
		return geom.Geometry{}, err
	}
	return p.AsGeometry(), nil
}

func streetLine(s grid.Street, dir grid.Orientation, length float64) (geom.Geometry, error) {
	var coords []float64
	if dir == grid.Horizontal {
		coords = []float64{0, s.Identity, length, s.Identity}
	} else {
		coords = []float64{s.Identity, 0, s.Identity, length}
	}
	ls, err := geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
	if err != nil {
		return geom.Geometry{}, err
	}
	return ls.AsGeometry(), nil
}

// Features builds a GeoJSON feature collection of run: one LineString per
// street, one Point per vehicle carrying its class and scores, and the
// observer. Coordinates are metres in the grid's own frame. Non-finite
// coordinates are rejected.
func Features(run *sim.Run) (geom.GeoJSONFeatureCollection, error) {
	g := run.Grid
	fc := make(geom.GeoJSONFeatureCollection, 0, g.StreetCount()+len(run.Vehicles)+1)
	add := func(dir grid.Orientation, streets []grid.Street) error {
		for i, s := range streets {
			line, err := streetLine(s, dir, g.Length)
			if err != nil {
				return fmt.Errorf("%s street %d: %w", dir, i, err)
			}
			fc = append(fc, geom.GeoJSONFeature{
				Geometry: line,
				Properties: map[string]interface{}{
					"kind":     "street",
					"dir":      dir.String(),
					"street":   i,
					"identity": s.Identity,
					"vehicles": len(s.Positions),
				},
			})
		}
		return nil
	}
	if err := add(grid.Horizontal, g.Horizontal); err != nil {
		return nil, err
	}
	if err := add(grid.Vertical, g.Vertical); err != nil {
		return nil, err
	}

	obs, err := point(run.Observer.X(), run.Observer.Y())
	if err != nil {
		return nil, fmt.Errorf("observer: %w", err)
	}
	fc = append(fc, geom.GeoJSONFeature{
		ID:       "observer",
		Geometry: obs,
		Properties: map[string]interface{}{
			"kind":   "observer",
			"run_id": run.ID,
			"dir":    run.Observer.Dir.String(),
		},
	})
	for i, row := range run.VehicleRows() {
		pt, err := point(row.X, row.Y)
		if err != nil {
			return nil, fmt.Errorf("vehicle %d: %w", i, err)
		}
		fc = append(fc, geom.GeoJSONFeature{
			ID:       i,
			Geometry: pt,
			Properties: map[string]interface{}{
				"kind":     "vehicle",
				"dir":      run.Vehicles[i].Dir.String(),
				"class":    row.Class,
				"pathloss": row.Pathloss,
				"quality":  row.Quality,
				"in_range": row.InRange,
			},
		})
	}
	return fc, nil
}

// WriteGeoJSON encodes the features of run to w.
func WriteGeoJSON(w io.Writer, run *sim.Run) error {
	fc, err := Features(run)
	if err != nil {
		return fmt.Errorf("geojson: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}

// WriteGeoJSONFile writes the features of run to path.
func WriteGeoJSONFile(path string, run *sim.Run) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteGeoJSON(f, run); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
