// Vehicle and street types for the Manhattan grid
package grid

// Orientation tells which coordinate of a vehicle identifies its street.
// The identity coordinate lives at index int(o), the along-street coordinate
// at index 1-int(o), so both street directions share one code path.
type Orientation uint8

const (
	// Vertical streets run along axis 1; their identity coordinate is X.
	Vertical Orientation = 0
	// Horizontal streets run along axis 0; their identity coordinate is Y.
	Horizontal Orientation = 1
)

// IdentityAxis returns the index of the street-identity coordinate.
func (o Orientation) IdentityAxis() int { return int(o) }

// AlongAxis returns the index of the along-street coordinate.
func (o Orientation) AlongAxis() int { return 1 - int(o) }

// String returns "horizontal" or "vertical".
func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Vehicle is a point on a street.
type Vehicle struct {
	Coords [2]float64
	Dir    Orientation
}

// Identity returns the coordinate shared by every vehicle on the same street.
func (v Vehicle) Identity() float64 { return v.Coords[v.Dir.IdentityAxis()] }

// Along returns the position of the vehicle along its street.
func (v Vehicle) Along() float64 { return v.Coords[v.Dir.AlongAxis()] }

// X returns the horizontal coordinate.
func (v Vehicle) X() float64 { return v.Coords[0] }

// Y returns the vertical coordinate.
func (v Vehicle) Y() float64 { return v.Coords[1] }

// Street is one generated street: its identity coordinate and the along-street
// positions of the vehicles placed on it.
type Street struct {
	Identity  float64
	Positions []float64
}

// Grid is the output of one generation pass.
type Grid struct {
	Length     float64
	Horizontal []Street
	Vertical   []Street
	Vehicles   []Vehicle
}

// StreetCount returns the number of streets of both orientations.
func (g *Grid) StreetCount() int { return len(g.Horizontal) + len(g.Vertical) }
