// Package visibility classifies vehicles by their radio path to the observer.
package visibility

import (
	"fmt"
	"math"

	"manhattan-sim/internal/grid"
)

// Class is the visibility of one vehicle relative to the observer.
type Class uint8

const (
	// LOS is the nearest vehicle ahead or behind on the observer's street.
	LOS Class = iota
	// OLOS is a same-street vehicle blocked by the LOS vehicle on its side.
	OLOS
	// NLOS is a vehicle on a crossing street, reached by diffraction at the corner.
	NLOS
	// Unreachable is a vehicle on a parallel street.
	Unreachable
)

// Classes lists every class in declaration order.
var Classes = []Class{LOS, OLOS, NLOS, Unreachable}

// String returns the lower-case class label used in logs and rows.
func (c Class) String() string {
	switch c {
	case LOS:
		return "los"
	case OLOS:
		return "olos"
	case NLOS:
		return "nlos"
	case Unreachable:
		return "unreachable"
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// ParseClass is the inverse of Class.String.
func ParseClass(s string) (Class, error) {
	for _, c := range Classes {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown visibility class %q", s)
}

// Classification tags each vehicle index of a population with its class.
type Classification struct {
	Classes []Class
}

// Len returns the number of classified vehicles.
func (c Classification) Len() int { return len(c.Classes) }

// Indices returns the ascending vehicle indices of class cl.
func (c Classification) Indices(cl Class) []int {
	var idx []int
	for i, v := range c.Classes {
		if v == cl {
			idx = append(idx, i)
		}
	}
	return idx
}

// Count returns how many vehicles belong to class cl.
func (c Classification) Count(cl Class) int {
	n := 0
	for _, v := range c.Classes {
		if v == cl {
			n++
		}
	}
	return n
}

// SameStreet returns the indices classified LOS or OLOS.
func (c Classification) SameStreet() []int {
	var idx []int
	for i, v := range c.Classes {
		if v == LOS || v == OLOS {
			idx = append(idx, i)
		}
	}
	return idx
}

// OnSameStreet reports whether v shares the observer's street: same
// orientation and exactly the same identity coordinate.
func OnSameStreet(v, observer grid.Vehicle) bool {
	return v.Dir == observer.Dir && v.Identity() == observer.Identity()
}

// Classify partitions vehicles (observer excluded) into LOS, OLOS, NLOS and
// Unreachable. On the observer's street the closest vehicle on each side is
// LOS; a side without vehicles contributes no LOS vehicle. A vehicle at zero
// offset has no side and is OLOS.
func Classify(vehicles []grid.Vehicle, observer grid.Vehicle) Classification {
	classes := make([]Class, len(vehicles))
	along := observer.Dir.AlongAxis()

	ahead, behind := -1, -1
	minPos, maxNeg := math.Inf(1), math.Inf(-1)
	for i, v := range vehicles {
		if !OnSameStreet(v, observer) {
			if v.Dir != observer.Dir {
				classes[i] = NLOS
			} else {
				classes[i] = Unreachable
			}
			continue
		}
		classes[i] = OLOS
		offset := observer.Coords[along] - v.Coords[along]
		switch {
		case offset > 0 && offset < minPos:
			ahead, minPos = i, offset
		case offset < 0 && offset > maxNeg:
			behind, maxNeg = i, offset
		}
	}
	if ahead >= 0 {
		classes[ahead] = LOS
	}
	if behind >= 0 {
		classes[behind] = LOS
	}
	return Classification{Classes: classes}
}
